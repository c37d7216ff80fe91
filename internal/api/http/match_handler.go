package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"givecycle-backend/internal/domain"
	"givecycle-backend/internal/service"
)

type MatchHandler struct {
	matching    service.MatchingService
	settlement  service.SettlementService
	eligibility service.EligibilityService
}

func NewMatchHandler(matching service.MatchingService, settlement service.SettlementService, eligibility service.EligibilityService) *MatchHandler {
	return &MatchHandler{matching: matching, settlement: settlement, eligibility: eligibility}
}

type findMatchRequest struct {
	AmountCents int64                   `json:"amount_cents"`
	Preferences domain.MatchPreferences `json:"preferences"`
}

func (h *MatchHandler) FindMatch(w http.ResponseWriter, r *http.Request) {
	var req findMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	match, err := h.matching.FindBestMatch(r.Context(), userIDFromContext(r.Context()), req.AmountCents, req.Preferences)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"match": match})
}

func (h *MatchHandler) AcceptMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid match id"})
		return
	}

	txn, err := h.settlement.AcceptMatch(r.Context(), userIDFromContext(r.Context()), matchID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transaction": txn})
}

type rejectMatchRequest struct {
	Reason string `json:"reason"`
}

func (h *MatchHandler) RejectMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid match id"})
		return
	}

	var req rejectMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.settlement.RejectMatch(r.Context(), userIDFromContext(r.Context()), matchID, req.Reason); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *MatchHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	eligibility, err := h.eligibility.CheckEligibility(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, eligibility)
}
