package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"givecycle-backend/internal/service"
)

type DonationHandler struct {
	settlement service.SettlementService
}

func NewDonationHandler(settlement service.SettlementService) *DonationHandler {
	return &DonationHandler{settlement: settlement}
}

type initiateDonationRequest struct {
	AmountCents int64                     `json:"amount_cents"`
	Recipient   service.RecipientSelection `json:"recipient"`
}

func (h *DonationHandler) InitiateDonation(w http.ResponseWriter, r *http.Request) {
	var req initiateDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	donorID := userIDFromContext(r.Context())
	txn, match, err := h.settlement.InitiateDonation(r.Context(), donorID, req.AmountCents, req.Recipient)
	if err != nil {
		respondError(w, err)
		return
	}
	if match != nil {
		respondJSON(w, http.StatusAccepted, map[string]any{"match": match})
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"transaction": txn})
}

type confirmReceiptRequest struct {
	Confirm bool `json:"confirm"`
}

func (h *DonationHandler) ConfirmReceipt(w http.ResponseWriter, r *http.Request) {
	transactionID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid transaction id"})
		return
	}

	var req confirmReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	txn, err := h.settlement.ConfirmReceipt(r.Context(), userIDFromContext(r.Context()), transactionID, req.Confirm)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transaction": txn})
}

type requestToReceiveRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

func (h *DonationHandler) RequestToReceive(w http.ResponseWriter, r *http.Request) {
	var req requestToReceiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	cycle, err := h.settlement.RequestToReceive(r.Context(), userIDFromContext(r.Context()), req.AmountCents)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"cycle": cycle})
}
