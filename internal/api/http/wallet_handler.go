package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"givecycle-backend/internal/service"
)

type WalletHandler struct {
	wallets       service.WalletService
	notifications service.NotificationService
}

func NewWalletHandler(wallets service.WalletService, notifications service.NotificationService) *WalletHandler {
	return &WalletHandler{wallets: wallets, notifications: notifications}
}

func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.wallets.GetWallet(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, wallet)
}

func (h *WalletHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	txns, total, err := h.wallets.GetTransactions(r.Context(), userIDFromContext(r.Context()), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transactions": txns, "total": total})
}

func (h *WalletHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := int32(25)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n > 0 && n <= 100 {
			limit = int32(n)
		}
	}
	entries, err := h.wallets.GetLeaderboard(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}

func (h *WalletHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	notes, total, err := h.notifications.GetNotifications(r.Context(), userIDFromContext(r.Context()), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"notifications": notes, "total": total})
}

func (h *WalletHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	noteID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid notification id"})
		return
	}
	if err := h.notifications.MarkAsRead(r.Context(), userIDFromContext(r.Context()), noteID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n > 0 {
			page = int32(n)
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n > 0 && n <= 100 {
			pageSize = int32(n)
		}
	}
	return page, pageSize
}
