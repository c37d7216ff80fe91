package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"givecycle-backend/internal/security"
)

// NewRouter wires the JSON API. Every route below /api/v1 requires a valid
// bearer token.
func NewRouter(tm security.TokenManager, donations *DonationHandler, matches *MatchHandler, wallets *WalletHandler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tm))

	api.HandleFunc("/donations", donations.InitiateDonation).Methods(http.MethodPost)
	api.HandleFunc("/donations/{id:[0-9]+}/confirm", donations.ConfirmReceipt).Methods(http.MethodPost)
	api.HandleFunc("/cycles/request", donations.RequestToReceive).Methods(http.MethodPost)

	api.HandleFunc("/matches/find", matches.FindMatch).Methods(http.MethodPost)
	api.HandleFunc("/matches/{id:[0-9]+}/accept", matches.AcceptMatch).Methods(http.MethodPost)
	api.HandleFunc("/matches/{id:[0-9]+}/reject", matches.RejectMatch).Methods(http.MethodPost)
	api.HandleFunc("/eligibility", matches.CheckEligibility).Methods(http.MethodGet)

	api.HandleFunc("/wallet", wallets.GetWallet).Methods(http.MethodGet)
	api.HandleFunc("/wallet/transactions", wallets.ListTransactions).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", wallets.GetLeaderboard).Methods(http.MethodGet)
	api.HandleFunc("/notifications", wallets.ListNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id:[0-9]+}/read", wallets.MarkNotificationRead).Methods(http.MethodPost)

	return r
}
