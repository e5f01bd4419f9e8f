package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aurum-network/aurum/internal/domain"
)

type createWalletRequest struct {
	Caller string `json:"caller"`
	Type   string `json:"type"`
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var req createWalletRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	wlt, err := s.wallets.CreateWallet(r.Context(), req.Caller, req.Type)
	respond(w, "create_wallet", wlt, err)
}

type updateStatusRequest struct {
	Caller string `json:"caller"`
	Status string `json:"status"`
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	wlt, err := s.wallets.UpdateStatus(r.Context(), req.Caller, chi.URLParam(r, "userID"), req.Status)
	respond(w, "update_wallet_status", wlt, err)
}

type updateLimitRequest struct {
	Caller string `json:"caller"`
	Limit  string `json:"limit"`
}

func (s *Server) handleUpdateLimit(w http.ResponseWriter, r *http.Request) {
	var req updateLimitRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	wlt, err := s.wallets.UpdateDailyLimit(r.Context(), req.Caller, chi.URLParam(r, "userID"), req.Limit)
	respond(w, "update_wallet_limit", wlt, err)
}

type recordTxRequest struct {
	Caller      string `json:"caller"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

func (s *Server) handleRecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req recordTxRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	rec, err := s.wallets.RecordTransaction(r.Context(), req.Caller, chi.URLParam(r, "userID"), req.Amount, req.Type, req.Description)
	respond(w, "record_transaction", rec, err)
}

func (s *Server) handleGetWallet(w http.ResponseWriter, r *http.Request) {
	wlt, err := s.wallets.GetWallet(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wlt)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	history, err := s.wallets.ListHistory(r.Context(), chi.URLParam(r, "userID"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if history == nil {
		history = []domain.TransactionRecord{}
	}
	writeJSON(w, http.StatusOK, history)
}
