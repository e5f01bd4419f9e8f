package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aurum-network/aurum/internal/domain"
)

type stakeRequest struct {
	Caller       string `json:"caller"`
	Amount       string `json:"amount"`
	DurationDays string `json:"duration_days"`
}

func (s *Server) handleStake(w http.ResponseWriter, r *http.Request) {
	var req stakeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	st, err := s.stakes.Stake(r.Context(), req.Caller, req.Amount, req.DurationDays)
	respond(w, "stake", st, err)
}

type callerRequest struct {
	Caller string `json:"caller"`
}

func (s *Server) handleUnstake(w http.ResponseWriter, r *http.Request) {
	var req callerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	st, err := s.stakes.Unstake(r.Context(), req.Caller, chi.URLParam(r, "id"))
	respond(w, "unstake", st, err)
}

func (s *Server) handleGetStake(w http.ResponseWriter, r *http.Request) {
	st, err := s.stakes.GetStake(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleListStakes(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	stakes, err := s.stakes.ListStakes(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	if stakes == nil {
		stakes = []domain.Stake{}
	}
	writeJSON(w, http.StatusOK, stakes)
}
