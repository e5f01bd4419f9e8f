package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aurum-network/aurum/internal/domain"
)

type createProposalRequest struct {
	Caller      string `json:"caller"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Actions     string `json:"actions"` // JSON array of actions
}

func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	var req createProposalRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, err := s.gov.CreateProposal(r.Context(), req.Caller, req.Title, req.Description, req.Actions)
	respond(w, "create_proposal", p, err)
}

type voteRequest struct {
	Caller string `json:"caller"`
	Choice string `json:"choice"`
	Weight string `json:"weight"`
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, err := s.gov.Vote(r.Context(), req.Caller, chi.URLParam(r, "id"), req.Choice, req.Weight)
	respond(w, "vote", p, err)
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	p, err := s.gov.FinalizeProposal(r.Context(), chi.URLParam(r, "id"))
	respond(w, "finalize_proposal", p, err)
}

func (s *Server) handleExecuteProposal(w http.ResponseWriter, r *http.Request) {
	p, err := s.gov.ExecuteProposal(r.Context(), chi.URLParam(r, "id"))
	respond(w, "execute_proposal", p, err)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	p, err := s.gov.GetProposal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	status := domain.ProposalStatus(r.URL.Query().Get("status"))
	proposals, err := s.gov.ListProposals(r.Context(), status)
	if err != nil {
		writeError(w, err)
		return
	}
	if proposals == nil {
		proposals = []domain.Proposal{}
	}
	writeJSON(w, http.StatusOK, proposals)
}
