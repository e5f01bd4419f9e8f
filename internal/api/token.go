package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type initSupplyRequest struct {
	Caller      string `json:"caller"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    int    `json:"decimals"`
	TotalSupply string `json:"total_supply"`
	Owner       string `json:"owner"`
}

func (s *Server) handleInitSupply(w http.ResponseWriter, r *http.Request) {
	var req initSupplyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	owner := req.Owner
	if owner == "" {
		owner = req.Caller
	}
	cfg, err := s.tokens.InitSupply(r.Context(), req.Name, req.Symbol, req.Decimals, req.TotalSupply, owner)
	respond(w, "init_supply", cfg, err)
}

type transferRequest struct {
	Caller string `json:"caller"`
	From   string `json:"from,omitempty"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	err := s.tokens.Transfer(r.Context(), req.Caller, req.To, req.Amount)
	respond(w, "transfer", map[string]string{"status": "ok"}, err)
}

type approveRequest struct {
	Caller  string `json:"caller"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	err := s.tokens.Approve(r.Context(), req.Caller, req.Spender, req.Amount)
	respond(w, "approve", map[string]string{"status": "ok"}, err)
}

func (s *Server) handleTransferFrom(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	err := s.tokens.TransferFrom(r.Context(), req.Caller, req.From, req.To, req.Amount)
	respond(w, "transfer_from", map[string]string{"status": "ok"}, err)
}

func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	err := s.tokens.Mint(r.Context(), req.Caller, req.To, req.Amount)
	respond(w, "mint", map[string]string{"status": "ok"}, err)
}

type burnRequest struct {
	Caller string `json:"caller"`
	Amount string `json:"amount"`
}

func (s *Server) handleBurn(w http.ResponseWriter, r *http.Request) {
	var req burnRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	err := s.tokens.Burn(r.Context(), req.Caller, req.Amount)
	respond(w, "burn", map[string]string{"status": "ok"}, err)
}

func (s *Server) handleSupply(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.tokens.Supply(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	bal, err := s.tokens.BalanceOf(r.Context(), chi.URLParam(r, "address"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"balance": bal.String()})
}

func (s *Server) handleAllowance(w http.ResponseWriter, r *http.Request) {
	allowance, err := s.tokens.AllowanceOf(r.Context(), chi.URLParam(r, "owner"), chi.URLParam(r, "spender"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"allowance": allowance.String()})
}
