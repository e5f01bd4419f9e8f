// Package api provides the HTTP surface of the ledger daemon. Every
// state-changing route carries an explicit "caller" identity in the request
// body; amounts travel as decimal strings end to end.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aurum-network/aurum/internal/app/governance"
	"github.com/aurum-network/aurum/internal/app/scheduler"
	"github.com/aurum-network/aurum/internal/app/staking"
	"github.com/aurum-network/aurum/internal/app/token"
	"github.com/aurum-network/aurum/internal/app/wallet"
	"github.com/aurum-network/aurum/internal/domain"
	"github.com/aurum-network/aurum/internal/infra/observability"
	"github.com/aurum-network/aurum/internal/infra/statestore"
)

// Server is the ledger HTTP API server.
type Server struct {
	tokens  *token.Ledger
	stakes  *staking.Engine
	gov     *governance.Engine
	wallets *wallet.Manager
	sched   *scheduler.Engine

	metricsEnabled bool
}

// NewServer creates a new API server over the five engines.
func NewServer(tokens *token.Ledger, stakes *staking.Engine, gov *governance.Engine, wallets *wallet.Manager, sched *scheduler.Engine) *Server {
	return &Server{tokens: tokens, stakes: stakes, gov: gov, wallets: wallets, sched: sched}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Route("/token", func(r chi.Router) {
			r.Post("/init", s.handleInitSupply)
			r.Post("/transfer", s.handleTransfer)
			r.Post("/approve", s.handleApprove)
			r.Post("/transfer-from", s.handleTransferFrom)
			r.Post("/mint", s.handleMint)
			r.Post("/burn", s.handleBurn)
			r.Get("/supply", s.handleSupply)
			r.Get("/balance/{address}", s.handleBalance)
			r.Get("/allowance/{owner}/{spender}", s.handleAllowance)
		})

		r.Route("/stakes", func(r chi.Router) {
			r.Post("/", s.handleStake)
			r.Post("/{id}/unstake", s.handleUnstake)
			r.Get("/{id}", s.handleGetStake)
			r.Get("/", s.handleListStakes)
		})

		r.Route("/proposals", func(r chi.Router) {
			r.Post("/", s.handleCreateProposal)
			r.Post("/{id}/vote", s.handleVote)
			r.Post("/{id}/finalize", s.handleFinalize)
			r.Post("/{id}/execute", s.handleExecuteProposal)
			r.Get("/{id}", s.handleGetProposal)
			r.Get("/", s.handleListProposals)
		})

		r.Route("/wallets", func(r chi.Router) {
			r.Post("/", s.handleCreateWallet)
			r.Post("/{userID}/status", s.handleUpdateStatus)
			r.Post("/{userID}/limit", s.handleUpdateLimit)
			r.Post("/{userID}/transactions", s.handleRecordTransaction)
			r.Get("/{userID}", s.handleGetWallet)
			r.Get("/{userID}/transactions", s.handleListHistory)
		})

		r.Route("/scheduled", func(r chi.Router) {
			r.Post("/", s.handleSchedule)
			r.Post("/{id}/cancel", s.handleCancelScheduled)
			r.Post("/{id}/execute", s.handleExecuteScheduled)
			r.Get("/{id}", s.handleGetScheduled)
		})

		r.Route("/recurring", func(r chi.Router) {
			r.Post("/", s.handleCreateRecurring)
			r.Post("/{id}/cancel", s.handleCancelRecurring)
			r.Post("/{id}/execute", s.handleExecuteRecurring)
			r.Get("/{id}", s.handleGetRecurring)
		})

		r.Post("/sweep", s.handleSweep)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error onto an HTTP status and writes it.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]interface{}{
		"error": map[string]interface{}{
			"message": err.Error(),
			"type":    "error",
		},
	})
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}

// statusFor classifies errors into HTTP status codes. Unknown errors are
// internal; everything the engines return deliberately is one of the
// sentinel kinds below.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrStakeNotFound),
		errors.Is(err, domain.ErrProposalNotFound),
		errors.Is(err, domain.ErrWalletNotFound),
		errors.Is(err, domain.ErrScheduledNotFound),
		errors.Is(err, domain.ErrRecurringNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, domain.ErrMissingArgument),
		errors.Is(err, domain.ErrInvalidChoice),
		errors.Is(err, domain.ErrInvalidWalletType),
		errors.Is(err, domain.ErrInvalidWalletStatus),
		errors.Is(err, domain.ErrInvalidTxType),
		errors.Is(err, domain.ErrInvalidFrequency),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrDateNotFuture):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrInsufficientAllowance),
		errors.Is(err, domain.ErrQuotaExceeded),
		errors.Is(err, domain.ErrBelowVoteThreshold),
		errors.Is(err, domain.ErrLimitTooHigh):
		return http.StatusUnprocessableEntity
	case errors.Is(err, statestore.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAlreadyClaimed),
		errors.Is(err, domain.ErrStakeNotMatured),
		errors.Is(err, domain.ErrVotingClosed),
		errors.Is(err, domain.ErrVotingOpen),
		errors.Is(err, domain.ErrAlreadyVoted),
		errors.Is(err, domain.ErrNotApproved),
		errors.Is(err, domain.ErrAlreadyExecuted),
		errors.Is(err, domain.ErrNotActive),
		errors.Is(err, domain.ErrNotExecutable),
		errors.Is(err, domain.ErrWalletExists),
		errors.Is(err, domain.ErrWalletNotActive):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respond finishes a mutating handler: records the outcome metric and writes
// either the error or the result.
func respond(w http.ResponseWriter, op string, v interface{}, err error) {
	observability.Observe(op, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
