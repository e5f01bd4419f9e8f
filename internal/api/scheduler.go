package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aurum-network/aurum/internal/infra/observability"
)

type scheduleRequest struct {
	Caller        string `json:"caller"`
	From          string `json:"from,omitempty"`
	To            string `json:"to"`
	Amount        string `json:"amount"`
	ExecutionDate string `json:"execution_date"`
	Description   string `json:"description,omitempty"`
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	from := req.From
	if from == "" {
		from = req.Caller
	}
	st, err := s.sched.Schedule(r.Context(), req.Caller, from, req.To, req.Amount, req.ExecutionDate, req.Description)
	respond(w, "schedule_transaction", st, err)
}

func (s *Server) handleCancelScheduled(w http.ResponseWriter, r *http.Request) {
	var req callerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	st, err := s.sched.Cancel(r.Context(), req.Caller, chi.URLParam(r, "id"))
	respond(w, "cancel_transaction", st, err)
}

func (s *Server) handleExecuteScheduled(w http.ResponseWriter, r *http.Request) {
	var req callerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	st, err := s.sched.Execute(r.Context(), req.Caller, chi.URLParam(r, "id"))
	respond(w, "execute_transaction", st, err)
}

func (s *Server) handleGetScheduled(w http.ResponseWriter, r *http.Request) {
	st, err := s.sched.GetScheduled(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type createRecurringRequest struct {
	Caller    string `json:"caller"`
	From      string `json:"from,omitempty"`
	To        string `json:"to"`
	Amount    string `json:"amount"`
	Frequency string `json:"frequency"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req createRecurringRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	from := req.From
	if from == "" {
		from = req.Caller
	}
	rt, err := s.sched.CreateRecurring(r.Context(), req.Caller, from, req.To, req.Amount, req.Frequency, req.StartDate, req.EndDate)
	respond(w, "create_recurring", rt, err)
}

func (s *Server) handleCancelRecurring(w http.ResponseWriter, r *http.Request) {
	var req callerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	rt, err := s.sched.CancelRecurring(r.Context(), req.Caller, chi.URLParam(r, "id"))
	respond(w, "cancel_recurring", rt, err)
}

func (s *Server) handleExecuteRecurring(w http.ResponseWriter, r *http.Request) {
	rt, err := s.sched.ExecuteRecurring(r.Context(), chi.URLParam(r, "id"))
	respond(w, "execute_recurring", rt, err)
}

func (s *Server) handleGetRecurring(w http.ResponseWriter, r *http.Request) {
	rt, err := s.sched.GetRecurring(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	res, err := s.sched.Sweep(r.Context())
	observability.Observe("sweep", err)
	if err != nil {
		writeError(w, err)
		return
	}
	observability.SweepRuns.Inc()
	observability.SweepSettled.WithLabelValues("scheduled", "executed").Add(float64(res.ScheduledExecuted))
	observability.SweepSettled.WithLabelValues("scheduled", "failed").Add(float64(res.ScheduledFailed))
	observability.SweepSettled.WithLabelValues("recurring", "executed").Add(float64(res.RecurringExecuted))
	writeJSON(w, http.StatusOK, res)
}
