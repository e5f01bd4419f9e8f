// Package scheduler implements single-shot scheduled transfers and recurring
// transfer templates. Nothing here runs on a timer: every time-based
// transition is a wall-clock comparison made when some caller invokes the
// transition method (or the sweep, which is just such a caller).
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aurum-network/aurum/internal/app/token"
	"github.com/aurum-network/aurum/internal/domain"
	"github.com/aurum-network/aurum/internal/infra/statestore"
)

const (
	scheduledPrefix = "schedtx:"
	recurringPrefix = "recurtx:"
)

// ScheduledKey returns the store key for a scheduled transaction id.
func ScheduledKey(id string) string { return scheduledPrefix + id }

// RecurringKey returns the store key for a recurring template id.
func RecurringKey(id string) string { return recurringPrefix + id }

// Engine is the transaction scheduler.
type Engine struct {
	store statestore.Store
	clock domain.Clock
}

// NewEngine creates the scheduler engine.
func NewEngine(store statestore.Store, clock domain.Clock) *Engine {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Engine{store: store, clock: clock}
}

type schedPayload struct {
	ID     string `json:"id"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Amount string `json:"amount,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// ─── Scheduled Transactions ─────────────────────────────────────────────────

// Schedule registers a single future-dated transfer. The caller must be the
// sender and the execution date must be strictly in the future.
func (e *Engine) Schedule(ctx context.Context, caller, from, to, amount, executionDate, description string) (domain.ScheduledTransaction, error) {
	amt, err := domain.ParsePositiveAmount(amount)
	if err != nil {
		return domain.ScheduledTransaction{}, err
	}
	if from == "" || to == "" {
		return domain.ScheduledTransaction{}, fmt.Errorf("%w: sender and recipient", domain.ErrMissingArgument)
	}
	if caller != from {
		return domain.ScheduledTransaction{}, fmt.Errorf("%w: only the sender may schedule", domain.ErrUnauthorized)
	}
	execAt, err := time.Parse(time.RFC3339, executionDate)
	if err != nil {
		return domain.ScheduledTransaction{}, fmt.Errorf("%w: execution date %q", domain.ErrMissingArgument, executionDate)
	}

	var st domain.ScheduledTransaction
	err = e.store.Update(ctx, func(tx statestore.Tx) error {
		now := e.clock.Now()
		if !execAt.After(now) {
			return fmt.Errorf("%w: %s", domain.ErrDateNotFuture, executionDate)
		}
		st = domain.ScheduledTransaction{
			ID:            uuid.NewString(),
			From:          from,
			To:            to,
			Amount:        amt,
			Description:   description,
			ScheduledDate: now,
			ExecutionDate: execAt,
			Status:        domain.ScheduledTxScheduled,
		}
		if err := statestore.PutJSON(tx, ScheduledKey(st.ID), st); err != nil {
			return err
		}
		tx.Emit(domain.EventTxScheduled, schedPayload{ID: st.ID, From: from, To: to, Amount: amt.String()})
		return nil
	})
	return st, err
}

// Cancel cancels a still-scheduled transaction. Only the sender may cancel,
// and cancellation is terminal.
func (e *Engine) Cancel(ctx context.Context, caller, id string) (domain.ScheduledTransaction, error) {
	var st domain.ScheduledTransaction
	err := e.store.Update(ctx, func(tx statestore.Tx) error {
		ok, err := statestore.GetJSON(tx, ScheduledKey(id), &st)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrScheduledNotFound, id)
		}
		if caller != st.From {
			return fmt.Errorf("%w: only the sender may cancel", domain.ErrUnauthorized)
		}
		if st.Status != domain.ScheduledTxScheduled {
			return fmt.Errorf("%w: transaction is %s", domain.ErrNotActive, st.Status)
		}
		st.Status = domain.ScheduledTxCancelled
		if err := statestore.PutJSON(tx, ScheduledKey(id), st); err != nil {
			return err
		}
		tx.Emit(domain.EventTxCancelled, schedPayload{ID: id})
		return nil
	})
	return st, err
}

// Execute settles a scheduled transaction. Before the execution date only the
// sender may trigger it; at or after the date any caller may — settlement is
// deliberately permissionless so no central scheduler actor is needed. A
// transfer failure is committed as status=failed with the reason; in either
// case the resulting status is terminal.
func (e *Engine) Execute(ctx context.Context, caller, id string) (domain.ScheduledTransaction, error) {
	var st domain.ScheduledTransaction
	err := e.store.Update(ctx, func(tx statestore.Tx) error {
		ok, err := statestore.GetJSON(tx, ScheduledKey(id), &st)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrScheduledNotFound, id)
		}
		if st.Status != domain.ScheduledTxScheduled {
			return fmt.Errorf("%w: transaction is %s", domain.ErrNotActive, st.Status)
		}
		now := e.clock.Now()
		if now.Before(st.ExecutionDate) && caller != st.From {
			return fmt.Errorf("%w: early execution requires the sender", domain.ErrUnauthorized)
		}

		if err := token.Move(tx, st.From, st.To, st.Amount); err != nil {
			if !errors.Is(err, domain.ErrInsufficientBalance) {
				return err
			}
			st.Status = domain.ScheduledTxFailed
			st.FailureReason = err.Error()
			if err := statestore.PutJSON(tx, ScheduledKey(id), st); err != nil {
				return err
			}
			tx.Emit(domain.EventTxFailed, schedPayload{ID: id, Reason: st.FailureReason})
			return nil
		}

		st.Status = domain.ScheduledTxExecuted
		st.ExecutedAt = &now
		if err := statestore.PutJSON(tx, ScheduledKey(id), st); err != nil {
			return err
		}
		tx.Emit(domain.EventTxExecuted, schedPayload{ID: id, From: st.From, To: st.To, Amount: st.Amount.String()})
		return nil
	})
	return st, err
}

// GetScheduled returns one scheduled transaction.
func (e *Engine) GetScheduled(ctx context.Context, id string) (domain.ScheduledTransaction, error) {
	var st domain.ScheduledTransaction
	err := e.store.View(ctx, func(tx statestore.Tx) error {
		ok, err := statestore.GetJSON(tx, ScheduledKey(id), &st)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrScheduledNotFound, id)
		}
		return nil
	})
	return st, err
}

// ListDue returns scheduled transactions whose execution date has arrived.
func (e *Engine) ListDue(ctx context.Context, now time.Time) ([]domain.ScheduledTransaction, error) {
	var out []domain.ScheduledTransaction
	err := e.store.View(ctx, func(tx statestore.Tx) error {
		kvs, err := tx.List(scheduledPrefix, 0)
		if err != nil {
			return err
		}
		for _, kv := range kvs {
			var st domain.ScheduledTransaction
			ok, err := statestore.GetJSON(tx, kv.Key, &st)
			if err != nil {
				return err
			}
			if ok && st.Status == domain.ScheduledTxScheduled && !now.Before(st.ExecutionDate) {
				out = append(out, st)
			}
		}
		return nil
	})
	return out, err
}

// ─── Recurring Transactions ─────────────────────────────────────────────────

// CreateRecurring registers a recurring transfer template. The first
// execution is due at the start date.
func (e *Engine) CreateRecurring(ctx context.Context, caller, from, to, amount, frequency, startDate, endDate string) (domain.RecurringTransaction, error) {
	amt, err := domain.ParsePositiveAmount(amount)
	if err != nil {
		return domain.RecurringTransaction{}, err
	}
	if from == "" || to == "" {
		return domain.RecurringTransaction{}, fmt.Errorf("%w: sender and recipient", domain.ErrMissingArgument)
	}
	if caller != from {
		return domain.RecurringTransaction{}, fmt.Errorf("%w: only the sender may create a template", domain.ErrUnauthorized)
	}
	freq, err := domain.ParseFrequency(frequency)
	if err != nil {
		return domain.RecurringTransaction{}, err
	}
	start, err := time.Parse(time.RFC3339, startDate)
	if err != nil {
		return domain.RecurringTransaction{}, fmt.Errorf("%w: start date %q", domain.ErrMissingArgument, startDate)
	}
	var end *time.Time
	if endDate != "" {
		t, err := time.Parse(time.RFC3339, endDate)
		if err != nil {
			return domain.RecurringTransaction{}, fmt.Errorf("%w: end date %q", domain.ErrMissingArgument, endDate)
		}
		if !t.After(start) {
			return domain.RecurringTransaction{}, fmt.Errorf("%w: end date before start", domain.ErrDateNotFuture)
		}
		end = &t
	}

	var rt domain.RecurringTransaction
	err = e.store.Update(ctx, func(tx statestore.Tx) error {
		rt = domain.RecurringTransaction{
			ID:                uuid.NewString(),
			From:              from,
			To:                to,
			Amount:            amt,
			Frequency:         freq,
			StartDate:         start,
			EndDate:           end,
			Status:            domain.RecurringTxActive,
			NextExecutionDate: start,
		}
		if err := statestore.PutJSON(tx, RecurringKey(rt.ID), rt); err != nil {
			return err
		}
		tx.Emit(domain.EventRecurringCreated, schedPayload{ID: rt.ID, From: from, To: to, Amount: amt.String()})
		return nil
	})
	return rt, err
}

// CancelRecurring cancels an active template. Only the sender may cancel.
func (e *Engine) CancelRecurring(ctx context.Context, caller, id string) (domain.RecurringTransaction, error) {
	var rt domain.RecurringTransaction
	err := e.store.Update(ctx, func(tx statestore.Tx) error {
		ok, err := statestore.GetJSON(tx, RecurringKey(id), &rt)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrRecurringNotFound, id)
		}
		if caller != rt.From {
			return fmt.Errorf("%w: only the sender may cancel", domain.ErrUnauthorized)
		}
		if rt.Status != domain.RecurringTxActive {
			return fmt.Errorf("%w: template is %s", domain.ErrNotActive, rt.Status)
		}
		rt.Status = domain.RecurringTxCancelled
		if err := statestore.PutJSON(tx, RecurringKey(id), rt); err != nil {
			return err
		}
		tx.Emit(domain.EventRecurringCancelled, schedPayload{ID: id})
		return nil
	})
	return rt, err
}

// ExecuteRecurring fires one due occurrence of a template: transfers the
// amount, increments the execution count and advances the next execution
// date by one period. When the advanced date passes the end date the template
// completes (terminal, distinct from cancelled). Any caller may trigger a due
// occurrence. A transfer failure aborts with no state change, leaving the
// occurrence due for retry.
func (e *Engine) ExecuteRecurring(ctx context.Context, id string) (domain.RecurringTransaction, error) {
	var rt domain.RecurringTransaction
	err := e.store.Update(ctx, func(tx statestore.Tx) error {
		ok, err := statestore.GetJSON(tx, RecurringKey(id), &rt)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrRecurringNotFound, id)
		}
		if rt.Status != domain.RecurringTxActive {
			return fmt.Errorf("%w: template is %s", domain.ErrNotActive, rt.Status)
		}
		now := e.clock.Now()
		if now.Before(rt.NextExecutionDate) {
			return fmt.Errorf("%w: due %s", domain.ErrNotExecutable, rt.NextExecutionDate.Format(time.RFC3339))
		}

		if err := token.Move(tx, rt.From, rt.To, rt.Amount); err != nil {
			return err
		}

		rt.ExecutionCount++
		rt.NextExecutionDate = rt.Frequency.Next(rt.NextExecutionDate)
		if rt.EndDate != nil && rt.NextExecutionDate.After(*rt.EndDate) {
			rt.Status = domain.RecurringTxCompleted
		}
		if err := statestore.PutJSON(tx, RecurringKey(id), rt); err != nil {
			return err
		}
		tx.Emit(domain.EventRecurringExecuted, schedPayload{ID: id, From: rt.From, To: rt.To, Amount: rt.Amount.String()})
		if rt.Status == domain.RecurringTxCompleted {
			tx.Emit(domain.EventRecurringCompleted, schedPayload{ID: id})
		}
		return nil
	})
	return rt, err
}

// GetRecurring returns one recurring template.
func (e *Engine) GetRecurring(ctx context.Context, id string) (domain.RecurringTransaction, error) {
	var rt domain.RecurringTransaction
	err := e.store.View(ctx, func(tx statestore.Tx) error {
		ok, err := statestore.GetJSON(tx, RecurringKey(id), &rt)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrRecurringNotFound, id)
		}
		return nil
	})
	return rt, err
}

// ─── Sweep ──────────────────────────────────────────────────────────────────

// SweepResult summarizes one sweep pass.
type SweepResult struct {
	ScheduledExecuted int `json:"scheduled_executed"`
	ScheduledFailed   int `json:"scheduled_failed"`
	RecurringExecuted int `json:"recurring_executed"`
	Errors            int `json:"errors"`
}

// Sweep settles every due scheduled transaction and fires every due
// recurring occurrence (a template several periods behind fires repeatedly
// until caught up). Each settlement is its own atomic invocation; the sweep
// itself is merely an external caller and holds no state.
func (e *Engine) Sweep(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	now := e.clock.Now()

	due, err := e.ListDue(ctx, now)
	if err != nil {
		return res, err
	}
	for _, st := range due {
		settled, err := e.Execute(ctx, st.From, st.ID)
		switch {
		case err != nil:
			res.Errors++
		case settled.Status == domain.ScheduledTxFailed:
			res.ScheduledFailed++
		default:
			res.ScheduledExecuted++
		}
	}

	var templates []domain.RecurringTransaction
	err = e.store.View(ctx, func(tx statestore.Tx) error {
		kvs, err := tx.List(recurringPrefix, 0)
		if err != nil {
			return err
		}
		for _, kv := range kvs {
			var rt domain.RecurringTransaction
			ok, err := statestore.GetJSON(tx, kv.Key, &rt)
			if err != nil {
				return err
			}
			if ok && rt.Status == domain.RecurringTxActive && !now.Before(rt.NextExecutionDate) {
				templates = append(templates, rt)
			}
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	for _, rt := range templates {
		for {
			fired, err := e.ExecuteRecurring(ctx, rt.ID)
			if err != nil {
				res.Errors++
				break
			}
			res.RecurringExecuted++
			if fired.Status != domain.RecurringTxActive || now.Before(fired.NextExecutionDate) {
				break
			}
		}
	}
	return res, nil
}
