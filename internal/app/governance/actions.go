// Package governance implements the proposal lifecycle and token-weighted
// voting, with a pluggable action dispatch registry for approved proposals.
package governance

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/aurum-network/aurum/internal/app/token"
	"github.com/aurum-network/aurum/internal/domain"
	"github.com/aurum-network/aurum/internal/infra/statestore"
)

// ActionHandler applies one decoded action inside the executing invocation.
type ActionHandler func(tx statestore.Tx, act domain.Action) error

// ActionRegistry maps action types to handlers, so new action kinds can be
// added without touching the proposal state machine.
type ActionRegistry struct {
	mu       sync.RWMutex
	handlers map[domain.ActionType]ActionHandler
}

// NewActionRegistry creates an empty registry.
func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{handlers: make(map[domain.ActionType]ActionHandler)}
}

// Register adds or replaces the handler for an action type.
func (r *ActionRegistry) Register(t domain.ActionType, h ActionHandler) {
	r.mu.Lock()
	r.handlers[t] = h
	r.mu.Unlock()
}

// Dispatch runs the handler for the action's type. An unregistered type is a
// structured failure, not a panic and not a revert of the surrounding
// proposal bookkeeping.
func (r *ActionRegistry) Dispatch(tx statestore.Tx, act domain.Action) error {
	r.mu.RLock()
	h, ok := r.handlers[act.Type]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unsupported action type %q", act.Type)
	}
	return h(tx, act)
}

// Types returns the registered action types, sorted.
func (r *ActionRegistry) Types() []domain.ActionType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ActionType, 0, len(r.handlers))
	for t := range r.handlers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ─── Built-in Handlers ──────────────────────────────────────────────────────

// DefaultRegistry returns a registry with the built-in mint, burn and
// parameter_change handlers.
func DefaultRegistry() *ActionRegistry {
	r := NewActionRegistry()
	r.Register(domain.ActionMint, handleMint)
	r.Register(domain.ActionBurn, handleBurn)
	r.Register(domain.ActionParameterChange, handleParameterChange)
	return r
}

func handleMint(tx statestore.Tx, act domain.Action) error {
	decoded, err := act.DecodeParams()
	if err != nil {
		return err
	}
	p := decoded.(domain.MintActionParams)
	amt, err := domain.ParsePositiveAmount(p.Amount)
	if err != nil {
		return err
	}
	sc, err := token.ReadSupply(tx)
	if err != nil {
		return err
	}
	sc.TotalSupply = sc.TotalSupply.Add(amt)
	if err := token.WriteSupply(tx, sc); err != nil {
		return err
	}
	if err := token.Credit(tx, p.To, amt); err != nil {
		return err
	}
	tx.Emit(domain.EventMint, map[string]string{"to": p.To, "amount": amt.String()})
	return nil
}

func handleBurn(tx statestore.Tx, act domain.Action) error {
	decoded, err := act.DecodeParams()
	if err != nil {
		return err
	}
	p := decoded.(domain.BurnActionParams)
	amt, err := domain.ParsePositiveAmount(p.Amount)
	if err != nil {
		return err
	}
	if err := token.Debit(tx, p.From, amt); err != nil {
		return err
	}
	sc, err := token.ReadSupply(tx)
	if err != nil {
		return err
	}
	sc.TotalSupply = sc.TotalSupply.Sub(amt)
	if err := token.WriteSupply(tx, sc); err != nil {
		return err
	}
	tx.Emit(domain.EventBurn, map[string]string{"from": p.From, "amount": amt.String()})
	return nil
}

// handleParameterChange updates one field of a ledger-resident config record.
// The record is decoded into a generic document, the field replaced, and the
// result written back; engines re-read config every invocation so the change
// takes effect immediately.
func handleParameterChange(tx statestore.Tx, act domain.Action) error {
	decoded, err := act.DecodeParams()
	if err != nil {
		return err
	}
	p := decoded.(domain.ParameterChangeParams)

	key, ok := configKeys[p.Config]
	if !ok {
		return fmt.Errorf("unknown config record %q", p.Config)
	}
	raw, found, err := tx.Get(key)
	if err != nil {
		return err
	}
	doc := make(map[string]json.RawMessage)
	if found {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
	}
	if _, exists := doc[p.Key]; !found || !exists {
		return fmt.Errorf("config %q has no field %q", p.Config, p.Key)
	}
	// Numbers and booleans pass through as-is; anything else is stored as a
	// JSON string.
	if json.Valid([]byte(p.Value)) {
		doc[p.Key] = json.RawMessage(p.Value)
	} else {
		quoted, err := json.Marshal(p.Value)
		if err != nil {
			return err
		}
		doc[p.Key] = quoted
	}
	updated, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return tx.Put(key, updated)
}

// configKeys maps the parameter_change "config" discriminator to store keys.
var configKeys = map[string]string{
	"governance": ConfigKey,
	"staking":    "config:staking",
	"wallet":     "config:wallet",
}
