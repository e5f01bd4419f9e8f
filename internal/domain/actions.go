package domain

import (
	"encoding/json"
	"fmt"
)

// ─── Governance Actions ─────────────────────────────────────────────────────
// Proposal actions are a tagged union keyed by the "type" discriminator.
// Params stay raw until dispatch; Decode validates them against the schema
// for the declared type. Unknown types are preserved and surface as a
// structured failure at execution time instead of rejecting the proposal.

// ActionType discriminates the action union.
type ActionType string

const (
	ActionMint            ActionType = "mint"
	ActionBurn            ActionType = "burn"
	ActionParameterChange ActionType = "parameter_change"
)

// Action is one opaque structured action document attached to a proposal.
type Action struct {
	Type   ActionType      `json:"type"`
	Params json.RawMessage `json:"params,omitempty"`
}

// MintActionParams mints new supply to an address.
type MintActionParams struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// BurnActionParams burns supply from an address.
type BurnActionParams struct {
	From   string `json:"from"`
	Amount string `json:"amount"`
}

// ParameterChangeParams updates one field of a ledger-resident config record.
type ParameterChangeParams struct {
	Config string `json:"config"` // "token", "governance", "wallet"
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// DecodeParams unmarshals and validates the params document for the action's
// declared type. The returned value is one of the *ActionParams structs.
func (a Action) DecodeParams() (any, error) {
	switch a.Type {
	case ActionMint:
		var p MintActionParams
		if err := json.Unmarshal(a.Params, &p); err != nil {
			return nil, fmt.Errorf("decode mint params: %w", err)
		}
		if p.To == "" {
			return nil, fmt.Errorf("%w: mint action requires to", ErrMissingArgument)
		}
		if _, err := ParsePositiveAmount(p.Amount); err != nil {
			return nil, err
		}
		return p, nil
	case ActionBurn:
		var p BurnActionParams
		if err := json.Unmarshal(a.Params, &p); err != nil {
			return nil, fmt.Errorf("decode burn params: %w", err)
		}
		if p.From == "" {
			return nil, fmt.Errorf("%w: burn action requires from", ErrMissingArgument)
		}
		if _, err := ParsePositiveAmount(p.Amount); err != nil {
			return nil, err
		}
		return p, nil
	case ActionParameterChange:
		var p ParameterChangeParams
		if err := json.Unmarshal(a.Params, &p); err != nil {
			return nil, fmt.Errorf("decode parameter_change params: %w", err)
		}
		if p.Config == "" || p.Key == "" {
			return nil, fmt.Errorf("%w: parameter_change requires config and key", ErrMissingArgument)
		}
		return p, nil
	}
	return nil, fmt.Errorf("unknown action type %q", a.Type)
}

// ParseActions parses a JSON array of action documents.
func ParseActions(raw string) ([]Action, error) {
	if raw == "" {
		return nil, nil
	}
	var actions []Action
	if err := json.Unmarshal([]byte(raw), &actions); err != nil {
		return nil, fmt.Errorf("parse actions: %w", err)
	}
	return actions, nil
}
