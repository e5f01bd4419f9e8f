package governance

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aurum-network/aurum/internal/domain"
	"github.com/aurum-network/aurum/internal/infra/statestore"
)

const (
	ConfigKey      = "config:governance"
	proposalPrefix = "proposal:"
)

// ProposalKey returns the store key for a proposal id.
func ProposalKey(id string) string { return proposalPrefix + id }

// Engine is the governance engine. Vote weight is supplied by the caller
// (the gateway derives it); the engine checks it only against the configured
// minimum and never reads balances itself.
type Engine struct {
	store    statestore.Store
	clock    domain.Clock
	registry *ActionRegistry
}

// NewEngine creates the governance engine. A nil registry gets the built-in
// handlers.
func NewEngine(store statestore.Store, clock domain.Clock, registry *ActionRegistry) *Engine {
	if clock == nil {
		clock = domain.RealClock{}
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Engine{store: store, clock: clock, registry: registry}
}

// Registry exposes the action registry so callers can add handlers.
func (e *Engine) Registry() *ActionRegistry { return e.registry }

// readConfig loads the governance config record, falling back to defaults.
// Re-read at the start of every invocation, never cached.
func readConfig(tx statestore.Tx) (domain.GovernanceConfig, error) {
	cfg := domain.DefaultGovernanceConfig()
	if _, err := statestore.GetJSON(tx, ConfigKey, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

type proposalPayload struct {
	ID       string `json:"id"`
	Proposer string `json:"proposer,omitempty"`
	Status   string `json:"status,omitempty"`
	Title    string `json:"title,omitempty"`
}

// CreateProposal registers a new proposal in the active state.
//
// MinTokensToPropose is configured but deliberately not checked here: the
// reference behavior creates proposals without gatekeeping, and that gap is
// preserved rather than silently fixed.
func (e *Engine) CreateProposal(ctx context.Context, proposer, title, description, actionsJSON string) (domain.Proposal, error) {
	if proposer == "" || title == "" {
		return domain.Proposal{}, fmt.Errorf("%w: proposer and title", domain.ErrMissingArgument)
	}
	actions, err := domain.ParseActions(actionsJSON)
	if err != nil {
		return domain.Proposal{}, err
	}

	var p domain.Proposal
	err = e.store.Update(ctx, func(tx statestore.Tx) error {
		cfg, err := readConfig(tx)
		if err != nil {
			return err
		}
		now := e.clock.Now()
		votingEnd := now.AddDate(0, 0, int(cfg.VotingPeriodDays))
		p = domain.Proposal{
			ID:            uuid.NewString(),
			Title:         title,
			Description:   description,
			Actions:       actions,
			Proposer:      proposer,
			Status:        domain.ProposalActive,
			CreatedAt:     now,
			VotingEndDate: votingEnd,
			ExecutionDate: votingEnd.AddDate(0, 0, int(cfg.ExecutionDelayDays)),
			Voters:        make(map[string]domain.VoteRecord),
		}
		if err := statestore.PutJSON(tx, ProposalKey(p.ID), p); err != nil {
			return err
		}
		tx.Emit(domain.EventProposalCreated, proposalPayload{ID: p.ID, Proposer: proposer, Title: title})
		return nil
	})
	return p, err
}

// Vote registers one irrevocable vote. Exactly one vote per address, enforced
// by membership in the proposal's voter map: a racing duplicate observes the
// entry already present and fails with no tally change.
func (e *Engine) Vote(ctx context.Context, caller, proposalID, choice, weight string) (domain.Proposal, error) {
	if caller == "" {
		return domain.Proposal{}, fmt.Errorf("%w: voter", domain.ErrMissingArgument)
	}
	vc, err := domain.ParseVoteChoice(choice)
	if err != nil {
		return domain.Proposal{}, err
	}
	w, err := domain.ParsePositiveAmount(weight)
	if err != nil {
		return domain.Proposal{}, err
	}

	var p domain.Proposal
	err = e.store.Update(ctx, func(tx statestore.Tx) error {
		ok, err := statestore.GetJSON(tx, ProposalKey(proposalID), &p)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrProposalNotFound, proposalID)
		}
		cfg, err := readConfig(tx)
		if err != nil {
			return err
		}
		now := e.clock.Now()
		if p.Status != domain.ProposalActive {
			return fmt.Errorf("%w: proposal is %s", domain.ErrNotActive, p.Status)
		}
		if now.After(p.VotingEndDate) {
			return fmt.Errorf("%w: ended %s", domain.ErrVotingClosed, p.VotingEndDate.Format("2006-01-02"))
		}
		if w.LessThan(cfg.MinTokensToVote) {
			return fmt.Errorf("%w: minimum %s", domain.ErrBelowVoteThreshold, cfg.MinTokensToVote.String())
		}
		if _, voted := p.Voters[caller]; voted {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyVoted, caller)
		}

		switch vc {
		case domain.VoteFor:
			p.VotesFor = p.VotesFor.Add(w)
		case domain.VoteAgainst:
			p.VotesAgainst = p.VotesAgainst.Add(w)
		case domain.VoteAbstain:
			p.VotesAbstain = p.VotesAbstain.Add(w)
		}
		p.Voters[caller] = domain.VoteRecord{Choice: vc, Weight: w, CastAt: now}

		if err := statestore.PutJSON(tx, ProposalKey(proposalID), p); err != nil {
			return err
		}
		tx.Emit(domain.EventVoteRegistered, map[string]string{
			"proposal_id": proposalID, "voter": caller, "choice": string(vc), "weight": w.String(),
		})
		return nil
	})
	return p, err
}

// FinalizeProposal decides an active proposal once its voting period has
// ended: approved when the for-vs-against ratio reaches the configured
// approval threshold, else rejected. Zero for and against votes reject.
func (e *Engine) FinalizeProposal(ctx context.Context, proposalID string) (domain.Proposal, error) {
	var p domain.Proposal
	err := e.store.Update(ctx, func(tx statestore.Tx) error {
		ok, err := statestore.GetJSON(tx, ProposalKey(proposalID), &p)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrProposalNotFound, proposalID)
		}
		if p.Status != domain.ProposalActive {
			return fmt.Errorf("%w: proposal already %s", domain.ErrNotActive, p.Status)
		}
		now := e.clock.Now()
		if !now.After(p.VotingEndDate) {
			return fmt.Errorf("%w: ends %s", domain.ErrVotingOpen, p.VotingEndDate.Format("2006-01-02"))
		}
		cfg, err := readConfig(tx)
		if err != nil {
			return err
		}
		if domain.ApprovalRatioMeets(p.VotesFor, p.VotesAgainst, cfg.ApprovalThresholdPercent) {
			p.Status = domain.ProposalApproved
		} else {
			p.Status = domain.ProposalRejected
		}
		if err := statestore.PutJSON(tx, ProposalKey(proposalID), p); err != nil {
			return err
		}
		tx.Emit(domain.EventProposalFinalized, proposalPayload{ID: proposalID, Status: string(p.Status)})
		return nil
	})
	return p, err
}

// ExecuteProposal dispatches an approved proposal's actions once its
// execution date has arrived. The executed flag is set exactly once even when
// actions fail; per-action outcomes live in the execution result.
func (e *Engine) ExecuteProposal(ctx context.Context, proposalID string) (domain.Proposal, error) {
	var p domain.Proposal
	err := e.store.Update(ctx, func(tx statestore.Tx) error {
		ok, err := statestore.GetJSON(tx, ProposalKey(proposalID), &p)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrProposalNotFound, proposalID)
		}
		if p.Executed {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyExecuted, proposalID)
		}
		if p.Status != domain.ProposalApproved {
			return fmt.Errorf("%w: proposal is %s", domain.ErrNotApproved, p.Status)
		}
		now := e.clock.Now()
		if now.Before(p.ExecutionDate) {
			return fmt.Errorf("%w: executable %s", domain.ErrNotExecutable, p.ExecutionDate.Format("2006-01-02"))
		}

		result := domain.ExecutionResult{Success: true, ExecutedAt: now}
		for i, act := range p.Actions {
			ar := domain.ActionResult{Index: i, Type: act.Type, OK: true}
			if err := e.registry.Dispatch(tx, act); err != nil {
				ar.OK = false
				ar.Error = err.Error()
				result.Success = false
			}
			result.Actions = append(result.Actions, ar)
		}

		p.Executed = true
		p.Status = domain.ProposalExecuted
		p.ExecutionResult = &result
		if err := statestore.PutJSON(tx, ProposalKey(proposalID), p); err != nil {
			return err
		}
		tx.Emit(domain.EventProposalExecuted, map[string]any{
			"id": proposalID, "success": result.Success,
		})
		return nil
	})
	return p, err
}

// GetProposal returns one proposal.
func (e *Engine) GetProposal(ctx context.Context, proposalID string) (domain.Proposal, error) {
	var p domain.Proposal
	err := e.store.View(ctx, func(tx statestore.Tx) error {
		ok, err := statestore.GetJSON(tx, ProposalKey(proposalID), &p)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrProposalNotFound, proposalID)
		}
		return nil
	})
	return p, err
}

// ListProposals returns proposals, optionally filtered by status.
func (e *Engine) ListProposals(ctx context.Context, status domain.ProposalStatus) ([]domain.Proposal, error) {
	var out []domain.Proposal
	err := e.store.View(ctx, func(tx statestore.Tx) error {
		kvs, err := tx.List(proposalPrefix, 0)
		if err != nil {
			return err
		}
		for _, kv := range kvs {
			var p domain.Proposal
			ok, err := statestore.GetJSON(tx, kv.Key, &p)
			if err != nil {
				return err
			}
			if ok && (status == "" || p.Status == status) {
				out = append(out, p)
			}
		}
		return nil
	})
	return out, err
}
