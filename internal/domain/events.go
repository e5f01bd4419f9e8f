package domain

// ─── Ledger Events ──────────────────────────────────────────────────────────
// Every state-changing operation stages a named event with a JSON payload.
// Events are published only after the invocation commits; a failed invocation
// publishes nothing.

// Event is a named notification emitted by a committed invocation.
type Event struct {
	Name    string `json:"name"`
	Payload []byte `json:"payload"`
}

// Event names, stable across the wire.
const (
	EventTransfer           = "Transfer"
	EventApproval           = "Approval"
	EventMint               = "Mint"
	EventBurn               = "Burn"
	EventStake              = "Stake"
	EventUnstake            = "Unstake"
	EventProposalCreated    = "ProposalCreated"
	EventVoteRegistered     = "VoteRegistered"
	EventProposalFinalized  = "ProposalFinalized"
	EventProposalExecuted   = "ProposalExecuted"
	EventWalletCreated      = "WalletCreated"
	EventWalletUpdated      = "WalletUpdated"
	EventTxScheduled        = "TransactionScheduled"
	EventTxCancelled        = "TransactionCancelled"
	EventTxExecuted         = "TransactionExecuted"
	EventTxFailed           = "TransactionFailed"
	EventRecurringCreated   = "RecurringTransactionCreated"
	EventRecurringCancelled = "RecurringTransactionCancelled"
	EventRecurringExecuted  = "RecurringTransactionExecuted"
	EventRecurringCompleted = "RecurringTransactionCompleted"
)
