package domain

import "time"

type DecisionOutcome string

const (
	OutcomeApprovedExisting DecisionOutcome = "approved-existing"
	OutcomeApprovedNew      DecisionOutcome = "approved-new"
	OutcomeRejected         DecisionOutcome = "rejected"
)

// Decision is the caller-facing result of an approve/reject call.
type Decision struct {
	Outcome   DecisionOutcome
	RequestID string
}

// DecisionRecord is the audit entry queued after a committed decision.
type DecisionRecord struct {
	ID        string
	RequestID string
	ActorID   string
	Outcome   DecisionOutcome
	DecidedAt time.Time
}

// ApprovalUpdate is the mutation set committed as one transaction when a
// request is approved: the status transition, the stock decrement and, for a
// first-time employee, the affiliation insert plus capacity increment.
type ApprovalUpdate struct {
	RequestID      string
	AssetID        string
	CompanyID      string
	EmployeeID     string
	NewAffiliation bool
	DecidedAt      time.Time
}
