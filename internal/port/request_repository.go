package port

import (
	"context"
	"time"

	"github.com/rl1809/asset-desk/internal/core/domain"
)

type RequestRepository interface {
	// GetRequest retrieves a request by id, nil when absent
	GetRequest(ctx context.Context, id string) (*domain.Request, error)

	// CreateRequest persists a new pending request
	CreateRequest(ctx context.Context, r domain.Request) error

	// ListRequestsByCompany returns all requests addressed to a company
	ListRequestsByCompany(ctx context.Context, companyID string) ([]domain.Request, error)

	// ListRequestsByEmployee returns all requests submitted by an employee
	ListRequestsByEmployee(ctx context.Context, employeeID string) ([]domain.Request, error)

	// GetAffiliation retrieves an employee's affiliation, nil when absent
	GetAffiliation(ctx context.Context, employeeID string) (*domain.Affiliation, error)

	// ApproveRequest commits the approval mutation set as a single atomic
	// unit. Every write is conditional: the status transition requires the
	// request to still be pending, the stock decrement requires quantity > 0,
	// and the capacity increment requires the company to still be below its
	// limit. A failed condition aborts the whole unit with the matching
	// domain conflict error.
	ApproveRequest(ctx context.Context, upd domain.ApprovalUpdate) error

	// RejectRequest transitions a pending request to rejected, failing with
	// domain.ErrRequestDecided when the request is no longer pending.
	RejectRequest(ctx context.Context, id string, decidedAt time.Time) error

	// AppendDecision writes an audit entry for a committed decision
	AppendDecision(ctx context.Context, rec domain.DecisionRecord) error
}
