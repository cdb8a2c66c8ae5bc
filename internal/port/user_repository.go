package port

import (
	"context"

	"github.com/rl1809/asset-desk/internal/core/domain"
)

type UserRepository interface {
	// GetUser retrieves a user by id, nil when absent
	GetUser(ctx context.Context, id string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email, nil when absent
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpsertUser inserts or fully replaces a user record
	UpsertUser(ctx context.Context, u domain.User) error

	// ApplyTier sets the subscription and package limit on a company record.
	// Re-applying the current tier is a successful no-op.
	ApplyTier(ctx context.Context, companyID string, tier domain.Tier) error
}
