package port

import (
	"context"

	"github.com/rl1809/asset-desk/internal/core/domain"
)

type PaymentProvider interface {
	// CreateCheckoutSession prices a tier upgrade with the external payment
	// provider and returns the redirect URL for the paying company
	CreateCheckoutSession(ctx context.Context, companyID string, tier domain.Tier) (string, error)
}
