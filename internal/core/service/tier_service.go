package service

import (
	"context"
	"fmt"

	"github.com/rl1809/asset-desk/internal/core/domain"
	"github.com/rl1809/asset-desk/internal/port"
)

// TierService prices tier upgrades with the payment collaborator and applies
// a purchased tier to a company. The catalog is immutable and injected.
type TierService struct {
	users    port.UserRepository
	payments port.PaymentProvider
	catalog  domain.TierCatalog
}

func NewTierService(users port.UserRepository, payments port.PaymentProvider, catalog domain.TierCatalog) *TierService {
	return &TierService{users: users, payments: payments, catalog: catalog}
}

// ApplyTier sets a company's subscription and employee limit from the named
// tier. Unknown tiers are rejected; re-applying the current tier succeeds as
// a no-op.
func (s *TierService) ApplyTier(ctx context.Context, companyID, tierName string) error {
	tier, ok := s.catalog.Lookup(tierName)
	if !ok {
		return domain.ErrUnknownTier
	}

	company, err := s.users.GetUser(ctx, companyID)
	if err != nil {
		return fmt.Errorf("load company: %w", err)
	}
	if !company.IsHR() {
		return domain.ErrUserNotFound
	}

	if err := s.users.ApplyTier(ctx, companyID, tier); err != nil {
		return fmt.Errorf("apply tier: %w", err)
	}
	return nil
}

// CreateCheckoutSession opens a payment session pricing the named tier for
// the acting HR's company and returns the redirect URL.
func (s *TierService) CreateCheckoutSession(ctx context.Context, actingUserID, tierName string) (string, error) {
	tier, ok := s.catalog.Lookup(tierName)
	if !ok {
		return "", domain.ErrUnknownTier
	}

	actor, err := s.users.GetUser(ctx, actingUserID)
	if err != nil {
		return "", fmt.Errorf("load actor: %w", err)
	}
	if !actor.IsHR() {
		return "", domain.ErrHRRequired
	}

	url, err := s.payments.CreateCheckoutSession(ctx, actor.CompanyID(), tier)
	if err != nil {
		return "", fmt.Errorf("checkout session: %w", err)
	}
	return url, nil
}
