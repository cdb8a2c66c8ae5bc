package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rl1809/asset-desk/internal/core/domain"
	"github.com/rl1809/asset-desk/internal/port"
)

// RequestService is the intake side of the workflow: employees file pending
// requests, HR and employees read them back. Decisions live in ApprovalService.
type RequestService struct {
	requests port.RequestRepository
	assets   port.AssetRepository
	users    port.UserRepository
}

func NewRequestService(requests port.RequestRepository, assets port.AssetRepository, users port.UserRepository) *RequestService {
	return &RequestService{requests: requests, assets: assets, users: users}
}

// Submit files a pending request for one unit of an asset. The owning
// company is taken from the asset itself.
func (s *RequestService) Submit(ctx context.Context, employeeID, assetID string) (domain.Request, error) {
	emp, err := s.users.GetUser(ctx, employeeID)
	if err != nil {
		return domain.Request{}, fmt.Errorf("load employee: %w", err)
	}
	if emp == nil {
		return domain.Request{}, domain.ErrUserNotFound
	}
	if emp.Role != domain.RoleEmployee {
		return domain.Request{}, domain.ErrEmployeeRequired
	}

	asset, err := s.assets.GetAsset(ctx, assetID)
	if err != nil {
		return domain.Request{}, fmt.Errorf("load asset: %w", err)
	}
	if asset == nil {
		return domain.Request{}, domain.ErrAssetNotFound
	}
	if asset.Quantity <= 0 {
		return domain.Request{}, domain.ErrOutOfStock
	}

	req := domain.NewRequest(uuid.New().String(), emp.ID, emp.Email, asset.CompanyID, asset.ID)
	if err := s.requests.CreateRequest(ctx, req); err != nil {
		return domain.Request{}, fmt.Errorf("create request: %w", err)
	}
	return req, nil
}

// ListForCompany returns the requests addressed to the acting HR's company.
func (s *RequestService) ListForCompany(ctx context.Context, actingUserID string) ([]domain.Request, error) {
	actor, err := s.users.GetUser(ctx, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("load actor: %w", err)
	}
	if !actor.IsHR() {
		return nil, domain.ErrHRRequired
	}
	return s.requests.ListRequestsByCompany(ctx, actor.CompanyID())
}

// ListForEmployee returns the requests an employee has submitted.
func (s *RequestService) ListForEmployee(ctx context.Context, employeeID string) ([]domain.Request, error) {
	return s.requests.ListRequestsByEmployee(ctx, employeeID)
}
