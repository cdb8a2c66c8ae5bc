package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/asset-desk/internal/core/domain"
	"github.com/rl1809/asset-desk/internal/port"
)

// AssetService covers the HR-side asset management: registration, edits and
// company-scoped listing. It never decrements stock; only the workflow
// engine does that.
type AssetService struct {
	assets port.AssetRepository
	users  port.UserRepository
}

func NewAssetService(assets port.AssetRepository, users port.UserRepository) *AssetService {
	return &AssetService{assets: assets, users: users}
}

type AssetInput struct {
	Name     string
	Type     string
	Quantity int
	Image    string
}

// Register creates an asset owned by the acting HR's company. Quantity is
// clamped to the per-update cap.
func (s *AssetService) Register(ctx context.Context, actingUserID string, in AssetInput) (domain.Asset, error) {
	actor, err := s.users.GetUser(ctx, actingUserID)
	if err != nil {
		return domain.Asset{}, fmt.Errorf("load actor: %w", err)
	}
	if !actor.IsHR() {
		return domain.Asset{}, domain.ErrHRRequired
	}

	assetType := in.Type
	if assetType == "" {
		assetType = "general"
	}

	now := time.Now()
	asset := domain.Asset{
		ID:        uuid.New().String(),
		CompanyID: actor.CompanyID(),
		Name:      in.Name,
		Type:      assetType,
		Quantity:  domain.ClampQuantity(in.Quantity),
		Image:     in.Image,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.assets.CreateAsset(ctx, asset); err != nil {
		return domain.Asset{}, fmt.Errorf("create asset: %w", err)
	}
	return asset, nil
}

// Update edits an asset of the acting HR's company, clamping the quantity
// like Register. Assets of other companies read as missing.
func (s *AssetService) Update(ctx context.Context, actingUserID, assetID string, in AssetInput) (domain.Asset, error) {
	actor, err := s.users.GetUser(ctx, actingUserID)
	if err != nil {
		return domain.Asset{}, fmt.Errorf("load actor: %w", err)
	}
	if !actor.IsHR() {
		return domain.Asset{}, domain.ErrHRRequired
	}

	asset, err := s.assets.GetAsset(ctx, assetID)
	if err != nil {
		return domain.Asset{}, fmt.Errorf("load asset: %w", err)
	}
	if asset == nil || asset.CompanyID != actor.CompanyID() {
		return domain.Asset{}, domain.ErrAssetNotFound
	}

	if in.Name != "" {
		asset.Name = in.Name
	}
	if in.Type != "" {
		asset.Type = in.Type
	}
	if in.Image != "" {
		asset.Image = in.Image
	}
	asset.Quantity = domain.ClampQuantity(in.Quantity)
	asset.UpdatedAt = time.Now()

	if err := s.assets.UpdateAsset(ctx, *asset); err != nil {
		return domain.Asset{}, err
	}
	return *asset, nil
}

// ListCompany returns the assets owned by the acting HR's company.
func (s *AssetService) ListCompany(ctx context.Context, actingUserID string) ([]domain.Asset, error) {
	actor, err := s.users.GetUser(ctx, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("load actor: %w", err)
	}
	if !actor.IsHR() {
		return nil, domain.ErrHRRequired
	}
	return s.assets.ListAssetsByCompany(ctx, actor.CompanyID())
}
