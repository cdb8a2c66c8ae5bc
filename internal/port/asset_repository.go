package port

import (
	"context"

	"github.com/rl1809/asset-desk/internal/core/domain"
)

type AssetRepository interface {
	// GetAsset retrieves an asset by id, nil when absent
	GetAsset(ctx context.Context, id string) (*domain.Asset, error)

	// CreateAsset persists a new asset
	CreateAsset(ctx context.Context, a domain.Asset) error

	// UpdateAsset updates the editable fields of a company's asset
	UpdateAsset(ctx context.Context, a domain.Asset) error

	// ListAssetsByCompany returns all assets owned by a company
	ListAssetsByCompany(ctx context.Context, companyID string) ([]domain.Asset, error)
}
