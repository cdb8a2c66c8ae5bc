package domain

import "time"

// MaxQuantityPerUpdate caps the stock a single register/edit call may set.
const MaxQuantityPerUpdate = 15

type Asset struct {
	ID        string
	CompanyID string
	Name      string
	Type      string
	Quantity  int
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClampQuantity bounds a collaborator-supplied quantity to [0, MaxQuantityPerUpdate].
func ClampQuantity(q int) int {
	if q < 0 {
		return 0
	}
	if q > MaxQuantityPerUpdate {
		return MaxQuantityPerUpdate
	}
	return q
}
