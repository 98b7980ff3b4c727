package material

import (
	"context"

	"github.com/shopspring/decimal"

	"stockroom/internal/core/id"
	"stockroom/internal/domain"
)

// ListFilter extends the common catalog filter with material-specific
// conditions. StockStatus filtering is resolved at SQL level so pagination
// stays correct.
type ListFilter struct {
	domain.ListFilter

	Category *string
	Supplier *string
	Status   *Status

	// StockStatus filters by classified balance (low/high/normal)
	StockStatus *StockStatus
}

// Balance is the pair of running totals maintained per material.
type Balance struct {
	CurrentStock int64
	StockValue   decimal.Decimal
}

// Repository defines storage operations for materials.
type Repository interface {
	domain.CatalogRepository[*Material]

	// ListMaterials retrieves materials with material-specific filters.
	ListMaterials(ctx context.Context, filter ListFilter) (domain.ListResult[*Material], error)

	// GetForUpdate retrieves a material with a row lock (FOR UPDATE).
	// Must be called inside a transaction.
	GetForUpdate(ctx context.Context, id id.ID) (*Material, error)

	// ApplyDelta atomically adjusts the running balance and stock value.
	// Fails with InsufficientStock if the quantity would go negative.
	// Must be called inside a transaction together with the movement insert.
	ApplyDelta(ctx context.Context, id id.ID, qtyDelta int64, valueDelta decimal.Decimal) (Balance, error)

	// ListActive retrieves all active, non-deleted materials.
	// Used by the warning reconcile pass.
	ListActive(ctx context.Context) ([]*Material, error)

	// CountByStockStatus returns the number of live materials in each
	// classified status.
	CountByStockStatus(ctx context.Context) (map[StockStatus]int64, error)
}
