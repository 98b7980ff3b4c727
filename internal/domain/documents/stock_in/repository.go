package stock_in

import (
	"context"
	"time"

	"stockroom/internal/core/id"
	"stockroom/internal/domain"
)

// Repository defines storage operations for inbound movements.
type Repository interface {
	Create(ctx context.Context, doc *StockIn) error
	GetByID(ctx context.Context, docID id.ID) (*StockIn, error)
	GetByNumber(ctx context.Context, number string) (*StockIn, error)
	Update(ctx context.Context, doc *StockIn) error

	// Delete removes the ledger row physically. Reversal means the
	// movement never happened; the balance delta is undone by the caller.
	Delete(ctx context.Context, docID id.ID) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockIn], error)
}

// ListFilter for filtering inbound movements.
type ListFilter struct {
	domain.ListFilter

	// Document-specific filters
	Type       *Type
	Number     string
	Operator   string
	MaterialID *id.ID
	DateFrom   *time.Time
	DateTo     *time.Time
}
