package stock_out

import (
	"context"
	"time"

	"stockroom/internal/core/id"
	"stockroom/internal/domain"
)

// Repository defines storage operations for outbound movements.
type Repository interface {
	Create(ctx context.Context, doc *StockOut) error
	GetByID(ctx context.Context, docID id.ID) (*StockOut, error)
	GetByNumber(ctx context.Context, number string) (*StockOut, error)
	Update(ctx context.Context, doc *StockOut) error

	// Delete removes the ledger row physically. Reversal means the
	// movement never happened; the balance delta is undone by the caller.
	Delete(ctx context.Context, docID id.ID) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockOut], error)
}

// ListFilter for filtering outbound movements.
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
