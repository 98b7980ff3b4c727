package warning

import (
	"context"

	"stockroom/internal/core/id"
	"stockroom/internal/domain"
)

// Statistics holds warning counts for the dashboard.
type Statistics struct {
	Total   int64 `json:"total"`
	Low     int64 `json:"low"`
	High    int64 `json:"high"`
	Warning int64 `json:"warning"`
	Danger  int64 `json:"danger"`
}

// Repository defines storage operations for warnings.
type Repository interface {
	// ListAll retrieves every active warning (for the reconcile pass).
	ListAll(ctx context.Context) ([]*Warning, error)

	// UpsertAll upserts a batch of warnings in one round trip. Each warning
	// replaces the row for its (material, type) pair.
	UpsertAll(ctx context.Context, warnings []*Warning) error

	// DeleteByIDs removes cleared warnings.
	DeleteByIDs(ctx context.Context, ids []id.ID) error

	// List retrieves warnings with filtering and pagination.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Warning], error)

	// Statistics counts warnings by type and level.
	Statistics(ctx context.Context) (Statistics, error)
}

// ListFilter for filtering warnings.
type ListFilter struct {
	// Search matches material code or name
	Search string

	Type  *Type
	Level *Level

	OrderBy string
	Limit   int
	Offset  int
}
