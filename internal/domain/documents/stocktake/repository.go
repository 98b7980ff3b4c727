package stocktake

import (
	"context"
	"time"

	"stockroom/internal/core/id"
	"stockroom/internal/domain"
)

// Progress summarizes how far a task has been counted.
type Progress struct {
	Total   int64 `json:"total"`
	Counted int64 `json:"counted"`
}

// Repository defines storage operations for stocktake tasks and items.
type Repository interface {
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, taskID id.ID) (*Task, error)
	GetTaskByNumber(ctx context.Context, number string) (*Task, error)
	GetTaskForUpdate(ctx context.Context, taskID id.ID) (*Task, error)
	UpdateTask(ctx context.Context, task *Task) error

	SaveItems(ctx context.Context, taskID id.ID, items []*Item) error
	GetItems(ctx context.Context, taskID id.ID) ([]*Item, error)
	GetItem(ctx context.Context, itemID id.ID) (*Item, error)
	UpdateItem(ctx context.Context, item *Item) error

	GetProgress(ctx context.Context, taskID id.ID) (Progress, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Task], error)
}

// ListFilter for filtering stocktake tasks.
type ListFilter struct {
	domain.ListFilter

	Status    *Status
	CreatedBy string
	DateFrom  *time.Time
	DateTo    *time.Time
}
