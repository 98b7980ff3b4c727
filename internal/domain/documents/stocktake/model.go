// Package stocktake provides the stocktake (physical count) workflow:
// a task snapshots book quantities, counters submit real quantities, and
// completion books the differences back into the ledger.
package stocktake

import (
	"context"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
)

// Status is the task workflow state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDoing     Status = "doing"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
)

// DiffType classifies the counted difference of a single item.
type DiffType string

const (
	DiffGain DiffType = "gain"
	DiffLoss DiffType = "loss"
	DiffNone DiffType = "none"
)

// Task represents a stocktake task. Number is the task number
// (SC-YYYYMMDD-NNNN).
type Task struct {
	entity.Document

	Status Status `db:"status" json:"status"`

	// CompletedAt is set when the task reaches done
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
}

// NewTask creates a new pending stocktake task.
func NewTask(createdBy string) *Task {
	t := &Task{
		Document: entity.NewDocument(),
		Status:   StatusPending,
	}
	t.CreatedBy = createdBy
	return t
}

// Validate implements entity.Validatable.
func (t *Task) Validate(ctx context.Context) error {
	if err := t.Document.Validate(ctx); err != nil {
		return err
	}

	switch t.Status {
	case StatusPending, StatusDoing, StatusDone, StatusCancelled:
	default:
		return apperror.NewValidation("invalid task status").
			WithDetail("field", "status").
			WithDetail("value", string(t.Status))
	}

	return nil
}

// IsTerminal reports whether the task can no longer change.
func (t *Task) IsTerminal() bool {
	return t.Status == StatusDone || t.Status == StatusCancelled
}

// Item represents one material line of a stocktake task.
type Item struct {
	ID     id.ID `db:"id" json:"id"`
	TaskID id.ID `db:"task_id" json:"taskId"`

	// Material reference plus code/name snapshot taken at task creation
	MaterialID   id.ID  `db:"material_id" json:"materialId"`
	MaterialCode string `db:"material_code" json:"materialCode"`
	MaterialName string `db:"material_name" json:"materialName"`

	// BookQty is the balance at task creation time
	BookQty int64 `db:"book_qty" json:"bookQty"`

	// RealQty is the counted quantity, nil until submitted
	RealQty *int64 `db:"real_qty" json:"realQty,omitempty"`

	// DiffQty = RealQty - BookQty, valid once counted
	DiffQty  int64    `db:"diff_qty" json:"diffQty"`
	DiffType DiffType `db:"diff_type" json:"diffType"`

	CountedBy string     `db:"counted_by" json:"countedBy,omitempty"`
	CountedAt *time.Time `db:"counted_at" json:"countedAt,omitempty"`
}

// NewItem creates an uncounted item snapshotting the current balance.
func NewItem(taskID, materialID id.ID, materialCode, materialName string, bookQty int64) *Item {
	return &Item{
		ID:           id.New(),
		TaskID:       taskID,
		MaterialID:   materialID,
		MaterialCode: materialCode,
		MaterialName: materialName,
		BookQty:      bookQty,
		DiffType:     DiffNone,
	}
}

// Counted reports whether a real quantity has been submitted.
func (i *Item) Counted() bool {
	return i.RealQty != nil
}

// SetCount records the counted quantity and derives the difference.
func (i *Item) SetCount(realQty int64, countedBy string) {
	now := time.Now().UTC()
	i.RealQty = &realQty
	i.DiffQty = realQty - i.BookQty
	i.CountedBy = countedBy
	i.CountedAt = &now

	switch {
	case i.DiffQty > 0:
		i.DiffType = DiffGain
	case i.DiffQty < 0:
		i.DiffType = DiffLoss
	default:
		i.DiffType = DiffNone
	}
}
