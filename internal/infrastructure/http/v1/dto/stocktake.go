package dto

import (
	"time"

	"stockroom/internal/domain/documents/stocktake"
)

// StocktakeTaskResponse represents a counting task.
type StocktakeTaskResponse struct {
	ID          string     `json:"id"`
	Number      string     `json:"number"`
	Status      string     `json:"status"`
	Comment     string     `json:"comment,omitempty"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Date        time.Time  `json:"date"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// FromStocktakeTask maps a task to its response.
func FromStocktakeTask(t *stocktake.Task) *StocktakeTaskResponse {
	return &StocktakeTaskResponse{
		ID:          t.ID.String(),
		Number:      t.Number,
		Status:      string(t.Status),
		Comment:     t.Comment,
		CreatedBy:   t.CreatedBy,
		CompletedAt: t.CompletedAt,
		Date:        t.Date,
		Version:     t.Version,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// StocktakeItemResponse represents one material line of a task.
type StocktakeItemResponse struct {
	ID           string     `json:"id"`
	TaskID       string     `json:"taskId"`
	MaterialID   string     `json:"materialId"`
	MaterialCode string     `json:"materialCode"`
	MaterialName string     `json:"materialName"`
	BookQty      int64      `json:"bookQty"`
	RealQty      *int64     `json:"realQty,omitempty"`
	DiffQty      int64      `json:"diffQty"`
	DiffType     string     `json:"diffType"`
	CountedBy    string     `json:"countedBy,omitempty"`
	CountedAt    *time.Time `json:"countedAt,omitempty"`
}

// FromStocktakeItem maps an item to its response.
func FromStocktakeItem(i *stocktake.Item) *StocktakeItemResponse {
	return &StocktakeItemResponse{
		ID:           i.ID.String(),
		TaskID:       i.TaskID.String(),
		MaterialID:   i.MaterialID.String(),
		MaterialCode: i.MaterialCode,
		MaterialName: i.MaterialName,
		BookQty:      i.BookQty,
		RealQty:      i.RealQty,
		DiffQty:      i.DiffQty,
		DiffType:     string(i.DiffType),
		CountedBy:    i.CountedBy,
		CountedAt:    i.CountedAt,
	}
}

// StocktakeDetailResponse is a task with items and counting progress.
type StocktakeDetailResponse struct {
	Task    *StocktakeTaskResponse   `json:"task"`
	Items   []*StocktakeItemResponse `json:"items"`
	Total   int64                    `json:"total"`
	Counted int64                    `json:"counted"`
}

// FromStocktakeDetail maps a task detail to its response.
func FromStocktakeDetail(d *stocktake.TaskDetail) *StocktakeDetailResponse {
	items := make([]*StocktakeItemResponse, len(d.Items))
	for i, item := range d.Items {
		items[i] = FromStocktakeItem(item)
	}
	return &StocktakeDetailResponse{
		Task:    FromStocktakeTask(d.Task),
		Items:   items,
		Total:   d.Progress.Total,
		Counted: d.Progress.Counted,
	}
}

// CreateStocktakeRequest starts a new counting task.
type CreateStocktakeRequest struct {
	Comment string `json:"comment"`
}

// SubmitCountRequest records the counted quantity for one item.
type SubmitCountRequest struct {
	RealQty *int64 `json:"realQty" binding:"required"`
}
