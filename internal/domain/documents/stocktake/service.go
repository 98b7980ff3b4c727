package stocktake

import (
	"context"
	"fmt"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/core/numerator"
	"stockroom/internal/core/tx"
	"stockroom/internal/domain"
	"stockroom/internal/domain/documents/stock_in"
	"stockroom/internal/domain/documents/stock_out"
	"stockroom/internal/domain/material"
	"stockroom/pkg/logger"
)

// InboundPoster posts the gain adjustments produced by task completion.
type InboundPoster interface {
	Post(ctx context.Context, params stock_in.PostParams) (*stock_in.PostResult, error)
}

// OutboundPoster posts the loss adjustments produced by task completion.
type OutboundPoster interface {
	Post(ctx context.Context, params stock_out.PostParams) (*stock_out.PostResult, error)
}

// Service provides business operations for stocktake tasks.
type Service struct {
	repo      Repository
	materials material.Repository
	inbound   InboundPoster
	outbound  OutboundPoster
	numerator numerator.Generator
	txManager tx.Manager
}

// NewService creates a new stocktake service.
func NewService(
	repo Repository,
	materials material.Repository,
	inbound InboundPoster,
	outbound OutboundPoster,
	numerator numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		materials: materials,
		inbound:   inbound,
		outbound:  outbound,
		numerator: numerator,
		txManager: txManager,
	}
}

// CreateParams for a new stocktake task.
type CreateParams struct {
	CreatedBy string
	Comment   string
}

// CreateTask snapshots every active material into an uncounted item and
// stores the task in pending state, all in one transaction.
func (s *Service) CreateTask(ctx context.Context, params CreateParams) (*TaskDetail, error) {
	task := NewTask(params.CreatedBy)
	task.Comment = params.Comment

	if err := task.Validate(ctx); err != nil {
		return nil, err
	}

	number, err := s.numerator.GetNextNumber(ctx,
		numerator.DefaultConfig(TaskPrefix),
		&numerator.Options{Strategy: NumeratorStrategy},
		task.Date)
	if err != nil {
		return nil, fmt.Errorf("generate task number: %w", err)
	}
	task.Number = number

	var items []*Item
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		materials, err := s.materials.ListActive(ctx)
		if err != nil {
			return err
		}
		if len(materials) == 0 {
			return apperror.NewValidation("no active materials to count")
		}

		items = make([]*Item, 0, len(materials))
		for _, m := range materials {
			items = append(items, NewItem(task.ID, m.ID, m.Code, m.Name, m.CurrentStock))
		}

		if err := s.repo.CreateTask(ctx, task); err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		if err := s.repo.SaveItems(ctx, task.ID, items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stocktake task created",
		"id", task.ID,
		"number", task.Number,
		"items", len(items))

	return &TaskDetail{
		Task:     task,
		Items:    items,
		Progress: Progress{Total: int64(len(items))},
	}, nil
}

// SubmitItem records the counted quantity for one item. The first submission
// moves the task from pending to doing.
func (s *Service) SubmitItem(ctx context.Context, taskID, itemID id.ID, realQty int64, countedBy string) (*Item, error) {
	if realQty < 0 {
		return nil, apperror.NewValidation("real quantity cannot be negative").
			WithDetail("realQty", realQty)
	}

	var item *Item
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		task, err := s.repo.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task.IsTerminal() {
			return apperror.NewInvalidStateTransition(string(task.Status), string(StatusDoing)).
				WithDetail("taskNumber", task.Number)
		}

		item, err = s.repo.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if item.TaskID != taskID {
			return apperror.NewNotFound("stocktake item", itemID.String())
		}

		item.SetCount(realQty, countedBy)
		if err := s.repo.UpdateItem(ctx, item); err != nil {
			return err
		}

		if task.Status == StatusPending {
			task.Status = StatusDoing
			if err := s.repo.UpdateTask(ctx, task); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// CompleteTask books every counted difference as an adjustment movement and
// marks the task done. Every item must have been counted.
func (s *Service) CompleteTask(ctx context.Context, taskID id.ID, completedBy string) (*TaskDetail, error) {
	var detail *TaskDetail
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		task, err := s.repo.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task.IsTerminal() {
			return apperror.NewInvalidStateTransition(string(task.Status), string(StatusDone)).
				WithDetail("taskNumber", task.Number)
		}

		items, err := s.repo.GetItems(ctx, taskID)
		if err != nil {
			return err
		}

		uncounted := 0
		for _, item := range items {
			if !item.Counted() {
				uncounted++
			}
		}
		if uncounted > 0 {
			return apperror.NewUncountedItems(uncounted).
				WithDetail("taskNumber", task.Number)
		}

		comment := fmt.Sprintf("stocktake %s", task.Number)
		for _, item := range items {
			if item.DiffQty == 0 {
				continue
			}
			if err := s.bookDifference(ctx, item, completedBy, comment); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		task.Status = StatusDone
		task.CompletedAt = &now
		if err := s.repo.UpdateTask(ctx, task); err != nil {
			return err
		}

		detail = &TaskDetail{
			Task:  task,
			Items: items,
			Progress: Progress{
				Total:   int64(len(items)),
				Counted: int64(len(items)),
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stocktake task completed",
		"id", detail.Task.ID,
		"number", detail.Task.Number)

	return detail, nil
}

// bookDifference posts one adjustment movement for a counted difference.
// Gains go through stock-in, losses through stock-out; both carry the ADJ
// bill prefix and the default value of quantity times unit price.
func (s *Service) bookDifference(ctx context.Context, item *Item, operator, comment string) error {
	qty := item.DiffQty
	if qty > 0 {
		_, err := s.inbound.Post(ctx, stock_in.PostParams{
			MaterialCode: item.MaterialCode,
			Quantity:     qty,
			Type:         stock_in.TypeAdjustGain,
			Operator:     operator,
			Comment:      comment,
		})
		return err
	}

	_, err := s.outbound.Post(ctx, stock_out.PostParams{
		MaterialCode: item.MaterialCode,
		Quantity:     -qty,
		Type:         stock_out.TypeAdjustLoss,
		Operator:     operator,
		Comment:      comment,
	})
	return err
}

// CancelTask abandons a task without touching the ledger.
func (s *Service) CancelTask(ctx context.Context, taskID id.ID) (*Task, error) {
	var task *Task
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		task, err = s.repo.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task.IsTerminal() {
			return apperror.NewInvalidStateTransition(string(task.Status), string(StatusCancelled)).
				WithDetail("taskNumber", task.Number)
		}

		task.Status = StatusCancelled
		return s.repo.UpdateTask(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stocktake task cancelled", "id", task.ID, "number", task.Number)
	return task, nil
}

// TaskDetail bundles a task with its items and counting progress.
type TaskDetail struct {
	Task     *Task    `json:"task"`
	Items    []*Item  `json:"items"`
	Progress Progress `json:"progress"`
}

// GetTask retrieves a task with items and progress.
func (s *Service) GetTask(ctx context.Context, taskID id.ID) (*TaskDetail, error) {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	progress := Progress{Total: int64(len(items))}
	for _, item := range items {
		if item.Counted() {
			progress.Counted++
		}
	}

	return &TaskDetail{Task: task, Items: items, Progress: progress}, nil
}

// List retrieves tasks with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Task], error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}
