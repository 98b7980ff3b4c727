package stock_out

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/core/numerator"
	"stockroom/internal/core/tx"
	"stockroom/internal/core/types"
	"stockroom/internal/domain"
	"stockroom/internal/domain/audit"
	"stockroom/internal/domain/material"
	"stockroom/pkg/logger"
)

// Service provides business operations for outbound movements.
type Service struct {
	repo      Repository
	materials material.Repository
	numerator numerator.Generator
	txManager tx.Manager
	hooks     *domain.HookRegistry[*StockOut]
}

// NewService creates a new stock-out service.
func NewService(
	repo Repository,
	materials material.Repository,
	numerator numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		materials: materials,
		numerator: numerator,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*StockOut](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*StockOut] {
	return s.hooks
}

// PostParams describes a new outbound movement.
type PostParams struct {
	MaterialCode string
	Quantity     int64
	Type         Type

	// Value of the whole movement; nil means Quantity * material unit price
	Value *types.Money

	Operator string
	Comment  string

	// Date defaults to now
	Date time.Time
}

// PostResult is returned after a successful posting.
type PostResult struct {
	Doc *StockOut

	// Balance after the movement
	Balance material.Balance

	// StockStatus classified against the material bounds
	StockStatus material.StockStatus

	// Advisory carries a human-readable stock warning, empty when normal
	Advisory string
}

// Post records an outbound movement: bill number, ledger row and balance
// update in one transaction. The balance must cover the issued quantity.
func (s *Service) Post(ctx context.Context, params PostParams) (*PostResult, error) {
	if !params.Type.Valid() {
		return nil, apperror.NewValidation("invalid stock-out type").
			WithDetail("type", string(params.Type))
	}
	if params.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", params.Quantity)
	}

	// Resolve the material first so a bad code fails before a bill number
	// is consumed.
	m, err := s.materials.GetByCode(ctx, params.MaterialCode)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("material", params.MaterialCode)
		}
		return nil, err
	}
	if !m.IsActive() {
		return nil, apperror.NewConflict("material is inactive").
			WithDetail("code", m.Code)
	}

	doc := NewStockOut(m.ID, m.Code, m.Name, params.Type, params.Quantity)
	doc.Operator = params.Operator
	doc.Comment = params.Comment
	if !params.Date.IsZero() {
		doc.Date = params.Date
	}
	if params.Value != nil {
		doc.Value = *params.Value
	} else {
		doc.Value = m.UnitPrice.Mul(decimal.NewFromInt(params.Quantity))
	}
	audit.EnrichCreatedBy(ctx, &doc.CreatedBy, &doc.UpdatedBy)

	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return nil, err
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	if doc.Number == "" {
		number, err := s.nextNumber(ctx, doc.Type, doc.Date)
		if err != nil {
			return nil, fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	result := &PostResult{Doc: doc}
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// Re-read under lock so the sufficiency check and the delta see
		// the same balance.
		locked, err := s.materials.GetForUpdate(ctx, m.ID)
		if err != nil {
			return err
		}

		if locked.CurrentStock < doc.Quantity {
			return apperror.NewInsufficientStock(locked.Code, doc.Quantity, locked.CurrentStock)
		}

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}

		balance, err := s.materials.ApplyDelta(ctx, locked.ID, -doc.Quantity, doc.Value.Neg())
		if err != nil {
			return err
		}
		result.Balance = balance
		result.StockStatus = material.Classify(balance.CurrentStock, locked.MinStock, locked.MaxStock)
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Advisory = advisory(result.StockStatus)

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "stock-out posted",
		"id", doc.ID,
		"number", doc.Number,
		"material", doc.MaterialCode,
		"quantity", doc.Quantity)

	return result, nil
}

// Reverse deletes the movement and returns its quantity to the balance in
// one transaction. Always allowed: goods come back to the shelf.
func (s *Service) Reverse(ctx context.Context, docID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetByID(ctx, docID)
		if err != nil {
			return err
		}

		locked, err := s.materials.GetForUpdate(ctx, doc.MaterialID)
		if err != nil {
			return err
		}

		if err := s.repo.Delete(ctx, doc.ID); err != nil {
			return err
		}

		if _, err := s.materials.ApplyDelta(ctx, locked.ID, doc.Quantity, doc.Value); err != nil {
			return err
		}

		logger.Info(ctx, "stock-out reversed",
			"id", doc.ID,
			"number", doc.Number,
			"material", doc.MaterialCode)
		return nil
	})
	return err
}

// UpdateParams holds the editable fields of a movement; nil means unchanged.
type UpdateParams struct {
	Quantity *int64
	Value    *types.Money
	Type     *Type
	Operator *string
	Comment  *string
	Date     *time.Time
}

// Update edits a posted movement and applies the quantity/value difference
// to the balance in the same transaction.
func (s *Service) Update(ctx context.Context, docID id.ID, params UpdateParams) (*StockOut, error) {
	var doc *StockOut
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetByID(ctx, docID)
		if err != nil {
			return err
		}

		locked, err := s.materials.GetForUpdate(ctx, doc.MaterialID)
		if err != nil {
			return err
		}

		qtyDiff := int64(0)
		valueDiff := decimal.Zero

		if params.Quantity != nil && *params.Quantity != doc.Quantity {
			if *params.Quantity <= 0 {
				return apperror.NewValidation("quantity must be positive").
					WithDetail("quantity", *params.Quantity)
			}
			qtyDiff = *params.Quantity - doc.Quantity
			doc.Quantity = *params.Quantity
		}
		if params.Value != nil && !params.Value.Equal(doc.Value) {
			valueDiff = params.Value.Sub(doc.Value)
			doc.Value = *params.Value
		}
		if params.Type != nil {
			if !params.Type.Valid() {
				return apperror.NewValidation("invalid stock-out type").
					WithDetail("type", string(*params.Type))
			}
			doc.Type = *params.Type
		}
		if params.Operator != nil {
			doc.Operator = *params.Operator
		}
		if params.Comment != nil {
			doc.Comment = *params.Comment
		}
		if params.Date != nil {
			doc.Date = *params.Date
		}

		if err := doc.Validate(ctx); err != nil {
			return err
		}
		audit.EnrichUpdatedBy(ctx, &doc.UpdatedBy)

		// Growing an outbound movement takes more stock out; the current
		// balance must cover the increase.
		if qtyDiff > 0 && locked.CurrentStock < qtyDiff {
			return apperror.NewInsufficientStock(locked.Code, qtyDiff, locked.CurrentStock)
		}

		if err := s.repo.Update(ctx, doc); err != nil {
			return err
		}

		// Outbound delta is inverted: more issued means less on the shelf.
		if qtyDiff != 0 || !valueDiff.IsZero() {
			if _, err := s.materials.ApplyDelta(ctx, locked.ID, -qtyDiff, valueDiff.Neg()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock-out updated", "id", doc.ID, "number", doc.Number)
	return doc, nil
}

// GetByID retrieves an outbound movement.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*StockOut, error) {
	return s.repo.GetByID(ctx, docID)
}

// List retrieves outbound movements with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockOut], error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) nextNumber(ctx context.Context, movType Type, date time.Time) (string, error) {
	prefix := BillPrefix
	if movType.IsAdjustment() {
		prefix = AdjustmentPrefix
	}
	cfg := numerator.DefaultConfig(prefix)
	return s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: NumeratorStrategy}, date)
}

func advisory(status material.StockStatus) string {
	switch status {
	case material.StockLow:
		return "stock is at or below the minimum, consider replenishing"
	case material.StockHigh:
		return "stock is at or above the maximum"
	default:
		return ""
	}
}
