// Package stock_out provides the StockOut document: a single outbound
// movement in the stock ledger.
package stock_out

import (
	"context"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

// Type classifies the business reason for an outbound movement.
type Type string

const (
	TypeProduction Type = "production"
	TypeSales      Type = "sales"
	TypeOther      Type = "other"

	// TypeAdjustLoss records a stocktake shortage. Uses the ADJ bill prefix.
	TypeAdjustLoss Type = "adjust_loss"
)

func (t Type) Valid() bool {
	switch t {
	case TypeProduction, TypeSales, TypeOther, TypeAdjustLoss:
		return true
	}
	return false
}

// IsAdjustment reports whether the movement originates from a stocktake.
func (t Type) IsAdjustment() bool {
	return t == TypeAdjustLoss
}

// StockOut represents an outbound stock movement. Number is the bill number
// (OUT-YYYYMMDD-NNNN, ADJ- for adjustments), Date the occurrence time.
type StockOut struct {
	entity.Document

	// Material reference plus code/name snapshot taken at posting time
	MaterialID   id.ID  `db:"material_id" json:"materialId"`
	MaterialCode string `db:"material_code" json:"materialCode"`
	MaterialName string `db:"material_name" json:"materialName"`

	Type Type `db:"type" json:"type"`

	// Quantity in the material's unit, always positive
	Quantity int64 `db:"quantity" json:"quantity"`

	// Value is the total value of the movement
	Value types.Money `db:"value" json:"value"`

	// Operator is the person who performed the movement (free text)
	Operator string `db:"operator" json:"operator,omitempty"`
}

// NewStockOut creates a new outbound movement document.
func NewStockOut(materialID id.ID, materialCode, materialName string, movType Type, quantity int64) *StockOut {
	return &StockOut{
		Document:     entity.NewDocument(),
		MaterialID:   materialID,
		MaterialCode: materialCode,
		MaterialName: materialName,
		Type:         movType,
		Quantity:     quantity,
		Value:        types.Zero(),
	}
}

// Validate implements entity.Validatable.
func (d *StockOut) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(d.MaterialID) {
		return apperror.NewValidation("material is required").
			WithDetail("field", "materialId")
	}

	if !d.Type.Valid() {
		return apperror.NewValidation("invalid stock-out type").
			WithDetail("field", "type").
			WithDetail("value", string(d.Type))
	}

	if d.Quantity <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}

	if d.Value.IsNegative() {
		return apperror.NewValidation("value cannot be negative").
			WithDetail("field", "value")
	}

	return nil
}
