// Package stock_in provides the StockIn document: a single inbound movement
// in the stock ledger.
package stock_in

import (
	"context"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

// Type classifies the business reason for an inbound movement.
type Type string

const (
	TypePurchase   Type = "purchase"
	TypeProduction Type = "production"
	TypeReturn     Type = "return"
	TypeOther      Type = "other"

	// TypeAdjustGain records a stocktake surplus. Skips the capacity guard
	// and uses the ADJ bill prefix.
	TypeAdjustGain Type = "adjust_gain"
)

func (t Type) Valid() bool {
	switch t {
	case TypePurchase, TypeProduction, TypeReturn, TypeOther, TypeAdjustGain:
		return true
	}
	return false
}

// IsAdjustment reports whether the movement originates from a stocktake.
func (t Type) IsAdjustment() bool {
	return t == TypeAdjustGain
}

// StockIn represents an inbound stock movement. Number is the bill number
// (IN-YYYYMMDD-NNNN, ADJ- for adjustments), Date the occurrence time.
type StockIn struct {
	entity.Document

	// Material reference plus code/name snapshot taken at posting time.
	// The snapshot keeps the ledger readable after the material changes.
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

// NewStockIn creates a new inbound movement document.
func NewStockIn(materialID id.ID, materialCode, materialName string, movType Type, quantity int64) *StockIn {
	return &StockIn{
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
func (d *StockIn) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(d.MaterialID) {
		return apperror.NewValidation("material is required").
			WithDetail("field", "materialId")
	}

	if !d.Type.Valid() {
		return apperror.NewValidation("invalid stock-in type").
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
