// Package material provides the Material catalog: the master record for every
// stocked item, including its live balance and configured stock bounds.
package material

import (
	"context"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/types"
)

// Status defines the material lifecycle status.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Material represents a stocked item. Code and Name come from entity.Catalog
// (material code and material name).
type Material struct {
	entity.Catalog

	// Spec is the specification/model description
	Spec *string `db:"spec" json:"spec,omitempty"`

	// Unit is the unit of measure (free text, e.g. "pcs", "kg")
	Unit string `db:"unit" json:"unit"`

	// Category groups materials for reporting (free text)
	Category *string `db:"category" json:"category,omitempty"`

	// Supplier is the default supplier name (free text)
	Supplier *string `db:"supplier" json:"supplier,omitempty"`

	// MaxStock is the upper stock bound; 0 means unbounded
	MaxStock int64 `db:"max_stock" json:"maxStock"`

	// MinStock is the lower stock bound; 0 means no low-stock threshold
	MinStock int64 `db:"min_stock" json:"minStock"`

	// CurrentStock is the live balance, mutated only through Repository.ApplyDelta
	CurrentStock int64 `db:"current_stock" json:"currentStock"`

	// UnitPrice is the reference price per unit
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// StockValue accumulates movement value deltas independently of
	// CurrentStock*UnitPrice
	StockValue types.Money `db:"stock_value" json:"stockValue"`

	// Status is active or inactive
	Status Status `db:"status" json:"status"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewMaterial creates a new active Material with required fields.
func NewMaterial(code, name, unit string) *Material {
	now := time.Now().UTC()
	return &Material{
		Catalog:    entity.NewCatalog(code, name),
		Unit:       unit,
		Status:     StatusActive,
		UnitPrice:  types.Zero(),
		StockValue: types.Zero(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsActive reports whether the material participates in movements and checks.
func (m *Material) IsActive() bool {
	return m.Status == StatusActive && !m.DeletionMark
}

// StockStatus classifies the current balance against the configured bounds.
func (m *Material) StockStatus() StockStatus {
	return Classify(m.CurrentStock, m.MinStock, m.MaxStock)
}

// Validate implements entity.Validatable interface.
func (m *Material) Validate(ctx context.Context) error {
	if err := m.Catalog.Validate(ctx); err != nil {
		return err
	}

	if m.Code == "" {
		return apperror.NewValidation("material code is required").
			WithDetail("field", "code")
	}

	if m.Status != StatusActive && m.Status != StatusInactive {
		return apperror.NewValidation("invalid status").
			WithDetail("field", "status").
			WithDetail("value", string(m.Status))
	}

	if m.MinStock < 0 {
		return apperror.NewValidation("min stock cannot be negative").
			WithDetail("field", "minStock")
	}

	if m.MaxStock < 0 {
		return apperror.NewValidation("max stock cannot be negative").
			WithDetail("field", "maxStock")
	}

	if m.MinStock > 0 && m.MaxStock > 0 && m.MinStock > m.MaxStock {
		return apperror.NewValidation("min stock cannot exceed max stock").
			WithDetail("field", "minStock")
	}

	if m.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}

	return nil
}
