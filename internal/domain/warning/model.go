// Package warning provides stock warnings: persistent low/high alerts derived
// from material balances, kept in sync by the reconcile engine.
package warning

import (
	"time"

	"stockroom/internal/core/id"
	"stockroom/internal/domain/material"
)

// Type is the warning direction.
type Type string

const (
	TypeLow  Type = "low"
	TypeHigh Type = "high"
)

// Level is the warning severity.
type Level string

const (
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// Warning is one active alert. At most one row exists per (material, type).
type Warning struct {
	ID id.ID `db:"id" json:"id"`

	// Material reference plus code/name snapshot
	MaterialID   id.ID  `db:"material_id" json:"materialId"`
	MaterialCode string `db:"material_code" json:"materialCode"`
	MaterialName string `db:"material_name" json:"materialName"`

	Type  Type  `db:"type" json:"type"`
	Level Level `db:"level" json:"level"`

	// Balance snapshot at the last reconcile
	CurrentStock int64 `db:"current_stock" json:"currentStock"`
	MinStock     int64 `db:"min_stock" json:"minStock"`
	MaxStock     int64 `db:"max_stock" json:"maxStock"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewWarning creates an alert snapshotting the material state.
func NewWarning(m *material.Material, warnType Type) *Warning {
	now := time.Now().UTC()
	return &Warning{
		ID:           id.New(),
		MaterialID:   m.ID,
		MaterialCode: m.Code,
		MaterialName: m.Name,
		Type:         warnType,
		Level:        ComputeLevel(warnType, m.CurrentStock, m.MinStock, m.MaxStock),
		CurrentStock: m.CurrentStock,
		MinStock:     m.MinStock,
		MaxStock:     m.MaxStock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Refresh updates the snapshot and severity from the current material state.
func (w *Warning) Refresh(m *material.Material) {
	w.MaterialCode = m.Code
	w.MaterialName = m.Name
	w.CurrentStock = m.CurrentStock
	w.MinStock = m.MinStock
	w.MaxStock = m.MaxStock
	w.Level = ComputeLevel(w.Type, m.CurrentStock, m.MinStock, m.MaxStock)
	w.UpdatedAt = time.Now().UTC()
}

// ComputeLevel derives the severity. A low warning turns danger when the
// stock is exhausted or below half the minimum; a high warning turns danger
// past 110% of the maximum.
func ComputeLevel(warnType Type, current, minStock, maxStock int64) Level {
	switch warnType {
	case TypeLow:
		if current == 0 || current*2 < minStock {
			return LevelDanger
		}
	case TypeHigh:
		if current*10 > maxStock*11 {
			return LevelDanger
		}
	}
	return LevelWarning
}

// TypeFor maps a classified stock status to a warning type.
// Returns false for normal stock.
func TypeFor(status material.StockStatus) (Type, bool) {
	switch status {
	case material.StockLow:
		return TypeLow, true
	case material.StockHigh:
		return TypeHigh, true
	}
	return "", false
}
