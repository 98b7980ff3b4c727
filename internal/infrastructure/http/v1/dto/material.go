package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stockroom/internal/domain/material"
)

// MaterialResponse represents a material in API responses.
type MaterialResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Spec         *string         `json:"spec,omitempty"`
	Unit         string          `json:"unit"`
	Category     *string         `json:"category,omitempty"`
	Supplier     *string         `json:"supplier,omitempty"`
	MinStock     int64           `json:"minStock"`
	MaxStock     int64           `json:"maxStock"`
	CurrentStock int64           `json:"currentStock"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	StockValue   decimal.Decimal `json:"stockValue"`
	Status       string          `json:"status"`
	StockStatus  string          `json:"stockStatus"`
	DeletionMark bool            `json:"deletionMark"`
	Version      int             `json:"version"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// FromMaterial maps a domain material to its response.
func FromMaterial(m *material.Material) *MaterialResponse {
	return &MaterialResponse{
		ID:           m.ID.String(),
		Code:         m.Code,
		Name:         m.Name,
		Spec:         m.Spec,
		Unit:         m.Unit,
		Category:     m.Category,
		Supplier:     m.Supplier,
		MinStock:     m.MinStock,
		MaxStock:     m.MaxStock,
		CurrentStock: m.CurrentStock,
		UnitPrice:    m.UnitPrice,
		StockValue:   m.StockValue,
		Status:       string(m.Status),
		StockStatus:  string(m.StockStatus()),
		DeletionMark: m.DeletionMark,
		Version:      m.Version,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// CreateMaterialRequest for creating materials.
type CreateMaterialRequest struct {
	Code      string          `json:"code" binding:"required"`
	Name      string          `json:"name" binding:"required"`
	Spec      *string         `json:"spec"`
	Unit      string          `json:"unit" binding:"required"`
	Category  *string         `json:"category"`
	Supplier  *string         `json:"supplier"`
	MinStock  int64           `json:"minStock"`
	MaxStock  int64           `json:"maxStock"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// ToMaterial maps the request to a new domain material.
func (r *CreateMaterialRequest) ToMaterial() *material.Material {
	m := material.NewMaterial(r.Code, r.Name, r.Unit)
	m.Spec = r.Spec
	m.Category = r.Category
	m.Supplier = r.Supplier
	m.MinStock = r.MinStock
	m.MaxStock = r.MaxStock
	m.UnitPrice = r.UnitPrice
	return m
}

// UpdateMaterialRequest for updating materials. Balance fields are not
// writable here; they move only through stock documents.
type UpdateMaterialRequest struct {
	Name      *string          `json:"name"`
	Spec      *string          `json:"spec"`
	Unit      *string          `json:"unit"`
	Category  *string          `json:"category"`
	Supplier  *string          `json:"supplier"`
	MinStock  *int64           `json:"minStock"`
	MaxStock  *int64           `json:"maxStock"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
	Status    *string          `json:"status"`
	Version   int              `json:"version" binding:"required,min=1"`
}

// Apply maps the request onto an existing material.
func (r *UpdateMaterialRequest) Apply(m *material.Material) *material.Material {
	if r.Name != nil {
		m.Name = *r.Name
	}
	if r.Spec != nil {
		m.Spec = r.Spec
	}
	if r.Unit != nil {
		m.Unit = *r.Unit
	}
	if r.Category != nil {
		m.Category = r.Category
	}
	if r.Supplier != nil {
		m.Supplier = r.Supplier
	}
	if r.MinStock != nil {
		m.MinStock = *r.MinStock
	}
	if r.MaxStock != nil {
		m.MaxStock = *r.MaxStock
	}
	if r.UnitPrice != nil {
		m.UnitPrice = *r.UnitPrice
	}
	if r.Status != nil {
		m.Status = material.Status(*r.Status)
	}
	m.Version = r.Version
	return m
}
