package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stockroom/internal/domain/documents/stock_in"
	"stockroom/internal/domain/documents/stock_out"
)

// MovementResponse represents one stock movement bill. Both directions share
// the same shape; Direction tells them apart.
type MovementResponse struct {
	ID           string          `json:"id"`
	Number       string          `json:"number"`
	Direction    string          `json:"direction"`
	Type         string          `json:"type"`
	MaterialID   string          `json:"materialId"`
	MaterialCode string          `json:"materialCode"`
	MaterialName string          `json:"materialName"`
	Quantity     int64           `json:"quantity"`
	Value        decimal.Decimal `json:"value"`
	Operator     string          `json:"operator,omitempty"`
	Comment      string          `json:"comment,omitempty"`
	Date         time.Time       `json:"date"`
	Version      int             `json:"version"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// FromStockIn maps an inbound bill to its response.
func FromStockIn(d *stock_in.StockIn) *MovementResponse {
	return &MovementResponse{
		ID:           d.ID.String(),
		Number:       d.Number,
		Direction:    "in",
		Type:         string(d.Type),
		MaterialID:   d.MaterialID.String(),
		MaterialCode: d.MaterialCode,
		MaterialName: d.MaterialName,
		Quantity:     d.Quantity,
		Value:        d.Value,
		Operator:     d.Operator,
		Comment:      d.Comment,
		Date:         d.Date,
		Version:      d.Version,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// FromStockOut maps an outbound bill to its response.
func FromStockOut(d *stock_out.StockOut) *MovementResponse {
	return &MovementResponse{
		ID:           d.ID.String(),
		Number:       d.Number,
		Direction:    "out",
		Type:         string(d.Type),
		MaterialID:   d.MaterialID.String(),
		MaterialCode: d.MaterialCode,
		MaterialName: d.MaterialName,
		Quantity:     d.Quantity,
		Value:        d.Value,
		Operator:     d.Operator,
		Comment:      d.Comment,
		Date:         d.Date,
		Version:      d.Version,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// CreateMovementRequest posts a new movement bill.
type CreateMovementRequest struct {
	MaterialCode string `json:"materialCode" binding:"required"`
	Quantity     int64  `json:"quantity" binding:"required,min=1"`
	Type         string `json:"type" binding:"required"`

	// Value of the whole movement; omitted means quantity times unit price
	Value *decimal.Decimal `json:"value"`

	Operator string     `json:"operator"`
	Comment  string     `json:"comment"`
	Date     *time.Time `json:"date"`
}

// ToStockInParams maps the request to inbound post parameters.
func (r *CreateMovementRequest) ToStockInParams(operator string) stock_in.PostParams {
	params := stock_in.PostParams{
		MaterialCode: r.MaterialCode,
		Quantity:     r.Quantity,
		Type:         stock_in.Type(r.Type),
		Value:        r.Value,
		Operator:     r.Operator,
		Comment:      r.Comment,
	}
	if params.Operator == "" {
		params.Operator = operator
	}
	if r.Date != nil {
		params.Date = *r.Date
	}
	return params
}

// ToStockOutParams maps the request to outbound post parameters.
func (r *CreateMovementRequest) ToStockOutParams(operator string) stock_out.PostParams {
	params := stock_out.PostParams{
		MaterialCode: r.MaterialCode,
		Quantity:     r.Quantity,
		Type:         stock_out.Type(r.Type),
		Value:        r.Value,
		Operator:     r.Operator,
		Comment:      r.Comment,
	}
	if params.Operator == "" {
		params.Operator = operator
	}
	if r.Date != nil {
		params.Date = *r.Date
	}
	return params
}

// UpdateMovementRequest edits an existing bill. All fields optional.
type UpdateMovementRequest struct {
	Quantity *int64           `json:"quantity"`
	Value    *decimal.Decimal `json:"value"`
	Type     *string          `json:"type"`
	Operator *string          `json:"operator"`
	Comment  *string          `json:"comment"`
	Date     *time.Time       `json:"date"`
}

// ToStockInParams maps the request to inbound update parameters.
func (r *UpdateMovementRequest) ToStockInParams() stock_in.UpdateParams {
	params := stock_in.UpdateParams{
		Quantity: r.Quantity,
		Value:    r.Value,
		Operator: r.Operator,
		Comment:  r.Comment,
		Date:     r.Date,
	}
	if r.Type != nil {
		t := stock_in.Type(*r.Type)
		params.Type = &t
	}
	return params
}

// ToStockOutParams maps the request to outbound update parameters.
func (r *UpdateMovementRequest) ToStockOutParams() stock_out.UpdateParams {
	params := stock_out.UpdateParams{
		Quantity: r.Quantity,
		Value:    r.Value,
		Operator: r.Operator,
		Comment:  r.Comment,
		Date:     r.Date,
	}
	if r.Type != nil {
		t := stock_out.Type(*r.Type)
		params.Type = &t
	}
	return params
}

// PostMovementResponse is the result of posting a bill: the stored document
// plus the balance it produced.
type PostMovementResponse struct {
	Doc          *MovementResponse `json:"doc"`
	CurrentStock int64             `json:"currentStock"`
	StockValue   decimal.Decimal   `json:"stockValue"`
	StockStatus  string            `json:"stockStatus"`
	Advisory     string            `json:"advisory,omitempty"`
}

// FromStockInResult maps an inbound post result.
func FromStockInResult(r *stock_in.PostResult) *PostMovementResponse {
	return &PostMovementResponse{
		Doc:          FromStockIn(r.Doc),
		CurrentStock: r.Balance.CurrentStock,
		StockValue:   r.Balance.StockValue,
		StockStatus:  string(r.StockStatus),
		Advisory:     r.Advisory,
	}
}

// FromStockOutResult maps an outbound post result.
func FromStockOutResult(r *stock_out.PostResult) *PostMovementResponse {
	return &PostMovementResponse{
		Doc:          FromStockOut(r.Doc),
		CurrentStock: r.Balance.CurrentStock,
		StockValue:   r.Balance.StockValue,
		StockStatus:  string(r.StockStatus),
		Advisory:     r.Advisory,
	}
}
