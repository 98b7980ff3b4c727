package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/documents/stock_in"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// StockInHandler handles HTTP requests for inbound movement bills.
type StockInHandler struct {
	*BaseHandler
	service *stock_in.Service
}

// NewStockInHandler creates a new stock-in handler.
func NewStockInHandler(base *BaseHandler, service *stock_in.Service) *StockInHandler {
	return &StockInHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /stock-ins - post a new inbound bill.
func (h *StockInHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Post(ctx, req.ToStockInParams(h.GetUserName(c)))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromStockInResult(result))
}

// List handles GET /stock-ins.
func (h *StockInHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := stock_in.ListFilter{}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "date")
	filter.Number = c.Query("number")
	filter.Operator = c.Query("operator")

	if movType := c.Query("type"); movType != "" {
		t := stock_in.Type(movType)
		filter.Type = &t
	}
	if materialID := c.Query("materialId"); materialID != "" {
		parsed, err := id.Parse(materialID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid materialId format"))
			return
		}
		filter.MaterialID = &parsed
	}
	var err error
	if filter.DateFrom, err = parseDateQuery(c, "dateFrom"); err != nil {
		h.Error(c, err)
		return
	}
	if filter.DateTo, err = parseDateQuery(c, "dateTo"); err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromStockIn(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /stock-ins/:id.
func (h *StockInHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockIn(doc))
}

// Update handles PUT /stock-ins/:id - edit a posted bill, rebalancing stock.
func (h *StockInHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Update(ctx, docID, req.ToStockInParams())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockIn(doc))
}

// Delete handles DELETE /stock-ins/:id - reverse the bill and undo its
// balance delta.
func (h *StockInHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Reverse(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseDateQuery reads an optional RFC3339 or YYYY-MM-DD query parameter.
func parseDateQuery(c *gin.Context, key string) (*time.Time, error) {
	val := c.Query(key)
	if val == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", val); err == nil {
		return &t, nil
	}
	return nil, apperror.NewValidation("invalid " + key + " format, expected RFC3339 or YYYY-MM-DD")
}
