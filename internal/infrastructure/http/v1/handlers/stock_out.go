package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/documents/stock_out"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// StockOutHandler handles HTTP requests for outbound movement bills.
type StockOutHandler struct {
	*BaseHandler
	service *stock_out.Service
}

// NewStockOutHandler creates a new stock-out handler.
func NewStockOutHandler(base *BaseHandler, service *stock_out.Service) *StockOutHandler {
	return &StockOutHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /stock-outs - post a new outbound bill.
func (h *StockOutHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Post(ctx, req.ToStockOutParams(h.GetUserName(c)))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromStockOutResult(result))
}

// List handles GET /stock-outs.
func (h *StockOutHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := stock_out.ListFilter{}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "date")
	filter.Number = c.Query("number")
	filter.Operator = c.Query("operator")

	if movType := c.Query("type"); movType != "" {
		t := stock_out.Type(movType)
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
		items[i] = dto.FromStockOut(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /stock-outs/:id.
func (h *StockOutHandler) Get(c *gin.Context) {
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

	c.JSON(http.StatusOK, dto.FromStockOut(doc))
}

// Update handles PUT /stock-outs/:id - edit a posted bill, rebalancing stock.
func (h *StockOutHandler) Update(c *gin.Context) {
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

	doc, err := h.service.Update(ctx, docID, req.ToStockOutParams())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockOut(doc))
}

// Delete handles DELETE /stock-outs/:id - reverse the bill and restore the
// stock it consumed.
func (h *StockOutHandler) Delete(c *gin.Context) {
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
