package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/documents/stocktake"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// StocktakeHandler handles HTTP requests for counting tasks.
type StocktakeHandler struct {
	*BaseHandler
	service *stocktake.Service
}

// NewStocktakeHandler creates a new stocktake handler.
func NewStocktakeHandler(base *BaseHandler, service *stocktake.Service) *StocktakeHandler {
	return &StocktakeHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /stocktakes - start a counting task snapshotting all
// active materials.
func (h *StocktakeHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateStocktakeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	detail, err := h.service.CreateTask(ctx, stocktake.CreateParams{
		CreatedBy: h.GetUserName(c),
		Comment:   req.Comment,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromStocktakeDetail(detail))
}

// List handles GET /stocktakes.
func (h *StocktakeHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := stocktake.ListFilter{}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "date")
	filter.CreatedBy = c.Query("createdBy")

	if status := c.Query("status"); status != "" {
		s := stocktake.Status(status)
		filter.Status = &s
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
	for i, task := range result.Items {
		items[i] = dto.FromStocktakeTask(task)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /stocktakes/:id - task with items and progress.
func (h *StocktakeHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	taskID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	detail, err := h.service.GetTask(ctx, taskID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStocktakeDetail(detail))
}

// SubmitItem handles PUT /stocktakes/:id/items/:itemId - record a counted
// quantity for one line.
func (h *StocktakeHandler) SubmitItem(c *gin.Context) {
	ctx := c.Request.Context()

	taskID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}
	itemID, err := id.Parse(c.Param("itemId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid itemId format"))
		return
	}

	var req dto.SubmitCountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.service.SubmitItem(ctx, taskID, itemID, *req.RealQty, h.GetUserName(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStocktakeItem(item))
}

// Complete handles POST /stocktakes/:id/complete - finish the task and book
// adjustment bills for every difference.
func (h *StocktakeHandler) Complete(c *gin.Context) {
	ctx := c.Request.Context()

	taskID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	detail, err := h.service.CompleteTask(ctx, taskID, h.GetUserName(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStocktakeDetail(detail))
}

// Cancel handles POST /stocktakes/:id/cancel.
func (h *StocktakeHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	taskID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	task, err := h.service.CancelTask(ctx, taskID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStocktakeTask(task))
}
