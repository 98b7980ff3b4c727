package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockroom/internal/domain/warning"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// WarningHandler handles HTTP requests for stock warnings.
type WarningHandler struct {
	*BaseHandler
	service *warning.Service
}

// NewWarningHandler creates a new warning handler.
func NewWarningHandler(base *BaseHandler, service *warning.Service) *WarningHandler {
	return &WarningHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /warnings.
func (h *WarningHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := warning.ListFilter{
		Search:  c.Query("search"),
		OrderBy: c.Query("orderBy"),
		Limit:   h.ParseIntQuery(c, "limit", 50),
		Offset:  h.ParseIntQuery(c, "offset", 0),
	}

	if warnType := c.Query("type"); warnType != "" {
		t := warning.Type(warnType)
		filter.Type = &t
	}
	if level := c.Query("level"); level != "" {
		l := warning.Level(level)
		filter.Level = &l
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Statistics handles GET /warnings/statistics - counts by type and level.
func (h *WarningHandler) Statistics(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.service.Statistics(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Check handles POST /warnings/check - run a full reconcile pass over all
// active materials.
func (h *WarningHandler) Check(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.service.Reconcile(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
