package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockroom/internal/domain/reports"
)

// ReportsHandler handles HTTP requests for reports and statistics.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Overview handles GET /statistics/overview - dashboard headline numbers.
func (h *ReportsHandler) Overview(c *gin.Context) {
	ctx := c.Request.Context()

	overview, err := h.service.Overview(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// Trend handles GET /statistics/trend - daily in/out quantities.
func (h *ReportsHandler) Trend(c *gin.Context) {
	ctx := c.Request.Context()

	filter := reports.TrendFilter{
		Days: h.ParseIntQuery(c, "days", 0),
	}

	points, err := h.service.Trend(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": points})
}

// Ranking handles GET /statistics/ranking - top materials by balance or
// movement volume.
func (h *ReportsHandler) Ranking(c *gin.Context) {
	ctx := c.Request.Context()

	filter := reports.RankingFilter{
		By:  reports.RankingBy(c.Query("by")),
		Top: h.ParseIntQuery(c, "top", 0),
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

	items, err := h.service.Ranking(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Categories handles GET /statistics/categories - distribution of materials
// and stock value per category.
func (h *ReportsHandler) Categories(c *gin.Context) {
	ctx := c.Request.Context()

	slices, err := h.service.CategoryDistribution(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": slices})
}

// MonthlyList handles GET /reports/monthly - last twelve months summarized.
func (h *ReportsHandler) MonthlyList(c *gin.Context) {
	ctx := c.Request.Context()

	summaries, err := h.service.MonthlyList(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": summaries})
}

// MonthlyDetail handles GET /reports/monthly/:month - per-material breakdown
// for one month (YYYY-MM).
func (h *ReportsHandler) MonthlyDetail(c *gin.Context) {
	ctx := c.Request.Context()

	detail, err := h.service.MonthlyDetail(ctx, c.Param("month"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}
