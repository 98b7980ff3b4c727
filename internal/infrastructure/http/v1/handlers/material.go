package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/material"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// MaterialHandler handles HTTP requests for the material catalog.
// Generic CRUD comes from CatalogHandler; listing and status switching
// need material-specific filters.
type MaterialHandler struct {
	*CatalogHandler[*material.Material, dto.CreateMaterialRequest, dto.UpdateMaterialRequest]
	service *material.Service
}

// NewMaterialHandler creates a new material handler.
func NewMaterialHandler(base *BaseHandler, service *material.Service) *MaterialHandler {
	catalogHandler := NewCatalogHandler(base, CatalogHandlerConfig[*material.Material, dto.CreateMaterialRequest, dto.UpdateMaterialRequest]{
		Service:    service.CatalogService,
		EntityName: "material",
		MapCreateDTO: func(req dto.CreateMaterialRequest) *material.Material {
			return req.ToMaterial()
		},
		MapUpdateDTO: func(req dto.UpdateMaterialRequest, existing *material.Material) *material.Material {
			return req.Apply(existing)
		},
		MapToDTO: func(m *material.Material) any {
			return dto.FromMaterial(m)
		},
	})

	return &MaterialHandler{
		CatalogHandler: catalogHandler,
		service:        service,
	}
}

// List handles GET /materials with material-specific filters on top of the
// common catalog ones.
func (h *MaterialHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	base, err := h.ListFilterFromQuery(c)
	if err != nil {
		h.Error(c, err)
		return
	}
	base.OrderBy = c.DefaultQuery("orderBy", "code")

	filter := material.ListFilter{ListFilter: base}

	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if supplier := c.Query("supplier"); supplier != "" {
		filter.Supplier = &supplier
	}
	if status := c.Query("status"); status != "" {
		s := material.Status(status)
		filter.Status = &s
	}
	if stockStatus := c.Query("stockStatus"); stockStatus != "" {
		s := material.StockStatus(stockStatus)
		filter.StockStatus = &s
	}

	result, err := h.service.ListMaterials(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, m := range result.Items {
		items[i] = dto.FromMaterial(m)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// StockSummary handles GET /stock/summary - live material counts per stock
// status, for the stock dashboard header.
func (h *MaterialHandler) StockSummary(c *gin.Context) {
	ctx := c.Request.Context()

	counts, err := h.service.CountByStockStatus(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"low":    counts[material.StockLow],
		"normal": counts[material.StockNormal],
		"high":   counts[material.StockHigh],
	})
}

// SetStatus handles POST /materials/:id/status - switch active/inactive.
func (h *MaterialHandler) SetStatus(c *gin.Context) {
	ctx := c.Request.Context()

	materialID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := h.service.SetStatus(ctx, materialID, material.Status(req.Status))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromMaterial(m))
}
