// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockroom/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for catalog handlers.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetDeletionMark(c *gin.Context)
	GetTree(c *gin.Context)
	GetPath(c *gin.Context)
}

// MovementRouteHandler defines the interface for movement bill handlers.
// Both directions expose the same surface.
type MovementRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
// Permission codes follow the module:action convention, so the module name
// is enough to derive them.
//
// Usage:
//
//	repo := catalog_repo.NewMaterialRepo(txManager)
//	service := material.NewService(repo, txManager)
//	handler := handlers.NewMaterialHandler(baseHandler, service)
//	RegisterCatalogRoutes(api.Group("/materials"), handler, "material")
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, module string) {
	group.GET("", middleware.RequirePermission(module+":view"), handler.List)
	group.POST("", middleware.RequirePermission(module+":create"), handler.Create)
	group.GET("/tree", middleware.RequirePermission(module+":view"), handler.GetTree)
	group.GET("/:id", middleware.RequirePermission(module+":view"), handler.Get)
	group.GET("/:id/path", middleware.RequirePermission(module+":view"), handler.GetPath)
	group.PUT("/:id", middleware.RequirePermission(module+":update"), handler.Update)
	group.DELETE("/:id", middleware.RequirePermission(module+":delete"), handler.Delete)
	group.POST("/:id/deletion-mark", middleware.RequirePermission(module+":delete"), handler.SetDeletionMark)
}

// RegisterMovementRoutes registers CRUD routes for a movement ledger
// direction. Delete reverses the bill rather than hiding it.
func RegisterMovementRoutes(group *gin.RouterGroup, handler MovementRouteHandler, module string) {
	group.GET("", middleware.RequirePermission(module+":view"), handler.List)
	group.POST("", middleware.RequirePermission(module+":create"), handler.Create)
	group.GET("/:id", middleware.RequirePermission(module+":view"), handler.Get)
	group.PUT("/:id", middleware.RequirePermission(module+":update"), handler.Update)
	group.DELETE("/:id", middleware.RequirePermission(module+":delete"), handler.Delete)
}
