package material

import (
	"context"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/core/tx"
	"stockroom/internal/domain"
)

// Service provides business logic for the Material catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Material]
	repo Repository
}

// NewService creates a new Material service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Material]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "material",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.checkCodeUnique)
	base.Hooks().OnBeforeUpdate(svc.checkCodeUnique)
	base.Hooks().OnBeforeDelete(svc.checkDeletable)

	return svc
}

// checkCodeUnique rejects a second live material with the same code.
func (s *Service) checkCodeUnique(ctx context.Context, m *Material) error {
	existing, err := s.repo.GetByCode(ctx, m.Code)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != m.ID {
		return apperror.NewDuplicate("material", "code", m.Code)
	}
	return nil
}

// checkDeletable rejects deletion of a material that still holds stock.
// Its movement history stays intact either way (soft delete only).
func (s *Service) checkDeletable(ctx context.Context, m *Material) error {
	if m.CurrentStock != 0 {
		return apperror.NewConflict("material with remaining stock cannot be deleted").
			WithDetail("code", m.Code).
			WithDetail("currentStock", m.CurrentStock)
	}
	return nil
}

// --- Entity-specific methods ---

// ListMaterials retrieves materials with category/supplier/status filters.
func (s *Service) ListMaterials(ctx context.Context, filter ListFilter) (domain.ListResult[*Material], error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "code"
	}
	return s.repo.ListMaterials(ctx, filter)
}

// SetStatus switches the material between active and inactive.
// Inactive materials are excluded from new movements and warning checks.
func (s *Service) SetStatus(ctx context.Context, materialID id.ID, status Status) (*Material, error) {
	if status != StatusActive && status != StatusInactive {
		return nil, apperror.NewValidation("invalid status").
			WithDetail("value", string(status))
	}

	m, err := s.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if m.Status == status {
		return m, nil
	}

	m.Status = status
	if err := s.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// CountByStockStatus returns the number of live materials per classified status.
func (s *Service) CountByStockStatus(ctx context.Context) (map[StockStatus]int64, error) {
	return s.repo.CountByStockStatus(ctx)
}
