package warning

import (
	"context"

	"stockroom/internal/core/id"
	"stockroom/internal/core/tx"
	"stockroom/internal/domain"
	"stockroom/internal/domain/material"
	"stockroom/pkg/logger"
)

// Service keeps the warnings table consistent with material balances.
type Service struct {
	repo      Repository
	materials material.Repository
	txManager tx.Manager
}

// NewService creates a new warning service.
func NewService(repo Repository, materials material.Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		materials: materials,
		txManager: txManager,
	}
}

// ReconcileResult reports what a reconcile pass changed.
type ReconcileResult struct {
	// Created warnings that did not exist before the pass
	Created []*Warning `json:"created"`

	// Cleared warnings whose condition no longer holds
	Cleared []*Warning `json:"cleared"`

	// Refreshed counts warnings whose snapshot or level was updated
	Refreshed int `json:"refreshed"`
}

type warningKey struct {
	materialID id.ID
	warnType   Type
}

// Reconcile recomputes the full warning set from live material state in one
// transaction: clears stale rows, refreshes surviving ones, and creates rows
// for newly breached bounds. Running it twice in a row is a no-op.
func (s *Service) Reconcile(ctx context.Context) (*ReconcileResult, error) {
	result := &ReconcileResult{}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		materials, err := s.materials.ListActive(ctx)
		if err != nil {
			return err
		}

		existing, err := s.repo.ListAll(ctx)
		if err != nil {
			return err
		}

		// Desired state: one warning per active material whose balance is
		// outside its bounds.
		desired := make(map[warningKey]*material.Material, len(materials))
		for _, m := range materials {
			warnType, ok := TypeFor(m.StockStatus())
			if !ok {
				continue
			}
			desired[warningKey{m.ID, warnType}] = m
		}

		current := make(map[warningKey]*Warning, len(existing))
		var staleIDs []id.ID
		for _, w := range existing {
			key := warningKey{w.MaterialID, w.Type}
			if _, ok := desired[key]; !ok {
				staleIDs = append(staleIDs, w.ID)
				result.Cleared = append(result.Cleared, w)
				continue
			}
			current[key] = w
		}

		if len(staleIDs) > 0 {
			if err := s.repo.DeleteByIDs(ctx, staleIDs); err != nil {
				return err
			}
		}

		upserts := make([]*Warning, 0, len(desired))
		for key, m := range desired {
			if w, ok := current[key]; ok {
				w.Refresh(m)
				upserts = append(upserts, w)
				result.Refreshed++
				continue
			}

			w := NewWarning(m, key.warnType)
			upserts = append(upserts, w)
			result.Created = append(result.Created, w)
		}

		return s.repo.UpsertAll(ctx, upserts)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "warnings reconciled",
		"created", len(result.Created),
		"cleared", len(result.Cleared),
		"refreshed", result.Refreshed)

	return result, nil
}

// List retrieves warnings with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Warning], error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// Statistics counts warnings by type and level.
func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	return s.repo.Statistics(ctx)
}
