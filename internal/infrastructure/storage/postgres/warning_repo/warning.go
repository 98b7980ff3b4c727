// Package warning_repo provides the PostgreSQL implementation of the warning
// repository.
package warning_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain"
	"stockroom/internal/domain/warning"
	"stockroom/internal/infrastructure/storage/postgres"
)

const warningTable = "stock_warnings"

var warningCols = postgres.ExtractDBColumns[warning.Warning]()

// WarningRepo implements warning.Repository.
type WarningRepo struct {
	txManager *postgres.TxManager
}

// NewWarningRepo creates a new warning repository.
func NewWarningRepo(txManager *postgres.TxManager) *WarningRepo {
	return &WarningRepo{txManager: txManager}
}

// Ensure compile-time interface compliance.
var _ warning.Repository = (*WarningRepo)(nil)

func (r *WarningRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// ListAll retrieves every warning, for the reconcile pass.
func (r *WarningRepo) ListAll(ctx context.Context) ([]*warning.Warning, error) {
	q := r.builder().
		Select(warningCols...).
		From(warningTable)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*warning.Warning
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list all warnings: %w", err)
	}

	return items, nil
}

const upsertWarningSQL = `
	INSERT INTO stock_warnings
		(id, material_id, material_code, material_name, type, level,
		 current_stock, min_stock, max_stock, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (material_id, type) DO UPDATE SET
		material_code = EXCLUDED.material_code,
		material_name = EXCLUDED.material_name,
		level = EXCLUDED.level,
		current_stock = EXCLUDED.current_stock,
		min_stock = EXCLUDED.min_stock,
		max_stock = EXCLUDED.max_stock,
		updated_at = EXCLUDED.updated_at
`

func upsertWarningArgs(w *warning.Warning) []any {
	return []any{
		w.ID, w.MaterialID, w.MaterialCode, w.MaterialName, string(w.Type), string(w.Level),
		w.CurrentStock, w.MinStock, w.MaxStock, w.CreatedAt, w.UpdatedAt,
	}
}

// UpsertAll upserts the warnings in one round trip. A reconcile pass over a
// large catalog touches many rows; batching keeps it to a single exchange.
// The unique index on (material_id, type) backs the conflict target.
func (r *WarningRepo) UpsertAll(ctx context.Context, warnings []*warning.Warning) error {
	if len(warnings) == 0 {
		return nil
	}

	queries := make([]postgres.BatchQuery, 0, len(warnings))
	for _, w := range warnings {
		queries = append(queries, postgres.BatchQuery{
			SQL:  upsertWarningSQL,
			Args: upsertWarningArgs(w),
		})
	}

	executor := postgres.NewBatchExecutor(r.txManager)
	if err := executor.ExecuteBatch(ctx, queries); err != nil {
		return fmt.Errorf("upsert warnings: %w", err)
	}

	return nil
}

// DeleteByIDs removes cleared warnings.
func (r *WarningRepo) DeleteByIDs(ctx context.Context, ids []id.ID) error {
	if len(ids) == 0 {
		return nil
	}

	q := r.builder().
		Delete(warningTable).
		Where(squirrel.Eq{"id": ids})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete warnings: %w", err)
	}

	return nil
}

// List retrieves warnings with filtering and pagination.
func (r *WarningRepo) List(ctx context.Context, filter warning.ListFilter) (domain.ListResult[*warning.Warning], error) {
	result := domain.ListResult[*warning.Warning]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder().
		Select(warningCols...).
		From(warningTable)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"material_code": pattern},
			squirrel.ILike{"material_name": pattern},
		})
	}
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": string(*filter.Type)})
	}
	if filter.Level != nil {
		q = q.Where(squirrel.Eq{"level": string(*filter.Level)})
	}

	countQ := r.builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count warnings: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list warnings: %w", err)
	}

	return result, nil
}

// Statistics counts warnings by type and level in one query.
func (r *WarningRepo) Statistics(ctx context.Context) (warning.Statistics, error) {
	var stats warning.Statistics

	querier := r.txManager.GetQuerier(ctx)
	err := querier.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE type = 'low'),
			COUNT(*) FILTER (WHERE type = 'high'),
			COUNT(*) FILTER (WHERE level = 'warning'),
			COUNT(*) FILTER (WHERE level = 'danger')
		FROM stock_warnings
	`).Scan(&stats.Total, &stats.Low, &stats.High, &stats.Warning, &stats.Danger)
	if err != nil {
		return stats, fmt.Errorf("warning statistics: %w", err)
	}

	return stats, nil
}

func (r *WarningRepo) parseOrderBy(orderBy string) (string, error) {
	allowed := map[string]struct{}{
		"material_code": {},
		"material_name": {},
		"type":          {},
		"level":         {},
		"current_stock": {},
		"created_at":    {},
		"updated_at":    {},
	}

	if orderBy == "" {
		return "updated_at DESC", nil
	}

	direction := "ASC"
	field := orderBy
	if len(orderBy) > 1 && orderBy[0] == '-' {
		direction = "DESC"
		field = orderBy[1:]
	}

	if _, ok := allowed[field]; !ok {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}

	return field + " " + direction, nil
}
