package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain"
	"stockroom/internal/domain/material"
	"stockroom/internal/infrastructure/storage/postgres"
)

const materialTable = "materials"

// Balance columns are owned by ApplyDelta; a regular Update must never
// write them from a possibly stale entity snapshot.
var materialBalanceCols = map[string]bool{
	"current_stock": true,
	"stock_value":   true,
}

// Classification predicates, kept in sync with material.Classify.
// Low wins over high when both bounds match.
const (
	stockLowCond  = "(min_stock > 0 AND current_stock <= min_stock)"
	stockHighCond = "(max_stock > 0 AND current_stock >= max_stock AND NOT " + stockLowCond + ")"
)

// MaterialRepo implements material.Repository.
type MaterialRepo struct {
	*BaseCatalogRepo[*material.Material]
}

// NewMaterialRepo creates a new material repository.
func NewMaterialRepo(txManager *postgres.TxManager) *MaterialRepo {
	return &MaterialRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*material.Material](
			txManager,
			materialTable,
			postgres.ExtractDBColumns[material.Material](),
			func() *material.Material { return &material.Material{} },
		),
	}
}

// Ensure compile-time interface compliance.
var _ material.Repository = (*MaterialRepo)(nil)

// Update modifies a material with optimistic locking, skipping the balance
// columns and the creation timestamp.
func (r *MaterialRepo) Update(ctx context.Context, m *material.Material) error {
	data := postgres.StructToMap(m)

	filteredData := make(map[string]any, len(data))
	for _, col := range r.selectCols {
		if col == "id" || col == "version" || col == "created_at" {
			continue
		}
		if materialBalanceCols[col] {
			continue
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.Builder().
		Update(materialTable).
		SetMap(filteredData).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": m.ID}).
		Where(squirrel.Eq{"version": m.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", materialTable, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(materialTable, m.ID)
	}

	return nil
}

// ListMaterials retrieves materials with material-specific filters.
// Stock status filtering happens in SQL so pagination counts stay correct.
func (r *MaterialRepo) ListMaterials(ctx context.Context, filter material.ListFilter) (domain.ListResult[*material.Material], error) {
	result := domain.ListResult[*material.Material]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ctx)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"code": pattern},
			squirrel.ILike{"spec": pattern},
		})
	}

	if filter.Category != nil && *filter.Category != "" {
		q = q.Where(squirrel.Eq{"category": *filter.Category})
	}

	if filter.Supplier != nil && *filter.Supplier != "" {
		q = q.Where(squirrel.Eq{"supplier": *filter.Supplier})
	}

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": string(*filter.Status)})
	}

	if filter.StockStatus != nil {
		switch *filter.StockStatus {
		case material.StockLow:
			q = q.Where(stockLowCond)
		case material.StockHigh:
			q = q.Where(stockHighCond)
		case material.StockNormal:
			q = q.Where("NOT " + stockLowCond).Where("NOT " + stockHighCond)
		default:
			return result, apperror.NewValidation("invalid stock status filter").
				WithDetail("stockStatus", string(*filter.StockStatus))
		}
	}

	var err error
	q, err = r.applyAdvancedFilters(ctx, q, filter.AdvancedFilters)
	if err != nil {
		return result, err
	}

	countQ := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count materials: %w", err)
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
		return result, fmt.Errorf("list materials: %w", err)
	}

	return result, nil
}

// ApplyDelta atomically adjusts the running balance and stock value.
// The WHERE guard makes a negative balance impossible even under
// concurrent movements; a zero-row update means insufficient stock
// (or a missing material, disambiguated below).
func (r *MaterialRepo) ApplyDelta(ctx context.Context, materialID id.ID, qtyDelta int64, valueDelta decimal.Decimal) (material.Balance, error) {
	var balance material.Balance

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	err := querier.QueryRow(ctx, `
		UPDATE materials
		SET current_stock = current_stock + $1,
		    stock_value = stock_value + $2,
		    updated_at = NOW()
		WHERE id = $3 AND current_stock + $1 >= 0
		RETURNING current_stock, stock_value
	`, qtyDelta, valueDelta, materialID).Scan(&balance.CurrentStock, &balance.StockValue)

	if err == pgx.ErrNoRows {
		m, getErr := r.GetByID(ctx, materialID)
		if getErr != nil {
			return balance, getErr
		}
		return balance, apperror.NewInsufficientStock(m.Code, -qtyDelta, m.CurrentStock)
	}
	if err != nil {
		return balance, fmt.Errorf("apply stock delta: %w", err)
	}

	return balance, nil
}

// ListActive retrieves all active, non-deleted materials.
func (r *MaterialRepo) ListActive(ctx context.Context) ([]*material.Material, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"status": string(material.StatusActive)}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("code ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*material.Material
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list active materials: %w", err)
	}

	return items, nil
}

// CountByStockStatus returns the number of live materials per classified status.
func (r *MaterialRepo) CountByStockStatus(ctx context.Context) (map[material.StockStatus]int64, error) {
	sql := fmt.Sprintf(`
		SELECT
			COUNT(*) FILTER (WHERE %s) AS low_count,
			COUNT(*) FILTER (WHERE %s) AS high_count,
			COUNT(*) AS total_count
		FROM materials
		WHERE deletion_mark = false AND status = 'active'
	`, stockLowCond, stockHighCond)

	var low, high, total int64
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql).Scan(&low, &high, &total); err != nil {
		return nil, fmt.Errorf("count by stock status: %w", err)
	}

	return map[material.StockStatus]int64{
		material.StockLow:    low,
		material.StockHigh:   high,
		material.StockNormal: total - low - high,
	}, nil
}
