package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain"
	"stockroom/internal/domain/documents/stock_in"
	"stockroom/internal/infrastructure/storage/postgres"
)

const stockInTable = "stock_ins"

// StockInRepo implements stock_in.Repository.
type StockInRepo struct {
	*BaseDocumentRepo[*stock_in.StockIn]
}

// NewStockInRepo creates a new stock-in repository.
func NewStockInRepo(txManager *postgres.TxManager) *StockInRepo {
	return &StockInRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*stock_in.StockIn](
			txManager,
			stockInTable,
			postgres.ExtractDBColumns[stock_in.StockIn](),
			func() *stock_in.StockIn { return &stock_in.StockIn{} },
		),
	}
}

// Ensure compile-time interface compliance.
var _ stock_in.Repository = (*StockInRepo)(nil)

// Delete removes the ledger row physically (reversal).
func (r *StockInRepo) Delete(ctx context.Context, docID id.ID) error {
	q := r.Builder().
		Delete(stockInTable).
		Where(squirrel.Eq{"id": docID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.getTxManager(ctx).GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", stockInTable, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(stockInTable, docID.String())
	}

	return nil
}

// List retrieves inbound movements with document-specific filters.
func (r *StockInRepo) List(ctx context.Context, filter stock_in.ListFilter) (domain.ListResult[*stock_in.StockIn], error) {
	result := domain.ListResult[*stock_in.StockIn]{
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
			squirrel.ILike{"number": pattern},
			squirrel.ILike{"material_code": pattern},
			squirrel.ILike{"material_name": pattern},
		})
	}

	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": string(*filter.Type)})
	}
	if filter.Number != "" {
		q = q.Where(squirrel.Eq{"number": filter.Number})
	}
	if filter.Operator != "" {
		q = q.Where(squirrel.Eq{"operator": filter.Operator})
	}
	if filter.MaterialID != nil {
		q = q.Where(squirrel.Eq{"material_id": *filter.MaterialID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
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
		return result, fmt.Errorf("list stock ins: %w", err)
	}

	return result, nil
}
