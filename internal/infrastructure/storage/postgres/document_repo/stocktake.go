package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain"
	"stockroom/internal/domain/documents/stocktake"
	"stockroom/internal/infrastructure/storage/postgres"
)

const (
	stocktakeTaskTable = "stocktake_tasks"
	stocktakeItemTable = "stocktake_items"
)

// StocktakeRepo implements stocktake.Repository.
type StocktakeRepo struct {
	base *BaseDocumentRepo[*stocktake.Task]
}

// NewStocktakeRepo creates a new stocktake repository.
func NewStocktakeRepo(txManager *postgres.TxManager) *StocktakeRepo {
	return &StocktakeRepo{
		base: NewBaseDocumentRepo[*stocktake.Task](
			txManager,
			stocktakeTaskTable,
			postgres.ExtractDBColumns[stocktake.Task](),
			func() *stocktake.Task { return &stocktake.Task{} },
		),
	}
}

// Ensure compile-time interface compliance.
var _ stocktake.Repository = (*StocktakeRepo)(nil)

// --- Tasks ---

func (r *StocktakeRepo) CreateTask(ctx context.Context, task *stocktake.Task) error {
	return r.base.Create(ctx, task)
}

func (r *StocktakeRepo) GetTask(ctx context.Context, taskID id.ID) (*stocktake.Task, error) {
	return r.base.GetByID(ctx, taskID)
}

func (r *StocktakeRepo) GetTaskByNumber(ctx context.Context, number string) (*stocktake.Task, error) {
	return r.base.GetByNumber(ctx, number)
}

func (r *StocktakeRepo) GetTaskForUpdate(ctx context.Context, taskID id.ID) (*stocktake.Task, error) {
	return r.base.GetForUpdate(ctx, taskID)
}

func (r *StocktakeRepo) UpdateTask(ctx context.Context, task *stocktake.Task) error {
	if err := r.base.Update(ctx, task); err != nil {
		return err
	}
	// Keep the in-memory version in sync for follow-up updates in the
	// same transaction.
	task.Version++
	return nil
}

// --- Items ---

var stocktakeItemCols = postgres.ExtractDBColumns[stocktake.Item]()

// SaveItems bulk-inserts the task items via COPY. A task over a large catalog
// produces one item per material, so the row count matches the catalog size.
// Always called inside the task-creation transaction.
func (r *StocktakeRepo) SaveItems(ctx context.Context, taskID id.ID, items []*stocktake.Item) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(items))
	for _, item := range items {
		data := postgres.StructToMap(item)
		values := make([]any, 0, len(stocktakeItemCols))
		for _, col := range stocktakeItemCols {
			values = append(values, data[col])
		}
		rows = append(rows, values)
	}

	inserter := postgres.NewBatchInserter(r.base.getTxManager(ctx))
	if _, err := inserter.CopyFromSlice(ctx, stocktakeItemTable, stocktakeItemCols, rows); err != nil {
		return fmt.Errorf("insert %s: %w", stocktakeItemTable, err)
	}

	return nil
}

func (r *StocktakeRepo) GetItems(ctx context.Context, taskID id.ID) ([]*stocktake.Item, error) {
	q := r.base.Builder().
		Select(stocktakeItemCols...).
		From(stocktakeItemTable).
		Where(squirrel.Eq{"task_id": taskID}).
		OrderBy("material_code ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*stocktake.Item
	querier := r.base.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	return items, nil
}

func (r *StocktakeRepo) GetItem(ctx context.Context, itemID id.ID) (*stocktake.Item, error) {
	q := r.base.Builder().
		Select(stocktakeItemCols...).
		From(stocktakeItemTable).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	item := &stocktake.Item{}
	querier := r.base.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(stocktakeItemTable, itemID.String())
		}
		return nil, fmt.Errorf("get item: %w", err)
	}

	return item, nil
}

func (r *StocktakeRepo) UpdateItem(ctx context.Context, item *stocktake.Item) error {
	data := postgres.StructToMap(item)

	setData := make(map[string]any, len(stocktakeItemCols))
	for _, col := range stocktakeItemCols {
		if col == "id" || col == "task_id" || col == "material_id" {
			continue
		}
		if val, ok := data[col]; ok {
			setData[col] = val
		}
	}

	q := r.base.Builder().
		Update(stocktakeItemTable).
		SetMap(setData).
		Where(squirrel.Eq{"id": item.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.base.getTxManager(ctx).GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", stocktakeItemTable, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(stocktakeItemTable, item.ID.String())
	}

	return nil
}

// GetProgress counts total and counted items for a task.
func (r *StocktakeRepo) GetProgress(ctx context.Context, taskID id.ID) (stocktake.Progress, error) {
	var p stocktake.Progress

	querier := r.base.getTxManager(ctx).GetQuerier(ctx)
	err := querier.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(real_qty)
		FROM stocktake_items
		WHERE task_id = $1
	`, taskID).Scan(&p.Total, &p.Counted)
	if err != nil {
		return p, fmt.Errorf("get progress: %w", err)
	}

	return p, nil
}

// --- List ---

// List retrieves tasks with workflow-specific filters.
func (r *StocktakeRepo) List(ctx context.Context, filter stocktake.ListFilter) (domain.ListResult[*stocktake.Task], error) {
	result := domain.ListResult[*stocktake.Task]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.base.baseSelect(ctx)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.CreatedBy != "" {
		q = q.Where(squirrel.Eq{"created_by": filter.CreatedBy})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	countQ := r.base.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.base.getTxManager(ctx).GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.base.parseOrderBy(filter.OrderBy)
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
		return result, fmt.Errorf("list tasks: %w", err)
	}

	return result, nil
}
