// Package report_repo provides the PostgreSQL implementation of the reports
// repository. All queries are read-only aggregations over the materials,
// movement and warning tables.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"stockroom/internal/domain/reports"
	"stockroom/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

// Ensure compile-time interface compliance.
var _ reports.Repository = (*ReportRepo)(nil)

// GetOverview collects the dashboard numbers in a single round trip.
func (r *ReportRepo) GetOverview(ctx context.Context, today time.Time) (*reports.Overview, error) {
	overview := &reports.Overview{}

	querier := r.txManager.GetQuerier(ctx)
	err := querier.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM materials WHERE deletion_mark = false),
			(SELECT COALESCE(SUM(current_stock), 0) FROM materials WHERE deletion_mark = false),
			(SELECT COALESCE(SUM(stock_value), 0) FROM materials WHERE deletion_mark = false),
			(SELECT COUNT(*) FROM stock_ins WHERE deletion_mark = false AND date >= $1),
			(SELECT COUNT(*) FROM stock_outs WHERE deletion_mark = false AND date >= $1),
			(SELECT COUNT(*) FROM stock_warnings)
	`, today).Scan(
		&overview.MaterialCount,
		&overview.TotalQuantity,
		&overview.TotalValue,
		&overview.TodayInCount,
		&overview.TodayOutCount,
		&overview.WarningCount,
	)
	if err != nil {
		return nil, fmt.Errorf("get overview: %w", err)
	}

	return overview, nil
}

// GetTrend sums in/out quantities per day. Days without movements on either
// side are absent from the result.
func (r *ReportRepo) GetTrend(ctx context.Context, from, to time.Time) ([]reports.TrendPoint, error) {
	querier := r.txManager.GetQuerier(ctx)

	rows, err := querier.Query(ctx, `
		WITH ins AS (
			SELECT date_trunc('day', date) AS day, SUM(quantity) AS qty
			FROM stock_ins
			WHERE deletion_mark = false AND date >= $1 AND date < $2
			GROUP BY 1
		),
		outs AS (
			SELECT date_trunc('day', date) AS day, SUM(quantity) AS qty
			FROM stock_outs
			WHERE deletion_mark = false AND date >= $1 AND date < $2
			GROUP BY 1
		)
		SELECT
			COALESCE(i.day, o.day) AS day,
			COALESCE(i.qty, 0) AS in_qty,
			COALESCE(o.qty, 0) AS out_qty
		FROM ins i
		FULL OUTER JOIN outs o ON o.day = i.day
		ORDER BY day
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("get trend: %w", err)
	}
	defer rows.Close()

	var points []reports.TrendPoint
	for rows.Next() {
		var p reports.TrendPoint
		if err := rows.Scan(&p.Date, &p.InQty, &p.OutQty); err != nil {
			return nil, fmt.Errorf("scan trend point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trend: %w", err)
	}

	return points, nil
}

// GetBalanceRanking returns the top materials by current balance.
func (r *ReportRepo) GetBalanceRanking(ctx context.Context, top int) ([]reports.RankingItem, error) {
	querier := r.txManager.GetQuerier(ctx)

	var items []reports.RankingItem
	err := pgxscan.Select(ctx, querier, &items, `
		SELECT
			id AS material_id,
			code AS material_code,
			name AS material_name,
			unit,
			current_stock AS quantity
		FROM materials
		WHERE deletion_mark = false
		ORDER BY current_stock DESC, code
		LIMIT $1
	`, top)
	if err != nil {
		return nil, fmt.Errorf("get balance ranking: %w", err)
	}

	return items, nil
}

// GetMovementRanking returns the top materials by quantity moved in one
// direction over [from, to).
func (r *ReportRepo) GetMovementRanking(ctx context.Context, by reports.RankingBy, top int, from, to time.Time) ([]reports.RankingItem, error) {
	table := "stock_ins"
	if by == reports.RankByOutbound {
		table = "stock_outs"
	}

	// table is chosen from a fixed set above, never from user input
	query := fmt.Sprintf(`
		SELECT
			d.material_id,
			m.code AS material_code,
			m.name AS material_name,
			m.unit,
			SUM(d.quantity) AS quantity
		FROM %s d
		JOIN materials m ON m.id = d.material_id
		WHERE d.deletion_mark = false AND d.date >= $1 AND d.date < $2
		GROUP BY d.material_id, m.code, m.name, m.unit
		ORDER BY quantity DESC, material_code
		LIMIT $3
	`, table)

	querier := r.txManager.GetQuerier(ctx)
	var items []reports.RankingItem
	if err := pgxscan.Select(ctx, querier, &items, query, from, to, top); err != nil {
		return nil, fmt.Errorf("get movement ranking: %w", err)
	}

	return items, nil
}

// GetCategoryDistribution groups live materials by category. Materials
// without a category land in the empty-string bucket.
func (r *ReportRepo) GetCategoryDistribution(ctx context.Context) ([]reports.CategorySlice, error) {
	querier := r.txManager.GetQuerier(ctx)

	var slices []reports.CategorySlice
	err := pgxscan.Select(ctx, querier, &slices, `
		SELECT
			COALESCE(category, '') AS category,
			COUNT(*) AS material_count,
			COALESCE(SUM(current_stock), 0) AS quantity,
			COALESCE(SUM(stock_value), 0) AS value
		FROM materials
		WHERE deletion_mark = false
		GROUP BY COALESCE(category, '')
		ORDER BY quantity DESC, category
	`)
	if err != nil {
		return nil, fmt.Errorf("get category distribution: %w", err)
	}

	return slices, nil
}

// GetMonthlySummaries returns movement totals keyed by YYYY-MM.
func (r *ReportRepo) GetMonthlySummaries(ctx context.Context, from, to time.Time) (map[string]*reports.MonthlySummary, error) {
	querier := r.txManager.GetQuerier(ctx)

	rows, err := querier.Query(ctx, `
		WITH ins AS (
			SELECT to_char(date, 'YYYY-MM') AS month,
			       COUNT(*) AS cnt, SUM(quantity) AS qty, SUM(value) AS val
			FROM stock_ins
			WHERE deletion_mark = false AND date >= $1 AND date < $2
			GROUP BY 1
		),
		outs AS (
			SELECT to_char(date, 'YYYY-MM') AS month,
			       COUNT(*) AS cnt, SUM(quantity) AS qty, SUM(value) AS val
			FROM stock_outs
			WHERE deletion_mark = false AND date >= $1 AND date < $2
			GROUP BY 1
		)
		SELECT
			COALESCE(i.month, o.month) AS month,
			COALESCE(i.cnt, 0), COALESCE(i.qty, 0), COALESCE(i.val, 0),
			COALESCE(o.cnt, 0), COALESCE(o.qty, 0), COALESCE(o.val, 0)
		FROM ins i
		FULL OUTER JOIN outs o ON o.month = i.month
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("get monthly summaries: %w", err)
	}
	defer rows.Close()

	summaries := make(map[string]*reports.MonthlySummary)
	for rows.Next() {
		s := &reports.MonthlySummary{}
		err := rows.Scan(&s.Month,
			&s.InCount, &s.InQty, &s.InValue,
			&s.OutCount, &s.OutQty, &s.OutValue)
		if err != nil {
			return nil, fmt.Errorf("scan monthly summary: %w", err)
		}
		summaries[s.Month] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly summaries: %w", err)
	}

	return summaries, nil
}

// GetMonthlyDetail returns per-material movement totals for [from, to) with
// the live balance attached. Materials without movements in the period are
// skipped.
func (r *ReportRepo) GetMonthlyDetail(ctx context.Context, from, to time.Time) ([]reports.MonthlyDetailRow, error) {
	querier := r.txManager.GetQuerier(ctx)

	var rows []reports.MonthlyDetailRow
	err := pgxscan.Select(ctx, querier, &rows, `
		WITH ins AS (
			SELECT material_id, SUM(quantity) AS qty, SUM(value) AS val
			FROM stock_ins
			WHERE deletion_mark = false AND date >= $1 AND date < $2
			GROUP BY material_id
		),
		outs AS (
			SELECT material_id, SUM(quantity) AS qty, SUM(value) AS val
			FROM stock_outs
			WHERE deletion_mark = false AND date >= $1 AND date < $2
			GROUP BY material_id
		)
		SELECT
			m.id AS material_id,
			m.code AS material_code,
			m.name AS material_name,
			m.unit,
			COALESCE(m.category, '') AS category,
			COALESCE(i.qty, 0) AS in_qty,
			COALESCE(i.val, 0) AS in_value,
			COALESCE(o.qty, 0) AS out_qty,
			COALESCE(o.val, 0) AS out_value,
			m.current_stock,
			m.stock_value
		FROM materials m
		LEFT JOIN ins i ON i.material_id = m.id
		LEFT JOIN outs o ON o.material_id = m.id
		WHERE i.material_id IS NOT NULL OR o.material_id IS NOT NULL
		ORDER BY m.code
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("get monthly detail: %w", err)
	}

	return rows, nil
}
