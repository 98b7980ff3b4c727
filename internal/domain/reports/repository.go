package reports

import (
	"context"
	"time"
)

// Repository defines report data access interface.
type Repository interface {
	// GetOverview returns the dashboard headline numbers. The today
	// argument marks the start of the current day for in/out counts.
	GetOverview(ctx context.Context, today time.Time) (*Overview, error)

	// GetTrend returns daily in/out quantity sums for [from, to).
	// Days without movements are absent; the service fills the gaps.
	GetTrend(ctx context.Context, from, to time.Time) ([]TrendPoint, error)

	// GetBalanceRanking returns the top materials by current balance.
	GetBalanceRanking(ctx context.Context, top int) ([]RankingItem, error)

	// GetMovementRanking returns the top materials by quantity moved
	// in [from, to) for one direction.
	GetMovementRanking(ctx context.Context, by RankingBy, top int, from, to time.Time) ([]RankingItem, error)

	// GetCategoryDistribution groups live materials by category.
	GetCategoryDistribution(ctx context.Context) ([]CategorySlice, error)

	// GetMonthlySummaries returns movement totals keyed by YYYY-MM
	// for [from, to).
	GetMonthlySummaries(ctx context.Context, from, to time.Time) (map[string]*MonthlySummary, error)

	// GetMonthlyDetail returns the per-material breakdown for [from, to).
	GetMonthlyDetail(ctx context.Context, from, to time.Time) ([]MonthlyDetailRow, error)
}
