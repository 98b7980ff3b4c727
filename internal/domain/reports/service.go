package reports

import (
	"context"
	"fmt"
	"time"

	"stockroom/internal/core/apperror"
)

// monthLayout is the wire format for report months.
const monthLayout = "2006-01"

// Service provides report generation operations.
type Service struct {
	repo Repository

	// now is swappable in tests
	now func() time.Time
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Overview returns the dashboard headline numbers.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	today := startOfDay(s.now())

	overview, err := s.repo.GetOverview(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("get overview: %w", err)
	}

	return overview, nil
}

// Trend returns daily in/out totals for the trailing window, one point per
// day including days without movements.
func (s *Service) Trend(ctx context.Context, filter TrendFilter) ([]TrendPoint, error) {
	if filter.Days <= 0 {
		filter.Days = 7
	}
	if filter.Days > 90 {
		filter.Days = 90
	}

	to := startOfDay(s.now()).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -filter.Days)

	points, err := s.repo.GetTrend(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("get trend: %w", err)
	}

	byDay := make(map[string]TrendPoint, len(points))
	for _, p := range points {
		byDay[p.Date.Format("2006-01-02")] = p
	}

	// Dense series: every day of the window appears exactly once.
	result := make([]TrendPoint, 0, filter.Days)
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		point := TrendPoint{Date: day}
		if p, ok := byDay[day.Format("2006-01-02")]; ok {
			point.InQty = p.InQty
			point.OutQty = p.OutQty
		}
		result = append(result, point)
	}

	return result, nil
}

// Ranking returns the top materials by the requested metric.
func (s *Service) Ranking(ctx context.Context, filter RankingFilter) ([]RankingItem, error) {
	if filter.By == "" {
		filter.By = RankByBalance
	}
	if !filter.By.Valid() {
		return nil, apperror.NewValidation("invalid ranking metric").WithDetail("by", string(filter.By))
	}
	if filter.Top <= 0 {
		filter.Top = 10
	}
	if filter.Top > 100 {
		filter.Top = 100
	}

	if filter.By == RankByBalance {
		items, err := s.repo.GetBalanceRanking(ctx, filter.Top)
		if err != nil {
			return nil, fmt.Errorf("get balance ranking: %w", err)
		}
		return items, nil
	}

	to := startOfDay(s.now()).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -30)
	if filter.DateTo != nil {
		to = *filter.DateTo
	}
	if filter.DateFrom != nil {
		from = *filter.DateFrom
	}
	if from.After(to) {
		return nil, apperror.NewValidation("dateFrom must not be after dateTo")
	}

	items, err := s.repo.GetMovementRanking(ctx, filter.By, filter.Top, from, to)
	if err != nil {
		return nil, fmt.Errorf("get movement ranking: %w", err)
	}

	return items, nil
}

// CategoryDistribution groups live materials by category.
func (s *Service) CategoryDistribution(ctx context.Context) ([]CategorySlice, error) {
	slices, err := s.repo.GetCategoryDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("get category distribution: %w", err)
	}

	return slices, nil
}

// MonthlyList returns movement summaries for the last 12 months, newest
// first, including months without movements.
func (s *Service) MonthlyList(ctx context.Context) ([]MonthlySummary, error) {
	const months = 12

	current := startOfMonth(s.now())
	from := current.AddDate(0, -(months - 1), 0)
	to := current.AddDate(0, 1, 0)

	summaries, err := s.repo.GetMonthlySummaries(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("get monthly summaries: %w", err)
	}

	result := make([]MonthlySummary, 0, months)
	for month := current; !month.Before(from); month = month.AddDate(0, -1, 0) {
		key := month.Format(monthLayout)
		if s, ok := summaries[key]; ok {
			result = append(result, *s)
			continue
		}
		result = append(result, MonthlySummary{Month: key})
	}

	return result, nil
}

// MonthlyDetail returns the per-material movement breakdown for one month
// given in YYYY-MM form, with grand totals.
func (s *Service) MonthlyDetail(ctx context.Context, month string) (*MonthlyDetail, error) {
	from, err := time.Parse(monthLayout, month)
	if err != nil {
		return nil, apperror.NewValidation("invalid month, expected YYYY-MM").WithDetail("month", month)
	}
	to := from.AddDate(0, 1, 0)

	rows, err := s.repo.GetMonthlyDetail(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("get monthly detail: %w", err)
	}

	detail := &MonthlyDetail{
		Month: from.Format(monthLayout),
		Rows:  rows,
	}
	for _, row := range rows {
		detail.Totals.InQty += row.InQty
		detail.Totals.InValue = detail.Totals.InValue.Add(row.InValue)
		detail.Totals.OutQty += row.OutQty
		detail.Totals.OutValue = detail.Totals.OutValue.Add(row.OutValue)
	}

	return detail, nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	year, month, _ := t.UTC().Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}
