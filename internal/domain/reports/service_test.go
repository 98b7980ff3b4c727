package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"stockroom/internal/core/apperror"
)

type mockRepo struct {
	Repository

	trend       []TrendPoint
	trendFrom   time.Time
	trendTo     time.Time
	balanceTop  int
	moveBy      RankingBy
	moveFrom    time.Time
	moveTo      time.Time
	summaries   map[string]*MonthlySummary
	detailRows  []MonthlyDetailRow
	detailFrom  time.Time
	detailTo    time.Time
	summaryFrom time.Time
	summaryTo   time.Time
}

func (r *mockRepo) GetTrend(ctx context.Context, from, to time.Time) ([]TrendPoint, error) {
	r.trendFrom, r.trendTo = from, to
	return r.trend, nil
}

func (r *mockRepo) GetBalanceRanking(ctx context.Context, top int) ([]RankingItem, error) {
	r.balanceTop = top
	return nil, nil
}

func (r *mockRepo) GetMovementRanking(ctx context.Context, by RankingBy, top int, from, to time.Time) ([]RankingItem, error) {
	r.moveBy, r.moveFrom, r.moveTo = by, from, to
	return nil, nil
}

func (r *mockRepo) GetMonthlySummaries(ctx context.Context, from, to time.Time) (map[string]*MonthlySummary, error) {
	r.summaryFrom, r.summaryTo = from, to
	return r.summaries, nil
}

func (r *mockRepo) GetMonthlyDetail(ctx context.Context, from, to time.Time) ([]MonthlyDetailRow, error) {
	r.detailFrom, r.detailTo = from, to
	return r.detailRows, nil
}

func newTestService(repo *mockRepo) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	}
	return svc
}

func TestTrend_FillsGaps(t *testing.T) {
	repo := &mockRepo{trend: []TrendPoint{
		{Date: time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), InQty: 10, OutQty: 4},
		{Date: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), InQty: 7},
	}}
	svc := newTestService(repo)

	points, err := svc.Trend(context.Background(), TrendFilter{Days: 3})
	if err != nil {
		t.Fatalf("trend: %v", err)
	}

	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if !points[0].Date.Equal(time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("wrong window start: %v", points[0].Date)
	}
	if points[0].InQty != 10 || points[0].OutQty != 4 {
		t.Errorf("first point not taken from repo: %+v", points[0])
	}
	if points[1].InQty != 0 || points[1].OutQty != 0 {
		t.Errorf("gap day must be zero: %+v", points[1])
	}
	if points[2].InQty != 7 {
		t.Errorf("last point not taken from repo: %+v", points[2])
	}
}

func TestTrend_Defaults(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo)

	points, err := svc.Trend(context.Background(), TrendFilter{})
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	if len(points) != 7 {
		t.Errorf("expected default 7-day window, got %d points", len(points))
	}
	if got := repo.trendTo.Sub(repo.trendFrom); got != 7*24*time.Hour {
		t.Errorf("expected 7-day repo window, got %v", got)
	}

	if _, err := svc.Trend(context.Background(), TrendFilter{Days: 365}); err != nil {
		t.Fatalf("trend: %v", err)
	}
	if got := repo.trendTo.Sub(repo.trendFrom); got != 90*24*time.Hour {
		t.Errorf("expected 90-day cap, got %v", got)
	}
}

func TestRanking_Defaults(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo)

	if _, err := svc.Ranking(context.Background(), RankingFilter{}); err != nil {
		t.Fatalf("ranking: %v", err)
	}
	if repo.balanceTop != 10 {
		t.Errorf("expected default top 10, got %d", repo.balanceTop)
	}

	if _, err := svc.Ranking(context.Background(), RankingFilter{By: RankByOutbound, Top: 500}); err != nil {
		t.Fatalf("ranking: %v", err)
	}
	if repo.moveBy != RankByOutbound {
		t.Errorf("expected outbound ranking, got %s", repo.moveBy)
	}
	if got := repo.moveTo.Sub(repo.moveFrom); got != 30*24*time.Hour {
		t.Errorf("expected default 30-day window, got %v", got)
	}
}

func TestRanking_InvalidMetric(t *testing.T) {
	svc := newTestService(&mockRepo{})

	_, err := svc.Ranking(context.Background(), RankingFilter{By: "velocity"})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMonthlyList_FillsEmptyMonths(t *testing.T) {
	repo := &mockRepo{summaries: map[string]*MonthlySummary{
		"2026-03": {Month: "2026-03", InCount: 5, InQty: 100},
		"2025-12": {Month: "2025-12", OutCount: 2, OutQty: 30},
	}}
	svc := newTestService(repo)

	list, err := svc.MonthlyList(context.Background())
	if err != nil {
		t.Fatalf("monthly list: %v", err)
	}

	if len(list) != 12 {
		t.Fatalf("expected 12 months, got %d", len(list))
	}
	if list[0].Month != "2026-03" || list[0].InCount != 5 {
		t.Errorf("expected current month first with data, got %+v", list[0])
	}
	if list[1].Month != "2026-02" || list[1].InCount != 0 {
		t.Errorf("expected empty 2026-02, got %+v", list[1])
	}
	if list[3].Month != "2025-12" || list[3].OutQty != 30 {
		t.Errorf("expected 2025-12 with data, got %+v", list[3])
	}
	if list[11].Month != "2025-04" {
		t.Errorf("expected window to end at 2025-04, got %s", list[11].Month)
	}
}

func TestMonthlyDetail_Totals(t *testing.T) {
	repo := &mockRepo{detailRows: []MonthlyDetailRow{
		{MaterialCode: "M001", InQty: 10, InValue: decimal.NewFromInt(100), OutQty: 4, OutValue: decimal.NewFromInt(40)},
		{MaterialCode: "M002", InQty: 3, InValue: decimal.NewFromInt(30)},
	}}
	svc := newTestService(repo)

	detail, err := svc.MonthlyDetail(context.Background(), "2026-02")
	if err != nil {
		t.Fatalf("monthly detail: %v", err)
	}

	if detail.Month != "2026-02" {
		t.Errorf("expected month 2026-02, got %s", detail.Month)
	}
	if !repo.detailFrom.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) ||
		!repo.detailTo.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("wrong period [%v, %v)", repo.detailFrom, repo.detailTo)
	}
	if detail.Totals.InQty != 13 || detail.Totals.OutQty != 4 {
		t.Errorf("bad quantity totals: %+v", detail.Totals)
	}
	if !detail.Totals.InValue.Equal(decimal.NewFromInt(130)) {
		t.Errorf("expected in value 130, got %s", detail.Totals.InValue)
	}
}

func TestMonthlyDetail_InvalidMonth(t *testing.T) {
	svc := newTestService(&mockRepo{})

	for _, month := range []string{"", "2026", "2026-13", "Feb 2026"} {
		_, err := svc.MonthlyDetail(context.Background(), month)
		appErr, ok := apperror.AsAppError(err)
		if !ok || appErr.Code != apperror.CodeValidation {
			t.Errorf("month %q: expected validation error, got %v", month, err)
		}
	}
}
