package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64 // Simulates DB sequence value
	lastKey      string
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Strict passes (key); cached passes (key, increment).
	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}
	if len(args) > 0 {
		if key, ok := args[0].(string); ok {
			m.lastKey = key
		}
	}

	m.currentValue += increment

	return &mockRow{val: m.currentValue}
}

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("TEST")
	period := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	// 1. First call
	num, err := svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "TEST-20250110-0001" { // mock starts at 1
		t.Errorf("expected TEST-20250110-0001, got %s", num)
	}
	if q.lastKey != "TEST_20250110" {
		t.Errorf("expected sequence key TEST_20250110, got %s", q.lastKey)
	}

	// 2. Second call
	num, err = svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "TEST-20250110-0002" {
		t.Errorf("expected TEST-20250110-0002, got %s", num)
	}
}

func TestGetNextNumber_DailyReset(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("IN")

	day1 := time.Date(2025, 1, 10, 23, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 1, 11, 1, 0, 0, 0, time.UTC)

	if _, err := svc.GetNextNumber(ctx, cfg, nil, day1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.lastKey != "IN_20250110" {
		t.Errorf("expected key IN_20250110, got %s", q.lastKey)
	}

	if _, err := svc.GetNextNumber(ctx, cfg, nil, day2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.lastKey != "IN_20250111" {
		t.Errorf("expected key IN_20250111, got %s", q.lastKey)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("ORD")
	period := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	opts := &Options{
		Strategy:  StrategyCached,
		RangeSize: 10,
	}

	// 1. First call allocates range 1..10 (DB value becomes 10), returns 1.
	num, err := svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-20250110-0001" {
		t.Errorf("expected ORD-20250110-0001, got %s", num)
	}

	if q.currentValue != 10 {
		t.Errorf("expected DB value to be 10, got %d", q.currentValue)
	}

	// 2. Second call served from memory, DB unchanged.
	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-20250110-0002" {
		t.Errorf("expected ORD-20250110-0002, got %s", num)
	}
	if q.currentValue != 10 {
		t.Errorf("expected DB value to stay 10, got %d", q.currentValue)
	}

	// 3. Exhaust range; next call refills (11..20).
	for i := 0; i < 8; i++ {
		_, _ = svc.GetNextNumber(ctx, cfg, opts, period)
	}

	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-20250110-0011" {
		t.Errorf("expected ORD-20250110-0011, got %s", num)
	}
	if q.currentValue != 20 {
		t.Errorf("expected DB value to be 20, got %d", q.currentValue)
	}
}

func TestFormatNumber_WidensPastPad(t *testing.T) {
	svc := New(&mockQuerier{})
	cfg := DefaultConfig("OUT")
	period := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	got := svc.formatNumber(cfg, period, 12345)
	if got != "OUT-20250110-12345" {
		t.Errorf("expected OUT-20250110-12345, got %s", got)
	}
}
