package warning

import (
	"context"
	"testing"

	"stockroom/internal/core/id"
	"stockroom/internal/domain"
	"stockroom/internal/domain/material"
)

// --- Test doubles ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockMaterialRepo struct {
	material.Repository
	active []*material.Material
}

func (r *mockMaterialRepo) ListActive(ctx context.Context) ([]*material.Material, error) {
	return r.active, nil
}

type mockRepo struct {
	warnings map[id.ID]*Warning
}

func newMockRepo() *mockRepo {
	return &mockRepo{warnings: make(map[id.ID]*Warning)}
}

func (r *mockRepo) ListAll(ctx context.Context) ([]*Warning, error) {
	var out []*Warning
	for _, w := range r.warnings {
		out = append(out, w)
	}
	return out, nil
}

func (r *mockRepo) UpsertAll(ctx context.Context, warnings []*Warning) error {
	for _, w := range warnings {
		r.warnings[w.ID] = w
	}
	return nil
}

func (r *mockRepo) DeleteByIDs(ctx context.Context, ids []id.ID) error {
	for _, warningID := range ids {
		delete(r.warnings, warningID)
	}
	return nil
}

func (r *mockRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Warning], error) {
	all, _ := r.ListAll(ctx)
	return domain.ListResult[*Warning]{Items: all, TotalCount: int64(len(all))}, nil
}

func (r *mockRepo) Statistics(ctx context.Context) (Statistics, error) {
	var stats Statistics
	for _, w := range r.warnings {
		stats.Total++
		if w.Type == TypeLow {
			stats.Low++
		} else {
			stats.High++
		}
		if w.Level == LevelDanger {
			stats.Danger++
		} else {
			stats.Warning++
		}
	}
	return stats, nil
}

func mat(code string, current, min, max int64) *material.Material {
	m := material.NewMaterial(code, "Material "+code, "pcs")
	m.CurrentStock = current
	m.MinStock = min
	m.MaxStock = max
	return m
}

func find(warnings map[id.ID]*Warning, code string, warnType Type) *Warning {
	for _, w := range warnings {
		if w.MaterialCode == code && w.Type == warnType {
			return w
		}
	}
	return nil
}

// --- Tests ---

func TestComputeLevel(t *testing.T) {
	tests := []struct {
		name     string
		warnType Type
		current  int64
		min      int64
		max      int64
		expected Level
	}{
		{"low above half min", TypeLow, 8, 10, 0, LevelWarning},
		{"low exactly half min", TypeLow, 5, 10, 0, LevelWarning},
		{"low below half min", TypeLow, 4, 10, 0, LevelDanger},
		{"low zero stock", TypeLow, 0, 10, 0, LevelDanger},
		{"high at max", TypeHigh, 100, 0, 100, LevelWarning},
		{"high at 110 percent", TypeHigh, 110, 0, 100, LevelWarning},
		{"high past 110 percent", TypeHigh, 111, 0, 100, LevelDanger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeLevel(tt.warnType, tt.current, tt.min, tt.max)
			if got != tt.expected {
				t.Errorf("ComputeLevel(%s, %d, %d, %d) = %s, want %s",
					tt.warnType, tt.current, tt.min, tt.max, got, tt.expected)
			}
		})
	}
}

func TestReconcile_CreatesWarnings(t *testing.T) {
	repo := newMockRepo()
	materials := &mockMaterialRepo{active: []*material.Material{
		mat("LOW", 5, 10, 0),
		mat("HIGH", 250, 0, 200),
		mat("OK", 50, 10, 200),
	}}
	svc := NewService(repo, materials, fakeTxManager{})

	result, err := svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if len(result.Created) != 2 {
		t.Fatalf("expected 2 created, got %d", len(result.Created))
	}
	if len(result.Cleared) != 0 {
		t.Errorf("expected 0 cleared, got %d", len(result.Cleared))
	}

	low := find(repo.warnings, "LOW", TypeLow)
	if low == nil {
		t.Fatal("expected low warning for LOW")
	}
	if low.Level != LevelWarning {
		t.Errorf("5 of min 10 is exactly half, expected warning level, got %s", low.Level)
	}
	if low.CurrentStock != 5 || low.MinStock != 10 {
		t.Errorf("bad snapshot %+v", low)
	}

	high := find(repo.warnings, "HIGH", TypeHigh)
	if high == nil {
		t.Fatal("expected high warning for HIGH")
	}
	if high.Level != LevelDanger {
		t.Errorf("250 of max 200 is past 110%%, expected danger, got %s", high.Level)
	}

	if find(repo.warnings, "OK", TypeLow) != nil || find(repo.warnings, "OK", TypeHigh) != nil {
		t.Error("normal material must not produce warnings")
	}
}

func TestReconcile_ClearsStale(t *testing.T) {
	repo := newMockRepo()
	m := mat("M001", 5, 10, 0)
	materials := &mockMaterialRepo{active: []*material.Material{m}}
	svc := NewService(repo, materials, fakeTxManager{})
	ctx := context.Background()

	if _, err := svc.Reconcile(ctx); err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	if len(repo.warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(repo.warnings))
	}

	// Stock replenished: the low condition no longer holds.
	m.CurrentStock = 50

	result, err := svc.Reconcile(ctx)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if len(result.Cleared) != 1 {
		t.Errorf("expected 1 cleared, got %d", len(result.Cleared))
	}
	if len(repo.warnings) != 0 {
		t.Errorf("expected warnings table empty, got %d", len(repo.warnings))
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	repo := newMockRepo()
	materials := &mockMaterialRepo{active: []*material.Material{
		mat("LOW", 2, 10, 0),
		mat("HIGH", 300, 0, 200),
	}}
	svc := NewService(repo, materials, fakeTxManager{})
	ctx := context.Background()

	if _, err := svc.Reconcile(ctx); err != nil {
		t.Fatalf("first reconcile: %v", err)
	}

	result, err := svc.Reconcile(ctx)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if len(result.Created) != 0 || len(result.Cleared) != 0 {
		t.Errorf("second pass must not create or clear, got %+v", result)
	}
	if result.Refreshed != 2 {
		t.Errorf("expected 2 refreshed, got %d", result.Refreshed)
	}
	if len(repo.warnings) != 2 {
		t.Errorf("expected 2 warnings, got %d", len(repo.warnings))
	}
}

func TestReconcile_RefreshUpdatesLevel(t *testing.T) {
	repo := newMockRepo()
	m := mat("M001", 8, 10, 0)
	materials := &mockMaterialRepo{active: []*material.Material{m}}
	svc := NewService(repo, materials, fakeTxManager{})
	ctx := context.Background()

	if _, err := svc.Reconcile(ctx); err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	w := find(repo.warnings, "M001", TypeLow)
	if w == nil || w.Level != LevelWarning {
		t.Fatalf("expected warning level, got %+v", w)
	}

	// Stock dropped to zero: same warning row escalates to danger.
	m.CurrentStock = 0
	if _, err := svc.Reconcile(ctx); err != nil {
		t.Fatalf("second reconcile: %v", err)
	}

	w = find(repo.warnings, "M001", TypeLow)
	if w == nil {
		t.Fatal("warning disappeared")
	}
	if w.Level != LevelDanger {
		t.Errorf("expected danger after refresh, got %s", w.Level)
	}
	if w.CurrentStock != 0 {
		t.Errorf("snapshot not refreshed: %+v", w)
	}
}
