package stock_out

import (
	"context"
	"testing"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/core/numerator"
	"stockroom/internal/core/types"
	"stockroom/internal/domain"
	"stockroom/internal/domain/material"

	"github.com/shopspring/decimal"
)

// --- Test doubles ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockMaterialRepo struct {
	material.Repository
	m *material.Material
}

func (r *mockMaterialRepo) GetByCode(ctx context.Context, code string) (*material.Material, error) {
	if r.m == nil || r.m.Code != code {
		return nil, apperror.NewNotFound("materials", code)
	}
	return r.m, nil
}

func (r *mockMaterialRepo) GetForUpdate(ctx context.Context, materialID id.ID) (*material.Material, error) {
	if r.m == nil || r.m.ID != materialID {
		return nil, apperror.NewNotFound("materials", materialID.String())
	}
	return r.m, nil
}

func (r *mockMaterialRepo) ApplyDelta(ctx context.Context, materialID id.ID, qtyDelta int64, valueDelta decimal.Decimal) (material.Balance, error) {
	if r.m == nil || r.m.ID != materialID {
		return material.Balance{}, apperror.NewNotFound("materials", materialID.String())
	}
	if r.m.CurrentStock+qtyDelta < 0 {
		return material.Balance{}, apperror.NewInsufficientStock(r.m.Code, -qtyDelta, r.m.CurrentStock)
	}
	r.m.CurrentStock += qtyDelta
	r.m.StockValue = r.m.StockValue.Add(valueDelta)
	return material.Balance{CurrentStock: r.m.CurrentStock, StockValue: r.m.StockValue}, nil
}

type mockRepo struct {
	docs map[id.ID]*StockOut
}

func newMockRepo() *mockRepo {
	return &mockRepo{docs: make(map[id.ID]*StockOut)}
}

func (r *mockRepo) Create(ctx context.Context, doc *StockOut) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *mockRepo) GetByID(ctx context.Context, docID id.ID) (*StockOut, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("stock_outs", docID.String())
	}
	return doc, nil
}

func (r *mockRepo) GetByNumber(ctx context.Context, number string) (*StockOut, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("stock_outs", number)
}

func (r *mockRepo) Update(ctx context.Context, doc *StockOut) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *mockRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(r.docs, docID)
	return nil
}

func (r *mockRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockOut], error) {
	result := domain.ListResult[*StockOut]{}
	for _, doc := range r.docs {
		result.Items = append(result.Items, doc)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func testMaterial(current, min, max int64) *material.Material {
	m := material.NewMaterial("M001", "Steel Plate", "pcs")
	m.CurrentStock = current
	m.MinStock = min
	m.MaxStock = max
	m.UnitPrice = types.MustMoney("10")
	m.StockValue = types.MustMoney("10").Mul(decimal.NewFromInt(current))
	return m
}

func newTestService(m *material.Material) (*Service, *mockRepo, *mockMaterialRepo) {
	repo := newMockRepo()
	materials := &mockMaterialRepo{m: m}
	svc := NewService(repo, materials, &numerator.MockGenerator{}, fakeTxManager{})
	return svc, repo, materials
}

// --- Tests ---

func TestPost_Success(t *testing.T) {
	svc, repo, materials := newTestService(testMaterial(100, 10, 0))
	ctx := context.Background()

	result, err := svc.Post(ctx, PostParams{
		MaterialCode: "M001",
		Quantity:     30,
		Type:         TypeProduction,
		Operator:     "bob",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Balance.CurrentStock != 70 {
		t.Errorf("expected balance 70, got %d", result.Balance.CurrentStock)
	}
	if !materials.m.StockValue.Equal(types.MustMoney("700")) {
		t.Errorf("expected stock value 700, got %s", materials.m.StockValue)
	}
	if len(repo.docs) != 1 {
		t.Errorf("expected 1 ledger row, got %d", len(repo.docs))
	}
}

func TestPost_InsufficientStock(t *testing.T) {
	svc, repo, materials := newTestService(testMaterial(20, 0, 0))

	_, err := svc.Post(context.Background(), PostParams{
		MaterialCode: "M001",
		Quantity:     25,
		Type:         TypeSales,
	})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if materials.m.CurrentStock != 20 {
		t.Errorf("balance must be untouched, got %d", materials.m.CurrentStock)
	}
	if len(repo.docs) != 0 {
		t.Error("no ledger row must be written")
	}
}

func TestPost_ExactBalanceAllowed(t *testing.T) {
	svc, _, _ := newTestService(testMaterial(20, 0, 0))

	result, err := svc.Post(context.Background(), PostParams{
		MaterialCode: "M001",
		Quantity:     20,
		Type:         TypeSales,
	})
	if err != nil {
		t.Fatalf("issuing the whole balance must succeed: %v", err)
	}
	if result.Balance.CurrentStock != 0 {
		t.Errorf("expected balance 0, got %d", result.Balance.CurrentStock)
	}
}

func TestPost_LowStockAdvisory(t *testing.T) {
	svc, _, _ := newTestService(testMaterial(60, 50, 0))

	result, err := svc.Post(context.Background(), PostParams{
		MaterialCode: "M001",
		Quantity:     15,
		Type:         TypeProduction,
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if result.StockStatus != material.StockLow {
		t.Errorf("expected low status, got %s", result.StockStatus)
	}
	if result.Advisory == "" {
		t.Error("expected a low-stock advisory")
	}
}

func TestReverse_AlwaysAllowed(t *testing.T) {
	// Balance already back above max; reversal still returns the goods.
	svc, repo, materials := newTestService(testMaterial(100, 0, 100))
	ctx := context.Background()

	doc := NewStockOut(materials.m.ID, "M001", "Steel Plate", TypeSales, 30)
	doc.Number = "OUT-20250110-0001"
	doc.Value = types.MustMoney("300")
	if err := repo.Create(ctx, doc); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.Reverse(ctx, doc.ID); err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if materials.m.CurrentStock != 130 {
		t.Errorf("expected balance 130, got %d", materials.m.CurrentStock)
	}
	if len(repo.docs) != 0 {
		t.Error("expected ledger row removed")
	}
}

func TestUpdate_IncreaseBeyondBalanceRejected(t *testing.T) {
	svc, _, _ := newTestService(testMaterial(10, 0, 0))
	ctx := context.Background()

	result, err := svc.Post(ctx, PostParams{
		MaterialCode: "M001",
		Quantity:     5,
		Type:         TypeSales,
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	// Balance is 5 now; raising the issue from 5 to 15 needs 10 more.
	newQty := int64(15)
	_, err = svc.Update(ctx, result.Doc.ID, UpdateParams{Quantity: &newQty})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
}

func TestUpdate_AppliesInvertedDiff(t *testing.T) {
	svc, _, materials := newTestService(testMaterial(100, 0, 0))
	ctx := context.Background()

	result, err := svc.Post(ctx, PostParams{
		MaterialCode: "M001",
		Quantity:     40,
		Type:         TypeProduction,
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if materials.m.CurrentStock != 60 {
		t.Fatalf("expected balance 60, got %d", materials.m.CurrentStock)
	}

	// Shrinking the issue returns stock.
	newQty := int64(25)
	doc, err := svc.Update(ctx, result.Doc.ID, UpdateParams{Quantity: &newQty})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if doc.Quantity != 25 {
		t.Errorf("expected quantity 25, got %d", doc.Quantity)
	}
	if materials.m.CurrentStock != 75 {
		t.Errorf("expected balance 75, got %d", materials.m.CurrentStock)
	}
}

func TestAdjustLossUsesAdjPrefix(t *testing.T) {
	var gotPrefix string
	gen := &numerator.MockGenerator{
		GetNextNumberFunc: func(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
			gotPrefix = cfg.Prefix
			return cfg.Prefix + "-20250110-0001", nil
		},
	}

	repo := newMockRepo()
	materials := &mockMaterialRepo{m: testMaterial(50, 0, 0)}
	svc := NewService(repo, materials, gen, fakeTxManager{})

	result, err := svc.Post(context.Background(), PostParams{
		MaterialCode: "M001",
		Quantity:     10,
		Type:         TypeAdjustLoss,
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if gotPrefix != AdjustmentPrefix {
		t.Errorf("expected ADJ prefix, got %q", gotPrefix)
	}
	if result.Doc.Number != "ADJ-20250110-0001" {
		t.Errorf("unexpected number %s", result.Doc.Number)
	}
}
