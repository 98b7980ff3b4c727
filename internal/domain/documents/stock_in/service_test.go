package stock_in

import (
	"context"
	"testing"

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

// mockMaterialRepo holds a single material and applies deltas in memory.
// Unused Repository methods panic via the embedded nil interface.
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
	docs map[id.ID]*StockIn
}

func newMockRepo() *mockRepo {
	return &mockRepo{docs: make(map[id.ID]*StockIn)}
}

func (r *mockRepo) Create(ctx context.Context, doc *StockIn) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *mockRepo) GetByID(ctx context.Context, docID id.ID) (*StockIn, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("stock_ins", docID.String())
	}
	return doc, nil
}

func (r *mockRepo) GetByNumber(ctx context.Context, number string) (*StockIn, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("stock_ins", number)
}

func (r *mockRepo) Update(ctx context.Context, doc *StockIn) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *mockRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(r.docs, docID)
	return nil
}

func (r *mockRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockIn], error) {
	result := domain.ListResult[*StockIn]{}
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
	svc, repo, materials := newTestService(testMaterial(50, 10, 200))
	ctx := context.Background()

	result, err := svc.Post(ctx, PostParams{
		MaterialCode: "M001",
		Quantity:     30,
		Type:         TypePurchase,
		Operator:     "alice",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Balance.CurrentStock != 80 {
		t.Errorf("expected balance 80, got %d", result.Balance.CurrentStock)
	}
	if result.StockStatus != material.StockNormal {
		t.Errorf("expected normal status, got %s", result.StockStatus)
	}
	if result.Advisory != "" {
		t.Errorf("expected no advisory, got %q", result.Advisory)
	}
	if result.Doc.Number == "" {
		t.Error("expected generated bill number")
	}
	if len(repo.docs) != 1 {
		t.Errorf("expected 1 ledger row, got %d", len(repo.docs))
	}

	// Default value = quantity * unit price.
	if !result.Doc.Value.Equal(types.MustMoney("300")) {
		t.Errorf("expected value 300, got %s", result.Doc.Value)
	}
	if !materials.m.StockValue.Equal(types.MustMoney("800")) {
		t.Errorf("expected stock value 800, got %s", materials.m.StockValue)
	}
}

func TestPost_MaterialNotFound(t *testing.T) {
	svc, _, _ := newTestService(testMaterial(50, 0, 0))

	_, err := svc.Post(context.Background(), PostParams{
		MaterialCode: "NOPE",
		Quantity:     10,
		Type:         TypePurchase,
	})
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPost_InactiveMaterial(t *testing.T) {
	m := testMaterial(50, 0, 0)
	m.Status = material.StatusInactive
	svc, _, _ := newTestService(m)

	_, err := svc.Post(context.Background(), PostParams{
		MaterialCode: "M001",
		Quantity:     10,
		Type:         TypePurchase,
	})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestPost_CapacityGuard(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		max      int64
		quantity int64
		wantErr  bool
	}{
		{"fits under max", 50, 100, 40, false},
		{"fills to max exactly", 50, 100, 50, false},
		{"would exceed max", 50, 100, 60, true},
		{"already at max", 100, 100, 1, true},
		{"already above max", 120, 100, 1, true},
		{"no max configured", 1000, 0, 500, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(testMaterial(tt.current, 0, tt.max))

			_, err := svc.Post(context.Background(), PostParams{
				MaterialCode: "M001",
				Quantity:     tt.quantity,
				Type:         TypePurchase,
			})
			if tt.wantErr {
				appErr, ok := apperror.AsAppError(err)
				if !ok || appErr.Code != apperror.CodeExceedsMaxCapacity {
					t.Fatalf("expected capacity error, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPost_AdjustGainSkipsCapacityGuard(t *testing.T) {
	svc, _, _ := newTestService(testMaterial(100, 0, 100))

	result, err := svc.Post(context.Background(), PostParams{
		MaterialCode: "M001",
		Quantity:     5,
		Type:         TypeAdjustGain,
	})
	if err != nil {
		t.Fatalf("adjustment must bypass capacity guard: %v", err)
	}
	if result.Balance.CurrentStock != 105 {
		t.Errorf("expected balance 105, got %d", result.Balance.CurrentStock)
	}
	if result.StockStatus != material.StockHigh {
		t.Errorf("expected high status, got %s", result.StockStatus)
	}
}

func TestPost_InvalidInput(t *testing.T) {
	svc, _, _ := newTestService(testMaterial(50, 0, 0))
	ctx := context.Background()

	if _, err := svc.Post(ctx, PostParams{MaterialCode: "M001", Quantity: 0, Type: TypePurchase}); err == nil {
		t.Error("expected error for zero quantity")
	}
	if _, err := svc.Post(ctx, PostParams{MaterialCode: "M001", Quantity: 10, Type: "teleport"}); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestReverse(t *testing.T) {
	svc, repo, materials := newTestService(testMaterial(0, 0, 0))
	ctx := context.Background()

	result, err := svc.Post(ctx, PostParams{
		MaterialCode: "M001",
		Quantity:     40,
		Type:         TypePurchase,
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	if err := svc.Reverse(ctx, result.Doc.ID); err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if materials.m.CurrentStock != 0 {
		t.Errorf("expected balance back to 0, got %d", materials.m.CurrentStock)
	}
	if !materials.m.StockValue.IsZero() {
		t.Errorf("expected stock value back to 0, got %s", materials.m.StockValue)
	}
	if len(repo.docs) != 0 {
		t.Error("expected ledger row removed")
	}
}

func TestReverse_RejectedWhenConsumed(t *testing.T) {
	svc, _, materials := newTestService(testMaterial(0, 0, 0))
	ctx := context.Background()

	result, err := svc.Post(ctx, PostParams{
		MaterialCode: "M001",
		Quantity:     40,
		Type:         TypePurchase,
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	// Part of the received quantity is already gone.
	materials.m.CurrentStock = 25

	err = svc.Reverse(ctx, result.Doc.ID)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeInvalidReversal {
		t.Fatalf("expected invalid reversal, got %v", err)
	}
}

func TestUpdate_AppliesDiff(t *testing.T) {
	svc, _, materials := newTestService(testMaterial(0, 0, 0))
	ctx := context.Background()

	result, err := svc.Post(ctx, PostParams{
		MaterialCode: "M001",
		Quantity:     40,
		Type:         TypePurchase,
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	newQty := int64(55)
	doc, err := svc.Update(ctx, result.Doc.ID, UpdateParams{Quantity: &newQty})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if doc.Quantity != 55 {
		t.Errorf("expected quantity 55, got %d", doc.Quantity)
	}
	if materials.m.CurrentStock != 55 {
		t.Errorf("expected balance 55, got %d", materials.m.CurrentStock)
	}
}

func TestUpdate_ShrinkBeyondBalanceRejected(t *testing.T) {
	svc, _, materials := newTestService(testMaterial(0, 0, 0))
	ctx := context.Background()

	result, err := svc.Post(ctx, PostParams{
		MaterialCode: "M001",
		Quantity:     40,
		Type:         TypePurchase,
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	// 30 of the 40 already issued; shrinking the receipt to 5 would need
	// 35 back but only 10 remain.
	materials.m.CurrentStock = 10

	newQty := int64(5)
	_, err = svc.Update(ctx, result.Doc.ID, UpdateParams{Quantity: &newQty})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
}

func TestPost_LowStockAdvisory(t *testing.T) {
	svc, _, _ := newTestService(testMaterial(0, 50, 0))

	result, err := svc.Post(context.Background(), PostParams{
		MaterialCode: "M001",
		Quantity:     20,
		Type:         TypePurchase,
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
