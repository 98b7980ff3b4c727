package stocktake

import (
	"context"
	"testing"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/core/numerator"
	"stockroom/internal/domain"
	"stockroom/internal/domain/documents/stock_in"
	"stockroom/internal/domain/documents/stock_out"
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
	tasks map[id.ID]*Task
	items map[id.ID]*Item
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		tasks: make(map[id.ID]*Task),
		items: make(map[id.ID]*Item),
	}
}

func (r *mockRepo) CreateTask(ctx context.Context, task *Task) error {
	r.tasks[task.ID] = task
	return nil
}

func (r *mockRepo) GetTask(ctx context.Context, taskID id.ID) (*Task, error) {
	task, ok := r.tasks[taskID]
	if !ok {
		return nil, apperror.NewNotFound("stocktake_tasks", taskID.String())
	}
	return task, nil
}

func (r *mockRepo) GetTaskByNumber(ctx context.Context, number string) (*Task, error) {
	for _, task := range r.tasks {
		if task.Number == number {
			return task, nil
		}
	}
	return nil, apperror.NewNotFound("stocktake_tasks", number)
}

func (r *mockRepo) GetTaskForUpdate(ctx context.Context, taskID id.ID) (*Task, error) {
	return r.GetTask(ctx, taskID)
}

func (r *mockRepo) UpdateTask(ctx context.Context, task *Task) error {
	r.tasks[task.ID] = task
	return nil
}

func (r *mockRepo) SaveItems(ctx context.Context, taskID id.ID, items []*Item) error {
	for _, item := range items {
		r.items[item.ID] = item
	}
	return nil
}

func (r *mockRepo) GetItems(ctx context.Context, taskID id.ID) ([]*Item, error) {
	var items []*Item
	for _, item := range r.items {
		if item.TaskID == taskID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *mockRepo) GetItem(ctx context.Context, itemID id.ID) (*Item, error) {
	item, ok := r.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("stocktake_items", itemID.String())
	}
	return item, nil
}

func (r *mockRepo) UpdateItem(ctx context.Context, item *Item) error {
	r.items[item.ID] = item
	return nil
}

func (r *mockRepo) GetProgress(ctx context.Context, taskID id.ID) (Progress, error) {
	var p Progress
	for _, item := range r.items {
		if item.TaskID == taskID {
			p.Total++
			if item.Counted() {
				p.Counted++
			}
		}
	}
	return p, nil
}

func (r *mockRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Task], error) {
	result := domain.ListResult[*Task]{}
	for _, task := range r.tasks {
		result.Items = append(result.Items, task)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

type recordingInbound struct {
	calls []stock_in.PostParams
}

func (p *recordingInbound) Post(ctx context.Context, params stock_in.PostParams) (*stock_in.PostResult, error) {
	p.calls = append(p.calls, params)
	return &stock_in.PostResult{}, nil
}

type recordingOutbound struct {
	calls []stock_out.PostParams
}

func (p *recordingOutbound) Post(ctx context.Context, params stock_out.PostParams) (*stock_out.PostResult, error) {
	p.calls = append(p.calls, params)
	return &stock_out.PostResult{}, nil
}

func testMaterials() []*material.Material {
	m1 := material.NewMaterial("M001", "Steel Plate", "pcs")
	m1.CurrentStock = 100
	m2 := material.NewMaterial("M002", "Copper Wire", "m")
	m2.CurrentStock = 40
	return []*material.Material{m1, m2}
}

func newTestService(active []*material.Material) (*Service, *mockRepo, *recordingInbound, *recordingOutbound) {
	repo := newMockRepo()
	in := &recordingInbound{}
	out := &recordingOutbound{}
	svc := NewService(repo,
		&mockMaterialRepo{active: active},
		in, out,
		&numerator.MockGenerator{},
		fakeTxManager{})
	return svc, repo, in, out
}

func itemByCode(t *testing.T, items []*Item, code string) *Item {
	t.Helper()
	for _, item := range items {
		if item.MaterialCode == code {
			return item
		}
	}
	t.Fatalf("no item for material %s", code)
	return nil
}

// --- Tests ---

func TestCreateTask(t *testing.T) {
	svc, _, _, _ := newTestService(testMaterials())

	detail, err := svc.CreateTask(context.Background(), CreateParams{CreatedBy: "alice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if detail.Task.Status != StatusPending {
		t.Errorf("expected pending, got %s", detail.Task.Status)
	}
	if detail.Task.Number == "" {
		t.Error("expected generated task number")
	}
	if len(detail.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(detail.Items))
	}

	item := itemByCode(t, detail.Items, "M001")
	if item.BookQty != 100 {
		t.Errorf("expected book qty 100, got %d", item.BookQty)
	}
	if item.Counted() {
		t.Error("new item must be uncounted")
	}
	if detail.Progress.Total != 2 || detail.Progress.Counted != 0 {
		t.Errorf("unexpected progress %+v", detail.Progress)
	}
}

func TestCreateTask_NoActiveMaterials(t *testing.T) {
	svc, _, _, _ := newTestService(nil)

	_, err := svc.CreateTask(context.Background(), CreateParams{CreatedBy: "alice"})
	if err == nil {
		t.Fatal("expected error with no active materials")
	}
}

func TestSubmitItem(t *testing.T) {
	svc, _, _, _ := newTestService(testMaterials())
	ctx := context.Background()

	detail, err := svc.CreateTask(ctx, CreateParams{CreatedBy: "alice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	item := itemByCode(t, detail.Items, "M002")

	got, err := svc.SubmitItem(ctx, detail.Task.ID, item.ID, 35, "bob")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if got.DiffQty != -5 {
		t.Errorf("expected diff -5, got %d", got.DiffQty)
	}
	if got.DiffType != DiffLoss {
		t.Errorf("expected loss, got %s", got.DiffType)
	}
	if got.CountedBy != "bob" || got.CountedAt == nil {
		t.Error("expected counted audit fields set")
	}

	// First submission moves the task to doing.
	refreshed, err := svc.GetTask(ctx, detail.Task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if refreshed.Task.Status != StatusDoing {
		t.Errorf("expected doing, got %s", refreshed.Task.Status)
	}
	if refreshed.Progress.Counted != 1 {
		t.Errorf("expected 1 counted, got %d", refreshed.Progress.Counted)
	}
}

func TestSubmitItem_NegativeRejected(t *testing.T) {
	svc, _, _, _ := newTestService(testMaterials())
	ctx := context.Background()

	detail, _ := svc.CreateTask(ctx, CreateParams{CreatedBy: "alice"})
	item := itemByCode(t, detail.Items, "M001")

	if _, err := svc.SubmitItem(ctx, detail.Task.ID, item.ID, -1, "bob"); err == nil {
		t.Fatal("expected error for negative quantity")
	}
}

func TestSubmitItem_TerminalTaskRejected(t *testing.T) {
	svc, repo, _, _ := newTestService(testMaterials())
	ctx := context.Background()

	detail, _ := svc.CreateTask(ctx, CreateParams{CreatedBy: "alice"})
	item := itemByCode(t, detail.Items, "M001")

	repo.tasks[detail.Task.ID].Status = StatusCancelled

	_, err := svc.SubmitItem(ctx, detail.Task.ID, item.ID, 10, "bob")
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeInvalidStateTransition {
		t.Fatalf("expected state transition error, got %v", err)
	}
}

func TestCompleteTask_UncountedRejected(t *testing.T) {
	svc, _, _, _ := newTestService(testMaterials())
	ctx := context.Background()

	detail, _ := svc.CreateTask(ctx, CreateParams{CreatedBy: "alice"})
	item := itemByCode(t, detail.Items, "M001")
	if _, err := svc.SubmitItem(ctx, detail.Task.ID, item.ID, 100, "bob"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err := svc.CompleteTask(ctx, detail.Task.ID, "bob")
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeUncountedItems {
		t.Fatalf("expected uncounted items error, got %v", err)
	}
	if appErr.Details["uncounted"] != 1 {
		t.Errorf("expected uncounted=1, got %v", appErr.Details["uncounted"])
	}
}

func TestCompleteTask_BooksDifferences(t *testing.T) {
	svc, _, in, out := newTestService(testMaterials())
	ctx := context.Background()

	detail, _ := svc.CreateTask(ctx, CreateParams{CreatedBy: "alice"})

	// M001: 100 -> 50 (loss of 50); M002: 40 -> 43 (gain of 3).
	m1 := itemByCode(t, detail.Items, "M001")
	m2 := itemByCode(t, detail.Items, "M002")
	if _, err := svc.SubmitItem(ctx, detail.Task.ID, m1.ID, 50, "bob"); err != nil {
		t.Fatalf("submit m1: %v", err)
	}
	if _, err := svc.SubmitItem(ctx, detail.Task.ID, m2.ID, 43, "bob"); err != nil {
		t.Fatalf("submit m2: %v", err)
	}

	done, err := svc.CompleteTask(ctx, detail.Task.ID, "bob")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if done.Task.Status != StatusDone {
		t.Errorf("expected done, got %s", done.Task.Status)
	}
	if done.Task.CompletedAt == nil {
		t.Error("expected completedAt set")
	}

	if len(out.calls) != 1 {
		t.Fatalf("expected 1 loss adjustment, got %d", len(out.calls))
	}
	loss := out.calls[0]
	if loss.MaterialCode != "M001" || loss.Quantity != 50 || loss.Type != stock_out.TypeAdjustLoss {
		t.Errorf("unexpected loss adjustment %+v", loss)
	}

	if len(in.calls) != 1 {
		t.Fatalf("expected 1 gain adjustment, got %d", len(in.calls))
	}
	gain := in.calls[0]
	if gain.MaterialCode != "M002" || gain.Quantity != 3 || gain.Type != stock_in.TypeAdjustGain {
		t.Errorf("unexpected gain adjustment %+v", gain)
	}
}

func TestCompleteTask_NoDiffsNoMovements(t *testing.T) {
	svc, _, in, out := newTestService(testMaterials())
	ctx := context.Background()

	detail, _ := svc.CreateTask(ctx, CreateParams{CreatedBy: "alice"})
	for _, item := range detail.Items {
		if _, err := svc.SubmitItem(ctx, detail.Task.ID, item.ID, item.BookQty, "bob"); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	if _, err := svc.CompleteTask(ctx, detail.Task.ID, "bob"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if len(in.calls) != 0 || len(out.calls) != 0 {
		t.Error("matching counts must not create movements")
	}
}

func TestCancelTask(t *testing.T) {
	svc, _, _, _ := newTestService(testMaterials())
	ctx := context.Background()

	detail, _ := svc.CreateTask(ctx, CreateParams{CreatedBy: "alice"})

	task, err := svc.CancelTask(ctx, detail.Task.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if task.Status != StatusCancelled {
		t.Errorf("expected cancelled, got %s", task.Status)
	}

	// Terminal tasks cannot be cancelled again or completed.
	if _, err := svc.CancelTask(ctx, detail.Task.ID); err == nil {
		t.Error("expected error cancelling a cancelled task")
	}
	_, err = svc.CompleteTask(ctx, detail.Task.ID, "bob")
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeInvalidStateTransition {
		t.Fatalf("expected state transition error, got %v", err)
	}
}
