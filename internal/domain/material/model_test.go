package material

import (
	"context"
	"testing"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/types"
)

func TestMaterialValidate(t *testing.T) {
	ctx := context.Background()

	valid := func() *Material {
		m := NewMaterial("M001", "Steel Plate", "pcs")
		m.MinStock = 10
		m.MaxStock = 100
		m.UnitPrice = types.MustMoney("12.50")
		return m
	}

	if err := valid().Validate(ctx); err != nil {
		t.Fatalf("valid material rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Material)
	}{
		{"empty name", func(m *Material) { m.Name = "" }},
		{"empty code", func(m *Material) { m.Code = "" }},
		{"unknown status", func(m *Material) { m.Status = "archived" }},
		{"negative min stock", func(m *Material) { m.MinStock = -1 }},
		{"negative max stock", func(m *Material) { m.MaxStock = -5 }},
		{"min above max", func(m *Material) { m.MinStock = 200; m.MaxStock = 100 }},
		{"negative unit price", func(m *Material) { m.UnitPrice = types.MustMoney("-1") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid()
			tt.mutate(m)

			err := m.Validate(ctx)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			appErr, ok := apperror.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != apperror.CodeValidation {
				t.Errorf("expected validation code, got %s", appErr.Code)
			}
		})
	}
}

func TestMaterialMinMaxUnboundedAllowed(t *testing.T) {
	ctx := context.Background()

	// Zero bounds mean "not configured" and must pass even together.
	m := NewMaterial("M002", "Copper Wire", "m")
	if err := m.Validate(ctx); err != nil {
		t.Fatalf("unbounded material rejected: %v", err)
	}

	// min set, max unbounded
	m.MinStock = 50
	if err := m.Validate(ctx); err != nil {
		t.Fatalf("min-only material rejected: %v", err)
	}
}
