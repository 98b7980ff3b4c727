package material

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		min      int64
		max      int64
		expected StockStatus
	}{
		{"no bounds", 100, 0, 0, StockNormal},
		{"between bounds", 50, 10, 100, StockNormal},
		{"at min is low", 10, 10, 100, StockLow},
		{"below min is low", 5, 10, 100, StockLow},
		{"zero with min is low", 0, 10, 100, StockLow},
		{"at max is high", 100, 10, 100, StockHigh},
		{"above max is high", 150, 10, 100, StockHigh},
		{"zero min disables low check", 0, 0, 100, StockNormal},
		{"zero max disables high check", 1000000, 10, 0, StockNormal},
		// min >= max is not validated here; low wins
		{"low takes precedence over high", 5, 10, 5, StockLow},
		{"zero stock without min", 0, 0, 0, StockNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.current, tt.min, tt.max)
			if got != tt.expected {
				t.Errorf("Classify(%d, %d, %d) = %s, want %s",
					tt.current, tt.min, tt.max, got, tt.expected)
			}
		})
	}
}

func TestMaterialStockStatus(t *testing.T) {
	m := NewMaterial("M001", "Steel Plate", "pcs")
	m.MinStock = 20
	m.MaxStock = 200

	m.CurrentStock = 15
	if got := m.StockStatus(); got != StockLow {
		t.Errorf("expected low, got %s", got)
	}

	m.CurrentStock = 100
	if got := m.StockStatus(); got != StockNormal {
		t.Errorf("expected normal, got %s", got)
	}

	m.CurrentStock = 250
	if got := m.StockStatus(); got != StockHigh {
		t.Errorf("expected high, got %s", got)
	}
}
