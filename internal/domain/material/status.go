package material

// StockStatus is the classification of a balance against the configured
// min/max bounds.
type StockStatus string

const (
	StockNormal StockStatus = "normal"
	StockLow    StockStatus = "low"
	StockHigh   StockStatus = "high"
)

// Classify returns the stock status for a balance. Low takes precedence over
// high; a zero bound disables the corresponding check.
func Classify(current, minStock, maxStock int64) StockStatus {
	if minStock > 0 && current <= minStock {
		return StockLow
	}
	if maxStock > 0 && current >= maxStock {
		return StockHigh
	}
	return StockNormal
}
