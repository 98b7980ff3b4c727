package stock_out

import "stockroom/internal/core/numerator"

const (
	// NumeratorStrategy defines the numbering strategy for this document type.
	// Bill numbers are a primary audit trail, so we use Strict strategy.
	NumeratorStrategy = numerator.StrategyStrict

	// BillPrefix for regular outbound movements.
	BillPrefix = "OUT"

	// AdjustmentPrefix for stocktake shortage movements.
	AdjustmentPrefix = "ADJ"
)
