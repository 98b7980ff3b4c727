package stock_in

import "stockroom/internal/core/numerator"

const (
	// NumeratorStrategy defines the numbering strategy for this document type.
	// Bill numbers are a primary audit trail, so we use Strict strategy.
	NumeratorStrategy = numerator.StrategyStrict

	// BillPrefix for regular inbound movements.
	BillPrefix = "IN"

	// AdjustmentPrefix for stocktake surplus movements.
	AdjustmentPrefix = "ADJ"
)
