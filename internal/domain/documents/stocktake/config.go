package stocktake

import "stockroom/internal/core/numerator"

const (
	// NumeratorStrategy defines the numbering strategy for task numbers.
	NumeratorStrategy = numerator.StrategyStrict

	// TaskPrefix for stocktake task numbers.
	TaskPrefix = "SC"
)
