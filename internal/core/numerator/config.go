package numerator

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict uses UPSERT ... RETURNING for every number.
	// Guarantees sequential numbers without gaps within a period.
	// One round trip per number, suitable for bill and task numbers.
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges of numbers in memory.
	// Much faster, but may produce gaps if application restarts.
	StrategyCached
)

// Options configuration for number generation.
type Options struct {
	// Strategy to use for number generation
	Strategy Strategy
	// RangeSize is the number of IDs to allocate at once in Cached strategy.
	// Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{
		Strategy: StrategyStrict,
	}
}

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "IN", "OUT", "ADJ", "SC")
	Prefix string

	// IncludeDate adds the period date (YYYYMMDD) to the number
	IncludeDate bool

	// PadWidth is the minimum number width (default 4)
	PadWidth int

	// ResetPeriod: "day", "month", "year", "never"
	ResetPeriod string
}

// DefaultConfig returns bill-number defaults: PREFIX-YYYYMMDD-NNNN, counter
// restarting each day.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeDate: true,
		PadWidth:    4,
		ResetPeriod: "day",
	}
}
