// Package numerator provides the PostgreSQL-backed implementation of the
// core/numerator.Generator contract. The actual sequence engine lives in
// pkg/numerator; this adapter maps the domain config onto it.
package numerator

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	corenumerator "stockroom/internal/core/numerator"
	"stockroom/internal/infrastructure/storage/postgres"
	"stockroom/pkg/numerator"
)

// Service implements core/numerator.Generator.
type Service struct {
	engine *numerator.Service
}

// Ensure compile-time interface compliance.
var _ corenumerator.Generator = (*Service)(nil)

// New creates a generator backed by the given querier (pool or transaction).
func New(querier numerator.Querier) *Service {
	return &Service{engine: numerator.New(querier)}
}

// NewWithTxManager creates a generator whose sequence updates join the
// active transaction when one is present, so a rolled-back posting does not
// leave a gap in the day's numbers.
func NewWithTxManager(txManager *postgres.TxManager) *Service {
	return New(txQuerier{txManager: txManager})
}

type txQuerier struct {
	txManager *postgres.TxManager
}

func (q txQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return q.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...)
}

// GetNextNumber generates the next document number.
func (s *Service) GetNextNumber(ctx context.Context, cfg corenumerator.Config, opts *corenumerator.Options, period time.Time) (string, error) {
	return s.engine.GetNextNumber(ctx, mapConfig(cfg), mapOptions(opts), period)
}

// SetNextNumber sets the next number value (for migration purposes).
func (s *Service) SetNextNumber(ctx context.Context, cfg corenumerator.Config, period time.Time, value int64) error {
	return s.engine.SetNextNumber(ctx, mapConfig(cfg), period, value)
}

func mapConfig(cfg corenumerator.Config) numerator.Config {
	return numerator.Config{
		Prefix:      cfg.Prefix,
		IncludeDate: cfg.IncludeDate,
		PadWidth:    cfg.PadWidth,
		ResetPeriod: cfg.ResetPeriod,
	}
}

func mapOptions(opts *corenumerator.Options) *numerator.Options {
	if opts == nil {
		return nil
	}
	return &numerator.Options{
		Strategy:  numerator.Strategy(opts.Strategy),
		RangeSize: opts.RangeSize,
	}
}
