// Package telemetry records a search's progress reports as OpenTelemetry metrics.
//
// The caller owns the MeterProvider; this package only creates instruments on the Meter it
// is given.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ScopeName is the instrumentation scope used when callers take a Meter from a provider.
const ScopeName = "crosswarped.com/fivewords"

var ErrNilMeter = errors.New("nil meter")

// Observer implements fivewords.Observer on top of metric instruments.
type Observer struct {
	wordsRead    metric.Int64Counter
	invalidWords metric.Int64Counter
	uniqueMasks  metric.Int64Gauge
	levelSize    metric.Int64Gauge
	combinations metric.Int64Counter
}

func NewObserver(meter metric.Meter) (*Observer, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}

	var (
		o   Observer
		err error
	)
	if o.wordsRead, err = meter.Int64Counter("fivewords.words.read",
		metric.WithDescription("Tokens read from the input, excluding empty tokens"),
		metric.WithUnit("{word}")); err != nil {
		return nil, fmt.Errorf("create counter fivewords.words.read: %w", err)
	}
	if o.invalidWords, err = meter.Int64Counter("fivewords.words.invalid",
		metric.WithDescription("Tokens excluded from the search"),
		metric.WithUnit("{word}")); err != nil {
		return nil, fmt.Errorf("create counter fivewords.words.invalid: %w", err)
	}
	if o.uniqueMasks, err = meter.Int64Gauge("fivewords.masks.unique",
		metric.WithDescription("Distinct letter masks among valid words"),
		metric.WithUnit("{mask}")); err != nil {
		return nil, fmt.Errorf("create gauge fivewords.masks.unique: %w", err)
	}
	if o.levelSize, err = meter.Int64Gauge("fivewords.level.size",
		metric.WithDescription("Combined masks at each level"),
		metric.WithUnit("{mask}")); err != nil {
		return nil, fmt.Errorf("create gauge fivewords.level.size: %w", err)
	}
	if o.combinations, err = meter.Int64Counter("fivewords.combinations",
		metric.WithDescription("Combinations found"),
		metric.WithUnit("{combination}")); err != nil {
		return nil, fmt.Errorf("create counter fivewords.combinations: %w", err)
	}
	return &o, nil
}

func (o *Observer) WordsRead(ctx context.Context, n int) {
	o.wordsRead.Add(ctx, int64(n))
}

func (o *Observer) InvalidWords(ctx context.Context, words []string) {
	o.invalidWords.Add(ctx, int64(len(words)))
}

func (o *Observer) UniqueMasks(ctx context.Context, n int) {
	o.uniqueMasks.Record(ctx, int64(n))
}

func (o *Observer) LevelBuilt(ctx context.Context, level, size int) {
	o.levelSize.Record(ctx, int64(size), metric.WithAttributes(attribute.Int("level", level)))
}

func (o *Observer) CombinationFound(ctx context.Context) {
	o.combinations.Add(ctx, 1)
}
