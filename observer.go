package fivewords

import (
	"context"
	"fmt"
	"io"
)

// Observer receives progress reports from a Finder. Reports arrive in this order:
// WordsRead, InvalidWords (only if there are any), UniqueMasks, one LevelBuilt per level
// from 1 upwards, then CombinationFound once per combination the consumer accepted. A
// combination whose yield returns false, ending the sequence, is not reported.
//
// With more than one worker, CombinationFound is still called from a single goroutine.
type Observer interface {
	WordsRead(ctx context.Context, n int)
	InvalidWords(ctx context.Context, words []string)
	UniqueMasks(ctx context.Context, n int)
	LevelBuilt(ctx context.Context, level, size int)
	CombinationFound(ctx context.Context)
}

// NopObserver ignores every report.
type NopObserver struct{}

func (NopObserver) WordsRead(context.Context, int)         {}
func (NopObserver) InvalidWords(context.Context, []string) {}
func (NopObserver) UniqueMasks(context.Context, int)       {}
func (NopObserver) LevelBuilt(context.Context, int, int)   {}
func (NopObserver) CombinationFound(context.Context)       {}

// DiagnosticObserver writes the plain-text diagnostic report to W, typically stderr:
//
//	N words
//	Invalid words:
//	...
//	End invalid words
//	N unique keys
//	N groups of size K
type DiagnosticObserver struct {
	NopObserver
	W io.Writer
}

func (d DiagnosticObserver) WordsRead(_ context.Context, n int) {
	fmt.Fprintf(d.W, "%d words\n", n)
}

func (d DiagnosticObserver) InvalidWords(_ context.Context, words []string) {
	fmt.Fprintln(d.W, "Invalid words:")
	for _, w := range words {
		fmt.Fprintln(d.W, w)
	}
	fmt.Fprintln(d.W, "End invalid words")
}

func (d DiagnosticObserver) UniqueMasks(_ context.Context, n int) {
	fmt.Fprintf(d.W, "%d unique keys\n", n)
}

func (d DiagnosticObserver) LevelBuilt(_ context.Context, level, size int) {
	fmt.Fprintf(d.W, "%d groups of size %d\n", size, level)
}

// Observers fans every report out to each of its members in order.
type Observers []Observer

func (o Observers) WordsRead(ctx context.Context, n int) {
	for _, obs := range o {
		obs.WordsRead(ctx, n)
	}
}

func (o Observers) InvalidWords(ctx context.Context, words []string) {
	for _, obs := range o {
		obs.InvalidWords(ctx, words)
	}
}

func (o Observers) UniqueMasks(ctx context.Context, n int) {
	for _, obs := range o {
		obs.UniqueMasks(ctx, n)
	}
}

func (o Observers) LevelBuilt(ctx context.Context, level, size int) {
	for _, obs := range o {
		obs.LevelBuilt(ctx, level, size)
	}
}

func (o Observers) CombinationFound(ctx context.Context) {
	for _, obs := range o {
		obs.CombinationFound(ctx)
	}
}
