package fivewords

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type recordingObserver struct {
	events []string
}

func (r *recordingObserver) WordsRead(context.Context, int)         { r.events = append(r.events, "words") }
func (r *recordingObserver) InvalidWords(context.Context, []string) { r.events = append(r.events, "invalid") }
func (r *recordingObserver) UniqueMasks(context.Context, int)       { r.events = append(r.events, "masks") }
func (r *recordingObserver) LevelBuilt(context.Context, int, int)   { r.events = append(r.events, "level") }
func (r *recordingObserver) CombinationFound(context.Context)       { r.events = append(r.events, "found") }

func TestObservers_Order(t *testing.T) {
	rec := &recordingObserver{}
	var diag bytes.Buffer
	words := []string{"hello", "fjord", "gucks", "nymph", "vibex", "waltz"}
	f := CreateFinder(words, FinderParams{Observer: Observers{rec, DiagnosticObserver{W: &diag}}})
	if _, err := f.All(t.Context()); err != nil {
		t.Fatalf("All() error = %v", err)
	}

	want := []string{"words", "invalid", "masks", "level", "level", "level", "level", "level", "found"}
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if diag.Len() == 0 {
		t.Error("DiagnosticObserver wrote nothing")
	}
}

func TestObservers_PreparedOnce(t *testing.T) {
	rec := &recordingObserver{}
	f := CreateFinder([]string{"fjord"}, FinderParams{Observer: rec})
	for range 3 {
		if _, err := f.Prepare(t.Context()); err != nil {
			t.Fatalf("Prepare() error = %v", err)
		}
	}
	if got := len(rec.events); got != 7 {
		t.Errorf("got %d events, want 7 (words, masks, 5 levels)", got)
	}
}

func TestObservers_FoundCountsAcceptedOnly(t *testing.T) {
	words := []string{"abcef", "dowry", "ghijk", "lmnpq", "stuvx", "rowdy"}
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			rec := &recordingObserver{}
			f := CreateFinder(words, FinderParams{Workers: workers, Observer: rec})

			// Keep one combination, then stop when offered the next.
			var kept []Combination
			for c, err := range f.Combinations(t.Context()) {
				if err != nil {
					t.Fatalf("Combinations() error = %v", err)
				}
				if len(kept) == 1 {
					break
				}
				kept = append(kept, c)
			}

			if got := countEvents(rec.events, "found"); got != len(kept) {
				t.Errorf("CombinationFound called %d times, want %d", got, len(kept))
			}
		})
	}
}

func countEvents(events []string, name string) int {
	n := 0
	for _, e := range events {
		if e == name {
			n++
		}
	}
	return n
}
