package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	fivewords "crosswarped.com/fivewords"
)

type fakeLoader struct {
	scopes map[string][]string
	err    error
}

func (f fakeLoader) Words(_ context.Context, scope string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.scopes[scope], nil
}

func newTestFunction(loader wordLoader) *function {
	return &function{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer: fivewords.NopObserver{},
		loader:   loader,
		workers:  1,
	}
}

func post(t *testing.T, fn *function, body string) (*httptest.ResponseRecorder, FindCombinationsResponse) {
	t.Helper()
	return postContext(t, t.Context(), fn, body)
}

func postContext(t *testing.T, ctx context.Context, fn *function, body string) (*httptest.ResponseRecorder, FindCombinationsResponse) {
	t.Helper()
	req := httptest.NewRequestWithContext(ctx, http.MethodPost, "/five-words", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	fn.findCombinations(rec, req)

	var resp FindCombinationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestFindCombinations(t *testing.T) {
	fn := newTestFunction(nil)
	rec, resp := post(t, fn, mustJSON(t, FindCombinationsRequest{
		Words: []string{"bread", "fjord", "crane", "gucks", "hello", "nymph", "vibex", "waltz", "aabbc"},
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	want := FindCombinationsResponse{
		Success:      true,
		Combinations: []string{"fjord gucks nymph vibex waltz"},
		InvalidWords: []string{"hello", "aabbc"},
		Stats: &fivewords.Stats{
			WordsRead:      9,
			InvalidWords:   2,
			UniqueMasks:    7,
			LevelSizes:     []int{1, 7, 12, 11, 5, 1},
			Decompositions: []int{1, 7, 24, 33, 20, 5},
		},
	}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestFindCombinations_NoneFound(t *testing.T) {
	_, resp := post(t, newTestFunction(nil), `{"words": ["fjord", "gucks"]}`)
	if !resp.Success {
		t.Fatalf("Success = false, error %q", resp.Error)
	}
	if resp.Combinations == nil || len(resp.Combinations) != 0 {
		t.Errorf("Combinations = %#v, want empty non-nil slice", resp.Combinations)
	}
}

func TestFindCombinations_Truncated(t *testing.T) {
	words := []string{"abcef", "dowry", "ghijk", "lmnpq", "stuvx", "rowdy"}
	_, resp := post(t, newTestFunction(nil), mustJSON(t, FindCombinationsRequest{
		Words:           words,
		MaxCombinations: 1,
	}))
	if !resp.Success {
		t.Fatalf("Success = false, error %q", resp.Error)
	}
	if diff := cmp.Diff([]string{"abcef ghijk lmnpq rowdy stuvx"}, resp.Combinations); diff != "" {
		t.Errorf("Combinations mismatch (-want +got):\n%s", diff)
	}
	if !resp.Truncated {
		t.Error("Truncated = false, want true")
	}
}

func TestFindCombinations_WordScope(t *testing.T) {
	loader := fakeLoader{scopes: map[string][]string{
		"classic": {"gucks", "nymph", "vibex", "waltz"},
	}}
	_, resp := post(t, newTestFunction(loader), `{"words": ["fjord"], "wordScope": "classic"}`)
	if diff := cmp.Diff([]string{"fjord gucks nymph vibex waltz"}, resp.Combinations); diff != "" {
		t.Errorf("Combinations mismatch (-want +got):\n%s", diff)
	}
}

func TestFindCombinations_Errors(t *testing.T) {
	tests := []struct {
		name       string
		loader     wordLoader
		body       string
		wantStatus int
		wantError  string
	}{
		{"invalid json", nil, `{"words": `, http.StatusBadRequest, "Invalid JSON"},
		{"no words", nil, `{"words": []}`, http.StatusBadRequest, "words must not be empty"},
		{"negative max", nil, `{"words": ["fjord"], "maxCombinations": -1}`, http.StatusBadRequest, "at least 1"},
		{"max too large", nil, `{"words": ["fjord"], "maxCombinations": 10001}`, http.StatusBadRequest, "at most 10000"},
		{"scope without store", nil, `{"wordScope": "classic"}`, http.StatusBadRequest, "no word store"},
		{"store failure", fakeLoader{err: errors.New("quota exceeded")}, `{"wordScope": "classic"}`, http.StatusInternalServerError, "quota exceeded"},
		{"invariant violated", fakeLoader{err: fmt.Errorf("inconsistent index: %w", fivewords.ErrInvariant)}, `{"wordScope": "classic"}`, http.StatusInternalServerError, "internal invariant violated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := post(t, newTestFunction(tt.loader), tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if resp.Success {
				t.Error("Success = true, want false")
			}
			if !strings.Contains(resp.Error, tt.wantError) {
				t.Errorf("Error = %q, want it to contain %q", resp.Error, tt.wantError)
			}
		})
	}
}

func TestFindCombinations_Methods(t *testing.T) {
	fn := newTestFunction(nil)

	rec := httptest.NewRecorder()
	fn.findCombinations(rec, httptest.NewRequest(http.MethodOptions, "/five-words", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("OPTIONS status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
		t.Errorf("Access-Control-Allow-Methods = %q", got)
	}

	rec = httptest.NewRecorder()
	fn.findCombinations(rec, httptest.NewRequest(http.MethodGet, "/five-words", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", rec.Code)
	}
}

func TestFindCombinations_RequestIDEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/five-words", strings.NewReader(`{"words": ["fjord"]}`))
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	newTestFunction(nil).findCombinations(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestFindCombinations_Deadlines(t *testing.T) {
	const body = `{"words": ["fjord", "gucks", "nymph", "vibex", "waltz"]}`

	t.Run("short deadline still searches", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(t.Context(), 3*time.Second)
		defer cancel()
		rec, resp := postContext(t, ctx, newTestFunction(nil), body)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200; error %q", rec.Code, resp.Error)
		}
		if diff := cmp.Diff([]string{"fjord gucks nymph vibex waltz"}, resp.Combinations); diff != "" {
			t.Errorf("Combinations mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("expired deadline", func(t *testing.T) {
		ctx, cancel := context.WithDeadline(t.Context(), time.Now().Add(-time.Second))
		defer cancel()
		rec, resp := postContext(t, ctx, newTestFunction(nil), body)
		if rec.Code != http.StatusGatewayTimeout {
			t.Errorf("status = %d, want 504", rec.Code)
		}
		if !strings.Contains(resp.Error, context.DeadlineExceeded.Error()) {
			t.Errorf("Error = %q, want a deadline error", resp.Error)
		}
	})
}

func TestSearchTimeout(t *testing.T) {
	tests := []struct {
		name      string
		remaining time.Duration
		min, max  time.Duration
	}{
		{"long deadline keeps a margin", time.Minute, 50 * time.Second, 55 * time.Second},
		{"short deadline is used whole", 3 * time.Second, 2 * time.Second, 3 * time.Second},
		{"expired deadline", -time.Second, -2 * time.Second, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithDeadline(t.Context(), time.Now().Add(tt.remaining))
			defer cancel()
			if got := searchTimeout(ctx); got < tt.min || got > tt.max {
				t.Errorf("searchTimeout() = %v, want between %v and %v", got, tt.min, tt.max)
			}
		})
	}

	if got := searchTimeout(t.Context()); got != defaultTimeout {
		t.Errorf("searchTimeout() without a deadline = %v, want %v", got, defaultTimeout)
	}
}
