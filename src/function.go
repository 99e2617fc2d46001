package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	fivewords "crosswarped.com/fivewords"
	"crosswarped.com/fivewords/internal/logging"
)

const (
	defaultMaxCombinations = 1000
	maxMaxCombinations     = 10000

	// deadlineMargin is kept back from the platform deadline to write the response.
	deadlineMargin = 5 * time.Second
	defaultTimeout = 1 * time.Minute
)

type FindCombinationsRequest struct {
	Words           []string `json:"words"`
	WordScope       string   `json:"wordScope"`
	MaxCombinations int      `json:"maxCombinations"`
}

type FindCombinationsResponse struct {
	Success      bool             `json:"success"`
	Combinations []string         `json:"combinations"`
	Truncated    bool             `json:"truncated,omitempty"`
	InvalidWords []string         `json:"invalidWords,omitempty"`
	Stats        *fivewords.Stats `json:"stats,omitempty"`
	Error        string           `json:"error,omitempty"`
}

// wordLoader loads the words of a named scope.
type wordLoader interface {
	Words(ctx context.Context, scope string) ([]string, error)
}

type function struct {
	logger   *slog.Logger
	observer fivewords.Observer

	// loader is nil when no word store is configured.
	loader wordLoader

	// workers is passed to every Finder.
	workers int
}

// requestError marks a problem with the request itself rather than with the server.
type requestError struct {
	msg string
}

func (e *requestError) Error() string {
	return e.msg
}

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

type result struct {
	combinations []string
	truncated    bool
	invalid      []string
	stats        fivewords.Stats
}

func (fn *function) execute(ctx context.Context, req FindCombinationsRequest) (result, error) {
	if req.MaxCombinations == 0 {
		req.MaxCombinations = defaultMaxCombinations
	}
	if req.MaxCombinations < 0 {
		return result{}, badRequest("maxCombinations must be at least 1")
	}
	if req.MaxCombinations > maxMaxCombinations {
		return result{}, badRequest("maxCombinations must be at most %d", maxMaxCombinations)
	}

	words := req.Words
	if req.WordScope != "" {
		if fn.loader == nil {
			return result{}, badRequest("wordScope %q requested but no word store is configured", req.WordScope)
		}
		scoped, err := fn.loader.Words(ctx, req.WordScope)
		if err != nil {
			return result{}, fmt.Errorf("load words: %w", err)
		}
		logging.FromContext(ctx, fn.logger).InfoContext(ctx, "loaded scope", "scope", req.WordScope, "words", len(scoped))
		words = append(words, scoped...)
	}

	if len(words) == 0 {
		return result{}, badRequest("words must not be empty")
	}

	timeout := searchTimeout(ctx)
	logging.FromContext(ctx, fn.logger).DebugContext(ctx, "setting timeout", "timeout", timeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	finder := fivewords.CreateFinder(words, fivewords.FinderParams{
		Workers:  fn.workers,
		Observer: fivewords.Observers{fn.observer, logging.Observer{Logger: fn.logger}},
	})
	stats, err := finder.Prepare(ctx)
	if err != nil {
		return result{}, err
	}

	res := result{
		invalid: finder.InvalidWords(),
		stats:   stats,
	}
	for c, err := range finder.Combinations(ctx) {
		if err != nil {
			return result{}, err
		}
		if len(res.combinations) >= req.MaxCombinations {
			res.truncated = true
			break
		}
		res.combinations = append(res.combinations, c.Repr())
	}
	return res, nil
}

// searchTimeout leaves deadlineMargin before the request deadline, unless that would use
// up more than half of the time remaining.
func searchTimeout(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return defaultTimeout
	}
	remaining := time.Until(deadline)
	if remaining > 2*deadlineMargin {
		return remaining - deadlineMargin
	}
	return remaining
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, response FindCombinationsResponse) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("error marshaling response", "error", err)
	}
}

func (fn *function) findCombinations(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set("X-Request-ID", requestID)
	ctx := logging.WithRequestID(r.Context(), requestID)
	logger := logging.FromContext(ctx, fn.logger)

	if r.Method != http.MethodPost {
		writeJSON(w, logger, http.StatusMethodNotAllowed, FindCombinationsResponse{
			Error: fmt.Sprintf("Method %s not allowed", r.Method),
		})
		return
	}

	var req FindCombinationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("error parsing JSON body", "error", err)
		writeJSON(w, logger, http.StatusBadRequest, FindCombinationsResponse{
			Error: fmt.Sprintf("Invalid JSON: %v", err),
		})
		return
	}

	res, err := fn.execute(ctx, req)
	if err != nil {
		status := http.StatusInternalServerError
		var reqErr *requestError
		switch {
		case errors.As(err, &reqErr):
			status = http.StatusBadRequest
		case errors.Is(err, context.DeadlineExceeded):
			status = http.StatusGatewayTimeout
		case errors.Is(err, fivewords.ErrInvariant):
			logger.Error("search invariant violated", "error", err)
		}
		if status != http.StatusInternalServerError {
			logger.Warn("request failed", "status", status, "error", err)
		}
		writeJSON(w, logger, status, FindCombinationsResponse{Error: err.Error()})
		return
	}

	response := FindCombinationsResponse{
		Success:      true,
		Combinations: res.combinations,
		Truncated:    res.truncated,
		InvalidWords: res.invalid,
		Stats:        &res.stats,
	}
	if response.Combinations == nil {
		response.Combinations = []string{}
	}
	logger.Info("request complete", "combinations", len(res.combinations), "truncated", res.truncated)
	writeJSON(w, logger, http.StatusOK, response)
}
