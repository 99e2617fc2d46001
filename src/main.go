// Command src serves the five-word search as an HTTP function.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"crosswarped.com/fivewords/internal/logging"
	"crosswarped.com/fivewords/internal/telemetry"
	"crosswarped.com/fivewords/internal/wordsource"
)

const defaultMetricsInterval = 1 * time.Minute

// newFunction configures the handler from the environment. Its metrics go to a meter
// provider that reads through reader; the returned func shuts that provider down.
func newFunction(reader sdkmetric.Reader) (*function, func(context.Context) error, error) {
	level, err := logging.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, nil, err
	}

	fn := &function{
		logger:  logging.New(os.Stderr, level, logging.FormatJSON),
		workers: 1,
	}
	if v := os.Getenv("WORKERS"); v != "" {
		if fn.workers, err = strconv.Atoi(v); err != nil {
			return nil, nil, fmt.Errorf("parse WORKERS: %w", err)
		}
	}

	if table := os.Getenv("BIGQUERY_TABLE"); table != "" {
		bq, err := wordsource.NewBigQuery(wordsource.BigQueryParams{
			Project:  os.Getenv("BIGQUERY_PROJECT"),
			Table:    table,
			Location: os.Getenv("BIGQUERY_LOCATION"),
		})
		if err != nil {
			return nil, nil, err
		}
		fn.loader = bq
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	observer, err := telemetry.NewObserver(provider.Meter(telemetry.ScopeName))
	if err != nil {
		provider.Shutdown(context.Background())
		return nil, nil, err
	}
	fn.observer = observer
	return fn, provider.Shutdown, nil
}

// newMetricsReader exports metrics as JSON lines on stderr every METRICS_INTERVAL.
func newMetricsReader() (sdkmetric.Reader, error) {
	interval := defaultMetricsInterval
	if v := os.Getenv("METRICS_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse METRICS_INTERVAL: %w", err)
		}
		interval = d
	}
	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(os.Stderr))
	if err != nil {
		return nil, fmt.Errorf("stdoutmetric.New: %w", err)
	}
	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)), nil
}

func run() error {
	reader, err := newMetricsReader()
	if err != nil {
		return err
	}
	fn, shutdown, err := newFunction(reader)
	if err != nil {
		return fmt.Errorf("newFunction: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			fn.logger.Error("metrics shutdown", "error", err)
		}
	}()

	funcframework.RegisterHTTPFunction("/five-words", fn.findCombinations)

	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	hostname := ""
	if localOnly := os.Getenv("LOCAL_ONLY"); localOnly == "true" {
		hostname = "127.0.0.1"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- funcframework.StartHostPort(hostname, port)
	}()
	select {
	case err := <-errc:
		return fmt.Errorf("funcframework.StartHostPort: %w", err)
	case <-ctx.Done():
		return nil
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("%v\n", err)
	}
}
