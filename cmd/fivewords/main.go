// Command fivewords prints every combination of five words, read from stdin or files,
// that together use twenty-five distinct letters.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/pprof"
	"time"

	"github.com/alecthomas/kong"

	fivewords "crosswarped.com/fivewords"
	"crosswarped.com/fivewords/internal/logging"
	"crosswarped.com/fivewords/internal/wordsource"
	"crosswarped.com/fivewords/pkg/primitives"
)

const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitInvariant = 3
	exitMaskWidth = 4
)

// CLI defines the command-line interface for fivewords.
type CLI struct {
	LogLevel  string `name:"log-level" enum:"debug,info,warn,error" default:"warn" help:"Structured log level (${enum})"`
	LogFormat string `name:"log-format" enum:"text,json" default:"text" help:"Structured log format (${enum})"`

	Solve  SolveCmd  `cmd:"" default:"withargs" help:"Print every five-word combination with 25 distinct letters"`
	Filter FilterCmd `cmd:"" help:"Print only the words made of five distinct lowercase letters"`
}

// globals carries the process environment into commands, so tests can replace it.
type globals struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// inputTokens reads files if any are given, stdin otherwise.
func (g *globals) inputTokens(ctx context.Context, files []string) ([]string, error) {
	if len(files) == 0 {
		return wordsource.ReadTokens(ctx, g.Stdin)
	}
	return wordsource.ReadFiles(ctx, files)
}

// SolveCmd finds the combinations.
type SolveCmd struct {
	Files []string `arg:"" optional:"" type:"existingfile" help:"Word list files (.xz, .zst and .gz are decompressed); stdin when omitted"`

	Timeout      time.Duration `default:"0s" help:"Give up after this long; 0 means no limit"`
	Workers      int           `default:"1" help:"Concurrent searches; above 1 the output order is unspecified"`
	Digest       bool          `help:"Print a BLAKE3 digest of the sorted output to stderr"`
	QuietInvalid bool          `name:"quiet-invalid" help:"Do not list invalid words in the diagnostics"`

	Profile           bool   `help:"Profile the search"`
	ProfileFile       string `name:"profile-file" default:"cpu.pprof" help:"The file to write the CPU profile to"`
	MemoryProfileFile string `name:"memory-profile-file" default:"mem.pprof" help:"The file to write the memory profile to"`
}

func (c *SolveCmd) Run(g *globals) error {
	if err := primitives.CheckMaskWidth(); err != nil {
		return err
	}

	ctx := context.Background()
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	words, err := g.inputTokens(ctx, c.Files)
	if err != nil {
		return fmt.Errorf("read words: %w", err)
	}

	if c.Profile {
		stop, err := startProfile(c.ProfileFile, c.MemoryProfileFile)
		if err != nil {
			return err
		}
		defer stop()
	}

	diag := fivewords.DiagnosticObserver{W: g.Stderr}
	var observer fivewords.Observer = fivewords.Observers{diag, logging.Observer{Logger: g.Logger}}
	if c.QuietInvalid {
		observer = fivewords.Observers{quietInvalid{diag}, logging.Observer{Logger: g.Logger}}
	}

	start := time.Now()
	finder := fivewords.CreateFinder(words, fivewords.FinderParams{
		Workers:  c.Workers,
		Observer: observer,
	})

	// Nothing is printed until the search completes, so a failed run produces no output.
	combinations, err := finder.All(ctx)
	if err != nil {
		return err
	}

	lines := fivewords.Lines(combinations)
	out := bufio.NewWriter(g.Stdout)
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if c.Digest {
		fmt.Fprintf(g.Stderr, "digest %s\n", fivewords.Digest(lines))
	}
	g.Logger.Info("search complete", "combinations", len(lines), "duration", time.Since(start).String())
	return nil
}

// quietInvalid drops the invalid word listing but keeps every other diagnostic.
type quietInvalid struct {
	fivewords.DiagnosticObserver
}

func (quietInvalid) InvalidWords(context.Context, []string) {}

// FilterCmd prints the tokens that are exactly five distinct lowercase letters.
type FilterCmd struct {
	Files []string `arg:"" optional:"" type:"existingfile" help:"Word list files; stdin when omitted"`
}

func (c *FilterCmd) Run(g *globals) error {
	words, err := g.inputTokens(context.Background(), c.Files)
	if err != nil {
		return fmt.Errorf("read words: %w", err)
	}

	out := bufio.NewWriter(g.Stdout)
	for _, word := range words {
		switch primitives.ClassifyToken(word) {
		case primitives.TokenValid:
			fmt.Fprintln(out, word)
		case primitives.TokenBadChar:
			fmt.Fprintf(g.Stderr, "Invalid chars: %s\n", word)
		}
	}
	return out.Flush()
}

func startProfile(cpuFile, memFile string) (func(), error) {
	f, err := os.Create(cpuFile)
	if err != nil {
		return nil, fmt.Errorf("create profile file: %w", err)
	}
	mf, err := os.Create(memFile)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create memory profile file: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		mf.Close()
		return nil, fmt.Errorf("start CPU profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
		pprof.WriteHeapProfile(mf)
		mf.Close()
	}, nil
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, fivewords.ErrInvariant):
		return exitInvariant
	case errors.Is(err, fivewords.ErrMaskWidth):
		return exitMaskWidth
	default:
		return exitFailure
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cli CLI
	exited := false
	parser, err := kong.New(&cli,
		kong.Name("fivewords"),
		kong.Description("Find five words that together use twenty-five distinct letters."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) { exited = true }),
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintln(stderr, "fivewords:", err)
		return exitFailure
	}

	kctx, err := parser.Parse(args)
	if exited {
		// --help already printed its output.
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, "fivewords:", err)
		return exitUsage
	}

	level, _ := logging.ParseLevel(cli.LogLevel)
	format, _ := logging.ParseFormat(cli.LogFormat)
	g := &globals{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logging.New(stderr, level, format),
	}

	if err := kctx.Run(g); err != nil {
		g.Logger.Error("fivewords failed", "error", err)
		fmt.Fprintln(stderr, "fivewords:", err)
		return exitCode(err)
	}
	return exitOK
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
