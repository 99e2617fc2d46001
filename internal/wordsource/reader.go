// Package wordsource reads word lists for a search: whitespace-separated tokens from
// streams and (optionally compressed) files, or rows from a BigQuery table.
package wordsource

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// maxTokenSize bounds a single token; anything longer is certainly not a word.
const maxTokenSize = 1 << 20

// ReadTokens returns every whitespace-separated token in r, in order. Tokens are returned
// exactly as written, so invalid ones can be reported later.
func ReadTokens(ctx context.Context, r io.Reader) ([]string, error) {
	var tokens []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTokenSize)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if token := scanner.Text(); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens, scanner.Err()
}

// Open opens a word list file, decompressing it according to its extension: .xz, .zst or
// .gz. Other files are read as they are.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xz":
		r, err := xz.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz.NewReader: %w", err)
		}
		return readCloser{Reader: r, closers: []func() error{f.Close}}, nil
	case ".zst":
		d, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd.NewReader: %w", err)
		}
		return readCloser{Reader: d, closers: []func() error{
			func() error { d.Close(); return nil },
			f.Close,
		}}, nil
	case ".gz":
		g, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip.NewReader: %w", err)
		}
		return readCloser{Reader: g, closers: []func() error{g.Close, f.Close}}, nil
	default:
		return f, nil
	}
}

type readCloser struct {
	io.Reader
	closers []func() error
}

func (rc readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ReadFiles reads the tokens of each file in turn.
func ReadFiles(ctx context.Context, paths []string) ([]string, error) {
	var tokens []string
	for _, path := range paths {
		more, err := readFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		tokens = append(tokens, more...)
	}
	return tokens, nil
}

func readFile(ctx context.Context, path string) ([]string, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTokens(ctx, f)
}
