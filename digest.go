package fivewords

import (
	"encoding/hex"
	"io"
	"slices"

	"github.com/zeebo/blake3"
)

// Digest returns a hex BLAKE3 hash of a set of output lines. The order of lines does not
// matter, so runs that emit the same set in a different order share a digest.
func Digest(lines []string) string {
	sorted := slices.Clone(lines)
	slices.Sort(sorted)

	h := blake3.New()
	for _, line := range sorted {
		io.WriteString(h, line)
		io.WriteString(h, "\n")
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Lines returns the Repr of each combination.
func Lines(combinations []Combination) []string {
	lines := make([]string, len(combinations))
	for i, c := range combinations {
		lines[i] = c.Repr()
	}
	return lines
}
