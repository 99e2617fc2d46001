package fivewords

import (
	"slices"
	"strings"

	"crosswarped.com/fivewords/pkg/primitives"
)

// Combination is a sequence of words whose letters are pairwise disjoint.
//
// Words are held in strictly increasing lexicographic order.
type Combination struct {
	words []string
}

// Words returns a copy of the words in the combination.
func (c Combination) Words() []string {
	return slices.Clone(c.words)
}

func (c Combination) Len() int {
	return len(c.words)
}

// Mask returns the union of the letters of every word.
func (c Combination) Mask() primitives.LetterMask {
	var mask primitives.LetterMask
	for _, w := range c.words {
		mask = mask.Union(primitives.Encode(w))
	}
	return mask
}

// Repr returns the words joined by single spaces, one output line.
func (c Combination) Repr() string {
	return strings.Join(c.words, " ")
}

func (c Combination) String() string {
	return c.Repr()
}
