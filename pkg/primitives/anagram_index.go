package primitives

import "slices"

// AnagramIndex groups words by their LetterMask.
//
// Each group keeps its words in the order they were first seen, including exact
// duplicates. Words that encode to 0 are kept in a separate invalid bucket that never
// takes part in a search.
type AnagramIndex struct {
	groups  map[LetterMask][]string
	masks   []LetterMask // distinct valid masks, in first-seen order
	invalid []string
}

// NewAnagramIndex builds an index over words. Empty tokens are skipped entirely.
func NewAnagramIndex(words []string) *AnagramIndex {
	idx := &AnagramIndex{
		groups: make(map[LetterMask][]string),
	}
	for _, word := range words {
		if len(word) == 0 {
			continue
		}
		mask := Encode(word)
		if mask == 0 {
			idx.invalid = append(idx.invalid, word)
			continue
		}
		group, ok := idx.groups[mask]
		if !ok {
			idx.masks = append(idx.masks, mask)
		}
		idx.groups[mask] = append(group, word)
	}
	return idx
}

// Invalid returns the tokens that did not encode to a valid mask, in input order.
func (idx *AnagramIndex) Invalid() []string {
	return slices.Clone(idx.invalid)
}

// DropInvalid returns an index sharing the valid groups of idx but without its invalid
// bucket. idx itself is left untouched.
func (idx *AnagramIndex) DropInvalid() *AnagramIndex {
	return &AnagramIndex{
		groups: idx.groups,
		masks:  idx.masks,
	}
}

// Len returns the number of distinct valid masks.
func (idx *AnagramIndex) Len() int {
	return len(idx.masks)
}

// Masks returns the distinct valid masks in the order their first word was seen.
func (idx *AnagramIndex) Masks() []LetterMask {
	return slices.Clone(idx.masks)
}

// Words returns the words sharing mask. The returned slice must not be modified.
func (idx *AnagramIndex) Words(mask LetterMask) ([]string, bool) {
	words, ok := idx.groups[mask]
	return words, ok
}

// NumWords returns the number of valid words in the index, counting duplicates.
func (idx *AnagramIndex) NumWords() int {
	n := 0
	for _, words := range idx.groups {
		n += len(words)
	}
	return n
}
