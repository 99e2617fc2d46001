package primitives

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

const (
	// AlphabetSize is the number of letters a LetterMask can hold, 'a' through 'z'.
	AlphabetSize = 26

	// WordLength is the number of letters in every valid word.
	WordLength = 5
)

// ErrMaskWidth is returned by CheckMaskWidth when LetterMask cannot hold one bit per letter.
var ErrMaskWidth = errors.New("letter mask too narrow")

// LetterMask efficiently represents a set of lowercase letters, one bit per letter.
//
// Bit 0 is 'a', bit 25 is 'z'. The zero value is the empty set, which is also used as the
// "invalid word" sentinel by Encode.
type LetterMask uint32

// CheckMaskWidth reports whether LetterMask is wide enough for the alphabet.
func CheckMaskWidth() error {
	width := bits.Len32(uint32(^LetterMask(0)))
	if width < AlphabetSize {
		return fmt.Errorf("%w: %d bits available, %d required", ErrMaskWidth, width, AlphabetSize)
	}
	return nil
}

// Add adds a letter to the set.
func (m *LetterMask) Add(r rune) error {
	if r < 'a' || r > 'z' {
		return fmt.Errorf("character %q is out of range", r)
	}
	*m |= 1 << (r - 'a')
	return nil
}

// Contains checks if a letter is in the set.
func (m LetterMask) Contains(r rune) bool {
	if r < 'a' || r > 'z' {
		return false
	}
	return m&(1<<(r-'a')) != 0
}

// Count returns the number of letters in the set.
func (m LetterMask) Count() int {
	return bits.OnesCount32(uint32(m))
}

// Disjoint reports whether the two sets share no letter.
func (m LetterMask) Disjoint(other LetterMask) bool {
	return m&other == 0
}

// Union returns the set of letters in either set.
func (m LetterMask) Union(other LetterMask) LetterMask {
	return m | other
}

// String returns the letters of the set in alphabetical order.
func (m LetterMask) String() string {
	var sb strings.Builder
	for i := range AlphabetSize {
		if m&(1<<i) != 0 {
			sb.WriteByte(byte('a' + i))
		}
	}
	return sb.String()
}

// Encode converts a word to a mask of its letters.
//
// It returns 0 if the word is not exactly WordLength bytes long, contains anything other
// than 'a' through 'z', or repeats a letter. Otherwise the result has exactly WordLength
// bits set, and every anagram of the word encodes to the same mask.
//
// E.g. both "dowry" and "rowdy" are
//
//	------zyxwvutsrqponmlkjihgfedcba
//	00000001010000100100000000001000
func Encode(word string) LetterMask {
	mask, class := scan(word)
	if class != TokenValid {
		return 0
	}
	return mask
}

// scan walks the bytes of a word once, stopping at the first problem it finds.
func scan(word string) (LetterMask, TokenClass) {
	if len(word) != WordLength {
		return 0, TokenWrongLength
	}
	var mask LetterMask
	for i := range len(word) {
		r := rune(word[i])
		if mask.Contains(r) {
			return 0, TokenRepeated
		}
		if err := mask.Add(r); err != nil {
			return 0, TokenBadChar
		}
	}
	return mask, TokenValid
}
