package fivewords

import (
	"errors"
	"fmt"

	"crosswarped.com/fivewords/pkg/primitives"
)

var (
	// ErrInvariant marks an inconsistency between the level maps and the anagram index.
	// It is a defect, never an expected outcome of a search.
	ErrInvariant = errors.New("internal invariant violated")

	// ErrMaskWidth is returned when a letter mask cannot hold the whole alphabet.
	ErrMaskWidth = primitives.ErrMaskWidth
)

// LookupKind says which structure an InvariantError failed to find a mask in.
type LookupKind int

const (
	LookupLevel LookupKind = iota
	LookupAnagramGroup
)

func (k LookupKind) String() string {
	switch k {
	case LookupLevel:
		return "level map"
	case LookupAnagramGroup:
		return "anagram index"
	default:
		return "unknown"
	}
}

// InvariantError reports a mask that a search expected to find but did not.
type InvariantError struct {
	Kind  LookupKind
	Level int
	Mask  primitives.LetterMask
}

func (e *InvariantError) Error() string {
	if e.Kind == LookupLevel {
		return fmt.Sprintf("%v: mask %032b (%s) not found in level %d map", ErrInvariant, uint32(e.Mask), e.Mask, e.Level)
	}
	return fmt.Sprintf("%v: mask %032b (%s) not found in %s", ErrInvariant, uint32(e.Mask), e.Mask, e.Kind)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}
