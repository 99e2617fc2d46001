package internal

import (
	"context"
	"fmt"

	"crosswarped.com/fivewords/pkg/primitives"
)

// DefaultNumWords is the number of words in a complete combination.
const DefaultNumWords = 5

type LevelParams struct {
	// Masks are the distinct valid word masks, one per anagram group.
	Masks []primitives.LetterMask

	// NumWords is the highest level to build. Defaults to DefaultNumWords.
	NumWords *int

	// OnLevel, if set, is called once each level is complete.
	OnLevel func(level, size int)
}

type params struct {
	masks    []primitives.LetterMask
	numWords int
	onLevel  func(level, size int)
}

func asParams(p LevelParams) params {
	pp := params{
		masks:   p.Masks,
		onLevel: p.OnLevel,
	}

	if p.NumWords == nil {
		pp.numWords = DefaultNumWords
	} else {
		pp.numWords = *p.NumWords
	}

	if pp.onLevel == nil {
		pp.onLevel = func(int, int) {}
	}

	return pp
}

type levelState struct {
	masks []primitives.LetterMask

	memoizedLevels map[int]*primitives.LevelMap
}

// level returns the map combining atLevel disjoint word masks, building lower levels first
// as needed.
func (s *levelState) level(ctx context.Context, atLevel int) (*primitives.LevelMap, error) {
	if memo, ok := s.memoizedLevels[atLevel]; ok {
		return memo, nil
	}

	if atLevel < 0 {
		panic("atLevel < 0 -- this should never happen")
	}

	if atLevel == 0 {
		base := primitives.BaseLevel()
		s.memoizedLevels[0] = base
		return base, nil
	}

	prev, err := s.level(ctx, atLevel-1)
	if err != nil {
		return nil, err
	}

	// Put each word mask in front of every known combination of atLevel-1 words it does
	// not collide with.
	builder := primitives.NewLevelMapBuilder(atLevel)
	for combined := range prev.Keys() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, mask := range s.masks {
			if mask.Disjoint(combined) {
				builder.Insert(mask, combined)
			}
		}
	}

	m := builder.Freeze()
	s.memoizedLevels[atLevel] = m
	return m, nil
}

// BuildLevels returns the level maps 0 through NumWords for the given word masks.
func BuildLevels(ctx context.Context, p LevelParams) (primitives.Levels, error) {
	params := asParams(p)
	if params.numWords < 1 {
		return nil, fmt.Errorf("numWords must be at least 1, got %d", params.numWords)
	}

	state := levelState{
		masks:          params.masks,
		memoizedLevels: make(map[int]*primitives.LevelMap),
	}

	levels := make(primitives.Levels, params.numWords+1)
	for i := range levels {
		m, err := state.level(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("build level %d: %w", i, err)
		}
		levels[i] = m
		if i > 0 {
			params.onLevel(i, m.Len())
		}
	}
	return levels, nil
}
