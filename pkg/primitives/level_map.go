package primitives

import (
	"fmt"
	"iter"
)

// Decomposition is one way of splitting a combined mask into a newly added word (Head) and
// a combination of one fewer word that was already known (Tail).
//
// Head|Tail is the combined mask and Head&Tail is 0.
type Decomposition struct {
	Head LetterMask
	Tail LetterMask
}

// LevelMap maps the combined mask of every sequence of Level() pairwise-disjoint word masks
// to the ways it decomposes.
//
// A LevelMap is read-only once built; use a LevelMapBuilder to make one.
type LevelMap struct {
	level int
	keys  []LetterMask
	pairs map[LetterMask][]Decomposition
}

// BaseLevel returns the level 0 map, whose only entry is the empty combination.
func BaseLevel() *LevelMap {
	return &LevelMap{
		level: 0,
		keys:  []LetterMask{0},
		pairs: map[LetterMask][]Decomposition{0: {{Head: 0, Tail: 0}}},
	}
}

// Level returns the number of words combined in each key.
func (m *LevelMap) Level() int {
	return m.level
}

// Len returns the number of distinct combined masks.
func (m *LevelMap) Len() int {
	return len(m.keys)
}

// NumDecompositions returns the total number of decompositions across all keys.
func (m *LevelMap) NumDecompositions() int {
	n := 0
	for _, p := range m.pairs {
		n += len(p)
	}
	return n
}

// Keys returns a sequence of combined masks in the order they were first inserted.
func (m *LevelMap) Keys() iter.Seq[LetterMask] {
	return func(yield func(LetterMask) bool) {
		for _, k := range m.keys {
			if !yield(k) {
				return
			}
		}
	}
}

// Lookup returns the decompositions of a combined mask, in insertion order.
func (m *LevelMap) Lookup(mask LetterMask) (iter.Seq[Decomposition], bool) {
	pairs, ok := m.pairs[mask]
	if !ok {
		return nil, false
	}
	return func(yield func(Decomposition) bool) {
		for _, p := range pairs {
			if !yield(p) {
				return
			}
		}
	}, true
}

func (m *LevelMap) String() string {
	return fmt.Sprintf("LevelMap(level=%d, keys=%d)", m.level, len(m.keys))
}

// LevelMapBuilder accumulates decompositions for a single level.
type LevelMapBuilder struct {
	m      *LevelMap
	frozen bool
}

func NewLevelMapBuilder(level int) *LevelMapBuilder {
	return &LevelMapBuilder{
		m: &LevelMap{
			level: level,
			pairs: make(map[LetterMask][]Decomposition),
		},
	}
}

// Insert appends a decomposition to the bucket for head|tail, creating it if needed.
func (b *LevelMapBuilder) Insert(head, tail LetterMask) {
	if b.frozen {
		panic("cannot insert into a frozen LevelMapBuilder")
	}
	key := head.Union(tail)
	pairs, ok := b.m.pairs[key]
	if !ok {
		b.m.keys = append(b.m.keys, key)
	}
	b.m.pairs[key] = append(pairs, Decomposition{Head: head, Tail: tail})
}

// Freeze returns the finished map. The builder cannot be used afterwards.
func (b *LevelMapBuilder) Freeze() *LevelMap {
	b.frozen = true
	return b.m
}

// Levels is the ordered chain of level maps, where Levels[k] combines k words.
type Levels []*LevelMap

// Top returns the map with the most words per combination.
func (l Levels) Top() *LevelMap {
	return l[len(l)-1]
}

// Decompositions returns the number of decompositions at each level.
func (l Levels) Decompositions() []int {
	counts := make([]int, len(l))
	for i, m := range l {
		counts[i] = m.NumDecompositions()
	}
	return counts
}

// Sizes returns the number of keys at each level.
func (l Levels) Sizes() []int {
	sizes := make([]int, len(l))
	for i, m := range l {
		sizes[i] = m.Len()
	}
	return sizes
}
