package fivewords

import (
	"context"
	"fmt"
	"iter"

	"crosswarped.com/fivewords/internal"
	"crosswarped.com/fivewords/pkg/primitives"
)

// NumWords is the number of words in every Combination a Finder produces.
const NumWords = internal.DefaultNumWords

// Finder finds every combination of NumWords words, drawn from Words, whose letters are
// all distinct.
type Finder struct {
	Words   []string
	Workers int

	observer Observer

	// Do not access this field directly, use the search method instead.
	lazySearch *search
}

type FinderParams struct {
	// Workers is the number of concurrent depth-first walks. Values below 2 walk
	// sequentially, which also fixes the order combinations are produced in.
	Workers int

	// Observer receives progress reports. Defaults to NopObserver.
	Observer Observer
}

func CreateFinder(words []string, params FinderParams) *Finder {
	observer := params.Observer
	if observer == nil {
		observer = NopObserver{}
	}
	return &Finder{
		Words:    words,
		Workers:  params.Workers,
		observer: observer,
	}
}

// Stats summarises the structures built for a search.
type Stats struct {
	WordsRead    int   `json:"wordsRead"`
	InvalidWords int   `json:"invalidWords"`
	UniqueMasks  int   `json:"uniqueMasks"`
	LevelSizes   []int `json:"levelSizes"` // LevelSizes[k] is the number of keys at level k

	// Decompositions[k] is the number of (head, tail) pairs across all keys at level k.
	Decompositions []int `json:"decompositions"`
}

// search holds the read-only structures shared by every walk.
type search struct {
	index    *primitives.AnagramIndex
	levels   primitives.Levels
	numWords int
	invalid  []string
	stats    Stats
}

func (f *Finder) search(ctx context.Context) (*search, error) {
	if f.lazySearch != nil {
		return f.lazySearch, nil
	}
	if err := primitives.CheckMaskWidth(); err != nil {
		return nil, err
	}

	all := primitives.NewAnagramIndex(f.Words)
	invalid := all.Invalid()

	wordsRead := all.NumWords() + len(invalid)
	f.observer.WordsRead(ctx, wordsRead)
	if len(invalid) > 0 {
		f.observer.InvalidWords(ctx, invalid)
	}

	index := all.DropInvalid()
	f.observer.UniqueMasks(ctx, index.Len())

	numWords := NumWords
	levels, err := internal.BuildLevels(ctx, internal.LevelParams{
		Masks:    index.Masks(),
		NumWords: &numWords,
		OnLevel: func(level, size int) {
			f.observer.LevelBuilt(ctx, level, size)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("internal.BuildLevels: %w", err)
	}

	f.lazySearch = &search{
		index:    index,
		levels:   levels,
		numWords: numWords,
		invalid:  invalid,
		stats: Stats{
			WordsRead:    wordsRead,
			InvalidWords: len(invalid),
			UniqueMasks:  index.Len(),
			LevelSizes:   levels.Sizes(),

			Decompositions: levels.Decompositions(),
		},
	}
	return f.lazySearch, nil
}

// Prepare builds the anagram index and level maps without enumerating anything, reporting
// to the Observer as it goes. Combinations calls it implicitly.
func (f *Finder) Prepare(ctx context.Context) (Stats, error) {
	s, err := f.search(ctx)
	if err != nil {
		return Stats{}, err
	}
	return s.stats, nil
}

// InvalidWords returns the tokens that were excluded from the search. It is empty until
// Prepare or Combinations has run.
func (f *Finder) InvalidWords() []string {
	if f.lazySearch == nil {
		return nil
	}
	return f.lazySearch.invalid
}

// Combinations returns a sequence of every combination, each exactly once.
//
// A non-nil error is yielded at most once and ends the sequence. Errors wrapping
// ErrInvariant mean the search structures are inconsistent; context errors mean the search
// was cut short. A sequence that ends without an error is complete, even if it was empty.
func (f *Finder) Combinations(ctx context.Context) iter.Seq2[Combination, error] {
	return func(yield func(Combination, error) bool) {
		s, err := f.search(ctx)
		if err != nil {
			yield(Combination{}, err)
			return
		}

		if f.Workers > 1 {
			s.parallel(ctx, f.Workers, f.observer, yield)
			return
		}

		emit := func(c Combination, err error) bool {
			if !yield(c, err) {
				return false
			}
			if err == nil {
				f.observer.CombinationFound(ctx)
			}
			return true
		}
		for mask := range s.levels.Top().Keys() {
			if err := ctx.Err(); err != nil {
				yield(Combination{}, err)
				return
			}
			if !s.walk(mask, nil, emit) {
				return
			}
		}
	}
}

// All collects every combination. On error no combinations are returned.
func (f *Finder) All(ctx context.Context) ([]Combination, error) {
	var out []Combination
	for c, err := range f.Combinations(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// path is an immutable list of the words chosen so far, newest first. Branches of a walk
// share their common prefix.
type path struct {
	word   string
	parent *path
	depth  int
}

func (p *path) push(word string) *path {
	return &path{word: word, parent: p, depth: p.len() + 1}
}

func (p *path) len() int {
	if p == nil {
		return 0
	}
	return p.depth
}

// last returns the most recently chosen word, or "" for an empty path.
func (p *path) last() string {
	if p == nil {
		return ""
	}
	return p.word
}

func (p *path) combination() Combination {
	words := make([]string, p.len())
	for n := p; n != nil; n = n.parent {
		words[n.depth-1] = n.word
	}
	return Combination{words: words}
}

// walk emits every completion of prefix whose remaining words have the letters of mask.
//
// Words are only ever chosen in strictly increasing order, so each set of words is reached
// along exactly one path. It returns false once emit asks to stop or an invariant fails.
func (s *search) walk(mask primitives.LetterMask, prefix *path, emit func(Combination, error) bool) bool {
	level := s.numWords - prefix.len()
	if level == 0 {
		return emit(prefix.combination(), nil)
	}

	pairs, ok := s.levels[level].Lookup(mask)
	if !ok {
		emit(Combination{}, &InvariantError{Kind: LookupLevel, Level: level, Mask: mask})
		return false
	}

	last := prefix.last()
	for d := range pairs {
		words, ok := s.index.Words(d.Head)
		if !ok {
			emit(Combination{}, &InvariantError{Kind: LookupAnagramGroup, Level: level, Mask: d.Head})
			return false
		}
		for _, w := range words {
			if w <= last {
				continue
			}
			if !s.walk(d.Tail, prefix.push(w), emit) {
				return false
			}
		}
	}
	return true
}
