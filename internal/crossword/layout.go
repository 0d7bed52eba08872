package crossword

import (
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"

	"crossword-service/internal/domain"
)

const (
	// DefaultGridSize is the side length of the square grid.
	DefaultGridSize = 15
	// IntersectAttempts bounds the search for a placement crossing an existing word.
	IntersectAttempts = 500
	// FallbackAttempts bounds the search for a free placement.
	FallbackAttempts = 100
)

// Rand is the source of randomness used for placement. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a seeded PCG source so layouts can be reproduced.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Options configures Generate. Zero values fall back to the package defaults.
type Options struct {
	GridSize          int
	IntersectAttempts int
	FallbackAttempts  int
	Rand              Rand
	Logger            *log.Logger
}

func (o Options) withDefaults() Options {
	if o.GridSize <= 0 {
		o.GridSize = DefaultGridSize
	}
	if o.IntersectAttempts <= 0 {
		o.IntersectAttempts = IntersectAttempts
	}
	if o.FallbackAttempts <= 0 {
		o.FallbackAttempts = FallbackAttempts
	}
	if o.Rand == nil {
		o.Rand = NewRand(rand.Uint64())
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// Layout is the result of placing a list of words on a grid.
type Layout struct {
	Grid       *domain.Grid
	Placements []domain.Placement
	Dropped    []domain.ExtractedWord
}

// Generate places words in input order. Each word after the first is anchored on a random
// already-placed word through a shared letter; when that fails, or for the first word, a
// free random placement is tried. Words that fit nowhere are dropped and logged.
//
// A word's index in words is its owner index in the grid, and index+1 is its clue number.
func Generate(words []domain.ExtractedWord, opts Options) Layout {
	opts = opts.withDefaults()
	l := Layout{Grid: domain.NewGrid(opts.GridSize)}

	for i, w := range words {
		letters := []rune(w.Word)
		if len(letters) == 0 {
			opts.Logger.Warn("skipping empty word", "index", i)
			l.Dropped = append(l.Dropped, w)
			continue
		}

		p, ok := l.intersect(letters, opts)
		if !ok {
			p, ok = l.fallback(letters, opts)
		}
		if !ok {
			opts.Logger.Warn("failed to place word", "word", w.Word, "index", i)
			l.Dropped = append(l.Dropped, w)
			continue
		}

		p.Index = i
		p.Number = i + 1
		p.Question = w.Prompt
		p.ClueText = w.ClueText
		l.commit(letters, p)
		l.Placements = append(l.Placements, p)
	}

	opts.Logger.Debug("crossword generated", "words", len(words), "placed", len(l.Placements), "dropped", len(l.Dropped))
	return l
}

// Build extracts words from questions and lays them out. Questions whose answer yields no
// word are skipped.
func Build(questions []domain.Question, mode ExtractMode, opts Options) (Layout, error) {
	opts = opts.withDefaults()

	words := make([]domain.ExtractedWord, 0, len(questions))
	for _, q := range questions {
		w, err := Extract(q, mode)
		if err != nil {
			opts.Logger.Warn("skipping question", "question", q.Prompt, "err", err)
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return Layout{}, domain.ErrNoPlayableWords
	}
	return Generate(words, opts), nil
}

func (l *Layout) intersect(letters []rune, opts Options) (domain.Placement, bool) {
	if len(l.Placements) == 0 {
		return domain.Placement{}, false
	}

	for range opts.IntersectAttempts {
		prev := l.Placements[opts.Rand.IntN(len(l.Placements))]
		curIdx, prevIdx, ok := sharedLetter(letters, []rune(prev.Word))
		if !ok {
			continue
		}

		p := domain.Placement{Word: string(letters), Direction: prev.Direction.Opposite()}
		if p.Direction == domain.Vertical {
			p.Row, p.Col = prev.Row-curIdx, prev.Col+prevIdx
		} else {
			p.Row, p.Col = prev.Row+prevIdx, prev.Col-curIdx
		}
		if l.canPlace(letters, p) {
			return p, true
		}
	}
	return domain.Placement{}, false
}

func (l *Layout) fallback(letters []rune, opts Options) (domain.Placement, bool) {
	size := l.Grid.Size

	for range opts.FallbackAttempts {
		p := domain.Placement{Word: string(letters), Direction: domain.Horizontal}
		if opts.Rand.IntN(2) == 1 {
			p.Direction = domain.Vertical
		}

		maxRow, maxCol := size-1, size-1
		if p.Direction == domain.Horizontal {
			maxCol = size - len(letters)
		} else {
			maxRow = size - len(letters)
		}
		if maxRow < 0 || maxCol < 0 {
			continue
		}

		p.Row = opts.Rand.IntN(maxRow + 1)
		p.Col = opts.Rand.IntN(maxCol + 1)
		if l.canPlace(letters, p) {
			return p, true
		}
	}
	return domain.Placement{}, false
}

// canPlace reports whether every cell of the span is inside the grid and either empty or
// already holding the required letter.
func (l *Layout) canPlace(letters []rune, p domain.Placement) bool {
	for i, pos := range p.Span() {
		if !l.Grid.InBounds(pos.Row, pos.Col) {
			return false
		}
		if cell := l.Grid.Cells[pos.Row][pos.Col]; cell.Letter != "" && cell.Letter != string(letters[i]) {
			return false
		}
	}
	return true
}

// commit writes the word into the grid. Crossing words share cells: owners are merged and
// numbering set by an earlier word is kept.
func (l *Layout) commit(letters []rune, p domain.Placement) {
	for i, pos := range p.Span() {
		cell := &l.Grid.Cells[pos.Row][pos.Col]
		cell.Letter = string(letters[i])
		if !slices.Contains(cell.Owners, p.Index) {
			cell.Owners = append(cell.Owners, p.Index)
		}
		if i == 0 && cell.Number == 0 {
			cell.Number = p.Number
			cell.Start = true
			cell.Direction = p.Direction
		}
	}
}

// sharedLetter scans word in order and returns the first letter that also occurs anywhere
// in other, with its index in each word.
func sharedLetter(word, other []rune) (wordIdx, otherIdx int, ok bool) {
	for i, r := range word {
		if j := slices.Index(other, r); j >= 0 {
			return i, j, true
		}
	}
	return 0, 0, false
}
