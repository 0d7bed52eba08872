package crossword

import (
	"strings"

	"crossword-service/internal/domain"
)

const (
	// DefaultMaxAttempts is the number of submits a player gets.
	DefaultMaxAttempts = 3
	// DefaultMaxXP is the reward for a word solved on the first attempt.
	DefaultMaxXP = 20
)

// Reward returns the score for a word first solved on the given attempt: full reward on
// the first, 75% on the second, 50% on the third and nothing afterwards (floored).
func Reward(attempt, maxXP int) int {
	switch attempt {
	case 1:
		return maxXP
	case 2:
		return maxXP * 3 / 4
	case 3:
		return maxXP / 2
	default:
		return 0
	}
}

// Rules are the scoring parameters of a game.
type Rules struct {
	MaxAttempts int
	MaxXP       int
}

func (r Rules) withDefaults() Rules {
	if r.MaxAttempts <= 0 {
		r.MaxAttempts = DefaultMaxAttempts
	}
	if r.MaxXP <= 0 {
		r.MaxXP = DefaultMaxXP
	}
	return r
}

// Game is the attempt-scoring state of one crossword. It is not safe for concurrent use.
type Game struct {
	Grid         *domain.Grid
	Placements   []domain.Placement
	AttemptsUsed int
	MaxAttempts  int
	TotalScore   int
	Completed    bool

	maxXP int
}

// NewGame starts a game on a generated layout.
func NewGame(l Layout, rules Rules) *Game {
	rules = rules.withDefaults()
	return &Game{
		Grid:        l.Grid,
		Placements:  l.Placements,
		MaxAttempts: rules.MaxAttempts,
		maxXP:       rules.MaxXP,
	}
}

// SetInput records the player's letter for a cell. Only the last character of value is
// kept, lower-cased; an empty value clears the cell.
func (g *Game) SetInput(row, col int, value string) error {
	if g.Completed {
		return domain.ErrGameCompleted
	}
	if !g.Grid.InBounds(row, col) {
		return domain.ErrCellOutOfBounds
	}
	cell := &g.Grid.Cells[row][col]
	if !cell.Playable() {
		return domain.ErrCellNotPlayable
	}

	runes := []rune(strings.ToLower(strings.TrimSpace(value)))
	if len(runes) == 0 {
		cell.Input = ""
		return nil
	}
	cell.Input = string(runes[len(runes)-1])
	return nil
}

// Submit checks every placement against the player's input. Words filled correctly for
// the first time are scored with the reward of the current attempt. The game completes
// when all words are correct or the attempts run out.
func (g *Game) Submit() (domain.SubmitResult, error) {
	if g.Completed {
		return domain.SubmitResult{}, domain.ErrGameCompleted
	}

	g.AttemptsUsed++
	res := domain.SubmitResult{Attempt: g.AttemptsUsed, Solved: []int{}}

	allCorrect := true
	for i := range g.Placements {
		p := &g.Placements[i]
		if !g.filled(*p) {
			allCorrect = false
			continue
		}
		if p.Solved() {
			continue
		}
		p.SolvedOnAttempt = g.AttemptsUsed
		reward := Reward(g.AttemptsUsed, g.maxXP)
		g.TotalScore += reward
		res.Awarded += reward
		res.Solved = append(res.Solved, p.Index)
	}

	if allCorrect || g.AttemptsUsed >= g.MaxAttempts {
		g.Completed = true
	}
	res.TotalScore = g.TotalScore
	res.Completed = g.Completed
	return res, nil
}

// SolvedCount returns the number of placements solved so far.
func (g *Game) SolvedCount() int {
	n := 0
	for _, p := range g.Placements {
		if p.Solved() {
			n++
		}
	}
	return n
}

func (g *Game) filled(p domain.Placement) bool {
	letters := []rune(p.Word)
	for i, pos := range p.Span() {
		if g.Grid.Cells[pos.Row][pos.Col].Input != string(letters[i]) {
			return false
		}
	}
	return true
}
