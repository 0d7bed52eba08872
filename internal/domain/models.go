package domain

import (
	"fmt"
	"time"
)

// Difficulty is the upstream generator's difficulty label.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
)

// AnswerCount is the number of labeled options every question carries.
const AnswerCount = 4

// Question is an MCQ question as produced by the question generator.
type Question struct {
	Prompt        string     `json:"question"`
	Answers       []string   `json:"answers"`
	CorrectAnswer string     `json:"correct_answer"`
	Difficulty    Difficulty `json:"difficulty"`
}

// Validate checks the question against the generator schema.
func (q Question) Validate() error {
	switch {
	case q.Prompt == "":
		return fmt.Errorf("%w: empty prompt", ErrInvalidQuestion)
	case len(q.Answers) != AnswerCount:
		return fmt.Errorf("%w: expected %d answers, got %d", ErrInvalidQuestion, AnswerCount, len(q.Answers))
	case q.CorrectAnswer == "":
		return fmt.Errorf("%w: empty correct answer", ErrInvalidQuestion)
	case q.Difficulty != DifficultyEasy && q.Difficulty != DifficultyMedium:
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidQuestion, q.Difficulty)
	}
	return nil
}

// QuestionSet is a stored group of questions a crossword is built from.
type QuestionSet struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ExtractedWord is the guessable token of a correct answer plus the clue text preceding it.
type ExtractedWord struct {
	Word     string `json:"word"`
	ClueText string `json:"clueText"`
	Prompt   string `json:"prompt"`
}

// Direction is the orientation of a placed word.
type Direction string

const (
	Horizontal Direction = "horizontal"
	Vertical   Direction = "vertical"
)

// Opposite returns the perpendicular direction.
func (d Direction) Opposite() Direction {
	if d == Horizontal {
		return Vertical
	}
	return Horizontal
}

// Position is a (row, col) grid coordinate.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Cell is one square of the crossword grid.
type Cell struct {
	Letter    string    `json:"letter,omitempty"`
	Input     string    `json:"input,omitempty"`
	Owners    []int     `json:"owners,omitempty"`
	Start     bool      `json:"start,omitempty"`
	Number    int       `json:"number,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// Playable reports whether any placed word passes through the cell.
func (c Cell) Playable() bool {
	return len(c.Owners) > 0
}

// Grid is a square matrix of cells.
type Grid struct {
	Size  int      `json:"size"`
	Cells [][]Cell `json:"cells"`
}

// NewGrid returns an empty size×size grid.
func NewGrid(size int) *Grid {
	cells := make([][]Cell, size)
	for i := range cells {
		cells[i] = make([]Cell, size)
	}
	return &Grid{Size: size, Cells: cells}
}

// InBounds reports whether (row, col) lies inside the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.Size && col >= 0 && col < g.Size
}

// Placement is a word committed to the grid.
type Placement struct {
	Index           int       `json:"index"`
	Number          int       `json:"number"`
	Word            string    `json:"word"`
	Row             int       `json:"row"`
	Col             int       `json:"col"`
	Direction       Direction `json:"direction"`
	Question        string    `json:"question"`
	ClueText        string    `json:"clueText"`
	SolvedOnAttempt int       `json:"solvedOnAttempt,omitempty"`
}

// Solved reports whether the word has been filled correctly on some attempt.
func (p Placement) Solved() bool {
	return p.SolvedOnAttempt > 0
}

// Length returns the number of letters in the word.
func (p Placement) Length() int {
	return len([]rune(p.Word))
}

// Span returns the cells covered by the placement, in word order.
func (p Placement) Span() []Position {
	n := p.Length()
	span := make([]Position, n)
	for i := range n {
		if p.Direction == Horizontal {
			span[i] = Position{Row: p.Row, Col: p.Col + i}
		} else {
			span[i] = Position{Row: p.Row + i, Col: p.Col}
		}
	}
	return span
}

// GameView is the player-facing snapshot of a game. Expected letters are withheld until a
// word is solved or the game is over.
type GameView struct {
	GameID       string       `json:"gameId"`
	PlayerID     string       `json:"playerId,omitempty"`
	SetID        string       `json:"setId,omitempty"`
	GridSize     int          `json:"gridSize"`
	Cells        [][]CellView `json:"cells"`
	Clues        []ClueView   `json:"clues"`
	AttemptsUsed int          `json:"attemptsUsed"`
	MaxAttempts  int          `json:"maxAttempts"`
	TotalScore   int          `json:"totalScore"`
	Completed    bool         `json:"completed"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// CellView is a redacted cell.
type CellView struct {
	Playable  bool      `json:"playable,omitempty"`
	Input     string    `json:"input,omitempty"`
	Number    int       `json:"number,omitempty"`
	Start     bool      `json:"start,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// ClueView describes one placed word to the player.
type ClueView struct {
	Number          int       `json:"number"`
	Direction       Direction `json:"direction"`
	Row             int       `json:"row"`
	Col             int       `json:"col"`
	Length          int       `json:"length"`
	Question        string    `json:"question"`
	ClueText        string    `json:"clueText"`
	Answer          string    `json:"answer,omitempty"`
	SolvedOnAttempt int       `json:"solvedOnAttempt,omitempty"`
}

// SubmitResult summarizes one submit transition.
type SubmitResult struct {
	Attempt    int   `json:"attempt"`
	Solved     []int `json:"solved"`
	Awarded    int   `json:"awarded"`
	TotalScore int   `json:"totalScore"`
	Completed  bool  `json:"completed"`
}

// GameResult is the persisted outcome of a completed game.
// Round counts resets of the game; each round is recorded as a separate result.
type GameResult struct {
	GameID       string    `json:"gameId"`
	Round        int       `json:"round"`
	PlayerID     string    `json:"playerId"`
	SetID        string    `json:"setId,omitempty"`
	TotalScore   int       `json:"totalScore"`
	AttemptsUsed int       `json:"attemptsUsed"`
	WordsPlaced  int       `json:"wordsPlaced"`
	WordsSolved  int       `json:"wordsSolved"`
	CompletedAt  time.Time `json:"completedAt"`
}
