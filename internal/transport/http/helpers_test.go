package http

import (
	"context"
	"io"
	"time"

	"crossword-service/internal/app"
	"crossword-service/internal/crossword"
	"crossword-service/internal/domain"
	"crossword-service/internal/infra/memory"
	"github.com/charmbracelet/log"
)

type stubGenerator struct {
	questions []domain.Question
	err       error
}

func (g stubGenerator) Generate(context.Context, string, string) ([]domain.Question, error) {
	return g.questions, g.err
}

func newTestService(generator app.QuestionGenerator) *app.CrosswordService {
	questions := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(map[string]domain.QuestionSet{
		"set-1": {ID: "set-1", Title: "Geography", Questions: sampleQuestions()},
	}), time.Minute)
	return app.NewCrosswordService(memory.NewSessionStore(0), questions, app.Options{
		Generator: generator,
		Results:   memory.NewResultStore(),
		Logger:    log.New(io.Discard),
		NewRand:   func() crossword.Rand { return crossword.NewRand(11) },
	})
}

// words maps clue numbers to the answers sampleQuestions extracts to.
var words = map[int]string{1: "paris", 2: "lion"}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			Prompt:        "What is the capital of France?",
			Answers:       []string{"A. Berlin", "B. Madrid", "C. Paris", "D. Rome"},
			CorrectAnswer: "C. Paris",
			Difficulty:    domain.DifficultyEasy,
		},
		{
			Prompt:        "Which animal is called the king of the jungle?",
			Answers:       []string{"A. The lion", "B. The tiger", "C. The bear", "D. The wolf"},
			CorrectAnswer: "A. The lion",
			Difficulty:    domain.DifficultyEasy,
		},
	}
}

type cellMove struct {
	Row, Col int
	Value    string
}

// solution lists the moves that fill every clue of view correctly.
func solution(view domain.GameView) []cellMove {
	var moves []cellMove
	for _, clue := range view.Clues {
		for i, r := range words[clue.Number] {
			m := cellMove{Row: clue.Row, Col: clue.Col + i, Value: string(r)}
			if clue.Direction == domain.Vertical {
				m.Row, m.Col = clue.Row+i, clue.Col
			}
			moves = append(moves, m)
		}
	}
	return moves
}
