package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"crossword-service/internal/crossword"
	"crossword-service/internal/domain"
)

// SessionRepository abstracts how game sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(gameID string) (*Session, bool)
	Delete(gameID string)
}

// QuestionRepository loads question sets (from cache/backing store).
type QuestionRepository interface {
	GetQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error)
}

// QuestionGenerator turns study text into quiz questions.
type QuestionGenerator interface {
	Generate(ctx context.Context, title, text string) ([]domain.Question, error)
}

// ResultRecorder persists the outcome of completed games.
type ResultRecorder interface {
	Record(ctx context.Context, result domain.GameResult) error
}

// Options configures a CrosswordService. Zero values use the crossword package defaults.
type Options struct {
	GridSize  int
	Mode      crossword.ExtractMode
	Rules     crossword.Rules
	Generator QuestionGenerator
	Results   ResultRecorder
	Logger    *log.Logger

	// NewRand seeds each layout; tests replace it for reproducible grids.
	NewRand func() crossword.Rand
	Now     func() time.Time
}

// CrosswordService contains the crossword game use cases.
type CrosswordService struct {
	sessions  SessionRepository
	questions QuestionRepository
	generator QuestionGenerator
	results   ResultRecorder
	logger    *log.Logger

	gridSize int
	mode     crossword.ExtractMode
	rules    crossword.Rules
	newRand  func() crossword.Rand
	now      func() time.Time
}

func NewCrosswordService(sessions SessionRepository, questions QuestionRepository, opts Options) *CrosswordService {
	s := &CrosswordService{
		sessions:  sessions,
		questions: questions,
		generator: opts.Generator,
		results:   opts.Results,
		logger:    opts.Logger,
		gridSize:  opts.GridSize,
		mode:      opts.Mode,
		rules:     opts.Rules,
		newRand:   opts.NewRand,
		now:       opts.Now,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.newRand == nil {
		s.newRand = func() crossword.Rand { return crossword.NewRand(rand.Uint64()) }
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Start builds a crossword from inline questions and opens a game session for it.
func (s *CrosswordService) Start(ctx context.Context, questions []domain.Question, playerID string) (domain.GameView, error) {
	return s.start(ctx, questions, "", playerID)
}

// StartFromSet builds a crossword from a stored question set.
func (s *CrosswordService) StartFromSet(ctx context.Context, setID, playerID string) (domain.GameView, error) {
	set, err := s.questions.GetQuestionSet(ctx, setID)
	if err != nil {
		return domain.GameView{}, err
	}
	return s.start(ctx, set.Questions, setID, playerID)
}

// Generate asks the question generator for questions about text and starts a game on them.
func (s *CrosswordService) Generate(ctx context.Context, title, text, playerID string) (domain.GameView, error) {
	if s.generator == nil {
		return domain.GameView{}, domain.ErrGeneratorUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return domain.GameView{}, fmt.Errorf("%w: content is required", domain.ErrInvalidQuestion)
	}
	questions, err := s.generator.Generate(ctx, title, text)
	if err != nil {
		return domain.GameView{}, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}
	view, err := s.start(ctx, questions, "", playerID)
	if err != nil {
		return domain.GameView{}, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}
	return view, nil
}

func (s *CrosswordService) start(_ context.Context, questions []domain.Question, setID, playerID string) (domain.GameView, error) {
	if len(questions) == 0 {
		return domain.GameView{}, fmt.Errorf("%w: no questions", domain.ErrInvalidQuestion)
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return domain.GameView{}, fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	build := func() (crossword.Layout, error) {
		return crossword.Build(questions, s.mode, crossword.Options{
			GridSize: s.gridSize,
			Rand:     s.newRand(),
			Logger:   s.logger,
		})
	}

	session, err := newSession(uuid.NewString(), playerID, setID, build, s.rules, s.now)
	if err != nil {
		return domain.GameView{}, err
	}
	s.sessions.Put(session)

	view := session.View()
	s.logger.Info("game started", "game", session.id, "player", playerID, "words", len(view.Clues), "questions", len(questions))
	return view, nil
}

// View returns the current player-facing state of a game.
func (s *CrosswordService) View(_ context.Context, gameID string) (domain.GameView, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.GameView{}, domain.ErrSessionNotFound
	}
	return session.View(), nil
}

// SetCell records the player's letter for one cell.
func (s *CrosswordService) SetCell(_ context.Context, gameID string, row, col int, value string) (domain.GameView, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.GameView{}, domain.ErrSessionNotFound
	}
	return session.setCell(row, col, value)
}

// Submit scores the current grid as the next attempt. When the game completes, its result
// is recorded.
func (s *CrosswordService) Submit(ctx context.Context, gameID string) (domain.SubmitResult, domain.GameView, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.SubmitResult{}, domain.GameView{}, domain.ErrSessionNotFound
	}

	res, view, result, err := session.submit()
	if err != nil {
		return domain.SubmitResult{}, domain.GameView{}, err
	}

	s.logger.Debug("attempt submitted", "game", gameID, "attempt", res.Attempt, "awarded", res.Awarded, "total", res.TotalScore)
	if result != nil {
		s.logger.Info("game completed", "game", gameID, "score", result.TotalScore, "attempts", result.AttemptsUsed, "solved", result.WordsSolved)
		if s.results != nil {
			if err := s.results.Record(ctx, *result); err != nil {
				s.logger.Error("record result", "game", gameID, "err", err)
			}
		}
	}
	return res, view, nil
}

// Reset lays the same questions out again and starts over with no attempts or score.
func (s *CrosswordService) Reset(_ context.Context, gameID string) (domain.GameView, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.GameView{}, domain.ErrSessionNotFound
	}
	return session.reset()
}

// Subscribe returns a channel that receives the game view after every change.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *CrosswordService) Subscribe(_ context.Context, gameID string) (<-chan domain.GameView, func(), error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// End drops the game session and closes its subscriptions.
func (s *CrosswordService) End(_ context.Context, gameID string) error {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.sessions.Delete(gameID)
	session.Close()
	return nil
}
