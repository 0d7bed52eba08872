package app

import (
	"sync"
	"time"

	"crossword-service/internal/crossword"
	"crossword-service/internal/domain"
)

// Session is an in-memory crossword game owned by one player.
type Session struct {
	id       string
	playerID string
	setID    string
	now      func() time.Time
	build    func() (crossword.Layout, error)
	rules    crossword.Rules

	mu          sync.RWMutex
	game        *crossword.Game
	round       int
	recorded    bool
	closed      bool
	subscribers map[chan domain.GameView]struct{}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id, playerID string, layout crossword.Layout, rules crossword.Rules) *Session {
	s := newSessionWithClock(id, playerID, "", nil, rules, time.Now)
	s.game = crossword.NewGame(layout, rules)
	return s
}

func newSession(id, playerID, setID string, build func() (crossword.Layout, error), rules crossword.Rules, now func() time.Time) (*Session, error) {
	layout, err := build()
	if err != nil {
		return nil, err
	}
	s := newSessionWithClock(id, playerID, setID, build, rules, now)
	s.game = crossword.NewGame(layout, rules)
	return s, nil
}

// newSessionWithClock allows deterministic timestamps in tests.
func newSessionWithClock(id, playerID, setID string, build func() (crossword.Layout, error), rules crossword.Rules, now func() time.Time) *Session {
	return &Session{
		id:          id,
		playerID:    playerID,
		setID:       setID,
		now:         now,
		build:       build,
		rules:       rules,
		subscribers: make(map[chan domain.GameView]struct{}),
	}
}

// ID returns the game identifier.
func (s *Session) ID() string {
	return s.id
}

// View returns the redacted player-facing state.
func (s *Session) View() domain.GameView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked()
}

func (s *Session) setCell(row, col int, value string) (domain.GameView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.SetInput(row, col, value); err != nil {
		return domain.GameView{}, err
	}
	return s.broadcastLocked(), nil
}

// submit applies one attempt. The returned result is non-nil only on the transition that
// completes the game.
func (s *Session) submit() (domain.SubmitResult, domain.GameView, *domain.GameResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.game.Submit()
	if err != nil {
		return domain.SubmitResult{}, domain.GameView{}, nil, err
	}

	var result *domain.GameResult
	if res.Completed && !s.recorded {
		s.recorded = true
		result = &domain.GameResult{
			GameID:       s.id,
			Round:        s.round,
			PlayerID:     s.playerID,
			SetID:        s.setID,
			TotalScore:   s.game.TotalScore,
			AttemptsUsed: s.game.AttemptsUsed,
			WordsPlaced:  len(s.game.Placements),
			WordsSolved:  s.game.SolvedCount(),
			CompletedAt:  s.now(),
		}
	}
	return res, s.broadcastLocked(), result, nil
}

func (s *Session) reset() (domain.GameView, error) {
	if s.build == nil {
		return domain.GameView{}, domain.ErrNoPlayableWords
	}
	layout, err := s.build()
	if err != nil {
		return domain.GameView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.game = crossword.NewGame(layout, s.rules)
	s.round++
	s.recorded = false
	return s.broadcastLocked(), nil
}

func (s *Session) subscribe() (<-chan domain.GameView, func()) {
	ch := make(chan domain.GameView, 8)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	// The buffer is empty so this never blocks; holding the lock keeps Close from racing it.
	ch <- s.viewLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Close ends every subscription. Later subscribers get a closed channel.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) broadcastLocked() domain.GameView {
	view := s.viewLocked()
	for ch := range s.subscribers {
		select {
		case ch <- view:
		default:
			// Drop the stale view so a slow subscriber always ends on the latest one.
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
	return view
}

func (s *Session) viewLocked() domain.GameView {
	g := s.game
	cells := make([][]domain.CellView, len(g.Grid.Cells))
	for r, row := range g.Grid.Cells {
		cells[r] = make([]domain.CellView, len(row))
		for c, cell := range row {
			cells[r][c] = domain.CellView{
				Playable:  cell.Playable(),
				Input:     cell.Input,
				Number:    cell.Number,
				Start:     cell.Start,
				Direction: cell.Direction,
			}
		}
	}

	clues := make([]domain.ClueView, 0, len(g.Placements))
	for _, p := range g.Placements {
		clue := domain.ClueView{
			Number:          p.Number,
			Direction:       p.Direction,
			Row:             p.Row,
			Col:             p.Col,
			Length:          p.Length(),
			Question:        p.Question,
			ClueText:        p.ClueText,
			SolvedOnAttempt: p.SolvedOnAttempt,
		}
		if p.Solved() || g.Completed {
			clue.Answer = p.Word
		}
		clues = append(clues, clue)
	}

	return domain.GameView{
		GameID:       s.id,
		PlayerID:     s.playerID,
		SetID:        s.setID,
		GridSize:     g.Grid.Size,
		Cells:        cells,
		Clues:        clues,
		AttemptsUsed: g.AttemptsUsed,
		MaxAttempts:  g.MaxAttempts,
		TotalScore:   g.TotalScore,
		Completed:    g.Completed,
		UpdatedAt:    s.now(),
	}
}
