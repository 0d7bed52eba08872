package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"crossword-service/internal/app"
	"crossword-service/internal/domain"
	"github.com/charmbracelet/log"
)

const maxBodySize = 1 << 20

// Limits configures the per-IP rate limits of the expensive or chatty endpoints.
type Limits struct {
	GeneratePerMinute int
	MovesPerSecond    int
}

// DefaultLimits matches a single player typing quickly and generating a few crosswords.
var DefaultLimits = Limits{GeneratePerMinute: 5, MovesPerSecond: 30}

// Server exposes the crossword use cases over REST and websockets.
type Server struct {
	mux        *http.ServeMux
	service    *app.CrosswordService
	ws         *WSHandler
	logger     *log.Logger
	generateRL *rateLimiter
	moveRL     *rateLimiter
}

func NewServer(service *app.CrosswordService, limits Limits, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if limits.GeneratePerMinute <= 0 {
		limits.GeneratePerMinute = DefaultLimits.GeneratePerMinute
	}
	if limits.MovesPerSecond <= 0 {
		limits.MovesPerSecond = DefaultLimits.MovesPerSecond
	}
	s := &Server{
		mux:        http.NewServeMux(),
		service:    service,
		ws:         NewWSHandler(service, logger),
		logger:     logger,
		generateRL: newRateLimiter(limits.GeneratePerMinute, time.Minute),
		moveRL:     newRateLimiter(limits.MovesPerSecond, time.Second),
	}
	s.ws.moves = s.moveRL
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	s.mux.HandleFunc("GET /ws", s.ws.ServeWS)

	s.mux.HandleFunc("POST /api/games", s.handleCreateGame)
	s.mux.HandleFunc("POST /api/games/generate", s.handleGenerateGame)
	s.mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
	s.mux.HandleFunc("DELETE /api/games/{id}", s.handleEndGame)
	s.mux.HandleFunc("POST /api/games/{id}/cells", s.handleSetCell)
	s.mux.HandleFunc("POST /api/games/{id}/submit", s.handleSubmit)
	s.mux.HandleFunc("POST /api/games/{id}/reset", s.handleReset)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
	s.mux.ServeHTTP(w, r)
}

// SweepLimiters drops idle rate limiter buckets every minute until ctx is done.
func (s *Server) SweepLimiters(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.generateRL.sweep(5 * time.Minute)
			s.moveRL.sweep(5 * time.Minute)
		}
	}
}

// POST /api/games: start from a stored set or from inline questions.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SetID     string            `json:"setId"`
		PlayerID  string            `json:"playerId"`
		Questions []domain.Question `json:"questions"`
	}
	if !decode(w, r, &req) {
		return
	}

	var (
		view domain.GameView
		err  error
	)
	switch {
	case req.SetID != "":
		view, err = s.service.StartFromSet(r.Context(), req.SetID, req.PlayerID)
	case len(req.Questions) > 0:
		view, err = s.service.Start(r.Context(), req.Questions, req.PlayerID)
	default:
		jsonError(w, "setId or questions required", http.StatusBadRequest)
		return
	}
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// POST /api/games/generate: turn study text into questions, then start a game.
func (s *Server) handleGenerateGame(w http.ResponseWriter, r *http.Request) {
	if !s.generateRL.allow(clientIP(r.RemoteAddr)) {
		jsonError(w, "too many requests, retry later", http.StatusTooManyRequests)
		return
	}

	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		PlayerID string `json:"playerId"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Title == "" {
		req.Title = "Crossword"
	}

	view, err := s.service.Generate(r.Context(), req.Title, req.Content, req.PlayerID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.View(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSetCell(w http.ResponseWriter, r *http.Request) {
	if !s.moveRL.allow(clientIP(r.RemoteAddr)) {
		jsonError(w, "too many requests, retry later", http.StatusTooManyRequests)
		return
	}

	var req struct {
		Row   int    `json:"row"`
		Col   int    `json:"col"`
		Value string `json:"value"`
	}
	if !decode(w, r, &req) {
		return
	}

	view, err := s.service.SetCell(r.Context(), r.PathValue("id"), req.Row, req.Col, req.Value)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	res, view, err := s.service.Submit(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Result domain.SubmitResult `json:"result"`
		Game   domain.GameView     `json:"game"`
	}{res, view})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.Reset(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	if err := s.service.End(r.Context(), r.PathValue("id")); err != nil {
		s.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) serviceError(w http.ResponseWriter, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	jsonError(w, msg, status)
}

// statusFor maps service errors to an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrGenerationFailed):
		return http.StatusBadGateway, domain.ErrGenerationFailed.Error()
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrQuestionSetNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrInvalidQuestion),
		errors.Is(err, domain.ErrNoPlayableWords),
		errors.Is(err, domain.ErrCellOutOfBounds),
		errors.Is(err, domain.ErrCellNotPlayable):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrGameCompleted):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrGeneratorUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
