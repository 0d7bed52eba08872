package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crossword-service/internal/app"
	"crossword-service/internal/config"
	"crossword-service/internal/crossword"
	"crossword-service/internal/infra/gemini"
	"crossword-service/internal/infra/memory"
	"crossword-service/internal/infra/postgres"
	infraredis "crossword-service/internal/infra/redis"
	transport "crossword-service/internal/transport/http"
	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the crossword server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyLevel(logger, cfg.Log.Level)

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg.Postgres.URL); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis not reachable", "addr", cfg.Redis.Addr, "err", err)
		}
	}
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(sampleQuestionSets())
	var results app.ResultRecorder = memory.NewResultStore()
	if pool != nil {
		loader = postgres.NewQuestionStore(pool)
		results = postgres.NewResultRecorder(pool)
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var questions app.QuestionRepository
	if redisClient != nil {
		questions = infraredis.NewQuestionRepository(redisClient, loader, questionTTL, logger)
	} else {
		questions = memory.NewQuestionRepository(loader, questionTTL)
	}

	var sessions interface {
		app.SessionRepository
		sessionPruner
	}
	if redisClient != nil {
		sessions = infraredis.NewSessionStore(redisClient, sessionTTL)
	} else {
		sessions = memory.NewSessionStore(sessionTTL)
	}
	go pruneSessions(ctx, sessions, sessionTTL, logger)

	opts := app.Options{
		GridSize: cfg.Crossword.GridSize,
		Rules: crossword.Rules{
			MaxAttempts: cfg.Crossword.MaxAttempts,
			MaxXP:       cfg.Crossword.MaxXP,
		},
		Results: results,
		Logger:  logger,
	}
	if cfg.Crossword.NumericHints {
		opts.Mode = crossword.PreferNumeric
	}

	project := cfg.Gemini.Project
	if project == "" {
		project = os.Getenv("GCP_PROJECT_ID")
	}
	if project != "" {
		generator, err := gemini.NewGenerator(ctx, gemini.Config{
			Project: project,
			Region:  cfg.Gemini.Region,
			Model:   cfg.Gemini.Model,
		}, logger)
		if err != nil {
			return err
		}
		opts.Generator = generator
	} else {
		logger.Warn("gemini project not configured, question generation disabled")
	}

	service := app.NewCrosswordService(sessions, questions, opts)
	api := transport.NewServer(service, transport.Limits{
		GeneratePerMinute: cfg.Server.GeneratePerMinute,
		MovesPerSecond:    cfg.Server.MovesPerSecond,
	}, logger)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go api.SweepLimiters(sweepCtx)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      api,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("starting crossword service", "addr", server.Addr,
			"redis", redisClient != nil, "postgres", pool != nil, "generator", opts.Generator != nil)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

type sessionPruner interface {
	Prune() []string
}

// pruneSessions evicts idle games every half TTL until ctx is done. A non-positive TTL
// keeps games forever, so there is nothing to prune.
func pruneSessions(ctx context.Context, store sessionPruner, ttl time.Duration, logger *log.Logger) {
	if ttl <= 0 {
		return
	}
	interval := ttl / 2
	if interval <= 0 {
		interval = ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ids := store.Prune(); len(ids) > 0 {
				logger.Debug("evicted idle games", "count", len(ids))
			}
		}
	}
}
