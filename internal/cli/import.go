package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"crossword-service/internal/config"
	"crossword-service/internal/infra/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewImportCmd stores a question file as a question set in Postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	var (
		file  string
		id    string
		title string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a question file into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := runMigrations(ctx, cfg.Postgres.URL); err != nil {
				return err
			}

			set, err := readQuestionFile(file)
			if err != nil {
				return err
			}
			if id != "" {
				set.ID = id
			}
			if set.ID == "" {
				set.ID = uuid.NewString()
			}
			if title != "" {
				set.Title = title
			}
			if set.Title == "" {
				set.Title = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			}

			pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			start := time.Now()
			if err := postgres.NewQuestionStore(pool).SaveQuestionSet(ctx, set); err != nil {
				return err
			}
			logger.Info("question set imported", "id", set.ID, "questions", len(set.Questions),
				"took", time.Since(start).Round(time.Millisecond))
			fmt.Fprintln(cmd.OutOrStdout(), set.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with questions (array or question set)")
	cmd.Flags().StringVar(&id, "id", "", "question set id (default: from file or random)")
	cmd.Flags().StringVar(&title, "title", "", "question set title (default: from file or file name)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
