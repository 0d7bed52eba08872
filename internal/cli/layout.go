package cli

import (
	"fmt"
	"math/rand/v2"

	"crossword-service/internal/crossword"
	"github.com/spf13/cobra"
)

// NewLayoutCmd lays out a question file offline and prints the grid.
func NewLayoutCmd() *cobra.Command {
	var (
		file    string
		seed    uint64
		size    int
		numeric bool
		reveal  bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Lay out a question file as a crossword and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			set, err := readQuestionFile(file)
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = rand.Uint64()
			}
			mode := crossword.LastContentWord
			if numeric {
				mode = crossword.PreferNumeric
			}

			l, err := crossword.Build(set.Questions, mode, crossword.Options{
				GridSize: size,
				Rand:     crossword.NewRand(seed),
				Logger:   logger,
			})
			if err != nil {
				return err
			}
			logger.Info("layout generated", "seed", seed, "placed", len(l.Placements), "dropped", len(l.Dropped))
			fmt.Fprintln(cmd.OutOrStdout(), renderLayout(l, reveal))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with questions (array or question set)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().IntVar(&size, "size", crossword.DefaultGridSize, "grid size")
	cmd.Flags().BoolVar(&numeric, "numeric", false, "prefer numeric tokens as answers")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print the answers in the grid")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
