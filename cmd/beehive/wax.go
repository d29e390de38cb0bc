package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/japaniel/beehive/pkg/enrich"
	"github.com/japaniel/beehive/pkg/store"
)

func newWaxCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "wax",
		Short: "Merge the raw corpus into the enriched store and fill missing attributes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(cfg.Paths.Puzzles), 0o755); err != nil {
				return fmt.Errorf("create store directory: %w", err)
			}
			s := enrich.NewSyncer(store.NewXMLStore(cfg.Paths.Puzzles), cfg.Paths.Words)
			s.LockPath = cfg.Paths.Puzzles + ".lock"
			s.Logger = logger

			sum, err := s.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"ATTRIBUTE", "ADDED"}, summaryRows(sum), []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func summaryRows(sum enrich.Summary) [][]string {
	itoa := strconv.Itoa
	return [][]string{
		{"puzzles", itoa(sum.PuzzlesAdded)},
		{"id", itoa(sum.IDs)},
		{"count", itoa(sum.Counts)},
		{"letters", itoa(sum.Letters)},
		{"letter counts", itoa(sum.LetterStats)},
		{"pangrams", itoa(sum.Pangrams)},
		{"perfectpangrams", itoa(sum.PerfectPangrams)},
		{"word length", itoa(sum.Words.Length)},
		{"word first", itoa(sum.Words.First)},
		{"word firsttwo", itoa(sum.Words.FirstTwo)},
		{"word jumbled", itoa(sum.Words.Jumbled)},
		{"word pangram", itoa(sum.Words.Pangram)},
		{"word perfectpangram", itoa(sum.Words.PerfectPangram)},
	}
}
