package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/japaniel/beehive/pkg/db"
	"github.com/japaniel/beehive/pkg/store"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var dbFlag string
	var batchSize int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Mirror the enriched store into SQLite",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			dbPath := cfg.Paths.Database
			if dbFlag != "" {
				dbPath = dbFlag
			}

			coll, err := store.NewXMLStore(cfg.Paths.Puzzles).Load()
			if err != nil {
				return err
			}

			conn, err := db.Open(dbPath)
			if err != nil {
				return err
			}
			defer conn.Close()

			out := cmd.OutOrStdout()
			e := db.NewExporter(conn)
			e.Logger = logger
			if batchSize > 0 {
				e.BatchSize = batchSize
			}
			e.OnProgress = func(current, total int) {
				if isTerminal(out) {
					fmt.Fprintf(out, "\rExporting... %d/%d", current, total)
				}
			}

			n, err := e.Export(cmd.Context(), coll)
			if isTerminal(out) {
				fmt.Fprintln(out)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Exported %d puzzles to %s\n", n, dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbFlag, "db", "", "SQLite database path (overrides config)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Puzzles per transaction")
	return cmd
}
