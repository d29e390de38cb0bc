package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/japaniel/beehive/pkg/corpus"
	"github.com/japaniel/beehive/pkg/fetch"
)

var errPullLocked = errors.New("raw corpus is locked by another run")

func newPullCommand(ctx *commandContext) *cobra.Command {
	var urlFlag string

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Fetch today's puzzle into the raw corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			f := fetch.NewFetcher(cfg.Fetch.URL)
			if urlFlag != "" {
				f.URL = urlFlag
			}
			f.UserAgent = cfg.Fetch.UserAgent
			f.MaxBodySize = cfg.Fetch.MaxBodyBytes
			f.Client.Timeout = time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second
			f.Logger = logger

			p, err := f.Fetch(cmd.Context())
			if err != nil {
				return err
			}

			wordsPath := cfg.Paths.Words
			if err := os.MkdirAll(filepath.Dir(wordsPath), 0o755); err != nil {
				return fmt.Errorf("create corpus directory: %w", err)
			}
			lock := flock.New(wordsPath + ".lock")
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !locked {
				return errPullLocked
			}
			defer func() {
				if err := lock.Unlock(); err != nil {
					logger.Warn("failed to release corpus lock", zap.Error(err))
				}
			}()

			added, err := corpus.Append(wordsPath, p)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if added {
				fmt.Fprintf(out, "Added puzzle %s (%d words) to %s\n", p.Date, len(p.Words), wordsPath)
			} else {
				fmt.Fprintf(out, "Puzzle %s already in %s\n", p.Date, wordsPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&urlFlag, "url", "", "Puzzle page URL (overrides config)")
	return cmd
}
