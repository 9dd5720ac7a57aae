// Package cli provides the directory watch command.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jtdman/CashRegister/internal/api"
	"github.com/jtdman/CashRegister/internal/progress"
	"github.com/jtdman/CashRegister/internal/watch"
)

// newWatchCmd creates the 'watch' command.
func newWatchCmd() *cobra.Command {
	var (
		processExisting  bool
		watchDivisor     int
		watchNoPennies   bool
		watchHalfDollars bool
	)

	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Watch a directory and process new transaction files",
		Long: `Watch a directory for new or changed .txt files and process each one
as it settles. Output files (*-output.txt) are ignored, so the output
directory may live inside the watched one.

The server is checked once at startup; individual request failures are
logged and the watcher keeps running. Stop with Ctrl-C.`,
		Example: `  cashregister watch data/incoming
  cashregister watch data/incoming --process-existing --divisor 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()
			dir := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client, err := api.NewClient(cfg)
			if err != nil {
				return fmt.Errorf("failed to create API client: %w", err)
			}

			if err := checkServer(ctx, client); err != nil {
				return err
			}

			store := openHistory(cfg)
			if store != nil {
				defer store.Close()
			}

			opts := processOptionsFromFlags(cmd, watchDivisor, watchNoPennies, watchHalfDollars)
			log := GetLogger()

			handler := func(path string) {
				outcome, err := processFile(ctx, client, store, cfg, path, "", opts)
				if err != nil {
					log.Error().Err(err).Str("file", path).Msg("Processing failed")
					return
				}
				log.Info().
					Str("file", path).
					Str("output", outcome.OutputPath).
					Int("transactions", len(outcome.Result.Results)).
					Msg("Processed file")
			}

			if processExisting {
				backlog, err := listBacklog(dir)
				if err != nil {
					return err
				}
				if len(backlog) > 0 {
					processBacklog(ctx, backlog, progress.StderrReporter(), handler)
				}
			}

			debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
			watcher, err := watch.New(dir, debounce, log, handler)
			if err != nil {
				return err
			}

			log.Info().Str("dir", dir).Msg("Watching for transaction files (Ctrl-C to stop)")
			return watcher.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&processExisting, "process-existing", false, "Process the .txt files already in the directory before watching")
	cmd.Flags().IntVar(&watchDivisor, "divisor", 0, "Override random divisor (default: 3)")
	cmd.Flags().BoolVar(&watchNoPennies, "no-pennies", false, "Disable pennies, use Swedish rounding")
	cmd.Flags().BoolVar(&watchHalfDollars, "half-dollars", false, "Enable half dollar coins")

	return cmd
}

// processBacklog runs handler over the already-present files sequentially,
// reporting per-file progress. Cancellation stops processing but still
// finishes the reporter so the terminal is left clean.
func processBacklog(ctx context.Context, files []string, reporter progress.Reporter, handler func(string)) {
	reporter.Start(int64(len(files)), "Processing existing files")
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		handler(path)
		reporter.Update(int64(i + 1))
	}
	reporter.Finish()
}

// listBacklog returns the processable .txt files already in dir, in name
// order. Output files are excluded by the same rule the watcher uses.
func listBacklog(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list watch directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") || strings.HasSuffix(name, "-output.txt") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	return files, nil
}
