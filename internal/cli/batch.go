// Package cli provides the batch processing command.
package cli

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/jtdman/CashRegister/internal/api"
	"github.com/jtdman/CashRegister/internal/constants"
	"github.com/jtdman/CashRegister/internal/progress"
)

// newBatchCmd creates the 'batch' command.
func newBatchCmd() *cobra.Command {
	var (
		maxConcurrent    int
		batchDivisor     int
		batchNoPennies   bool
		batchHalfDollars bool
	)

	cmd := &cobra.Command{
		Use:   "batch <input_file>...",
		Short: "Process multiple transaction files concurrently",
		Long: `Process several transaction files in one run.

Files are submitted concurrently through a bounded worker pool. All inputs
are validated and the server is checked once before any file is submitted;
each file then gets its own output file per the usual naming rule.`,
		Example: `  cashregister batch data/monday.txt data/tuesday.txt
  cashregister batch data/*.txt --max-concurrent 8 --divisor 5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()

			// Validate every input up front: a typo must not cost a
			// half-finished batch.
			for _, path := range args {
				if err := checkInputFile(path); err != nil {
					return err
				}
			}

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

			if maxConcurrent < constants.MinMaxConcurrent || maxConcurrent > constants.MaxMaxConcurrent {
				fmt.Fprintf(os.Stderr, "Warning: --max-concurrent must be between %d and %d, using %d\n",
					constants.MinMaxConcurrent, constants.MaxMaxConcurrent, constants.DefaultMaxConcurrent)
				maxConcurrent = constants.DefaultMaxConcurrent
			}

			store := openHistory(cfg)
			if store != nil {
				defer store.Close()
			}

			opts := processOptionsFromFlags(cmd, batchDivisor, batchNoPennies, batchHalfDollars)

			GetLogger().Debug().
				Int("files", len(args)).
				Int("max_concurrent", maxConcurrent).
				Msg("Starting batch")

			fmt.Printf("Processing %d file(s)\n\n", len(args))

			ui := progress.NewBatchUI(len(args))

			// Route log lines through the UI while the bars are live so
			// per-file diagnostics print above them instead of tearing them.
			log := GetLogger()
			prevOut := log.Output()
			log.SetOutput(ui.LogWriter())
			defer log.SetOutput(prevOut)

			// Use semaphore to limit concurrent requests
			semaphore := make(chan struct{}, maxConcurrent)
			var wg sync.WaitGroup
			errChan := make(chan error, len(args))
			var mu sync.Mutex
			succeeded := 0

			for i, inputPath := range args {
				wg.Add(1)
				go func(idx int, path string) {
					defer wg.Done()

					// Acquire semaphore
					semaphore <- struct{}{}
					defer func() { <-semaphore }()

					if ctx.Err() != nil {
						fmt.Fprintf(ui.LogWriter(), "⊘ Skipping %s: %v\n", path, ctx.Err())
						errChan <- fmt.Errorf("%s: %w", path, ctx.Err())
						return
					}

					bar := ui.AddFileBar(idx, path)

					outcome, err := processFile(ctx, client, store, cfg, path, "", opts)
					if err != nil {
						bar.Complete("", 0, err)
						errChan <- fmt.Errorf("%s: %w", path, err)
						return
					}

					bar.Complete(outcome.OutputPath, len(outcome.Result.Results), nil)

					mu.Lock()
					succeeded++
					mu.Unlock()
				}(i+1, inputPath)
			}

			wg.Wait()
			close(errChan)
			ui.Wait()

			var errs []error
			for err := range errChan {
				errs = append(errs, err)
			}

			fmt.Printf("\n✓ Successfully processed %d file(s)\n", succeeded)
			if len(errs) > 0 {
				fmt.Printf("✗ Failed to process %d file(s)\n", len(errs))
				return errs[0]
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", constants.DefaultMaxConcurrent,
		fmt.Sprintf("Maximum concurrent requests (%d-%d)", constants.MinMaxConcurrent, constants.MaxMaxConcurrent))
	cmd.Flags().IntVar(&batchDivisor, "divisor", 0, "Override random divisor (default: 3)")
	cmd.Flags().BoolVar(&batchNoPennies, "no-pennies", false, "Disable pennies, use Swedish rounding")
	cmd.Flags().BoolVar(&batchHalfDollars, "half-dollars", false, "Enable half dollar coins")

	return cmd
}
