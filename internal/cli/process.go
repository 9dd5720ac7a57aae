package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jtdman/CashRegister/internal/api"
	"github.com/jtdman/CashRegister/internal/config"
	"github.com/jtdman/CashRegister/internal/history"
	"github.com/jtdman/CashRegister/internal/models"
	"github.com/jtdman/CashRegister/internal/output"
)

// Error strings below match the console contract exactly, including
// capitalization: cobra prefixes them with "Error: " on stderr.

// checkInputFile verifies the input exists before any network round trip.
func checkInputFile(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("Input file not found: %s", path)
	}
	return nil
}

// processOptionsFromFlags builds the request options from command flags. The
// divisor is only forwarded when the flag was set explicitly; otherwise the
// server picks its own.
func processOptionsFromFlags(cmd *cobra.Command, divisor int, noPennies, halfDollars bool) models.ProcessOptions {
	opts := models.ProcessOptions{
		NoPennies:   noPennies,
		HalfDollars: halfDollars,
	}
	if cmd.Flags().Changed("divisor") {
		opts.Divisor = &divisor
	}
	return opts
}

// processOutcome is the result of processing one input file.
type processOutcome struct {
	Result     *models.ProcessResult
	OutputPath string
}

// processFile runs the submit-and-write flow for a single input file: read,
// POST to /process, resolve the output path, write the rendered result.
// The caller is responsible for the input and health checks. A nil store
// skips history recording.
func processFile(
	ctx context.Context,
	client *api.Client,
	store *history.Store,
	cfg *config.Config,
	inputPath string,
	explicitOutput string,
	opts models.ProcessOptions,
) (*processOutcome, error) {
	startedAt := time.Now()

	text, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	GetLogger().Debug().
		Str("file", inputPath).
		Int("bytes", len(text)).
		Msg("Submitting transactions")

	result, err := client.ProcessTransactions(ctx, string(text), opts)
	if err != nil {
		// "API error:" is reserved for requests the server answered and
		// rejected; transport failures are reported bare.
		if api.IsServerError(err) {
			err = fmt.Errorf("API error: %w", err)
		}
		recordRun(ctx, store, startedAt, inputPath, "", nil, err)
		return nil, err
	}

	outPath := output.ResolvePath(inputPath, explicitOutput, cfg.Output.Dir)
	if err := output.Write(outPath, result); err != nil {
		recordRun(ctx, store, startedAt, inputPath, outPath, result, err)
		return nil, err
	}

	GetLogger().Debug().
		Str("file", inputPath).
		Str("output", outPath).
		Int("transactions", len(result.Results)).
		Msg("Wrote output file")

	recordRun(ctx, store, startedAt, inputPath, outPath, result, nil)

	return &processOutcome{Result: result, OutputPath: outPath}, nil
}

// recordRun stores a history row for a finished run. Best effort: failures
// are logged at Warn and never surface to the caller.
func recordRun(
	ctx context.Context,
	store *history.Store,
	startedAt time.Time,
	inputPath, outputPath string,
	result *models.ProcessResult,
	runErr error,
) {
	if store == nil {
		return
	}

	run := &history.Run{
		StartedAt:  startedAt,
		InputPath:  inputPath,
		OutputPath: outputPath,
		Status:     history.StatusOK,
	}
	if result != nil {
		run.Transactions = len(result.Results)
		run.Currency = result.Currency
		run.Divisor = result.Divisor
		run.Randomized = result.HasRandomization
	}
	if runErr != nil {
		run.Status = history.StatusError
		run.ErrorMessage = runErr.Error()
		run.OutputPath = ""
	}

	if err := store.Record(ctx, run); err != nil {
		GetLogger().Warn().Err(err).Str("file", inputPath).Msg("Failed to record run history")
	}
}

// runProcess is the root command: process one transaction file and echo the
// result block to stdout.
func runProcess(cmd *cobra.Command, args []string) error {
	ctx := GetContext()
	inputPath := args[0]

	// Input check precedes any network traffic
	if err := checkInputFile(inputPath); err != nil {
		return err
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

	store := openHistory(cfg)
	if store != nil {
		defer store.Close()
	}

	opts := processOptionsFromFlags(cmd, divisor, noPennies, halfDollars)

	outcome, err := processFile(ctx, client, store, cfg, inputPath, outputPath, opts)
	if err != nil {
		return err
	}

	result := outcome.Result
	fmt.Printf("Processed %d transactions (%s)\n", len(result.Results), result.Currency)
	fmt.Printf("Output: %s\n", outcome.OutputPath)
	fmt.Println()
	fmt.Println("--- Results ---")
	fmt.Print(output.Render(result))

	return nil
}
