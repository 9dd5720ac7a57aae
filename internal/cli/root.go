// Package cli provides the command-line interface for cashregister.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jtdman/CashRegister/internal/config"
	"github.com/jtdman/CashRegister/internal/logging"
	"github.com/jtdman/CashRegister/internal/version"
)

var (
	// Global flags
	cfgFile    string
	apiBaseURL string
	verbose    bool
	debug      bool

	// Root command (process) flags
	divisor     int
	noPennies   bool
	halfDollars bool
	outputPath  string

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// NewRootCmd creates the root command. Running the root itself processes a
// single transaction file; everything else hangs off subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cashregister <input_file>",
		Short: "Cash Register - process transaction files through the API server",
		Long: `Cash Register ` + version.Version + ` - Built: ` + version.BuildTime + `
Client for the cash register transaction API.

Reads a plain-text transaction file, submits it to the server for change
calculation, and writes the formatted results to an output file. Rounding
rules (divisor, pennies, half dollars) are applied server-side; the flags
only select them.`,
		Example: `  cashregister data/sample-usd.txt
  cashregister data/sample-usd.txt --divisor 5
  cashregister data/sample-usd.txt --no-pennies -o /tmp/out.txt
  cashregister batch data/monday.txt data/tuesday.txt
  cashregister watch data/incoming`,
		Args: cobra.ExactArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize logger
			logger = logging.NewDefaultCLILogger()
			if debug {
				logging.SetGlobalLevel(zerolog.TraceLevel)
			} else if verbose {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
		RunE: runProcess,
	}

	// Runtime errors are already printed as "Error: <message>"; dumping
	// usage after them would bury the message.
	rootCmd.SilenceUsage = true

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api", "", "API server URL (default "+config.DefaultBaseURL+", or CASH_REGISTER_API)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable trace output (more detailed than --verbose)")

	// Processing flags for the root (single file) command
	rootCmd.Flags().IntVar(&divisor, "divisor", 0, "Override random divisor (default: 3)")
	rootCmd.Flags().BoolVar(&noPennies, "no-pennies", false, "Disable pennies, use Swedish rounding")
	rootCmd.Flags().BoolVar(&halfDollars, "half-dollars", false, "Enable half dollar coins")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Custom output file path")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	// Create a context that can be cancelled by signals
	rootContext, cancelFunc = context.WithCancel(context.Background())

	// Set up signal handling for graceful cancellation
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Loop to handle multiple signals (e.g., user pressing Ctrl+C repeatedly)
	go func() {
		for sig := range sigChan {
			// When the channel is closed sig is nil and the loop exits
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nReceived signal %v, cancelling operations...\n", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	err := rootCmd.Execute()

	// Clean up signal handler
	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultCLILogger()
	}
	return logger
}

// GetContext returns the global CLI context with signal handling.
// This context will be cancelled when the user presses Ctrl+C.
func GetContext() context.Context {
	if rootContext == nil {
		// Fallback to background context if called before Execute()
		return context.Background()
	}
	return rootContext
}
