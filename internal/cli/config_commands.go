// Package cli provides configuration management commands.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jtdman/CashRegister/internal/config"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage cashregister configuration",
		Long: `Configuration management commands for cashregister.

Commands:
  init  - Interactive configuration setup
  show  - Display current configuration
  path  - Show configuration file path`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration interactively",
		Long: `Interactive configuration setup for cashregister.

The configuration will be saved to ~/.config/cashregister/config.ini

Use --force to overwrite existing configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := GetLogger()

			configPath := cfgFile
			if configPath == "" {
				if err := config.EnsureConfigDir(); err != nil {
					return fmt.Errorf("failed to create config directory: %w", err)
				}
				var err error
				configPath, err = config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("failed to determine config path: %w", err)
				}
			}

			// Check if config already exists
			if !force {
				if _, err := os.Stat(configPath); err == nil {
					fmt.Printf("Configuration already exists at: %s\n", configPath)
					fmt.Println("Use --force to overwrite or run 'config show' to view current config.")
					return nil
				}
			}

			fmt.Println("Cash Register Configuration Setup")
			fmt.Println("=================================")
			fmt.Println()

			reader := bufio.NewReader(os.Stdin)
			cfg := config.New()

			// API base URL
			fmt.Printf("API server URL [%s]: ", cfg.API.BaseURL)
			urlInput, _ := reader.ReadString('\n')
			urlInput = strings.TrimSpace(urlInput)
			if urlInput != "" {
				cfg.API.BaseURL = urlInput
			}

			// Output directory
			fmt.Printf("Output directory [%s]: ", cfg.Output.Dir)
			dirInput, _ := reader.ReadString('\n')
			dirInput = strings.TrimSpace(dirInput)
			if dirInput != "" {
				cfg.Output.Dir = dirInput
			}

			// Watch debounce
			fmt.Printf("Watch debounce in milliseconds [%d]: ", cfg.Watch.DebounceMS)
			debounceInput, _ := reader.ReadString('\n')
			debounceInput = strings.TrimSpace(debounceInput)
			if debounceInput != "" {
				if v, err := strconv.Atoi(debounceInput); err == nil && v >= 0 {
					cfg.Watch.DebounceMS = v
				}
			}

			// Run history
			fmt.Print("Record run history? [Y/n]: ")
			historyInput, _ := reader.ReadString('\n')
			historyInput = strings.TrimSpace(strings.ToLower(historyInput))
			cfg.History.Enabled = historyInput != "n" && historyInput != "no"

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			if err := config.Save(cfg, configPath); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			logger.Info().Str("path", configPath).Msg("Configuration saved")

			fmt.Println()
			fmt.Printf("✓ Configuration saved to: %s\n", configPath)
			fmt.Println()
			fmt.Println("Test the server connection with: cashregister health")

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")

	return cmd
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the current configuration settings.

This command shows the merged configuration from:
  1. Configuration file (~/.config/cashregister/config.ini)
  2. Environment variable (CASH_REGISTER_API)
  3. Command-line flags (--api)

Priority: flags > environment > config file > defaults`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := cfgFile
			if configPath == "" {
				var err error
				configPath, err = config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("failed to determine config path: %w", err)
				}
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg.MergeFlags(apiBaseURL)

			historyPath, err := cfg.HistoryPath()
			if err != nil {
				historyPath = "<unknown>"
			}

			fmt.Println("Current Configuration")
			fmt.Println("=====================")
			fmt.Println()

			fmt.Println("API Settings:")
			fmt.Printf("  Server URL: %s\n", cfg.API.BaseURL)
			fmt.Println()

			fmt.Println("Output Settings:")
			fmt.Printf("  Directory: %s\n", cfg.Output.Dir)
			fmt.Println()

			fmt.Println("Watch Settings:")
			fmt.Printf("  Debounce: %d ms\n", cfg.Watch.DebounceMS)
			fmt.Println()

			fmt.Println("History Settings:")
			fmt.Printf("  Enabled: %t\n", cfg.History.Enabled)
			fmt.Printf("  Database: %s\n", historyPath)
			fmt.Println()

			fmt.Printf("Configuration file: %s\n", configPath)
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				fmt.Println("  (file does not exist - using defaults)")
			}

			return nil
		},
	}

	return cmd
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Long:  `Display the path to the configuration file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := cfgFile
			if configPath == "" {
				var err error
				configPath, err = config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("failed to determine config path: %w", err)
				}
				fmt.Println("Default configuration path:")
			} else {
				fmt.Println("Configuration path (from --config flag):")
			}

			fmt.Printf("  %s\n", configPath)
			fmt.Println()

			if fileInfo, err := os.Stat(configPath); err == nil {
				fmt.Println("Status: ✓ File exists")
				fmt.Printf("Size:   %d bytes\n", fileInfo.Size())
				fmt.Printf("Modified: %s\n", fileInfo.ModTime().Format("2006-01-02 15:04:05"))
			} else {
				fmt.Println("Status: File does not exist")
				fmt.Println()
				fmt.Println("Create a configuration file with: cashregister config init")
			}

			return nil
		},
	}

	return cmd
}
