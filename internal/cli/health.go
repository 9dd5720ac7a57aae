// Package cli provides the server health command.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newHealthCmd creates the 'health' command.
func newHealthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check whether the API server is reachable",
		Long: `Check server availability using the /health endpoint.

Exits 0 when the server answers with 200, 1 otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getAPIClient()
			if err != nil {
				return err
			}

			if err := checkServer(GetContext(), client); err != nil {
				return err
			}

			fmt.Printf("API server is available at %s\n", client.BaseURL())
			return nil
		},
	}

	return cmd
}
