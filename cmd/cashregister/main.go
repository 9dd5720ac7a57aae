// Cash Register - CLI client for the transaction processing API
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/jtdman/CashRegister/internal/cli"
	"github.com/jtdman/CashRegister/internal/version"
)

// Version information - injected via LDFLAGS on release builds
var (
	Version   = "v1.0.0-dev"
	BuildTime = "unknown"
)

func main() {
	// Set version in the version package (canonical source for all packages)
	version.Version = Version
	version.BuildTime = BuildTime

	// A project-local .env may carry CASH_REGISTER_API during development
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
