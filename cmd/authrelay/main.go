package main

import (
	"os"

	"github.com/spf13/cobra"

	"authrelay/internal/interfaces/cli/migrate"
	"authrelay/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "authrelay",
		Short: "authrelay - cross-domain authentication broker",
		Long:  `authrelay brokers Google, Facebook and password logins for multiple apps, issuing JWT bearer tokens and tracking per-app usage.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
