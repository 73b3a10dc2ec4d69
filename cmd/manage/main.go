package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var app appContext
	rootCmd := &cobra.Command{
		Use:   "manage",
		Short: "Administrative commands for the recipe API",
		Long: `manage runs maintenance tasks against the configured database:
applying migrations and creating user accounts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
	}

	rootCmd.AddCommand(newMigrateCmd(&app))
	rootCmd.AddCommand(newCreateSuperuserCmd(&app))
	rootCmd.AddCommand(newCreateUserCmd(&app))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		// Cobra prints the error, so we just need to exit.
		os.Exit(1)
	}
}
