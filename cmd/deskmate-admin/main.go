package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/umutak/deskmate/cmd/deskmate-admin/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "deskmate-admin",
		Short: "Administration tool for the deskmate API",
		Long:  "CLI tool for schema migration, bulk import and runtime settings",
	}

	rootCmd.AddCommand(commands.NewMigrateCmd())
	rootCmd.AddCommand(commands.NewImportCmd())
	rootCmd.AddCommand(commands.NewRatelimitCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
