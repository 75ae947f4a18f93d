package main

import (
	"fmt"
	"os"

	"github.com/benvon/routecors/cmd/configure/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "routecors-configure",
		Short: "Configuration tool for the routecors service",
		Long:  "CLI tool for managing and checking the stored CORS configuration",
	}

	rootCmd.AddCommand(commands.NewCorsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
