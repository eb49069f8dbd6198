// Package main provides the entry point for the placescout CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for placescout.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "placescout",
		Short: "Collect business listings from the Places API into CSV",
		Long: `Placescout searches the Google Places text-search API for businesses of a
given specialty across one or more locations, follows every result page,
looks up the details of each listing, and writes the normalized records
to CSV.

The API key is read from the GOOGLE_MAPS_API_KEY environment variable
(a .env file in the working directory is consulted first).`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
