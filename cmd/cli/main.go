package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mkarvonen/prepdeck/cmd/cli/practice"
	"github.com/mkarvonen/prepdeck/cmd/cli/user"
	"github.com/spf13/cobra"
)

func init() {
	// The .env file is optional for the CLI; flags and environment win.
	_ = godotenv.Load()
	rootCmd.AddGroup(user.Group)
	rootCmd.AddCommand(user.Create)
	rootCmd.AddGroup(practice.Group)
	rootCmd.AddCommand(practice.Questions)
	rootCmd.AddCommand(practice.Rehearse)
}

var rootCmd = &cobra.Command{
	Use:  "prepdeck-cli",
	Long: `Command line utilities for Prepdeck`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
