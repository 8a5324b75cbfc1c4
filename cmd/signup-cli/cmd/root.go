package cmd

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// fs is the filesystem the commands read from. Tests replace it.
var fs afero.Fs = afero.NewOsFs()

var rootCmd = &cobra.Command{
	Use:   "signup-cli",
	Short: "Signup CLI tool",
	Long: `Signup CLI checks registration inputs and configuration without
starting the server.

Available commands:
  password     Show which password rules a value satisfies
  phone        Check a phone number against the form rule
  providers    List the identity providers in a catalog file

Use "signup-cli [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
