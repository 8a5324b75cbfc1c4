package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/nfrund/signup/internal/registration"
	"github.com/spf13/cobra"
)

var passwordOutputFormat string

type ruleDisplay struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Met   bool   `json:"met"`
}

var passwordCmd = &cobra.Command{
	Use:   "password <value>",
	Short: "Show which password rules a value satisfies",
	Long: `Evaluates a password against the registration checklist and prints
each rule with its status.

Examples:
  signup-cli password 'Abc12345!'
  signup-cli password hunter2 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := registration.ComputeFlags(args[0])
		rules := flags.Rules()

		switch passwordOutputFormat {
		case "json":
			out := make([]ruleDisplay, len(rules))
			for i, r := range rules {
				out[i] = ruleDisplay{Key: r.Key, Label: r.Label, Met: r.Met}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		case "table":
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RULE\tSTATUS\tDESCRIPTION")
			fmt.Fprintln(w, "----\t------\t-----------")
			for _, r := range rules {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Key, status(r.Met), r.Label)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if !flags.Satisfied() {
				fmt.Fprintln(cmd.OutOrStdout(), "\nThe password does not meet every rule.")
			}
			return nil
		default:
			return fmt.Errorf("invalid format %q, valid formats: table, json", passwordOutputFormat)
		}
	},
}

func status(met bool) string {
	if met {
		return "met"
	}
	return "unmet"
}

func init() {
	passwordCmd.Flags().StringVarP(&passwordOutputFormat, "format", "f", "table", "Output format (table, json)")
	rootCmd.AddCommand(passwordCmd)
}
