package cmd

import (
	"fmt"

	"github.com/nfrund/signup/internal/registration"
	"github.com/spf13/cobra"
)

var phoneCmd = &cobra.Command{
	Use:   "phone <value>",
	Short: "Check a phone number against the form rule",
	Long: fmt.Sprintf(`Reports whether a value is accepted by the phone field: up to %d
ASCII digits and nothing else. The empty string is accepted.`, registration.MaxPhoneDigits),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !registration.PhoneValid(args[0]) {
			return fmt.Errorf("%q: %s", args[0], registration.MsgPhoneInvalid)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%q is a valid phone number\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(phoneCmd)
}
