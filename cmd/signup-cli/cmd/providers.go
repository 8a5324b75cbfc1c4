package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/nfrund/signup/internal/identity"
	"github.com/spf13/cobra"
)

var providersFile string

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the identity providers in a catalog file",
	Long: `Loads a provider catalog the same way the server does and prints the
buttons the registration page would show, in order.

The file defaults to $AUTH_PROVIDERS_FILE.

Examples:
  signup-cli providers --file config/providers.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := providersFile
		if path == "" {
			path = os.Getenv("AUTH_PROVIDERS_FILE")
		}
		if path == "" {
			return fmt.Errorf("no catalog file: use --file or set AUTH_PROVIDERS_FILE")
		}

		catalog, err := identity.NewCatalog(fs, path)
		if err != nil {
			return err
		}

		actions := catalog.Providers().Actions()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()

		fmt.Fprintln(w, "ID\tBUTTON\tSIGN-IN PATH")
		fmt.Fprintln(w, "--\t------\t------------")
		if len(actions) == 0 {
			fmt.Fprintln(w, "No providers configured")
			return nil
		}
		for _, a := range actions {
			fmt.Fprintf(w, "%s\t%s\t%s\n", a.ProviderID, a.Label, a.Href)
		}
		return nil
	},
}

func init() {
	providersCmd.Flags().StringVar(&providersFile, "file", "", "Path to the provider catalog (YAML)")
	rootCmd.AddCommand(providersCmd)
}
