package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TavnitForms/tavnit-cli/internal/auth"
	"github.com/TavnitForms/tavnit-cli/internal/output"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Verify API credentials",
	Long: `Verify that the configured API token is accepted by the Tavnit cloud
and show the account it belongs to.

The token is read from --token or the TAVNIT_API_TOKEN environment
variable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		apiToken, err := getToken()
		if err != nil {
			return err
		}
		provider, err := auth.NewProvider(getAPIBaseURL(), apiToken)
		if err != nil {
			return err
		}

		ctx, cancel := NewSignalContext()
		defer cancel()

		account, err := provider.Verify(ctx)
		if err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}

		styles := output.GetStyles()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, styles.SuccessText.Render(output.IconSuccess+" Token verified"))
		fmt.Fprintf(out, "  account: %s\n", account.Email)
		fmt.Fprintf(out, "  plan:    %s\n", account.Plan)
		fmt.Fprintf(out, "  quota:   %d templates\n", account.TemplateQuota)
		fmt.Fprintf(out, "  token:   %s\n", provider.MaskedToken())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
}
