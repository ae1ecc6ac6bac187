package cmd

import (
	"fmt"

	"github.com/TavnitForms/tavnit-cli/internal/sandbox"
	"github.com/spf13/cobra"
)

var resolveBase string

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Resolve a template path against the active policy",
	Long: `Resolve a relative template path to its absolute location inside the
template directory. Fails when the path is absolute, carries a drive
letter, or would escape the directory after normalization.`,
	Example: `  $ tavnit-cli resolve contracts/rental.pdf
  $ tavnit-cli resolve invoice.pdf --base /srv/tavnit/exports
  $ tavnit-cli resolve ../../etc/passwd   # rejected`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base := resolveBase
		if base == "" {
			var err error
			base, err = getTemplatesDir()
			if err != nil {
				return err
			}
		}

		s, err := sandbox.New(sandbox.Config{
			Bases:         []string{base},
			AllowSymlinks: allowSymlinks,
		})
		if err != nil {
			return err
		}

		full, err := s.Sanitize(args[0], base)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), full)
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveBase, "base", "", "Base directory to resolve against (default: template directory)")
	rootCmd.AddCommand(resolveCmd)
}
