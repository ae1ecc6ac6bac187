package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/TavnitForms/tavnit-cli/internal/output"
	"github.com/TavnitForms/tavnit-cli/internal/sandbox"
	"github.com/spf13/cobra"
)

var checkBase string

// checkResult is the JSON shape emitted with --format json.
type checkResult struct {
	Path     string `json:"path"`
	Resolved string `json:"resolved,omitempty"`
	OK       bool   `json:"ok"`
	Code     string `json:"code,omitempty"`
	Error    string `json:"error,omitempty"`
}

var checkCmd = &cobra.Command{
	Use:   "check <path>",
	Short: "Check a template path against the active policy",
	Long: `Check a relative template path against the path policy, including the
symlink check on the resolved location. Exits non-zero on any violation.`,
	Example: `  $ tavnit-cli check contracts/rental.pdf
  $ tavnit-cli check drafts/shortcut.pdf --format json
  $ tavnit-cli check legacy.pdf --allow-symlinks`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base := checkBase
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

		full, verifyErr := s.Verify(args[0], base)

		if format == "json" {
			result := checkResult{Path: args[0], Resolved: full, OK: verifyErr == nil}
			if verifyErr != nil {
				result.Resolved = ""
				result.Code = string(sandbox.CodeOf(verifyErr))
				result.Error = verifyErr.Error()
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(result); err != nil {
				return err
			}
			if verifyErr != nil {
				return exitSilently(cmd, verifyErr)
			}
			return nil
		}

		if verifyErr != nil {
			return verifyErr
		}

		styles := output.GetStyles()
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styles.SuccessText.Render(output.IconSuccess), full)
		return nil
	},
}

// exitSilently marks the command as failed without double-printing the
// error, which the JSON body already carries.
func exitSilently(cmd *cobra.Command, err error) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return err
}

func init() {
	checkCmd.Flags().StringVar(&checkBase, "base", "", "Base directory to check against (default: template directory)")
	rootCmd.AddCommand(checkCmd)
}
