package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/TavnitForms/tavnit-cli/internal/audit"
	"github.com/TavnitForms/tavnit-cli/internal/output"
	"github.com/TavnitForms/tavnit-cli/internal/sandbox"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit [dir...]",
	Short: "Audit template directories for path policy violations",
	Long: `Walk template directories and report entries that violate the path
policy: symbolic links, names the policy rejects, and entries that
resolve outside their directory. Directories default to the configured
template directory.`,
	Example: `  $ tavnit-cli audit
  $ tavnit-cli audit /srv/tavnit/templates /srv/tavnit/exports
  $ tavnit-cli audit --format sarif --fail-on HIGH,CRITICAL
  $ tavnit-cli audit --allow-symlinks`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		failOnSeverities, err := getFailOn()
		if err != nil {
			return err
		}

		bases := make([]string, 0, len(args))
		for _, arg := range args {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return fmt.Errorf("cannot resolve directory %q: %w", arg, err)
			}
			bases = append(bases, abs)
		}
		if len(bases) == 0 {
			tdir, err := getTemplatesDir()
			if err != nil {
				return err
			}
			bases = append(bases, tdir)
		}

		s, err := sandbox.New(sandbox.Config{
			Bases:         bases,
			AllowSymlinks: allowSymlinks,
		})
		if err != nil {
			return err
		}

		report, err := audit.New(s, noProgress).Run()
		if err != nil {
			return fmt.Errorf("audit failed: %w", err)
		}

		formatter, err := output.GetFormatter(format)
		if err != nil {
			return err
		}
		if err := formatter.Format(report, os.Stdout); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}

		PrintUpdateNotification()
		output.ExitIfNeeded(report, failOnSeverities, exitCode)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
}
