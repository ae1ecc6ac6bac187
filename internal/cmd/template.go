package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/TavnitForms/tavnit-cli/internal/api"
	"github.com/TavnitForms/tavnit-cli/internal/output"
	"github.com/TavnitForms/tavnit-cli/internal/progress"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var (
	addName string
	pullAll bool
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage the local template vault",
	Long:  `List, inspect, add, remove, export and pull form templates.`,
	Example: `  # List local templates
  tavnit-cli template list

  # Pull a template from Tavnit Cloud
  tavnit-cli template pull rental-agreement-he

  # Export a template to the export directory
  tavnit-cli template export contracts/rental.pdf`,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates in the vault",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStore()
		if err != nil {
			return err
		}
		entries, err := st.List()
		if err != nil {
			return err
		}

		styles := output.GetStyles()
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), styles.MutedText.Render("no templates in "+st.TemplatesDir()))
			return nil
		}

		nameWidth := 0
		for _, e := range entries {
			if w := runewidth.StringWidth(e.Name); w > nameWidth {
				nameWidth = w
			}
		}
		for _, e := range entries {
			pad := nameWidth - runewidth.StringWidth(e.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "%s%*s  %8d  %s\n",
				styles.TemplateID.Render(e.Name), pad, "",
				e.Size,
				styles.MutedText.Render(e.Modified.Format("2006-01-02 15:04")))
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a template's source with highlighting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStore()
		if err != nil {
			return err
		}
		data, err := st.Read(args[0])
		if err != nil {
			return err
		}
		return output.RenderSource(cmd.OutOrStdout(), string(data), args[0])
	},
}

var templateAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Add a local file to the vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStore()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0]) // #nosec G304 -- user-supplied source file, outside the vault by design
		if err != nil {
			return fmt.Errorf("cannot read %q: %w", args[0], err)
		}

		name := addName
		if name == "" {
			name = filepath.Base(args[0])
		}
		if err := st.Write(name, data); err != nil {
			return err
		}

		styles := output.GetStyles()
		fmt.Fprintf(cmd.OutOrStdout(), "%s added %s\n", styles.SuccessText.Render(output.IconSuccess), styles.TemplateID.Render(name))
		return nil
	},
}

var templateRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a template from the vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStore()
		if err != nil {
			return err
		}
		if err := st.Remove(args[0]); err != nil {
			return err
		}

		styles := output.GetStyles()
		fmt.Fprintf(cmd.OutOrStdout(), "%s removed %s\n", styles.SuccessText.Render(output.IconSuccess), styles.TemplateID.Render(args[0]))
		return nil
	},
}

var templateExportCmd = &cobra.Command{
	Use:   "export <name> [dest-name]",
	Short: "Copy a template into the export directory",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStore()
		if err != nil {
			return err
		}

		destName := args[0]
		if len(args) == 2 {
			destName = args[1]
		}
		dest, err := st.Export(args[0], destName)
		if err != nil {
			return err
		}

		styles := output.GetStyles()
		fmt.Fprintf(cmd.OutOrStdout(), "%s exported to %s\n", styles.SuccessText.Render(output.IconSuccess), dest)
		return nil
	},
}

var templatePullCmd = &cobra.Command{
	Use:   "pull [id]",
	Short: "Pull templates from Tavnit Cloud into the vault",
	Example: `  $ tavnit-cli template pull rental-agreement-he
  $ tavnit-cli template pull --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if pullAll == (len(args) == 1) {
			return fmt.Errorf("specify a template id or --all, not both")
		}

		apiToken, err := getToken()
		if err != nil {
			return err
		}
		limit, err := getPageLimit()
		if err != nil {
			return err
		}
		st, err := newStore()
		if err != nil {
			return err
		}

		client := api.NewClient(getAPIBaseURL(), apiToken)

		ctx, cancel := NewSignalContext()
		defer cancel()

		spinner := progress.NewSpinnerWithContext(ctx, "Pulling templates from Tavnit Cloud", noProgress)
		spinner.Start()

		var pulled []string
		if pullAll {
			templates, err := client.ListTemplates(ctx, limit)
			if err != nil {
				spinner.Stop()
				return handlePullError(ctx, err)
			}
			for _, tpl := range templates {
				if err := st.Write(tpl.Name, []byte(tpl.Content)); err != nil {
					spinner.Stop()
					return handlePullError(ctx, err)
				}
				pulled = append(pulled, tpl.Name)
			}
		} else {
			tpl, err := client.GetTemplate(ctx, args[0])
			if err != nil {
				spinner.Stop()
				return handlePullError(ctx, err)
			}
			if err := st.Write(tpl.Name, []byte(tpl.Content)); err != nil {
				spinner.Stop()
				return handlePullError(ctx, err)
			}
			pulled = append(pulled, tpl.Name)
		}
		spinner.Stop()

		styles := output.GetStyles()
		for _, name := range pulled {
			fmt.Fprintf(cmd.OutOrStdout(), "%s pulled %s\n", styles.SuccessText.Render(output.IconSuccess), styles.TemplateID.Render(name))
		}

		PrintUpdateNotification()
		return nil
	},
}

func init() {
	templateAddCmd.Flags().StringVar(&addName, "name", "", "Name to store the template under (default: source file name)")
	templatePullCmd.Flags().BoolVar(&pullAll, "all", false, "Pull every template visible to the token")

	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateAddCmd)
	templateCmd.AddCommand(templateRemoveCmd)
	templateCmd.AddCommand(templateExportCmd)
	templateCmd.AddCommand(templatePullCmd)
	rootCmd.AddCommand(templateCmd)
}
