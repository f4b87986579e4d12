package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newOpenCommand(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "open <model>",
		Short: "Resolve the list view action of a model",
		Long: `Resolve the list view action of a model by technical identifier, creating
it on first use, and print its definition.

Examples:
  model-browser open res.partner
  model-browser open sale.order --output yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model := args[0]
			def, err := opts.api().Open(cmd.Context(), model)
			if err != nil {
				return fmt.Errorf("open %s: %w", model, err)
			}
			if def == nil {
				return fmt.Errorf("cannot open model: %s", model)
			}

			out := cmd.OutOrStdout()
			switch output {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(def); err != nil {
					return err
				}
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(def); err != nil {
					return err
				}
				if err := enc.Close(); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported output format %q (json or yaml)", output)
			}

			if opts.settings.WebURL != "" {
				printNavigation(cmd.ErrOrStderr(), opts.settings, def)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	return cmd
}
