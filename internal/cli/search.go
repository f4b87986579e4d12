package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newSearchCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "List browsable models matching a term",
		Long: `List browsable models whose name or technical identifier contains the term,
with their record counts.

Examples:
  model-browser search partner
  model-browser search --limit 20`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := ""
			if len(args) == 1 {
				term = args[0]
			}

			rows, err := opts.api().Search(cmd.Context(), term, limit)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No models found.")
				return nil
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "NAME", "MODEL", "RECORDS")
			for _, r := range rows {
				t.Row(strconv.FormatUint(uint64(r.ID), 10), r.Name, r.Model, formatCount(r.Count))
			}
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "max model descriptors to scan (server default when 0)")
	return cmd
}
