package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newCropsCommand() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "crops",
		Short: "Lists the supported crops, or resolves a crop name with --search.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := getGlobals(cmd.Context())

			t := newTable(cmd.OutOrStdout())
			if search != "" {
				match, err := g.crops.Search(cmd.Context(), search)
				if err != nil {
					return err
				}
				t.AppendHeader(table.Row{"Code", "Name", "Similarity", "Exact"})
				t.AppendRow(table.Row{match.Crop.Code, match.Crop.Name, fmt.Sprintf("%.2f", match.Similarity), match.Exact})
				t.Render()
				return nil
			}

			t.AppendHeader(table.Row{"Code", "Name"})
			for _, c := range g.crops.List() {
				t.AppendRow(table.Row{c.Code, c.Name})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "crop name to resolve, accents and typos tolerated")
	return cmd
}
