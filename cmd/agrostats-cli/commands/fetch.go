package commands

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"agrostats/internal/dataprocessing"
	"agrostats/internal/dataset"
	"agrostats/internal/exporter"
	"agrostats/internal/services"
	"agrostats/pkg/contracts/domain"
)

func newFetchCommand() *cobra.Command {
	var (
		q        domain.ProductionQuery
		attempts int
		output   string
		file     string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetches normalized production records. Empty lists fall back to the configured defaults.",
		Example: `  agrostats-cli fetch --years 2022,2023 --products 2711
  agrostats-cli fetch --years last --output json
  agrostats-cli fetch --years 2023 --file reports/producao_2023.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := getGlobals(cmd.Context())

			var opts []dataprocessing.FetchOption
			if attempts > 0 {
				opts = append(opts, dataprocessing.WithMaxAttempts(attempts))
			}

			ds, err := g.production.Dataset(cmd.Context(), q, opts...)
			if err != nil {
				return err
			}

			if file != "" {
				if err := exporter.WriteFile(file, ds, g.logger); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", ds.Len(), file)
				return nil
			}

			switch output {
			case "table":
				renderDataset(cmd, ds)
				return nil
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(services.NewProductionResponse(ds))
			case "csv":
				return exporter.WriteCSV(cmd.OutOrStdout(), ds, exporter.CSVOptions{})
			default:
				return fmt.Errorf("unknown output %q (table, json, csv)", output)
			}
		},
	}

	cmd.Flags().StringSliceVar(&q.Years, "years", nil, `four-digit years or "last"`)
	cmd.Flags().StringSliceVar(&q.Variables, "variables", nil, "variable codes")
	cmd.Flags().StringSliceVar(&q.Products, "products", nil, "crop codes")
	cmd.Flags().StringSliceVar(&q.Region, "region", nil, `"all" or 7-digit municipality codes`)
	cmd.Flags().IntVar(&attempts, "attempts", 0, "override the number of remote calls")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or csv")
	cmd.Flags().StringVar(&file, "file", "", "write a .csv or .xlsx file instead of printing")

	return cmd
}

func renderDataset(cmd *cobra.Command, ds dataset.Dataset) {
	cols := exporter.Columns(ds)

	t := newTable(cmd.OutOrStdout())
	header := make(table.Row, len(cols))
	columns := make([]*dataset.Column, len(cols))
	for i, f := range cols {
		header[i] = string(f)
		columns[i], _ = ds.Column(f)
	}
	t.AppendHeader(header)

	for row := 0; row < ds.Len(); row++ {
		r := make(table.Row, len(columns))
		for i, c := range columns {
			r[i], _ = c.Text(row)
		}
		t.AppendRow(r)
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d records", ds.Len())})
	t.Render()
}
