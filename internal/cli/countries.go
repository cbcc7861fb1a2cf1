package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"country-pulse-service/internal/domain"
)

type countryRow struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
	Slug string `json:"slug"`
}

func newCountriesCommand(_ *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List the known countries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, formatTable, formatJSON, formatYAML); err != nil {
				return err
			}

			countries := domain.Countries()
			rows := make([]countryRow, len(countries))
			for i, c := range countries {
				rows[i] = countryRow{Code: c.Code, Name: c.Name, Flag: c.Flag, Slug: c.Slug()}
			}

			out := cmd.OutOrStdout()
			switch format {
			case formatJSON:
				return writeJSON(out, rows)
			case formatYAML:
				return writeYAML(out, rows)
			}

			tw := newTable(out)
			fmt.Fprintln(tw, "CODE\tNAME\tSLUG")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Code, r.Name, r.Slug)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", formatTable, "output format: table, json or yaml")

	return cmd
}
