package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

type snapshotRow struct {
	Category string `json:"category"`
	Name     string `json:"name,omitempty"`
	Path     string `json:"path,omitempty"`
	Date     string `json:"date,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

func newSnapshotsCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "snapshots <country>",
		Short: "Show the latest snapshot of every category of a country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatTable, formatJSON, formatYAML); err != nil {
				return err
			}

			country, err := lookupCountry(args[0])
			if err != nil {
				return err
			}

			svc, err := a.countryService()
			if err != nil {
				return err
			}

			statuses, err := svc.Snapshots(cmd.Context(), country.Code)
			if err != nil {
				return err
			}

			rows := make([]snapshotRow, len(statuses))
			for i, st := range statuses {
				rows[i] = snapshotRow{Category: string(st.Category)}
				if info := st.Snapshot; info != nil {
					rows[i].Name = info.Name
					rows[i].Path = info.Path
					rows[i].Date = info.Date.Format(time.DateOnly)
					rows[i].Size = info.Size
				}
			}

			out := cmd.OutOrStdout()
			switch format {
			case formatJSON:
				return writeJSON(out, rows)
			case formatYAML:
				return writeYAML(out, rows)
			}

			tw := newTable(out)
			fmt.Fprintln(tw, "CATEGORY\tDATE\tSIZE\tPATH")
			for _, r := range rows {
				if r.Path == "" {
					fmt.Fprintf(tw, "%s\t-\t-\t(no data)\n", r.Category)
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Category, r.Date, r.Size, r.Path)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", formatTable, "output format: table, json or yaml")

	return cmd
}
