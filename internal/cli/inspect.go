package cli

import (
	"github.com/spf13/cobra"

	"country-pulse-service/internal/app/service"
	"country-pulse-service/internal/domain"
)

func newInspectCommand(a *app) *cobra.Command {
	var (
		category string
		format   string
		seed     uint64
	)

	cmd := &cobra.Command{
		Use:   "inspect <country>",
		Short: "Build and print the view model of a country",
		Long: "Build the view model of a country from the latest snapshots and print it.\n" +
			"The country is a code (USA) or a slug (united-states).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatJSON, formatYAML); err != nil {
				return err
			}

			country, err := lookupCountry(args[0])
			if err != nil {
				return err
			}
			cat, err := domain.ParseCategory(category)
			if err != nil {
				return err
			}

			var opts []service.CountryOption
			if seed != 0 {
				opts = append(opts, service.WithRandomizer(domain.NewSeededRandom(seed)))
			}
			svc, err := a.countryService(opts...)
			if err != nil {
				return err
			}

			data, err := svc.Get(cmd.Context(), country.Code, cat)
			if err != nil {
				return err
			}

			if format == formatYAML {
				return writeYAML(cmd.OutOrStdout(), data)
			}
			return writeJSON(cmd.OutOrStdout(), data)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&category, "category", "c", string(domain.CategoryAll), "category: All, memes, news, politics, economics or sports")
	flags.StringVarP(&format, "format", "o", formatJSON, "output format: json or yaml")
	flags.Uint64Var(&seed, "seed", 0, "seed for the trend noise and summary choice (0 picks a random seed)")

	return cmd
}
