package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"country-pulse-service/internal/app/service"
	"country-pulse-service/internal/bootstrap"
	rediscache "country-pulse-service/internal/infra/redis"
)

func newWarmCommand(a *app) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "warm [country]",
		Short: "Build and cache All view models in the configured Redis",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := bootstrap.NewRedisClient(ctx, a.cfg.Redis)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			cache := rediscache.NewCache(client, a.logger, a.cfg.Cache.KeyPrefix)
			svc, err := a.countryService(service.WithCache(cache, a.cfg.Cache.TTL))
			if err != nil {
				return err
			}

			if concurrency <= 0 {
				concurrency = a.cfg.Warmup.Concurrency
			}
			warmup := service.NewWarmupService(svc, concurrency, a.logger)

			var results []service.WarmupResult
			if len(args) == 1 {
				country, err := lookupCountry(args[0])
				if err != nil {
					return err
				}
				r, err := warmup.WarmCountry(ctx, country.Code)
				if err != nil {
					return err
				}
				results = []service.WarmupResult{*r}
			} else {
				results = warmup.WarmAll(ctx)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "COUNTRY\tITEMS\tSTATUS\tDURATION")
			failed := 0
			for _, r := range results {
				status := "cached"
				switch {
				case r.Error != nil:
					status = "error: " + r.Error.Error()
					failed++
				case r.NoData:
					status = "no data"
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", r.Country, r.Items, status, r.Duration.Round(time.Millisecond))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d countries failed to warm", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "countries built at once (default from config)")

	return cmd
}
