// Package cli implements pulsectl, the operator command line for inspecting
// snapshots and view models without running the API.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"country-pulse-service/internal/app/service"
	"country-pulse-service/internal/bootstrap"
	"country-pulse-service/internal/config"
	"country-pulse-service/internal/domain"
	"country-pulse-service/internal/infra/snapshot"
	"country-pulse-service/internal/logger"
)

// app carries the state shared by every subcommand.
type app struct {
	cfgFile  string
	root     string
	logLevel string

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand builds the pulsectl command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "pulsectl",
		Short:         "Inspect country pulse snapshots and view models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./config/config.yaml or ./config.yaml)")
	flags.StringVar(&a.root, "root", "", "read snapshots from this directory instead of the configured source")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level written to stderr")

	cmd.AddCommand(
		newCountriesCommand(a),
		newInspectCommand(a),
		newSnapshotsCommand(a),
		newWarmCommand(a),
	)

	return cmd
}

// Execute runs pulsectl with the process arguments.
func Execute(ctx context.Context, stderr io.Writer) int {
	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func (a *app) init() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.root != "" {
		cfg.Snapshot.Source = config.SourceFS
		cfg.Snapshot.Root = a.root
	}
	a.cfg = cfg

	log, err := logger.New("pulsectl",
		logger.Config{Level: a.logLevel, Format: "console", Output: "stderr"},
		logger.SentryConfig{},
	)
	if err != nil {
		return err
	}
	a.logger = log.Logger

	return nil
}

// countryService builds an uncached CountryService over the configured store.
func (a *app) countryService(opts ...service.CountryOption) (*service.CountryService, error) {
	store, err := bootstrap.NewSnapshotStore(a.cfg.Snapshot, a.logger)
	if err != nil {
		return nil, err
	}

	loader := snapshot.NewLoader(store, a.logger)

	return service.NewCountryService(loader, snapshot.NewNormalizer(), a.logger, opts...), nil
}

// lookupCountry accepts a country code or a slug.
func lookupCountry(arg string) (domain.Country, error) {
	if c, err := domain.LookupCountry(arg); err == nil {
		return c, nil
	}

	code, err := domain.CodeFromSlug(arg)
	if err != nil {
		return domain.Country{}, fmt.Errorf("%w: %q", err, arg)
	}

	return domain.LookupCountry(code)
}
