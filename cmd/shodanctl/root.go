package main

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
	"github.com/EuricoCruz/shodan_enrichment/internal/infrastructure/config"
	"github.com/EuricoCruz/shodan_enrichment/internal/infrastructure/logger"
	"github.com/EuricoCruz/shodan_enrichment/internal/integration"
	"github.com/EuricoCruz/shodan_enrichment/internal/usecase/lookup_entities"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// lookupService is the part of the integration the CLI drives
type lookupService interface {
	Lookup(ctx context.Context, entities []entity.Entity, options lookup_entities.Options) ([]entity.LookupResult, error)
	Close() error
}

// startService is swapped in tests
var startService = func(cfg *config.Config, log logrus.Ext1FieldLogger) (lookupService, error) {
	return integration.Startup(cfg, log)
}

type rootOptions struct {
	apiKey  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "shodanctl",
		Short: "Enrich IP addresses and IPv4 networks with Shodan",
		Long: `shodanctl looks up IP addresses and IPv4 CIDR blocks on Shodan with the same
per-key pacing the enrichment service uses, and prints the summary tags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "Shodan API key (defaults to SHODAN_API_KEY)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pacing and HTTP details")

	cmd.AddCommand(newLookupCmd(opts), newValidateCmd(opts), newDescriptorCmd())
	return cmd
}

// loadConfig loads the environment and resolves the API key flag against it
func (o *rootOptions) loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if o.apiKey == "" {
		o.apiKey = cfg.ShodanAPIKey
	}

	log := logger.NewDevelopment()
	if !o.verbose {
		log.SetLevel(logrus.WarnLevel)
	}
	return cfg, log, nil
}
