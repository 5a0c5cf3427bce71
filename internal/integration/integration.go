// Package integration wires the Shodan lookup pipeline together and exposes the
// operations the host runtime calls: lookup, retry, option validation and the descriptor.
package integration

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/EuricoCruz/shodan_enrichment/internal/adapter/dispatch"
	"github.com/EuricoCruz/shodan_enrichment/internal/adapter/shodan"
	redisAdapter "github.com/EuricoCruz/shodan_enrichment/internal/adapter/storage/redis"
	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
	"github.com/EuricoCruz/shodan_enrichment/internal/domain/repository"
	"github.com/EuricoCruz/shodan_enrichment/internal/infrastructure/config"
	"github.com/EuricoCruz/shodan_enrichment/internal/infrastructure/httpclient"
	infraRedis "github.com/EuricoCruz/shodan_enrichment/internal/infrastructure/redis"
	"github.com/EuricoCruz/shodan_enrichment/internal/usecase/lookup_entities"
	"github.com/EuricoCruz/shodan_enrichment/internal/usecase/retry_entity"
)

// Integration owns the limiter registry and the use cases built on it
type Integration struct {
	registry   *dispatch.Registry
	sharedGate repository.DispatchGate // nil unless Redis is enabled
	lookup     *lookup_entities.UseCase
	retry      *retry_entity.UseCase
	log        logrus.FieldLogger
	logLevel   string
}

// Startup builds the HTTP client from the request options and assembles the pipeline.
// With Redis enabled every lane paces itself through Redis, falling back to local
// pacing while Redis is unreachable.
func Startup(cfg *config.Config, log logrus.Ext1FieldLogger) (*Integration, error) {
	httpClient, err := httpclient.New(cfg.Request)
	if err != nil {
		return nil, fmt.Errorf("build http client: %w", err)
	}

	opts := []dispatch.Option{
		dispatch.WithMaxKeys(cfg.LimiterMaxKeys),
		dispatch.WithLogger(log),
	}

	var sharedGate repository.DispatchGate
	if cfg.RedisEnabled {
		redisClient, err := infraRedis.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		sharedGate = dispatch.NewFallbackGate(redisAdapter.NewRedisGate(redisClient), dispatch.NewMemoryGate(), log)
		opts = append(opts, dispatch.WithGateFactory(func() repository.DispatchGate { return sharedGate }))
		log.WithField("redis", cfg.RedisAddr()).Info("Limiter pacing shared through Redis")
	}

	policy := dispatch.Policy{MinTime: cfg.LimiterMinTime, HighWater: cfg.LimiterHighWater}
	registry := dispatch.NewRegistry(policy, opts...)
	source := shodan.NewClient(httpClient, cfg.ShodanBaseURL, log)

	return newIntegration(source, registry, sharedGate, log, cfg.LogLevel), nil
}

func newIntegration(
	source repository.HostSource,
	registry *dispatch.Registry,
	sharedGate repository.DispatchGate,
	log logrus.FieldLogger,
	logLevel string,
) *Integration {
	lookup := lookup_entities.NewUseCase(source, registry, log)
	return &Integration{
		registry:   registry,
		sharedGate: sharedGate,
		lookup:     lookup,
		retry:      retry_entity.NewUseCase(lookup, log),
		log:        log,
		logLevel:   logLevel,
	}
}

// Lookup enriches a batch of entities. See lookup_entities.UseCase.Execute.
func (i *Integration) Lookup(ctx context.Context, entities []entity.Entity, options lookup_entities.Options) ([]entity.LookupResult, error) {
	output, err := i.lookup.Execute(ctx, lookup_entities.Input{Entities: entities, Options: options})
	if err != nil {
		return nil, err
	}
	return output.Results, nil
}

// Retry looks up the entity of a previous placeholder result again
func (i *Integration) Retry(ctx context.Context, previous entity.LookupResult, options lookup_entities.Options) (*retry_entity.Output, error) {
	return i.retry.Execute(ctx, retry_entity.Input{Previous: previous, Options: options})
}

// Descriptor returns the integration metadata
func (i *Integration) Descriptor() DescriptorSpec {
	return Descriptor(i.logLevel)
}

// Lanes returns the number of API keys with a live limiter
func (i *Integration) Lanes() int {
	return i.registry.Len()
}

// Close tears down every limiter and releases the shared gate
func (i *Integration) Close() error {
	i.registry.Close()
	if i.sharedGate != nil {
		return i.sharedGate.Close()
	}
	return nil
}
