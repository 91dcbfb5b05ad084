package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/specmint/syndata/internal/config"
	"github.com/specmint/syndata/pkg/cache"
	"github.com/specmint/syndata/pkg/generator"
	"github.com/specmint/syndata/pkg/llmclient"
	"github.com/specmint/syndata/pkg/orchestrator"
	"github.com/specmint/syndata/pkg/retrieval"
	"github.com/specmint/syndata/pkg/schema"
)

// stack bundles every collaborator the Orchestrator needs, built once
// per process and reused across RPCs (spec.md section 5: "LLM and
// retrieval client objects are long-lived"), except the retrieval store
// itself which connects per-call inside the Retrieval Generator.
type stack struct {
	registry     *schema.Registry
	orchestrator *orchestrator.Orchestrator
	cache        cache.Cache
}

func buildStack(cfg *config.Config, log zerolog.Logger, metrics orchestrator.Metrics) (*stack, error) {
	registry := schema.NewRegistry()

	redisOpts, err := redis.ParseURL(cfg.Cache.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis_url: %w", err)
	}

	store := retrieval.NewRedisStore(redisOpts)
	redisCache := cache.NewRedisCache(redisOpts, cfg.Cache.DefaultTTL, log)

	primary := llmclient.NewAnthropicClient(llmclient.AnthropicConfig{
		APIKey:      cfg.Anthropic.APIKey,
		Model:       cfg.Anthropic.Model,
		MaxTokens:   cfg.Anthropic.MaxTokens,
		Temperature: cfg.Anthropic.Temperature,
		MaxRPS:      cfg.Anthropic.MaxRPS,
		Timeout:     cfg.Anthropic.Timeout,
	}, log)

	var secondary llmclient.Client
	if cfg.Local.Enabled {
		secondary = llmclient.NewLocalClient(llmclient.LocalConfig{
			BaseURL:     cfg.Local.BaseURL,
			Model:       cfg.Local.Model,
			MaxTokens:   cfg.Local.MaxTokens,
			Temperature: cfg.Local.Temperature,
			MaxRPS:      cfg.Local.MaxRPS,
			MaxInFlight: cfg.Local.MaxInFlight,
			Timeout:     cfg.Local.Timeout,
		}, log)
	}

	syntheticGen := generator.NewSyntheticGenerator(0, log)
	llmGen := generator.NewLLMGenerator(primary, secondary, 2, log)
	retrievalGen := generator.NewRetrievalGenerator(store, cfg.Retrieval.TopK, log)
	hybridGen := generator.NewHybridGenerator(retrievalGen, llmGen, log)

	orch := orchestrator.New(orchestrator.Config{
		Registry:         registry,
		Synthetic:        syntheticGen,
		LLM:              llmGen,
		Retrieval:        retrievalGen,
		Hybrid:           hybridGen,
		Log:              log,
		MaxSyncRecords:   cfg.MaxSyncRecords,
		DefaultBatchSize: cfg.DefaultBatchSize,
		Metrics:          metrics,
	})

	return &stack{registry: registry, orchestrator: orch, cache: redisCache}, nil
}
