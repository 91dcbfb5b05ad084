package llmclient

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/specmint/syndata/pkg/synerr"
)

// LocalConfig configures the secondary/local backend (spec.md section 6: S),
// an OpenAI-compatible endpoint such as a vLLM deployment.
type LocalConfig struct {
	BaseURL     string
	Model       string
	MaxTokens   int64
	Temperature float64
	MaxRPS      int
	MaxInFlight int
	Timeout     time.Duration
}

// LocalClient is the secondary backend (S): a bounded connection pool, a
// rate limiter, and a circuit breaker around the raw call, with the raw
// call going through the openai-go client against a vLLM-compatible
// OpenAI endpoint.
type LocalClient struct {
	sdk         openai.Client
	model       string
	maxTokens   int64
	temperature float64
	pool        chan struct{}
	rateLimiter *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
	log         zerolog.Logger
}

// NewLocalClient builds the secondary/local backend.
func NewLocalClient(cfg LocalConfig, log zerolog.Logger) *LocalClient {
	if cfg.MaxRPS <= 0 {
		cfg.MaxRPS = 5
	}
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = 4
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	sdk := openai.NewClient(
		option.WithBaseURL(cfg.BaseURL),
		option.WithRequestTimeout(cfg.Timeout),
	)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "local-llm",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     20 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
	})

	return &LocalClient{
		sdk:         sdk,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		pool:        make(chan struct{}, cfg.MaxInFlight),
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.MaxRPS), cfg.MaxRPS),
		breaker:     breaker,
		log:         log.With().Str("backend", "local").Logger(),
	}
}

func (c *LocalClient) Name() string { return "local:" + c.model }

func (c *LocalClient) Generate(ctx context.Context, system, user string, seed int64) (string, int, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", 0, synerr.Wrap(synerr.BackendTimeout, err, "rate limiter wait cancelled")
	}

	select {
	case c.pool <- struct{}{}:
		defer func() { <-c.pool }()
	case <-ctx.Done():
		return "", 0, synerr.Wrap(synerr.BackendTimeout, ctx.Err(), "connection pool wait cancelled")
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doGenerate(ctx, system, user, seed)
	})
	if err != nil {
		return "", 0, err
	}
	r := result.(generateResult)
	return r.text, r.tokens, nil
}

func (c *LocalClient) doGenerate(ctx context.Context, system, user string, seed int64) (generateResult, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxTokens:   openai.Int(c.maxTokens),
		Temperature: openai.Float(c.temperature),
		Seed:        openai.Int(seed),
	}

	resp, err := c.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		return generateResult{}, classifyLocalError(err)
	}
	if len(resp.Choices) == 0 {
		return generateResult{}, synerr.New(synerr.BackendOther, "local backend returned no choices")
	}

	text := resp.Choices[0].Message.Content
	tokens := int(resp.Usage.TotalTokens)
	return generateResult{text: text, tokens: tokens}, nil
}

func (c *LocalClient) Close() error { return nil }

func classifyLocalError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return synerr.Wrap(synerr.BackendTimeout, err, "local backend request timed out")
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429:
			return synerr.Wrap(synerr.BackendRateLimit, err, "local backend rate limit")
		case 401, 403:
			return synerr.Wrap(synerr.BackendAuth, err, "local backend authentication failure")
		case 408, 504:
			return synerr.Wrap(synerr.BackendTimeout, err, "local backend request timed out")
		default:
			return synerr.Wrap(synerr.BackendOther, err, "local backend API error")
		}
	}
	return synerr.Wrap(synerr.BackendOther, err, "local backend call failed")
}
