package llmclient

import (
	"context"
	"errors"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/specmint/syndata/pkg/synerr"
)

// AnthropicConfig configures the primary backend (spec.md section 6: P).
type AnthropicConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int64
	Temperature float64
	MaxRPS      int
	Timeout     time.Duration
}

// AnthropicClient is the primary text-model backend (P). It wraps the raw
// SDK call in a circuit-breaker + rate-limiter shape.
type AnthropicClient struct {
	sdk         anthropic.Client
	model       anthropic.Model
	maxTokens   int64
	temperature float64
	rateLimiter *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
	log         zerolog.Logger
}

// NewAnthropicClient builds the primary backend. Config.APIKey is required;
// callers should treat a missing key as "LLM path unavailable" per
// spec.md section 6 rather than as a construction error.
func NewAnthropicClient(cfg AnthropicConfig, log zerolog.Logger) *AnthropicClient {
	if cfg.MaxRPS <= 0 {
		cfg.MaxRPS = 3
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	sdk := anthropic.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
	)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "anthropic",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
	})

	return &AnthropicClient{
		sdk:         sdk,
		model:       anthropic.Model(cfg.Model),
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.MaxRPS), cfg.MaxRPS),
		breaker:     breaker,
		log:         log.With().Str("backend", "anthropic").Logger(),
	}
}

func (c *AnthropicClient) Name() string { return "anthropic:" + string(c.model) }

// Generate calls the primary backend once. The LLM Generator's own retry
// loop (spec.md 4.6 step 6) wraps repeated calls with CallWithBackoff.
func (c *AnthropicClient) Generate(ctx context.Context, system, user string, seed int64) (string, int, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", 0, synerr.Wrap(synerr.BackendTimeout, err, "rate limiter wait cancelled")
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doGenerate(ctx, system, user)
	})
	if err != nil {
		return "", 0, err
	}
	r := result.(generateResult)
	return r.text, r.tokens, nil
}

type generateResult struct {
	text   string
	tokens int
}

func (c *AnthropicClient) doGenerate(ctx context.Context, system, user string) (generateResult, error) {
	msg, err := c.sdk.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return generateResult{}, classifyAnthropicError(err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	tokens := 0
	tokens += int(msg.Usage.InputTokens)
	tokens += int(msg.Usage.OutputTokens)

	return generateResult{text: text, tokens: tokens}, nil
}

func (c *AnthropicClient) Close() error { return nil }

func classifyAnthropicError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return synerr.Wrap(synerr.BackendTimeout, err, "anthropic request timed out")
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429:
			return synerr.Wrap(synerr.BackendRateLimit, err, "anthropic rate limit")
		case 401, 403:
			return synerr.Wrap(synerr.BackendAuth, err, "anthropic authentication failure")
		case 408, 504:
			return synerr.Wrap(synerr.BackendTimeout, err, "anthropic request timed out")
		default:
			return synerr.Wrap(synerr.BackendOther, err, "anthropic API error")
		}
	}
	return synerr.Wrap(synerr.BackendOther, err, "anthropic call failed")
}
