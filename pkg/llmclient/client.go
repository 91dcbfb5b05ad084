// Package llmclient implements the LLM Generator's text-model backend
// contract (spec.md 4.6 and section 6): generate_json(system, user)
// classified into RateLimit/Timeout/Auth/Other, wrapped in a
// circuit-breaker + rate-limiter + bounded-retry shape.
package llmclient

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/specmint/syndata/pkg/synerr"
)

// Client is the primary/secondary text-model backend contract.
type Client interface {
	// Generate returns the raw model text for (system, user); the caller
	// (LLM Generator) is responsible for JSON fence-stripping and parsing.
	Generate(ctx context.Context, system, user string, seed int64) (text string, tokensUsed int, err error)
	Name() string
	Close() error
}

// CallWithBackoff retries fn up to maxAttempts times with exponential
// backoff base*2^k, but only for errors classified as retryable
// (BackendRateLimit, BackendTimeout) -- spec.md 4.6: "authentication and
// other API errors are not retried."
func CallWithBackoff(ctx context.Context, log zerolog.Logger, maxAttempts int, base time.Duration, fn func() (string, int, error)) (string, int, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := base * time.Duration(1<<uint(attempt-1))
			log.Debug().Int("attempt", attempt).Dur("backoff", backoff).Msg("retrying backend call")
			select {
			case <-ctx.Done():
				return "", 0, ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, tokens, err := fn()
		if err == nil {
			return text, tokens, nil
		}
		lastErr = err
		if !synerr.Retryable(err) {
			return "", 0, err
		}
	}
	return "", 0, synerr.Wrap(synerr.KindOf(lastErr), lastErr, "exhausted retry attempts")
}
