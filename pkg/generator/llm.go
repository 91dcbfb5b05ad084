package generator

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/specmint/syndata/pkg/llmclient"
	"github.com/specmint/syndata/pkg/model"
	"github.com/specmint/syndata/pkg/prompt"
	"github.com/specmint/syndata/pkg/schema"
	"github.com/specmint/syndata/pkg/synerr"
)

// seedFor derives a stable seed from the request so repeated calls for the
// same request_id are reproducible against backends that honour a seed
// parameter.
func seedFor(req *model.GenerateRequest) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(req.RequestID))
	_, _ = h.Write([]byte(req.Entity))
	return int64(h.Sum64() & 0x7FFFFFFFFFFFFFFF)
}

// LLMGenerator drives a primary text-completion backend with an optional
// secondary fallback (spec.md 4.6).
type LLMGenerator struct {
	primary    llmclient.Client
	secondary  llmclient.Client // nil when no fallback is configured
	maxRetries int              // R in spec.md 4.6; default 2
	log        zerolog.Logger
}

// NewLLMGenerator builds the backend. secondary may be nil.
func NewLLMGenerator(primary, secondary llmclient.Client, maxRetries int, log zerolog.Logger) *LLMGenerator {
	if maxRetries <= 0 {
		maxRetries = 2
	}
	return &LLMGenerator{primary: primary, secondary: secondary, maxRetries: maxRetries, log: log.With().Str("component", "llm_generator").Logger()}
}

func (g *LLMGenerator) Name() string { return "llm" }

func (g *LLMGenerator) Generate(ctx context.Context, req *model.GenerateRequest, sch *schema.Schema) (*Result, error) {
	return g.GenerateWithExamples(ctx, req, sch, nil)
}

// GenerateWithExamples implements spec.md 4.6's full algorithm. The Hybrid
// Generator calls this directly to inject retrieval examples into the
// prompt (spec.md 4.8); the plain LLM path calls it with no examples.
func (g *LLMGenerator) GenerateWithExamples(ctx context.Context, req *model.GenerateRequest, sch *schema.Schema, examples []prompt.RetrievalExample) (*Result, error) {
	if sch == nil {
		sch = fallbackSchema(req.Entity)
	}

	system, user, _ := prompt.Build(req, sch, examples)
	start := time.Now()

	var lastErr error
	attempts := 0
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		attempts++
		text, tokens, err := llmclient.CallWithBackoff(ctx, g.log, 3, 500*time.Millisecond, func() (string, int, error) {
			return g.primary.Generate(ctx, system, user, seedFor(req))
		})
		if err != nil {
			lastErr = err
			g.log.Warn().Err(err).Int("attempt", attempt+1).Msg("primary backend call failed")
			break
		}

		records, parseErr := parseRecords(text)
		if parseErr == nil {
			stampLLMRecords(records)
			return &Result{
				Data: records,
				Metadata: map[string]interface{}{
					"generation_path":    "LLM",
					"llm_provider":       g.primary.Name(),
					"attempts":           attempts,
					"tokens_used":        tokens,
					"generation_time_ms": time.Since(start).Milliseconds(),
				},
			}, nil
		}

		lastErr = parseErr
		g.log.Warn().Err(parseErr).Int("attempt", attempt+1).Msg("parse failure, retrying with stricter prompt")
		user = user + "\n\n" + strictJSONAddendum
	}

	if g.secondary != nil {
		g.log.Info().Msg("primary exhausted, falling back to secondary backend")
		text, tokens, err := g.secondary.Generate(ctx, system, user, seedFor(req))
		if err != nil {
			return nil, synerr.Wrap(synerr.KindOf(err), err, "secondary backend generation failed")
		}
		records, err := parseRecords(text)
		if err != nil {
			return nil, synerr.Wrap(synerr.ParseFailure, err, "secondary backend produced unparseable output")
		}
		stampLLMRecords(records)
		return &Result{
			Data: records,
			Metadata: map[string]interface{}{
				"generation_path":    "LLM",
				"llm_provider":       g.secondary.Name(),
				"attempts":           attempts + 1,
				"tokens_used":        tokens,
				"generation_time_ms": time.Since(start).Milliseconds(),
			},
		}, nil
	}

	return nil, synerr.Wrap(synerr.KindOf(lastErr), lastErr, "LLM generation exhausted all attempts")
}

const strictJSONAddendum = "IMPORTANT: output only a valid JSON array, no markdown fences, no prose. Every element must be a JSON object."

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// parseRecords implements spec.md 4.6 step 3: strip a surrounding fence,
// treat a lone object as a one-element list, and reject anything whose
// top level is neither a list nor an object, or whose elements are not
// objects themselves.
func parseRecords(raw string) ([]model.Record, error) {
	text := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	var generic interface{}
	if err := json.Unmarshal([]byte(text), &generic); err != nil {
		return nil, synerr.Wrap(synerr.ParseFailure, err, "response is not valid JSON")
	}

	var rawRecords []interface{}
	switch v := generic.(type) {
	case []interface{}:
		rawRecords = v
	case map[string]interface{}:
		rawRecords = []interface{}{v}
	default:
		return nil, synerr.New(synerr.ParseFailure, "top-level JSON value is neither an array nor an object")
	}

	records := make([]model.Record, 0, len(rawRecords))
	for _, item := range rawRecords {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, synerr.New(synerr.ParseFailure, "array element is not a JSON object")
		}
		records = append(records, model.Record(obj))
	}
	return records, nil
}

// stampLLMRecords forces _index to the record's position and defaults
// _scenario to "default" only when the model did not supply one, matching
// the original agent's behaviour of trusting the model's own scenario tag
// when present.
func stampLLMRecords(records []model.Record) {
	for i, rec := range records {
		rec["_index"] = i
		if _, ok := rec["_scenario"]; !ok {
			rec["_scenario"] = "default"
		}
	}
}
