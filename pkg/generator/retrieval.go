package generator

import (
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/specmint/syndata/pkg/model"
	"github.com/specmint/syndata/pkg/retrieval"
	"github.com/specmint/syndata/pkg/schema"
)

func fnvSum(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64() & 0x7FFFFFFFFFFF)
}

// RetrievalGenerator searches a pattern corpus and adapts retrieved
// examples into new records (spec.md 4.7).
type RetrievalGenerator struct {
	store retrieval.Store
	topK  int
	log   zerolog.Logger
}

// NewRetrievalGenerator builds the backend. topK defaults to 5
// (RAG_TOP_K).
func NewRetrievalGenerator(store retrieval.Store, topK int, log zerolog.Logger) *RetrievalGenerator {
	if topK <= 0 {
		topK = 5
	}
	return &RetrievalGenerator{store: store, topK: topK, log: log.With().Str("component", "retrieval_generator").Logger()}
}

func (g *RetrievalGenerator) Name() string { return "retrieval" }

func (g *RetrievalGenerator) Generate(ctx context.Context, req *model.GenerateRequest, sch *schema.Schema) (*Result, error) {
	examples, err := g.search(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(examples) == 0 {
		return &Result{
			Data: nil,
			Metadata: map[string]interface{}{
				"generation_path":    "RETRIEVAL",
				"rag_patterns_found": 0,
				"note":               "no patterns found, caller should fall back to synthetic",
			},
		}, nil
	}

	data := g.adapt(examples, req)
	stampRetrievalScenario(data, req, g.log)

	return &Result{
		Data: data,
		Metadata: map[string]interface{}{
			"generation_path":    "RETRIEVAL",
			"rag_patterns_found": len(examples),
		},
	}, nil
}

// search implements spec.md 4.7's collection selection and query
// construction, opening and closing the store connection for this
// retrieval-path RPC (spec.md section 5: "a session per retrieval-path
// RPC").
func (g *RetrievalGenerator) search(ctx context.Context, req *model.GenerateRequest) ([]retrieval.Example, error) {
	if err := g.store.Connect(ctx); err != nil {
		return nil, err
	}
	defer g.store.Disconnect(ctx)

	collection := retrieval.CollectionFor(req.Flags.DefectTriggering, req.Flags.ProductionLike)

	descriptions := make([]string, 0, len(req.Scenarios))
	for _, sc := range req.Scenarios {
		descriptions = append(descriptions, sc.Description)
	}
	query := retrieval.BuildQuery(req.Domain, req.Entity, req.Context, descriptions)

	examples, err := g.store.Search(ctx, collection, query, g.topK)
	if err != nil {
		return nil, err
	}
	return examples, nil
}

// adapt implements spec.md 4.7 steps 3-4: proportional allocation across
// patterns, defensive payload extraction, and per-variation mutation of
// dynamic fields.
func (g *RetrievalGenerator) adapt(examples []retrieval.Example, req *model.GenerateRequest) []model.Record {
	k := len(examples)
	base := req.Count / k
	rem := req.Count % k

	records := make([]model.Record, 0, req.Count)
	for i, ex := range examples {
		variations := base
		if i < rem {
			variations++
		}
		payload, err := retrieval.ExtractPayload(ex.Data)
		if err != nil {
			g.log.Warn().Err(err).Str("pattern_id", ex.ID).Msg("skipping unparseable pattern")
			continue
		}
		for v := 0; v < variations; v++ {
			records = append(records, mutatePattern(payload, ex.ID, v))
			if len(records) >= req.Count {
				return records[:req.Count]
			}
		}
	}
	return records
}

var idSuffixPattern = regexp.MustCompile(`^([A-Za-z]+-\d{4}-)(\d+)$`)

// mutatePattern copies payload and regenerates its dynamic fields per
// spec.md 4.7 step 4: IDs matching PREFIX-YEAR-NNNNNNN get a deterministic
// trailing-number replacement, timestamps are stamped to now, and any
// other uuid/id field (one whose value does not have that ID shape) gets a
// fresh identifier.
func mutatePattern(payload map[string]interface{}, sourceID string, variation int) model.Record {
	rec := make(model.Record, len(payload)+2)
	for k, v := range payload {
		rec[k] = v
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for key, val := range rec {
		s, isString := val.(string)

		if isString {
			if m := idSuffixPattern.FindStringSubmatch(s); m != nil {
				rec[key] = m[1] + mutatedTrailingDigits(m[2], sourceID, variation)
				continue
			}
		}
		switch {
		case key == "uuid" || key == "id":
			rec[key] = uuid.NewString()
		case isTimestampField(key):
			rec[key] = now
		}
	}
	return rec
}

func isTimestampField(key string) bool {
	switch key {
	case "created_at", "updated_at", "timestamp", "completed_at", "shipped_at":
		return true
	default:
		return false
	}
}

// mutatedTrailingDigits regenerates the trailing numeric group of an ID
// deterministically from the source ID and the variation index, so the
// same (pattern, variation) pair always maps to the same mutated ID.
func mutatedTrailingDigits(original, sourceID string, variation int) string {
	width := len(original)
	n, err := strconv.Atoi(original)
	if err != nil {
		n = 0
	}
	offset := fnvSum(sourceID) + int64(variation)
	mutated := (int64(n) + offset) % pow10(width)
	if mutated < 0 {
		mutated += pow10(width)
	}
	return fmt.Sprintf("%0*d", width, mutated)
}

func pow10(n int) int64 {
	result := int64(1)
	for i := 0; i < n; i++ {
		result *= 10
	}
	return result
}

// stampRetrievalScenario implements spec.md 4.7 step 5, assigning each
// record to the scenario bucket its position falls in (mirroring the
// Synthetic Generator's bucket layout) so retrieval-path output carries
// the same scenario semantics as the other backends.
func stampRetrievalScenario(data []model.Record, req *model.GenerateRequest, log zerolog.Logger) {
	buckets := scenarioBuckets(req, log)
	names := make([]string, 0, len(data))
	for _, b := range buckets {
		for i := 0; i < b.Count && len(names) < len(data); i++ {
			names = append(names, b.Name)
		}
	}
	for len(names) < len(data) {
		names = append(names, "default")
	}
	stamp(data, func(i int) string { return names[i] })
}
