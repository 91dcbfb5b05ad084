// Package generator implements the four co-operating generation backends
// of spec.md section 4: Synthetic (4.5), LLM (4.6), Retrieval (4.7), and
// Hybrid (4.8), plus the shared Result/Generator contract they all satisfy.
package generator

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/specmint/syndata/pkg/model"
	"github.com/specmint/syndata/pkg/schema"
)

// Result is the internal GenerationResult of spec.md section 3.
type Result struct {
	Data     []model.Record
	Metadata map[string]interface{}
}

// Generator is the contract every backend (Synthetic/LLM/Retrieval/Hybrid)
// satisfies.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req *model.GenerateRequest, sch *schema.Schema) (*Result, error)
}

// scenarioBucket is one (name, count, overrides, description) partition of
// a request, used identically by the Synthetic, LLM and Retrieval
// Generators (spec.md 4.5 step 2 / 4.6 / 4.7).
type scenarioBucket struct {
	Name        string
	Count       int
	Description string
	Overrides   map[string]interface{}
}

// scenarioBuckets implements spec.md 4.5 step 2's scenario distribution:
// one "default" bucket spanning the whole count when none are declared,
// otherwise each declared scenario's own count. Declared scenario counts
// are the source of truth for allocation even when they don't sum to
// req.Count; a mismatch is only logged, per spec.md §9.
func scenarioBuckets(req *model.GenerateRequest, log zerolog.Logger) []scenarioBucket {
	if len(req.Scenarios) == 0 {
		return []scenarioBucket{{Name: "default", Count: req.Count}}
	}
	buckets := make([]scenarioBucket, 0, len(req.Scenarios))
	for _, sc := range req.Scenarios {
		buckets = append(buckets, scenarioBucket{
			Name:        sc.Name,
			Count:       sc.Count,
			Description: sc.Description,
			Overrides:   sc.Overrides,
		})
	}

	if total := req.ScenarioCountSum(); total != req.Count {
		log.Warn().Int("expected", req.Count).Int("actual", total).Msg("scenario_count_mismatch")
	}

	return buckets
}

// stamp sets the reserved _index/_scenario metadata keys of spec.md
// section 3 on every record in data, in place.
func stamp(data []model.Record, scenarioOf func(i int) string) {
	for i, rec := range data {
		rec["_index"] = i
		rec["_scenario"] = scenarioOf(i)
	}
}

// fallbackSchema implements spec.md 4.5 step 1's last resort: a minimal
// schema with no fields when neither the registry nor an inline document
// resolves one.
func fallbackSchema(entity string) *schema.Schema {
	return &schema.Schema{Name: entity, Fields: map[string]*schema.FieldDef{}}
}
