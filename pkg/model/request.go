// Package model holds the request/response/record types shared by the
// Router, Generators, and Orchestrator (spec.md section 3).
package model

import "encoding/json"

// GenerationMethod is the explicit override / routing decision path.
type GenerationMethod string

const (
	AUTO      GenerationMethod = "AUTO"
	SYNTHETIC GenerationMethod = "SYNTHETIC"
	LLM       GenerationMethod = "LLM"
	RETRIEVAL GenerationMethod = "RETRIEVAL"
	HYBRID    GenerationMethod = "HYBRID"
)

// Scenario partitions a request's output (spec.md section 3).
type Scenario struct {
	Name        string
	Count       int
	Description string
	Overrides   map[string]interface{}
}

// ConstraintSpec is a request-level per-field constraint override
// (spec.md section 3). Pointer fields distinguish "not set" from a zero
// value, since zero is a meaningful min/max.
type ConstraintSpec struct {
	Min         *float64
	Max         *float64
	MinLength   *int
	MaxLength   *int
	EnumValues  []interface{}
	Regex       string
	Format      string
}

// Flags biases routing (spec.md section 3).
type Flags struct {
	LearnFromHistory bool
	DefectTriggering bool
	ProductionLike   bool
}

// HintSet is the unordered set of lowercase routing/prompt hints.
type HintSet map[string]struct{}

// NewHintSet builds a HintSet from a slice of tags.
func NewHintSet(tags ...string) HintSet {
	h := make(HintSet, len(tags))
	for _, t := range tags {
		h[t] = struct{}{}
	}
	return h
}

// Has reports whether tag is present.
func (h HintSet) Has(tag string) bool {
	_, ok := h[tag]
	return ok
}

// Intersects reports whether any of tags is present in h.
func (h HintSet) Intersects(tags ...string) bool {
	for _, t := range tags {
		if h.Has(t) {
			return true
		}
	}
	return false
}

// GenerateRequest is the work unit driving the whole pipeline
// (spec.md section 3).
type GenerateRequest struct {
	RequestID   string
	Domain      string
	Entity      string
	Count       int
	Context     string
	Hints       HintSet
	Scenarios   []Scenario
	Constraints map[string]ConstraintSpec

	// SchemaRef carries the raw inline schema document when the caller
	// supplied one; nil when schema_ref names a registry entry or is
	// absent (then Entity is used as the lookup name).
	SchemaRef     json.RawMessage
	SchemaRefName string

	Flags            Flags
	GenerationMethod GenerationMethod
}

// ScenarioCounts returns the name->count map for convenience; scenarios
// sharing a name keep the count of the last one.
func (r *GenerateRequest) ScenarioCounts() map[string]int {
	counts := make(map[string]int, len(r.Scenarios))
	for _, sc := range r.Scenarios {
		counts[sc.Name] = sc.Count
	}
	return counts
}

// ScenarioCountSum sums declared scenario counts.
func (r *GenerateRequest) ScenarioCountSum() int {
	sum := 0
	for _, sc := range r.Scenarios {
		sum += sc.Count
	}
	return sum
}
