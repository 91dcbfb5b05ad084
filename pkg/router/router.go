// Package router implements the Intelligence Router (spec.md 4.9): a pure
// function from a GenerateRequest to a RoutingDecision. It has no I/O and no
// dependency on the schema registry — only on request-shaped text.
package router

import (
	"strings"

	"github.com/specmint/syndata/pkg/model"
)

var ragHints = []string{"similar", "pattern", "historical", "production"}
var llmHints = []string{"realistic", "coherent", "intelligent", "natural"}

var textHeavyEntities = map[string]bool{
	"review":      true,
	"comment":     true,
	"feedback":    true,
	"description": true,
}

var coherentEntities = map[string]bool{
	"cart":  true,
	"order": true,
}

// Decide routes a request to one of {SYNTHETIC, LLM, RETRIEVAL, HYBRID}
// following the fixed priority order of spec.md 4.9.
func Decide(req *model.GenerateRequest) model.RoutingDecision {
	if req.GenerationMethod != "" && req.GenerationMethod != model.AUTO {
		return model.RoutingDecision{
			Path:       req.GenerationMethod,
			Reason:     "explicit generation_method override",
			Confidence: 1.0,
		}
	}

	rag := ragConditions(req)
	llm := llmConditions(req)

	manyScenariosWithHistory := len(req.Scenarios) > 2 && (req.Flags.LearnFromHistory || req.Flags.ProductionLike)
	if (rag && llm) || manyScenariosWithHistory {
		reason := "RAG and LLM conditions both hold"
		if manyScenariosWithHistory {
			reason = "more than two scenarios combined with learn_from_history/production_like"
		}
		return model.RoutingDecision{Path: model.HYBRID, Reason: reason, Confidence: 0.9}
	}

	if rag {
		return model.RoutingDecision{Path: model.RETRIEVAL, Reason: ragReason(req), Confidence: 0.85}
	}

	if llm {
		return model.RoutingDecision{Path: model.LLM, Reason: llmReason(req), Confidence: 0.8}
	}

	return model.RoutingDecision{Path: model.SYNTHETIC, Reason: "no routing condition matched; universal fallback", Confidence: 0.95}
}

func ragConditions(req *model.GenerateRequest) bool {
	return req.Flags.LearnFromHistory ||
		req.Flags.DefectTriggering ||
		req.Flags.ProductionLike ||
		req.Hints.Intersects(ragHints...)
}

func llmConditions(req *model.GenerateRequest) bool {
	if len(req.Context) > 10 {
		return true
	}
	if coherentEntities[req.Entity] && req.Hints.Intersects("coherent", "realistic") {
		return true
	}
	if textHeavyEntities[req.Entity] {
		return true
	}
	if req.Hints.Intersects(llmHints...) {
		return true
	}
	for _, sc := range req.Scenarios {
		if len(strings.TrimSpace(sc.Description)) > 20 {
			return true
		}
	}
	return false
}

func ragReason(req *model.GenerateRequest) string {
	switch {
	case req.Flags.LearnFromHistory:
		return "learn_from_history flag set"
	case req.Flags.DefectTriggering:
		return "defect_triggering flag set"
	case req.Flags.ProductionLike:
		return "production_like flag set"
	default:
		return "hints intersect retrieval hint set"
	}
}

func llmReason(req *model.GenerateRequest) string {
	switch {
	case len(req.Context) > 10:
		return "context longer than 10 characters"
	case coherentEntities[req.Entity] && req.Hints.Intersects("coherent", "realistic"):
		return "coherent/realistic hint on cart or order entity"
	case textHeavyEntities[req.Entity]:
		return "text-heavy entity"
	case req.Hints.Intersects(llmHints...):
		return "hints intersect LLM hint set"
	default:
		return "a scenario description exceeds 20 characters"
	}
}
