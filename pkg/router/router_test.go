package router

import (
	"testing"

	"github.com/specmint/syndata/pkg/model"
)

func TestDecide_ExplicitOverride(t *testing.T) {
	req := &model.GenerateRequest{Entity: "user", GenerationMethod: model.LLM}
	got := Decide(req)
	if got.Path != model.LLM || got.Confidence != 1.0 {
		t.Fatalf("got %+v, want LLM at confidence 1.0", got)
	}
}

func TestDecide_DefectTriggeringRoutesAwayFromSynthetic(t *testing.T) {
	req := &model.GenerateRequest{Entity: "cart", Flags: model.Flags{DefectTriggering: true}}
	got := Decide(req)
	if got.Path != model.RETRIEVAL && got.Path != model.HYBRID {
		t.Fatalf("got %s, want RETRIEVAL or HYBRID", got.Path)
	}
}

func TestDecide_ReviewEntityRoutesLLM(t *testing.T) {
	req := &model.GenerateRequest{Entity: "review", Count: 50, Hints: model.NewHintSet()}
	got := Decide(req)
	if got.Path != model.LLM {
		t.Fatalf("got %s, want LLM", got.Path)
	}
}

func TestDecide_PlainUserRequestIsSynthetic(t *testing.T) {
	req := &model.GenerateRequest{Entity: "user", Count: 5, Hints: model.NewHintSet()}
	got := Decide(req)
	if got.Path != model.SYNTHETIC {
		t.Fatalf("got %s, want SYNTHETIC", got.Path)
	}
	if got.Confidence != 0.95 {
		t.Fatalf("got confidence %v, want 0.95", got.Confidence)
	}
}

func TestDecide_HybridFromManyScenarios(t *testing.T) {
	req := &model.GenerateRequest{
		Entity: "order",
		Flags:  model.Flags{LearnFromHistory: true},
		Scenarios: []model.Scenario{
			{Name: "a", Count: 1}, {Name: "b", Count: 1}, {Name: "c", Count: 1},
		},
	}
	got := Decide(req)
	if got.Path != model.HYBRID {
		t.Fatalf("got %s, want HYBRID", got.Path)
	}
}

func TestDecide_LongContextRoutesLLM(t *testing.T) {
	req := &model.GenerateRequest{Entity: "widget", Context: "a lengthy free-form description of the scenario"}
	got := Decide(req)
	if got.Path != model.LLM {
		t.Fatalf("got %s, want LLM", got.Path)
	}
}
