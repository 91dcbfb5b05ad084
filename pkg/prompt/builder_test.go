package prompt

import (
	"strings"
	"testing"

	"github.com/specmint/syndata/pkg/model"
)

func TestChoose_PrefersEdgeCaseOverEverything(t *testing.T) {
	req := &model.GenerateRequest{
		Entity: "cart",
		Flags:  model.Flags{DefectTriggering: true},
		Hints:  model.NewHintSet("coherent"),
	}
	if got := Choose(req, []RetrievalExample{{ID: "x"}}); got != EdgeCase {
		t.Fatalf("expected EdgeCase, got %s", got)
	}
}

func TestChoose_CoherentForOrderWithHint(t *testing.T) {
	req := &model.GenerateRequest{Entity: "order", Hints: model.NewHintSet("realistic")}
	if got := Choose(req, nil); got != Coherent {
		t.Fatalf("expected Coherent, got %s", got)
	}
}

func TestChoose_TextContentForReview(t *testing.T) {
	req := &model.GenerateRequest{Entity: "review"}
	if got := Choose(req, nil); got != TextContent {
		t.Fatalf("expected TextContent, got %s", got)
	}
}

func TestChoose_RAGWhenExamplesPresent(t *testing.T) {
	req := &model.GenerateRequest{Entity: "product"}
	if got := Choose(req, []RetrievalExample{{ID: "x"}}); got != RAG {
		t.Fatalf("expected RAG, got %s", got)
	}
}

func TestChoose_GeneralByDefault(t *testing.T) {
	req := &model.GenerateRequest{Entity: "product"}
	if got := Choose(req, nil); got != General {
		t.Fatalf("expected General, got %s", got)
	}
}

func TestBuild_IncludesCountEntityDomainAndEdgeCaseInstructions(t *testing.T) {
	req := &model.GenerateRequest{
		Entity: "cart",
		Domain: "ecommerce",
		Count:  5,
		Flags:  model.Flags{DefectTriggering: true},
	}
	system, user, tmpl := Build(req, nil, nil)
	if tmpl != EdgeCase {
		t.Fatalf("expected EdgeCase template, got %s", tmpl)
	}
	if !strings.Contains(user, "Generate 5 records for entity \"cart\" in domain \"ecommerce\"") {
		t.Fatalf("user prompt missing count/entity/domain: %s", user)
	}
	if !strings.Contains(user, "edge cases") {
		t.Fatalf("expected edge case instructions in user prompt: %s", user)
	}
	if !strings.Contains(system, "adversarial edge cases") {
		t.Fatalf("expected edge-case persona in system prompt: %s", system)
	}
}

func TestBuild_IncludesScenarioBreakdown(t *testing.T) {
	req := &model.GenerateRequest{
		Entity: "order",
		Scenarios: []model.Scenario{
			{Name: "high_value", Count: 3, Description: "large orders"},
		},
	}
	_, user, _ := Build(req, nil, nil)
	if !strings.Contains(user, "high_value: 3 records (large orders)") {
		t.Fatalf("expected scenario breakdown in user prompt: %s", user)
	}
}
