package generator

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/specmint/syndata/pkg/model"
	"github.com/specmint/syndata/pkg/schema"
)

func testSchema() *schema.Schema {
	minLen, maxLen := 3, 10
	minQty, maxQty := 1.0, 9.0
	return &schema.Schema{
		Name: "widget",
		Fields: map[string]*schema.FieldDef{
			"id":       {Type: schema.TypeUUID},
			"name":     {Type: schema.TypeString, MinLength: &minLen, MaxLength: &maxLen},
			"quantity": {Type: schema.TypeInteger, Min: &minQty, Max: &maxQty},
			"sku":      {Type: schema.TypeString, Pattern: `^[A-Z]{2}[0-9]{6}$`},
		},
		FieldOrder: []string{"id", "name", "quantity", "sku"},
	}
}

func TestSyntheticGenerator_IsDeterministic(t *testing.T) {
	req := &model.GenerateRequest{Entity: "widget", Count: 5}
	sch := testSchema()

	a, err := NewSyntheticGenerator(42, zerolog.Nop()).Generate(context.Background(), req, sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NewSyntheticGenerator(42, zerolog.Nop()).Generate(context.Background(), req, sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range a.Data {
		if a.Data[i]["id"] != b.Data[i]["id"] || a.Data[i]["sku"] != b.Data[i]["sku"] {
			t.Fatalf("same seed produced different records at index %d: %v vs %v", i, a.Data[i], b.Data[i])
		}
	}
}

func TestSyntheticGenerator_StampsIndexAndScenario(t *testing.T) {
	req := &model.GenerateRequest{
		Entity: "widget",
		Count:  4,
		Scenarios: []model.Scenario{
			{Name: "low_stock", Count: 2},
			{Name: "high_stock", Count: 2},
		},
	}
	result, err := NewSyntheticGenerator(1, zerolog.Nop()).Generate(context.Background(), req, testSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Data) != 4 {
		t.Fatalf("expected 4 records, got %d", len(result.Data))
	}
	for i, rec := range result.Data {
		if rec["_index"] != i {
			t.Errorf("record %d has _index %v", i, rec["_index"])
		}
	}
	if result.Data[0]["_scenario"] != "low_stock" || result.Data[2]["_scenario"] != "high_stock" {
		t.Errorf("scenario stamping mismatch: %v", result.Data)
	}
}

func TestSyntheticGenerator_RespectsScenarioOverrides(t *testing.T) {
	req := &model.GenerateRequest{
		Entity: "widget",
		Count:  1,
		Scenarios: []model.Scenario{
			{Name: "fixed", Count: 1, Overrides: map[string]interface{}{"sku": "ZZ999999"}},
		},
	}
	result, err := NewSyntheticGenerator(7, zerolog.Nop()).Generate(context.Background(), req, testSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Data[0]["sku"] != "ZZ999999" {
		t.Fatalf("expected override to win, got %v", result.Data[0]["sku"])
	}
}

func TestSyntheticGenerator_PatternFieldMatchesSKUFormat(t *testing.T) {
	req := &model.GenerateRequest{Entity: "widget", Count: 20}
	result, err := NewSyntheticGenerator(99, zerolog.Nop()).Generate(context.Background(), req, testSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, rec := range result.Data {
		sku, _ := rec["sku"].(string)
		if len(sku) != 8 {
			t.Fatalf("expected 8-character SKU, got %q", sku)
		}
	}
}
