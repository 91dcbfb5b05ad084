package constraint

import (
	"testing"

	"github.com/specmint/syndata/pkg/model"
	"github.com/specmint/syndata/pkg/schema"
)

func minMaxSchema() *schema.Schema {
	min, max := 1.0, 5.0
	return &schema.Schema{
		Name:       "widget",
		FieldOrder: []string{"rating", "sku", "tags"},
		Fields: map[string]*schema.FieldDef{
			"rating": {Type: schema.TypeInteger, Required: true, Min: &min, Max: &max},
			"sku":    {Type: schema.TypeString, Required: true, Pattern: `[A-Z]{2}[0-9]{6}`},
			"tags": {
				Type: schema.TypeArray,
				ItemSchema: &schema.FieldDef{Type: schema.TypeString},
			},
		},
	}
}

func TestValidate_MissingRequiredField(t *testing.T) {
	sch := minMaxSchema()
	rec := model.Record{"sku": "AB123456"}
	issues := Validate(sch, nil, rec)

	found := false
	for _, iss := range issues {
		if iss.FieldPath == "rating" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a missing-field issue for rating, got %+v", issues)
	}
}

func TestValidate_OutOfRangeProducesExactlyOneError(t *testing.T) {
	sch := minMaxSchema()
	rec := model.Record{"rating": 9, "sku": "AB123456", "tags": []interface{}{"a"}}
	issues := Validate(sch, nil, rec)
	if len(issues) != 1 {
		t.Fatalf("expected exactly one issue, got %d: %+v", len(issues), issues)
	}
	if issues[0].FieldPath != "rating" {
		t.Fatalf("expected issue on rating, got %s", issues[0].FieldPath)
	}
}

func TestValidate_PatternIsFullMatchAnchored(t *testing.T) {
	sch := minMaxSchema()
	rec := model.Record{"rating": 3, "sku": "xxAB123456", "tags": []interface{}{}}
	issues := Validate(sch, nil, rec)
	found := false
	for _, iss := range issues {
		if iss.FieldPath == "sku" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected sku pattern mismatch due to full-match anchoring, got %+v", issues)
	}
}

func TestValidate_RequestLevelOverrideWins(t *testing.T) {
	sch := minMaxSchema()
	newMax := 10.0
	constraints := map[string]model.ConstraintSpec{"rating": {Max: &newMax}}
	rec := model.Record{"rating": 8, "sku": "AB123456", "tags": []interface{}{}}
	issues := Validate(sch, constraints, rec)
	if len(issues) != 0 {
		t.Fatalf("expected override to permit value 8, got %+v", issues)
	}
}

func TestValidate_NoShortCircuit(t *testing.T) {
	sch := minMaxSchema()
	rec := model.Record{"rating": 100, "sku": "bad"}
	issues := Validate(sch, nil, rec)
	if len(issues) < 2 {
		t.Fatalf("expected multiple collected issues, got %d: %+v", len(issues), issues)
	}
}
