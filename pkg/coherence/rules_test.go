package coherence

import "testing"

func TestBusinessRules_IgnoresNonEcommerceDomains(t *testing.T) {
	record := map[string]interface{}{"sku": "bad"}
	if warnings := BusinessRules("healthcare", record); warnings != nil {
		t.Fatalf("expected no warnings outside ecommerce, got %v", warnings)
	}
}

func TestBusinessRules_FlagsInvalidSKU(t *testing.T) {
	record := map[string]interface{}{"sku": "badsku"}
	warnings := BusinessRules("ecommerce", record)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
}

func TestBusinessRules_FlagsSalePriceAboveBase(t *testing.T) {
	record := map[string]interface{}{"base_price": 50.0, "sale_price": 60.0}
	warnings := BusinessRules("ecommerce", record)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
}

func TestBusinessRules_NoWarningsForValidRecord(t *testing.T) {
	record := map[string]interface{}{
		"sku":                "AB123456",
		"warehouse_location": "US-CHI-001",
		"base_price":         50.0,
		"sale_price":         40.0,
	}
	if warnings := BusinessRules("ecommerce", record); len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}
