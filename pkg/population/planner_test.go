package population

import "testing"

func TestPlan_ZeroBaseUsersYieldsNoScenarios(t *testing.T) {
	if got := Plan(0); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestPlan_ScalesByRatioAndRespectsMinimums(t *testing.T) {
	scenarios := Plan(10000)
	if len(scenarios) != len(ecommerceRatios) {
		t.Fatalf("expected %d scenarios, got %d", len(ecommerceRatios), len(scenarios))
	}

	byName := make(map[string]int)
	for _, s := range scenarios {
		byName[s.Name] = s.Count
	}
	if byName["order"] != 25000 {
		t.Fatalf("expected 25000 orders for 10000 users, got %d", byName["order"])
	}
	if byName["product"] != 1000 {
		t.Fatalf("expected 1000 products for 10000 users, got %d", byName["product"])
	}
}

func TestPlan_SmallBaseRespectsMinimumFloor(t *testing.T) {
	scenarios := Plan(1)
	byName := make(map[string]int)
	for _, s := range scenarios {
		byName[s.Name] = s.Count
	}
	if byName["product"] != 50 {
		t.Fatalf("expected product count floored at minimum 50, got %d", byName["product"])
	}
}
