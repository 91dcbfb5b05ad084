package coherence

import "testing"

func TestScore_NeutralForUnknownEntity(t *testing.T) {
	if got := Score("widget", map[string]interface{}{}); got != 0.7 {
		t.Fatalf("got %v, want 0.7", got)
	}
}

func TestScore_IsIdempotent(t *testing.T) {
	record := map[string]interface{}{
		"subtotal":   10.0,
		"tax":        1.0,
		"total":      11.0,
		"created_at": "2024-01-01T00:00:00Z",
		"updated_at": "2024-01-02T00:00:00Z",
		"items": []interface{}{
			map[string]interface{}{"name": "yoga mat", "category": "fitness", "quantity": 2.0},
		},
	}
	a := Score("cart", record)
	b := Score("cart", record)
	if a != b {
		t.Fatalf("expected idempotent scoring, got %v then %v", a, b)
	}
}

func TestScore_ArithmeticInvariantUnderItemReorder(t *testing.T) {
	base := map[string]interface{}{
		"subtotal": 30.0,
		"tax":      3.0,
		"total":    33.0,
	}
	itemsA := []interface{}{
		map[string]interface{}{"name": "pan", "category": "kitchen", "quantity": 1.0},
		map[string]interface{}{"name": "knife", "category": "kitchen", "quantity": 2.0},
	}
	itemsB := []interface{}{itemsA[1], itemsA[0]}

	recA := cloneWithItems(base, itemsA)
	recB := cloneWithItems(base, itemsB)

	if Score("cart", recA) != Score("cart", recB) {
		t.Fatalf("expected reordering items not to change the score")
	}
}

func TestScore_SingleItemCartIsPerfectAffinity(t *testing.T) {
	record := map[string]interface{}{
		"subtotal": 10.0,
		"tax":      1.0,
		"total":    11.0,
		"items": []interface{}{
			map[string]interface{}{"name": "anything", "quantity": 1.0},
		},
	}
	got := Score("cart", record)
	if got < 0.9 {
		t.Fatalf("expected single-item cart to score near 1.0 on a clean record, got %v", got)
	}
}

func cloneWithItems(base map[string]interface{}, items []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+1)
	for k, v := range base {
		out[k] = v
	}
	out["items"] = items
	return out
}
