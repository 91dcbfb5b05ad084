// Package coherence implements the Coherence Scorer (spec.md 4.3): a pure
// function grading a single record against its entity type in [0,1].
package coherence

import (
	"time"
)

var affinityGroups = map[string][]string{
	"fitness":    {"yoga", "dumbbell", "running", "protein", "gym", "fitness", "workout"},
	"beauty":     {"lipstick", "serum", "mascara", "skincare", "beauty", "cosmetic"},
	"home":       {"lamp", "pillow", "rug", "kitchenware", "home", "decor"},
	"baby":       {"diaper", "stroller", "bottle", "baby", "infant"},
	"date_night": {"wine", "candle", "perfume", "jewelry", "chocolate"},
	"office":     {"notebook", "pen", "desk", "monitor", "office", "stapler"},
	"casual":     {"tshirt", "jeans", "sneakers", "hoodie", "casual"},
	"kitchen":    {"pan", "knife", "blender", "kitchen", "cookware"},
}

// Score grades record against entity; cart and order get the weighted
// component scoring of spec.md 4.3, everything else gets the neutral 0.7.
// Score is pure: the same record scores the same value every call, and is
// invariant to item reordering when totals are unchanged.
func Score(entity string, record map[string]interface{}) float64 {
	switch entity {
	case "cart":
		return scoreCartLike(record, 0.30, 0.20, 0.30, 0.20, cartArithmetic)
	case "order":
		return scoreCartLike(record, 0.25, 0.15, 0.30, 0.30, orderArithmetic)
	default:
		return 0.7
	}
}

func scoreCartLike(record map[string]interface{}, wAffinity, wQty, wArith, wChrono float64, arithmetic func(map[string]interface{}) float64) float64 {
	items := itemsOf(record)

	affinity := categoryAffinity(items)
	qty := quantityScore(items)
	arith := arithmetic(record)
	chrono := chronologyScore(record)

	return wAffinity*affinity + wQty*qty + wArith*arith + wChrono*chrono
}

func itemsOf(record map[string]interface{}) []map[string]interface{} {
	raw, ok := record["items"].([]interface{})
	if !ok {
		return nil
	}
	items := make([]map[string]interface{}, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(map[string]interface{}); ok {
			items = append(items, m)
		}
	}
	return items
}

// categoryAffinity implements spec.md 4.3 component 1.
func categoryAffinity(items []map[string]interface{}) float64 {
	if len(items) <= 1 {
		return 1.0
	}

	best := 0
	for _, keywords := range affinityGroups {
		matches := 0
		for _, item := range items {
			if itemMatchesAny(item, keywords) {
				matches++
			}
		}
		if matches > best {
			best = matches
		}
	}
	m := float64(best) / float64(len(items))

	switch {
	case m >= 0.8:
		return 1.0
	case m >= 0.5:
		return 0.6
	case m >= 0.3:
		return 0.4
	default:
		return 0.2
	}
}

func itemMatchesAny(item map[string]interface{}, keywords []string) bool {
	fields := []string{"name", "category", "sku"}
	for _, field := range fields {
		text, _ := item[field].(string)
		if text == "" {
			continue
		}
		for _, kw := range keywords {
			if containsFold(text, kw) {
				return true
			}
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	h := toLower(haystack)
	n := toLower(needle)
	for i := 0; i+len(n) <= len(h); i++ {
		if h[i:i+len(n)] == n {
			return true
		}
	}
	return false
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// quantityScore implements spec.md 4.3 component 2.
func quantityScore(items []map[string]interface{}) float64 {
	if len(items) == 0 {
		return 1.0
	}
	sum := 0.0
	for _, item := range items {
		q := numeric(item["quantity"])
		switch {
		case q >= 1 && q <= 10:
			sum += 1.0
		case q >= 11 && q <= 20:
			sum += 0.7
		case q > 20:
			sum += 0.2
		default:
			sum += 0.0
		}
	}
	return sum / float64(len(items))
}

// cartArithmetic implements spec.md 4.3 component 3 for carts: E = subtotal + tax.
func cartArithmetic(record map[string]interface{}) float64 {
	total := numeric(record["total"])
	expected := numeric(record["subtotal"]) + numeric(record["tax"])
	return arithmeticGrade(total, expected)
}

// orderArithmetic implements the order variant: E = subtotal + tax + shipping - discount.
func orderArithmetic(record map[string]interface{}) float64 {
	total := numeric(record["total"])
	expected := numeric(record["subtotal"]) + numeric(record["tax"]) + numeric(record["shipping"]) - numeric(record["discount"])
	return arithmeticGrade(total, expected)
}

func arithmeticGrade(total, expected float64) float64 {
	diff := total - expected
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff < 0.01:
		return 1.0
	case diff < 1.0:
		return 0.7
	default:
		return 0.0
	}
}

// chronologyScore implements spec.md 4.3 component 4.
func chronologyScore(record map[string]interface{}) float64 {
	score := 1.0
	created := parseTime(record["created_at"])
	updated := parseTime(record["updated_at"])
	completed := parseTime(record["completed_at"])
	if completed.IsZero() {
		completed = parseTime(record["shipped_at"])
	}

	if !created.IsZero() && !updated.IsZero() && created.After(updated) {
		score -= 0.5
	}
	if !updated.IsZero() && !completed.IsZero() && updated.After(completed) {
		score -= 0.5
	}
	if !created.IsZero() && updated.IsZero() && !completed.IsZero() && created.After(completed) {
		score -= 0.5
	}

	if score < 0 {
		score = 0
	}
	return score
}

func parseTime(v interface{}) time.Time {
	str, ok := v.(string)
	if !ok || str == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, str); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", str); err == nil {
		return t
	}
	return time.Time{}
}

func numeric(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
