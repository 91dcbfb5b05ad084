// Package population expands a base user count into a realistic set of
// per-entity record counts, trimmed from the original agent's
// multi-domain population templates down to the ecommerce ratios this
// service's worked domain actually uses (spec.md section 2).
package population

import "github.com/specmint/syndata/pkg/model"

// metricRatio is one entity's realistic count relative to a base user
// count, e.g. "orders" at 2.5 means 2.5 orders per user annually.
type metricRatio struct {
	entity   string
	ratio    float64
	minCount int
}

// ecommerceRatios keeps only the per-user ratios from the original
// ecommerce population template (distribution shape and schema/
// relationship metadata were never consumed by any generator here).
var ecommerceRatios = []metricRatio{
	{entity: "product", ratio: 0.1, minCount: 50},
	{entity: "order", ratio: 2.5, minCount: 10},
	{entity: "review", ratio: 0.8, minCount: 5},
	{entity: "cart", ratio: 12.0, minCount: 10},
	{entity: "payment", ratio: 2.5, minCount: 10},
}

// Plan expands baseUsers into one Scenario per ecommerce entity, sized
// by its realistic ratio to the user base. Scenario.Overrides carries
// the originating entity name so a caller can route each scenario's
// records independently if it chooses to.
func Plan(baseUsers int) []model.Scenario {
	if baseUsers <= 0 {
		return nil
	}

	scenarios := make([]model.Scenario, 0, len(ecommerceRatios))
	for _, m := range ecommerceRatios {
		count := int(float64(baseUsers) * m.ratio)
		if count < m.minCount {
			count = m.minCount
		}
		scenarios = append(scenarios, model.Scenario{
			Name:        m.entity,
			Count:       count,
			Description: m.entity + " population scaled from base user count",
			Overrides:   map[string]interface{}{"entity": m.entity},
		})
	}
	return scenarios
}
