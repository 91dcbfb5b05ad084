package coherence

import (
	"fmt"
	"regexp"
)

// BusinessRules runs the ecommerce-domain checks the original agent's
// domain validator carried (SKU/price/warehouse format and consistency),
// adapted here as coherence warnings rather than hard validation failures:
// spec.md 4.3 only ever downgrades a coherence score, it never rejects a
// record outright. Non-ecommerce domains get no warnings.
func BusinessRules(domain string, record map[string]interface{}) []string {
	if domain != "ecommerce" {
		return nil
	}

	var warnings []string
	if sku, ok := record["sku"].(string); ok && sku != "" && !skuPattern.MatchString(sku) {
		warnings = append(warnings, fmt.Sprintf("sku %q does not match expected format", sku))
	}
	if warehouse, ok := record["warehouse_location"].(string); ok && warehouse != "" && !warehousePattern.MatchString(warehouse) {
		warnings = append(warnings, fmt.Sprintf("warehouse_location %q does not match expected format", warehouse))
	}

	base := numeric(record["base_price"])
	if sale, ok := record["sale_price"]; ok {
		if numeric(sale) >= base && base > 0 {
			warnings = append(warnings, fmt.Sprintf("sale_price %.2f must be less than base_price %.2f", numeric(sale), base))
		}
	}

	return warnings
}

var (
	skuPattern       = regexp.MustCompile(`^[A-Z]{2}[0-9]{6}$`)
	warehousePattern = regexp.MustCompile(`^[A-Z]{2}-[A-Z]{3}-[0-9]{3}$`)
)
