package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort direction to ASC or DESC.
// Invalid or empty input falls back to DESC.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks the sort field against a whitelist.
// Returns defaultField when the input is empty or not whitelisted, so user
// supplied order_by values never reach the query builder unchecked.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// MaterialSortFields contains allowed sort fields for raw materials
var MaterialSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"name":             true,
	"category":         true,
	"current_quantity": true,
	"cost_per_unit":    true,
	"minimum_stock":    true,
}

// BatchSortFields contains allowed sort fields for production batches
var BatchSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"status":            true,
	"quantity_produced": true,
	"total_cost":        true,
}
