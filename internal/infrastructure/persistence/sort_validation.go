package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// EquipmentSortFields contains allowed sort fields for equipment
var EquipmentSortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"equipment_name": true,
	"manufacturer":   true,
	"model_number":   true,
}

// SignboardSortFields contains allowed sort fields for signboards
var SignboardSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"comment":    true,
	"location":   true,
	"status":     true,
	"quantity":   true,
}
