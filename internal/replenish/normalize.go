package replenish

import "strings"

// Alias tables for the logical fields of the raw record sets, in resolution
// priority order. Several historical schema variants stored the same logical
// field under different column names; keeping the lists here means the
// aggregation code never has to know about them.
var (
	// StockItemIDAliases covers the stock set, which never carried a bare
	// "id" column.
	StockItemIDAliases = []string{"item_id", "ml_item_id", "ml_id", "itemId"}

	// EventItemIDAliases covers the visit and sale sets.
	EventItemIDAliases = []string{"item_id", "ml_item_id", "ml_id", "itemId", "id"}

	StockQtyAliases = []string{
		"total", "qty", "available_quantity", "available",
		"stock", "available_stock", "quantity",
	}

	SaleQtyAliases = []string{
		"orders", "orders_count",
		"quantity", "qty", "units", "count",
		"sold", "sold_qty", "sold_quantity", "sold_units",
	}

	VisitCountAliases = []string{"visits", "count"}

	// EventDateAliases prefers the dedicated date column over the generic
	// creation timestamp.
	EventDateAliases = []string{"date", "created_at"}

	StockDateAliases = []string{"updated_at", "last_updated", "created_at", "date"}

	titleAliases       = []string{"title", "item_title"}
	inventoryIDAliases = []string{"inventory_id", "inv_id"}
)

// CanonicalItemID trims and upper-cases a raw identifier. Sources disagree on
// casing, so two ids differing only by case or whitespace must collide.
func CanonicalItemID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ResolveItemID returns the canonical item id from the first populated alias,
// or "" when the record carries no identifier at all (callers skip such rows).
func ResolveItemID(rec Record, aliases []string) string {
	for _, key := range aliases {
		v, ok := rec[key]
		if !ok {
			continue
		}
		if id := CanonicalItemID(asString(v)); id != "" {
			return id
		}
	}
	return ""
}

// ResolveQuantity returns the first alias whose value coerces to a finite
// number strictly greater than zero, or 0 when none qualifies.
//
// First-positive-wins is deliberate: a later schema's explicit 0 must not
// mask an earlier schema's real value, while a non-positive or non-numeric
// value means "field not populated", not a true zero. A legitimate zero is
// represented by the absence of every alias.
func ResolveQuantity(rec Record, aliases []string) float64 {
	for _, key := range aliases {
		v, ok := rec[key]
		if !ok {
			continue
		}
		if n, ok := asFloat(v); ok && n > 0 {
			return n
		}
	}
	return 0
}

// resolveString returns the first non-empty string value among the aliases.
func resolveString(rec Record, aliases []string) string {
	for _, key := range aliases {
		v, ok := rec[key]
		if !ok {
			continue
		}
		if s := strings.TrimSpace(asString(v)); s != "" {
			return s
		}
	}
	return ""
}

// RecordDate returns the raw date-like value of a record, preferring the
// dedicated date column, or nil when none is present.
func RecordDate(rec Record, aliases []string) any {
	for _, key := range aliases {
		if v, ok := rec[key]; ok && v != nil {
			return v
		}
	}
	return nil
}
