package replenish

import (
	"sort"
	"time"
)

// Aggregates are the per-item folds of the three raw record sets.
type Aggregates struct {
	// Stock holds the current quantity on hand. Exactly one stock row is
	// expected per item; on duplicates the later row overwrites the earlier.
	Stock map[string]float64

	// Visits and Sales are windowed sums.
	Visits map[string]float64
	Sales  map[string]float64

	// Titles and InventoryIDs enrich decisions from the stock set.
	Titles       map[string]string
	InventoryIDs map[string]string

	// LastSale is the most recent parseable sale date with a usable
	// quantity, tracked across the whole sale set (not just the window) so
	// staleness can look further back than the demand window.
	LastSale map[string]time.Time
}

// Aggregate folds the raw record sets into per-item aggregates. The three
// passes are independent; each record set is consulted exactly once and the
// sums are order-insensitive. Malformed rows (missing id, unparseable date,
// unusable quantity) are skipped, never fatal.
func Aggregate(stockRows, visitRows, saleRows []Record, w Window) Aggregates {
	agg := Aggregates{
		Stock:        make(map[string]float64),
		Visits:       make(map[string]float64),
		Sales:        make(map[string]float64),
		Titles:       make(map[string]string),
		InventoryIDs: make(map[string]string),
		LastSale:     make(map[string]time.Time),
	}

	for _, rec := range stockRows {
		id := ResolveItemID(rec, StockItemIDAliases)
		if id == "" {
			continue
		}
		agg.Stock[id] = ResolveQuantity(rec, StockQtyAliases)
		if title := resolveString(rec, titleAliases); title != "" {
			agg.Titles[id] = title
		}
		if invID := resolveString(rec, inventoryIDAliases); invID != "" {
			agg.InventoryIDs[id] = invID
		}
	}

	for _, rec := range visitRows {
		id := ResolveItemID(rec, EventItemIDAliases)
		if id == "" {
			continue
		}
		if !w.Contains(RecordDate(rec, EventDateAliases)) {
			continue
		}
		count := ResolveQuantity(rec, VisitCountAliases)
		if count <= 0 {
			continue
		}
		agg.Visits[id] += count
	}

	for _, rec := range saleRows {
		id := ResolveItemID(rec, EventItemIDAliases)
		if id == "" {
			continue
		}
		qty := ResolveQuantity(rec, SaleQtyAliases)
		if qty <= 0 {
			// A sale row without a usable quantity is not evidence of a
			// sale. The legacy default-to-1 behavior is not supported.
			continue
		}
		date := RecordDate(rec, EventDateAliases)
		if t, ok := ParseInstant(date); ok {
			if last, seen := agg.LastSale[id]; !seen || t.After(last) {
				agg.LastSale[id] = t
			}
		}
		if !w.Contains(date) {
			continue
		}
		agg.Sales[id] += qty
	}

	return agg
}

// ItemIDs returns the sorted union of the identifiers present in any of the
// three aggregate maps. An item with stock but no traffic still decides.
func (a Aggregates) ItemIDs() []string {
	seen := make(map[string]struct{}, len(a.Stock)+len(a.Visits)+len(a.Sales))
	for id := range a.Stock {
		seen[id] = struct{}{}
	}
	for id := range a.Visits {
		seen[id] = struct{}{}
	}
	for id := range a.Sales {
		seen[id] = struct{}{}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
