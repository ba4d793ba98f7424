package replenish

import "testing"

func TestResolveItemID(t *testing.T) {
	tests := []struct {
		name    string
		rec     Record
		aliases []string
		want    string
	}{
		{
			name:    "primary alias",
			rec:     Record{"item_id": "mla123"},
			aliases: EventItemIDAliases,
			want:    "MLA123",
		},
		{
			name:    "fallback alias with whitespace",
			rec:     Record{"ml_item_id": "  MLA123 "},
			aliases: EventItemIDAliases,
			want:    "MLA123",
		},
		{
			name:    "earlier alias wins over later",
			rec:     Record{"item_id": "mla1", "id": "mla2"},
			aliases: EventItemIDAliases,
			want:    "MLA1",
		},
		{
			name:    "empty primary falls through",
			rec:     Record{"item_id": "  ", "ml_id": "mla9"},
			aliases: EventItemIDAliases,
			want:    "MLA9",
		},
		{
			name:    "numeric id renders as string",
			rec:     Record{"id": int64(42)},
			aliases: EventItemIDAliases,
			want:    "42",
		},
		{
			name:    "stock aliases ignore bare id",
			rec:     Record{"id": "mla5"},
			aliases: StockItemIDAliases,
			want:    "",
		},
		{
			name:    "no identifier",
			rec:     Record{"title": "something"},
			aliases: EventItemIDAliases,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveItemID(tt.rec, tt.aliases); got != tt.want {
				t.Errorf("ResolveItemID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveQuantity(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want float64
	}{
		{
			name: "first positive wins",
			rec:  Record{"orders": 3, "quantity": 10},
			want: 3,
		},
		{
			name: "explicit zero does not mask later value",
			rec:  Record{"orders": 0, "quantity": 10},
			want: 10,
		},
		{
			name: "negative value is not populated",
			rec:  Record{"orders": -2, "qty": 4},
			want: 4,
		},
		{
			name: "string value coerces",
			rec:  Record{"sold_qty": "7"},
			want: 7,
		},
		{
			name: "bytes value coerces",
			rec:  Record{"units": []byte("2.5")},
			want: 2.5,
		},
		{
			name: "non-numeric value is not populated",
			rec:  Record{"quantity": "n/a", "sold": 1},
			want: 1,
		},
		{
			name: "all candidates absent",
			rec:  Record{"item_id": "MLA1"},
			want: 0,
		},
		{
			name: "all candidates zero",
			rec:  Record{"orders": 0, "quantity": "0"},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveQuantity(tt.rec, SaleQtyAliases); got != tt.want {
				t.Errorf("ResolveQuantity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordDatePrefersDedicatedField(t *testing.T) {
	rec := Record{"date": "2025-01-02", "created_at": "2025-03-04T05:06:07Z"}
	if got := DayString(RecordDate(rec, EventDateAliases)); got != "2025-01-02" {
		t.Errorf("expected dedicated date field to win, got %q", got)
	}

	rec = Record{"created_at": "2025-03-04T05:06:07Z"}
	if got := DayString(RecordDate(rec, EventDateAliases)); got != "2025-03-04" {
		t.Errorf("expected created_at fallback, got %q", got)
	}
}
