package replenish

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// Flag levels shared by the stock, storage and overall flags.
const (
	FlagOK   = "ok"
	FlagWarn = "warn"
	FlagNear = "near"
	FlagRisk = "risk"
)

// Coverage is days-of-coverage with +Inf as the "no measurable demand"
// sentinel. encoding/json rejects infinities, so unbounded coverage is
// emitted as null.
type Coverage float64

// Finite reports whether the coverage is a real number of days.
func (c Coverage) Finite() bool {
	v := float64(c)
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func (c Coverage) MarshalJSON() ([]byte, error) {
	if !c.Finite() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(c), 'f', -1, 64)), nil
}

// Decision is the derived replenishment signal for one item. It is a pure
// function of the item's aggregates plus the scoring parameters, recomputed
// on every request and never persisted.
type Decision struct {
	ItemID            string   `json:"item_id"`
	Title             string   `json:"title"`
	InventoryID       string   `json:"inventory_id"`
	Stock             float64  `json:"stock_full"`
	Visits            float64  `json:"visits_nd"`
	Sales             float64  `json:"sales_nd"`
	ConversionRate    float64  `json:"conversion_rate"`
	DemandPerDay      float64  `json:"daily_demand"`
	CoverageDays      Coverage `json:"days_coverage"`
	BreakDate         string   `json:"break_date,omitempty"`
	StockFlag         string   `json:"stock_flag"`
	StorageFlag       string   `json:"storage_flag"`
	OverallFlag       string   `json:"overall_flag"`
	DaysSinceLastSale *int     `json:"days_since_last_sale,omitempty"`
	SuggestedSend     int      `json:"suggested_send"`
	WindowDays        int      `json:"window_days"`
	LeadTimeDays      int      `json:"lead_time_days"`
	From              string   `json:"from"`
	To                string   `json:"to"`
}

// Scorer turns per-item aggregates into decisions. Now is fixed once per
// computation so repeated scoring within one request is consistent.
type Scorer struct {
	Params Params
	Window Window
	Now    time.Time
}

// Score derives the decision for one item.
func (s Scorer) Score(itemID string, stock, visits, sales float64, lastSale *time.Time) Decision {
	d := Decision{
		ItemID:       itemID,
		Stock:        stock,
		Visits:       visits,
		Sales:        sales,
		WindowDays:   s.Params.WindowDays,
		LeadTimeDays: s.Params.LeadTimeDays,
		From:         s.Window.From,
		To:           s.Window.To,
	}

	if visits > 0 {
		d.ConversionRate = sales / visits
	}

	// Demand divides by the window length, never by visits: visits measure
	// traffic, not consumption velocity.
	if s.Params.WindowDays > 0 {
		d.DemandPerDay = sales / float64(s.Params.WindowDays)
	}

	d.CoverageDays = Coverage(math.Inf(1))
	if d.DemandPerDay > 0 {
		d.CoverageDays = Coverage(stock / d.DemandPerDay)
	}

	lead := float64(s.Params.LeadTimeDays)
	d.StockFlag = FlagOK
	if d.CoverageDays.Finite() {
		coverage := float64(d.CoverageDays)
		d.BreakDate = s.Now.AddDate(0, 0, int(math.Floor(coverage))).Format(dayFormat)
		switch {
		case coverage <= lead:
			d.StockFlag = FlagRisk
		case coverage <= 2*lead:
			d.StockFlag = FlagWarn
		}
	}

	d.StorageFlag = FlagOK
	if lastSale != nil {
		days := int(math.Floor(s.Now.Sub(*lastSale).Hours() / 24))
		d.DaysSinceLastSale = &days

		nearAt := s.Params.StorageDays - s.Params.NearMarginDays
		if nearAt < 0 {
			nearAt = 0
		}
		switch {
		case days >= s.Params.StorageDays:
			d.StorageFlag = FlagRisk
		case days >= nearAt:
			d.StorageFlag = FlagNear
		}
	}

	switch {
	case d.StockFlag == FlagRisk || d.StorageFlag == FlagRisk:
		d.OverallFlag = FlagRisk
	case d.StockFlag == FlagWarn || d.StorageFlag == FlagNear:
		d.OverallFlag = FlagWarn
	default:
		d.OverallFlag = FlagOK
	}

	// Target stock covers two lead-time cycles.
	target := d.DemandPerDay * 2 * lead
	if send := math.Ceil(target - stock); send > 0 {
		d.SuggestedSend = int(send)
	}

	return d
}

// Rank orders decisions by ascending coverage, lowest coverage (most urgent)
// first. Non-finite coverage sorts last; ties keep their original order.
func Rank(items []Decision) {
	sortKey := func(c Coverage) float64 {
		if !c.Finite() {
			return math.Inf(1)
		}
		return float64(c)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return sortKey(items[i].CoverageDays) < sortKey(items[j].CoverageDays)
	})
}
