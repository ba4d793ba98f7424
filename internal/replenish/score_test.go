package replenish

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"
)

func testScorer() Scorer {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	return Scorer{
		Params: Params{WindowDays: 30, LeadTimeDays: 7, StorageDays: 60, NearMarginDays: 15},
		Window: NewWindow(now, 30),
		Now:    now,
	}
}

func TestScoreHealthyItem(t *testing.T) {
	// stock=100, sales=30 over 30 days, visits=300.
	d := testScorer().Score("MLA_X", 100, 300, 30, nil)

	if d.ConversionRate != 0.1 {
		t.Errorf("conversion rate = %v, want 0.1", d.ConversionRate)
	}
	if d.DemandPerDay != 1 {
		t.Errorf("demand per day = %v, want 1", d.DemandPerDay)
	}
	if float64(d.CoverageDays) != 100 {
		t.Errorf("coverage = %v, want 100", d.CoverageDays)
	}
	if d.StockFlag != FlagOK {
		t.Errorf("stock flag = %s, want ok", d.StockFlag)
	}
	if d.SuggestedSend != 0 {
		t.Errorf("suggested send = %d, want 0", d.SuggestedSend)
	}
	if d.BreakDate != "2025-09-23" {
		t.Errorf("break date = %s, want now+100d = 2025-09-23", d.BreakDate)
	}
}

func TestScoreRiskItem(t *testing.T) {
	// stock=5, sales=30 over 30 days: coverage 5 <= lead time 7.
	d := testScorer().Score("MLA_Y", 5, 0, 30, nil)

	if float64(d.CoverageDays) != 5 {
		t.Errorf("coverage = %v, want 5", d.CoverageDays)
	}
	if d.StockFlag != FlagRisk {
		t.Errorf("stock flag = %s, want risk", d.StockFlag)
	}
	if d.OverallFlag != FlagRisk {
		t.Errorf("overall flag = %s, want risk", d.OverallFlag)
	}
	// target = 1 * 14 = 14, send = ceil(14-5) = 9.
	if d.SuggestedSend != 9 {
		t.Errorf("suggested send = %d, want 9", d.SuggestedSend)
	}
}

func TestScoreWarnBand(t *testing.T) {
	// coverage 10 sits between lead time 7 and 2*7.
	d := testScorer().Score("MLA_W", 10, 0, 30, nil)

	if d.StockFlag != FlagWarn {
		t.Errorf("stock flag = %s, want warn", d.StockFlag)
	}
	if d.OverallFlag != FlagWarn {
		t.Errorf("overall flag = %s, want warn", d.OverallFlag)
	}
}

func TestScoreNoDemand(t *testing.T) {
	d := testScorer().Score("MLA_Z", 50, 0, 0, nil)

	if d.DemandPerDay != 0 {
		t.Errorf("demand per day = %v, want 0", d.DemandPerDay)
	}
	if d.CoverageDays.Finite() {
		t.Errorf("coverage must be unbounded with zero demand, got %v", d.CoverageDays)
	}
	if d.StockFlag != FlagOK {
		t.Errorf("unbounded coverage must be ok, got %s", d.StockFlag)
	}
	if d.BreakDate != "" {
		t.Errorf("break date must be empty with unbounded coverage, got %s", d.BreakDate)
	}
	if d.ConversionRate != 0 {
		t.Errorf("conversion with zero visits = %v, want 0", d.ConversionRate)
	}
}

func TestScoreMissingStock(t *testing.T) {
	// Present in sales only: full target stock should be suggested.
	d := testScorer().Score("MLA_S", 0, 10, 30, nil)

	if d.Stock != 0 {
		t.Errorf("stock = %v, want 0", d.Stock)
	}
	if float64(d.CoverageDays) != 0 {
		t.Errorf("coverage = %v, want 0", d.CoverageDays)
	}
	if d.SuggestedSend != 14 {
		t.Errorf("suggested send = %d, want full target 14", d.SuggestedSend)
	}
	if d.StockFlag != FlagRisk {
		t.Errorf("zero coverage with demand must be risk, got %s", d.StockFlag)
	}
}

func TestScoreStorageFlags(t *testing.T) {
	s := testScorer()

	tests := []struct {
		name         string
		daysAgo      int
		wantStorage  string
		wantDaysStat int
	}{
		{"fresh sale", 10, FlagOK, 10},
		{"near threshold", 50, FlagNear, 50},
		{"at threshold", 60, FlagRisk, 60},
		{"beyond threshold", 90, FlagRisk, 90},
		{"just below near band", 44, FlagOK, 44},
		{"exactly at near band", 45, FlagNear, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lastSale := s.Now.AddDate(0, 0, -tt.daysAgo)
			d := s.Score("MLA1", 100, 0, 30, &lastSale)
			if d.StorageFlag != tt.wantStorage {
				t.Errorf("storage flag = %s, want %s", d.StorageFlag, tt.wantStorage)
			}
			if d.DaysSinceLastSale == nil || *d.DaysSinceLastSale != tt.wantDaysStat {
				t.Errorf("days since last sale = %v, want %d", d.DaysSinceLastSale, tt.wantDaysStat)
			}
		})
	}
}

func TestScoreNoSaleHistoryIsOK(t *testing.T) {
	d := testScorer().Score("MLA1", 100, 0, 0, nil)

	if d.StorageFlag != FlagOK {
		t.Errorf("no history must not be assumed stale, got %s", d.StorageFlag)
	}
	if d.DaysSinceLastSale != nil {
		t.Errorf("days since last sale must be absent, got %v", *d.DaysSinceLastSale)
	}
}

func TestScoreStorageRiskDominatesOverall(t *testing.T) {
	s := testScorer()
	lastSale := s.Now.AddDate(0, 0, -90)

	// Healthy coverage, stale storage.
	d := s.Score("MLA1", 1000, 0, 30, &lastSale)
	if d.StockFlag != FlagOK {
		t.Fatalf("stock flag = %s, want ok", d.StockFlag)
	}
	if d.OverallFlag != FlagRisk {
		t.Errorf("overall flag = %s, want risk from storage", d.OverallFlag)
	}
}

func TestRank(t *testing.T) {
	items := []Decision{
		{ItemID: "A", CoverageDays: Coverage(math.Inf(1))},
		{ItemID: "B", CoverageDays: 50},
		{ItemID: "C", CoverageDays: 5},
		{ItemID: "D", CoverageDays: Coverage(math.Inf(1))},
		{ItemID: "E", CoverageDays: 5},
	}

	Rank(items)

	got := make([]string, len(items))
	for i, d := range items {
		got[i] = d.ItemID
	}
	want := []string{"C", "E", "B", "A", "D"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rank order = %v, want %v", got, want)
		}
	}

	// Ranking invariant: coverage never decreases down the list.
	for i := 1; i < len(items); i++ {
		prev, cur := items[i-1].CoverageDays, items[i].CoverageDays
		if prev.Finite() && cur.Finite() && float64(prev) > float64(cur) {
			t.Fatalf("coverage decreases at position %d", i)
		}
		if !prev.Finite() && cur.Finite() {
			t.Fatalf("finite coverage after unbounded at position %d", i)
		}
	}
}

func TestCoverageJSON(t *testing.T) {
	payload, err := json.Marshal(struct {
		Bounded   Coverage `json:"bounded"`
		Unbounded Coverage `json:"unbounded"`
	}{
		Bounded:   Coverage(12.5),
		Unbounded: Coverage(math.Inf(1)),
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	s := string(payload)
	if !strings.Contains(s, `"bounded":12.5`) {
		t.Errorf("bounded coverage not serialized: %s", s)
	}
	if !strings.Contains(s, `"unbounded":null`) {
		t.Errorf("unbounded coverage must serialize as null: %s", s)
	}
}
