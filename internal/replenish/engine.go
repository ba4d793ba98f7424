package replenish

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrMissingItemID is returned by Probe when no identifier is supplied.
var ErrMissingItemID = errors.New("item id is required")

// RecordSource supplies the three raw record sets. The stock set is always
// read whole. Visit fetches may push the window filter into the store (the
// in-process filter re-checks every row anyway); sale fetches are unwindowed
// because staleness scoring needs sale history older than the demand window.
type RecordSource interface {
	StockRecords(ctx context.Context) ([]Record, error)
	VisitRecords(ctx context.Context, w Window) ([]Record, error)
	SaleRecords(ctx context.Context) ([]Record, error)
}

// Engine is the transport-agnostic entry point for decision computations.
type Engine struct {
	source RecordSource
	now    func() time.Time
}

func NewEngine(source RecordSource) *Engine {
	return &Engine{source: source, now: time.Now}
}

// Report is the ranked decision list plus the window and parameters that
// produced it.
type Report struct {
	Window Window     `json:"window"`
	Params Params     `json:"params"`
	Count  int        `json:"count"`
	Items  []Decision `json:"items"`
}

// Decisions fetches the three record sets, aggregates them over the window
// anchored at tomorrow, and returns the ranked decision list. A fetch
// failure is the only fatal path; malformed individual records are excluded
// silently during aggregation.
func (e *Engine) Decisions(ctx context.Context, params Params) (*Report, error) {
	params = params.Normalize()
	now := e.now()
	w := NewWindow(now, params.WindowDays)

	stockRows, visitRows, saleRows, err := e.fetch(ctx, w)
	if err != nil {
		return nil, err
	}

	agg := Aggregate(stockRows, visitRows, saleRows, w)
	items := scoreAll(agg, Scorer{Params: params, Window: w, Now: now})

	return &Report{
		Window: w,
		Params: params,
		Count:  len(items),
		Items:  items,
	}, nil
}

func scoreAll(agg Aggregates, scorer Scorer) []Decision {
	ids := agg.ItemIDs()
	items := make([]Decision, 0, len(ids))
	for _, id := range ids {
		var lastSale *time.Time
		if t, ok := agg.LastSale[id]; ok {
			lastSale = &t
		}
		d := scorer.Score(id, agg.Stock[id], agg.Visits[id], agg.Sales[id], lastSale)
		d.Title = agg.Titles[id]
		d.InventoryID = agg.InventoryIDs[id]
		items = append(items, d)
	}
	Rank(items)
	return items
}

// fetch loads the three record sets concurrently. They have no data
// dependency on each other, so one round trip of latency covers all three.
func (e *Engine) fetch(ctx context.Context, w Window) (stockRows, visitRows, saleRows []Record, err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := e.source.StockRecords(ctx)
		if err != nil {
			return fmt.Errorf("fetch stock records: %w", err)
		}
		stockRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := e.source.VisitRecords(ctx, w)
		if err != nil {
			return fmt.Errorf("fetch visit records: %w", err)
		}
		visitRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := e.source.SaleRecords(ctx)
		if err != nil {
			return fmt.Errorf("fetch sale records: %w", err)
		}
		saleRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return stockRows, visitRows, saleRows, nil
}

// SetStats describes one raw record set for ingestion-health checks.
type SetStats struct {
	Rows          int    `json:"rows"`
	DistinctItems int    `json:"distinct_items"`
	MinDate       string `json:"min_date,omitempty"`
	MaxDate       string `json:"max_date,omitempty"`
}

// OverlapStats are the identifier-set intersection sizes between the sets.
type OverlapStats struct {
	StockVisits int `json:"stock_visits"`
	StockSales  int `json:"stock_sales"`
	VisitsSales int `json:"visits_sales"`
	All         int `json:"all"`
}

// DiagnosticsReport validates ingestion health without replacing the ranked
// list: row counts, distinct ids, intersections and date ranges per set,
// plus the decision count and a small ranked sample.
type DiagnosticsReport struct {
	Window   Window       `json:"window"`
	Params   Params       `json:"params"`
	Stock    SetStats     `json:"stock"`
	Visits   SetStats     `json:"visits"`
	Sales    SetStats     `json:"sales"`
	Overlap  OverlapStats `json:"overlap"`
	ItemsOut int          `json:"items_out"`
	Sample   []Decision   `json:"sample"`
}

const diagnosticsSampleSize = 5

// Diagnostics fetches the record sets unwindowed and reports their shape.
func (e *Engine) Diagnostics(ctx context.Context, params Params) (*DiagnosticsReport, error) {
	params = params.Normalize()
	now := e.now()
	w := NewWindow(now, params.WindowDays)

	stockRows, visitRows, saleRows, err := e.fetch(ctx, Window{})
	if err != nil {
		return nil, err
	}

	stockStats, stockIDs := describeSet(stockRows, StockItemIDAliases, StockDateAliases)
	visitStats, visitIDs := describeSet(visitRows, EventItemIDAliases, EventDateAliases)
	saleStats, saleIDs := describeSet(saleRows, EventItemIDAliases, EventDateAliases)

	agg := Aggregate(stockRows, visitRows, saleRows, w)
	items := scoreAll(agg, Scorer{Params: params, Window: w, Now: now})

	sample := items
	if len(sample) > diagnosticsSampleSize {
		sample = sample[:diagnosticsSampleSize]
	}

	return &DiagnosticsReport{
		Window: w,
		Params: params,
		Stock:  stockStats,
		Visits: visitStats,
		Sales:  saleStats,
		Overlap: OverlapStats{
			StockVisits: intersectionSize(stockIDs, visitIDs),
			StockSales:  intersectionSize(stockIDs, saleIDs),
			VisitsSales: intersectionSize(visitIDs, saleIDs),
			All:         intersectionSize(intersection(stockIDs, visitIDs), saleIDs),
		},
		ItemsOut: len(items),
		Sample:   sample,
	}, nil
}

func describeSet(rows []Record, idAliases, dateAliases []string) (SetStats, map[string]struct{}) {
	stats := SetStats{Rows: len(rows)}
	ids := make(map[string]struct{})
	for _, rec := range rows {
		if id := ResolveItemID(rec, idAliases); id != "" {
			ids[id] = struct{}{}
		}
		day := DayString(RecordDate(rec, dateAliases))
		if day == "" {
			continue
		}
		if stats.MinDate == "" || day < stats.MinDate {
			stats.MinDate = day
		}
		if stats.MaxDate == "" || day > stats.MaxDate {
			stats.MaxDate = day
		}
	}
	stats.DistinctItems = len(ids)
	return stats, ids
}

func intersection(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for id := range a {
		if _, ok := b[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func intersectionSize(a, b map[string]struct{}) int {
	return len(intersection(a, b))
}

// ProbeRow is one matching raw row with its parsed day and resolved quantity.
type ProbeRow struct {
	Day      string  `json:"date"`
	Quantity float64 `json:"used_qty"`
	Record   Record  `json:"record"`
}

// ProbeReport explains why one item's decision looks the way it does: the
// raw matching rows from each set plus the computed aggregates.
type ProbeReport struct {
	ItemID      string     `json:"item_id"`
	Raw         bool       `json:"raw"`
	Window      Window     `json:"window"`
	StockRow    Record     `json:"stock_row,omitempty"`
	Stock       float64    `json:"stock"`
	VisitRows   []ProbeRow `json:"visit_rows"`
	SaleRows    []ProbeRow `json:"sale_rows"`
	VisitsTotal float64    `json:"visits_total"`
	SalesTotal  float64    `json:"sales_total"`
}

// Probe reports the raw rows matching one item. With raw set, the window
// filter is skipped so out-of-window history shows up too.
func (e *Engine) Probe(ctx context.Context, itemID string, params Params, raw bool) (*ProbeReport, error) {
	probe := CanonicalItemID(itemID)
	if probe == "" {
		return nil, ErrMissingItemID
	}

	params = params.Normalize()
	w := NewWindow(e.now(), params.WindowDays)

	stockRows, visitRows, saleRows, err := e.fetch(ctx, Window{})
	if err != nil {
		return nil, err
	}

	report := &ProbeReport{
		ItemID:    probe,
		Raw:       raw,
		Window:    w,
		VisitRows: make([]ProbeRow, 0),
		SaleRows:  make([]ProbeRow, 0),
	}

	for _, rec := range stockRows {
		if ResolveItemID(rec, StockItemIDAliases) != probe {
			continue
		}
		report.StockRow = rec
		report.Stock = ResolveQuantity(rec, StockQtyAliases)
	}

	for _, rec := range visitRows {
		if ResolveItemID(rec, EventItemIDAliases) != probe {
			continue
		}
		date := RecordDate(rec, EventDateAliases)
		if !raw && !w.Contains(date) {
			continue
		}
		count := ResolveQuantity(rec, VisitCountAliases)
		report.VisitRows = append(report.VisitRows, ProbeRow{
			Day:      DayString(date),
			Quantity: count,
			Record:   rec,
		})
		report.VisitsTotal += count
	}

	for _, rec := range saleRows {
		if ResolveItemID(rec, EventItemIDAliases) != probe {
			continue
		}
		date := RecordDate(rec, EventDateAliases)
		if !raw && !w.Contains(date) {
			continue
		}
		qty := ResolveQuantity(rec, SaleQtyAliases)
		report.SaleRows = append(report.SaleRows, ProbeRow{
			Day:      DayString(date),
			Quantity: qty,
			Record:   rec,
		})
		report.SalesTotal += qty
	}

	return report, nil
}
