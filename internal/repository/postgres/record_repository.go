package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/replenish"
)

// Table names of the three raw record sets. The tables carry whatever
// columns their import jobs produced over the years, so rows are read with
// SELECT * and scanned into maps rather than structs.
const (
	stockTable  = "full_stock_min"
	visitsTable = "visits_raw"
	salesTable  = "sales_raw"
)

// RecordRepository reads the raw record sets from postgres.
type RecordRepository struct {
	db *DB
}

func NewRecordRepository(db *DB) *RecordRepository {
	return &RecordRepository{db: db}
}

var _ replenish.RecordSource = (*RecordRepository)(nil)

func (r *RecordRepository) StockRecords(ctx context.Context) ([]replenish.Record, error) {
	return r.selectRecords(ctx, sq.Select("*").From(stockTable))
}

// VisitRecords pushes the window filter into SQL when a window is given;
// the aggregator re-checks every row against the window regardless.
func (r *RecordRepository) VisitRecords(ctx context.Context, w replenish.Window) ([]replenish.Record, error) {
	builder := sq.Select("*").From(visitsTable)
	if !w.IsZero() {
		builder = builder.Where(sq.GtOrEq{"date": w.From}).Where(sq.Lt{"date": w.To})
	}
	return r.selectRecords(ctx, builder.OrderBy("item_id", "date"))
}

// SaleRecords is unwindowed: staleness scoring needs sale history older than
// the demand window.
func (r *RecordRepository) SaleRecords(ctx context.Context) ([]replenish.Record, error) {
	return r.selectRecords(ctx, sq.Select("*").From(salesTable).OrderBy("item_id", "date"))
}

func (r *RecordRepository) selectRecords(ctx context.Context, builder sq.SelectBuilder) ([]replenish.Record, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	query, args, err := builder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := make([]replenish.Record, 0)
	for rows.Next() {
		rec := make(replenish.Record)
		if err := rows.MapScan(rec); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}
