package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/config"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/replenish"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/storage"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/pkg/logger"
)

var exportLog = logger.Component("export")

func runExport(c *cli.Context) error {
	cfg := config.Load()

	store, err := storage.NewSnapshotStore(cfg.Snapshot)
	if err != nil {
		return err
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}

	report, err := engine.Decisions(c.Context, paramsFromFlags(c))
	if err != nil {
		return err
	}

	data, err := renderCSV(report)
	if err != nil {
		return fmt.Errorf("render decisions csv: %w", err)
	}

	key := fmt.Sprintf("decisions/%s/decisions_%dd.csv", report.Window.To, report.Params.WindowDays)
	if err := store.Upload(c.Context, key, data, "text/csv"); err != nil {
		return err
	}

	exportLog.Info().Str("key", key).Int("items", report.Count).Msg("decision snapshot uploaded")
	return nil
}

func renderCSV(report *replenish.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"item_id", "title", "inventory_id",
		"stock_full", "visits_nd", "sales_nd",
		"conversion_rate", "daily_demand", "days_coverage", "break_date",
		"stock_flag", "storage_flag", "overall_flag",
		"suggested_send", "window_days", "lead_time_days", "from", "to",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, item := range report.Items {
		coverage := ""
		if item.CoverageDays.Finite() {
			coverage = strconv.FormatFloat(float64(item.CoverageDays), 'f', 2, 64)
		}
		row := []string{
			item.ItemID, item.Title, item.InventoryID,
			strconv.FormatFloat(item.Stock, 'f', -1, 64),
			strconv.FormatFloat(item.Visits, 'f', -1, 64),
			strconv.FormatFloat(item.Sales, 'f', -1, 64),
			strconv.FormatFloat(item.ConversionRate, 'f', 4, 64),
			strconv.FormatFloat(item.DemandPerDay, 'f', 4, 64),
			coverage,
			item.BreakDate,
			item.StockFlag, item.StorageFlag, item.OverallFlag,
			strconv.Itoa(item.SuggestedSend),
			strconv.Itoa(item.WindowDays),
			strconv.Itoa(item.LeadTimeDays),
			item.From, item.To,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
