package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/config"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/replenish"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/repository/postgres"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/pkg/logger"
)

func paramFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "window",
			Usage: "Trailing window length in days",
			Value: replenish.DefaultWindowDays,
		},
		&cli.IntFlag{
			Name:  "lead-time",
			Usage: "Replenishment lead time in days",
			Value: replenish.DefaultLeadTimeDays,
		},
		&cli.IntFlag{
			Name:  "storage-days",
			Usage: "Days without a sale before an item is a storage risk",
			Value: replenish.DefaultStorageDays,
		},
		&cli.IntFlag{
			Name:  "near-margin",
			Usage: "Days before the storage threshold to start warning",
			Value: replenish.DefaultNearMarginDays,
		},
	}
}

func paramsFromFlags(c *cli.Context) replenish.Params {
	return replenish.Params{
		WindowDays:     c.Int("window"),
		LeadTimeDays:   c.Int("lead-time"),
		StorageDays:    c.Int("storage-days"),
		NearMarginDays: c.Int("near-margin"),
	}.Normalize()
}

func newEngine() (*replenish.Engine, error) {
	cfg := config.Load()
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return replenish.NewEngine(postgres.NewRecordRepository(db)), nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "replenish",
		Usage: "Compute and inspect replenishment decisions",
		Commands: []*cli.Command{
			{
				Name:  "decide",
				Usage: "Print the ranked decision list",
				Flags: paramFlags(),
				Action: func(c *cli.Context) error {
					engine, err := newEngine()
					if err != nil {
						return err
					}
					report, err := engine.Decisions(c.Context, paramsFromFlags(c))
					if err != nil {
						return err
					}
					return printJSON(report)
				},
			},
			{
				Name:  "diagnostics",
				Usage: "Report ingestion health for the three record sets",
				Flags: paramFlags(),
				Action: func(c *cli.Context) error {
					engine, err := newEngine()
					if err != nil {
						return err
					}
					report, err := engine.Diagnostics(c.Context, paramsFromFlags(c))
					if err != nil {
						return err
					}
					return printJSON(report)
				},
			},
			{
				Name:  "probe",
				Usage: "Show the raw rows behind one item's decision",
				Flags: append(paramFlags(),
					&cli.StringFlag{
						Name:     "item",
						Usage:    "Item identifier to probe",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "raw",
						Usage: "Ignore the window filter",
					},
				),
				Action: func(c *cli.Context) error {
					engine, err := newEngine()
					if err != nil {
						return err
					}
					report, err := engine.Probe(c.Context, c.String("item"), paramsFromFlags(c), c.Bool("raw"))
					if err != nil {
						return err
					}
					return printJSON(report)
				},
			},
			{
				Name:   "export",
				Usage:  "Upload a CSV snapshot of the ranked decisions",
				Flags:  paramFlags(),
				Action: runExport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}
