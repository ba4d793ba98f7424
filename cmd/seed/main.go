package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

// Development fixture loader for the three raw record tables. Column names
// are taken verbatim from the CSV header, so fixtures can reproduce any of
// the historical schema variants.

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Load raw record fixtures into the database",
		Flags: []cli.Flag{
			newDBURLFlag(),
			&cli.StringFlag{
				Name:  "stock",
				Usage: "CSV file for the full_stock_min table",
			},
			&cli.StringFlag{
				Name:  "visits",
				Usage: "CSV file for the visits_raw table",
			},
			&cli.StringFlag{
				Name:  "sales",
				Usage: "CSV file for the sales_raw table",
			},
			&cli.BoolFlag{
				Name:  "truncate",
				Usage: "Empty each target table before loading",
			},
		},
		Action: runSeeder,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runSeeder(c *cli.Context) error {
	targets := map[string]string{
		"full_stock_min": c.String("stock"),
		"visits_raw":     c.String("visits"),
		"sales_raw":      c.String("sales"),
	}

	hasWork := false
	for _, path := range targets {
		if path != "" {
			hasWork = true
		}
	}
	if !hasWork {
		return errors.New("nothing to load: pass at least one of --stock, --visits, --sales")
	}

	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	ctx := context.Background()
	for table, path := range targets {
		if path == "" {
			continue
		}
		if c.Bool("truncate") {
			if _, err := db.ExecContext(ctx, "TRUNCATE TABLE "+table); err != nil {
				return fmt.Errorf("failed to truncate %s: %w", table, err)
			}
		}
		if err := loadTable(ctx, db, table, path); err != nil {
			return fmt.Errorf("failed to load %s: %w", table, err)
		}
	}

	log.Println("Fixture loading completed successfully!")
	return nil
}

func loadTable(ctx context.Context, db *sql.DB, table, filePath string) error {
	log.Printf("Loading %s from %s\n", table, filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make([]string, len(header))
	placeholders := make([]string, len(header))
	for i, col := range header {
		columns[i] = fmt.Sprintf("%q", strings.TrimSpace(col))
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	rowCount := 0
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read CSV record: %w", err)
		}

		args := make([]any, len(record))
		for i, value := range record {
			if value == "" {
				args[i] = nil
				continue
			}
			args[i] = value
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}

		rowCount++
		if rowCount%5000 == 0 {
			log.Printf("Loaded %d rows into %s...", rowCount, table)
		}
	}

	log.Printf("Successfully loaded %s (%d rows)\n", table, rowCount)
	return nil
}
