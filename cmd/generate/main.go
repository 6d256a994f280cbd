package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/salesreport/internal/config"
	"github.com/mamadbah2/salesreport/internal/datastore"
	"github.com/mamadbah2/salesreport/internal/domain/models"
	"github.com/mamadbah2/salesreport/internal/generator"
	"github.com/mamadbah2/salesreport/internal/repository/sheets"
	"github.com/mamadbah2/salesreport/pkg/logger"
)

func main() {
	var (
		rows       = flag.Int("rows", generator.DefaultRowCount, "number of orders to generate")
		seed       = flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed; reuse it to reproduce a dataset")
		out        = flag.String("out", "data/sales_data.csv", "output CSV path")
		sheetRange = flag.String("sheet-range", "", "also append the rows to this Google Sheets range, e.g. Sales!A:L")
		logLevel   = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	log := logger.Must(logger.New(*logLevel)).Named("generate")
	defer func() { _ = log.Sync() }()

	ds, err := generator.NewSeeded(*seed).Generate(*rows)
	if err != nil {
		log.Fatal("failed to generate sales data", zap.Error(err))
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatal("failed to create output directory", zap.Error(err))
	}
	f, err := os.Create(*out)
	if err != nil {
		log.Fatal("failed to create output file", zap.Error(err))
	}
	if err := datastore.WriteCSV(f, ds); err != nil {
		_ = f.Close()
		log.Fatal("failed to write csv", zap.Error(err))
	}
	if err := f.Close(); err != nil {
		log.Fatal("failed to close output file", zap.Error(err))
	}

	start, end, _ := ds.Span()
	log.Info("sales data generated",
		zap.String("path", *out),
		zap.Int("rows", ds.Len()),
		zap.Uint64("seed", *seed),
		zap.String("from", start.Format(models.DateLayout)),
		zap.String("to", end.Format(models.DateLayout)))

	if *sheetRange == "" {
		return
	}

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}
	if err := cfg.Sheets.Validate(); err != nil {
		log.Fatal("sheets config invalid", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, log.Named("repo.sheets"))
	if err != nil {
		log.Fatal("failed to init sheets repository", zap.Error(err))
	}
	if err := repo.AppendRows(ctx, *sheetRange, datastore.ToRows(ds)); err != nil {
		log.Fatal("failed to publish rows to sheet", zap.Error(err))
	}
	log.Info("sales data published", zap.String("range", *sheetRange), zap.String("spreadsheet_id", repo.SpreadsheetID()))
}
