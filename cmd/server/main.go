package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/salesreport/internal/config"
	"github.com/mamadbah2/salesreport/internal/datastore"
	"github.com/mamadbah2/salesreport/internal/repository/mongodb"
	"github.com/mamadbah2/salesreport/internal/repository/sheets"
	"github.com/mamadbah2/salesreport/internal/scheduler"
	"github.com/mamadbah2/salesreport/internal/server/handlers"
	"github.com/mamadbah2/salesreport/internal/server/router"
	reportingsvc "github.com/mamadbah2/salesreport/internal/service/reporting"
	"github.com/mamadbah2/salesreport/pkg/clients/remotecsv"
	"github.com/mamadbah2/salesreport/pkg/logger"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	source, err := buildSource(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init sales data source", zap.Error(err))
	}

	var snapshots mongodb.Repository = mongodb.NopRepository{}
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		snapshots = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, report snapshots disabled")
	}

	store := datastore.NewStore(baseLogger.Named("datastore"))
	reportingSvc := reportingsvc.NewService(store, snapshots, cfg.Reporting.TopN, baseLogger.Named("svc.reporting"))

	// Fail fast on a missing or malformed dataset instead of serving 503s.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), time.Minute)
	ds, err := store.Load(loadCtx, source)
	cancelLoad()
	if err != nil {
		baseLogger.Fatal("failed to load sales dataset", zap.Error(err))
	}
	baseLogger.Info("sales dataset loaded", zap.String("source", source.Key()), zap.Int("rows", ds.Len()))

	reportHandler := handlers.NewReportHandler(reportingSvc, source, baseLogger.Named("handlers.report"))
	engine := router.New(reportHandler, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, source, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildSource(ctx context.Context, cfg *config.Config, base *zap.Logger) (datastore.Source, error) {
	switch cfg.Data.SourceKind {
	case config.SourceHTTP:
		return datastore.NewHTTPSource(cfg.Data.URL, remotecsv.NewClient(cfg.Data.HTTPTimeout)), nil
	case config.SourceSheets:
		repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, base.Named("repo.sheets"))
		if err != nil {
			return nil, err
		}
		return datastore.NewSheetSource(repo.SpreadsheetID(), cfg.Data.SheetRange, repo), nil
	case config.SourceFile, "":
		return datastore.NewFileSource(cfg.Data.Path), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Data.SourceKind)
	}
}
