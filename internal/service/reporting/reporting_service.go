package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/salesreport/internal/analytics"
	"github.com/mamadbah2/salesreport/internal/datastore"
	"github.com/mamadbah2/salesreport/internal/domain/models"
	"github.com/mamadbah2/salesreport/internal/repository/mongodb"
)

// DatasetStore loads datasets and drops cached copies on request.
type DatasetStore interface {
	Load(ctx context.Context, src datastore.Source) (*models.Dataset, error)
	Invalidate(key string)
}

// Query is one dashboard filter selection. TopN of 0 uses the service default.
type Query struct {
	Criteria analytics.Criteria
	TopN     int
}

// Service turns a dataset source and a filter selection into render-ready reports.
type Service struct {
	store     DatasetStore
	snapshots mongodb.Repository
	topN      int
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(store DatasetStore, snapshots mongodb.Repository, topN int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if snapshots == nil {
		snapshots = mongodb.NopRepository{}
	}
	if topN <= 0 {
		topN = analytics.DefaultTopN
	}
	return &Service{store: store, snapshots: snapshots, topN: topN, logger: logger, now: time.Now}
}

// Filtered loads src and returns the records matching q.
func (s *Service) Filtered(ctx context.Context, src datastore.Source, q Query) (*models.Dataset, error) {
	ds, err := s.store.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return analytics.Filter(ds, q.Criteria), nil
}

// Build loads src, filters it by q and computes the KPIs and every aggregation view.
func (s *Service) Build(ctx context.Context, src datastore.Source, q Query) (*models.Report, error) {
	ds, err := s.store.Load(ctx, src)
	if err != nil {
		return nil, err
	}

	topN := q.TopN
	if topN == 0 {
		topN = s.topN
	}

	filtered := analytics.Filter(ds, q.Criteria)
	top, err := analytics.TopProducts(filtered, topN)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		Source:              src.Key(),
		Rows:                filtered.Len(),
		KPIs:                analytics.ComputeKPIs(filtered),
		MonthlyTrend:        analytics.MonthlyTrend(filtered),
		SalesByRegion:       analytics.SalesByRegion(filtered),
		ProfitByCategory:    analytics.ProfitByCategory(filtered),
		ChannelDistribution: analytics.ChannelDistribution(filtered),
		TopProducts:         top,
		Options:             analytics.Options(ds),
	}

	s.logger.Debug("report built",
		zap.String("source", report.Source),
		zap.Int("rows", report.Rows),
		zap.Int("total_rows", ds.Len()))
	return report, nil
}

// Snapshot builds an unfiltered report for src and persists it.
func (s *Service) Snapshot(ctx context.Context, src datastore.Source) (*models.ReportSnapshot, error) {
	report, err := s.Build(ctx, src, Query{})
	if err != nil {
		return nil, fmt.Errorf("build snapshot report: %w", err)
	}

	snapshot := models.ReportSnapshot{
		ID:        uuid.NewString(),
		Report:    *report,
		CreatedAt: s.now().UTC(),
	}
	if err := s.snapshots.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	s.logger.Info("report snapshot saved",
		zap.String("id", snapshot.ID),
		zap.String("source", report.Source),
		zap.Float64("total_revenue", report.KPIs.TotalRevenue))
	return &snapshot, nil
}

// LatestSnapshot returns the most recently stored snapshot for src, if any.
func (s *Service) LatestSnapshot(ctx context.Context, src datastore.Source) (*models.ReportSnapshot, error) {
	return s.snapshots.LatestSnapshot(ctx, src.Key())
}

// Refresh drops the cached dataset for src so the next load re-reads it.
func (s *Service) Refresh(src datastore.Source) {
	s.store.Invalidate(src.Key())
}
