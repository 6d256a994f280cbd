package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mamadbah2/salesreport/internal/config"
	"github.com/mamadbah2/salesreport/internal/datastore"
	"github.com/mamadbah2/salesreport/internal/domain/models"
)

type fakeSnapshots struct {
	calls     []string
	err       error
	snapshots int
}

func (f *fakeSnapshots) Refresh(src datastore.Source) {
	f.calls = append(f.calls, "refresh:"+src.Key())
}

func (f *fakeSnapshots) Snapshot(_ context.Context, src datastore.Source) (*models.ReportSnapshot, error) {
	f.calls = append(f.calls, "snapshot:"+src.Key())
	if f.err != nil {
		return nil, f.err
	}
	f.snapshots++
	return &models.ReportSnapshot{ID: "snap-1", Report: models.Report{Source: src.Key(), Rows: 3}}, nil
}

func reportingConfig() config.ReportingConfig {
	return config.ReportingConfig{CronSchedule: "0 * * * *", Timezone: "UTC", TopN: 10}
}

func TestRunOnceRefreshesBeforeSnapshot(t *testing.T) {
	svc := &fakeSnapshots{}
	src := datastore.NewFileSource("/data/sales.csv")

	s, err := NewScheduler(reportingConfig(), svc, src, zaptest.NewLogger(t))
	require.NoError(t, err)

	s.RunOnce()

	assert.Equal(t, []string{"refresh:" + src.Key(), "snapshot:" + src.Key()}, svc.calls)
	assert.Equal(t, 1, svc.snapshots)
}

func TestRunOnceSwallowsSnapshotError(t *testing.T) {
	svc := &fakeSnapshots{err: errors.New("mongo down")}
	s, err := NewScheduler(reportingConfig(), svc, datastore.NewFileSource("sales.csv"), nil)
	require.NoError(t, err)

	assert.NotPanics(t, s.RunOnce)
	assert.Len(t, svc.calls, 2)
}

func TestNewSchedulerRejectsUnknownTimezone(t *testing.T) {
	cfg := reportingConfig()
	cfg.Timezone = "Mars/Olympus_Mons"

	_, err := NewScheduler(cfg, &fakeSnapshots{}, datastore.NewFileSource("sales.csv"), nil)
	assert.Error(t, err)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	cfg := reportingConfig()
	cfg.CronSchedule = "every hour"

	s, err := NewScheduler(cfg, &fakeSnapshots{}, datastore.NewFileSource("sales.csv"), nil)
	require.NoError(t, err)
	assert.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	s, err := NewScheduler(reportingConfig(), &fakeSnapshots{}, datastore.NewFileSource("sales.csv"), nil)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	s.Stop()
}
