package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mamadbah2/salesreport/internal/datastore"
	"github.com/mamadbah2/salesreport/internal/domain/models"
	"github.com/mamadbah2/salesreport/internal/server/handlers"
	"github.com/mamadbah2/salesreport/internal/service/reporting"
)

const salesCSV = `order_id,order_date,region,country,product_category,product_name,sales_channel,quantity,unit_price,total_sales,profit,customer_segment
ORD-000001,2023-01-15,North,USA,Electronics,Laptop Pro,Online,1,1200.00,1200.00,260.00,Corporate
ORD-000002,2023-01-20,North,Canada,Grocery,Breakfast Cereal,Retail,10,6.00,60.00,15.00,Consumer
ORD-000003,2023-02-03,South,Brazil,Furniture,Bookshelf,Online,2,120.00,240.00,65.00,Home Office
ORD-000004,2023-04-11,West,UK,Clothing,Running Shoes,Retail,3,110.00,330.00,125.00,Consumer
`

type snapshotStub struct {
	latest *models.ReportSnapshot
}

func (s *snapshotStub) SaveSnapshot(_ context.Context, snap models.ReportSnapshot) error {
	s.latest = &snap
	return nil
}

func (s *snapshotStub) LatestSnapshot(context.Context, string) (*models.ReportSnapshot, error) {
	return s.latest, nil
}

func newTestServer(t *testing.T, path string) (http.Handler, *reporting.Service, datastore.Source) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	src := datastore.NewFileSource(path)
	svc := reporting.NewService(datastore.NewStore(logger), &snapshotStub{}, 10, logger)
	return New(handlers.NewReportHandler(svc, src, logger), logger), svc, src
}

func writeSales(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(salesCSV), 0o644))
	return path
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	h, _, _ := newTestServer(t, writeSales(t))
	rec := do(h, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReportEndpoint(t *testing.T) {
	h, _, _ := newTestServer(t, writeSales(t))

	rec := do(h, http.MethodGet, "/api/report?start=2023-01-01&end=2023-03-31&region=North,South&top=1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report models.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 3, report.Rows)
	assert.InDelta(t, 1500.0, report.KPIs.TotalRevenue, 1e-9)
	require.Len(t, report.TopProducts, 1)
	assert.Equal(t, "Laptop Pro", report.TopProducts[0].Key)
	require.Len(t, report.MonthlyTrend, 2)
	assert.Equal(t, "2023-02", report.MonthlyTrend[1].Label)
}

func TestReportEndpointRepeatedParams(t *testing.T) {
	h, _, _ := newTestServer(t, writeSales(t))

	rec := do(h, http.MethodGet, "/api/report?channel=Retail&category=Grocery&category=Clothing")
	require.Equal(t, http.StatusOK, rec.Code)

	var report models.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 2, report.Rows)
}

func TestReportEndpointBadRequests(t *testing.T) {
	h, _, _ := newTestServer(t, writeSales(t))

	for _, target := range []string{
		"/api/report?start=01-01-2023",
		"/api/report?end=tomorrow",
		"/api/report?top=0",
		"/api/report?top=ten",
		"/api/export?format=pdf",
	} {
		rec := do(h, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestReportEndpointMissingDataset(t *testing.T) {
	h, _, _ := newTestServer(t, filepath.Join(t.TempDir(), "missing.csv"))
	rec := do(h, http.MethodGet, "/api/report")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestExportCSV(t *testing.T) {
	h, _, _ := newTestServer(t, writeSales(t))

	rec := do(h, http.MethodGet, "/api/export?region=West")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "filtered_sales_data.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "ORD-000004,2023-04-11,West,UK"))
}

func TestExportXLSX(t *testing.T) {
	h, _, _ := newTestServer(t, writeSales(t))

	rec := do(h, http.MethodGet, "/api/export?format=xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "filtered_sales_data.xlsx")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"), "xlsx is a zip container")
}

func TestInvalidateAndSnapshots(t *testing.T) {
	h, svc, src := newTestServer(t, writeSales(t))

	rec := do(h, http.MethodGet, "/api/snapshots/latest")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, err := svc.Snapshot(context.Background(), src)
	require.NoError(t, err)

	rec = do(h, http.MethodGet, "/api/snapshots/latest")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap models.ReportSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 4, snap.Report.Rows)

	rec = do(h, http.MethodPost, "/api/cache/invalidate")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
