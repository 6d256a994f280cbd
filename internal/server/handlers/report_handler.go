package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/salesreport/internal/analytics"
	"github.com/mamadbah2/salesreport/internal/datastore"
	"github.com/mamadbah2/salesreport/internal/domain/models"
	"github.com/mamadbah2/salesreport/internal/export"
	"github.com/mamadbah2/salesreport/internal/service/reporting"
)

const exportBaseName = "filtered_sales_data"

// ReportHandler serves dashboard reports and filtered exports over HTTP.
type ReportHandler struct {
	svc    *reporting.Service
	source datastore.Source
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc *reporting.Service, source datastore.Source, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, source: source, logger: logger}
}

// Report returns KPIs and every aggregation view for the requested filters.
func (h *ReportHandler) Report(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.svc.Build(c.Request.Context(), h.source, q)
	if err != nil {
		h.fail(c, "failed building report", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Export downloads the filtered dataset as CSV (default) or XLSX.
func (h *ReportHandler) Export(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}

	ds, err := h.svc.Filtered(c.Request.Context(), h.source, q)
	if err != nil {
		h.fail(c, "failed loading export data", err)
		return
	}

	var (
		buf         bytes.Buffer
		contentType string
	)
	switch format {
	case "xlsx":
		kpis := analytics.ComputeKPIs(ds)
		err = export.WriteWorkbook(&buf, ds, &kpis)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		err = datastore.WriteCSV(&buf, ds)
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		h.fail(c, "failed encoding export", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, exportBaseName, format))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// Invalidate drops the cached dataset so the next request re-reads the source.
func (h *ReportHandler) Invalidate(c *gin.Context) {
	h.svc.Refresh(h.source)
	c.Status(http.StatusNoContent)
}

// LatestSnapshot returns the most recent stored snapshot.
func (h *ReportHandler) LatestSnapshot(c *gin.Context) {
	snap, err := h.svc.LatestSnapshot(c.Request.Context(), h.source)
	if err != nil {
		h.fail(c, "failed reading snapshot", err)
		return
	}
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot stored yet"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *ReportHandler) fail(c *gin.Context, msg string, err error) {
	if errors.Is(err, analytics.ErrInvalidLimit) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Error(msg, zap.Error(err))
	var le *datastore.LoadError
	if errors.As(err, &le) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sales dataset unavailable"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// parseQuery reads start, end, region, category, channel and top. Dimension
// parameters may repeat or hold comma separated values; absent means all.
func parseQuery(c *gin.Context) (reporting.Query, error) {
	var q reporting.Query

	start, err := parseDate(c.Query("start"))
	if err != nil {
		return q, fmt.Errorf("start: %w", err)
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		return q, fmt.Errorf("end: %w", err)
	}

	if raw := c.Query("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return q, fmt.Errorf("top must be a positive integer")
		}
		q.TopN = n
	}

	q.Criteria = analytics.Criteria{
		Start:      start,
		End:        end,
		Regions:    analytics.FromValues(listParam(c, "region")),
		Categories: analytics.FromValues(listParam(c, "category")),
		Channels:   analytics.FromValues(listParam(c, "channel")),
	}
	return q, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD, got %q", raw)
	}
	return t, nil
}

func listParam(c *gin.Context, key string) []string {
	var values []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}
