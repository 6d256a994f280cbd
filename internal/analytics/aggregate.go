package analytics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mamadbah2/salesreport/internal/domain/models"
)

// DefaultTopN is the number of products returned when the caller does not choose.
const DefaultTopN = 10

// ErrInvalidLimit is returned when a top-N limit is not a positive integer.
var ErrInvalidLimit = errors.New("limit must be a positive integer")

func totalSales(r models.SalesRecord) float64 { return r.TotalSales }
func profit(r models.SalesRecord) float64     { return r.Profit }

// MonthlyTrend sums total sales per calendar month in ascending month order.
// Only months that have records appear.
func MonthlyTrend(ds *models.Dataset) []models.MonthlyTotal {
	acc := newOrderedSum[time.Time]()
	for i := 0; i < ds.Len(); i++ {
		rec := ds.At(i)
		acc.add(TruncateToMonth(rec.OrderDate), rec.TotalSales)
	}

	months := make([]time.Time, len(acc.keys))
	copy(months, acc.keys)
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	trend := make([]models.MonthlyTotal, 0, len(months))
	for _, m := range months {
		trend = append(trend, models.MonthlyTotal{
			Month: m,
			Label: m.Format(monthLabelLayout),
			Sales: acc.totals[m],
		})
	}
	return trend
}

// SalesByRegion sums total sales per region, largest first.
func SalesByRegion(ds *models.Dataset) []models.GroupTotal {
	groups := sumBy(ds, func(r models.SalesRecord) string { return r.Region }, totalSales)
	sortDescending(groups)
	return groups
}

// ProfitByCategory sums profit per product category, largest first.
func ProfitByCategory(ds *models.Dataset) []models.GroupTotal {
	groups := sumBy(ds, func(r models.SalesRecord) string { return r.ProductCategory }, profit)
	sortDescending(groups)
	return groups
}

// ChannelDistribution sums total sales per sales channel in first-seen order
// and attaches each channel's share of the overall total.
func ChannelDistribution(ds *models.Dataset) []models.ChannelShare {
	groups := sumBy(ds, func(r models.SalesRecord) string { return r.SalesChannel }, totalSales)

	var overall float64
	for _, g := range groups {
		overall += g.Total
	}

	shares := make([]models.ChannelShare, 0, len(groups))
	for _, g := range groups {
		share := 0.0
		if overall != 0 {
			share = g.Total / overall
		}
		shares = append(shares, models.ChannelShare{Channel: g.Key, Total: g.Total, Share: share})
	}
	return shares
}

// TopProducts returns up to n products ranked by total sales.
func TopProducts(ds *models.Dataset, n int) ([]models.GroupTotal, error) {
	if n <= 0 {
		return nil, fmt.Errorf("top products %d: %w", n, ErrInvalidLimit)
	}

	groups := sumBy(ds, func(r models.SalesRecord) string { return r.ProductName }, totalSales)
	sortDescending(groups)
	if len(groups) > n {
		groups = groups[:n]
	}
	return groups, nil
}

// sortDescending orders groups by total, keeping first-seen order on ties.
func sortDescending(groups []models.GroupTotal) {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Total > groups[j].Total })
}
