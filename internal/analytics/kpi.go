package analytics

import "github.com/mamadbah2/salesreport/internal/domain/models"

// ComputeKPIs summarises ds. Orders are counted by distinct order id and the
// average order value is 0 when there are none.
func ComputeKPIs(ds *models.Dataset) models.KPIs {
	var k models.KPIs
	orders := make(map[string]struct{}, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		rec := ds.At(i)
		k.TotalRevenue += rec.TotalSales
		k.TotalProfit += rec.Profit
		orders[rec.OrderID] = struct{}{}
	}

	k.TotalOrders = len(orders)
	if k.TotalOrders > 0 {
		k.AvgOrderValue = k.TotalRevenue / float64(k.TotalOrders)
	}
	return k
}
