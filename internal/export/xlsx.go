package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/salesreport/internal/datastore"
	"github.com/mamadbah2/salesreport/internal/domain/models"
)

const (
	salesSheet   = "Sales"
	summarySheet = "Summary"
)

// WriteWorkbook writes ds as an XLSX workbook. When kpis is non-nil a Summary
// sheet with the headline metrics is added.
func WriteWorkbook(w io.Writer, ds *models.Dataset, kpis *models.KPIs) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(datastore.Columns))
	for i, c := range datastore.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(salesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := 0; i < ds.Len(); i++ {
		rec := ds.At(i)
		row := []interface{}{
			rec.OrderID,
			rec.OrderDate.Format(models.DateLayout),
			rec.Region,
			rec.Country,
			rec.ProductCategory,
			rec.ProductName,
			rec.SalesChannel,
			rec.Quantity,
			rec.UnitPrice,
			rec.TotalSales,
			rec.Profit,
			rec.CustomerSegment,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(salesSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %s: %w", rec.OrderID, err)
		}
	}

	if kpis != nil {
		if err := writeSummary(f, *kpis); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, k models.KPIs) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"metric", "value"},
		{"total_revenue", k.TotalRevenue},
		{"total_profit", k.TotalProfit},
		{"total_orders", k.TotalOrders},
		{"avg_order_value", k.AvgOrderValue},
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	return nil
}
