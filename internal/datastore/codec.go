package datastore

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/salesreport/internal/domain/models"
)

// Columns is the persisted column order.
var Columns = []string{
	"order_id",
	"order_date",
	"region",
	"country",
	"product_category",
	"product_name",
	"sales_channel",
	"quantity",
	"unit_price",
	"total_sales",
	"profit",
	"customer_segment",
}

const (
	colOrderID = iota
	colOrderDate
	colRegion
	colCountry
	colCategory
	colProduct
	colChannel
	colQuantity
	colUnitPrice
	colTotalSales
	colProfit
	colSegment
)

// Parse converts a header row followed by data rows into a Dataset.
// Columns are located by header name, so their order in the source is free.
func Parse(rows [][]string) (*models.Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row: %w", ErrMissingColumn)
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	pos := make([]int, len(Columns))
	for c, name := range Columns {
		i, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("column %q: %w", name, ErrMissingColumn)
		}
		pos[c] = i
	}

	records := make([]models.SalesRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		line := n + 2
		cell := func(c int) string {
			if pos[c] >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[pos[c]])
		}

		date, err := time.Parse(models.DateLayout, cell(colOrderDate))
		if err != nil {
			return nil, fmt.Errorf("line %d: order_date %q: %w", line, cell(colOrderDate), ErrInvalidDate)
		}
		qty, err := strconv.Atoi(cell(colQuantity))
		if err != nil {
			return nil, fmt.Errorf("line %d: quantity %q: %w", line, cell(colQuantity), ErrInvalidValue)
		}
		unitPrice, err := parseMoney(line, "unit_price", cell(colUnitPrice))
		if err != nil {
			return nil, err
		}
		total, err := parseMoney(line, "total_sales", cell(colTotalSales))
		if err != nil {
			return nil, err
		}
		profit, err := parseMoney(line, "profit", cell(colProfit))
		if err != nil {
			return nil, err
		}

		records = append(records, models.SalesRecord{
			OrderID:         cell(colOrderID),
			OrderDate:       date,
			Region:          cell(colRegion),
			Country:         cell(colCountry),
			ProductCategory: cell(colCategory),
			ProductName:     cell(colProduct),
			SalesChannel:    cell(colChannel),
			Quantity:        qty,
			UnitPrice:       unitPrice,
			TotalSales:      total,
			Profit:          profit,
			CustomerSegment: cell(colSegment),
		})
	}

	return models.NewDataset(records), nil
}

// ReadCSV parses the persisted delimited format.
func ReadCSV(r io.Reader) (*models.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %v: %w", err, ErrSourceUnreadable)
	}
	return Parse(rows)
}

// WriteCSV writes ds in the persisted format, header first.
func WriteCSV(w io.Writer, ds *models.Dataset) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range dataRows(ds) {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv record %s: %w", row[colOrderID], err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ToRows renders ds as a header row followed by one string row per record.
func ToRows(ds *models.Dataset) [][]string {
	return append([][]string{Columns}, dataRows(ds)...)
}

func dataRows(ds *models.Dataset) [][]string {
	rows := make([][]string, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		rec := ds.At(i)
		rows = append(rows, []string{
			rec.OrderID,
			rec.OrderDate.Format(models.DateLayout),
			rec.Region,
			rec.Country,
			rec.ProductCategory,
			rec.ProductName,
			rec.SalesChannel,
			strconv.Itoa(rec.Quantity),
			FormatMoney(rec.UnitPrice),
			FormatMoney(rec.TotalSales),
			FormatMoney(rec.Profit),
			rec.CustomerSegment,
		})
	}
	return rows
}

// FormatMoney renders v with exactly two decimals.
func FormatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func parseMoney(line int, column, raw string) (float64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("line %d: %s %q: %w", line, column, raw, ErrInvalidValue)
	}
	return d.InexactFloat64(), nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
