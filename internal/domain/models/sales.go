package models

import (
	"slices"
	"time"
)

// DateLayout is the calendar date format used by the persisted dataset.
const DateLayout = "2006-01-02"

// Sales channels known to the dataset.
const (
	ChannelOnline = "Online"
	ChannelRetail = "Retail"
)

// SalesRecord captures one sales transaction line.
type SalesRecord struct {
	OrderID         string    `json:"order_id" bson:"order_id"`
	OrderDate       time.Time `json:"order_date" bson:"order_date"`
	Region          string    `json:"region" bson:"region"`
	Country         string    `json:"country" bson:"country"`
	ProductCategory string    `json:"product_category" bson:"product_category"`
	ProductName     string    `json:"product_name" bson:"product_name"`
	SalesChannel    string    `json:"sales_channel" bson:"sales_channel"`
	Quantity        int       `json:"quantity" bson:"quantity"`
	UnitPrice       float64   `json:"unit_price" bson:"unit_price"`
	TotalSales      float64   `json:"total_sales" bson:"total_sales"`
	Profit          float64   `json:"profit" bson:"profit"`
	CustomerSegment string    `json:"customer_segment" bson:"customer_segment"`
}

// Dataset is an ordered, read-only collection of sales records.
// The zero value is an empty dataset.
type Dataset struct {
	records []SalesRecord
}

// NewDataset copies records into a new Dataset so later changes to the
// caller's slice cannot leak into it.
func NewDataset(records []SalesRecord) *Dataset {
	return &Dataset{records: slices.Clone(records)}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// At returns the i-th record by value.
func (d *Dataset) At(i int) SalesRecord {
	return d.records[i]
}

// Records returns a copy of the underlying records.
func (d *Dataset) Records() []SalesRecord {
	if d == nil {
		return nil
	}
	return slices.Clone(d.records)
}

// Span returns the earliest and latest order dates. ok is false for an empty dataset.
func (d *Dataset) Span() (first, last time.Time, ok bool) {
	if d.Len() == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = d.records[0].OrderDate, d.records[0].OrderDate
	for _, rec := range d.records[1:] {
		if rec.OrderDate.Before(first) {
			first = rec.OrderDate
		}
		if rec.OrderDate.After(last) {
			last = rec.OrderDate
		}
	}
	return first, last, true
}

// Date returns the UTC midnight of the calendar day t falls on.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
