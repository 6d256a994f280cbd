package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDatasetIsolatedFromCaller(t *testing.T) {
	in := []SalesRecord{{OrderID: "ORD-000001", OrderDate: day(2023, 3, 1)}}
	ds := NewDataset(in)

	in[0].OrderID = "changed"
	assert.Equal(t, "ORD-000001", ds.At(0).OrderID)

	out := ds.Records()
	out[0].OrderID = "changed"
	assert.Equal(t, "ORD-000001", ds.At(0).OrderID)
}

func TestDatasetNilAndEmpty(t *testing.T) {
	var ds *Dataset
	assert.Equal(t, 0, ds.Len())
	assert.Nil(t, ds.Records())

	_, _, ok := NewDataset(nil).Span()
	assert.False(t, ok)
}

func TestDatasetSpan(t *testing.T) {
	ds := NewDataset([]SalesRecord{
		{OrderDate: day(2023, 5, 1)},
		{OrderDate: day(2022, 1, 9)},
		{OrderDate: day(2024, 2, 29)},
	})

	first, last, ok := ds.Span()
	assert.True(t, ok)
	assert.Equal(t, day(2022, 1, 9), first)
	assert.Equal(t, day(2024, 2, 29), last)
}

func TestDate(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	assert.Equal(t, day(2023, 7, 4), Date(time.Date(2023, 7, 4, 23, 30, 0, 0, loc)))
}
