package generator

import (
	"bytes"
	"math"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/salesreport/internal/datastore"
	"github.com/mamadbah2/salesreport/internal/domain/models"
)

func TestGenerateSingleRecord(t *testing.T) {
	ds, err := NewSeeded(1).Generate(1)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())

	rec := ds.At(0)
	assert.Equal(t, "ORD-000001", rec.OrderID)
	assert.GreaterOrEqual(t, rec.Quantity, 1)
	assert.Greater(t, rec.UnitPrice, 0.0)
	assert.Equal(t, round2(float64(rec.Quantity)*rec.UnitPrice), rec.TotalSales)
}

func TestGenerateRejectsNonPositiveCounts(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := NewSeeded(1).Generate(n)
		assert.ErrorIs(t, err, ErrInvalidRowCount)
	}
}

func TestGenerateRequiresRandomSource(t *testing.T) {
	_, err := New(nil).Generate(10)
	assert.ErrorIs(t, err, ErrNoRandomSource)
}

func TestGenerateIsReproducibleForSeed(t *testing.T) {
	a, err := NewSeeded(42).Generate(200)
	require.NoError(t, err)
	b, err := NewSeeded(42).Generate(200)
	require.NoError(t, err)
	assert.Equal(t, a.Records(), b.Records())

	c, err := NewSeeded(43).Generate(200)
	require.NoError(t, err)
	assert.NotEqual(t, a.Records(), c.Records())
}

func TestGeneratedRecordsAreConsistent(t *testing.T) {
	g := New(rand.New(rand.NewPCG(7, 11)))
	ds, err := g.Generate(3000)
	require.NoError(t, err)

	products := map[string]Product{}
	for _, p := range DefaultCatalog {
		products[p.Name] = p
	}

	seen := map[string]bool{}
	online := 0
	for _, rec := range ds.Records() {
		require.False(t, seen[rec.OrderID], "duplicate order id %s", rec.OrderID)
		seen[rec.OrderID] = true

		assert.False(t, rec.OrderDate.Before(g.start), rec.OrderID)
		assert.False(t, rec.OrderDate.After(g.end), rec.OrderID)
		assert.Contains(t, CountriesByRegion[rec.Region], rec.Country)
		assert.Contains(t, CustomerSegments, rec.CustomerSegment)

		p, ok := products[rec.ProductName]
		require.True(t, ok, rec.ProductName)
		assert.Equal(t, p.Category, rec.ProductCategory)
		assert.GreaterOrEqual(t, rec.UnitPrice, round2(p.BasePrice*0.9))
		assert.LessOrEqual(t, rec.UnitPrice, round2(p.BasePrice*1.1))

		maxQty := 10
		if rec.SalesChannel == models.ChannelOnline {
			online++
			maxQty = 5
		}
		if rec.ProductCategory == categoryGrocery {
			maxQty += 10
		}
		assert.GreaterOrEqual(t, rec.Quantity, 1)
		assert.LessOrEqual(t, rec.Quantity, maxQty)

		assert.Equal(t, round2(float64(rec.Quantity)*rec.UnitPrice), rec.TotalSales)
		assert.GreaterOrEqual(t, rec.Profit, 0.0)
		assert.LessOrEqual(t, rec.Profit, rec.TotalSales*p.MarginPct*1.2+0.01)
	}

	share := float64(online) / float64(ds.Len())
	assert.InDelta(t, onlineWeight, share, 0.05)
}

func TestOrderDatesSkewTowardWindowStart(t *testing.T) {
	g := NewSeeded(99)
	ds, err := g.Generate(5000)
	require.NoError(t, err)

	mid := g.start.Add(g.end.Sub(g.start) / 2)
	early := 0
	for _, rec := range ds.Records() {
		if rec.OrderDate.Before(mid) {
			early++
		}
	}
	// With offset = U * u^2 for independent uniforms, about 91% of draws land in the first half.
	assert.Greater(t, float64(early)/float64(ds.Len()), 0.7)
}

func TestOptions(t *testing.T) {
	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)
	catalog := []Product{{Category: "Toys", Name: "Kite", BasePrice: 20, MarginPct: 0.5}}

	ds, err := NewSeeded(5, WithWindow(start, end), WithCatalog(catalog), WithIDPrefix("T-")).Generate(50)
	require.NoError(t, err)

	for _, rec := range ds.Records() {
		assert.Equal(t, "Kite", rec.ProductName)
		assert.Equal(t, "T-", rec.OrderID[:2])
		assert.False(t, rec.OrderDate.Before(start))
		assert.False(t, rec.OrderDate.After(end))
	}

	_, err = NewSeeded(5, WithWindow(end, start)).Generate(1)
	assert.Error(t, err)
	_, err = NewSeeded(5, WithCatalog(nil)).Generate(1)
	assert.Error(t, err)
}

func TestCSVRoundTrip(t *testing.T) {
	generated, err := NewSeeded(2024).Generate(500)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, datastore.WriteCSV(&buf, generated))

	loaded, err := datastore.ReadCSV(&buf)
	require.NoError(t, err)
	require.Equal(t, generated.Len(), loaded.Len())

	ids := func(ds *models.Dataset) []string {
		out := make([]string, 0, ds.Len())
		for _, r := range ds.Records() {
			out = append(out, r.OrderID)
		}
		slices.Sort(out)
		return out
	}
	assert.Equal(t, ids(generated), ids(loaded))

	for i := 0; i < generated.Len(); i++ {
		want, got := generated.At(i), loaded.At(i)
		assert.True(t, want.OrderDate.Equal(got.OrderDate))
		assert.LessOrEqual(t, math.Abs(want.TotalSales-got.TotalSales), 0.01)
		assert.LessOrEqual(t, math.Abs(want.Profit-got.Profit), 0.01)
		assert.Equal(t, want.Quantity, got.Quantity)
	}
}
