package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/salesreport/internal/domain/models"
)

// DefaultRowCount is the dataset size produced by the generate command.
const DefaultRowCount = 2000

const onlineWeight = 0.6

// ErrInvalidRowCount is returned when fewer than one row is requested.
var ErrInvalidRowCount = errors.New("row count must be at least 1")

// ErrNoRandomSource is returned by Generate when the generator was built without a *rand.Rand.
var ErrNoRandomSource = errors.New("generator has no random source")

// Option configures a Generator.
type Option func(*Generator)

// WithWindow sets the inclusive order date window.
func WithWindow(start, end time.Time) Option {
	return func(g *Generator) {
		g.start = models.Date(start)
		g.end = models.Date(end)
	}
}

// WithCatalog replaces the product catalog.
func WithCatalog(products []Product) Option {
	return func(g *Generator) {
		g.catalog = products
	}
}

// WithIDPrefix sets the order id prefix, "ORD-" by default.
func WithIDPrefix(prefix string) Option {
	return func(g *Generator) {
		g.idPrefix = prefix
	}
}

// Generator fabricates plausible sales transactions. It draws every random
// value from the injected source, so a seeded source gives a reproducible dataset.
type Generator struct {
	rng      *rand.Rand
	start    time.Time
	end      time.Time
	catalog  []Product
	idPrefix string
}

// New builds a generator drawing from rng. rng is required; use NewSeeded
// when the caller has only a seed.
func New(rng *rand.Rand, opts ...Option) *Generator {
	g := &Generator{
		rng:      rng,
		start:    time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		end:      time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		catalog:  DefaultCatalog,
		idPrefix: "ORD-",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewSeeded is New with a PCG source seeded from seed.
func NewSeeded(seed uint64, opts ...Option) *Generator {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), opts...)
}

// Generate returns n synthetic records numbered from 1.
func (g *Generator) Generate(n int) (*models.Dataset, error) {
	if n <= 0 {
		return nil, fmt.Errorf("generate %d rows: %w", n, ErrInvalidRowCount)
	}
	if g.rng == nil {
		return nil, ErrNoRandomSource
	}
	if len(g.catalog) == 0 {
		return nil, errors.New("generate: product catalog is empty")
	}
	if g.end.Before(g.start) {
		return nil, fmt.Errorf("generate: window end %s before start %s",
			g.end.Format(models.DateLayout), g.start.Format(models.DateLayout))
	}

	records := make([]models.SalesRecord, 0, n)
	for i := 1; i <= n; i++ {
		records = append(records, g.record(i))
	}
	return models.NewDataset(records), nil
}

func (g *Generator) record(seq int) models.SalesRecord {
	orderDate := g.orderDate()

	region := g.pick(Regions)
	country := g.pick(CountriesByRegion[region])
	product := g.catalog[g.rng.IntN(len(g.catalog))]
	channel := models.ChannelRetail
	if g.rng.Float64() < onlineWeight {
		channel = models.ChannelOnline
	}
	segment := g.pick(CustomerSegments)

	var qty int
	if channel == models.ChannelOnline {
		qty = g.intBetween(1, 5)
	} else {
		qty = g.intBetween(1, 10)
	}
	if product.Category == categoryGrocery {
		qty += g.intBetween(1, 10)
	}
	qty = max(1, qty)

	unitPrice := round2(product.BasePrice * g.uniform(0.9, 1.1))
	total := round2(float64(qty) * unitPrice)
	profit := round2(total * product.MarginPct * g.uniform(0.8, 1.2))

	return models.SalesRecord{
		OrderID:         fmt.Sprintf("%s%06d", g.idPrefix, seq),
		OrderDate:       orderDate,
		Region:          region,
		Country:         country,
		ProductCategory: product.Category,
		ProductName:     product.Name,
		SalesChannel:    channel,
		Quantity:        qty,
		UnitPrice:       unitPrice,
		TotalSales:      total,
		Profit:          profit,
		CustomerSegment: segment,
	}
}

// orderDate draws a day offset uniformly over the window, then scales it by
// the square of a second uniform draw. The result clusters near the window start.
func (g *Generator) orderDate() time.Time {
	span := int(g.end.Sub(g.start).Hours() / 24)
	offset := g.rng.IntN(span + 1)
	bias := g.rng.Float64()
	offset = int(float64(offset) * bias * bias)
	return g.start.AddDate(0, 0, offset)
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.IntN(len(values))]
}

// intBetween returns an integer in [lo, hi].
func (g *Generator) intBetween(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*g.rng.Float64()
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
