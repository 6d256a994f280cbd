package analytics

import (
	"time"

	"github.com/mamadbah2/salesreport/internal/domain/models"
)

const monthLabelLayout = "2006-01"

// TruncateToMonth returns the first day of t's month at UTC midnight.
func TruncateToMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// orderedSum accumulates totals per key and remembers first-seen key order.
type orderedSum[K comparable] struct {
	keys   []K
	totals map[K]float64
}

func newOrderedSum[K comparable]() *orderedSum[K] {
	return &orderedSum[K]{totals: make(map[K]float64)}
}

func (o *orderedSum[K]) add(key K, v float64) {
	if _, ok := o.totals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.totals[key] += v
}

// sumBy groups ds by key and sums value, returning groups in first-seen order.
func sumBy(ds *models.Dataset, key func(models.SalesRecord) string, value func(models.SalesRecord) float64) []models.GroupTotal {
	acc := newOrderedSum[string]()
	for i := 0; i < ds.Len(); i++ {
		rec := ds.At(i)
		acc.add(key(rec), value(rec))
	}

	groups := make([]models.GroupTotal, 0, len(acc.keys))
	for _, k := range acc.keys {
		groups = append(groups, models.GroupTotal{Key: k, Total: acc.totals[k]})
	}
	return groups
}
