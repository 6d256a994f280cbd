package analytics

import (
	"slices"

	"github.com/mamadbah2/salesreport/internal/domain/models"
)

// Options lists the sorted distinct regions, categories and channels of ds
// together with its date span.
func Options(ds *models.Dataset) models.FilterOptions {
	regions := map[string]struct{}{}
	categories := map[string]struct{}{}
	channels := map[string]struct{}{}
	for i := 0; i < ds.Len(); i++ {
		rec := ds.At(i)
		regions[rec.Region] = struct{}{}
		categories[rec.ProductCategory] = struct{}{}
		channels[rec.SalesChannel] = struct{}{}
	}

	opts := models.FilterOptions{
		Regions:    sortedKeys(regions),
		Categories: sortedKeys(categories),
		Channels:   sortedKeys(channels),
	}
	if first, last, ok := ds.Span(); ok {
		opts.MinDate = first.Format(models.DateLayout)
		opts.MaxDate = last.Format(models.DateLayout)
	}
	return opts
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		if k == "" {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
