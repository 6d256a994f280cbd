package analytics

import (
	"time"

	"github.com/mamadbah2/salesreport/internal/domain/models"
)

// Selection restricts one categorical dimension. The zero value matches every value.
type Selection struct {
	restricted bool
	values     map[string]struct{}
}

// All matches every value of a dimension.
func All() Selection {
	return Selection{}
}

// OneOf matches only the listed values. OneOf() with no values matches nothing.
func OneOf(values ...string) Selection {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return Selection{restricted: true, values: set}
}

// FromValues treats an empty list as "no restriction", the convention used by
// dashboard multiselects where clearing every choice means show everything.
func FromValues(values []string) Selection {
	if len(values) == 0 {
		return All()
	}
	return OneOf(values...)
}

// IsAll reports whether the selection leaves the dimension unrestricted.
func (s Selection) IsAll() bool {
	return !s.restricted
}

// Matches reports whether value passes the selection.
func (s Selection) Matches(value string) bool {
	if !s.restricted {
		return true
	}
	_, ok := s.values[value]
	return ok
}

// Criteria describes a filter over a dataset. A zero Start or End leaves that
// side of the date range open.
type Criteria struct {
	Start      time.Time
	End        time.Time
	Regions    Selection
	Categories Selection
	Channels   Selection
}

// Filter returns the records matching c, in their original order, as a new Dataset.
// An inverted date range (Start after End) yields an empty dataset.
func Filter(ds *models.Dataset, c Criteria) *models.Dataset {
	start, end := c.Start, c.End
	hasStart, hasEnd := !start.IsZero(), !end.IsZero()
	if hasStart {
		start = models.Date(start)
	}
	if hasEnd {
		end = models.Date(end)
	}
	if hasStart && hasEnd && start.After(end) {
		return models.NewDataset(nil)
	}

	kept := make([]models.SalesRecord, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		rec := ds.At(i)
		day := models.Date(rec.OrderDate)
		if hasStart && day.Before(start) {
			continue
		}
		if hasEnd && day.After(end) {
			continue
		}
		if !c.Regions.Matches(rec.Region) ||
			!c.Categories.Matches(rec.ProductCategory) ||
			!c.Channels.Matches(rec.SalesChannel) {
			continue
		}
		kept = append(kept, rec)
	}
	return models.NewDataset(kept)
}

// Apply is the positional form of Filter. Each dimension takes a Selection:
// pass All() to leave it unrestricted. OneOf() with no values matches nothing;
// use FromValues to treat an empty list as "all".
func Apply(ds *models.Dataset, start, end time.Time, regions, categories, channels Selection) *models.Dataset {
	return Filter(ds, Criteria{
		Start:      start,
		End:        end,
		Regions:    regions,
		Categories: categories,
		Channels:   channels,
	})
}
