package usecase

import (
	"fmt"
	"sort"
	"time"

	"github.com/mark47B/campground-availability/app/domain/entity"
)

// DeriveAvailableDatesBySite lists, per site label, the dates whose status is
// exactly "Available". Sites are sorted by label and dates ascending; sites
// without available dates are left out. Campsites sharing a label are merged.
func DeriveAvailableDatesBySite(agg *entity.AggregatedAvailability) ([]entity.SiteAvailability, error) {
	if agg == nil {
		return nil, nil
	}

	bySite := make(map[string]map[time.Time]struct{})
	for id, cs := range agg.Campsites {
		for key, status := range cs.Availabilities {
			if status != entity.StatusAvailable {
				continue
			}
			date, err := entity.ParseDateKey(key)
			if err != nil {
				return nil, fmt.Errorf("campsite %s: %w", id, err)
			}
			dates, ok := bySite[cs.Site]
			if !ok {
				dates = make(map[time.Time]struct{})
				bySite[cs.Site] = dates
			}
			dates[date] = struct{}{}
		}
	}

	out := make([]entity.SiteAvailability, 0, len(bySite))
	for site, set := range bySite {
		dates := make([]time.Time, 0, len(set))
		for d := range set {
			dates = append(dates, d)
		}
		sort.Slice(dates, func(i, j int) bool {
			return dates[i].Before(dates[j])
		})
		out = append(out, entity.SiteAvailability{Site: site, Dates: dates})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Site < out[j].Site
	})
	return out, nil
}
