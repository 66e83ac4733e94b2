package usecase

import (
	"github.com/mark47B/campground-availability/app/domain/entity"
)

// Aggregate folds monthly responses left to right into a fresh aggregate.
// Inputs are never mutated or aliased.
func Aggregate(monthly []*entity.MonthlyAvailability) *entity.AggregatedAvailability {
	agg := entity.NewAggregatedAvailability()
	for _, m := range monthly {
		MergeMonth(agg, m)
	}
	return agg
}

// MergeMonth merges one month into agg. For a campsite already present,
// non-empty scalar fields of the month overwrite the current ones and the
// availability maps are unioned with the month winning on collision.
// An empty scalar in the month (for example "loop": "") keeps the earlier
// value rather than clearing it.
func MergeMonth(agg *entity.AggregatedAvailability, month *entity.MonthlyAvailability) {
	if agg == nil || month == nil {
		return
	}
	if agg.Campsites == nil {
		agg.Campsites = make(map[string]entity.CampsiteAvailability, len(month.Campsites))
	}
	for id, next := range month.Campsites {
		agg.Campsites[id] = mergeCampsite(agg.Campsites[id], next)
	}
}

func mergeCampsite(cur, next entity.CampsiteAvailability) entity.CampsiteAvailability {
	out := cur
	if next.CampsiteID != "" {
		out.CampsiteID = next.CampsiteID
	}
	if next.Site != "" {
		out.Site = next.Site
	}
	if next.Loop != "" {
		out.Loop = next.Loop
	}
	if next.CampsiteType != "" {
		out.CampsiteType = next.CampsiteType
	}
	if next.TypeOfUse != "" {
		out.TypeOfUse = next.TypeOfUse
	}
	if next.MaxNumPeople != 0 {
		out.MaxNumPeople = next.MaxNumPeople
	}

	merged := make(entity.DateStatusMap, len(cur.Availabilities)+len(next.Availabilities))
	for date, status := range cur.Availabilities {
		merged[date] = status
	}
	for date, status := range next.Availabilities {
		merged[date] = status
	}
	out.Availabilities = merged
	return out
}
