package entity

import (
	"fmt"
	"time"
)

const (
	StatusAvailable = "Available"
	StatusReserved  = "Reserved"
)

// DateStatusMap maps a provider date key to its availability status.
type DateStatusMap map[string]string

type CampsiteAvailability struct {
	CampsiteID     string        `json:"campsite_id"`
	Site           string        `json:"site"`
	Loop           string        `json:"loop,omitempty"`
	CampsiteType   string        `json:"campsite_type,omitempty"`
	TypeOfUse      string        `json:"type_of_use,omitempty"`
	MaxNumPeople   int           `json:"max_num_people,omitempty"`
	Availabilities DateStatusMap `json:"availabilities"`
}

type MonthlyAvailability struct {
	Month     MonthSpec
	Campsites map[string]CampsiteAvailability
}

type AggregatedAvailability struct {
	Campsites map[string]CampsiteAvailability `json:"campsites"`
}

func NewAggregatedAvailability() *AggregatedAvailability {
	return &AggregatedAvailability{Campsites: make(map[string]CampsiteAvailability)}
}

type SiteAvailability struct {
	Site  string
	Dates []time.Time
}

type AvailabilityReport struct {
	QueryID      string
	Query        AvailabilityQuery
	Campground   *Campground
	Availability *AggregatedAvailability
	Sites        []SiteAvailability
	Campsites    map[string]*Campsite
	FetchedAt    time.Time
}

var dateKeyLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02",
}

// ParseDateKey converts a provider date key into a UTC calendar date.
func ParseDateKey(key string) (time.Time, error) {
	for _, layout := range dateKeyLayouts {
		if t, err := time.Parse(layout, key); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: bad date key %q", ErrMalformedResponse, key)
}
