package usecase

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/mark47B/campground-availability/app/domain/entity"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDeriveAvailableDatesBySite_EndToEnd(t *testing.T) {
	july := month(time.July, map[string]entity.CampsiteAvailability{
		"101": {Site: "A10", Availabilities: entity.DateStatusMap{
			"2020-07-01": entity.StatusAvailable,
			"2020-07-02": entity.StatusReserved,
		}},
	})
	august := month(time.August, map[string]entity.CampsiteAvailability{
		"101": {Site: "A10", Availabilities: entity.DateStatusMap{
			"2020-08-01": entity.StatusAvailable,
		}},
	})

	sites, err := DeriveAvailableDatesBySite(Aggregate([]*entity.MonthlyAvailability{july, august}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sites) != 1 || sites[0].Site != "A10" {
		t.Fatalf("sites = %+v, want one A10 entry", sites)
	}
	want := []time.Time{day(2020, 7, 1), day(2020, 8, 1)}
	if len(sites[0].Dates) != len(want) {
		t.Fatalf("dates = %v, want %v", sites[0].Dates, want)
	}
	for i := range want {
		if !sites[0].Dates[i].Equal(want[i]) {
			t.Errorf("date %d = %v, want %v", i, sites[0].Dates[i], want[i])
		}
	}
}

func TestDeriveAvailableDatesBySite(t *testing.T) {
	tests := []struct {
		name      string
		campsites map[string]entity.CampsiteAvailability
		want      []string
	}{
		{
			name: "reserved only sites are omitted",
			campsites: map[string]entity.CampsiteAvailability{
				"1": {Site: "B1", Availabilities: entity.DateStatusMap{"2020-07-01": entity.StatusReserved}},
				"2": {Site: "B2", Availabilities: entity.DateStatusMap{"2020-07-01": entity.StatusAvailable}},
			},
			want: []string{"B2"},
		},
		{
			name: "other statuses are not available",
			campsites: map[string]entity.CampsiteAvailability{
				"1": {Site: "B1", Availabilities: entity.DateStatusMap{"2020-07-01": "Not Available", "2020-07-02": "available"}},
			},
			want: []string{},
		},
		{
			name: "sites sorted by label",
			campsites: map[string]entity.CampsiteAvailability{
				"3": {Site: "C", Availabilities: entity.DateStatusMap{"2020-07-01": entity.StatusAvailable}},
				"1": {Site: "A", Availabilities: entity.DateStatusMap{"2020-07-01": entity.StatusAvailable}},
				"2": {Site: "B", Availabilities: entity.DateStatusMap{"2020-07-01": entity.StatusAvailable}},
			},
			want: []string{"A", "B", "C"},
		},
		{
			name: "campsites sharing a label merge",
			campsites: map[string]entity.CampsiteAvailability{
				"1": {Site: "A", Availabilities: entity.DateStatusMap{"2020-07-01": entity.StatusAvailable}},
				"2": {Site: "A", Availabilities: entity.DateStatusMap{"2020-07-02": entity.StatusAvailable}},
			},
			want: []string{"A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sites, err := DeriveAvailableDatesBySite(&entity.AggregatedAvailability{Campsites: tt.campsites})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(sites) != len(tt.want) {
				t.Fatalf("got %d sites (%+v), want %v", len(sites), sites, tt.want)
			}
			for i, label := range tt.want {
				if sites[i].Site != label {
					t.Errorf("site %d = %q, want %q", i, sites[i].Site, label)
				}
				if len(sites[i].Dates) == 0 {
					t.Errorf("site %q listed without dates", label)
				}
			}
		})
	}
}

func TestDeriveAvailableDatesBySite_DatesAscending(t *testing.T) {
	agg := &entity.AggregatedAvailability{Campsites: map[string]entity.CampsiteAvailability{
		"1": {Site: "A", Availabilities: entity.DateStatusMap{
			"2020-07-03T00:00:00Z":     entity.StatusAvailable,
			"2020-07-01T00:00:00Z":     entity.StatusAvailable,
			"2020-07-02T00:00:00.000Z": entity.StatusAvailable,
		}},
	}}

	sites, err := DeriveAvailableDatesBySite(agg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dates := sites[0].Dates
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			t.Errorf("dates not ascending: %v", dates)
		}
	}
}

func TestDeriveAvailableDatesBySite_MalformedDate(t *testing.T) {
	agg := &entity.AggregatedAvailability{Campsites: map[string]entity.CampsiteAvailability{
		"1": {Site: "A", Availabilities: entity.DateStatusMap{"soon": entity.StatusAvailable}},
	}}
	if _, err := DeriveAvailableDatesBySite(agg); !errors.Is(err, entity.ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestDeriveAvailableDatesBySite_Empty(t *testing.T) {
	sites, err := DeriveAvailableDatesBySite(entity.NewAggregatedAvailability())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sites) != 0 {
		t.Errorf("expected no sites, got %v", sites)
	}
}

func TestDeriveAvailableDatesBySite_Deterministic(t *testing.T) {
	labels := []string{"C", "A", "B10", "B2", "A"}
	build := func(order []int) *entity.AggregatedAvailability {
		agg := entity.NewAggregatedAvailability()
		for _, i := range order {
			id := fmt.Sprintf("%d", 100+i)
			agg.Campsites[id] = entity.CampsiteAvailability{Site: labels[i], Availabilities: entity.DateStatusMap{
				fmt.Sprintf("2020-07-%02d", 10-i): entity.StatusAvailable,
				fmt.Sprintf("2020-08-%02d", i+1):  entity.StatusAvailable,
				"2020-09-01":                      entity.StatusReserved,
			}}
		}
		return agg
	}

	base := build([]int{0, 1, 2, 3, 4})
	want, err := DeriveAvailableDatesBySite(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rng := rand.New(rand.NewPCG(1, 2))
	tests := []struct {
		name string
		agg  func() *entity.AggregatedAvailability
	}{
		{"same aggregate again", func() *entity.AggregatedAvailability { return base }},
		{"rebuilt in order", func() *entity.AggregatedAvailability { return build([]int{0, 1, 2, 3, 4}) }},
		{"rebuilt reversed", func() *entity.AggregatedAvailability { return build([]int{4, 3, 2, 1, 0}) }},
		{"rebuilt shuffled", func() *entity.AggregatedAvailability {
			order := []int{0, 1, 2, 3, 4}
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
			return build(order)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				got, err := DeriveAvailableDatesBySite(tt.agg())
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !reflect.DeepEqual(got, want) {
					t.Fatalf("run %d: got %+v, want %+v", i, got, want)
				}
			}
		})
	}

	if len(base.Campsites) != 5 || len(base.Campsites["100"].Availabilities) != 3 {
		t.Errorf("view mutated its input: %+v", base.Campsites)
	}
	if labelsOf(want) != "A,B10,B2,C" {
		t.Errorf("labels = %s", labelsOf(want))
	}
}

func labelsOf(sites []entity.SiteAvailability) string {
	out := make([]string, len(sites))
	for i, s := range sites {
		out[i] = s.Site
	}
	return strings.Join(out, ",")
}
