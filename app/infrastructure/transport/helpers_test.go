package transport

import (
	"context"
	"time"

	"github.com/mark47B/campground-availability/app/domain/entity"
	"github.com/mark47B/campground-availability/app/usecase"
)

type fakeProvider struct {
	monthErr   error
	campErr    error
	campsiteOK bool
}

func (p *fakeProvider) FetchMonth(ctx context.Context, campgroundID string, m entity.MonthSpec) (*entity.MonthlyAvailability, error) {
	if p.monthErr != nil {
		return nil, p.monthErr
	}
	campsites := map[string]entity.CampsiteAvailability{}
	switch m.Month {
	case time.July:
		campsites["101"] = entity.CampsiteAvailability{CampsiteID: "101", Site: "A10", Availabilities: entity.DateStatusMap{
			"2020-07-01T00:00:00Z": entity.StatusAvailable,
			"2020-07-02T00:00:00Z": entity.StatusReserved,
		}}
	case time.August:
		campsites["101"] = entity.CampsiteAvailability{CampsiteID: "101", Site: "A10", Availabilities: entity.DateStatusMap{
			"2020-08-01T00:00:00Z": entity.StatusAvailable,
		}}
	}
	return &entity.MonthlyAvailability{Month: m, Campsites: campsites}, nil
}

func (p *fakeProvider) FetchCampground(ctx context.Context, id string) (*entity.Campground, error) {
	if p.campErr != nil {
		return nil, p.campErr
	}
	return &entity.Campground{ID: id, Name: "Upper Pines"}, nil
}

func (p *fakeProvider) FetchCampsite(ctx context.Context, id string) (*entity.Campsite, error) {
	if !p.campsiteOK {
		return nil, &entity.HTTPStatusError{StatusCode: 404, Status: "404 Not Found"}
	}
	return &entity.Campsite{ID: id, Name: "A10", Loop: "A"}, nil
}

func newService(p *fakeProvider) *usecase.AvailabilityService {
	return &usecase.AvailabilityService{Provider: p, CampsiteWorkers: 2}
}
