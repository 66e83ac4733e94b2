package repository

import (
	"context"

	"github.com/mark47B/campground-availability/app/domain/entity"
)

type AvailabilityProvider interface {
	FetchMonth(ctx context.Context, campgroundID string, month entity.MonthSpec) (*entity.MonthlyAvailability, error)
	FetchCampground(ctx context.Context, campgroundID string) (*entity.Campground, error)
	FetchCampsite(ctx context.Context, campsiteID string) (*entity.Campsite, error)
}
