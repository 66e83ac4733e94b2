package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mark47B/campground-availability/app/domain/entity"
	"github.com/mark47B/campground-availability/app/domain/repository"
)

const defaultCampsiteWorkers = 8

type AvailabilityService struct {
	Provider        repository.AvailabilityProvider
	CampsiteWorkers int
}

// FetchAvailability fetches every requested month concurrently and aggregates
// the responses. Any failed month fails the whole call.
func (s *AvailabilityService) FetchAvailability(ctx context.Context, q entity.AvailabilityQuery) (*entity.AggregatedAvailability, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return s.fetchMonths(ctx, q.CampgroundID, q.MonthSpecs())
}

func (s *AvailabilityService) fetchMonths(ctx context.Context, campgroundID string, months []entity.MonthSpec) (*entity.AggregatedAvailability, error) {
	responses := make([]*entity.MonthlyAvailability, len(months))

	g, gctx := errgroup.WithContext(ctx)
	for i, month := range months {
		g.Go(func() error {
			resp, err := s.Provider.FetchMonth(gctx, campgroundID, month)
			if err != nil {
				return err
			}
			responses[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Aggregate(responses), nil
}

func (s *AvailabilityService) FetchCampground(ctx context.Context, campgroundID string) (*entity.Campground, error) {
	if strings.TrimSpace(campgroundID) == "" {
		return nil, fmt.Errorf("%w: empty campground id", entity.ErrInvalidQuery)
	}
	return s.Provider.FetchCampground(ctx, campgroundID)
}

func (s *AvailabilityService) FetchCampsite(ctx context.Context, campsiteID string) (*entity.Campsite, error) {
	if strings.TrimSpace(campsiteID) == "" {
		return nil, fmt.Errorf("%w: empty campsite id", entity.ErrInvalidQuery)
	}
	return s.Provider.FetchCampsite(ctx, campsiteID)
}

// FetchCampsites fetches metadata for every campsite in agg, at most
// CampsiteWorkers at a time.
func (s *AvailabilityService) FetchCampsites(ctx context.Context, agg *entity.AggregatedAvailability) (map[string]*entity.Campsite, error) {
	if agg == nil || len(agg.Campsites) == 0 {
		return map[string]*entity.Campsite{}, nil
	}

	ids := make([]string, 0, len(agg.Campsites))
	for id := range agg.Campsites {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	sites := make([]*entity.Campsite, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.campsiteWorkers())
	for i, id := range ids {
		g.Go(func() error {
			cs, err := s.Provider.FetchCampsite(gctx, id)
			if err != nil {
				return err
			}
			sites[i] = cs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*entity.Campsite, len(ids))
	for i, id := range ids {
		out[id] = sites[i]
	}
	return out, nil
}

// QueryAvailability runs a full query: campground metadata and every month
// under one join, then the available-dates view.
func (s *AvailabilityService) QueryAvailability(ctx context.Context, q entity.AvailabilityQuery) (*entity.AvailabilityReport, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	queryID := uuid.NewString()
	months := q.MonthSpecs()
	start := time.Now()
	log.Printf("[AvailabilityService] start query %s: campground=%s months=%v", queryID, q.CampgroundID, months)

	var (
		campground *entity.Campground
		agg        *entity.AggregatedAvailability
		cgErr      error
	)
	g, gctx := errgroup.WithContext(ctx)
	// The campground fetch runs on ctx so a failed month cannot cancel it
	// before a not-found answer arrives.
	g.Go(func() error {
		campground, cgErr = s.Provider.FetchCampground(ctx, q.CampgroundID)
		return cgErr
	})
	g.Go(func() error {
		a, err := s.fetchMonths(gctx, q.CampgroundID, months)
		if err != nil {
			return err
		}
		agg = a
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(cgErr, entity.ErrNotFound) {
			err = cgErr
		}
		log.Printf("[AvailabilityService] query %s failed: %v", queryID, err)
		return nil, err
	}

	sites, err := DeriveAvailableDatesBySite(agg)
	if err != nil {
		log.Printf("[AvailabilityService] query %s failed: %v", queryID, err)
		return nil, err
	}

	report := &entity.AvailabilityReport{
		QueryID:      queryID,
		Query:        q,
		Campground:   campground,
		Availability: agg,
		Sites:        sites,
	}

	if q.IncludeCampsites {
		campsites, err := s.FetchCampsites(ctx, agg)
		if err != nil {
			log.Printf("[AvailabilityService] query %s failed fetching campsites: %v", queryID, err)
			return nil, err
		}
		report.Campsites = campsites
	}

	report.FetchedAt = time.Now().UTC()
	log.Printf("[AvailabilityService] finished query %s: campsites=%d available_sites=%d in %s",
		queryID, len(agg.Campsites), len(sites), time.Since(start).Round(time.Millisecond))
	return report, nil
}

func (s *AvailabilityService) campsiteWorkers() int {
	if s.CampsiteWorkers > 0 {
		return s.CampsiteWorkers
	}
	return defaultCampsiteWorkers
}
