package transport

import (
	"context"
	"errors"

	"github.com/mark47B/campground-availability/app/domain/entity"
	"github.com/mark47B/campground-availability/app/infrastructure/metrics"
)

const (
	outcomeOK       = "ok"
	outcomeInvalid  = "invalid"
	outcomeNotFound = "not_found"
	outcomeCanceled = "canceled"
	outcomeProvider = "provider_error"
	outcomeFailed   = "failed"
)

func queryOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, entity.ErrInvalidQuery):
		return outcomeInvalid
	case errors.Is(err, entity.ErrNotFound):
		return outcomeNotFound
	case entity.IsProviderFailure(err):
		return outcomeProvider
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCanceled
	default:
		return outcomeFailed
	}
}

func observeQuery(report *entity.AvailabilityReport, err error) {
	metrics.QueriesTotal.WithLabelValues(queryOutcome(err)).Inc()
	if err == nil && report != nil {
		metrics.SitesAvailable.Set(float64(len(report.Sites)))
	}
}
