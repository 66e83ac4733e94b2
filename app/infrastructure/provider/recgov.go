package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mark47B/campground-availability/app/domain/entity"
	"github.com/mark47B/campground-availability/app/domain/repository"
	"github.com/mark47B/campground-availability/app/infrastructure/metrics"
)

const (
	DefaultBaseURL = "https://www.recreation.gov"

	campsitePath   = "/api/camps/campsites/%s"
	campgroundPath = "/api/camps/campgrounds/%s"
	monthPath      = "/api/camps/availability/campground/%s/month"

	maxResponseBytes = 16 << 20
)

type RecGovClient struct {
	client    *http.Client
	baseURL   string
	userAgent string
	tracer    trace.Tracer
}

func NewRecGovClient(baseURL string, timeout time.Duration, userAgent string) repository.AvailabilityProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &RecGovClient{
		client:    &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		tracer:    otel.Tracer("github.com/mark47B/campground-availability/provider"),
	}
}

func (c *RecGovClient) FetchMonth(ctx context.Context, campgroundID string, month entity.MonthSpec) (*entity.MonthlyAvailability, error) {
	query := url.Values{}
	query.Set("start_date", month.StartDateParam())

	env, err := c.getEnvelope(ctx, "month", fmt.Sprintf(monthPath, url.PathEscape(campgroundID)), query)
	if err != nil {
		return nil, fmt.Errorf("fetch availability %s for campground %s: %w", month, campgroundID, err)
	}
	out, err := decodeMonth(env, month)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("decode").Inc()
		return nil, fmt.Errorf("decode availability %s for campground %s: %w", month, campgroundID, err)
	}
	metrics.MonthsFetched.Inc()
	return out, nil
}

func (c *RecGovClient) FetchCampground(ctx context.Context, campgroundID string) (*entity.Campground, error) {
	env, err := c.getEnvelope(ctx, "campground", fmt.Sprintf(campgroundPath, url.PathEscape(campgroundID)), nil)
	if err != nil {
		var statusErr *entity.HTTPStatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", entity.ErrNotFound, campgroundID)
		}
		return nil, fmt.Errorf("fetch campground %s: %w", campgroundID, err)
	}
	cg, err := decodeCampground(env)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			metrics.ErrorsTotal.WithLabelValues("decode").Inc()
		}
		return nil, fmt.Errorf("decode campground %s: %w", campgroundID, err)
	}
	return cg, nil
}

func (c *RecGovClient) FetchCampsite(ctx context.Context, campsiteID string) (*entity.Campsite, error) {
	env, err := c.getEnvelope(ctx, "campsite", fmt.Sprintf(campsitePath, url.PathEscape(campsiteID)), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch campsite %s: %w", campsiteID, err)
	}
	cs, err := decodeCampsite(env, campsiteID)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("decode").Inc()
		return nil, fmt.Errorf("decode campsite %s: %w", campsiteID, err)
	}
	return cs, nil
}

// getEnvelope performs a GET and decodes the body into its top-level keys.
func (c *RecGovClient) getEnvelope(ctx context.Context, op, path string, query url.Values) (map[string]json.RawMessage, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	ctx, span := c.tracer.Start(ctx, "recgov."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("http.url", target))

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, c.fail(span, "request", fmt.Errorf("%w: http request: %w", entity.ErrNetwork, err))
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.fail(span, "network", transportError("http get", ctx, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	metrics.ProviderRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if err != nil {
		return nil, c.fail(span, "network", transportError("read body", ctx, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(span, "status", &entity.HTTPStatusError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		})
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, c.fail(span, "decode", fmt.Errorf("%w: json decode: %w", entity.ErrMalformedResponse, err))
	}
	if env == nil {
		return nil, c.fail(span, "decode", fmt.Errorf("%w: body is not a json object", entity.ErrMalformedResponse))
	}
	return env, nil
}

// transportError reports a cancelled or expired caller context as itself.
// Anything else, including the client's own timeout, is a network error.
func transportError(stage string, ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", stage, ctxErr)
	}
	return fmt.Errorf("%w: %s: %w", entity.ErrNetwork, stage, err)
}

func (c *RecGovClient) fail(span trace.Span, kind string, err error) error {
	metrics.ErrorsTotal.WithLabelValues(kind).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
