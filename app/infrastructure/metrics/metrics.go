package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ProviderRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "campavail_provider_request_duration_seconds",
		Help: "Duration of a single provider request",
	}, []string{"operation"})
	ErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campavail_errors_total",
		Help: "Errors by kind",
	}, []string{"kind"})
	QueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campavail_queries_total",
		Help: "Availability queries by outcome",
	}, []string{"outcome"})
	MonthsFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "campavail_months_fetched_total",
		Help: "Monthly availability responses decoded",
	})
	SitesAvailable = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "campavail_last_query_available_sites",
		Help: "Sites with at least one available date in the last successful query",
	})
)

func init() {
	prometheus.MustRegister(
		ProviderRequestDuration,
		ErrorsTotal,
		QueriesTotal,
		MonthsFetched,
		SitesAvailable,
	)
}

// StartMetricsServer serves /metrics on addr until ctx is done.
func StartMetricsServer(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("metrics server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
