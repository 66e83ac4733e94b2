package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mark47B/campground-availability/app/domain/entity"
	"github.com/mark47B/campground-availability/app/usecase"
)

const (
	errMissingCampground = "campground is required"
	errInvalidYear       = "year must be a number"
	errInvalidMonth      = "months must be numbers 1-12"
	errNotFound          = "not found"
	errProvider          = "reservation provider request failed"
	errUnknownFormat     = "format must be one of ics, csv, json"
)

type HTTPServer struct {
	svc *usecase.AvailabilityService
}

func NewHTTPServer(svc *usecase.AvailabilityService) *HTTPServer {
	return &HTTPServer{svc: svc}
}

func (s *HTTPServer) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.ServeIndex)
	mux.HandleFunc("GET /api/availability", s.HandleAvailability)
	mux.HandleFunc("GET /api/availability/export", s.HandleExport)
	mux.HandleFunc("GET /api/campgrounds/{id}", s.HandleCampground)
	mux.HandleFunc("GET /api/campsites/{id}", s.HandleCampsite)
	return mux
}

func StartHTTPServer(ctx context.Context, addr string, server *HTTPServer) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Println("Context canceled, shutting down HTTP gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("HTTP server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// parseQuery reads campground, year and months from the URL. Months come
// either as repeated month params or a comma-separated months param.
func parseQuery(r *http.Request) (entity.AvailabilityQuery, error) {
	values := r.URL.Query()

	q := entity.AvailabilityQuery{
		CampgroundID:     strings.TrimSpace(values.Get("campground")),
		IncludeCampsites: values.Get("include_campsites") == "true",
	}
	if q.CampgroundID == "" {
		return q, fmt.Errorf("%w: %s", entity.ErrInvalidQuery, errMissingCampground)
	}

	year, err := strconv.Atoi(strings.TrimSpace(values.Get("year")))
	if err != nil {
		return q, fmt.Errorf("%w: %s", entity.ErrInvalidQuery, errInvalidYear)
	}
	q.Year = year

	raw := values["month"]
	if csv := values.Get("months"); csv != "" {
		raw = append(raw, strings.Split(csv, ",")...)
	}
	for _, m := range raw {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		n, err := strconv.Atoi(m)
		if err != nil {
			return q, fmt.Errorf("%w: %s", entity.ErrInvalidQuery, errInvalidMonth)
		}
		q.Months = append(q.Months, time.Month(n))
	}
	return q, nil
}

func (s *HTTPServer) runQuery(r *http.Request) (*entity.AvailabilityReport, error) {
	q, err := parseQuery(r)
	if err != nil {
		observeQuery(nil, err)
		return nil, err
	}
	report, err := s.svc.QueryAvailability(r.Context(), q)
	observeQuery(report, err)
	return report, err
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidQuery):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, entity.ErrNotFound):
		http.Error(w, errNotFound, http.StatusNotFound)
	case entity.IsProviderFailure(err):
		log.Printf("[HTTP] provider request failed: %v", err)
		http.Error(w, errProvider, http.StatusBadGateway)
	case errors.Is(err, context.DeadlineExceeded):
		http.Error(w, errProvider, http.StatusGatewayTimeout)
	default:
		log.Printf("[HTTP] request failed: %v", err)
		http.Error(w, errProvider, http.StatusBadGateway)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] error encoding response: %v", err)
	}
}

// ServeIndex renders the query form and, when a campground is given, the
// available dates grouped by site.
func (s *HTTPServer) ServeIndex(w http.ResponseWriter, r *http.Request) {
	page := indexPage{
		CampgroundID: r.URL.Query().Get("campground"),
		Year:         r.URL.Query().Get("year"),
		Months:       r.URL.Query().Get("months"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if page.CampgroundID != "" {
		report, err := s.runQuery(r)
		switch {
		case err == nil:
			page.Searched = true
			page.Report = report
		case errors.Is(err, entity.ErrInvalidQuery):
			w.WriteHeader(http.StatusBadRequest)
			page.Error = err.Error()
		case errors.Is(err, entity.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			page.Error = "Campground not found"
		default:
			log.Printf("[HTTP] index query failed: %v", err)
			w.WriteHeader(http.StatusBadGateway)
			page.Error = errProvider
		}
	}

	if err := indexTemplate.Execute(w, page); err != nil {
		log.Printf("[HTTP] error rendering index: %v", err)
	}
}

func (s *HTTPServer) HandleAvailability(w http.ResponseWriter, r *http.Request) {
	report, err := s.runQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, toReportDTO(report))
}

func (s *HTTPServer) HandleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "ics"
	}
	if format != "ics" && format != "csv" && format != "json" {
		http.Error(w, errUnknownFormat, http.StatusBadRequest)
		return
	}

	report, err := s.runQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	switch format {
	case "ics":
		GenerateICS(w, report.Query.CampgroundID, report.Sites)
	case "csv":
		GenerateCSV(w, report.Query.CampgroundID, report.Sites)
	case "json":
		GenerateJSON(w, toReportDTO(report))
	}
}

func (s *HTTPServer) HandleCampground(w http.ResponseWriter, r *http.Request) {
	cg, err := s.svc.FetchCampground(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, cg)
}

func (s *HTTPServer) HandleCampsite(w http.ResponseWriter, r *http.Request) {
	cs, err := s.svc.FetchCampsite(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, cs)
}
