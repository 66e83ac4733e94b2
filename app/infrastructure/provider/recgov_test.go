package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark47B/campground-availability/app/domain/entity"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *RecGovClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRecGovClient(srv.URL, 5*time.Second, "test-agent").(*RecGovClient)
}

func TestFetchMonth(t *testing.T) {
	var gotPath, gotStart, gotUA string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotStart = r.URL.Query().Get("start_date")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"campsites": {"101": {"site": "A10", "loop": "A", "availabilities": {"2020-07-01T00:00:00Z": "Available", "2020-07-02T00:00:00Z": "Reserved"}}, "102": {"site": "A11"}}}`))
	})

	resp, err := c.FetchMonth(context.Background(), "232487", entity.MonthSpec{Year: 2020, Month: time.July})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/api/camps/availability/campground/232487/month" {
		t.Errorf("path = %q", gotPath)
	}
	if gotStart != "2020-07-01T00:00:00.000Z" {
		t.Errorf("start_date = %q", gotStart)
	}
	if gotUA != "test-agent" {
		t.Errorf("User-Agent = %q", gotUA)
	}

	cs := resp.Campsites["101"]
	if cs.CampsiteID != "101" || cs.Site != "A10" || cs.Loop != "A" {
		t.Errorf("campsite 101 = %+v", cs)
	}
	if cs.Availabilities["2020-07-01T00:00:00Z"] != entity.StatusAvailable {
		t.Errorf("availabilities = %v", cs.Availabilities)
	}
	if resp.Campsites["102"].Availabilities == nil {
		t.Error("missing availabilities should decode as an empty map")
	}
}

func TestFetchMonthErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"missing campsites key", http.StatusOK, `{"count": 0}`, entity.ErrMalformedResponse},
		{"null campsites", http.StatusOK, `{"campsites": null}`, entity.ErrMalformedResponse},
		{"not json", http.StatusOK, `<html>`, entity.ErrMalformedResponse},
		{"json array", http.StatusOK, `[]`, entity.ErrMalformedResponse},
		{"json null", http.StatusOK, `null`, entity.ErrMalformedResponse},
		{"bad date key", http.StatusOK, `{"campsites": {"1": {"site": "A", "availabilities": {"tomorrow": "Available"}}}}`, entity.ErrMalformedResponse},
		{"server error", http.StatusInternalServerError, `{}`, entity.ErrHTTPStatus},
		{"rate limited", http.StatusTooManyRequests, ``, entity.ErrHTTPStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			resp, err := c.FetchMonth(context.Background(), "1", entity.MonthSpec{Year: 2020, Month: time.July})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if resp != nil {
				t.Errorf("expected nil response, got %+v", resp)
			}
		})
	}
}

func TestFetchMonthNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewRecGovClient(url, time.Second, "")
	_, err := c.FetchMonth(context.Background(), "1", entity.MonthSpec{Year: 2020, Month: time.July})
	if !errors.Is(err, entity.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestFetchMonthContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"campsites": {}}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchMonth(ctx, "1", entity.MonthSpec{Year: 2020, Month: time.July})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFetchCampground(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantID  string
	}{
		{"found", http.StatusOK, `{"campground": {"facility_id": "232487", "facility_name": "Upper Pines"}}`, nil, "232487"},
		{"null campground", http.StatusOK, `{"campground": null}`, entity.ErrNotFound, ""},
		{"empty campground", http.StatusOK, `{"campground": {}}`, entity.ErrNotFound, ""},
		{"http 404", http.StatusNotFound, `{"error": "not found"}`, entity.ErrNotFound, ""},
		{"missing key", http.StatusOK, `{"facility": {}}`, entity.ErrMalformedResponse, ""},
		{"server error", http.StatusBadGateway, ``, entity.ErrHTTPStatus, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if !strings.HasPrefix(r.URL.Path, "/api/camps/campgrounds/") {
					t.Errorf("unexpected path %q", r.URL.Path)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			cg, err := c.FetchCampground(context.Background(), "232487")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cg.ID != tt.wantID || cg.Name != "Upper Pines" {
				t.Errorf("campground = %+v", cg)
			}
		})
	}
}

func TestFetchCampsite(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/camps/campsites/101" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"campsite": {"campsite_name": "A10", "loop": "A", "attributes": [{"attribute_name": "Shade", "attribute_value": "Yes"}]}}`))
	})

	cs, err := c.FetchCampsite(context.Background(), "101")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs.ID != "101" || cs.Name != "A10" || cs.Loop != "A" {
		t.Errorf("campsite = %+v", cs)
	}
	if len(cs.Attributes) != 1 || cs.Attributes[0].Name != "Shade" {
		t.Errorf("attributes = %+v", cs.Attributes)
	}
}

func TestFetchCampsiteMalformed(t *testing.T) {
	for _, body := range []string{`{}`, `{"campsite": null}`, `{"campsite": "A10"}`} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
		if _, err := c.FetchCampsite(context.Background(), "101"); !errors.Is(err, entity.ErrMalformedResponse) {
			t.Errorf("body %s: expected ErrMalformedResponse, got %v", body, err)
		}
	}
}

func TestFetchMonthClientTimeoutIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(300 * time.Millisecond):
		case <-r.Context().Done():
		}
		w.Write([]byte(`{"campsites": {}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewRecGovClient(srv.URL, 50*time.Millisecond, "")
	_, err := c.FetchMonth(context.Background(), "1", entity.MonthSpec{Year: 2020, Month: time.July})
	if !errors.Is(err, entity.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if !entity.IsProviderFailure(err) {
		t.Errorf("client timeout should be a provider failure: %v", err)
	}
}

func TestFetchMonthCallerCancelIsNotNetworkError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"campsites": {}}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchMonth(ctx, "1", entity.MonthSpec{Year: 2020, Month: time.July})
	if errors.Is(err, entity.ErrNetwork) {
		t.Errorf("caller cancel reported as network error: %v", err)
	}
}
