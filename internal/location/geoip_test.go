package location

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aydeggy-dot/proximity/internal/geo"
)

func testCoord(lat, lon float64) geo.Coordinate {
	return geo.Coordinate{Latitude: lat, Longitude: lon}
}

func TestGeoIPClient_Current_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "proximity") {
			t.Errorf("User-Agent should contain 'proximity', got: %s", ua)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(geoIPResponse{
			IP:        "1.2.3.4",
			Latitude:  40.7128,
			Longitude: -74.0060,
			City:      "New York",
			Country:   "USA",
		})
	}))
	defer server.Close()

	client := NewGeoIPClient(WithURL(server.URL))
	coord, err := client.Current(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if coord.Latitude != 40.7128 || coord.Longitude != -74.0060 {
		t.Errorf("Got coordinate %+v, expected NYC", coord)
	}
}

func TestGeoIPClient_Current_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(geoIPResponse{Latitude: 10, Longitude: 20})
	}))
	defer server.Close()

	client := NewGeoIPClient(
		WithURL(server.URL),
		WithMaxRetries(3),
		WithRetryDelay(time.Millisecond),
	)

	coord, err := client.Current(context.Background())
	if err != nil {
		t.Fatalf("Expected success after retries, got: %v", err)
	}
	if coord.Latitude != 10 {
		t.Errorf("Got latitude %f, expected 10", coord.Latitude)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("Got %d requests, expected 3", got)
	}
}

func TestGeoIPClient_Current_NonRetriableStopsEarly(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewGeoIPClient(
		WithURL(server.URL),
		WithMaxRetries(5),
		WithRetryDelay(time.Millisecond),
	)

	_, err := client.Current(context.Background())
	if err == nil {
		t.Fatal("Expected error for 403 response")
	}

	var geoErr *Error
	if !errors.As(err, &geoErr) {
		t.Fatalf("Expected a structured Error, got %T", err)
	}
	if geoErr.Retriable {
		t.Error("403 should not be retriable")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("Got %d requests, expected 1 (no retries)", got)
	}
}

func TestGeoIPClient_Current_RejectsOutOfRangeResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(geoIPResponse{Latitude: 95, Longitude: 0})
	}))
	defer server.Close()

	client := NewGeoIPClient(WithURL(server.URL), WithRetryDelay(time.Millisecond))
	if _, err := client.Current(context.Background()); err == nil {
		t.Error("Expected error for out-of-range latitude")
	}
}

func TestGeoIPClient_Current_RejectsNonJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>rate limited</html>"))
	}))
	defer server.Close()

	client := NewGeoIPClient(WithURL(server.URL), WithRetryDelay(time.Millisecond))
	if _, err := client.Current(context.Background()); err == nil {
		t.Error("Expected error for non-JSON response")
	}
}

func TestGeoIPClient_Current_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewGeoIPClient(
		WithURL(server.URL),
		WithMaxRetries(10),
		WithRetryDelay(time.Hour),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := client.Current(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestStaticProvider(t *testing.T) {
	p := NewStatic(testCoord(48.8566, 2.3522))
	coord, err := p.Current(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if coord == nil || coord.Latitude != 48.8566 {
		t.Errorf("Got %+v, expected Paris", coord)
	}

	// Returned pointer must not alias internal state
	coord.Latitude = 0
	again, _ := p.Current(context.Background())
	if again.Latitude != 48.8566 {
		t.Error("Static provider leaked internal state to caller")
	}
}

func TestNoneProvider(t *testing.T) {
	coord, err := None{}.Current(context.Background())
	if coord != nil {
		t.Errorf("Expected nil coordinate, got %+v", coord)
	}
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Expected ErrPermissionDenied, got %v", err)
	}
}
