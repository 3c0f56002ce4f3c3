package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/aydeggy-dot/proximity/internal/geo"
	"github.com/aydeggy-dot/proximity/internal/logging"
)

const (
	defaultGeoIPURL   = "https://ipapi.co/json/"
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 3
	defaultRetryDelay = 1 * time.Second
	defaultVersion    = "dev"
)

// GeoIPClient resolves an approximate device location from its public IP
// address. It is the fallback Provider when no precise location is supplied.
type GeoIPClient struct {
	httpClient *http.Client
	url        string
	maxRetries int
	retryDelay time.Duration
	version    string
	logLevel   logging.LogLevel
}

// GeoIPOption is a function that configures a GeoIPClient
type GeoIPOption func(*GeoIPClient)

// WithURL sets a custom geolocation endpoint URL
func WithURL(url string) GeoIPOption {
	return func(c *GeoIPClient) {
		c.url = url
	}
}

// WithTimeout sets a custom timeout for HTTP requests
func WithTimeout(timeout time.Duration) GeoIPOption {
	return func(c *GeoIPClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithMaxRetries sets the maximum number of retry attempts
func WithMaxRetries(maxRetries int) GeoIPOption {
	return func(c *GeoIPClient) {
		c.maxRetries = maxRetries
	}
}

// WithRetryDelay sets the initial delay between retries
func WithRetryDelay(delay time.Duration) GeoIPOption {
	return func(c *GeoIPClient) {
		c.retryDelay = delay
	}
}

// WithVersion sets the version string for the User-Agent header
func WithVersion(version string) GeoIPOption {
	return func(c *GeoIPClient) {
		c.version = version
	}
}

// WithLogLevel sets the log level for the client
func WithLogLevel(logLevel logging.LogLevel) GeoIPOption {
	return func(c *GeoIPClient) {
		c.logLevel = logLevel
	}
}

// NewGeoIPClient creates a new geolocation client with the given options
func NewGeoIPClient(opts ...GeoIPOption) *GeoIPClient {
	client := &GeoIPClient{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		url:        defaultGeoIPURL,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		version:    defaultVersion,
		logLevel:   logging.LogLevelError,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// geoIPResponse is the shape of the geolocation endpoint's JSON body
type geoIPResponse struct {
	IP        string  `json:"ip"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	Country   string  `json:"country_name"`
}

// Error represents a structured error from the geolocation client
type Error struct {
	StatusCode int
	Retriable  bool
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("geoip error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("geoip error: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// isRetriableStatusCode determines if an HTTP status code should trigger a retry
func isRetriableStatusCode(statusCode int) bool {
	return statusCode == http.StatusServiceUnavailable ||
		statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusRequestTimeout ||
		statusCode >= 500
}

// Current implements Provider. It retries transient failures with
// exponential backoff before giving up.
func (c *GeoIPClient) Current(ctx context.Context) (*geo.Coordinate, error) {
	var lastErr error

	if c.logLevel <= logging.LogLevelDebug {
		log.Printf("Fetching device location from %s (max retries: %d)", c.url, c.maxRetries)
	}

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<uint(attempt-1))
			if c.logLevel <= logging.LogLevelWarning {
				log.Printf("Retrying geolocation request (attempt %d/%d) after %v delay", attempt+1, c.maxRetries+1, delay)
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				if c.logLevel <= logging.LogLevelError {
					log.Printf("Geolocation request cancelled: %v", ctx.Err())
				}
				return nil, ctx.Err()
			}
		}

		coord, err := c.doCurrent(ctx)
		if err == nil {
			if c.logLevel <= logging.LogLevelInfo {
				log.Printf("Resolved device location: (%.4f, %.4f)", coord.Latitude, coord.Longitude)
			}
			return coord, nil
		}

		lastErr = err

		var geoErr *Error
		if errors.As(err, &geoErr) {
			if !geoErr.Retriable {
				if c.logLevel <= logging.LogLevelError {
					log.Printf("Non-retriable geolocation error: %v", geoErr)
				}
				break
			}
			if c.logLevel <= logging.LogLevelWarning {
				log.Printf("Retriable geolocation error on attempt %d: %v", attempt+1, geoErr)
			}
			continue
		}

		// Network-level errors are worth retrying
		if c.logLevel <= logging.LogLevelWarning {
			log.Printf("Network error on attempt %d: %v", attempt+1, err)
		}
		continue
	}

	if c.logLevel <= logging.LogLevelError {
		log.Printf("Failed to resolve device location after %d attempts: %v", c.maxRetries+1, lastErr)
	}
	return nil, fmt.Errorf("failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// doCurrent performs a single attempt to resolve the device location
func (c *GeoIPClient) doCurrent(ctx context.Context) (*geo.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &Error{
			Retriable: false,
			Err:       fmt.Errorf("failed to create request: %w", err),
		}
	}

	req.Header.Set("User-Agent", fmt.Sprintf("proximity/%s", c.version))

	if c.logLevel <= logging.LogLevelDebug {
		log.Printf("Sending GET request to %s", c.url)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logLevel <= logging.LogLevelError {
			log.Printf("HTTP request failed: %v", err)
		}
		return nil, fmt.Errorf("failed to fetch device location: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if c.logLevel <= logging.LogLevelDebug {
		log.Printf("Received HTTP %d response", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		retriable := isRetriableStatusCode(resp.StatusCode)
		if c.logLevel <= logging.LogLevelWarning {
			log.Printf("Unexpected HTTP status code: %d (retriable: %v)", resp.StatusCode, retriable)
		}
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Retriable:  retriable,
			Err:        fmt.Errorf("unexpected status code %d", resp.StatusCode),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return nil, &Error{
			Retriable: false,
			Err:       fmt.Errorf("unexpected content-type: %s (expected application/json)", contentType),
		}
	}

	var body geoIPResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &Error{
			Retriable: false,
			Err:       fmt.Errorf("failed to parse geolocation response: %w", err),
		}
	}

	coord := geo.Coordinate{Latitude: body.Latitude, Longitude: body.Longitude}
	if err := coord.Validate(); err != nil {
		return nil, &Error{
			Retriable: false,
			Err:       fmt.Errorf("geolocation response out of range: %w", err),
		}
	}

	return &coord, nil
}
