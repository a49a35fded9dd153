// Package geo provides the routing adapter used to price delivery fees and
// seed initial ETAs, backed by the OpenRouteService matrix endpoint.
package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const (
	defaultBaseURL = "https://api.openrouteservice.org"
	defaultProfile = "driving-car"
	maxAttempts    = 3
	initialBackoff = 200 * time.Millisecond
)

// ORSClient implements DistanceClient using the OpenRouteService matrix API.
// The client is safe for concurrent use.
type ORSClient struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
}

// Option customizes an ORSClient.
type Option func(*ORSClient)

// WithBaseURL points the client at a different ORS endpoint. Used by tests
// and self-hosted ORS installations.
func WithBaseURL(baseURL string) Option {
	return func(c *ORSClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *ORSClient) {
		c.session = client
	}
}

// NewORSClient creates a routing client authorized with the given API key.
func NewORSClient(apiKey string, opts ...Option) (*ORSClient, error) {
	if apiKey == "" {
		return nil, errs.NewValueIsRequiredError("apiKey")
	}

	client := &ORSClient{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		profile: defaultProfile,
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Sources      []int       `json:"sources"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// CalculateETA returns the driving distance and duration between two points.
// ORS expects coordinates as [lng, lat] pairs.
func (c *ORSClient) CalculateETA(
	ctx context.Context,
	origin kernel.GeoPoint,
	destination kernel.GeoPoint,
) (ports.RouteEstimate, error) {
	if err := errors.Join(origin.Validate(), destination.Validate()); err != nil {
		return ports.RouteEstimate{}, err
	}

	payload, err := json.Marshal(matrixRequest{
		Locations: [][]float64{
			{origin.Lng(), origin.Lat()},
			{destination.Lng(), destination.Lat()},
		},
		Sources:      []int{0},
		Destinations: []int{1},
		Metrics:      []string{"distance", "duration"},
	})
	if err != nil {
		return ports.RouteEstimate{}, fmt.Errorf("marshal matrix request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", c.baseURL, c.profile)
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.RouteEstimate{}, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err = json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return ports.RouteEstimate{}, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Distances) != 1 || len(mr.Distances[0]) != 1 ||
		len(mr.Durations) != 1 || len(mr.Durations[0]) != 1 {
		return ports.RouteEstimate{}, fmt.Errorf(
			"expected a single matrix cell; got distances=%d durations=%d",
			len(mr.Distances), len(mr.Durations),
		)
	}

	meters := mr.Distances[0][0]
	seconds := mr.Durations[0][0]
	if meters == nil || seconds == nil {
		// ORS reports unroutable pairs as null cells.
		return ports.RouteEstimate{}, errors.New("no route between origin and destination")
	}

	return ports.RouteEstimate{
		DistanceMeters: *meters,
		Duration:       time.Duration(*seconds * float64(time.Second)),
	}, nil
}

func (c *ORSClient) newRequest(ctx context.Context, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

func (c *ORSClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429 and 5xx
// responses) with exponential backoff while respecting context cancellation.
func (c *ORSClient) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	backoff := initialBackoff

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, err
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var statusErr *httpStatusError
		if errors.As(err, &statusErr) {
			switch statusErr.Code {
			case http.StatusTooManyRequests,
				http.StatusInternalServerError,
				http.StatusBadGateway,
				http.StatusServiceUnavailable,
				http.StatusGatewayTimeout:
				retry = true
			}
		}
		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}

	return nil, lastErr
}
