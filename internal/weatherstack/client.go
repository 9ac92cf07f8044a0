// Package weatherstack wraps outbound calls to the Weatherstack current
// conditions API. Failures the provider reports in its response envelope
// surface as *APIError; transport-level failures stay plain errors so the
// HTTP layer can map them separately.
package weatherstack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// ErrTimeout marks an upstream call that exceeded the configured timeout.
var ErrTimeout = errors.New("weatherstack request timed out")

var errUnexpectedStatus = errors.New("unexpected status code")

// APIError is a structured failure reported by the Weatherstack response
// envelope, or synthesized for a structurally invalid envelope. Code and
// Type are optional; Info is always set.
type APIError struct {
	Code *int
	Type string
	Info string
}

func (e *APIError) Error() string {
	if e.Code != nil {
		return fmt.Sprintf("weatherstack error code=%d type=%s info=%s", *e.Code, e.Type, e.Info)
	}
	return fmt.Sprintf("weatherstack error type=%s info=%s", e.Type, e.Info)
}

// Location is the location section of a successful envelope.
type Location struct {
	Name      string  `json:"name"`
	Country   *string `json:"country"`
	Localtime *string `json:"localtime"`
}

// Current is the current conditions section. Numeric fields are declared as
// any because Weatherstack is not consistent about number vs string typing;
// the mapping layer parses them best-effort.
type Current struct {
	Temperature         any      `json:"temperature"`
	WeatherDescriptions []string `json:"weather_descriptions"`
	WindSpeed           any      `json:"wind_speed"`
	WindDir             any      `json:"wind_dir"`
	Humidity            any      `json:"humidity"`
	Feelslike           any      `json:"feelslike"`
	UVIndex             any      `json:"uv_index"`
	Visibility          any      `json:"visibility"`
}

// Payload is the raw (but structurally validated) provider response.
type Payload struct {
	Location Location
	Current  Current
}

type envelope struct {
	Success *bool `json:"success"`
	Error   *struct {
		Code *int   `json:"code"`
		Type string `json:"type"`
		Info string `json:"info"`
	} `json:"error"`
	Location *Location `json:"location"`
	Current  *Current  `json:"current"`
}

// Client performs single-attempt GETs against the Weatherstack API through a
// shared HTTP client. A circuit breaker fails fast when the provider is
// persistently unreachable; there are no retries at this layer.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
}

// New creates a Client. The provided http.Client carries the configured
// request timeout and is shared with any other outbound callers.
func New(httpClient *http.Client, apiKey, baseURL string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weatherstack",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		circuit:    cb,
	}
}

// FetchCurrent performs one GET {base}/current?access_key=...&query=city and
// parses the envelope. It returns *APIError when the provider reports a
// failure or the envelope is missing its location/current sections, a
// wrapped ErrTimeout when the call exceeds the client timeout, and a plain
// error for every other transport failure (including 4xx/5xx statuses).
func (c *Client) FetchCurrent(ctx context.Context, city string) (*Payload, error) {
	values := url.Values{}
	values.Set("access_key", c.apiKey)
	values.Set("query", city)

	u := fmt.Sprintf("%s/current?%s", c.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.httpClient.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		return nil, classifyTransportError(err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding weatherstack response: %w", err)
	}

	if env.Success != nil && !*env.Success && env.Error != nil {
		return nil, &APIError{
			Code: env.Error.Code,
			Type: env.Error.Type,
			Info: env.Error.Info,
		}
	}

	if env.Location == nil || env.Current == nil {
		return nil, &APIError{Info: "unexpected response"}
	}

	return &Payload{Location: *env.Location, Current: *env.Current}, nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("weatherstack request: %w", err)
}
