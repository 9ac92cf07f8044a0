package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-gateway/internal/cache"
	"github.com/i474232898/weather-gateway/internal/weather"
	"github.com/i474232898/weather-gateway/internal/weatherstack"
)

type stubClient struct {
	payload *weatherstack.Payload
	err     error
	calls   int
}

func (s *stubClient) FetchCurrent(_ context.Context, _ string) (*weatherstack.Payload, error) {
	s.calls++
	return s.payload, s.err
}

func newTestApp(client *stubClient) *fiber.App {
	app := fiber.New()
	svc := weather.NewService(client, cache.New(100), true, time.Minute)
	RegisterRoutes(app, svc)
	return app
}

func sunnyPayload(temperature any) *weatherstack.Payload {
	return &weatherstack.Payload{
		Location: weatherstack.Location{Name: "Paris"},
		Current: weatherstack.Current{
			Temperature:         temperature,
			WeatherDescriptions: []string{"Sunny"},
		},
	}
}

func doRequest(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

// TestWeatherQueryValidation verifies the 1-100 character bound on the
// pre-normalization city parameter.
func TestWeatherQueryValidation(t *testing.T) {
	app := newTestApp(&stubClient{})

	// Missing city parameter.
	resp := doRequest(t, app, "/weather")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, resp.StatusCode)
	}

	// Over-long city parameter.
	long := strings.Repeat("a", 101)
	resp = doRequest(t, app, "/weather?city="+long)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, resp.StatusCode)
	}
}

func TestWeatherWhitespaceOnlyCity(t *testing.T) {
	client := &stubClient{}
	app := newTestApp(client)

	resp := doRequest(t, app, "/weather?city=%20%20%20")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, resp.StatusCode)
	}
	if client.calls != 0 {
		t.Fatalf("expected no upstream calls, got %d", client.calls)
	}
}

func TestWeatherSuccessWithStringTemperature(t *testing.T) {
	app := newTestApp(&stubClient{payload: sunnyPayload("22")})

	resp := doRequest(t, app, "/weather?city=Paris")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body weather.Report
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.TemperatureC != 22 {
		t.Fatalf("expected temperature 22, got %d", body.TemperatureC)
	}
	if body.City != "Paris" {
		t.Fatalf("expected city Paris, got %q", body.City)
	}
}

func TestWeatherCachedSecondRequest(t *testing.T) {
	client := &stubClient{payload: sunnyPayload(float64(22))}
	app := newTestApp(client)

	for _, target := range []string{"/weather?city=Paris", "/weather?city=PARIS"} {
		resp := doRequest(t, app, target)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
		}
	}
	if client.calls != 1 {
		t.Fatalf("expected a single upstream call, got %d", client.calls)
	}
}

// TestWeatherUpstreamErrorMapping covers the (code, type) -> status table.
func TestWeatherUpstreamErrorMapping(t *testing.T) {
	codePtr := func(n int) *int { return &n }

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{
			name:   "unauthorized",
			err:    &weatherstack.APIError{Code: codePtr(101), Type: "unauthorized"},
			status: http.StatusUnauthorized,
		},
		{
			name:   "usage limit reached",
			err:    &weatherstack.APIError{Code: codePtr(104), Type: "usage_limit_reached"},
			status: http.StatusTooManyRequests,
		},
		{
			name:   "too many requests",
			err:    &weatherstack.APIError{Code: codePtr(429), Type: "too_many_requests"},
			status: http.StatusTooManyRequests,
		},
		{
			name:   "forbidden",
			err:    &weatherstack.APIError{Code: codePtr(403), Type: "forbidden"},
			status: http.StatusForbidden,
		},
		{
			name:   "missing query",
			err:    &weatherstack.APIError{Code: codePtr(601), Type: "missing_query"},
			status: http.StatusBadRequest,
		},
		{
			name:   "type only match",
			err:    &weatherstack.APIError{Type: "usage_limit_reached"},
			status: http.StatusTooManyRequests,
		},
		{
			name:   "unclassified domain error",
			err:    &weatherstack.APIError{Code: codePtr(615), Type: "request_failed"},
			status: http.StatusBadGateway,
		},
		{
			name:   "unexpected response envelope",
			err:    &weatherstack.APIError{Info: "unexpected response"},
			status: http.StatusBadGateway,
		},
		{
			name:   "timeout",
			err:    fmt.Errorf("%w: context deadline exceeded", weatherstack.ErrTimeout),
			status: http.StatusGatewayTimeout,
		},
		{
			name:   "network error",
			err:    fmt.Errorf("weatherstack request: connection refused"),
			status: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&stubClient{err: tt.err})

			resp := doRequest(t, app, "/weather?city=Paris")
			if resp.StatusCode != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}
}

func TestWeatherMissingTemperature(t *testing.T) {
	payload := sunnyPayload(nil)
	app := newTestApp(&stubClient{payload: payload})

	resp := doRequest(t, app, "/weather?city=Paris")
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status %d, got %d", http.StatusBadGateway, resp.StatusCode)
	}
}
