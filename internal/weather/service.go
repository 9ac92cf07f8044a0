package weather

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/i474232898/weather-gateway/internal/weatherstack"
)

var (
	// ErrEmptyCity is returned when the requested city normalizes to an
	// empty string. This is the caller's fault, not the upstream's.
	ErrEmptyCity = errors.New("city must not be empty")

	// ErrBadPayload is returned when an otherwise well-formed envelope is
	// missing a required field or carries one that cannot be parsed. It is
	// treated as an upstream contract violation.
	ErrBadPayload = errors.New("unexpected weatherstack payload")
)

// Client abstracts the upstream provider call.
type Client interface {
	FetchCurrent(ctx context.Context, city string) (*weatherstack.Payload, error)
}

// Cache is the subset of the report cache the service needs.
type Cache interface {
	Get(key string) (Report, bool)
	Set(key string, value Report, ttl time.Duration)
}

// Service orchestrates a single "current weather for city" operation:
// normalize, cache lookup, upstream call, payload mapping, cache write.
type Service struct {
	client       Client
	cache        Cache
	cacheEnabled bool
	cacheTTL     time.Duration
}

// NewService creates a Service. cache may be nil when cacheEnabled is false.
func NewService(client Client, cache Cache, cacheEnabled bool, cacheTTL time.Duration) *Service {
	return &Service{
		client:       client,
		cache:        cache,
		cacheEnabled: cacheEnabled && cache != nil,
		cacheTTL:     cacheTTL,
	}
}

// CurrentByCity returns the normalized current weather for the given city.
// Errors from the upstream client pass through untranslated so the HTTP
// layer can map them to status codes.
func (s *Service) CurrentByCity(ctx context.Context, city string) (Report, error) {
	normalized := NormalizeCity(city)
	if normalized == "" {
		return Report{}, ErrEmptyCity
	}

	key := CacheKey(normalized)

	if s.cacheEnabled {
		if cached, ok := s.cache.Get(key); ok {
			log.Printf("cache hit city=%s", normalized)
			return cached, nil
		}
	}

	start := time.Now()
	payload, err := s.client.FetchCurrent(ctx, normalized)
	log.Printf("weatherstack request city=%s duration_ms=%d", normalized, time.Since(start).Milliseconds())
	if err != nil {
		return Report{}, err
	}

	report, err := mapPayload(payload)
	if err != nil {
		return Report{}, err
	}

	if s.cacheEnabled {
		// The cache clones on write, so the caller's report never aliases
		// the cached entry.
		s.cache.Set(key, report, s.cacheTTL)
	}

	return report, nil
}

// mapPayload converts the raw provider payload into a Report. Temperature
// must parse as an integer; every other field is best-effort and becomes
// absent when missing or unparseable.
func mapPayload(p *weatherstack.Payload) (Report, error) {
	temperature := safeInt(p.Current.Temperature)
	if temperature == nil {
		return Report{}, ErrBadPayload
	}

	descriptions := p.Current.WeatherDescriptions
	if descriptions == nil {
		descriptions = []string{}
	}

	return Report{
		City:                p.Location.Name,
		Country:             p.Location.Country,
		Localtime:           p.Location.Localtime,
		TemperatureC:        *temperature,
		WeatherDescriptions: descriptions,
		WindSpeed:           safeInt(p.Current.WindSpeed),
		WindDir:             safeString(p.Current.WindDir),
		Humidity:            safeInt(p.Current.Humidity),
		FeelslikeC:          safeInt(p.Current.Feelslike),
		UVIndex:             safeInt(p.Current.UVIndex),
		VisibilityKm:        safeInt(p.Current.Visibility),
	}, nil
}
