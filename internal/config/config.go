package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	WeatherstackAPIKey  string
	WeatherstackBaseURL string

	// HTTPTimeout bounds each outbound Weatherstack call.
	HTTPTimeout time.Duration

	CacheEnabled bool
	CacheTTL     time.Duration
	CacheMaxSize int

	// PrefetchCities are kept warm by the background scheduler. Empty
	// disables prefetching.
	PrefetchCities   []string
	PrefetchInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.WeatherstackAPIKey = os.Getenv("WEATHERSTACK_API_KEY")
	if cfg.WeatherstackAPIKey == "" {
		return nil, fmt.Errorf("WEATHERSTACK_API_KEY is required")
	}

	cfg.WeatherstackBaseURL = getenvDefault("WEATHERSTACK_BASE_URL", "https://api.weatherstack.com")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "5s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.CacheEnabled = getenvBool("CACHE_ENABLED", true)

	ttlStr := getenvDefault("CACHE_TTL", "5m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	cfg.CacheMaxSize = getenvInt("CACHE_MAX_SIZE", 1000)

	if cities := os.Getenv("WEATHER_PREFETCH_CITIES"); cities != "" {
		for _, city := range strings.Split(cities, ",") {
			if city = strings.TrimSpace(city); city != "" {
				cfg.PrefetchCities = append(cfg.PrefetchCities, city)
			}
		}
	}

	prefetchStr := getenvDefault("PREFETCH_INTERVAL", "15m")
	prefetch, err := time.ParseDuration(prefetchStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PREFETCH_INTERVAL: %w", err)
	}
	cfg.PrefetchInterval = prefetch

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
