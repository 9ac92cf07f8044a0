package weather

import (
	"strings"

	"golang.org/x/text/cases"
)

// Report is the normalized current-weather view returned to API callers.
// Temperature is the only required field; everything else tolerates being
// absent upstream.
type Report struct {
	City      string  `json:"city"`
	Country   *string `json:"country"`
	Localtime *string `json:"localtime"`

	TemperatureC        int      `json:"temperature_c"`
	WeatherDescriptions []string `json:"weather_descriptions"`

	WindSpeed    *int    `json:"wind_speed"`
	WindDir      *string `json:"wind_dir"`
	Humidity     *int    `json:"humidity"`
	FeelslikeC   *int    `json:"feelslike_c"`
	UVIndex      *int    `json:"uv_index"`
	VisibilityKm *int    `json:"visibility_km"`
}

// Clone returns a deep copy of the report. The descriptions slice and every
// pointer field are re-allocated so the copy shares no memory with the
// original.
func (r Report) Clone() Report {
	out := r
	if r.WeatherDescriptions != nil {
		out.WeatherDescriptions = append([]string(nil), r.WeatherDescriptions...)
	}
	out.Country = cloneString(r.Country)
	out.Localtime = cloneString(r.Localtime)
	out.WindDir = cloneString(r.WindDir)
	out.WindSpeed = cloneInt(r.WindSpeed)
	out.Humidity = cloneInt(r.Humidity)
	out.FeelslikeC = cloneInt(r.FeelslikeC)
	out.UVIndex = cloneInt(r.UVIndex)
	out.VisibilityKm = cloneInt(r.VisibilityKm)
	return out
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// NormalizeCity collapses internal whitespace runs to single spaces and trims
// the result. An all-whitespace input normalizes to "".
func NormalizeCity(city string) string {
	return strings.Join(strings.Fields(city), " ")
}

// CacheKey derives the cache key for a normalized city name. Case folding
// makes "Paris", "PARIS" and "paris" collide to one entry.
// Casers are stateful, so a fresh one is used per call.
func CacheKey(normalizedCity string) string {
	return cases.Fold().String(normalizedCity)
}
