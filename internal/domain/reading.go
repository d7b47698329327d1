package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrFeedSuspended is returned for a feed that is skipped after repeated
// failures, until its cooldown elapses.
var ErrFeedSuspended = errors.New("feed suspended after repeated failures")

// Category identifies one monitored telemetry stream.
type Category string

const (
	CategoryGeomagnetic Category = "geomagnetic"
	CategoryXRayFlare   Category = "xray_flare"
	CategoryProtonFlux  Category = "proton_flux"
	CategorySolarWind   Category = "solar_wind"
)

// Categories returns every category in processing order.
func Categories() []Category {
	return []Category{
		CategoryGeomagnetic,
		CategoryXRayFlare,
		CategoryProtonFlux,
		CategorySolarWind,
	}
}

// ParseCategory maps a category name to its Category.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Unit returns the measurement unit of the category's readings.
func (c Category) Unit() string {
	switch c {
	case CategoryGeomagnetic:
		return "Kp"
	case CategoryXRayFlare:
		return "W/m²"
	case CategoryProtonFlux:
		return "pfu"
	case CategorySolarWind:
		return "km/s"
	default:
		return ""
	}
}

// Reading is a single measurement taken from a feed during one poll.
type Reading struct {
	Category  Category  `json:"category"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// TimeTag renders the observation time the way SWPC products print it.
// Readings without a timestamp render as "N/A".
func (r Reading) TimeTag() string {
	if r.Timestamp.IsZero() {
		return "N/A"
	}
	return r.Timestamp.UTC().Format("2006-01-02 15:04 UTC")
}
