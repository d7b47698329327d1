package domain

import "math"

// Severity is a scale label such as "Moderate" or "X". The zero value means
// no threshold is met.
type Severity string

// SeverityNone is the label for readings below every threshold.
const SeverityNone Severity = ""

func (s Severity) String() string {
	if s == SeverityNone {
		return "none"
	}
	return string(s)
}

// Threshold is one step of a scale: readings at or above Min earn Label.
type Threshold struct {
	Label Severity
	Min   float64
}

// Scale is a list of thresholds, conventionally written highest first.
type Scale []Threshold

var (
	// GeomagneticScale is the NOAA G-scale keyed on Kp.
	GeomagneticScale = Scale{
		{Label: "Extreme", Min: 9},
		{Label: "Severe", Min: 8},
		{Label: "Strong", Min: 7},
		{Label: "Moderate", Min: 6},
		{Label: "Minor", Min: 5},
	}

	// FlareScale classifies 0.1-0.8 nm X-ray flux by flare class.
	FlareScale = Scale{
		{Label: "X", Min: 1e-4},
		{Label: "M", Min: 1e-5},
	}

	// ProtonScale is the NOAA S-scale on >=10 MeV integral proton flux.
	ProtonScale = Scale{
		{Label: "S5", Min: 1e5},
		{Label: "S4", Min: 1e4},
		{Label: "S3", Min: 1e3},
		{Label: "S2", Min: 1e2},
		{Label: "S1", Min: 10},
	}

	// SolarWindScale flags high speed streams.
	SolarWindScale = Scale{
		{Label: "Fast", Min: 600},
	}
)

// ScaleFor returns the scale used for a category, or nil for unknown ones.
func ScaleFor(c Category) Scale {
	switch c {
	case CategoryGeomagnetic:
		return GeomagneticScale
	case CategoryXRayFlare:
		return FlareScale
	case CategoryProtonFlux:
		return ProtonScale
	case CategorySolarWind:
		return SolarWindScale
	default:
		return nil
	}
}

// Classify returns the label of the highest threshold v meets, or
// SeverityNone. The order of the scale's entries does not matter.
func (s Scale) Classify(v float64) Severity {
	if math.IsNaN(v) {
		return SeverityNone
	}

	best := SeverityNone
	bestMin := math.Inf(-1)
	for _, t := range s {
		if v >= t.Min && t.Min > bestMin {
			best = t.Label
			bestMin = t.Min
		}
	}
	return best
}

// Rank returns the 1-based position of sev counted from the lowest threshold,
// or 0 when sev is none or not on the scale.
func (s Scale) Rank(sev Severity) int {
	if sev == SeverityNone {
		return 0
	}
	var minOfSev float64
	found := false
	for _, t := range s {
		if t.Label == sev {
			minOfSev = t.Min
			found = true
			break
		}
	}
	if !found {
		return 0
	}

	rank := 0
	for _, t := range s {
		if t.Min <= minOfSev {
			rank++
		}
	}
	return rank
}

// Classify maps a reading onto its category's scale.
func Classify(r Reading) Severity {
	return ScaleFor(r.Category).Classify(r.Value)
}
