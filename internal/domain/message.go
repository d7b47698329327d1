package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NotificationKind distinguishes the messages the service posts.
type NotificationKind string

const (
	KindAlert   NotificationKind = "alert"
	KindClear   NotificationKind = "clear"
	KindSummary NotificationKind = "summary"
)

// Notification is a formatted message ready for a chat webhook.
type Notification struct {
	Kind     NotificationKind
	Category Category
	Severity Severity
	Title    string
	Body     string
}

// Urgent reports whether the message should page the whole channel.
func (n Notification) Urgent() bool {
	return n.Kind != KindClear
}

// NewAlertNotification describes a severity transition for a reading. A
// transition to SeverityNone yields a clear message.
func NewAlertNotification(r Reading, sev Severity) Notification {
	n := Notification{
		Kind:     KindAlert,
		Category: r.Category,
		Severity: sev,
		Title:    alertTitle(r.Category),
	}

	if sev == SeverityNone {
		n.Kind = KindClear
		n.Title += " Cleared"
		n.Body = fmt.Sprintf("%s back below alert thresholds (%s %s at %s)",
			describe(r.Category), FormatValue(r.Category, r.Value), r.Category.Unit(), r.TimeTag())
		return n
	}

	v := FormatValue(r.Category, r.Value)
	switch r.Category {
	case CategoryGeomagnetic:
		n.Body = fmt.Sprintf("%s Storm (Kp %s) at %s", sev, v, r.TimeTag())
	case CategoryXRayFlare:
		n.Body = fmt.Sprintf("%s-class Flare (Flux: %s) at %s", sev, v, r.TimeTag())
	case CategoryProtonFlux:
		n.Body = fmt.Sprintf("%s Radiation Storm: High Proton Flux %s pfu at %s", sev, v, r.TimeTag())
	case CategorySolarWind:
		n.Body = fmt.Sprintf("High Solar Wind Speed: %s km/s at %s", v, r.TimeTag())
	default:
		n.Body = fmt.Sprintf("%s %s %s at %s", sev, v, r.Category.Unit(), r.TimeTag())
	}
	return n
}

// NewSummaryNotification builds the daily digest. Categories missing from
// readings are reported as unavailable.
func NewSummaryNotification(date time.Time, readings map[Category]Reading) Notification {
	var b strings.Builder
	fmt.Fprintf(&b, "☀️ *Daily Space Weather Summary* (%s):", date.Format("2006-01-02"))

	for _, c := range Categories() {
		b.WriteString("\n")
		r, ok := readings[c]
		if !ok {
			fmt.Fprintf(&b, "- *%s:* unavailable", summaryLabel(c))
			continue
		}

		sev := Classify(r)
		v := FormatValue(c, r.Value)
		switch c {
		case CategoryGeomagnetic:
			fmt.Fprintf(&b, "- *Kp Index:* %s (%s) at %s", v, labelOr(sev, "None"), r.TimeTag())
		case CategoryXRayFlare:
			fmt.Fprintf(&b, "- *Solar Flare:* %s (Flux: %s) at %s", labelOr(sev, "None"), v, r.TimeTag())
		case CategoryProtonFlux:
			fmt.Fprintf(&b, "- *Proton Flux:* %s (%s pfu at %s)", flag(sev, "High"), v, r.TimeTag())
		case CategorySolarWind:
			fmt.Fprintf(&b, "- *Solar Wind:* %s (%s km/s at %s)", flag(sev, "Fast"), v, r.TimeTag())
		}
	}

	return Notification{
		Kind:  KindSummary,
		Title: "Daily Summary",
		Body:  b.String(),
	}
}

// FormatValue renders a reading value with the precision its feed carries.
func FormatValue(c Category, v float64) string {
	switch c {
	case CategoryGeomagnetic:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case CategoryXRayFlare:
		return strconv.FormatFloat(v, 'e', 2, 64)
	case CategoryProtonFlux, CategorySolarWind:
		return strconv.FormatFloat(v, 'f', 1, 64)
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}

func alertTitle(c Category) string {
	switch c {
	case CategoryGeomagnetic:
		return "Geomagnetic Storm Alert"
	case CategoryXRayFlare:
		return "Solar Flare Alert"
	case CategoryProtonFlux:
		return "Radiation Storm Alert"
	case CategorySolarWind:
		return "Solar Wind Speed Alert"
	default:
		return "Space Weather Alert"
	}
}

func describe(c Category) string {
	switch c {
	case CategoryGeomagnetic:
		return "Geomagnetic activity"
	case CategoryXRayFlare:
		return "X-ray flux"
	case CategoryProtonFlux:
		return "Proton flux"
	case CategorySolarWind:
		return "Solar wind speed"
	default:
		return string(c)
	}
}

func summaryLabel(c Category) string {
	switch c {
	case CategoryGeomagnetic:
		return "Kp Index"
	case CategoryXRayFlare:
		return "Solar Flare"
	case CategoryProtonFlux:
		return "Proton Flux"
	case CategorySolarWind:
		return "Solar Wind"
	default:
		return string(c)
	}
}

func labelOr(sev Severity, fallback string) string {
	if sev == SeverityNone {
		return fallback
	}
	return string(sev)
}

func flag(sev Severity, active string) string {
	if sev == SeverityNone {
		return "Normal"
	}
	return active
}
