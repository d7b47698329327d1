package noaa

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/space-weather-alerts/internal/domain"
)

// ErrNoData is returned when a feed parses cleanly but holds no usable rows.
var ErrNoData = errors.New("feed returned no usable rows")

const (
	// xrayFlareBand is the long-wavelength GOES channel used for flare classes.
	xrayFlareBand = "0.1-0.8nm"
	protonBand    = ">=10 MeV"

	defaultSpeedColumn = 2
)

var timeTagLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
}

// ParseSeries decodes a feed body into readings in the order the feed lists
// them, oldest first. Rows with missing or non-numeric values are skipped.
// Rows whose time tag cannot be parsed keep a zero Timestamp.
func ParseSeries(c domain.Category, r io.Reader) ([]domain.Reading, error) {
	switch c {
	case domain.CategoryGeomagnetic:
		return parseKp(r)
	case domain.CategoryXRayFlare:
		return parseGOES(r, c, xrayFlareBand)
	case domain.CategoryProtonFlux:
		return parseGOES(r, c, protonBand)
	case domain.CategorySolarWind:
		return parsePlasma(r)
	default:
		return nil, fmt.Errorf("no parser for category %q", c)
	}
}

// number accepts JSON numbers, numeric strings, and null. Non-finite values
// such as "NaN" or "Infinity" are treated as missing.
type number struct {
	value float64
	valid bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	*n = number{}
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	n.value, n.valid = v, true
	return nil
}

type kpRow struct {
	TimeTag string `json:"time_tag"`
	KpIndex number `json:"kp_index"`
}

func parseKp(r io.Reader) ([]domain.Reading, error) {
	var rows []kpRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode kp index: %w", err)
	}

	readings := make([]domain.Reading, 0, len(rows))
	for _, row := range rows {
		if !row.KpIndex.valid {
			continue
		}
		readings = append(readings, domain.Reading{
			Category:  domain.CategoryGeomagnetic,
			Value:     row.KpIndex.value,
			Timestamp: parseTimeTag(row.TimeTag),
		})
	}
	return readings, nil
}

type goesRow struct {
	TimeTag string `json:"time_tag"`
	Flux    number `json:"flux"`
	Energy  string `json:"energy"`
}

func parseGOES(r io.Reader, c domain.Category, band string) ([]domain.Reading, error) {
	var rows []goesRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode goes %s: %w", c, err)
	}

	readings := make([]domain.Reading, 0, len(rows)/2)
	for _, row := range rows {
		if row.Energy != band || !row.Flux.valid {
			continue
		}
		readings = append(readings, domain.Reading{
			Category:  c,
			Value:     row.Flux.value,
			Timestamp: parseTimeTag(row.TimeTag),
		})
	}
	return readings, nil
}

// parsePlasma reads the DSCOVR plasma table. The header row locates the
// time_tag and speed columns; the speed column falls back to index 2.
func parsePlasma(r io.Reader) ([]domain.Reading, error) {
	var table [][]json.RawMessage
	if err := json.NewDecoder(r).Decode(&table); err != nil {
		return nil, fmt.Errorf("decode solar wind plasma: %w", err)
	}
	if len(table) < 2 {
		return nil, nil
	}

	timeCol, speedCol := 0, defaultSpeedColumn
	for i, cell := range table[0] {
		var name string
		if err := json.Unmarshal(cell, &name); err != nil {
			continue
		}
		switch name {
		case "time_tag":
			timeCol = i
		case "speed":
			speedCol = i
		}
	}

	readings := make([]domain.Reading, 0, len(table)-1)
	for _, row := range table[1:] {
		if speedCol >= len(row) || timeCol >= len(row) {
			continue
		}
		var speed number
		if err := json.Unmarshal(row[speedCol], &speed); err != nil || !speed.valid {
			continue
		}
		var tag string
		_ = json.Unmarshal(row[timeCol], &tag)

		readings = append(readings, domain.Reading{
			Category:  domain.CategorySolarWind,
			Value:     speed.value,
			Timestamp: parseTimeTag(tag),
		})
	}
	return readings, nil
}

func parseTimeTag(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timeTagLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
