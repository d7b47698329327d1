// Command replay runs a saved SWPC feed file through the same parser,
// classifier, and alert-state tracking as the live monitor, and prints each
// notification that would have been posted.
//
// Usage:
//
//	curl -s https://services.swpc.noaa.gov/json/planetary_k_index_1m.json > kp.json
//	go run ./cmd/replay -feed geomagnetic -file kp.json -text
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/couchcryptid/space-weather-alerts/internal/adapter/noaa"
	"github.com/couchcryptid/space-weather-alerts/internal/adapter/slack"
	"github.com/couchcryptid/space-weather-alerts/internal/domain"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	feed := fs.String("feed", "", "feed category: geomagnetic, xray_flare, proton_flux, solar_wind")
	file := fs.String("file", "", "path to a saved SWPC JSON feed")
	fromNone := fs.Bool("from-none", true, "start from no alert; when false the first reading sets the baseline silently")
	text := fs.Bool("text", false, "print the full webhook text of each notification")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *feed == "" || *file == "" {
		fs.Usage()
		return fmt.Errorf("missing required flags: -feed, -file")
	}
	cat, err := domain.ParseCategory(*feed)
	if err != nil {
		return err
	}

	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()

	readings, err := noaa.ParseSeries(cat, f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", *file, err)
	}

	fired := replay(out, readings, *fromNone, *text)
	fmt.Fprintf(out, "%s: %d readings, %d notifications\n", cat, len(readings), fired)
	return nil
}

// replay walks readings in feed order and writes one line per severity
// transition. It returns the number of notifications that would fire.
func replay(out io.Writer, readings []domain.Reading, fromNone, text bool) int {
	var state domain.AlertState
	fired := 0
	for i, r := range readings {
		sev := domain.Classify(r)
		if i == 0 && !fromNone {
			state = domain.AlertState{LastSeverity: sev, LastNotifiedAt: r.Timestamp}
			continue
		}

		prev := state.LastSeverity
		next, changed := state.Observe(sev, r.Timestamp)
		state = next
		if !changed {
			continue
		}

		fired++
		n := domain.NewAlertNotification(r, sev)
		fmt.Fprintf(out, "%s  %s -> %s  %s\n", r.TimeTag(), prev, sev, n.Title)
		if text {
			fmt.Fprintf(out, "%s\n\n", slack.Format(n))
		}
	}
	return fired
}
