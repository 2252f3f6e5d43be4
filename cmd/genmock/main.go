// Command genmock writes deterministic sample fixtures: a CSV shaped like the
// volunteer form export and the matching transformed JSON. It uses the actual
// domain package so the JSON matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock -csv-out data/mock/observations.csv -json-out data/mock/observations.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/methane-leak-etl/internal/domain"
)

var header = []string{
	"Timestamp", "City", "Methane Level", "Coordinates",
	"Photo", "Volunteer", "Type of Infrastructure",
}

var sampleRows = [][]string{
	{"06/01/2025 09:15:00", "Bangor", "2.0", "44.8012, -68.7778", "https://drive.google.com/open?id=photo001", "ab", "Manhole"},
	{"06/01/2025 10:42:00", "Bangor", "0", "(44.8105° N, 68.7902° W)", "", "cd", "Gas meter"},
	{"06/02/2025 08:30:00", "Orono", "1.4", "44.8831, -68.6719", "https://drive.google.com/open?id=photo002", "ab", "Pipeline marker"},
	{"06/02/2025 14:05:00", "Orono", "0", "", "", "ef", "Manhole"},
	{"06/03/2025 11:20:00", "Old Town", "3.2", "44.9342S, 68.6465W", "https://drive.google.com/open?id=photo003", "gh", "Valve box"},
	{"not a date", "Brewer", "0.5", "44.7967, -68.7614", "", "cd", "Manhole"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvOut := flag.String("csv-out", "", "output path for the raw CSV fixture")
	jsonOut := flag.String("json-out", "", "output path for the transformed JSON fixture")
	flag.Parse()

	if *csvOut == "" || *jsonOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv-out, -json-out")
	}

	// Freeze time for reproducible ProcessedAt stamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2025, time.June, 4, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	if err := writeCSV(*csvOut); err != nil {
		return err
	}

	observations, err := transform()
	if err != nil {
		return err
	}
	if err := writeJSON(*jsonOut, observations); err != nil {
		return err
	}

	log.Printf("wrote %d rows to %s and %s", len(sampleRows), *csvOut, *jsonOut)
	return nil
}

func writeCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create fixture dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv fixture: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range sampleRows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func transform() ([]domain.Observation, error) {
	observations := make([]domain.Observation, 0, len(sampleRows))
	for i, rec := range sampleRows {
		row := domain.NewRawRow(header, rec)

		var photoID *string
		if link := row[domain.ColPhoto]; link != "" {
			id, err := domain.PhotoID(link)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			photoID = &id
		}

		obs, err := domain.BuildObservation(row, photoID)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		observations = append(observations, obs)
	}
	return observations, nil
}

func writeJSON(path string, observations []domain.Observation) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create fixture dir: %w", err)
	}
	data, err := json.MarshalIndent(observations, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write json fixture: %w", err)
	}
	return nil
}
