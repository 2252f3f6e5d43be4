// Package leakmap renders per-city Leaflet maps of methane observations, one
// self-contained HTML file per city with photos inlined as thumbnails.
package leakmap

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/methane-leak-etl/internal/domain"
)

//go:embed map.html.tmpl
var mapTemplateText string

var mapTemplate = template.Must(template.New("map").Parse(mapTemplateText))

// DataSource provides the observations and photos a map is built from.
type DataSource interface {
	ObservationsByCity(ctx context.Context, city string) ([]domain.Observation, error)
	PhotoBlobs(ctx context.Context) (map[string][]byte, error)
	Cities(ctx context.Context) ([]string, error)
}

// Renderer writes one HTML map per city into an output directory.
type Renderer struct {
	source DataSource
	outDir string
	logger *slog.Logger
}

func NewRenderer(source DataSource, outDir string, logger *slog.Logger) *Renderer {
	return &Renderer{source: source, outDir: outDir, logger: logger}
}

type marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Leak  bool    `json:"leak"`
	Popup string  `json:"popup"`
}

type mapData struct {
	City        string
	CenterLat   float64
	CenterLon   float64
	MarkersJSON template.JS
}

// FileName returns the output file name for a city, lowercased with spaces
// replaced by underscores.
func FileName(city string) string {
	return strings.ReplaceAll(strings.ToLower(city), " ", "_") + "_map.html"
}

// RenderCity builds the map for one city and writes it under the output
// directory, returning the written path. Observations without coordinates are
// left off the map but still counted in the log line.
func (r *Renderer) RenderCity(ctx context.Context, city string) (string, error) {
	obs, err := r.source.ObservationsByCity(ctx, city)
	if err != nil {
		return "", fmt.Errorf("load observations: %w", err)
	}
	if len(obs) == 0 {
		return "", fmt.Errorf("no observations recorded for %s", city)
	}

	photos, err := r.source.PhotoBlobs(ctx)
	if err != nil {
		return "", fmt.Errorf("load photos: %w", err)
	}

	markers, centerLat, centerLon, err := r.buildMarkers(city, obs, photos)
	if err != nil {
		return "", fmt.Errorf("compute geometry: %w", err)
	}

	markersJSON, err := json.Marshal(markers)
	if err != nil {
		return "", fmt.Errorf("render map: %w", err)
	}

	var buf strings.Builder
	err = mapTemplate.Execute(&buf, mapData{
		City:        city,
		CenterLat:   centerLat,
		CenterLon:   centerLon,
		MarkersJSON: template.JS(markersJSON),
	})
	if err != nil {
		return "", fmt.Errorf("render map: %w", err)
	}

	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return "", fmt.Errorf("save map: %w", err)
	}
	path := filepath.Join(r.outDir, FileName(city))
	if err := os.WriteFile(path, []byte(buf.String()), 0o644); err != nil {
		return "", fmt.Errorf("save map: %w", err)
	}

	r.logger.Info("map written", "city", city, "path", path,
		"observations", len(obs), "markers", len(markers))
	return path, nil
}

// RenderAll renders a map for every city present in the data.
func (r *Renderer) RenderAll(ctx context.Context) ([]string, error) {
	cities, err := r.source.Cities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}

	paths := make([]string, 0, len(cities))
	for _, city := range cities {
		path, err := r.RenderCity(ctx, city)
		if err != nil {
			return paths, fmt.Errorf("render %s: %w", city, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (r *Renderer) buildMarkers(city string, obs []domain.Observation, photos map[string][]byte) ([]marker, float64, float64, error) {
	markers := make([]marker, 0, len(obs))
	var sumLat, sumLon float64

	for _, o := range obs {
		if !o.HasCoordinates() {
			continue
		}
		markers = append(markers, marker{
			Lat:   *o.Latitude,
			Lon:   *o.Longitude,
			Leak:  o.Leak,
			Popup: r.buildPopup(o, photos),
		})
		sumLat += *o.Latitude
		sumLon += *o.Longitude
	}
	if len(markers) == 0 {
		return nil, 0, 0, fmt.Errorf("no mappable observations for %s", city)
	}

	n := float64(len(markers))
	return markers, sumLat / n, sumLon / n, nil
}

func (r *Renderer) buildPopup(o domain.Observation, photos map[string][]byte) string {
	var b strings.Builder

	if o.Leak {
		fmt.Fprintf(&b, "<b>Leak detected: %.0f PPM</b><br>", o.MethaneLevelPPM)
	} else {
		fmt.Fprintf(&b, "<b>No leak detected: %.0f PPM</b><br>", o.MethaneLevelPPM)
	}
	if o.Timestamp != nil {
		fmt.Fprintf(&b, "Observed: %s<br>", domain.FormatTimestamp(*o.Timestamp))
	} else {
		b.WriteString("Observed: unknown time<br>")
	}
	if o.Infrastructure != "" {
		fmt.Fprintf(&b, "Infrastructure: %s<br>", template.HTMLEscapeString(o.Infrastructure))
	}
	if o.Volunteer != "" {
		fmt.Fprintf(&b, "Volunteer: %s<br>", template.HTMLEscapeString(o.Volunteer))
	}

	b.WriteString(r.photoHTML(o, photos))
	return b.String()
}

func (r *Renderer) photoHTML(o domain.Observation, photos map[string][]byte) string {
	const placeholder = "<i>No image available</i>"

	if o.PhotoID == nil {
		return placeholder
	}
	data, ok := photos[*o.PhotoID]
	if !ok {
		return placeholder
	}
	uri, err := thumbnailDataURI(data)
	if err != nil {
		r.logger.Warn("thumbnail failed", "photo_id", *o.PhotoID, "error", err)
		return placeholder
	}
	return fmt.Sprintf(`<img class="popup-photo" src="%s" alt="site photo">`, uri)
}
