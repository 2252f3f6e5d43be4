package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// methaneLEL is the methane Lower Explosive Limit in parts-per-million at
// 100% LEL. Fixed domain knowledge, not configuration.
const methaneLEL = 50000.0

const (
	// Spreadsheet timestamps arrive as MM/DD/YYYY HH:MM:SS.
	rawTimestampLayout = "01/02/2006 15:04:05"
	// Canonical storage format.
	timestampLayout = "2006-01-02 15:04:05"
)

// coordRe matches a free-text coordinate pair: optional enclosing
// parentheses, a signed decimal with optional degree mark and N/S letter,
// a comma, then the same for longitude with an E/W letter.
// e.g. "(44.5° N, 70.2° W)" or "44.5,-70.2".
var coordRe = regexp.MustCompile(`^\s*\(?\s*([+-]?\d+(?:\.\d+)?)\s*°?\s*([NSns])?\s*,\s*([+-]?\d+(?:\.\d+)?)\s*°?\s*([EWew])?\s*\)?\s*$`)

// ParseCoordinates decomposes a coordinate string into signed latitude and
// longitude. A hemisphere letter overrides the numeric sign ('S' and 'W'
// force negative); without a letter the parsed sign is kept as-is. Strings
// outside the grammar yield ok=false, never an error: the row survives
// without geolocation.
func ParseCoordinates(s string) (lat, lon float64, ok bool) {
	m := coordRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}

	lat, errLat := strconv.ParseFloat(m[1], 64)
	lon, errLon := strconv.ParseFloat(m[3], 64)
	if errLat != nil || errLon != nil {
		return 0, 0, false
	}

	if strings.EqualFold(m[2], "S") {
		lat = -abs(lat)
	}
	if strings.EqualFold(m[4], "W") {
		lon = -abs(lon)
	}
	return lat, lon, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ParseTimestamp parses a raw MM/DD/YYYY HH:MM:SS spreadsheet timestamp.
// Unparseable values return nil; the row is kept without a timestamp.
func ParseTimestamp(s string) *time.Time {
	t, err := time.Parse(rawTimestampLayout, strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &t
}

// FormatTimestamp renders a timestamp in the canonical YYYY-MM-DD HH:MM:SS form.
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// LELToPPM converts a methane reading from Lower Explosive Limit percentage
// to parts-per-million: 100% LEL for methane is 50,000 ppm, so 1% LEL = 500 ppm.
func LELToPPM(lel float64) float64 {
	return lel * methaneLEL * 0.01
}

// IsLeak classifies a converted methane level: any reading above zero ppm is a leak.
func IsLeak(ppm float64) bool {
	return ppm > 0
}

// NormalizeVolunteer uppercases a volunteer name or initials.
func NormalizeVolunteer(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// PhotoID derives the stable photo identifier from a share-link: the token
// following the link's first '=' (e.g. "...?id=<token>"). The derivation is
// deterministic, so repeated runs against the same link resolve to the same
// identifier.
func PhotoID(link string) (string, error) {
	_, token, found := strings.Cut(link, "=")
	if !found || token == "" {
		return "", fmt.Errorf("photo link %q has no identifier token", link)
	}
	return token, nil
}

// BuildObservation assembles an Observation from a raw row and its resolved
// photo identifier (nil when the photo could not be resolved). Recoverable
// field problems (bad coordinates, bad timestamp) leave the field absent; a
// non-numeric methane level is an error, which aborts the whole batch.
func BuildObservation(row RawRow, photoID *string) (Observation, error) {
	lel, err := strconv.ParseFloat(strings.TrimSpace(row[ColMethaneLevel]), 64)
	if err != nil {
		return Observation{}, fmt.Errorf("parse methane level %q: %w", row[ColMethaneLevel], err)
	}

	ppm := LELToPPM(lel)

	obs := Observation{
		City:            strings.TrimSpace(row[ColCity]),
		MethaneLevelPPM: ppm,
		Leak:            IsLeak(ppm),
		Infrastructure:  strings.TrimSpace(row[ColInfra]),
		PhotoID:         photoID,
		Volunteer:       NormalizeVolunteer(row[ColVolunteer]),
		Timestamp:       ParseTimestamp(row[ColTimestamp]),
		ProcessedAt:     clock.Now(),
	}

	if lat, lon, ok := ParseCoordinates(row[ColCoordinates]); ok {
		obs.Latitude = &lat
		obs.Longitude = &lon
	}

	return obs, nil
}
