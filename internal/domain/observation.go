package domain

import "time"

// Required spreadsheet columns. A batch missing any of these is rejected
// before anything is transformed or persisted.
const (
	ColCoordinates  = "coordinates"
	ColPhoto        = "photo"
	ColMethaneLevel = "methane_level"
	ColVolunteer    = "volunteer"
	ColTimestamp    = "timestamp"
	ColCity         = "city"
	ColInfra        = "type_of_infrastructure"
)

// RequiredColumns lists the columns every raw batch must carry.
var RequiredColumns = []string{ColCoordinates, ColPhoto, ColMethaneLevel, ColVolunteer, ColTimestamp}

// RawRow is one spreadsheet row keyed by normalized header name.
// Columns beyond the required set (city, type_of_infrastructure, ...) pass
// through the transform unchanged.
type RawRow map[string]string

// Observation is the domain-rich representation of one volunteer reading
// after transformation. Pointer fields are absent when the source value was
// missing or unparseable; the row itself always survives.
type Observation struct {
	City            string     `json:"city"`
	MethaneLevelPPM float64    `json:"methane_level"`
	Leak            bool       `json:"leak"`
	Infrastructure  string     `json:"type_of_infrastructure,omitempty"`
	PhotoID         *string    `json:"photo_id,omitempty"`
	Latitude        *float64   `json:"latitude,omitempty"`
	Longitude       *float64   `json:"longitude,omitempty"`
	Volunteer       string     `json:"volunteer"`
	Timestamp       *time.Time `json:"timestamp,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`
}

// HasCoordinates reports whether the observation carries a plottable
// latitude/longitude pair. The two are always set together.
func (o Observation) HasCoordinates() bool {
	return o.Latitude != nil && o.Longitude != nil
}
