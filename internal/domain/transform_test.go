package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		lat     float64
		lon     float64
		valid   bool
	}{
		{"plain pair", "44.31, -69.78", 44.31, -69.78, true},
		{"no space", "44.31,-69.78", 44.31, -69.78, true},
		{"parentheses", "(44.31, -69.78)", 44.31, -69.78, true},
		{"degree marks", "44.31° , 69.78°", 44.31, 69.78, true},
		{"hemisphere letters", "44.5N, 70.2W", 44.5, -70.2, true},
		{"south and west force negative", "44.5S, 70.2W", -44.5, -70.2, true},
		{"lowercase hemisphere", "44.5s, 70.2w", -44.5, -70.2, true},
		{"no letters keep numeric sign", "44.5, 70.2", 44.5, 70.2, true},
		{"negative sign preserved without letter", "-44.5, -70.2", -44.5, -70.2, true},
		{"full form", " ( 44.5° N , 70.2° W ) ", 44.5, -70.2, true},
		{"integers", "44, -69", 44, -69, true},
		{"leading plus", "+44.5, +70.2", 44.5, 70.2, true},
		{"not a coordinate", "not a coordinate", 0, 0, false},
		{"empty string", "", 0, 0, false},
		{"single value", "44.5", 0, 0, false},
		{"trailing garbage", "44.5, 70.2 somewhere", 0, 0, false},
		{"wrong letters", "44.5E, 70.2N", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon, ok := ParseCoordinates(tt.input)
			require.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.lat, lat)
				assert.Equal(t, tt.lon, lon)
			}
		})
	}
}

func TestParseCoordinates_Idempotent(t *testing.T) {
	// Re-parsing the canonical "lat,long" rendering of a parse must yield
	// the same pair.
	inputs := []string{"(44.5° S, 70.2° W)", "43.66, -70.26", "-12.5, 8.25"}

	for _, in := range inputs {
		lat1, lon1, ok := ParseCoordinates(in)
		require.True(t, ok, in)

		lat2, lon2, ok := ParseCoordinates(fmt.Sprintf("%g,%g", lat1, lon1))
		require.True(t, ok, in)
		assert.Equal(t, lat1, lat2)
		assert.Equal(t, lon1, lon2)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		ts := ParseTimestamp("07/23/2024 14:05:09")
		require.NotNil(t, ts)
		assert.Equal(t, time.Date(2024, 7, 23, 14, 5, 9, 0, time.UTC), *ts)
		assert.Equal(t, "2024-07-23 14:05:09", FormatTimestamp(*ts))
	})

	t.Run("unparseable yields nil", func(t *testing.T) {
		assert.Nil(t, ParseTimestamp("yesterday"))
		assert.Nil(t, ParseTimestamp("2024-07-23 14:05:09")) // already canonical, not the raw layout
		assert.Nil(t, ParseTimestamp(""))
	})
}

func TestLELToPPM(t *testing.T) {
	assert.Equal(t, 1000.0, LELToPPM(2.0))
	assert.Equal(t, 0.0, LELToPPM(0))
	assert.Equal(t, 500.0, LELToPPM(1))
}

func TestIsLeak_FromConvertedValue(t *testing.T) {
	assert.True(t, IsLeak(LELToPPM(2.0)))
	assert.True(t, IsLeak(LELToPPM(0.001)))
	assert.False(t, IsLeak(LELToPPM(0)))
}

func TestNormalizeVolunteer(t *testing.T) {
	assert.Equal(t, "AB", NormalizeVolunteer(" ab "))
	assert.Equal(t, "J. DOE", NormalizeVolunteer("j. doe"))
}

func TestPhotoID(t *testing.T) {
	t.Run("token after first equals", func(t *testing.T) {
		id, err := PhotoID("https://drive.google.com/open?id=1AbC_dEf")
		require.NoError(t, err)
		assert.Equal(t, "1AbC_dEf", id)
	})

	t.Run("deterministic", func(t *testing.T) {
		a, err := PhotoID("https://drive.google.com/open?id=xyz")
		require.NoError(t, err)
		b, err := PhotoID("https://drive.google.com/open?id=xyz")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("no token", func(t *testing.T) {
		_, err := PhotoID("https://example.com/photo.jpg")
		require.Error(t, err)
		_, err = PhotoID("https://example.com/photo?id=")
		require.Error(t, err)
	})
}

func TestBuildObservation(t *testing.T) {
	frozen := time.Date(2024, 8, 26, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	row := RawRow{
		ColCity:         "Portland",
		ColCoordinates:  "43.66, -70.26",
		ColMethaneLevel: "2.0",
		ColVolunteer:    "ab",
		ColTimestamp:    "07/23/2024 14:05:09",
		ColInfra:        "manhole",
	}

	t.Run("full row", func(t *testing.T) {
		photoID := "photo-1"
		obs, err := BuildObservation(row, &photoID)
		require.NoError(t, err)

		assert.Equal(t, "Portland", obs.City)
		assert.Equal(t, 1000.0, obs.MethaneLevelPPM)
		assert.True(t, obs.Leak)
		assert.Equal(t, "manhole", obs.Infrastructure)
		require.NotNil(t, obs.PhotoID)
		assert.Equal(t, "photo-1", *obs.PhotoID)
		require.True(t, obs.HasCoordinates())
		assert.Equal(t, 43.66, *obs.Latitude)
		assert.Equal(t, -70.26, *obs.Longitude)
		assert.Equal(t, "AB", obs.Volunteer)
		require.NotNil(t, obs.Timestamp)
		assert.Equal(t, frozen, obs.ProcessedAt)
	})

	t.Run("bad coordinates and timestamp survive", func(t *testing.T) {
		r := RawRow{}
		for k, v := range row {
			r[k] = v
		}
		r[ColCoordinates] = "not a coordinate"
		r[ColTimestamp] = "sometime"

		obs, err := BuildObservation(r, nil)
		require.NoError(t, err)
		assert.False(t, obs.HasCoordinates())
		assert.Nil(t, obs.Timestamp)
		assert.Nil(t, obs.PhotoID)
	})

	t.Run("zero reading is not a leak", func(t *testing.T) {
		r := RawRow{}
		for k, v := range row {
			r[k] = v
		}
		r[ColMethaneLevel] = "0"

		obs, err := BuildObservation(r, nil)
		require.NoError(t, err)
		assert.False(t, obs.Leak)
		assert.Equal(t, 0.0, obs.MethaneLevelPPM)
	})

	t.Run("non-numeric methane level is fatal", func(t *testing.T) {
		r := RawRow{}
		for k, v := range row {
			r[k] = v
		}
		r[ColMethaneLevel] = "high"

		_, err := BuildObservation(r, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse methane level")
	})
}
