package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/methane-leak-etl/internal/domain"
	"github.com/couchcryptid/methane-leak-etl/internal/pipeline"
)

type mockResolver struct {
	resolved map[string]string
	err      error
	calls    int
}

func (m *mockResolver) ResolveBatch(_ context.Context, _ []string) (map[string]string, error) {
	m.calls++
	return m.resolved, m.err
}

func rawRow(overrides map[string]string) domain.RawRow {
	row := domain.RawRow{
		domain.ColCity:         "Portland",
		domain.ColCoordinates:  "43.66, -70.26",
		domain.ColPhoto:        "https://drive.google.com/open?id=abc",
		domain.ColMethaneLevel: "2.0",
		domain.ColVolunteer:    "ab",
		domain.ColTimestamp:    "07/23/2024 14:05:09",
		domain.ColInfra:        "manhole",
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func TestTransformBatch_FullRow(t *testing.T) {
	frozen := time.Date(2024, 8, 26, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(frozen))
	defer domain.SetClock(nil)

	resolver := &mockResolver{resolved: map[string]string{
		"https://drive.google.com/open?id=abc": "abc",
	}}
	tfm := pipeline.NewTransformer(resolver, testLogger())

	batch, err := tfm.TransformBatch(context.Background(), []domain.RawRow{rawRow(nil)})
	require.NoError(t, err)
	require.Len(t, batch, 1)

	lat, lon := 43.66, -70.26
	photoID := "abc"
	stamp := time.Date(2024, 7, 23, 14, 5, 9, 0, time.UTC)
	want := domain.Observation{
		City:            "Portland",
		MethaneLevelPPM: 1000,
		Leak:            true,
		Infrastructure:  "manhole",
		PhotoID:         &photoID,
		Latitude:        &lat,
		Longitude:       &lon,
		Volunteer:       "AB",
		Timestamp:       &stamp,
		ProcessedAt:     frozen,
	}
	assert.Empty(t, cmp.Diff(want, batch[0]))
}

func TestTransformBatch_MissingRequiredColumnIsFatal(t *testing.T) {
	row := rawRow(nil)
	delete(row, domain.ColCoordinates)

	tfm := pipeline.NewTransformer(&mockResolver{}, testLogger())

	_, err := tfm.TransformBatch(context.Background(), []domain.RawRow{row})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing required column "coordinates"`)
}

func TestTransformBatch_UnresolvedPhotoLeavesFieldAbsent(t *testing.T) {
	resolver := &mockResolver{resolved: map[string]string{}}
	tfm := pipeline.NewTransformer(resolver, testLogger())

	batch, err := tfm.TransformBatch(context.Background(), []domain.RawRow{rawRow(nil)})
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Nil(t, batch[0].PhotoID)
}

func TestTransformBatch_ResolverErrorAborts(t *testing.T) {
	resolver := &mockResolver{err: assert.AnError}
	tfm := pipeline.NewTransformer(resolver, testLogger())

	_, err := tfm.TransformBatch(context.Background(), []domain.RawRow{rawRow(nil)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve photos")
}

func TestTransformBatch_BadRowAbortsWholeBatch(t *testing.T) {
	resolver := &mockResolver{resolved: map[string]string{}}
	tfm := pipeline.NewTransformer(resolver, testLogger())

	rows := []domain.RawRow{
		rawRow(nil),
		rawRow(map[string]string{domain.ColMethaneLevel: "not a number"}),
	}
	_, err := tfm.TransformBatch(context.Background(), rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}

func TestTransformBatch_EmptyBatch(t *testing.T) {
	resolver := &mockResolver{}
	tfm := pipeline.NewTransformer(resolver, testLogger())

	batch, err := tfm.TransformBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, batch)
	assert.Zero(t, resolver.calls)
}
