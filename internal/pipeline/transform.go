package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/methane-leak-etl/internal/domain"
)

// PhotoResolver maps photo share-links to stored photo identifiers. Links
// that could not be resolved are simply absent from the result.
type PhotoResolver interface {
	ResolveBatch(ctx context.Context, links []string) (map[string]string, error)
}

// RowTransformer implements BatchTransformer: it validates the raw batch,
// resolves photos up front, and normalizes each row into an Observation.
type RowTransformer struct {
	resolver PhotoResolver
	logger   *slog.Logger
}

// NewTransformer creates a RowTransformer.
func NewTransformer(resolver PhotoResolver, logger *slog.Logger) *RowTransformer {
	return &RowTransformer{
		resolver: resolver,
		logger:   logger,
	}
}

// TransformBatch validates and normalizes a raw batch. A missing required
// column or a row that cannot be coerced aborts the whole batch; recoverable
// per-row problems (bad coordinates, bad timestamp, unresolvable photo) only
// leave the affected fields absent.
func (t *RowTransformer) TransformBatch(ctx context.Context, rows []domain.RawRow) ([]domain.Observation, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	if err := validateColumns(rows); err != nil {
		return nil, err
	}

	links := make([]string, 0, len(rows))
	for _, row := range rows {
		if link := row[domain.ColPhoto]; link != "" {
			links = append(links, link)
		}
	}
	resolved, err := t.resolver.ResolveBatch(ctx, links)
	if err != nil {
		return nil, fmt.Errorf("resolve photos: %w", err)
	}

	batch := make([]domain.Observation, 0, len(rows))
	for i, row := range rows {
		var photoID *string
		if id, ok := resolved[row[domain.ColPhoto]]; ok {
			photoID = &id
		}

		obs, err := domain.BuildObservation(row, photoID)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		batch = append(batch, obs)
	}

	t.logger.Info("transform complete", "rows", len(batch), "photos_resolved", len(resolved))
	return batch, nil
}

// validateColumns checks that every row carries the required columns. The
// source builds rows from a shared header, so a missing column is a batch
// defect, not a row defect.
func validateColumns(rows []domain.RawRow) error {
	for _, col := range domain.RequiredColumns {
		for i, row := range rows {
			if _, ok := row[col]; !ok {
				return fmt.Errorf("row %d: missing required column %q", i, col)
			}
		}
	}
	return nil
}
