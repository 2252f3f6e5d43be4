// Package csvfile extracts raw observation rows from a local CSV export,
// mirroring the sheet layout for offline and test runs.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/methane-leak-etl/internal/domain"
)

// Extractor reads one CSV file and implements pipeline.BatchExtractor.
type Extractor struct {
	path   string
	logger *slog.Logger
}

func NewExtractor(path string, logger *slog.Logger) *Extractor {
	return &Extractor{path: path, logger: logger}
}

// ExtractBatch reads the whole file. The first record is the header; the
// remainder become header-keyed raw rows.
func (e *Extractor) ExtractBatch(ctx context.Context) ([]domain.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(e.path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", e.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", e.path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv %s contains no data", e.path)
	}

	headers := records[0]
	rows := make([]domain.RawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, domain.NewRawRow(headers, rec))
	}

	e.logger.Info("csv read", "path", e.path, "rows", len(rows))
	return rows, nil
}
