// Package sheets extracts raw observation rows from the Google Sheet backing
// the volunteer submission form.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/couchcryptid/methane-leak-etl/internal/domain"
)

// Client reads one spreadsheet range and implements pipeline.BatchExtractor.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	readRange     string
	logger        *slog.Logger
}

// NewClient creates a Sheets reader for the given spreadsheet and range.
// Credentials come from GOOGLE_APPLICATION_CREDENTIALS_JSON or
// GOOGLE_APPLICATION_CREDENTIALS; with neither set, application default
// credentials apply.
func NewClient(ctx context.Context, spreadsheetID, readRange string, logger *slog.Logger) (*Client, error) {
	opts := append(clientOptionsFromEnv(), option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
		logger:        logger,
	}, nil
}

// ExtractBatch reads the configured range. The first row is the header; the
// remainder become header-keyed raw rows.
func (c *Client) ExtractBatch(ctx context.Context) ([]domain.RawRow, error) {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, c.readRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", c.spreadsheetID, err)
	}
	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("sheet %s range %s contains no data", c.spreadsheetID, c.readRange)
	}

	rows := valuesToRows(resp.Values)
	c.logger.Info("sheet read", "spreadsheet_id", c.spreadsheetID, "rows", len(rows))
	return rows, nil
}

// valuesToRows converts the API's untyped cell grid into raw rows keyed by
// the normalized header row.
func valuesToRows(values [][]any) []domain.RawRow {
	headers := make([]string, len(values[0]))
	for i, cell := range values[0] {
		headers[i] = fmt.Sprint(cell)
	}

	rows := make([]domain.RawRow, 0, len(values)-1)
	for _, rec := range values[1:] {
		cells := make([]string, len(rec))
		for i, cell := range rec {
			cells[i] = fmt.Sprint(cell)
		}
		rows = append(rows, domain.NewRawRow(headers, cells))
	}
	return rows
}

// clientOptionsFromEnv resolves Google API credentials the same way for
// every environment: inline JSON first, then a key file path.
func clientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}
