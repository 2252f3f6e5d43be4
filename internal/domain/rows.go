package domain

import "strings"

// NormalizeHeader canonicalizes a source column header: trimmed, lowered,
// internal whitespace collapsed to single underscores. "Type of
// Infrastructure" and "type_of_infrastructure" address the same column.
func NormalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(h))), "_")
}

// NewRawRow zips a header row and a value row into a RawRow. Short value
// rows (trailing blank cells, which spreadsheet APIs omit) fill with empty
// strings so every row carries the full column set.
func NewRawRow(headers, values []string) RawRow {
	row := make(RawRow, len(headers))
	for i, h := range headers {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		row[NormalizeHeader(h)] = v
	}
	return row
}
