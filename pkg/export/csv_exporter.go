package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset is an ordered header list plus rows keyed by header name.
// Keys absent from a row render as empty cells, so sparse rows (deleted
// batch context, optional columns) need no padding by the caller.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders a Dataset as RFC 4180 CSV. Comma overrides the
// field separator when set, for locales whose spreadsheet tools expect
// a semicolon.
type CSVExporter struct {
	Comma rune
}

// NewCSVExporter builds a CSV exporter with the default separator.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces the encoded bytes, header row first.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv export needs headers")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if e.Comma != 0 {
		w.Comma = e.Comma
	}

	if err := w.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("csv header row: %w", err)
	}

	record := make([]string, len(data.Headers))
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("csv data row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}
	return buf.Bytes(), nil
}
