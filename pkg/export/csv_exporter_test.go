package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	data := Dataset{
		Headers: []string{"name", "email", "level"},
		Rows: []map[string]string{
			{"name": "Ayu", "email": "ayu@example.com", "level": "N5"},
			{"name": "Budi", "email": "budi@example.com", "level": "N4"},
		},
	}

	raw, err := exporter.Render(data)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"name", "email", "level"}, records[0])
	assert.Equal(t, "ayu@example.com", records[1][1])
}

func TestCSVExporterCustomSeparator(t *testing.T) {
	exporter := &CSVExporter{Comma: ';'}
	data := Dataset{
		Headers: []string{"name", "level"},
		Rows:    []map[string]string{{"name": "Ayu", "level": "N5"}},
	}

	raw, err := exporter.Render(data)
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = ';'
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Ayu", "N5"}, records[1])
}

func TestCSVExporterSparseRowsRenderEmptyCells(t *testing.T) {
	exporter := NewCSVExporter()
	data := Dataset{
		Headers: []string{"name", "batch_title"},
		Rows:    []map[string]string{{"name": "Budi"}},
	}

	raw, err := exporter.Render(data)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Budi", ""}, records[1])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	require.Error(t, err)
}
