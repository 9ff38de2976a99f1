package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()
	data := Dataset{
		Headers: []string{"registration_id", "batch_title", "name", "status"},
		Rows: []map[string]string{
			{"registration_id": "reg-1", "batch_title": "N5 Morning", "name": "Ayu", "status": "pending"},
		},
	}

	raw, err := exporter.Render(data, "Rekap Pendaftaran")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	exporter := NewPDFExporter()
	_, err := exporter.Render(Dataset{}, "")
	require.Error(t, err)
}

func TestColumnWidthsFillTable(t *testing.T) {
	widths := columnWidths([]string{"id", "batch_title", "email"})
	var total float64
	for _, w := range widths {
		total += w
	}
	assert.InDelta(t, pdfTableWidth, total, 0.01)
	assert.Greater(t, widths[1], widths[0], "longer headers get wider columns")
}

func TestClipKeepsShortValues(t *testing.T) {
	assert.Equal(t, "N5", clip("N5", 30))
	long := "a-very-long-batch-title-that-cannot-possibly-fit"
	clipped := clip(long, 20)
	assert.Less(t, len(clipped), len(long))
	assert.Contains(t, clipped, "...")
}
