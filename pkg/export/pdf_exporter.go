package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	// usable width of an A4 landscape page inside the margins
	pdfTableWidth = 277.0
	pdfRowHeight  = 6.5
)

// PDFExporter renders a Dataset as a landscape A4 table, sized for the
// nine-column registrant recap.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render lays the table out with column widths weighted by header
// length, so wide columns (batch titles, emails) get more room than
// short status flags. Cell values are clipped to keep rows on one line.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf export needs headers")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 9, title, "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	widths := columnWidths(data.Headers)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], pdfRowHeight+1, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			pdf.CellFormat(widths[i], pdfRowHeight, clip(row[header], widths[i]), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

// columnWidths splits the page width proportionally to header length,
// with a floor so short headers stay readable.
func columnWidths(headers []string) []float64 {
	weights := make([]float64, len(headers))
	var total float64
	for i, header := range headers {
		w := float64(len(header))
		if w < 6 {
			w = 6
		}
		weights[i] = w
		total += w
	}

	widths := make([]float64, len(headers))
	for i, w := range weights {
		widths[i] = pdfTableWidth * w / total
	}
	return widths
}

// clip truncates values that would overflow their cell, at roughly
// 1.6mm per character for the table font size.
func clip(value string, width float64) string {
	limit := int(width / 1.6)
	if limit < 4 || len(value) <= limit {
		return value
	}
	return value[:limit-3] + "..."
}
