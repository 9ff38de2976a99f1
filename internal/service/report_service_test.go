package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/genkan-institute/genkan-api/internal/models"
)

type fakeReportRepo struct {
	summaries   []models.BatchSummary
	rows        []models.RegistrantRow
	summaryHits int
}

func (f *fakeReportRepo) Summaries(ctx context.Context) ([]models.BatchSummary, error) {
	f.summaryHits++
	return f.summaries, nil
}

func (f *fakeReportRepo) RegistrantRows(ctx context.Context) ([]models.RegistrantRow, error) {
	return f.rows, nil
}

func TestReportServiceSummaries(t *testing.T) {
	repo := &fakeReportRepo{summaries: []models.BatchSummary{
		{BatchID: "batch-1", BatchFound: true, Level: "N5", Title: "N5 Morning", Total: 15, Pending: 10, Completed: 5},
		{BatchID: "batch-gone", BatchFound: false, Level: "not found", Title: "not found", Total: 4, Pending: 4},
	}}
	svc := NewReportService(repo, nil, zap.NewNop())

	summaries, err := svc.Summaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	for _, s := range summaries {
		assert.Equal(t, s.Total, s.Pending+s.Completed)
	}
}

func TestReportServiceExportCSV(t *testing.T) {
	level := "N5"
	title := "N5 Morning"
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	repo := &fakeReportRepo{rows: []models.RegistrantRow{
		{RegistrationID: "reg-1", BatchID: "batch-1", Level: &level, BatchTitle: &title,
			Name: "Aiko", Email: "aiko@example.com", WhatsApp: "+628123", Status: "pending", CreatedAt: created},
		{RegistrationID: "reg-2", BatchID: "batch-gone",
			Name: "Ken", Email: "ken@example.com", WhatsApp: "+628999", Status: "completed", CreatedAt: created},
	}}
	svc := NewReportService(repo, nil, zap.NewNop())

	raw, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, registrantHeaders, records[0])

	assert.Equal(t, "reg-1", records[1][0])
	assert.Equal(t, "N5 Morning", records[1][3])
	assert.Equal(t, "2026-03-01 09:30:00", records[1][8])

	// deleted batch falls back to the sentinel in export rows
	assert.Equal(t, "not found", records[2][2])
	assert.Equal(t, "not found", records[2][3])
}

func TestReportServiceExportPDF(t *testing.T) {
	repo := &fakeReportRepo{rows: []models.RegistrantRow{
		{RegistrationID: "reg-1", BatchID: "batch-1", Name: "Aiko", Email: "aiko@example.com",
			WhatsApp: "+628123", Status: "pending", CreatedAt: time.Now()},
	}}
	svc := NewReportService(repo, nil, zap.NewNop())

	raw, err := svc.ExportPDF(context.Background())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}
