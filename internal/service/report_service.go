package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/genkan-institute/genkan-api/internal/models"
	"github.com/genkan-institute/genkan-api/pkg/export"
)

type reportRepository interface {
	Summaries(ctx context.Context) ([]models.BatchSummary, error)
	RegistrantRows(ctx context.Context) ([]models.RegistrantRow, error)
}

const recapCacheKey = "recap:summaries"

var registrantHeaders = []string{"registration_id", "batch_id", "level", "batch_title", "name", "email", "whatsapp", "status", "registered_at"}

// ReportService recomputes per-batch recaps from the ledger on demand
// and renders tabular exports.
type ReportService struct {
	repo   reportRepository
	cache  *CacheService
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(repo reportRepository, cache *CacheService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		repo:   repo,
		cache:  cache,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// Summaries returns the per-batch recap, ordered ascending by batch id.
// The result is served from cache when fresh; any registration or
// ledger mutation invalidates it.
func (s *ReportService) Summaries(ctx context.Context) ([]models.BatchSummary, error) {
	var cached []models.BatchSummary
	if hit, _ := s.cache.Get(ctx, recapCacheKey, &cached); hit {
		return cached, nil
	}

	summaries, err := s.repo.Summaries(ctx)
	if err != nil {
		return nil, storeError(err, "failed to aggregate registrations")
	}

	if err := s.cache.Set(ctx, recapCacheKey, summaries, 0); err != nil {
		s.logger.Warn("failed to cache recap", zap.Error(err))
	}
	return summaries, nil
}

// InvalidateRecap drops the cached recap after a ledger mutation.
func (s *ReportService) InvalidateRecap(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, recapCacheKey); err != nil {
		s.logger.Warn("failed to invalidate recap cache", zap.Error(err))
	}
}

// ExportCSV renders one CSV row per registration: a pure transform of
// the ledger joined with catalog context.
func (s *ReportService) ExportCSV(ctx context.Context) ([]byte, error) {
	dataset, err := s.registrantDataset(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := s.csv.Render(*dataset)
	if err != nil {
		return nil, storeError(err, "failed to render csv export")
	}
	return raw, nil
}

// ExportPDF renders the same registrant table as a PDF recap.
func (s *ReportService) ExportPDF(ctx context.Context) ([]byte, error) {
	dataset, err := s.registrantDataset(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := s.pdf.Render(*dataset, "Rekap Pendaftaran")
	if err != nil {
		return nil, storeError(err, "failed to render pdf export")
	}
	return raw, nil
}

func (s *ReportService) registrantDataset(ctx context.Context) (*export.Dataset, error) {
	rows, err := s.repo.RegistrantRows(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list registrant rows")
	}

	dataset := export.Dataset{Headers: registrantHeaders, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		level := "not found"
		if row.Level != nil {
			level = *row.Level
		}
		title := "not found"
		if row.BatchTitle != nil {
			title = *row.BatchTitle
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"registration_id": row.RegistrationID,
			"batch_id":        row.BatchID,
			"level":           level,
			"batch_title":     title,
			"name":            row.Name,
			"email":           row.Email,
			"whatsapp":        row.WhatsApp,
			"status":          row.Status,
			"registered_at":   row.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	return &dataset, nil
}
