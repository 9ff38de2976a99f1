package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/genkan-institute/genkan-api/internal/models"
	appErrors "github.com/genkan-institute/genkan-api/pkg/errors"
)

type batchRepository interface {
	List(ctx context.Context, filter models.BatchFilter) ([]models.Batch, int, error)
	FindByID(ctx context.Context, id string) (*models.Batch, error)
	Create(ctx context.Context, batch *models.Batch) error
	Update(ctx context.Context, batch *models.Batch) error
	Delete(ctx context.Context, id string) error
}

type imageReleaser interface {
	Delete(id string) error
}

// BatchRequest describes batch create/update payloads.
type BatchRequest struct {
	Level          models.Level       `json:"level" validate:"required"`
	Title          string             `json:"title" validate:"required"`
	Schedule       string             `json:"schedule"`
	StartDate      time.Time          `json:"start_date" validate:"required"`
	Status         models.BatchStatus `json:"status"`
	Price          int64              `json:"price" validate:"gte=0"`
	SeatsTotal     int                `json:"seats_total" validate:"gte=0"`
	SeatsAvailable *int               `json:"seats_available,omitempty" validate:"omitempty,gte=0"`
	Prerequisite   *models.Level      `json:"prerequisite,omitempty"`
	ImageID        *string            `json:"image_id,omitempty"`
}

// CatalogService manages the class catalog. Catalog mutations feed the
// recap join, so every successful write invalidates the cached recap.
type CatalogService struct {
	repo      batchRepository
	images    imageReleaser
	recap     recapInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(repo batchRepository, images imageReleaser, recap recapInvalidator, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, images: images, recap: recap, validator: validate, logger: logger}
}

// List returns batches with pagination metadata.
func (s *CatalogService) List(ctx context.Context, filter models.BatchFilter) ([]models.Batch, *models.Pagination, error) {
	batches, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "failed to list batches")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return batches, pagination, nil
}

// ListUpcoming returns the public catalog: upcoming batches only.
func (s *CatalogService) ListUpcoming(ctx context.Context, level models.Level) ([]models.Batch, error) {
	filter := models.BatchFilter{Status: models.BatchStatusUpcoming, Level: level, PageSize: 100}
	batches, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "failed to list upcoming batches")
	}
	return batches, nil
}

// Get returns one batch by id.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Batch, error) {
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, storeError(err, "failed to load batch")
	}
	return batch, nil
}

// Create validates and persists a new batch.
func (s *CatalogService) Create(ctx context.Context, req BatchRequest) (*models.Batch, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	seats := req.SeatsTotal
	if req.SeatsAvailable != nil {
		seats = *req.SeatsAvailable
	}
	batch := &models.Batch{
		Level:          req.Level,
		Title:          req.Title,
		Schedule:       req.Schedule,
		StartDate:      req.StartDate,
		Status:         req.Status,
		Price:          req.Price,
		SeatsTotal:     req.SeatsTotal,
		SeatsAvailable: seats,
		Prerequisite:   req.Prerequisite,
		ImageID:        req.ImageID,
	}
	if err := s.repo.Create(ctx, batch); err != nil {
		return nil, storeError(err, "failed to create batch")
	}

	s.invalidateRecap(ctx)
	return batch, nil
}

// Update rewrites a batch. Last writer wins; no cross-request
// coordination is needed for admin edits.
func (s *CatalogService) Update(ctx context.Context, id string, req BatchRequest) (*models.Batch, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, storeError(err, "failed to load batch")
	}

	oldImage := batch.ImageID
	batch.Level = req.Level
	batch.Title = req.Title
	batch.Schedule = req.Schedule
	batch.StartDate = req.StartDate
	if req.Status != "" {
		batch.Status = req.Status
	}
	batch.Price = req.Price
	batch.SeatsTotal = req.SeatsTotal
	if req.SeatsAvailable != nil {
		batch.SeatsAvailable = *req.SeatsAvailable
	}
	batch.Prerequisite = req.Prerequisite
	if req.ImageID != nil {
		batch.ImageID = req.ImageID
	}

	if err := s.repo.Update(ctx, batch); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, storeError(err, "failed to update batch")
	}

	if req.ImageID != nil && oldImage != nil && *oldImage != *req.ImageID {
		s.releaseImage(*oldImage)
	}

	s.invalidateRecap(ctx)
	return batch, nil
}

// Delete removes a batch and releases its image. Registrations that
// reference the batch stay in the ledger for reporting continuity.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return storeError(err, "failed to load batch")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return storeError(err, "failed to delete batch")
	}

	if batch.ImageID != nil {
		s.releaseImage(*batch.ImageID)
	}

	s.invalidateRecap(ctx)
	return nil
}

func (s *CatalogService) validate(req BatchRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}
	if !req.Level.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown level")
	}
	if req.Prerequisite != nil && !req.Prerequisite.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown prerequisite level")
	}
	switch req.Status {
	case "", models.BatchStatusUpcoming, models.BatchStatusOngoing, models.BatchStatusCompleted:
	default:
		return appErrors.Clone(appErrors.ErrValidation, "unknown status")
	}
	return nil
}

func (s *CatalogService) invalidateRecap(ctx context.Context) {
	if s.recap != nil {
		s.recap.InvalidateRecap(ctx)
	}
}

// releaseImage drops the stored image. Blob failures are non-fatal: the
// catalog mutation already happened, so we only log.
func (s *CatalogService) releaseImage(id string) {
	if s.images == nil {
		return
	}
	if err := s.images.Delete(id); err != nil {
		s.logger.Warn("failed to release batch image", zap.String("image_id", id), zap.Error(err))
	}
}
