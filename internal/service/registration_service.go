package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/genkan-institute/genkan-api/internal/models"
	appErrors "github.com/genkan-institute/genkan-api/pkg/errors"
)

type registrationRepository interface {
	AllocateSeat(ctx context.Context, level models.Level, reg *models.Registration) error
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	MarkBatchCompleted(ctx context.Context, batchID string) (int64, error)
}

type recapInvalidator interface {
	InvalidateRecap(ctx context.Context)
}

// RegisterRequest describes a public seat registration request. The
// applicant picks a level, not a batch: the allocator chooses the
// earliest upcoming batch at that level with seats left.
type RegisterRequest struct {
	Level    models.Level `json:"level" validate:"required"`
	Name     string       `json:"name" validate:"required"`
	Email    string       `json:"email" validate:"required,email"`
	WhatsApp string       `json:"whatsapp" validate:"required"`
}

// RegistrationService is the seat allocator: it enforces the capacity
// invariant and owns every write into the registration ledger.
type RegistrationService struct {
	repo      registrationRepository
	recap     recapInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRegistrationService constructs RegistrationService.
func NewRegistrationService(repo registrationRepository, recap recapInvalidator, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{repo: repo, recap: recap, validator: validate, logger: logger}
}

// Register claims one seat at the requested level. Capacity check,
// decrement, and ledger append happen in a single store transaction;
// when no qualifying batch has seats the caller gets ErrNoCapacity and
// nothing is written.
func (s *RegistrationService) Register(ctx context.Context, req RegisterRequest) (*models.Registration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	if !req.Level.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown level")
	}

	reg := &models.Registration{
		Name:     req.Name,
		Email:    req.Email,
		WhatsApp: req.WhatsApp,
	}
	if err := s.repo.AllocateSeat(ctx, req.Level, reg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNoCapacity
		}
		return nil, storeError(err, "failed to allocate seat")
	}

	s.invalidateRecap(ctx)
	s.logger.Info("seat allocated",
		zap.String("registration_id", reg.ID),
		zap.String("batch_id", reg.BatchID),
		zap.String("level", string(req.Level)),
	)
	return reg, nil
}

// Get returns one ledger entry by id.
func (s *RegistrationService) Get(ctx context.Context, id string) (*models.Registration, error) {
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return nil, storeError(err, "failed to load registration")
	}
	return reg, nil
}

// List returns ledger entries with pagination metadata.
func (s *RegistrationService) List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, *models.Pagination, error) {
	registrations, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "failed to list registrations")
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
	return registrations, pagination, nil
}

// MarkBatchCompleted transitions every registration of a batch to
// completed. Idempotent: a second call affects zero rows.
func (s *RegistrationService) MarkBatchCompleted(ctx context.Context, batchID string) (int64, error) {
	if batchID == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "batch id is required")
	}
	affected, err := s.repo.MarkBatchCompleted(ctx, batchID)
	if err != nil {
		return 0, storeError(err, "failed to complete batch registrations")
	}

	s.invalidateRecap(ctx)
	s.logger.Info("batch registrations completed", zap.String("batch_id", batchID), zap.Int64("affected", affected))
	return affected, nil
}

func (s *RegistrationService) invalidateRecap(ctx context.Context) {
	if s.recap != nil {
		s.recap.InvalidateRecap(ctx)
	}
}
