package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/genkan-institute/genkan-api/internal/models"
	appErrors "github.com/genkan-institute/genkan-api/pkg/errors"
	"github.com/genkan-institute/genkan-api/pkg/mailer"
)

type contactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	MarkNotified(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]models.ContactMessage, error)
}

// ContactRequest describes a public contact-form submission.
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

// ContactService persists contact messages and sends the notification
// mail. Mail failure never rolls back the stored message; the Notified
// flag on the returned record tells the caller what happened.
type ContactService struct {
	repo      contactRepository
	mail      mailer.Mailer
	notifyTo  string
	validator *validator.Validate
	logger    *zap.Logger
}

// NewContactService constructs ContactService.
func NewContactService(repo contactRepository, mail mailer.Mailer, notifyTo string, validate *validator.Validate, logger *zap.Logger) *ContactService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{repo: repo, mail: mail, notifyTo: notifyTo, validator: validate, logger: logger}
}

// Submit stores the message, then attempts the admin notification.
func (s *ContactService) Submit(ctx context.Context, req ContactRequest) (*models.ContactMessage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid contact payload")
	}

	msg := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, storeError(err, "failed to store contact message")
	}

	if s.mail != nil && s.notifyTo != "" {
		body := fmt.Sprintf("From: %s <%s>\n\n%s", msg.Name, msg.Email, msg.Body)
		if err := s.mail.Send(s.notifyTo, "[Contact] "+msg.Subject, body); err != nil {
			s.logger.Warn("contact notification failed", zap.String("message_id", msg.ID), zap.Error(err))
			return msg, nil
		}
		msg.Notified = true
		if err := s.repo.MarkNotified(ctx, msg.ID); err != nil {
			s.logger.Warn("failed to mark contact message notified", zap.String("message_id", msg.ID), zap.Error(err))
		}
	}
	return msg, nil
}

// List returns recent contact messages for the admin panel.
func (s *ContactService) List(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	messages, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, storeError(err, "failed to list contact messages")
	}
	return messages, nil
}
