package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/genkan-institute/genkan-api/internal/models"
	appErrors "github.com/genkan-institute/genkan-api/pkg/errors"
)

type fakeContactRepo struct {
	messages []*models.ContactMessage
	notified []string
}

func (f *fakeContactRepo) Create(ctx context.Context, msg *models.ContactMessage) error {
	msg.ID = "msg-1"
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeContactRepo) MarkNotified(ctx context.Context, id string) error {
	f.notified = append(f.notified, id)
	return nil
}

func (f *fakeContactRepo) List(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	result := make([]models.ContactMessage, 0, len(f.messages))
	for _, msg := range f.messages {
		result = append(result, *msg)
	}
	return result, nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func validContactRequest() ContactRequest {
	return ContactRequest{Name: "Aiko", Email: "aiko@example.com", Subject: "Schedule", Body: "When does N4 start?"}
}

func TestContactServiceSubmitNotifies(t *testing.T) {
	repo := &fakeContactRepo{}
	mail := &fakeMailer{}
	svc := NewContactService(repo, mail, "admin@example.com", validator.New(), zap.NewNop())

	msg, err := svc.Submit(context.Background(), validContactRequest())
	require.NoError(t, err)
	assert.True(t, msg.Notified)
	assert.Equal(t, []string{"admin@example.com"}, mail.sent)
	assert.Equal(t, []string{"msg-1"}, repo.notified)
}

func TestContactServiceSubmitKeepsMessageOnMailFailure(t *testing.T) {
	repo := &fakeContactRepo{}
	mail := &fakeMailer{err: errors.New("relay down")}
	svc := NewContactService(repo, mail, "admin@example.com", validator.New(), zap.NewNop())

	msg, err := svc.Submit(context.Background(), validContactRequest())
	require.NoError(t, err)
	assert.False(t, msg.Notified)
	require.Len(t, repo.messages, 1)
	assert.Empty(t, repo.notified)
}

func TestContactServiceSubmitValidation(t *testing.T) {
	repo := &fakeContactRepo{}
	svc := NewContactService(repo, &fakeMailer{}, "admin@example.com", validator.New(), zap.NewNop())

	_, err := svc.Submit(context.Background(), ContactRequest{Name: "Aiko", Email: "bad", Subject: "s", Body: "b"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, repo.messages)
}
