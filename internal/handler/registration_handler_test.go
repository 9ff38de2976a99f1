package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/genkan-institute/genkan-api/internal/models"
	"github.com/genkan-institute/genkan-api/internal/service"
)

type registrationRepoStub struct {
	seats int
}

func (s *registrationRepoStub) AllocateSeat(ctx context.Context, level models.Level, reg *models.Registration) error {
	if s.seats <= 0 {
		return sql.ErrNoRows
	}
	s.seats--
	reg.ID = "reg-1"
	reg.BatchID = "batch-1"
	reg.Status = models.RegistrationStatusPending
	return nil
}

func (s *registrationRepoStub) List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, int, error) {
	return nil, 0, nil
}

func (s *registrationRepoStub) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	return nil, sql.ErrNoRows
}

func (s *registrationRepoStub) MarkBatchCompleted(ctx context.Context, batchID string) (int64, error) {
	return 0, nil
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func newRegistrationHandler(seats int) *RegistrationHandler {
	svc := service.NewRegistrationService(&registrationRepoStub{seats: seats}, nil, validator.New(), zap.NewNop())
	return NewRegistrationHandler(svc)
}

func TestRegistrationHandlerRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newRegistrationHandler(1)

	payload, _ := json.Marshal(service.RegisterRequest{
		Level: models.LevelN5, Name: "Aiko", Email: "aiko@example.com", WhatsApp: "+628123",
	})
	c, w := newGinContext(http.MethodPost, "/registrations", payload)

	handler.Register(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "batch-1")
}

func TestRegistrationHandlerRegisterNoCapacity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newRegistrationHandler(0)

	payload, _ := json.Marshal(service.RegisterRequest{
		Level: models.LevelN5, Name: "Aiko", Email: "aiko@example.com", WhatsApp: "+628123",
	})
	c, w := newGinContext(http.MethodPost, "/registrations", payload)

	handler.Register(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestRegistrationHandlerRegisterInvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newRegistrationHandler(1)

	c, w := newGinContext(http.MethodPost, "/registrations", []byte(`{"level":`))

	handler.Register(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
