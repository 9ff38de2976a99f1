package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/genkan-institute/genkan-api/internal/models"
	appErrors "github.com/genkan-institute/genkan-api/pkg/errors"
)

type fakeAdminRepo struct {
	admin *models.Admin
	err   error
}

func (f *fakeAdminRepo) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.admin == nil || f.admin.Username != username {
		return nil, sql.ErrNoRows
	}
	return f.admin, nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{Secret: "secret", Expiration: time.Hour, Issuer: "genkan-api"}
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &fakeAdminRepo{admin: &models.Admin{ID: "adm-1", Username: "admin", PasswordHash: string(hash)}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "admin", res.Username)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "adm-1", claims.AdminID)
	assert.Equal(t, "admin", claims.Username)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &fakeAdminRepo{admin: &models.Admin{ID: "adm-1", Username: "admin", PasswordHash: string(hash)}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "nope"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginUnknownUserSameError(t *testing.T) {
	repo := &fakeAdminRepo{}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "ghost", Password: "password"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceVerify(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &fakeAdminRepo{admin: &models.Admin{ID: "adm-1", Username: "admin", PasswordHash: string(hash)}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	assert.True(t, svc.Verify(context.Background(), "admin", "password"))
	assert.False(t, svc.Verify(context.Background(), "admin", "wrong"))
	assert.False(t, svc.Verify(context.Background(), "ghost", "password"))
}

func TestAuthServiceVerifyMalformedHash(t *testing.T) {
	repo := &fakeAdminRepo{admin: &models.Admin{ID: "adm-1", Username: "admin", PasswordHash: "plaintext-not-bcrypt"}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	assert.False(t, svc.Verify(context.Background(), "admin", "plaintext-not-bcrypt"))
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(&fakeAdminRepo{}, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}
