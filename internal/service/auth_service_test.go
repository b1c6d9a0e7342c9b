package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nordwerk/shiftplan-api/internal/dto"
	"github.com/nordwerk/shiftplan-api/internal/models"
	appErrors "github.com/nordwerk/shiftplan-api/pkg/errors"
)

type mockUserRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func seedUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID: "u1", Email: "planner@example.com", FullName: "Planner One",
		PasswordHash: string(hash), Role: models.RolePlanner, Active: true,
	}
}

func newAuthService(repo *mockUserRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		Secret: "test-secret", Expiration: time.Hour, Issuer: "shiftplan-api",
	})
}

func TestAuthServiceLoginAndValidate(t *testing.T) {
	user := seedUser(t, "correct-horse")
	repo := &mockUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := newAuthService(repo)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: user.Email, Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RolePlanner, resp.Role)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RolePlanner, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	user := seedUser(t, "correct-horse")
	repo := &mockUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: user.Email, Password: "wrong-horse"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, errorCode(t, err))
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	user := seedUser(t, "correct-horse")
	user.Active = false
	repo := &mockUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: user.Email, Password: "correct-horse"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, errorCode(t, err))
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, errorCode(t, err))
}

func TestAuthServiceMe(t *testing.T) {
	user := seedUser(t, "pw123456")
	repo := &mockUserRepo{byID: map[string]*models.User{"u1": user}}
	svc := newAuthService(repo)

	me, err := svc.Me(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, user.Email, me.Email)

	_, err = svc.Me(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, errorCode(t, err))
}
