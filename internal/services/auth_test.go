package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/service"
)

type fakeUserRepo struct {
	users map[string]entities.User
}

func (r *fakeUserRepo) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (r *fakeUserRepo) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			cp := u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, u entities.User) (uint64, error) {
	u.ID = uint64(len(r.users) + 1)
	r.users[u.Email] = u
	return u.ID, nil
}

func newAuthFixture(t *testing.T) AuthServiceInterface {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	uniID := uint64(1)
	userRepo := &fakeUserRepo{users: map[string]entities.User{
		"manager@demo.tj": {
			ID:           1,
			UniversityID: &uniID,
			Fio:          "Менеджер инвентаря",
			Email:        "manager@demo.tj",
			PasswordHash: string(hash),
			Role:         "manager",
		},
	}}

	jwtSvc := service.NewJWTService("test-secret", time.Minute, time.Hour, zap.NewNop())
	return NewAuthService(userRepo, jwtSvc, zap.NewNop())
}

func TestLogin(t *testing.T) {
	svc := newAuthFixture(t)

	pair, err := svc.Login(context.Background(), dto.LoginDTO{
		Email:    "manager@demo.tj",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginDTO{
		Email:    "manager@demo.tj",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

// Несуществующий email даёт ту же ошибку, что и неверный пароль:
// наличие учётной записи не раскрывается.
func TestLogin_UnknownEmail(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginDTO{
		Email:    "ghost@demo.tj",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRefresh(t *testing.T) {
	svc := newAuthFixture(t)

	pair, err := svc.Login(context.Background(), dto.LoginDTO{
		Email:    "manager@demo.tj",
		Password: "secret123",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), dto.RefreshTokenDTO{
		RefreshToken: pair.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

// Access-токен не годится для обновления пары.
func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc := newAuthFixture(t)

	pair, err := svc.Login(context.Background(), dto.LoginDTO{
		Email:    "manager@demo.tj",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), dto.RefreshTokenDTO{
		RefreshToken: pair.AccessToken,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
