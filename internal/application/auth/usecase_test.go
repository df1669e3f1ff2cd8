package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/pkg/jwt"
)

type fakeUsers struct{ byEmail map[string]*entity.User }

func (f fakeUsers) GetByID(_ context.Context, id int64) (*entity.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f fakeUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.byEmail[email], nil
}

func newUsers(t *testing.T, active bool) fakeUsers {
	hash, err := bcrypt.GenerateFromPassword([]byte("clave-segura"), bcrypt.MinCost)
	require.NoError(t, err)
	return fakeUsers{byEmail: map[string]*entity.User{
		"bodega@restaurante.co": {
			ID: 7, BranchID: 2, Email: "bodega@restaurante.co", PasswordHash: string(hash),
			Name: "Bodega", Role: entity.RoleBodeguero, Active: active,
		},
	}}
}

var cfg = JWTConfig{Secret: "secreto", ExpMinutes: 10, Issuer: "test"}

func TestLogin_OK(t *testing.T) {
	uc := NewAuthUseCase(newUsers(t, true), cfg)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: " Bodega@Restaurante.co ", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.User.BranchID)

	userID, branchID, role, err := jwt.Parse(cfg.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
	assert.Equal(t, int64(2), branchID)
	assert.Equal(t, entity.RoleBodeguero, role)
}

func TestLogin_Errores(t *testing.T) {
	ctx := context.Background()

	_, err := NewAuthUseCase(newUsers(t, true), cfg).Login(ctx, dto.LoginRequest{Email: "x@y.co", Password: "a"})
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))

	_, err = NewAuthUseCase(newUsers(t, true), cfg).Login(ctx, dto.LoginRequest{Email: "bodega@restaurante.co", Password: "mala"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = NewAuthUseCase(newUsers(t, false), cfg).Login(ctx, dto.LoginRequest{Email: "bodega@restaurante.co", Password: "clave-segura"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}
