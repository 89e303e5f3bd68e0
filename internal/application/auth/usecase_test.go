package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/auth"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func newAuthUC() (*auth.AuthUseCase, *memory.Store) {
	store := memory.New()
	return auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "stock-ledger-test"}), store
}

func TestRegister_GuardaHashYNormalizaUsername(t *testing.T) {
	ctx := context.Background()
	uc, store := newAuthUC()

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: " Bodega1 ", Password: "secreto123", IsWarehouseStaff: true})
	require.NoError(t, err)
	assert.Equal(t, "bodega1", user.Username)
	assert.True(t, user.IsWarehouseStaff)
	assert.True(t, user.Active)

	stored, err := store.Users().GetByUsername(ctx, "bodega1")
	require.NoError(t, err)
	assert.NotEqual(t, "secreto123", stored.PasswordHash)
}

func TestRegister_Duplicado(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuthUC()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "bodega1", Password: "secreto123"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "BODEGA1", Password: "otraclave1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestLogin_GeneraTokenValido(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuthUC()
	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "bodega1", Password: "secreto123"})
	require.NoError(t, err)

	resp, err := uc.Login(ctx, dto.LoginRequest{Username: "Bodega1", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	userID, username, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, "bodega1", username)
}

func TestLogin_Errores(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuthUC()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "bodega1", Password: "secreto123"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "bodega1", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
