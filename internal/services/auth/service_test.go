package auth

import (
	"context"
	"testing"

	"peerpay/internal/repositories/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	return NewService(memory.NewStore(0).Accounts())
}

func register(t *testing.T, svc Service) RegisterInput {
	t.Helper()
	input := RegisterInput{
		Name:     "Ada Lovelace",
		Username: "ada",
		Email:    "ada@example.com",
		Password: "correct-horse-1!",
	}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	return input
}

func TestRegister(t *testing.T) {
	t.Run("creates account with zero balance", func(t *testing.T) {
		svc := newTestService(t)

		account, err := svc.Register(context.Background(), RegisterInput{
			Name:     "Ada Lovelace",
			Username: "Ada",
			Email:    "Ada@Example.com",
			Password: "correct-horse-1!",
		})
		require.NoError(t, err)
		assert.NotZero(t, account.ID)
		assert.Equal(t, "ada", account.Username)
		assert.Equal(t, "ada@example.com", account.Email)
		assert.Equal(t, int64(0), account.Balance)
		assert.NotEqual(t, "correct-horse-1!", account.Password, "password must be stored hashed")
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		svc := newTestService(t)
		input := register(t, svc)

		_, err := svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, ErrAccountExists)

		input.Username = "other"
		_, err = svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, ErrAccountExists, "email is also unique")
	})

	t.Run("rejects bad input", func(t *testing.T) {
		svc := newTestService(t)

		tests := []struct {
			name    string
			input   RegisterInput
			wantErr error
		}{
			{"weak password", RegisterInput{Name: "A", Username: "ada", Email: "a@b.co", Password: "short"}, ErrWeakPassword},
			{"no special char", RegisterInput{Name: "A", Username: "ada", Email: "a@b.co", Password: "longenoughbutplain"}, ErrWeakPassword},
			{"bad email", RegisterInput{Name: "A", Username: "ada", Email: "not-an-email", Password: "correct-horse-1!"}, ErrInvalidInput},
			{"bad username", RegisterInput{Name: "A", Username: "a b", Email: "a@b.co", Password: "correct-horse-1!"}, ErrInvalidInput},
			{"empty name", RegisterInput{Name: "", Username: "ada", Email: "a@b.co", Password: "correct-horse-1!"}, ErrInvalidInput},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Register(context.Background(), tt.input)
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}
	})
}

func TestLogin(t *testing.T) {
	t.Run("by username and by email", func(t *testing.T) {
		svc := newTestService(t)
		input := register(t, svc)

		account, access, refresh, err := svc.Login(context.Background(), input.Username, input.Password)
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, "ada", account.Username)

		_, _, _, err = svc.Login(context.Background(), input.Email, input.Password)
		require.NoError(t, err)
	})

	t.Run("wrong password or unknown account", func(t *testing.T) {
		svc := newTestService(t)
		input := register(t, svc)

		_, _, _, err := svc.Login(context.Background(), input.Username, "wrong-password-1!")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, _, _, err = svc.Login(context.Background(), "nobody", input.Password)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefreshTokens(t *testing.T) {
	svc := newTestService(t)
	input := register(t, svc)

	account, _, refresh, err := svc.Login(context.Background(), input.Username, input.Password)
	require.NoError(t, err)

	access2, refresh2, err := svc.RefreshTokens(context.Background(), refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access2)
	assert.NotEmpty(t, refresh2)

	// Logout bumps the token version, so old refresh tokens stop working.
	require.NoError(t, svc.Logout(context.Background(), account.ID))
	_, _, err = svc.RefreshTokens(context.Background(), refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = svc.RefreshTokens(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	svc := newTestService(t)
	input := register(t, svc)

	account, _, _, err := svc.Login(context.Background(), input.Username, input.Password)
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), account.ID, "wrong-old-1!", "brand-new-pass-1!")
	assert.Error(t, err)

	err = svc.ChangePassword(context.Background(), account.ID, input.Password, "weak")
	assert.ErrorIs(t, err, ErrWeakPassword)

	versionBefore, err := svc.GetTokenVersion(context.Background(), account.ID)
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(context.Background(), account.ID, input.Password, "brand-new-pass-1!"))

	_, _, _, err = svc.Login(context.Background(), input.Username, input.Password)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, _, err = svc.Login(context.Background(), input.Username, "brand-new-pass-1!")
	require.NoError(t, err)

	versionAfter, err := svc.GetTokenVersion(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, versionBefore+1, versionAfter, "password change invalidates outstanding tokens")
}
