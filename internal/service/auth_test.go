package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/producthelper/backend/internal/logger"
	"github.com/producthelper/backend/internal/testhelpers"
)

func newAuthService(t *testing.T) *AuthService {
	db := testhelpers.SetupTestDB(t)
	return NewAuthService(db, "test-secret", logger.NewNop())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "ada@example.com", "ada", "Ada", "Lovelace", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	token, err := svc.Login(ctx, "ada@example.com", "s3cret")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ada", claims.Username)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ada@example.com", "ada", "", "", "s3cret")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ada@example.com", "ada2", "", "", "s3cret")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.True(t, IsValidation(err))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ada@example.com", "ada", "", "", "s3cret")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidLogin)

	_, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidLogin)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc := newAuthService(t)

	token, err := svc.GenerateToken(testhelpers.NewID(), "ada")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(testhelpers.SetupTestDB(t), "another-secret", logger.NewNop())
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
