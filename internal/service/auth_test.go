package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-api/backend/internal/logging"
	"github.com/pageza/recipe-api/backend/internal/service"
	"github.com/pageza/recipe-api/backend/internal/testhelpers"
	"github.com/pageza/recipe-api/backend/internal/types"
)

func TestAuthServiceLogin(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	users := service.NewUserService(db, logging.Discard())
	auth := service.NewAuthService(users, "test-secret", time.Hour)
	ctx := context.Background()

	created, err := users.CreateUser(ctx, "token@example.com", "testpass")
	require.NoError(t, err)

	token, expiresAt, err := auth.Login(ctx, "token@example.com", "testpass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, "token@example.com", claims.Email)

	user, err := auth.AuthenticateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, _, err = auth.Login(ctx, "token@example.com", "wrong")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)
}

func TestAuthServiceRejectsBadTokens(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	users := service.NewUserService(db, logging.Discard())
	auth := service.NewAuthService(users, "test-secret", time.Hour)
	other := service.NewAuthService(users, "other-secret", time.Hour)
	expired := service.NewAuthService(users, "test-secret", -time.Minute)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db)

	foreign, _, err := other.GenerateToken(user)
	require.NoError(t, err)
	_, err = auth.AuthenticateToken(ctx, foreign)
	assert.ErrorIs(t, err, types.ErrUnauthorized)

	stale, _, err := expired.GenerateToken(user)
	require.NoError(t, err)
	_, err = auth.AuthenticateToken(ctx, stale)
	assert.ErrorIs(t, err, types.ErrUnauthorized)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &types.TokenClaims{UserID: user.ID})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = auth.AuthenticateToken(ctx, unsigned)
	assert.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = auth.AuthenticateToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestAuthServiceRejectsInactiveUser(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	users := service.NewUserService(db, logging.Discard())
	auth := service.NewAuthService(users, "test-secret", time.Hour)

	user := testhelpers.CreateTestUser(t, db)
	token, _, err := auth.GenerateToken(user)
	require.NoError(t, err)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)
	_, err = auth.AuthenticateToken(context.Background(), token)
	assert.ErrorIs(t, err, types.ErrUnauthorized)
}
