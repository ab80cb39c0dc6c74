package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickcart/quickcart/internal/auth"
)

func newTestService(t *testing.T) (*auth.Service, *auth.User) {
	t.Helper()

	userRepo := auth.NewInMemoryUserRepository()
	refreshRepo := auth.NewInMemoryRefreshTokenRepository()

	now := time.Now()
	user := &auth.User{
		ID:        "usr_test123",
		Email:     "shopper@example.com",
		Name:      "Test Shopper",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, userRepo.Create(context.Background(), user))

	service := auth.NewService(auth.ServiceConfig{
		Verifier: auth.NewStaticCredentialVerifier(map[string]string{
			"shopper@example.com": "correct horse battery staple",
		}),
		JWTService: auth.NewJWTService(auth.JWTConfig{
			SigningKey: "test-secret-key",
			Issuer:     "https://api.quickcart.dev",
			Audience:   "quickcart-api",
		}),
		UserRepo:    userRepo,
		RefreshRepo: refreshRepo,
	})

	return service, user
}

func TestService_Login(t *testing.T) {
	service, user := newTestService(t)

	resp, err := service.Login(context.Background(), &auth.LoginRequest{
		Email:    "shopper@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, user.ID, resp.User.ID)

	// The issued access token identifies the user.
	userID, err := service.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestService_Login_WrongPassword(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Login(context.Background(), &auth.LoginRequest{
		Email:    "shopper@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_Login_UnknownUser(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Login(context.Background(), &auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_RefreshAccessToken_Rotation(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	resp, err := service.Login(ctx, &auth.LoginRequest{
		Email:    "shopper@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	refreshed, err := service.RefreshAccessToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)

	// The old refresh token is revoked on use.
	_, err = service.RefreshAccessToken(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)

	// The new one still works.
	_, err = service.RefreshAccessToken(ctx, refreshed.RefreshToken)
	assert.NoError(t, err)
}

func TestService_RefreshAccessToken_Unknown(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.RefreshAccessToken(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestService_RevokeRefreshToken(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	resp, err := service.Login(ctx, &auth.LoginRequest{
		Email:    "shopper@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	require.NoError(t, service.RevokeRefreshToken(ctx, resp.RefreshToken))

	_, err = service.RefreshAccessToken(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestService_RevokeAllTokens(t *testing.T) {
	service, user := newTestService(t)
	ctx := context.Background()

	first, err := service.Login(ctx, &auth.LoginRequest{
		Email:    "shopper@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	second, err := service.Login(ctx, &auth.LoginRequest{
		Email:    "shopper@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	require.NoError(t, service.RevokeAllTokens(ctx, user.ID))

	_, err = service.RefreshAccessToken(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	_, err = service.RefreshAccessToken(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestService_DevAuthenticate(t *testing.T) {
	service, _ := newTestService(t)

	resp, err := service.DevAuthenticate(context.Background(), &auth.DevAuthenticateRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.User.ID)
}
