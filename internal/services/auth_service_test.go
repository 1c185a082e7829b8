package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/postmod/internal/config"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/dto"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/models"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthService(t *testing.T, cfg *config.Config) (*AuthService, *UserService) {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	cfg.JWTSecret = testSecret
	cfg.JWTAccessExpiry = time.Hour
	users := NewUserService(testutil.NewDB(t))
	return NewAuthService(users, cfg), users
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestAuthRegisterAndLogin(t *testing.T) {
	auth, _ := newAuthService(t, nil)

	registered, err := auth.Register(context.Background(), registerRequest("alice"))
	require.NoError(t, err)
	assert.NotEmpty(t, registered.AccessToken)
	assert.Equal(t, "alice", registered.User.Username)

	claims := parseClaims(t, registered.AccessToken)
	assert.Equal(t, registered.User.ID.String(), claims["sub"])
	assert.Equal(t, models.RoleUser, claims["role"])
	assert.Equal(t, "alice", claims["username"])

	byName, err := auth.Login(context.Background(), &dto.LoginRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, byName.User.ID)

	byEmail, err := auth.Login(context.Background(), &dto.LoginRequest{Email: "Alice@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, byEmail.User.ID)
}

func TestAuthLogin_InvalidCredentials(t *testing.T) {
	auth, _ := newAuthService(t, nil)
	_, err := auth.Register(context.Background(), registerRequest("alice"))
	require.NoError(t, err)

	_, err = auth.Login(context.Background(), &dto.LoginRequest{Username: "alice", Password: "wrong password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(context.Background(), &dto.LoginRequest{Username: "ghost", Password: "correct horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthLoginAdmin(t *testing.T) {
	auth, users := newAuthService(t, &config.Config{AdminEmails: "Boss@Example.com"})

	_, err := auth.Register(context.Background(), registerRequest("alice"))
	require.NoError(t, err)
	_, err = auth.LoginAdmin(context.Background(), &dto.LoginRequest{Username: "alice", Password: "correct horse"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = auth.Register(context.Background(), registerRequest("boss"))
	require.NoError(t, err)
	resp, err := auth.LoginAdmin(context.Background(), &dto.LoginRequest{Username: "boss", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)
	assert.Equal(t, models.RoleAdmin, parseClaims(t, resp.AccessToken)["role"])

	alice, err := users.FindByIdentifier(context.Background(), "alice")
	require.NoError(t, err)
	_, err = users.UpdateRole(context.Background(), alice.ID, models.RoleAdmin)
	require.NoError(t, err)
	_, err = auth.LoginAdmin(context.Background(), &dto.LoginRequest{Username: "alice", Password: "correct horse"})
	assert.NoError(t, err)
}

func TestAuthWhoami(t *testing.T) {
	auth, _ := newAuthService(t, nil)
	registered, err := auth.Register(context.Background(), registerRequest("alice"))
	require.NoError(t, err)

	me, err := auth.Whoami(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, "alice@example.com", me.Email)
}
