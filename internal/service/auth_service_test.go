package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/healthmate/healthmate-api/internal/config"
	"github.com/healthmate/healthmate-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	passwordCost = bcrypt.MinCost
}

type authFixture struct {
	users     *fakeUserRepo
	refresh   *fakeRefreshTokenRepo
	blacklist *fakeBlacklist
	tokens    *TokenService
	auth      *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:     newFakeUserRepo(),
		refresh:   newFakeRefreshTokenRepo(),
		blacklist: newFakeBlacklist(),
	}
	f.tokens = NewTokenService(config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
	}, f.refresh, f.users, f.blacklist)
	f.auth = NewAuthService(f.users, f.tokens, zap.NewNop())
	return f
}

var client = ClientInfo{UserAgent: "test", IPAddress: "127.0.0.1"}

func TestRegisterCreatesUserAndSession(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	res, err := f.auth.Register(ctx, RegisterInput{Name: " Ann ", Email: "Ann@Example.com", Password: "secret1"}, client)
	require.NoError(t, err)

	assert.Equal(t, "Ann", res.User.Name)
	assert.Equal(t, "ann@example.com", res.User.Email)
	assert.Equal(t, domain.RoleUser, res.User.Role)
	assert.NotEqual(t, "secret1", res.User.PasswordHash)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)

	claims, err := f.tokens.VerifyAccessToken(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.auth.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"}, client)
	require.NoError(t, err)

	_, err = f.auth.Register(ctx, RegisterInput{Name: "Ann 2", Email: "ANN@example.com", Password: "secret2"}, client)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.auth.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"}, client)
	require.NoError(t, err)

	_, wrongEmail := f.auth.Login(ctx, "nobody@example.com", "secret1", client)
	_, wrongPassword := f.auth.Login(ctx, "ann@example.com", "nope", client)

	assert.ErrorIs(t, wrongEmail, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongEmail.Error(), wrongPassword.Error())

	res, err := f.auth.Login(ctx, " ANN@example.com", "secret1", client)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", res.User.Email)
}

func TestRefreshRotatesToken(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"}, client)
	require.NoError(t, err)

	refreshed, err := f.auth.Refresh(ctx, reg.RefreshToken, client)
	require.NoError(t, err)
	assert.NotEqual(t, reg.RefreshToken, refreshed.RefreshToken)
	assert.Nil(t, refreshed.User)

	_, err = f.auth.Refresh(ctx, reg.RefreshToken, client)
	assert.ErrorIs(t, err, domain.ErrInvalidToken, "a refresh token works once")

	_, err = f.auth.Refresh(ctx, "garbage", client)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"}, client)
	require.NoError(t, err)

	f.tokens.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, err = f.auth.Refresh(ctx, reg.RefreshToken, client)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestLogoutBlacklistsAccessToken(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"}, client)
	require.NoError(t, err)

	claims, err := f.tokens.VerifyAccessToken(ctx, reg.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, claims, reg.RefreshToken))

	ttl, ok := f.blacklist.revoked[claims.ID]
	require.True(t, ok)
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)

	_, err = f.tokens.VerifyAccessToken(ctx, reg.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = f.auth.Refresh(ctx, reg.RefreshToken, client)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyAccessTokenRejectsTampering(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, domain.AccessClaims{
		UserID: "user-1",
		Role:   domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	forged, err := other.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	_, err = f.tokens.VerifyAccessToken(ctx, forged)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = f.tokens.VerifyAccessToken(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyAccessTokenRejectsExpired(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"}, client)
	require.NoError(t, err)

	f.tokens.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = f.tokens.VerifyAccessToken(ctx, reg.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	users := NewUserService(f.users, f.tokens)

	reg, err := f.auth.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"}, client)
	require.NoError(t, err)
	userID := reg.User.ID

	err = users.ChangePassword(ctx, userID, "wrong", "newpass1")
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	require.NoError(t, users.ChangePassword(ctx, userID, "secret1", "newpass1"))
	assert.Equal(t, 0, f.refresh.activeFor(userID), "sessions are revoked")

	_, err = f.auth.Login(ctx, "ann@example.com", "secret1", client)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, "ann@example.com", "newpass1", client)
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	users := NewUserService(f.users, f.tokens)

	reg, err := f.auth.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"}, client)
	require.NoError(t, err)

	name, age := "Ann B", 31
	updated, err := users.UpdateProfile(ctx, reg.User.ID, domain.ProfileUpdate{Name: &name, Age: &age})
	require.NoError(t, err)
	assert.Equal(t, "Ann B", updated.Name)
	assert.Equal(t, 31, *updated.Age)
	assert.Equal(t, "ann@example.com", updated.Email)
}
