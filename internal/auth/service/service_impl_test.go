package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/openclub/clubhub/internal/auth/domain"
	"github.com/openclub/clubhub/internal/clock"
	"github.com/openclub/clubhub/internal/config"
	"github.com/openclub/clubhub/internal/migration"
	"github.com/openclub/clubhub/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(conn))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cfg := config.Config{
		AppName:       "clubhub",
		AuthJWTSecret: "test-secret",
		AuthTokenTTL:  time.Hour,
	}
	// Token expiry is validated against the wall clock, so the fake clock
	// starts at the current time here.
	clk := clock.NewFakeClock(time.Now())
	return NewService(conn, zap.NewNop(), cfg, node, clk)
}

func TestSignup(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, domain.SignupRequest{
		Email:    "  Alice@Example.COM ",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "alice@example.com", user.DisplayName)
	assert.False(t, user.IsSecretary)
	assert.NotEqual(t, "correct horse", user.PasswordHash)
}

func TestSignupValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, domain.SignupRequest{Email: "not-an-email", Password: "correct horse"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Signup(ctx, domain.SignupRequest{Email: "alice@example.com", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, domain.SignupRequest{Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, domain.SignupRequest{Email: "ALICE@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestLoginAndVerify(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, domain.SignupRequest{
		Email:       "alice@example.com",
		Password:    "correct horse",
		DisplayName: "Alice",
	})
	require.NoError(t, err)

	login, err := svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, user.ID, login.User.ID)

	verified, err := svc.Verify(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
	assert.Equal(t, "Alice", verified.DisplayName)
}

func TestLoginBadCredentials(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, domain.SignupRequest{Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "wrong horse"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Verify(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = svc.Verify(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
