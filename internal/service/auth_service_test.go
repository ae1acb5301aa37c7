package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/splitapp/backend/internal/auth"
)

func TestRegisterVerifyLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.auth.Register(ctx, "alice", "Alice@Example.com", "555-0100", "hunter2longer")
	require.NoError(t, err)

	// Email is normalized; the passcode went to the lowered address.
	otp := env.mailer.otpFor("alice@example.com")
	require.Regexp(t, `^\d{6}$`, otp)

	_, err = env.auth.Login(ctx, "alice@example.com", "hunter2longer")
	require.ErrorIs(t, err, auth.ErrNotVerified)

	res, err := env.auth.VerifyOTP(ctx, "alice@example.com", otp)
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.True(t, res.User.Verified)
	require.Empty(t, res.User.OTPCode)

	res, err = env.auth.Login(ctx, "ALICE@example.com", "hunter2longer")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, "alice", res.User.Username)
}

func TestRegisterOverwritesUnverifiedAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.auth.Register(ctx, "alice", "a@example.com", "", "firstpassword"))
	firstOTP := env.mailer.otpFor("a@example.com")

	// Second registration replaces username, password and passcode in place.
	require.NoError(t, env.auth.Register(ctx, "alicia", "a@example.com", "", "secondpassword"))
	secondOTP := env.mailer.otpFor("a@example.com")

	_, err := env.auth.VerifyOTP(ctx, "a@example.com", firstOTP)
	if firstOTP != secondOTP {
		require.ErrorIs(t, err, ErrInvalidOTP)
	}

	res, err := env.auth.VerifyOTP(ctx, "a@example.com", secondOTP)
	require.NoError(t, err)
	require.Equal(t, "alicia", res.User.Username)

	_, err = env.auth.Login(ctx, "a@example.com", "firstpassword")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = env.auth.Login(ctx, "a@example.com", "secondpassword")
	require.NoError(t, err)
}

func TestRegisterOverwriteRejectsTakenUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	seedVerifiedUser(t, env.store, "alice")

	// A pending record exists; re-registering it under a username another
	// account owns must surface as the conflict, not an internal error.
	require.NoError(t, env.auth.Register(ctx, "bobby", "b@example.com", "", "hunter2longer"))
	err := env.auth.Register(ctx, "alice", "b@example.com", "", "hunter2longer")
	require.ErrorIs(t, err, auth.ErrUserExists)
}

func TestRegisterVerifiedEmailRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.auth.Register(ctx, "alice", "a@example.com", "", "hunter2longer"))
	otp := env.mailer.otpFor("a@example.com")
	_, err := env.auth.VerifyOTP(ctx, "a@example.com", otp)
	require.NoError(t, err)

	err = env.auth.Register(ctx, "impostor", "a@example.com", "", "hunter2longer")
	require.ErrorIs(t, err, auth.ErrUserExists)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.auth.Register(ctx, "", "a@example.com", "", "hunter2longer")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	err = env.auth.Register(ctx, "alice", "a@example.com", "", "short")
	require.ErrorIs(t, err, auth.ErrWeakPassword)
}

func TestVerifyOTPRejectsWrongAndExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.auth.Register(ctx, "alice", "a@example.com", "", "hunter2longer"))
	otp := env.mailer.otpFor("a@example.com")

	wrong := "000000"
	if wrong == otp {
		wrong = "000001"
	}
	_, err := env.auth.VerifyOTP(ctx, "a@example.com", wrong)
	require.ErrorIs(t, err, ErrInvalidOTP)

	_, err = env.auth.VerifyOTP(ctx, "missing@example.com", otp)
	require.ErrorIs(t, err, ErrUserNotFound)

	// Force the passcode past its deadline.
	user, err := env.store.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	user.OTPExpires = time.Now().Add(-time.Minute).Unix()
	require.NoError(t, env.store.UpdateUser(ctx, user))

	_, err = env.auth.VerifyOTP(ctx, "a@example.com", otp)
	require.ErrorIs(t, err, ErrInvalidOTP)
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Login(ctx, "nobody@example.com", "whatever")
	require.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, env.auth.Register(ctx, "alice", "a@example.com", "", "hunter2longer"))
	otp := env.mailer.otpFor("a@example.com")
	_, err = env.auth.VerifyOTP(ctx, "a@example.com", otp)
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, "a@example.com", "wrongpassword")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
