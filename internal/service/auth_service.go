// Package service implements the application's business logic on top of the
// storage, ledger, auth and email layers.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/splitapp/backend/internal/auth"
	"github.com/splitapp/backend/internal/email"
	"github.com/splitapp/backend/internal/models"
	"github.com/splitapp/backend/internal/storage"
)

var (
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidOTP is returned for a passcode mismatch or expiry.
	ErrInvalidOTP = errors.New("invalid or expired OTP")
)

// AuthService implements registration with email verification, and login.
type AuthService struct {
	store      storage.Store
	mailer     email.Mailer
	jwtManager *auth.JWTManager
	otpTTL     time.Duration
	logger     *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(store storage.Store, mailer email.Mailer, jwtManager *auth.JWTManager, otpTTL time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:      store,
		mailer:     mailer,
		jwtManager: jwtManager,
		otpTTL:     otpTTL,
		logger:     logger,
	}
}

// AuthResult is the outcome of a successful verify or login.
type AuthResult struct {
	Token string
	User  *models.User
}

// Register creates or refreshes a pending account and emails a one-time
// passcode.
//
// A verified account blocks re-registration of its email; an unverified one
// is overwritten in place (same row, new username/password/passcode) so a
// user who mistyped something can simply register again. The passcode mail
// is part of this transaction: if it cannot be sent the caller gets the
// error, because without the code the account is unreachable.
func (s *AuthService) Register(ctx context.Context, username, emailAddr, phone, password string) error {
	username = strings.TrimSpace(username)
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if username == "" || emailAddr == "" {
		return fmt.Errorf("%w: username and email are required", auth.ErrInvalidCredentials)
	}
	if err := auth.ValidatePassword(password); err != nil {
		return err
	}

	existing, err := s.store.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		return fmt.Errorf("failed to look up account: %w", err)
	}
	if existing != nil && existing.Verified {
		return auth.ErrUserExists
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		return err
	}
	otpExpires := time.Now().Add(s.otpTTL).Unix()

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	if existing != nil {
		// Overwrite the pending record in place.
		existing.Username = username
		existing.Phone = phone
		existing.PasswordHash = hash
		existing.OTPCode = otp
		existing.OTPExpires = otpExpires
		if err := s.store.UpdateUser(ctx, existing); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return auth.ErrUserExists
			}
			return fmt.Errorf("failed to refresh pending account: %w", err)
		}
	} else {
		user := &models.User{
			Username:     username,
			Email:        emailAddr,
			Phone:        phone,
			PasswordHash: hash,
			OTPCode:      otp,
			OTPExpires:   otpExpires,
		}
		if err := s.store.CreateUser(ctx, user); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return auth.ErrUserExists
			}
			return fmt.Errorf("failed to create account: %w", err)
		}
	}

	if err := s.mailer.SendOTP(ctx, emailAddr, username, otp); err != nil {
		s.logger.Error("failed to send OTP mail", "email", emailAddr, "error", err)
		return fmt.Errorf("failed to send OTP mail: %w", err)
	}

	s.logger.Info("registration passcode issued", "email", emailAddr)
	return nil
}

// VerifyOTP confirms the registration passcode, permanently verifies the
// account, clears the passcode fields and issues a bearer token.
func (s *AuthService) VerifyOTP(ctx context.Context, emailAddr, otp string) (*AuthResult, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	user, err := s.store.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if user.OTPCode == "" || user.OTPCode != otp || user.OTPExpires < time.Now().Unix() {
		return nil, ErrInvalidOTP
	}

	user.Verified = true
	user.OTPCode = ""
	user.OTPExpires = 0
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to verify account: %w", err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("account verified", "user_id", user.ID, "email", user.Email)
	return &AuthResult{Token: token, User: user}, nil
}

// Login authenticates a verified user and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (*AuthResult, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	user, err := s.store.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.Verified {
		return nil, auth.ErrNotVerified
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return &AuthResult{Token: token, User: user}, nil
}
