package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/splitapp/backend/internal/auth"
	"github.com/splitapp/backend/internal/dispatch"
	"github.com/splitapp/backend/internal/email"
	"github.com/splitapp/backend/internal/models"
	"github.com/splitapp/backend/internal/storage"
	"github.com/splitapp/backend/internal/storage/sqlite"
)

// captureMailer records every delivery so tests can assert on the side
// channel. Safe for concurrent use; dispatcher workers call it off-thread.
type captureMailer struct {
	mu       sync.Mutex
	otps     map[string]string // email -> last passcode
	sent     []string          // "kind:recipient"
	failWith error
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{otps: make(map[string]string)}
}

func (m *captureMailer) record(kind, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, kind+":"+to)
	return m.failWith
}

func (m *captureMailer) SendOTP(_ context.Context, to, _, otp string) error {
	m.mu.Lock()
	m.otps[to] = otp
	m.mu.Unlock()
	return m.record("otp", to)
}

func (m *captureMailer) SendExpenseOwed(_ context.Context, to, _ string, _ email.ExpenseMail) error {
	return m.record("expense-owed", to)
}

func (m *captureMailer) SendExpensePaid(_ context.Context, to, _ string, _ email.ExpenseMail) error {
	return m.record("expense-paid", to)
}

func (m *captureMailer) SendSettlementReceived(_ context.Context, to, _ string, _ email.ExpenseMail) error {
	return m.record("settlement-received", to)
}

func (m *captureMailer) SendSettlementSent(_ context.Context, to, _ string, _ email.ExpenseMail) error {
	return m.record("settlement-sent", to)
}

func (m *captureMailer) SendGroupWelcome(_ context.Context, to, _, _ string) error {
	return m.record("welcome", to)
}

func (m *captureMailer) otpFor(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.otps[email]
}

func (m *captureMailer) sentTo(kind, to string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sent {
		if s == kind+":"+to {
			return true
		}
	}
	return false
}

type testEnv struct {
	store    storage.Store
	mailer   *captureMailer
	auth     *AuthService
	groups   *GroupService
	expenses *ExpenseService

	// drain blocks until all queued side-channel work has run. Call at
	// most once per test, right before asserting on mail or notifications.
	drain func()
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mailer := newCaptureMailer()
	dispatcher := dispatch.New(2, 32, 5*time.Second, logger)
	t.Cleanup(dispatcher.Close)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	return &testEnv{
		store:    store,
		mailer:   mailer,
		auth:     NewAuthService(store, mailer, jwtManager, 10*time.Minute, logger),
		groups:   NewGroupService(store, mailer, dispatcher, logger),
		expenses: NewExpenseService(store, mailer, dispatcher, decimal.NewFromInt(1), logger),
		drain:    dispatcher.Close,
	}
}

// seedVerifiedUser creates a verified account directly in the store.
func seedVerifiedUser(t *testing.T, store storage.Store, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Verified:     true,
	}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return u
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
