// Package email delivers transactional mail: passcodes, expense alerts and
// settlement receipts.
package email

import (
	"context"
	"log/slog"
)

// ExpenseMail carries the fields rendered into expense and settlement
// notification mails.
type ExpenseMail struct {
	GroupName    string
	PayerName    string
	ReceiverName string
	Description  string
	Amount       string
}

// Mailer is the delivery interface used by the services. Everything except
// the registration passcode is dispatched fire-and-forget.
type Mailer interface {
	// SendOTP delivers the registration passcode.
	SendOTP(ctx context.Context, to, username, otp string) error

	// SendExpenseOwed tells a debtor their share of a new expense.
	SendExpenseOwed(ctx context.Context, to, username string, m ExpenseMail) error

	// SendExpensePaid confirms a new expense to its payer.
	SendExpensePaid(ctx context.Context, to, username string, m ExpenseMail) error

	// SendSettlementReceived tells the receiver a debt was settled to them.
	SendSettlementReceived(ctx context.Context, to, username string, m ExpenseMail) error

	// SendSettlementSent confirms an outgoing settlement to its payer.
	SendSettlementSent(ctx context.Context, to, username string, m ExpenseMail) error

	// SendGroupWelcome greets a user who just accepted a group invite.
	SendGroupWelcome(ctx context.Context, to, username, groupName string) error
}

// NoopMailer logs instead of sending. Used when SMTP is not configured and
// in tests.
type NoopMailer struct{}

func (NoopMailer) SendOTP(_ context.Context, to, _, otp string) error {
	slog.Info("mail suppressed (no SMTP configured)", "kind", "otp", "to", to)
	return nil
}

func (NoopMailer) SendExpenseOwed(_ context.Context, to, _ string, _ ExpenseMail) error {
	slog.Info("mail suppressed (no SMTP configured)", "kind", "expense_owed", "to", to)
	return nil
}

func (NoopMailer) SendExpensePaid(_ context.Context, to, _ string, _ ExpenseMail) error {
	slog.Info("mail suppressed (no SMTP configured)", "kind", "expense_paid", "to", to)
	return nil
}

func (NoopMailer) SendSettlementReceived(_ context.Context, to, _ string, _ ExpenseMail) error {
	slog.Info("mail suppressed (no SMTP configured)", "kind", "settlement_received", "to", to)
	return nil
}

func (NoopMailer) SendSettlementSent(_ context.Context, to, _ string, _ ExpenseMail) error {
	slog.Info("mail suppressed (no SMTP configured)", "kind", "settlement_sent", "to", to)
	return nil
}

func (NoopMailer) SendGroupWelcome(_ context.Context, to, _, _ string) error {
	slog.Info("mail suppressed (no SMTP configured)", "kind", "group_welcome", "to", to)
	return nil
}
