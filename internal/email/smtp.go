package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds the connection parameters for the SMTP mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail over SMTP using go-mail.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// Ensure SMTPMailer implements Mailer
var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a mailer from the given configuration.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render mail template: %w", err)
	}
	return buf.String(), nil
}

// SendOTP delivers the registration passcode.
func (m *SMTPMailer) SendOTP(ctx context.Context, to, username, otp string) error {
	body, err := render(otpTemplate, map[string]string{"Username": username, "OTP": otp})
	if err != nil {
		return err
	}
	return m.send(ctx, to, fmt.Sprintf("Your code is %s", otp), body)
}

// SendExpenseOwed tells a debtor their share of a new expense.
func (m *SMTPMailer) SendExpenseOwed(ctx context.Context, to, username string, data ExpenseMail) error {
	body, err := render(expenseOwedTemplate, data)
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Transaction Alert", body)
}

// SendExpensePaid confirms a new expense to its payer.
func (m *SMTPMailer) SendExpensePaid(ctx context.Context, to, username string, data ExpenseMail) error {
	body, err := render(expensePaidTemplate, data)
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Transaction Alert", body)
}

// SendSettlementReceived tells the receiver a debt was settled to them.
func (m *SMTPMailer) SendSettlementReceived(ctx context.Context, to, username string, data ExpenseMail) error {
	body, err := render(settlementReceivedTemplate, data)
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Transaction Alert", body)
}

// SendSettlementSent confirms an outgoing settlement to its payer.
func (m *SMTPMailer) SendSettlementSent(ctx context.Context, to, username string, data ExpenseMail) error {
	body, err := render(settlementSentTemplate, data)
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Transaction Alert", body)
}

// SendGroupWelcome greets a user who just accepted a group invite.
func (m *SMTPMailer) SendGroupWelcome(ctx context.Context, to, username, groupName string) error {
	body, err := render(groupWelcomeTemplate, map[string]string{"Username": username, "GroupName": groupName})
	if err != nil {
		return err
	}
	return m.send(ctx, to, fmt.Sprintf("You joined %s", groupName), body)
}
