package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/splitapp/backend/internal/dispatch"
	"github.com/splitapp/backend/internal/email"
	"github.com/splitapp/backend/internal/ledger"
	"github.com/splitapp/backend/internal/models"
	"github.com/splitapp/backend/internal/storage"
)

var (
	// ErrGroupRequired is returned when an expense carries no group.
	ErrGroupRequired = errors.New("expense must belong to a group")

	// ErrInvalidAmount is returned for a zero or negative expense amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidSplitType is returned for an unrecognized split type.
	ErrInvalidSplitType = errors.New("invalid split type")
)

// ExpenseService records expenses and settlements and derives balances from
// the resulting log. Records are append-only: settling a debt appends an
// offsetting settlement entry rather than mutating history.
type ExpenseService struct {
	store      storage.Store
	mailer     email.Mailer
	dispatcher *dispatch.Dispatcher
	threshold  decimal.Decimal
	logger     *slog.Logger
}

// NewExpenseService creates a new ExpenseService. Balances below threshold
// are treated as settled and dropped from balance listings.
func NewExpenseService(store storage.Store, mailer email.Mailer, dispatcher *dispatch.Dispatcher, threshold decimal.Decimal, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{
		store:      store,
		mailer:     mailer,
		dispatcher: dispatcher,
		threshold:  threshold,
		logger:     logger,
	}
}

// AddExpense validates and records a new expense, then notifies every
// participant out of band.
func (s *ExpenseService) AddExpense(ctx context.Context, description string, amount decimal.Decimal, payerID, groupID string, splitType models.SplitType, splits []ledger.SplitInput) (*models.Expense, error) {
	if groupID == "" {
		return nil, ErrGroupRequired
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !splitType.Valid() {
		return nil, ErrInvalidSplitType
	}
	formatted, err := ledger.FormatSplits(splits)
	if err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		Description: description,
		Amount:      amount,
		PayerID:     payerID,
		GroupID:     groupID,
		SplitType:   splitType,
		Splits:      formatted,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	s.logger.Info("expense added", "expense_id", expense.ID, "group_id", groupID, "amount", amount.String())

	s.notifyExpense(expense, group)
	return expense, nil
}

// notifyExpense fans out the side channels for a new expense: a confirmation
// mail to the payer, an owed mail plus in-app notification per debtor. The
// payer's own share, if present, is skipped. Failures are logged, never
// surfaced.
func (s *ExpenseService) notifyExpense(expense *models.Expense, group *models.Group) {
	ids := []string{expense.PayerID}
	for _, sp := range expense.Splits {
		ids = append(ids, sp.UserID)
	}
	expenseID := expense.ID
	payerID := expense.PayerID
	description := expense.Description
	amount := expense.Amount
	groupID := group.ID
	groupName := group.Name
	splits := expense.Splits

	s.dispatcher.Go("expense-notify", func(ctx context.Context) error {
		users, err := s.store.GetUsersByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("expense %s: resolve participants: %w", expenseID, err)
		}
		payer, ok := users[payerID]
		if !ok {
			return fmt.Errorf("expense %s: payer %s unresolved", expenseID, payerID)
		}

		m := email.ExpenseMail{
			GroupName:   groupName,
			PayerName:   payer.Username,
			Description: description,
			Amount:      amount.StringFixed(2),
		}
		if err := s.mailer.SendExpensePaid(ctx, payer.Email, payer.Username, m); err != nil {
			s.logger.Warn("payer mail failed", "expense_id", expenseID, "error", err)
		}

		var notices []*models.Notification
		for _, sp := range splits {
			if sp.UserID == payerID {
				continue
			}
			debtor, ok := users[sp.UserID]
			if !ok {
				continue
			}
			dm := m
			dm.ReceiverName = debtor.Username
			dm.Amount = sp.Amount.StringFixed(2)
			if err := s.mailer.SendExpenseOwed(ctx, debtor.Email, debtor.Username, dm); err != nil {
				s.logger.Warn("debtor mail failed", "expense_id", expenseID, "user_id", debtor.ID, "error", err)
			}
			notices = append(notices, &models.Notification{
				RecipientID: debtor.ID,
				SenderID:    payerID,
				Type:        models.NotifyExpenseAdded,
				GroupID:     groupID,
				Message:     fmt.Sprintf("%s added %q: you owe %s", payer.Username, description, sp.Amount.StringFixed(2)),
				Status:      models.StatusUnread,
			})
		}
		if err := s.store.CreateNotifications(ctx, notices); err != nil {
			return fmt.Errorf("expense %s: create notifications: %w", expenseID, err)
		}
		return nil
	})
}

// SettleDebt records a settlement: an append-only offsetting expense from
// payer to receiver, marked settled so listings can distinguish it.
func (s *ExpenseService) SettleDebt(ctx context.Context, payerID, receiverID, groupID string, amount decimal.Decimal) (*models.Expense, error) {
	if groupID == "" {
		return nil, ErrGroupRequired
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		Description: models.SettlementDescription,
		Amount:      amount,
		PayerID:     payerID,
		GroupID:     groupID,
		SplitType:   models.SplitExact,
		Splits:      ledger.SettlementSplits(receiverID, amount),
		Settled:     true,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}
	s.logger.Info("debt settled", "expense_id", expense.ID, "group_id", groupID, "amount", amount.String())

	s.notifySettlement(expense, group, receiverID)
	return expense, nil
}

func (s *ExpenseService) notifySettlement(expense *models.Expense, group *models.Group, receiverID string) {
	expenseID := expense.ID
	payerID := expense.PayerID
	amount := expense.Amount
	groupID := group.ID
	groupName := group.Name

	s.dispatcher.Go("settlement-notify", func(ctx context.Context) error {
		users, err := s.store.GetUsersByIDs(ctx, []string{payerID, receiverID})
		if err != nil {
			return fmt.Errorf("settlement %s: resolve parties: %w", expenseID, err)
		}
		payer, receiver := users[payerID], users[receiverID]
		if payer == nil || receiver == nil {
			return fmt.Errorf("settlement %s: party unresolved", expenseID)
		}

		m := email.ExpenseMail{
			GroupName:    groupName,
			PayerName:    payer.Username,
			ReceiverName: receiver.Username,
			Amount:       amount.StringFixed(2),
		}
		if err := s.mailer.SendSettlementSent(ctx, payer.Email, payer.Username, m); err != nil {
			s.logger.Warn("settlement payer mail failed", "expense_id", expenseID, "error", err)
		}
		if err := s.mailer.SendSettlementReceived(ctx, receiver.Email, receiver.Username, m); err != nil {
			s.logger.Warn("settlement receiver mail failed", "expense_id", expenseID, "error", err)
		}

		n := &models.Notification{
			RecipientID: receiverID,
			SenderID:    payerID,
			Type:        models.NotifySettlement,
			GroupID:     groupID,
			Message:     fmt.Sprintf("%s settled %s with you", payer.Username, amount.StringFixed(2)),
			Status:      models.StatusUnread,
		}
		if err := s.store.CreateNotification(ctx, n); err != nil {
			return fmt.Errorf("settlement %s: create notification: %w", expenseID, err)
		}
		return nil
	})
}

// UserBalance nets the user's whole expense log into per-counterparty debts.
func (s *ExpenseService) UserBalance(ctx context.Context, userID string) (ledger.Balance, error) {
	records, err := s.store.ListExpensesByUser(ctx, userID)
	if err != nil {
		return ledger.Balance{}, err
	}

	users, err := s.resolveParticipants(ctx, records)
	if err != nil {
		return ledger.Balance{}, err
	}
	return ledger.ComputeUserBalance(userID, records, users, s.threshold), nil
}

// ExpenseView is an expense with its references resolved to display names.
type ExpenseView struct {
	Expense   *models.Expense
	PayerName string
	GroupName string
	// SplitNames maps each debtor id in Splits to a username. Debtors whose
	// accounts no longer resolve are absent.
	SplitNames map[string]string
}

// GroupExpenses returns the records of a single group, newest-first, with
// payer and debtor usernames resolved.
func (s *ExpenseService) GroupExpenses(ctx context.Context, groupID string) ([]ExpenseView, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	users, err := s.resolveParticipants(ctx, records)
	if err != nil {
		return nil, err
	}

	views := make([]ExpenseView, 0, len(records))
	for _, rec := range records {
		views = append(views, s.view(rec, users, map[string]string{group.ID: group.Name}))
	}
	return views, nil
}

// UserHistory returns every record the user participated in, any group,
// newest-first, with group names resolved.
func (s *ExpenseService) UserHistory(ctx context.Context, userID string) ([]ExpenseView, error) {
	records, err := s.store.ListExpensesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	users, err := s.resolveParticipants(ctx, records)
	if err != nil {
		return nil, err
	}

	groupIDs := make([]string, 0, len(records))
	seen := map[string]bool{}
	for _, rec := range records {
		if rec.GroupID != "" && !seen[rec.GroupID] {
			seen[rec.GroupID] = true
			groupIDs = append(groupIDs, rec.GroupID)
		}
	}
	groups, err := s.store.GetGroupsByIDs(ctx, groupIDs)
	if err != nil {
		return nil, err
	}
	groupNames := make(map[string]string, len(groups))
	for _, g := range groups {
		groupNames[g.ID] = g.Name
	}

	views := make([]ExpenseView, 0, len(records))
	for _, rec := range records {
		views = append(views, s.view(rec, users, groupNames))
	}
	return views, nil
}

func (s *ExpenseService) view(rec *models.Expense, users map[string]*models.User, groupNames map[string]string) ExpenseView {
	v := ExpenseView{
		Expense:    rec,
		GroupName:  groupNames[rec.GroupID],
		SplitNames: make(map[string]string, len(rec.Splits)),
	}
	if u, ok := users[rec.PayerID]; ok {
		v.PayerName = u.Username
	}
	for _, sp := range rec.Splits {
		if u, ok := users[sp.UserID]; ok {
			v.SplitNames[sp.UserID] = u.Username
		}
	}
	return v
}

// resolveParticipants batch-loads every user referenced by the records as
// payer or debtor. Dangling references are simply absent from the result;
// callers decide how to render them.
func (s *ExpenseService) resolveParticipants(ctx context.Context, records []*models.Expense) (map[string]*models.User, error) {
	seen := map[string]bool{}
	var ids []string
	collect := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, rec := range records {
		collect(rec.PayerID)
		for _, sp := range rec.Splits {
			collect(sp.UserID)
		}
	}

	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve participants: %w", err)
	}
	return users, nil
}
