package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/splitapp/backend/internal/models"
)

// CreateExpense appends an expense (or settlement) record with its splits.
// Amounts are stored as canonical decimal strings.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, description, amount, payer_id, group_id, split_type, settled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.Amount.String(), expense.PayerID,
		expense.GroupID, string(expense.SplitType), expense.Settled, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, split := range expense.Splits {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO splits (expense_id, position, user_id, amount, percent)
			 VALUES (?, ?, ?, ?, ?)`,
			expense.ID, i, split.UserID, split.Amount.String(), split.Percent,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListExpensesByUser returns every record where the user is the payer or a
// split debtor, across all groups, newest-first.
func (s *Store) ListExpensesByUser(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT DISTINCT e.id, e.description, e.amount, e.payer_id, e.group_id, e.split_type, e.settled, e.created_at
		 FROM expenses e
		 LEFT JOIN splits sp ON sp.expense_id = e.id
		 WHERE e.payer_id = ? OR sp.user_id = ?
		 ORDER BY e.created_at DESC, e.id`,
		userID, userID,
	)
}

// ListExpensesByGroup returns the records of exactly that group, newest-first.
func (s *Store) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT id, description, amount, payer_id, group_id, split_type, settled, created_at
		 FROM expenses
		 WHERE group_id = ?
		 ORDER BY created_at DESC, id`,
		groupID,
	)
}

func (s *Store) listExpenses(ctx context.Context, query string, args ...any) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var amount, splitType string
		if err := rows.Scan(&expense.ID, &expense.Description, &amount, &expense.PayerID,
			&expense.GroupID, &splitType, &expense.Settled, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse expense amount: %w", err)
		}
		expense.SplitType = models.SplitType(splitType)
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		splits, err := s.expenseSplits(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
		expense.Splits = splits
	}
	return expenses, nil
}

func (s *Store) expenseSplits(ctx context.Context, expenseID string) ([]models.Split, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, amount, percent FROM splits WHERE expense_id = ? ORDER BY position`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []models.Split
	for rows.Next() {
		var split models.Split
		var amount string
		if err := rows.Scan(&split.UserID, &amount, &split.Percent); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		split.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse split amount: %w", err)
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	return splits, nil
}
