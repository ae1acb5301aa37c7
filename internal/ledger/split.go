// Package ledger implements the balance engine: split canonicalization and
// the netting algorithm that derives pairwise debts from the expense log.
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/splitapp/backend/internal/models"
)

var (
	// ErrNoSplits is returned when a split payload is absent or empty.
	ErrNoSplits = errors.New("split data is required")
)

// SplitInput is one raw entry of a caller-supplied split payload.
type SplitInput struct {
	UserID  string          `json:"userId"`
	Amount  decimal.Decimal `json:"amount"`
	Percent float64         `json:"percent,omitempty"`
}

// FormatSplits normalizes a raw split payload into the canonical per-member
// share records stored on an expense.
//
// Only structural problems are rejected: a missing or empty payload, or an
// entry without a debtor reference. Whether the amounts sum to the expense
// total, whether percents sum to 100, and whether the payer appears in the
// list are all the caller's responsibility and are deliberately not checked.
func FormatSplits(entries []SplitInput) ([]models.Split, error) {
	if len(entries) == 0 {
		return nil, ErrNoSplits
	}

	splits := make([]models.Split, len(entries))
	for i, e := range entries {
		if e.UserID == "" {
			return nil, fmt.Errorf("split %d: missing user reference", i)
		}
		splits[i] = models.Split{
			UserID:  e.UserID,
			Amount:  e.Amount,
			Percent: e.Percent,
		}
	}
	return splits, nil
}

// SettlementSplits builds the single-split list of a settlement record:
// the receiver owes the full settled amount back to the payer's ledger.
func SettlementSplits(receiverID string, amount decimal.Decimal) []models.Split {
	return []models.Split{{UserID: receiverID, Amount: amount}}
}
