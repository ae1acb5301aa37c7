package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/splitapp/backend/internal/models"
)

// UnknownUsername is shown for counterparties whose account no longer
// resolves. A stale reference must not fail the whole balance query.
const UnknownUsername = "Unknown"

// DefaultThreshold is the absolute amount below which a netted balance is
// considered negligible and dropped from the output. One currency unit,
// matching typical "don't nag over pennies" behavior. Configurable because
// currency granularity varies.
var DefaultThreshold = decimal.NewFromInt(1)

// BalanceEntry is one counterparty line of a balance sheet. Amount is
// always positive; which list the entry sits in carries the sign.
type BalanceEntry struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Amount   string `json:"amount"`
}

// Balance is the netted result of a user's full expense history: who owes
// them (OwedList) and whom they owe (OweList). Amounts are formatted with
// two decimal places. Order within each list follows first appearance in
// the record scan.
type Balance struct {
	OweList  []BalanceEntry `json:"oweList"`
	OwedList []BalanceEntry `json:"owedList"`
}

// ComputeUserBalance nets a user's expense and settlement records into
// pairwise debts.
//
// records must contain every expense where the user is the payer or a split
// debtor, across every group: netting is intentionally global. users maps
// known user IDs to their accounts and doubles as the resolver for display
// names; records whose payer is unknown are skipped entirely, splits whose
// debtor is unknown are skipped individually, and a self-split (debtor ==
// payer) never contributes. Contributions for the same counterparty are
// summed across records, then entries whose magnitude is below threshold
// are dropped.
func ComputeUserBalance(userID string, records []*models.Expense, users map[string]*models.User, threshold decimal.Decimal) Balance {
	// Fresh accumulation state per call; signed amount per counterparty.
	sheet := make(map[string]decimal.Decimal)
	var order []string

	add := func(counterparty string, delta decimal.Decimal) {
		if _, seen := sheet[counterparty]; !seen {
			order = append(order, counterparty)
		}
		sheet[counterparty] = sheet[counterparty].Add(delta)
	}

	for _, rec := range records {
		if _, ok := users[rec.PayerID]; !ok {
			// Orphaned payer reference: exclude the whole record.
			continue
		}
		for _, split := range rec.Splits {
			if _, ok := users[split.UserID]; !ok {
				continue
			}
			if split.UserID == rec.PayerID {
				// Self-splits are a no-op.
				continue
			}
			if rec.PayerID == userID {
				// I paid, they owe me.
				add(split.UserID, split.Amount)
			}
			if split.UserID == userID {
				// They paid, I owe them.
				add(rec.PayerID, split.Amount.Neg())
			}
		}
	}

	balance := Balance{
		OweList:  []BalanceEntry{},
		OwedList: []BalanceEntry{},
	}
	for _, counterparty := range order {
		amount := sheet[counterparty]
		if amount.Abs().LessThan(threshold) {
			continue
		}

		username := UnknownUsername
		if u, ok := users[counterparty]; ok && u.Username != "" {
			username = u.Username
		}

		entry := BalanceEntry{
			UserID:   counterparty,
			Username: username,
			Amount:   amount.Abs().StringFixed(2),
		}
		if amount.IsPositive() {
			balance.OwedList = append(balance.OwedList, entry)
		} else {
			balance.OweList = append(balance.OweList, entry)
		}
	}
	return balance
}
