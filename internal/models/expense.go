package models

import "github.com/shopspring/decimal"

// SplitType describes how an expense's splits were produced by the caller.
// The value is stored for display purposes only; the ledger always trusts
// the per-split amounts as given and never re-derives them.
type SplitType string

const (
	SplitEqual      SplitType = "EQUAL"
	SplitExact      SplitType = "EXACT"
	SplitPercentage SplitType = "PERCENTAGE"
)

// Valid reports whether t is one of the known split types.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitExact, SplitPercentage:
		return true
	}
	return false
}

// SettlementDescription is the fixed description of settlement records.
const SettlementDescription = "Settlement"

// Split is one debtor's owed share of an expense.
type Split struct {
	// UserID references the debtor.
	UserID string

	// Amount is the share owed by the debtor.
	Amount decimal.Decimal

	// Percent is the share expressed as a percentage. Informational only;
	// the ledger never reads it.
	Percent float64
}

// Expense is the atomic unit of the ledger: one payment by a payer split
// among debtors within a group. Records are immutable once created.
//
// A settlement is an Expense with Description "Settlement", SplitType EXACT,
// exactly one split (the receiver's amount) and Settled set.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description is the human-readable purpose of the expense.
	Description string

	// Amount is the positive total paid by the payer.
	Amount decimal.Decimal

	// PayerID references the user who paid.
	PayerID string

	// GroupID references the owning group. Required; an expense without a
	// group is invalid.
	GroupID string

	// SplitType records how the splits were computed by the caller.
	SplitType SplitType

	// Splits are the per-debtor shares, in submission order.
	Splits []Split

	// Settled marks settlement records.
	Settled bool

	// CreatedAt is the Unix timestamp when the record was created.
	CreatedAt int64
}

// IsSettlement reports whether e is a settlement record.
func (e *Expense) IsSettlement() bool {
	return e.Settled
}
