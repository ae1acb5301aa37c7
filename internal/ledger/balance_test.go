package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/splitapp/backend/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testUsers(ids ...string) map[string]*models.User {
	users := make(map[string]*models.User, len(ids))
	for _, id := range ids {
		users[id] = &models.User{ID: id, Username: "name-" + id}
	}
	return users
}

func expense(payer, group, amount string, splits ...models.Split) *models.Expense {
	return &models.Expense{
		Description: "dinner",
		Amount:      dec(amount),
		PayerID:     payer,
		GroupID:     group,
		SplitType:   models.SplitExact,
		Splits:      splits,
	}
}

func split(user, amount string) models.Split {
	return models.Split{UserID: user, Amount: dec(amount)}
}

func entryFor(entries []BalanceEntry, userID string) (BalanceEntry, bool) {
	for _, e := range entries {
		if e.UserID == userID {
			return e, true
		}
	}
	return BalanceEntry{}, false
}

func TestComputeUserBalance(t *testing.T) {
	users := testUsers("a", "b", "c")

	t.Run("payer is owed by debtors", func(t *testing.T) {
		records := []*models.Expense{
			expense("a", "g1", "100", split("b", "50"), split("c", "25")),
		}

		bal := ComputeUserBalance("a", records, users, DefaultThreshold)
		if len(bal.OweList) != 0 {
			t.Fatalf("expected empty owe list, got %v", bal.OweList)
		}
		if len(bal.OwedList) != 2 {
			t.Fatalf("expected 2 owed entries, got %v", bal.OwedList)
		}
		if e, ok := entryFor(bal.OwedList, "b"); !ok || e.Amount != "50.00" {
			t.Errorf("expected b to owe 50.00, got %+v", e)
		}
		if e, ok := entryFor(bal.OwedList, "c"); !ok || e.Amount != "25.00" {
			t.Errorf("expected c to owe 25.00, got %+v", e)
		}
	})

	t.Run("debtor owes payer", func(t *testing.T) {
		records := []*models.Expense{
			expense("a", "g1", "100", split("b", "50")),
		}

		bal := ComputeUserBalance("b", records, users, DefaultThreshold)
		if len(bal.OwedList) != 0 {
			t.Fatalf("expected empty owed list, got %v", bal.OwedList)
		}
		e, ok := entryFor(bal.OweList, "a")
		if !ok || e.Amount != "50.00" {
			t.Errorf("expected to owe a 50.00, got %+v", e)
		}
		if e.Username != "name-a" {
			t.Errorf("expected resolved username, got %q", e.Username)
		}
	})

	t.Run("contributions net across records", func(t *testing.T) {
		records := []*models.Expense{
			expense("a", "g1", "100", split("b", "60")),
			expense("b", "g2", "100", split("a", "40")),
		}

		bal := ComputeUserBalance("a", records, users, DefaultThreshold)
		e, ok := entryFor(bal.OwedList, "b")
		if !ok || e.Amount != "20.00" {
			t.Errorf("expected b netted to 20.00, got %+v", e)
		}
	})

	t.Run("antisymmetry between two users", func(t *testing.T) {
		records := []*models.Expense{
			expense("a", "g1", "80", split("b", "30.50")),
			expense("b", "g1", "40", split("a", "12.25")),
			expense("a", "g2", "10", split("b", "4.75")),
		}

		balA := ComputeUserBalance("a", records, users, DefaultThreshold)
		balB := ComputeUserBalance("b", records, users, DefaultThreshold)

		ea, okA := entryFor(balA.OwedList, "b")
		eb, okB := entryFor(balB.OweList, "a")
		if !okA || !okB {
			t.Fatalf("expected mirrored entries, got %+v / %+v", balA, balB)
		}
		if ea.Amount != eb.Amount {
			t.Errorf("antisymmetry violated: %s vs %s", ea.Amount, eb.Amount)
		}
	})

	t.Run("self splits never contribute", func(t *testing.T) {
		records := []*models.Expense{
			expense("a", "g1", "100", split("a", "100")),
		}

		bal := ComputeUserBalance("a", records, users, DefaultThreshold)
		if len(bal.OweList) != 0 || len(bal.OwedList) != 0 {
			t.Errorf("self split altered balance: %+v", bal)
		}
	})

	t.Run("orphaned payer excludes whole record", func(t *testing.T) {
		records := []*models.Expense{
			expense("ghost", "g1", "100", split("a", "100")),
		}

		bal := ComputeUserBalance("a", records, users, DefaultThreshold)
		if len(bal.OweList) != 0 || len(bal.OwedList) != 0 {
			t.Errorf("orphaned payer contributed: %+v", bal)
		}
	})

	t.Run("orphaned debtor excludes only that split", func(t *testing.T) {
		records := []*models.Expense{
			expense("a", "g1", "100", split("ghost", "60"), split("b", "40")),
		}

		bal := ComputeUserBalance("a", records, users, DefaultThreshold)
		if len(bal.OwedList) != 1 {
			t.Fatalf("expected single owed entry, got %v", bal.OwedList)
		}
		if bal.OwedList[0].UserID != "b" || bal.OwedList[0].Amount != "40.00" {
			t.Errorf("unexpected entry %+v", bal.OwedList[0])
		}
	})

	t.Run("unresolved counterparty name falls back to Unknown", func(t *testing.T) {
		// "b" resolves while accumulating but carries no username, as when
		// the batch lookup returns a partially hydrated account.
		partial := map[string]*models.User{
			"a": {ID: "a", Username: "name-a"},
			"b": {ID: "b"},
		}
		records := []*models.Expense{
			expense("a", "g1", "100", split("b", "50")),
		}

		bal := ComputeUserBalance("a", records, partial, DefaultThreshold)
		if len(bal.OwedList) != 1 {
			t.Fatalf("expected one entry, got %v", bal.OwedList)
		}
		if bal.OwedList[0].Username != UnknownUsername {
			t.Errorf("expected %q fallback, got %q", UnknownUsername, bal.OwedList[0].Username)
		}
	})

	t.Run("negligible amounts are dropped", func(t *testing.T) {
		records := []*models.Expense{
			expense("a", "g1", "1", split("b", "0.99")),
		}

		bal := ComputeUserBalance("a", records, users, DefaultThreshold)
		if len(bal.OwedList) != 0 {
			t.Errorf("sub-threshold amount surfaced: %+v", bal.OwedList)
		}
	})

	t.Run("amount exactly at threshold survives", func(t *testing.T) {
		records := []*models.Expense{
			expense("a", "g1", "1", split("b", "1")),
		}

		bal := ComputeUserBalance("a", records, users, DefaultThreshold)
		if len(bal.OwedList) != 1 || bal.OwedList[0].Amount != "1.00" {
			t.Errorf("threshold boundary amount dropped: %+v", bal.OwedList)
		}
	})

	t.Run("settlement zeroes out a debt", func(t *testing.T) {
		settlement := expense("b", "g1", "50", split("a", "50"))
		settlement.Description = models.SettlementDescription
		settlement.Settled = true

		records := []*models.Expense{
			expense("a", "g1", "100", split("b", "50")),
			settlement,
		}

		balA := ComputeUserBalance("a", records, users, DefaultThreshold)
		balB := ComputeUserBalance("b", records, users, DefaultThreshold)
		if len(balA.OweList)+len(balA.OwedList) != 0 {
			t.Errorf("expected zero balance for a, got %+v", balA)
		}
		if len(balB.OweList)+len(balB.OwedList) != 0 {
			t.Errorf("expected zero balance for b, got %+v", balB)
		}
	})

	t.Run("no floating point drift over many records", func(t *testing.T) {
		var records []*models.Expense
		for i := 0; i < 1000; i++ {
			records = append(records, expense("a", "g1", "0.10", split("b", "0.10")))
		}

		bal := ComputeUserBalance("a", records, users, DefaultThreshold)
		if len(bal.OwedList) != 1 || bal.OwedList[0].Amount != "100.00" {
			t.Errorf("expected exact 100.00, got %+v", bal.OwedList)
		}
	})
}
