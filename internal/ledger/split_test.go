package ledger

import (
	"errors"
	"testing"
)

func TestFormatSplits(t *testing.T) {
	t.Run("canonicalizes entries in order", func(t *testing.T) {
		splits, err := FormatSplits([]SplitInput{
			{UserID: "b", Amount: dec("50"), Percent: 50},
			{UserID: "c", Amount: dec("25")},
		})
		if err != nil {
			t.Fatalf("FormatSplits failed: %v", err)
		}
		if len(splits) != 2 {
			t.Fatalf("expected 2 splits, got %d", len(splits))
		}
		if splits[0].UserID != "b" || !splits[0].Amount.Equal(dec("50")) || splits[0].Percent != 50 {
			t.Errorf("unexpected first split: %+v", splits[0])
		}
		if splits[1].UserID != "c" || !splits[1].Amount.Equal(dec("25")) {
			t.Errorf("unexpected second split: %+v", splits[1])
		}
	})

	t.Run("empty payload rejected", func(t *testing.T) {
		if _, err := FormatSplits(nil); !errors.Is(err, ErrNoSplits) {
			t.Errorf("expected ErrNoSplits, got %v", err)
		}
		if _, err := FormatSplits([]SplitInput{}); !errors.Is(err, ErrNoSplits) {
			t.Errorf("expected ErrNoSplits, got %v", err)
		}
	})

	t.Run("entry without debtor rejected", func(t *testing.T) {
		_, err := FormatSplits([]SplitInput{{Amount: dec("10")}})
		if err == nil {
			t.Error("expected structural error for missing user reference")
		}
	})

	t.Run("sums are not validated", func(t *testing.T) {
		// Amounts wildly exceeding any plausible total still pass; the
		// caller owns that contract.
		splits, err := FormatSplits([]SplitInput{
			{UserID: "b", Amount: dec("999999")},
			{UserID: "c", Amount: dec("-5")},
		})
		if err != nil {
			t.Fatalf("FormatSplits failed: %v", err)
		}
		if len(splits) != 2 {
			t.Fatalf("expected 2 splits, got %d", len(splits))
		}
	})
}

func TestSettlementSplits(t *testing.T) {
	splits := SettlementSplits("receiver", dec("50"))
	if len(splits) != 1 {
		t.Fatalf("expected exactly one split, got %d", len(splits))
	}
	if splits[0].UserID != "receiver" || !splits[0].Amount.Equal(dec("50")) {
		t.Errorf("unexpected settlement split: %+v", splits[0])
	}
	if splits[0].Percent != 0 {
		t.Errorf("settlement split should carry no percent, got %v", splits[0].Percent)
	}
}
