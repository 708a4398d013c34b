package satstack

import (
	"errors"
	"testing"
	"time"
)

func TestLedger_Add(t *testing.T) {
	ledger := NewLedger()

	tx, err := ledger.Add(buy("", day(2023, time.January, 1), 1, 100))
	if err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}
	if tx.ID == "" {
		t.Error("Add() did not assign an id")
	}
	if got, ok := ledger.Get(tx.ID); !ok || !got.Equal(tx) {
		t.Errorf("Get(%q) = %v, %v, want the added transaction", tx.ID, got, ok)
	}

	if _, err := ledger.Add(buy(tx.ID, day(2023, time.January, 2), 1, 100)); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Add() with a duplicate id error = %v, want %v", err, ErrDuplicateID)
	}
	if _, err := ledger.Add(buy("x", day(2023, time.January, 2), -1, 100)); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Add() with a negative amount error = %v, want %v", err, ErrInvalidAmount)
	}
	if ledger.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ledger.Len())
	}
}

func TestLedger_UpdateRemove(t *testing.T) {
	ledger := NewLedger()
	for _, tx := range []Transaction{
		buy("a", day(2023, time.January, 1), 1, 100),
		buy("b", day(2024, time.January, 1), 1, 200),
		sell("c", day(2025, time.January, 1), 1, 300),
	} {
		if _, err := ledger.Add(tx); err != nil {
			t.Fatalf("Add(%q) unexpected error: %v", tx.ID, err)
		}
	}

	updated := buy("b", day(2024, time.February, 1), 2, 400)
	if err := ledger.Update(updated); err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if got, _ := ledger.Get("b"); !got.Equal(updated) {
		t.Errorf("Get(b) after Update() = %v, want %v", got, updated)
	}
	if err := ledger.Update(buy("zz", day(2024, time.February, 1), 2, 400)); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("Update() of an unknown id error = %v, want %v", err, ErrTransactionNotFound)
	}

	if err := ledger.Remove("a"); err != nil {
		t.Fatalf("Remove() unexpected error: %v", err)
	}
	if err := ledger.Remove("a"); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("Remove() twice error = %v, want %v", err, ErrTransactionNotFound)
	}
	list := ledger.List()
	if len(list) != 2 || list[0].ID != "b" || list[1].ID != "c" {
		t.Errorf("List() after Remove() = %v, want [b c]", list)
	}
	if got, ok := ledger.Get("c"); !ok || got.ID != "c" {
		t.Errorf("Get(c) after Remove() = %v, %v", got, ok)
	}

	years := ledger.Years()
	if len(years) != 2 || years[0] != 2024 || years[1] != 2025 {
		t.Errorf("Years() = %v, want [2024 2025]", years)
	}

	// List returns a copy.
	list[0].ID = "mutated"
	if got, _ := ledger.Get("b"); got.ID != "b" {
		t.Error("List() exposes the ledger storage")
	}
}
