package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validTransaction() Transaction {
	return Transaction{
		ID:       1,
		Type:     Expense,
		Category: "food",
		Amount:   decimal.NewFromInt(50),
		Date:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validTransaction().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"unknown type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{"blank category", func(tx *Transaction) { tx.Category = "  " }, ErrEmptyCategory},
		{"zero amount", func(tx *Transaction) { tx.Amount = decimal.Zero }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-5) }, ErrInvalidAmount},
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }, ErrInvalidDate},
		{"negative recurrence", func(tx *Transaction) { tx.RecurrenceIntervalDays = -1 }, ErrInvalidRecurrence},
		{"instance without parent", func(tx *Transaction) { tx.IsRecurringInstance = true }, ErrOrphanInstance},
		{"parent on non-instance", func(tx *Transaction) { tx.ParentID = 7 }, ErrUnexpectedParent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validTransaction()
			tc.mutate(&tx)
			if err := tx.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestIsRecurringBase(t *testing.T) {
	cases := []struct {
		name     string
		interval int
		instance bool
		parent   int64
		want     bool
	}{
		{"one-off", 0, false, 0, false},
		{"template", 7, false, 0, true},
		{"generated instance", 7, true, 3, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validTransaction()
			tx.RecurrenceIntervalDays = tc.interval
			tx.IsRecurringInstance = tc.instance
			tx.ParentID = tc.parent
			if got := tx.IsRecurringBase(); got != tc.want {
				t.Fatalf("IsRecurringBase() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNextIDStrictlyIncreasing(t *testing.T) {
	prev := NextID()
	for i := 0; i < 1000; i++ {
		id := NextID()
		if id <= prev {
			t.Fatalf("id %d not greater than previous %d", id, prev)
		}
		prev = id
	}
}

func TestCategoryName(t *testing.T) {
	if got := CategoryName(Expense, "food"); got != "Food" {
		t.Fatalf("got %q, want Food", got)
	}
	// Unknown categories fall back to the raw id.
	if got := CategoryName(Expense, "crypto"); got != "crypto" {
		t.Fatalf("got %q, want crypto", got)
	}
}

func TestCategoriesForIsACopy(t *testing.T) {
	a := CategoriesFor(Income)
	if len(a) == 0 {
		t.Fatal("expected income categories")
	}
	a[0].Name = "mutated"
	if b := CategoriesFor(Income); b[0].Name == "mutated" {
		t.Fatal("CategoriesFor must not expose the backing catalog")
	}
}
