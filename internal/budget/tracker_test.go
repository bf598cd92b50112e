package budget

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"moneta/internal/kv/memory"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestGetRemainingFallbackChain(t *testing.T) {
	ctx := context.Background()
	tr := New(memory.New())

	// No limit, no remaining entry.
	got, err := tr.GetRemaining(ctx, "food")
	if err != nil {
		t.Fatalf("get remaining: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("got %s, want 0", got)
	}

	// Limit set, remaining initialized to it.
	if err := tr.SetLimit(ctx, "food", d(200)); err != nil {
		t.Fatalf("set limit: %v", err)
	}
	got, _ = tr.GetRemaining(ctx, "food")
	if !got.Equal(d(200)) {
		t.Fatalf("got %s, want 200", got)
	}
}

func TestSetLimitKeepsExistingRemaining(t *testing.T) {
	ctx := context.Background()
	tr := New(memory.New())

	if err := tr.SetLimit(ctx, "food", d(200)); err != nil {
		t.Fatalf("set limit: %v", err)
	}
	if _, err := tr.Deduct(ctx, "food", d(50)); err != nil {
		t.Fatalf("deduct: %v", err)
	}

	// Raising the limit must not clobber the tracked remaining amount.
	if err := tr.SetLimit(ctx, "food", d(300)); err != nil {
		t.Fatalf("set limit again: %v", err)
	}
	got, _ := tr.GetRemaining(ctx, "food")
	if !got.Equal(d(150)) {
		t.Fatalf("got %s, want 150", got)
	}
}

func TestDeductAllowsOverdraft(t *testing.T) {
	ctx := context.Background()
	tr := New(memory.New())

	if err := tr.SetLimit(ctx, "rent", d(100)); err != nil {
		t.Fatalf("set limit: %v", err)
	}
	got, err := tr.Deduct(ctx, "rent", d(130))
	if err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if !got.Equal(d(-30)) {
		t.Fatalf("got %s, want -30", got)
	}
}

func TestRestoreReversesDeduct(t *testing.T) {
	ctx := context.Background()
	tr := New(memory.New())

	if err := tr.SetLimit(ctx, "food", d(200)); err != nil {
		t.Fatalf("set limit: %v", err)
	}
	before, _ := tr.GetRemaining(ctx, "food")

	if _, err := tr.Deduct(ctx, "food", d(75)); err != nil {
		t.Fatalf("deduct: %v", err)
	}
	after, ok, err := tr.Restore(ctx, "food", d(75))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !ok {
		t.Fatal("expected restore to find a remaining entry")
	}
	if !after.Equal(before) {
		t.Fatalf("got %s, want %s", after, before)
	}
}

func TestRestoreWithoutEntryIsNoop(t *testing.T) {
	ctx := context.Background()
	tr := New(memory.New())

	_, ok, err := tr.Restore(ctx, "untracked", d(30))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for untracked category")
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	tr := New(memory.New())

	// Without a limit, reset is a no-op.
	if err := tr.Reset(ctx, "food"); err != nil {
		t.Fatalf("reset without limit: %v", err)
	}

	if err := tr.SetLimit(ctx, "food", d(200)); err != nil {
		t.Fatalf("set limit: %v", err)
	}
	if _, err := tr.Deduct(ctx, "food", d(180)); err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if err := tr.Reset(ctx, "food"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	got, _ := tr.GetRemaining(ctx, "food")
	if !got.Equal(d(200)) {
		t.Fatalf("got %s, want 200", got)
	}
}

func TestSetLimitRejectsNegative(t *testing.T) {
	tr := New(memory.New())
	if err := tr.SetLimit(context.Background(), "food", d(-1)); err != ErrNegativeLimit {
		t.Fatalf("got %v, want ErrNegativeLimit", err)
	}
}

func TestOverview(t *testing.T) {
	ctx := context.Background()
	tr := New(memory.New())

	if err := tr.SetLimit(ctx, "rent", d(1000)); err != nil {
		t.Fatalf("set limit: %v", err)
	}
	if err := tr.SetLimit(ctx, "food", d(200)); err != nil {
		t.Fatalf("set limit: %v", err)
	}
	if _, err := tr.Deduct(ctx, "food", d(50)); err != nil {
		t.Fatalf("deduct: %v", err)
	}
	// Expense against a category with no limit still creates a tracked entry.
	if _, err := tr.Deduct(ctx, "entertainment", d(25)); err != nil {
		t.Fatalf("deduct: %v", err)
	}

	out, err := tr.Overview(ctx)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d entries, want 3", len(out))
	}
	// Sorted by category: entertainment, food, rent.
	if out[0].Category != "entertainment" || !out[0].Limit.IsZero() || !out[0].Remaining.Equal(d(-25)) {
		t.Fatalf("entertainment status wrong: %+v", out[0])
	}
	if out[1].Category != "food" || !out[1].Remaining.Equal(d(150)) {
		t.Fatalf("food status wrong: %+v", out[1])
	}
	if out[2].Category != "rent" || !out[2].Remaining.Equal(d(1000)) {
		t.Fatalf("rent status wrong: %+v", out[2])
	}
}
