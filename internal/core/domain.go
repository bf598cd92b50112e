package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income      TransactionType = "income"
	Expense     TransactionType = "expense"
	Debt        TransactionType = "debt"
	DebtPayment TransactionType = "debtPayment"
)

// DefaultCurrency is assumed for transactions recorded without an explicit code.
const DefaultCurrency = "USD"

type (
	TransactionType string

	// Transaction is a single ledger entry. Amount is always the unsigned
	// magnitude; Type decides the sign at aggregation time.
	Transaction struct {
		ID       int64           `json:"id"`
		Type     TransactionType `json:"type"`
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency,omitempty"`
		Date     time.Time       `json:"date"`
		Notes    string          `json:"notes,omitempty"`

		// RecurrenceIntervalDays > 0 marks a recurring template; 0 is a one-off.
		RecurrenceIntervalDays int `json:"recurrenceIntervalDays,omitempty"`

		// IsRecurringInstance marks entries materialized from a template.
		// ParentID references the template's ID and is set iff this flag is.
		IsRecurringInstance bool  `json:"isRecurringInstance,omitempty"`
		ParentID            int64 `json:"parentId,omitempty"`
	}
)

var (
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyCategory       = errors.New("empty category")
	ErrInvalidDate         = errors.New("date cannot be zero")
	ErrNotesTooLong        = errors.New("notes too long (max 500 characters)")
	ErrInvalidRecurrence   = errors.New("recurrence interval cannot be negative")
	ErrOrphanInstance      = errors.New("recurring instance without parent id")
	ErrUnexpectedParent    = errors.New("parent id set on a non-instance transaction")
	ErrTransactionNotFound = errors.New("transaction not found")
)

func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense, Debt, DebtPayment:
		return true
	default:
		return false
	}
}

// Validate rejects malformed transactions at the boundary so the ledger
// only ever stores well-formed entries.
func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(t.Notes) > 500 {
		return ErrNotesTooLong
	}
	if t.RecurrenceIntervalDays < 0 {
		return ErrInvalidRecurrence
	}
	if t.IsRecurringInstance && t.ParentID == 0 {
		return ErrOrphanInstance
	}
	if !t.IsRecurringInstance && t.ParentID != 0 {
		return ErrUnexpectedParent
	}
	return nil
}

// IsRecurringBase reports whether this transaction is a template the
// recurrence engine should expand. Generated instances are never bases,
// which keeps instances from recurring on their own.
func (t Transaction) IsRecurringBase() bool {
	return t.RecurrenceIntervalDays > 0 && !t.IsRecurringInstance
}

// CurrencyOrDefault returns the transaction currency, defaulting to USD
// for entries recorded before multi-currency support.
func (t Transaction) CurrencyOrDefault() string {
	if t.Currency == "" {
		return DefaultCurrency
	}
	return t.Currency
}
