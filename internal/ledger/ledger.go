package ledger

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNonPositiveAmount occurs when an entry amount is zero or negative.
	ErrNonPositiveAmount = errors.New("ledger amount must be positive")

	// ErrMissingLedgerAccount indicates a credit or debit ledger account id was not provided.
	ErrMissingLedgerAccount = errors.New("ledger account id is required")

	// ErrUnbalanced indicates credits and debits of a transaction do not net to zero.
	ErrUnbalanced = errors.New("ledger transaction is unbalanced")
)

const (
	// DirectionCredit increases a credit-normal ledger account.
	DirectionCredit = "credit"
	// DirectionDebit increases a debit-normal ledger account.
	DirectionDebit = "debit"

	// StatusPending keeps the transaction provisional until the payment order settles.
	StatusPending = "pending"
	// StatusPosted marks an immutable, settled transaction.
	StatusPosted = "posted"
)

// Entry is one side of a ledger transaction. Amounts are in the minor unit.
type Entry struct {
	Amount          int64  `json:"amount"`
	Direction       string `json:"direction"`
	LedgerAccountID string `json:"ledger_account_id"`
}

// Transaction is a set of entries recorded together against ledger accounts.
type Transaction struct {
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status"`
	Entries     []Entry `json:"ledger_entries"`
}

// NewBalancedTransaction builds a pending transaction moving amount from the
// debit ledger account to the credit ledger account: one credit entry followed
// by one debit entry of the same amount.
func NewBalancedTransaction(description string, amount int64, creditAccountID, debitAccountID string) (Transaction, error) {
	if amount <= 0 {
		return Transaction{}, ErrNonPositiveAmount
	}
	if strings.TrimSpace(creditAccountID) == "" || strings.TrimSpace(debitAccountID) == "" {
		return Transaction{}, ErrMissingLedgerAccount
	}

	tx := Transaction{
		Description: description,
		Status:      StatusPending,
		Entries: []Entry{
			{Amount: amount, Direction: DirectionCredit, LedgerAccountID: creditAccountID},
			{Amount: amount, Direction: DirectionDebit, LedgerAccountID: debitAccountID},
		},
	}
	return tx, tx.Validate()
}

// Validate checks every entry is well formed and that credits equal debits.
func (t Transaction) Validate() error {
	var credits, debits int64
	for i, e := range t.Entries {
		if e.Amount <= 0 {
			return fmt.Errorf("entry %d: %w", i, ErrNonPositiveAmount)
		}
		if e.LedgerAccountID == "" {
			return fmt.Errorf("entry %d: %w", i, ErrMissingLedgerAccount)
		}
		switch e.Direction {
		case DirectionCredit:
			credits += e.Amount
		case DirectionDebit:
			debits += e.Amount
		default:
			return fmt.Errorf("entry %d: unknown direction %q", i, e.Direction)
		}
	}
	if credits != debits || credits == 0 {
		return fmt.Errorf("%w: credits=%d debits=%d", ErrUnbalanced, credits, debits)
	}
	return nil
}
