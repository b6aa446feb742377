package envelope

import (
	"fmt"
	"strings"
)

// TransactionStatus tracks a transaction through the reconciliation
// lifecycle. Only Reconciled transactions are lock protected.
type TransactionStatus int

const (
	// Pending transactions have not been seen on a bank statement yet.
	Pending TransactionStatus = iota
	// Cleared transactions matched a statement line but are not locked.
	Cleared
	// Reconciled transactions were confirmed by a completed reconciliation
	// and reject edits until explicitly unlocked.
	Reconciled
)

func (s TransactionStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case Cleared:
		return "cleared"
	case Reconciled:
		return "reconciled"
	default:
		return "unknown"
	}
}

// ParseTransactionStatus parses a string into a TransactionStatus.
func ParseTransactionStatus(s string) (TransactionStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return Pending, nil
	case "cleared":
		return Cleared, nil
	case "reconciled":
		return Reconciled, nil
	default:
		return 0, fmt.Errorf("unknown transaction status: %q", s)
	}
}

func (s TransactionStatus) MarshalJSON() ([]byte, error) { return jsonString(s.String()) }

func (s *TransactionStatus) UnmarshalJSON(b []byte) error {
	str, err := jsonParseString(b)
	if err != nil {
		return err
	}
	parsed, err := ParseTransactionStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Split assigns part of a transaction's amount to a category, so one
// purchase can hit several envelopes.
type Split struct {
	Category string `json:"category"`
	Amount   Money  `json:"amount"`
	Memo     string `json:"memo,omitempty"`
}

// Transaction is a dated, signed movement of money on an account. A negative
// amount is an outflow. An inflow with no category is income and feeds
// available-to-budget. Transfers are mirrored pairs linked by TransferID and
// never touch a category.
type Transaction struct {
	ID         string            `json:"id"`
	Date       Date              `json:"date"`
	Account    string            `json:"account"`
	Payee      string            `json:"payee,omitempty"`
	Category   string            `json:"category,omitempty"`
	Amount     Money             `json:"amount"`
	Memo       string            `json:"memo,omitempty"`
	Status     TransactionStatus `json:"status,omitzero"`
	Splits     []Split           `json:"splits,omitempty"`
	TransferID string            `json:"transfer,omitempty"`
	ImportID   string            `json:"import_id,omitempty"`
}

// IsLocked reports whether the transaction rejects mutations until unlocked.
func (t *Transaction) IsLocked() bool { return t.Status == Reconciled }

// IsTransfer reports whether the transaction is half of a transfer pair.
func (t *Transaction) IsTransfer() bool { return t.TransferID != "" }

// IsSplit reports whether the transaction spreads its amount over several
// categories.
func (t *Transaction) IsSplit() bool { return len(t.Splits) > 0 }

// IsIncome reports whether the transaction is an uncategorized inflow, the
// kind that feeds available-to-budget.
func (t *Transaction) IsIncome() bool {
	return t.Amount.IsPositive() && t.Category == "" && len(t.Splits) == 0 && !t.IsTransfer()
}

// CategoryAmounts yields the (category, amount) postings of the transaction:
// the splits when present, otherwise the single categorized amount. Income
// and transfers yield nothing.
func (t *Transaction) CategoryAmounts(yield func(category string, amount Money) bool) {
	if len(t.Splits) > 0 {
		for _, s := range t.Splits {
			if !yield(s.Category, s.Amount) {
				return
			}
		}
		return
	}
	if t.Category != "" {
		yield(t.Category, t.Amount)
	}
}

// Validate checks the transaction and applies quick fixes: a zero date
// becomes today. Referenced accounts, payees and categories must exist in
// the ledger, and split amounts must sum to the transaction amount.
func (t *Transaction) Validate(l *Ledger) error {
	if t.ID == "" {
		return Validationf("transaction has no id")
	}
	if t.Date.IsZero() {
		t.Date = Today()
	}
	if t.Account == "" {
		return Validationf("transaction %s has no account", t.ID)
	}
	if l.Account(t.Account) == nil {
		return NotFoundf("transaction %s: unknown account %q", t.ID, t.Account)
	}
	if t.Payee != "" && l.Payee(t.Payee) == nil {
		return NotFoundf("transaction %s: unknown payee %q", t.ID, t.Payee)
	}
	if t.Category != "" {
		if l.Category(t.Category) == nil {
			return NotFoundf("transaction %s: unknown category %q", t.ID, t.Category)
		}
		if len(t.Splits) > 0 {
			return Validationf("transaction %s: categorized and split at once", t.ID)
		}
	}
	if t.IsTransfer() && (t.Category != "" || len(t.Splits) > 0) {
		return Validationf("transaction %s: transfers cannot be categorized", t.ID)
	}
	if len(t.Splits) > 0 {
		var sum Money
		for i := range t.Splits {
			s := &t.Splits[i]
			if l.Category(s.Category) == nil {
				return NotFoundf("transaction %s: unknown split category %q", t.ID, s.Category)
			}
			sum = sum.Add(s.Amount)
		}
		if !sum.Equal(t.Amount) {
			return Validationf("transaction %s: splits sum to %s, want %s", t.ID, sum, t.Amount)
		}
	}
	return nil
}
