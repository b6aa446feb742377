package envelope

import (
	"fmt"
	"strings"
)

// AccountKind classifies an account for display and defaults.
type AccountKind int

const (
	Checking AccountKind = iota
	Savings
	Cash
	Credit
)

func (k AccountKind) String() string {
	switch k {
	case Checking:
		return "checking"
	case Savings:
		return "savings"
	case Cash:
		return "cash"
	case Credit:
		return "credit"
	default:
		return "unknown"
	}
}

// ParseAccountKind parses a string into an AccountKind.
func ParseAccountKind(s string) (AccountKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "checking":
		return Checking, nil
	case "savings":
		return Savings, nil
	case "cash":
		return Cash, nil
	case "credit":
		return Credit, nil
	default:
		return 0, fmt.Errorf("unknown account kind: %q", s)
	}
}

func (k AccountKind) MarshalJSON() ([]byte, error) { return jsonString(k.String()) }

func (k *AccountKind) UnmarshalJSON(b []byte) error {
	s, err := jsonParseString(b)
	if err != nil {
		return err
	}
	parsed, err := ParseAccountKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Account is a real world money container that transactions post to.
// OnBudget separates budget accounts from tracking accounts (a mortgage, a
// brokerage) in net worth and listing views; it does not affect balances.
type Account struct {
	ID                    string      `json:"id"`
	Name                  string      `json:"name"`
	Kind                  AccountKind `json:"account_kind"`
	OnBudget              bool        `json:"on_budget"`
	StartingBalance       Money       `json:"starting_balance"`
	StartingDate          Date        `json:"starting_date"`
	LastReconciled        Date        `json:"last_reconciled,omitzero"`
	LastReconciledBalance Money       `json:"last_reconciled_balance,omitzero"`
	Archived              bool        `json:"archived,omitempty"`
}

// Validate reports whether the account is well formed.
func (a *Account) Validate() error {
	if a.ID == "" {
		return Validationf("account has no id")
	}
	if strings.TrimSpace(a.Name) == "" {
		return Validationf("account %s has no name", a.ID)
	}
	if a.StartingDate.IsZero() {
		return Validationf("account %q has no starting date", a.Name)
	}
	return nil
}
