package envelope

import "strings"

// Payee is the other party of a transaction. Payees are created on first
// use by name, so imports and manual entry converge on the same records.
type Payee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Validate reports whether the payee is well formed.
func (p *Payee) Validate() error {
	if p.ID == "" {
		return Validationf("payee has no id")
	}
	if strings.TrimSpace(p.Name) == "" {
		return Validationf("payee %s has no name", p.ID)
	}
	return nil
}
