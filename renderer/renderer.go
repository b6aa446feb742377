// Package renderer turns budget reports into markdown and charts. The
// markdown is plain, so it reads fine in a file, in a terminal through
// glamour, or in a test's golden string.
package renderer

import (
	envelope "github.com/KayleeBeyene/EnvelopeCLI"
)

// amountCell formats a money cell, leaving zero amounts blank to keep
// tables readable.
func amountCell(m envelope.Money) string {
	if m.IsZero() {
		return ""
	}
	return m.String()
}

// signedCell is amountCell with an explicit sign on positive amounts.
func signedCell(m envelope.Money) string {
	if m.IsZero() {
		return ""
	}
	return m.SignedString()
}
