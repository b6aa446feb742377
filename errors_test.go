package envelope

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"validation", Validationf("bad %s", "input"), ErrValidation},
		{"insufficient funds", InsufficientFundsf("short by %s", usd("5.00")), ErrInsufficientFunds},
		{"conflict", Conflictf("duplicate id"), ErrConflict},
		{"locked", Lockedf("reconciled"), ErrLocked},
		{"unbalanced", Unbalancedf("off by %s", usd("0.01")), ErrUnbalanced},
		{"not found", NotFoundf("unknown category"), ErrNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(tc.err, tc.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false", tc.err)
			}
			for _, other := range testCases {
				if other.sentinel == tc.sentinel {
					continue
				}
				if errors.Is(tc.err, other.sentinel) {
					t.Errorf("%v also matches the %s sentinel", tc.err, other.name)
				}
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	inner := NotFoundf("unknown account %q", "nowhere")
	wrapped := fmt.Errorf("import row 3: %w", inner)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapping lost the error kind")
	}
	if wrapped.Error() != `import row 3: unknown account "nowhere"` {
		t.Errorf("message = %q", wrapped.Error())
	}
}

func TestErrorMessage(t *testing.T) {
	err := Validationf("amount %s is not positive", usd("-1.00"))
	if err.Error() != "amount -$1.00 is not positive" {
		t.Errorf("message = %q", err.Error())
	}
	// The sentinels themselves carry no message and never match each other.
	if errors.Is(ErrValidation, ErrConflict) {
		t.Error("distinct sentinels must not match")
	}
}
