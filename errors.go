package envelope

import "fmt"

// Kind classifies engine failures so callers can react per class without
// string matching.
type Kind int

const (
	// KindValidation flags malformed or policy violating input.
	KindValidation Kind = iota
	// KindInsufficientFunds flags a move that exceeds the source category's
	// available balance.
	KindInsufficientFunds
	// KindConflict flags a duplicate where only one may exist, such as a
	// second in-progress reconciliation or a second active target.
	KindConflict
	// KindLocked flags a mutation attempted on a reconciled transaction
	// without unlocking it first.
	KindLocked
	// KindUnbalanced flags a reconciliation completion attempted with a
	// nonzero difference.
	KindUnbalanced
	// KindNotFound flags an unknown category, account, payee, transaction or
	// period reference.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInsufficientFunds:
		return "insufficient funds"
	case KindConflict:
		return "conflict"
	case KindLocked:
		return "locked"
	case KindUnbalanced:
		return "unbalanced"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Error is the engine's failure type. Every failing operation returns one;
// none are recovered silently. Match a class with errors.Is against the
// sentinel of the same kind.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Is matches any *Error of the same kind, so the bare sentinels below work
// as class matchers with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.msg == ""
}

// Sentinels, one per kind, for errors.Is matching.
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrLocked            = &Error{Kind: KindLocked}
	ErrUnbalanced        = &Error{Kind: KindUnbalanced}
	ErrNotFound          = &Error{Kind: KindNotFound}
)

// Validationf returns a validation error with a formatted message.
func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, msg: fmt.Sprintf(format, args...)}
}

// InsufficientFundsf returns an insufficient funds error with a formatted message.
func InsufficientFundsf(format string, args ...any) error {
	return &Error{Kind: KindInsufficientFunds, msg: fmt.Sprintf(format, args...)}
}

// Conflictf returns a conflict error with a formatted message.
func Conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, msg: fmt.Sprintf(format, args...)}
}

// Lockedf returns a locked error with a formatted message.
func Lockedf(format string, args ...any) error {
	return &Error{Kind: KindLocked, msg: fmt.Sprintf(format, args...)}
}

// Unbalancedf returns an unbalanced error with a formatted message.
func Unbalancedf(format string, args ...any) error {
	return &Error{Kind: KindUnbalanced, msg: fmt.Sprintf(format, args...)}
}

// NotFoundf returns a not found error with a formatted message.
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, msg: fmt.Sprintf(format, args...)}
}
