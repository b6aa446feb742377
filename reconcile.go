package envelope

import (
	"slices"
)

// SessionState is the lifecycle state of a reconciliation session.
type SessionState int

const (
	InProgress SessionState = iota
	Completed
	Aborted
)

func (s SessionState) String() string {
	switch s {
	case InProgress:
		return "in-progress"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// ParseSessionState parses a string into a SessionState.
func ParseSessionState(s string) (SessionState, error) {
	switch s {
	case "in-progress":
		return InProgress, nil
	case "completed":
		return Completed, nil
	case "aborted":
		return Aborted, nil
	default:
		return 0, Validationf("unknown session state %q", s)
	}
}

func (s SessionState) MarshalJSON() ([]byte, error) { return jsonString(s.String()) }

func (s *SessionState) UnmarshalJSON(data []byte) error {
	str, err := jsonParseString(data)
	if err != nil {
		return err
	}
	*s, err = ParseSessionState(str)
	return err
}

// ReconciliationSession matches an account against one bank statement. At
// most one session per account is in progress at a time; completing it
// locks the matched transactions as Reconciled.
type ReconciliationSession struct {
	ID               string       `json:"id"`
	Account          string       `json:"account"`
	StatementDate    Date         `json:"statement_date"`
	StatementBalance Money        `json:"statement_balance"`
	State            SessionState `json:"state"`
	Cleared          []string     `json:"cleared,omitempty"`
	Started          Date         `json:"started,omitzero"`
	Closed           Date         `json:"closed,omitzero"`
}

func (s *ReconciliationSession) hasCleared(txID string) bool {
	return slices.Contains(s.Cleared, txID)
}

// Difference is the gap between the statement balance and the book: the
// statement balance minus the starting balance, every transaction already
// reconciled by past sessions, and the session's cleared set. Zero means
// the account matches the statement. Recomputed on every call, a toggle
// can never leave a stale figure behind.
func (s *ReconciliationSession) Difference(l *Ledger) Money {
	var booked Money
	if a := l.Accounts().Get(s.Account); a != nil && !a.StartingDate.After(s.StatementDate) {
		booked = a.StartingBalance
	}
	for _, tx := range l.Transactions(ByAccount(s.Account)) {
		if tx.Date.After(s.StatementDate) {
			break
		}
		if tx.Status == Reconciled || s.hasCleared(tx.ID) {
			booked = booked.Add(tx.Amount)
		}
	}
	return s.StatementBalance.Sub(booked)
}

// StartReconciliation opens a session for an account against a statement.
// The cleared set starts out holding the transactions already marked
// Cleared on or before the statement date.
func (bs *BudgetSystem) StartReconciliation(account string, statementDate Date, statementBalance Money) (*ReconciliationSession, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if !bs.ledger.accounts.Has(account) {
		return nil, NotFoundf("unknown account %q", account)
	}
	if s := bs.ledger.ActiveSession(account); s != nil {
		return nil, Conflictf("account %q already has a reconciliation in progress, started %s", account, s.Started)
	}

	session := &ReconciliationSession{
		ID:               newID("rec"),
		Account:          account,
		StatementDate:    statementDate,
		StatementBalance: statementBalance,
		State:            InProgress,
		Started:          Today(),
	}
	for _, tx := range bs.ledger.Transactions(ByAccount(account), ByStatus(Cleared)) {
		if tx.Date.After(statementDate) {
			break
		}
		session.Cleared = append(session.Cleared, tx.ID)
	}
	bs.ledger.sessions = append(bs.ledger.sessions, session)
	if err := bs.save(); err != nil {
		return nil, err
	}
	bs.record(ChangeEvent{
		Op:     "reconcile.start",
		Entity: "session",
		ID:     session.ID,
		After:  auditSnapshot(session),
	})
	return session, nil
}

// ToggleCleared flips a transaction in or out of the account's in-progress
// session. Toggling in marks the transaction Cleared, toggling out returns
// it to Pending. Reconciled transactions are locked.
func (bs *BudgetSystem) ToggleCleared(account, txID string) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	session := bs.ledger.ActiveSession(account)
	if session == nil {
		return NotFoundf("no reconciliation in progress for account %q", account)
	}
	tx := bs.ledger.Transaction(txID)
	if tx == nil {
		return NotFoundf("unknown transaction %q", txID)
	}
	if tx.Account != account {
		return Validationf("transaction %q belongs to account %q, not %q", txID, tx.Account, account)
	}
	if tx.Status == Reconciled {
		return Lockedf("transaction %q is already reconciled", txID)
	}
	if tx.Date.After(session.StatementDate) {
		return Validationf("transaction %q is dated after the statement (%s)", txID, session.StatementDate)
	}

	before := auditSnapshot(tx)
	if i := slices.Index(session.Cleared, txID); i >= 0 {
		session.Cleared = slices.Delete(session.Cleared, i, i+1)
		tx.Status = Pending
	} else {
		session.Cleared = append(session.Cleared, txID)
		tx.Status = Cleared
	}
	if err := bs.save(); err != nil {
		return err
	}
	bs.record(ChangeEvent{
		Op:     "reconcile.toggle",
		Entity: "transaction",
		ID:     txID,
		Before: before,
		After:  auditSnapshot(tx),
	})
	return nil
}

// CompleteReconciliation closes the account's session when the difference
// is zero, locking every cleared transaction as Reconciled. A nonzero
// difference fails; CompleteWithAdjustment writes it off instead.
func (bs *BudgetSystem) CompleteReconciliation(account string) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	session := bs.ledger.ActiveSession(account)
	if session == nil {
		return NotFoundf("no reconciliation in progress for account %q", account)
	}
	if diff := session.Difference(bs.ledger); !diff.IsZero() {
		return Unbalancedf("account %q is off by %s against the statement", account, diff)
	}
	return bs.completeLocked(session)
}

// CompleteWithAdjustment closes the session by posting one synthetic
// transaction equal to the remaining difference, categorized to the given
// category, then completing normally.
func (bs *BudgetSystem) CompleteWithAdjustment(account, category, memo string) (*Transaction, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	session := bs.ledger.ActiveSession(account)
	if session == nil {
		return nil, NotFoundf("no reconciliation in progress for account %q", account)
	}
	diff := session.Difference(bs.ledger)
	if diff.IsZero() {
		return nil, bs.completeLocked(session)
	}
	if !bs.ledger.categories.Has(category) {
		return nil, NotFoundf("unknown adjustment category %q", category)
	}
	if memo == "" {
		memo = "balance adjustment"
	}

	payee := bs.ledger.payees.FindOrCreate("Balance Adjustment")
	tx := &Transaction{
		Date:     session.StatementDate,
		Account:  account,
		Payee:    payee.ID,
		Category: category,
		Amount:   diff,
		Memo:     memo,
		Status:   Cleared,
	}
	if err := bs.ledger.AddTransaction(tx); err != nil {
		return nil, err
	}
	session.Cleared = append(session.Cleared, tx.ID)
	if err := bs.completeLocked(session); err != nil {
		return nil, err
	}
	return tx, nil
}

// completeLocked locks the cleared set and closes the session. The caller
// holds the write lock and has checked the difference.
func (bs *BudgetSystem) completeLocked(session *ReconciliationSession) error {
	before := auditSnapshot(session)
	for _, id := range session.Cleared {
		if tx := bs.ledger.Transaction(id); tx != nil {
			tx.Status = Reconciled
		}
	}
	session.State = Completed
	session.Closed = Today()
	if a := bs.ledger.accounts.Get(session.Account); a != nil {
		a.LastReconciled = session.StatementDate
		a.LastReconciledBalance = session.StatementBalance
	}
	if err := bs.save(); err != nil {
		return err
	}
	bs.record(ChangeEvent{
		Op:     "reconcile.complete",
		Entity: "session",
		ID:     session.ID,
		Before: before,
		After:  auditSnapshot(session),
	})
	return nil
}

// AbortReconciliation discards the account's in-progress session. Nothing
// is locked; status toggles made during the session remain.
func (bs *BudgetSystem) AbortReconciliation(account string) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	session := bs.ledger.ActiveSession(account)
	if session == nil {
		return NotFoundf("no reconciliation in progress for account %q", account)
	}
	before := auditSnapshot(session)
	session.State = Aborted
	session.Closed = Today()
	if err := bs.save(); err != nil {
		return err
	}
	bs.record(ChangeEvent{
		Op:     "reconcile.abort",
		Entity: "session",
		ID:     session.ID,
		Before: before,
		After:  auditSnapshot(session),
	})
	return nil
}

// Unlock demotes a Reconciled transaction back to Cleared. It is always
// permitted mechanically, but the reason is mandatory and lands in the
// audit journal; asking the user to confirm is the caller's job.
func (bs *BudgetSystem) Unlock(txID, reason string) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if reason == "" {
		return Validationf("unlocking a reconciled transaction requires a reason")
	}
	tx := bs.ledger.Transaction(txID)
	if tx == nil {
		return NotFoundf("unknown transaction %q", txID)
	}
	if tx.Status != Reconciled {
		return Validationf("transaction %q is not reconciled", txID)
	}

	before := auditSnapshot(tx)
	tx.Status = Cleared
	if err := bs.save(); err != nil {
		return err
	}
	bs.record(ChangeEvent{
		Op:     "unlock",
		Entity: "transaction",
		ID:     txID,
		Before: before,
		After:  auditSnapshot(tx),
		Reason: reason,
	})
	return nil
}

// reconciliation status helpers used by the CLI.

// SessionStatus is a point-in-time view of an in-progress session.
type SessionStatus struct {
	Session    *ReconciliationSession
	Difference Money
	ClearedSum Money
	Pending    []*Transaction // candidate transactions not yet cleared
}

// ReconciliationStatus reports where an account's in-progress session
// stands: the current difference and what remains to clear.
func (bs *BudgetSystem) ReconciliationStatus(account string) (*SessionStatus, error) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	session := bs.ledger.ActiveSession(account)
	if session == nil {
		return nil, NotFoundf("no reconciliation in progress for account %q", account)
	}
	status := &SessionStatus{
		Session:    session,
		Difference: session.Difference(bs.ledger),
	}
	for _, tx := range bs.ledger.Transactions(ByAccount(account)) {
		if tx.Date.After(session.StatementDate) {
			break
		}
		if session.hasCleared(tx.ID) {
			status.ClearedSum = status.ClearedSum.Add(tx.Amount)
			continue
		}
		if tx.Status != Reconciled {
			status.Pending = append(status.Pending, tx)
		}
	}
	return status, nil
}
