package envelope

import (
	"iter"
	"slices"
	"sort"
)

// Ledger is the full in-memory state of a budget book: accounts, categories,
// payees, the transaction register, per-period allocations, targets and
// reconciliation sessions.
//
// In a Ledger transactions are always in chronological order.
type Ledger struct {
	name         string
	accounts     *Accounts
	categories   *Categories
	payees       *Payees
	transactions []*Transaction
	allocations  map[AllocationKey]*CategoryAllocation
	targets      []*BudgetTarget
	sessions     []*ReconciliationSession
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		accounts:    NewAccounts(),
		categories:  NewCategories(),
		payees:      NewPayees(),
		allocations: make(map[AllocationKey]*CategoryAllocation),
	}
}

// Name returns the book name, its file path relative to the budget
// directory without the .jsonl extension.
func (l *Ledger) Name() string { return l.name }

// SetName stamps the book name, as stores do when loading.
func (l *Ledger) SetName(name string) { l.name = name }

func (l *Ledger) Accounts() *Accounts     { return l.accounts }
func (l *Ledger) Categories() *Categories { return l.categories }
func (l *Ledger) Payees() *Payees         { return l.payees }

// Account returns the account with the given id, or nil.
func (l *Ledger) Account(id string) *Account { return l.accounts.Get(id) }

// Category returns the category with the given id, or nil.
func (l *Ledger) Category(id string) *Category { return l.categories.Get(id) }

// Payee returns the payee with the given id, or nil.
func (l *Ledger) Payee(id string) *Payee { return l.payees.Get(id) }

// Transaction returns the transaction with the given id, or nil.
func (l *Ledger) Transaction(id string) *Transaction {
	for _, tx := range l.transactions {
		if tx.ID == id {
			return tx
		}
	}
	return nil
}

// Transactions returns an iterator over transactions in chronological order.
// With no filter every transaction is yielded; with filters only those
// matching all of them are.
func (l *Ledger) Transactions(filters ...func(*Transaction) bool) iter.Seq2[int, *Transaction] {
	return func(yield func(int, *Transaction) bool) {
		for i, tx := range l.transactions {
			accept := true
			for _, filter := range filters {
				if !filter(tx) {
					accept = false
					break
				}
			}
			if !accept {
				continue
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// AddTransaction validates and appends a transaction, keeping the register
// sorted. A missing id is generated.
func (l *Ledger) AddTransaction(tx *Transaction) error {
	if tx.ID == "" {
		tx.ID = newID("txn")
	} else if l.Transaction(tx.ID) != nil {
		return Conflictf("duplicate transaction id %q", tx.ID)
	}
	if err := tx.Validate(l); err != nil {
		return err
	}
	l.transactions = append(l.transactions, tx)
	l.stableSort()
	return nil
}

// UpdateTransaction replaces the stored transaction that shares the new
// value's id. Reconciled transactions are locked and must be unlocked first.
func (l *Ledger) UpdateTransaction(tx *Transaction) error {
	i := slices.IndexFunc(l.transactions, func(t *Transaction) bool { return t.ID == tx.ID })
	if i < 0 {
		return NotFoundf("unknown transaction %q", tx.ID)
	}
	if l.transactions[i].IsLocked() {
		return Lockedf("transaction %q is reconciled, unlock it before editing", tx.ID)
	}
	if err := tx.Validate(l); err != nil {
		return err
	}
	l.transactions[i] = tx
	l.stableSort()
	return nil
}

// DeleteTransaction removes a transaction from the register. Reconciled
// transactions are locked and must be unlocked first.
func (l *Ledger) DeleteTransaction(id string) error {
	i := slices.IndexFunc(l.transactions, func(t *Transaction) bool { return t.ID == id })
	if i < 0 {
		return NotFoundf("unknown transaction %q", id)
	}
	if l.transactions[i].IsLocked() {
		return Lockedf("transaction %q is reconciled, unlock it before deleting", id)
	}
	l.transactions = slices.Delete(l.transactions, i, i+1)
	return nil
}

// SetTransactionStatus moves a transaction to the given status. Demoting a
// Reconciled transaction goes through the reconciliation engine's Unlock,
// which records why.
func (l *Ledger) SetTransactionStatus(id string, status TransactionStatus) error {
	tx := l.Transaction(id)
	if tx == nil {
		return NotFoundf("unknown transaction %q", id)
	}
	if tx.Status == Reconciled && status != Reconciled {
		return Lockedf("transaction %q is reconciled, unlock it instead", id)
	}
	tx.Status = status
	return nil
}

// stableSort sorts the register by transaction date. The sort is stable, so
// transactions on the same day keep their relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Date.Before(l.transactions[j].Date)
	})
}

// OldestTransactionDate returns the date of the earliest transaction, or the
// zero date when the register is empty.
func (l *Ledger) OldestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[0].Date
}

// NewestTransactionDate returns the date of the latest transaction, or the
// zero date when the register is empty.
func (l *Ledger) NewestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[len(l.transactions)-1].Date
}

// HasImportID reports whether a transaction carrying this import id is
// already in the register. Importers use it to skip duplicates.
func (l *Ledger) HasImportID(importID string) bool {
	if importID == "" {
		return false
	}
	for _, tx := range l.transactions {
		if tx.ImportID == importID {
			return true
		}
	}
	return false
}

// --- Allocations ---

// Allocation returns the allocation for (category, period), or nil.
func (l *Ledger) Allocation(category string, p Period) *CategoryAllocation {
	return l.allocations[AllocationKey{Category: category, Period: p}]
}

// Allocations returns the allocations recorded for a period, sorted by
// category id for stable listings.
func (l *Ledger) Allocations(p Period) []*CategoryAllocation {
	var out []*CategoryAllocation
	for _, a := range l.allocations {
		if a.Period == p {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// AllocationsThrough iterates over every allocation whose period starts on
// or before the end of p, in (period start, category) order. Cumulative
// figures such as available-to-budget build on it.
func (l *Ledger) AllocationsThrough(p Period) iter.Seq[*CategoryAllocation] {
	return func(yield func(*CategoryAllocation) bool) {
		for _, a := range l.sortedAllocations() {
			if a.Period.Start().After(p.End()) {
				continue
			}
			if !yield(a) {
				return
			}
		}
	}
}

// AllAllocations iterates over every allocation in (period start, category)
// order.
func (l *Ledger) AllAllocations() iter.Seq[*CategoryAllocation] {
	return func(yield func(*CategoryAllocation) bool) {
		for _, a := range l.sortedAllocations() {
			if !yield(a) {
				return
			}
		}
	}
}

func (l *Ledger) sortedAllocations() []*CategoryAllocation {
	out := make([]*CategoryAllocation, 0, len(l.allocations))
	for _, a := range l.allocations {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Period.Start().Compare(out[j].Period.Start()); c != 0 {
			return c < 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// SetAllocation upserts an allocation under its (category, period) key.
func (l *Ledger) SetAllocation(a *CategoryAllocation) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if !l.categories.Has(a.Category) {
		return NotFoundf("unknown category %q", a.Category)
	}
	l.allocations[a.Key()] = a
	return nil
}

// --- Targets ---

// Targets returns all targets, active first, then by category id.
func (l *Ledger) Targets() []*BudgetTarget {
	out := slices.Clone(l.targets)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Active != out[j].Active {
			return out[i].Active
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Target returns the target with the given id, or nil.
func (l *Ledger) Target(id string) *BudgetTarget {
	for _, t := range l.targets {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// TargetFor returns the active target for a category, or nil.
func (l *Ledger) TargetFor(category string) *BudgetTarget {
	for _, t := range l.targets {
		if t.Active && t.Category == category {
			return t
		}
	}
	return nil
}

// SetTarget upserts a target. A category holds at most one active target at
// a time. A target minted here starts active.
func (l *Ledger) SetTarget(t *BudgetTarget) error {
	if t.ID == "" {
		t.ID = newID("tgt")
		t.Active = true
		if t.Created.IsZero() {
			t.Created = Today()
		}
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if !l.categories.Has(t.Category) {
		return NotFoundf("unknown category %q", t.Category)
	}
	if t.Active {
		if other := l.TargetFor(t.Category); other != nil && other.ID != t.ID {
			return Conflictf("category %q already has an active target %q", t.Category, other.ID)
		}
	}
	for i, existing := range l.targets {
		if existing.ID == t.ID {
			l.targets[i] = t
			return nil
		}
	}
	l.targets = append(l.targets, t)
	return nil
}

// DropTarget deactivates a target, keeping it in the book for history.
func (l *Ledger) DropTarget(id string) error {
	t := l.Target(id)
	if t == nil {
		return NotFoundf("unknown target %q", id)
	}
	t.Active = false
	return nil
}

// --- Reconciliation sessions ---

// ActiveSession returns the in-progress reconciliation session for an
// account, or nil.
func (l *Ledger) ActiveSession(account string) *ReconciliationSession {
	for _, s := range l.sessions {
		if s.Account == account && s.State == InProgress {
			return s
		}
	}
	return nil
}

// Sessions returns all reconciliation sessions in recording order.
func (l *Ledger) Sessions() []*ReconciliationSession { return l.sessions }

// RestoreSession appends a previously recorded reconciliation session, as
// stores do when loading a book.
func (l *Ledger) RestoreSession(s *ReconciliationSession) error {
	if s.ID == "" {
		return Validationf("reconciliation session has no id")
	}
	if s.State == InProgress {
		if active := l.ActiveSession(s.Account); active != nil {
			return Conflictf("account %q already has a reconciliation in progress", s.Account)
		}
	}
	l.sessions = append(l.sessions, s)
	return nil
}

// --- Filters ---

// ByAccount filters transactions posted to the given account.
func ByAccount(id string) func(*Transaction) bool {
	return func(tx *Transaction) bool { return tx.Account == id }
}

// ByCategory filters transactions posting to the given category, either
// directly or through a split.
func ByCategory(id string) func(*Transaction) bool {
	return func(tx *Transaction) bool {
		if tx.Category == id {
			return true
		}
		for _, s := range tx.Splits {
			if s.Category == id {
				return true
			}
		}
		return false
	}
}

// ByPayee filters transactions to the given payee.
func ByPayee(id string) func(*Transaction) bool {
	return func(tx *Transaction) bool { return tx.Payee == id }
}

// ByStatus filters transactions by status.
func ByStatus(status TransactionStatus) func(*Transaction) bool {
	return func(tx *Transaction) bool { return tx.Status == status }
}

// InRange filters transactions dated within the range, bounds included.
func InRange(r Range) func(*Transaction) bool {
	return func(tx *Transaction) bool { return r.Contains(tx.Date) }
}

// InPeriod filters transactions dated within the period.
func InPeriod(p Period) func(*Transaction) bool {
	return func(tx *Transaction) bool { return p.Contains(tx.Date) }
}
