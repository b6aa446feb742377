package envelope

import (
	"fmt"
	"sort"
	"sync"

	"github.com/phuslu/log"
)

// BudgetSystem couples a Ledger with its durable store and audit sink, and
// carries the budget engine operations: assigning money to categories,
// moving it between them, rolling leftovers into the next period and
// reconciling accounts.
//
// All its operations are safe for concurrent use: reads share the system,
// mutations take exclusive access for their whole read-modify-write, so the
// conservation and lock invariants are never observed in a torn state.
// Mutations are saved to the store before returning.
type BudgetSystem struct {
	mu     sync.RWMutex
	ledger *Ledger
	store  Store
	audit  AuditSink
}

// NewBudgetSystem creates a budget system over a ledger. A nil store keeps
// the system memory only, a nil audit sink disables the journal.
func NewBudgetSystem(ledger *Ledger, store Store, audit AuditSink) *BudgetSystem {
	if audit == nil {
		audit = NopSink{}
	}
	return &BudgetSystem{ledger: ledger, store: store, audit: audit}
}

// View runs fn with shared access to the ledger. The callback must treat
// the ledger as read only and must not retain it.
func (bs *BudgetSystem) View(fn func(l *Ledger) error) error {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return fn(bs.ledger)
}

// save writes the ledger back to the store. Mutating operations call it
// before returning so a nil error always means the change is durable.
func (bs *BudgetSystem) save() error {
	if bs.store == nil {
		return nil
	}
	if err := bs.store.Save(bs.ledger); err != nil {
		return fmt.Errorf("could not save book: %w", err)
	}
	return nil
}

// record sends a change event to the audit sink. The sink is best effort: a
// failure is logged as a warning and never undoes the mutation.
func (bs *BudgetSystem) record(e ChangeEvent) {
	if err := bs.audit.Record(e); err != nil {
		log.Warn().Err(err).Msg("audit sink failed")
	}
}

// Assign sets the budgeted amount for a category in a period. The previous
// carryover is preserved, only the budgeted figure changes.
//
// The assignment is rejected when it would push the period's available to
// budget negative, unless allowNegative is set. Deficit budgeting is a
// deliberate act, not a side effect of a typo.
func (bs *BudgetSystem) Assign(category string, p Period, amount Money, allowNegative bool) (*CategoryAllocation, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	alloc, err := bs.assignLocked(category, p, amount, allowNegative)
	if err != nil {
		return nil, err
	}
	if err := bs.save(); err != nil {
		return nil, err
	}
	return alloc, nil
}

// assignLocked carries the assignment itself. The caller holds the write
// lock and saves afterwards, so a batch of assignments persists once.
func (bs *BudgetSystem) assignLocked(category string, p Period, amount Money, allowNegative bool) (*CategoryAllocation, error) {
	if !bs.ledger.categories.Has(category) {
		return nil, NotFoundf("unknown category %q", category)
	}
	if amount.IsNegative() && !allowNegative {
		return nil, Validationf("assigning %s to %q needs the negative override", amount, category)
	}

	existing := bs.ledger.Allocation(category, p)
	var oldBudgeted Money
	if existing != nil {
		oldBudgeted = existing.Budgeted
	}
	atb := bs.ledger.availableToBudget(p)
	newATB := atb.Sub(amount.Sub(oldBudgeted))
	if newATB.IsNegative() && !allowNegative {
		return nil, Validationf("assigning %s to %q leaves %s available to budget, use the override for deficit budgeting", amount, category, newATB)
	}

	before := auditSnapshot(existing)
	alloc := &CategoryAllocation{Category: category, Period: p, Budgeted: amount}
	if existing != nil {
		alloc.CarryoverIn = existing.CarryoverIn
		alloc.Notes = existing.Notes
	}
	if err := bs.ledger.SetAllocation(alloc); err != nil {
		return nil, err
	}
	bs.record(ChangeEvent{
		Op:     "assign",
		Entity: "allocation",
		ID:     fmt.Sprintf("%s@%s", category, p),
		Before: before,
		After:  auditSnapshot(alloc),
	})
	return alloc, nil
}

// MoveFunds moves amount from one category's available balance to another
// within a period. The move fails when the source does not hold that much,
// and conserves the period total: what one envelope loses the other gains.
func (bs *BudgetSystem) MoveFunds(from, to string, amount Money, p Period) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if !amount.IsPositive() {
		return Validationf("move amount must be positive, got %s", amount)
	}
	if from == to {
		return Validationf("cannot move funds from a category to itself")
	}
	if !bs.ledger.categories.Has(from) {
		return NotFoundf("unknown category %q", from)
	}
	if !bs.ledger.categories.Has(to) {
		return NotFoundf("unknown category %q", to)
	}
	available := bs.ledger.Available(from, p)
	if available.LessThan(amount) {
		return InsufficientFundsf("category %q has %s available, cannot move %s", from, available, amount)
	}

	src := bs.ledger.Allocation(from, p)
	dst := bs.ledger.Allocation(to, p)
	before := auditSnapshot([]*CategoryAllocation{src, dst})
	if src == nil {
		src = &CategoryAllocation{Category: from, Period: p}
	}
	if dst == nil {
		dst = &CategoryAllocation{Category: to, Period: p}
	}
	src.Budgeted = src.Budgeted.Sub(amount)
	dst.Budgeted = dst.Budgeted.Add(amount)
	if err := bs.ledger.SetAllocation(src); err != nil {
		return err
	}
	if err := bs.ledger.SetAllocation(dst); err != nil {
		return err
	}
	if err := bs.save(); err != nil {
		return err
	}
	bs.record(ChangeEvent{
		Op:     "move",
		Entity: "allocation",
		ID:     fmt.Sprintf("%s>%s@%s", from, to, p),
		Before: before,
		After:  auditSnapshot([]*CategoryAllocation{src, dst}),
	})
	return nil
}

// AvailableToBudget returns the money not yet assigned to any category as
// of a period: cumulative income through the period's end minus everything
// budgeted through it.
func (bs *BudgetSystem) AvailableToBudget(p Period) Money {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.ledger.availableToBudget(p)
}

func (l *Ledger) availableToBudget(p Period) Money {
	income := l.CumulativeIncome(p.End())
	var budgeted Money
	for a := range l.AllocationsThrough(p) {
		budgeted = budgeted.Add(a.Budgeted)
	}
	return income.Sub(budgeted)
}

// ApplyRollover carries every category's leftover (or deficit) from one
// period into the next: carryover-in of the target period is set to the
// source period's available, never accumulated, so reapplying after a
// correction converges instead of double counting.
func (bs *BudgetSystem) ApplyRollover(from, to Period) ([]*CategoryAllocation, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if from.Kind() != to.Kind() {
		return nil, Validationf("cannot roll a %s period into a %s period", from.Kind(), to.Kind())
	}
	if !to.Start().After(from.End()) {
		return nil, Validationf("rollover must target a later period, got %s into %s", from, to)
	}

	var touched []*CategoryAllocation
	for _, c := range bs.ledger.categories.All() {
		available := bs.ledger.Available(c.ID, from)
		existing := bs.ledger.Allocation(c.ID, to)
		if existing == nil && available.IsZero() {
			continue
		}
		alloc := existing
		if alloc == nil {
			alloc = &CategoryAllocation{Category: c.ID, Period: to}
		}
		if existing != nil && alloc.CarryoverIn.Equal(available) {
			continue
		}
		alloc.CarryoverIn = available
		if err := bs.ledger.SetAllocation(alloc); err != nil {
			return touched, err
		}
		touched = append(touched, alloc)
	}
	if len(touched) == 0 {
		return nil, nil
	}
	if err := bs.save(); err != nil {
		return touched, err
	}
	bs.record(ChangeEvent{
		Op:     "rollover",
		Entity: "period",
		ID:     to.String(),
		After:  auditSnapshot(map[string]any{"from": from.String(), "categories": len(touched)}),
	})
	return touched, nil
}

// Overspend reports a category whose available went negative for a period.
// Overspending is a normal, reportable state, not a failure.
type Overspend struct {
	Category  string
	Available Money
}

// OverspentCategories returns the categories whose available is negative in
// a period, sorted by category id.
func (bs *BudgetSystem) OverspentCategories(p Period) []Overspend {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	var out []Overspend
	for _, c := range bs.ledger.categories.All() {
		if available := bs.ledger.Available(c.ID, p); available.IsNegative() {
			out = append(out, Overspend{Category: c.ID, Available: available})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// CreateAccount validates and adds an account to the book. A missing id is
// generated.
func (bs *BudgetSystem) CreateAccount(a *Account) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if a.ID == "" {
		a.ID = newID("act")
	}
	if a.StartingDate.IsZero() {
		a.StartingDate = Today()
	}
	if err := a.Validate(); err != nil {
		return err
	}
	if err := bs.ledger.accounts.Add(a); err != nil {
		return err
	}
	if err := bs.save(); err != nil {
		return err
	}
	bs.record(ChangeEvent{Op: "account.create", Entity: "account", ID: a.ID, After: auditSnapshot(a)})
	return nil
}

// CreateCategory validates and adds a category to the book.
func (bs *BudgetSystem) CreateCategory(c *Category) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if c.ID == "" {
		c.ID = newID("cat")
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := bs.ledger.categories.Add(c); err != nil {
		return err
	}
	if err := bs.save(); err != nil {
		return err
	}
	bs.record(ChangeEvent{Op: "category.create", Entity: "category", ID: c.ID, After: auditSnapshot(c)})
	return nil
}

// CreatePayee validates and adds a payee to the book.
func (bs *BudgetSystem) CreatePayee(p *Payee) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if p.ID == "" {
		p.ID = newID("pay")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := bs.ledger.payees.Add(p); err != nil {
		return err
	}
	if err := bs.save(); err != nil {
		return err
	}
	bs.record(ChangeEvent{Op: "payee.create", Entity: "payee", ID: p.ID, After: auditSnapshot(p)})
	return nil
}

// AddTransaction validates and posts a transaction to the register.
func (bs *BudgetSystem) AddTransaction(tx *Transaction) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if err := bs.ledger.AddTransaction(tx); err != nil {
		return err
	}
	if err := bs.save(); err != nil {
		return err
	}
	bs.record(ChangeEvent{Op: "transaction.add", Entity: "transaction", ID: tx.ID, After: auditSnapshot(tx)})
	return nil
}

// AddTransfer posts the two linked halves of a transfer between accounts.
// Neither half touches a category: a transfer moves money between pockets,
// not out of the budget.
func (bs *BudgetSystem) AddTransfer(on Date, from, to string, amount Money, memo string) (*Transaction, *Transaction, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if !amount.IsPositive() {
		return nil, nil, Validationf("transfer amount must be positive, got %s", amount)
	}
	if from == to {
		return nil, nil, Validationf("cannot transfer from an account to itself")
	}
	transferID := newID("tfr")
	out := &Transaction{Date: on, Account: from, Amount: amount.Neg(), Memo: memo, TransferID: transferID}
	in := &Transaction{Date: on, Account: to, Amount: amount, Memo: memo, TransferID: transferID}
	if err := bs.ledger.AddTransaction(out); err != nil {
		return nil, nil, err
	}
	if err := bs.ledger.AddTransaction(in); err != nil {
		// The first half went in, take it back out.
		bs.ledger.DeleteTransaction(out.ID)
		return nil, nil, err
	}
	if err := bs.save(); err != nil {
		return nil, nil, err
	}
	bs.record(ChangeEvent{Op: "transaction.transfer", Entity: "transaction", ID: transferID,
		After: auditSnapshot([]*Transaction{out, in})})
	return out, in, nil
}

// UpdateTransaction replaces a transaction. Reconciled transactions must be
// unlocked first.
func (bs *BudgetSystem) UpdateTransaction(tx *Transaction) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	before := auditSnapshot(bs.ledger.Transaction(tx.ID))
	if err := bs.ledger.UpdateTransaction(tx); err != nil {
		return err
	}
	if err := bs.save(); err != nil {
		return err
	}
	bs.record(ChangeEvent{Op: "transaction.edit", Entity: "transaction", ID: tx.ID, Before: before, After: auditSnapshot(tx)})
	return nil
}

// DeleteTransaction removes a transaction. Reconciled transactions must be
// unlocked first.
func (bs *BudgetSystem) DeleteTransaction(id string) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	before := auditSnapshot(bs.ledger.Transaction(id))
	if err := bs.ledger.DeleteTransaction(id); err != nil {
		return err
	}
	if err := bs.save(); err != nil {
		return err
	}
	bs.record(ChangeEvent{Op: "transaction.delete", Entity: "transaction", ID: id, Before: before})
	return nil
}

// SetStatus moves a transaction between Pending and Cleared. Reconciled is
// reached through a completed reconciliation, left through Unlock.
func (bs *BudgetSystem) SetStatus(id string, status TransactionStatus) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if status == Reconciled {
		return Validationf("transactions become reconciled by completing a reconciliation")
	}
	before := auditSnapshot(bs.ledger.Transaction(id))
	if err := bs.ledger.SetTransactionStatus(id, status); err != nil {
		return err
	}
	if err := bs.save(); err != nil {
		return err
	}
	bs.record(ChangeEvent{Op: "transaction.status", Entity: "transaction", ID: id, Before: before,
		After: auditSnapshot(bs.ledger.Transaction(id))})
	return nil
}

