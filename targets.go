package envelope

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// SuggestedAmount computes how much a target asks to be budgeted in a
// period. For recurring cadences it is the cadence amount converted to the
// period's span. Date targets spread what is still missing evenly over the
// periods left before the due date.
func (l *Ledger) SuggestedAmount(t *BudgetTarget, p Period) Money {
	if t == nil || !t.Active {
		return Money{}
	}
	if t.Cadence.Kind() != CadenceByDate {
		return ConvertCadence(t.Amount, t.Cadence, p)
	}

	paid := l.PaidBefore(t.Category, p.Start())
	remaining := t.Amount.Sub(paid)
	if !remaining.IsPositive() {
		return Money{}
	}
	n := periodsUntil(p, t.Cadence.Due())
	if n <= 0 {
		// Past due: the whole residual is due now.
		return remaining
	}
	return quantizeCeil(remaining.Decimal().Div(decimal.NewFromInt(int64(n))))
}

// periodsUntil counts the periods from p up to and including the one
// containing due. Zero means due fell before p started; custom periods have
// no successor, so a due date inside or after the period counts as one.
func periodsUntil(p Period, due Date) int {
	if due.Before(p.Start()) {
		return 0
	}
	if p.Contains(due) {
		return 1
	}
	if p.Kind() == Custom {
		return 1
	}
	n := 1
	for q := p; !q.Contains(due); q, _ = q.Next() {
		n++
		if n > 1200 {
			// A due date a century out is a typo, stop counting.
			return n
		}
	}
	return n
}

// Progress describes how far along a target is as of a period. Paid money
// is the authoritative signal; budgeted-but-unspent money only shows up in
// the preview.
type Progress struct {
	Target     *BudgetTarget
	Paid       Money   // outflows through the preceding period
	Budgeted   Money   // budgeted through the period
	Amount     Money   // paid, falling back to budgeted before any payment
	Preview    Money   // paid plus budgeted-but-unpaid, never double counted
	Pct        Percent // Amount over the target amount, unclamped
	PreviewPct Percent // Preview over the target amount, unclamped
	Suggested  Money
}

// TargetProgress computes a target's progress as of a period.
func (l *Ledger) TargetProgress(t *BudgetTarget, p Period) Progress {
	paid := l.PaidBefore(t.Category, p.Start())
	budgeted := l.BudgetedThrough(t.Category, p)

	amount := paid
	if !paid.IsPositive() {
		amount = budgeted
	}
	unpaid := budgeted.Sub(paid)
	if unpaid.IsNegative() {
		unpaid = Money{}
	}
	return Progress{
		Target:     t,
		Paid:       paid,
		Budgeted:   budgeted,
		Amount:     amount,
		Preview:    paid.Add(unpaid),
		Pct:        Ratio(amount, t.Amount),
		PreviewPct: Ratio(paid.Add(unpaid), t.Amount),
		Suggested:  l.SuggestedAmount(t, p),
	}
}

// SetTarget records a target for a category. The category's previous
// active target, if any, is deactivated rather than deleted, so past
// suggestions stay explainable.
func (bs *BudgetSystem) SetTarget(t *BudgetTarget) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	var replaced *BudgetTarget
	var replacedBefore string
	if other := bs.ledger.TargetFor(t.Category); other != nil && other.ID != t.ID {
		replaced = other
		replacedBefore = auditSnapshot(other)
		other.Active = false
	}
	before := auditSnapshot(bs.ledger.Target(t.ID))
	if err := bs.ledger.SetTarget(t); err != nil {
		if replaced != nil {
			replaced.Active = true
		}
		return err
	}
	if err := bs.save(); err != nil {
		return err
	}
	if replaced != nil {
		bs.record(ChangeEvent{
			Op:     "target.drop",
			Entity: "target",
			ID:     replaced.ID,
			Before: replacedBefore,
			After:  auditSnapshot(replaced),
		})
	}
	bs.record(ChangeEvent{
		Op:     "target.set",
		Entity: "target",
		ID:     t.ID,
		Before: before,
		After:  auditSnapshot(t),
	})
	return nil
}

// DropTarget deactivates a target.
func (bs *BudgetSystem) DropTarget(id string) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	before := auditSnapshot(bs.ledger.Target(id))
	if err := bs.ledger.DropTarget(id); err != nil {
		return err
	}
	if err := bs.save(); err != nil {
		return err
	}
	bs.record(ChangeEvent{
		Op:     "target.drop",
		Entity: "target",
		ID:     id,
		Before: before,
		After:  auditSnapshot(bs.ledger.Target(id)),
	})
	return nil
}

// AutoFill assigns a category's suggested target amount for the period and
// returns the resulting allocation.
func (bs *BudgetSystem) AutoFill(category string, p Period, allowNegative bool) (*CategoryAllocation, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	t := bs.ledger.TargetFor(category)
	if t == nil {
		return nil, NotFoundf("category %q has no active target", category)
	}
	alloc, err := bs.assignLocked(category, p, bs.ledger.SuggestedAmount(t, p), allowNegative)
	if err != nil {
		return nil, err
	}
	if err := bs.save(); err != nil {
		return nil, err
	}
	return alloc, nil
}

// AutoFillAll assigns every active target's suggested amount for the
// period. A failing category does not undo the ones already assigned: the
// returned allocations are what succeeded, the error joins what did not.
func (bs *BudgetSystem) AutoFillAll(p Period, allowNegative bool) ([]*CategoryAllocation, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	var allocs []*CategoryAllocation
	var errs error
	for _, t := range bs.ledger.Targets() {
		if !t.Active {
			continue
		}
		alloc, err := bs.assignLocked(t.Category, p, bs.ledger.SuggestedAmount(t, p), allowNegative)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("category %q: %w", t.Category, err))
			continue
		}
		allocs = append(allocs, alloc)
	}
	if err := bs.save(); err != nil {
		return allocs, errors.Join(errs, err)
	}
	return allocs, errs
}
