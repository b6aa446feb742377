package envelope

// CategoryStanding is one category's line in a period summary.
type CategoryStanding struct {
	Category    *Category
	CarryoverIn Money
	Budgeted    Money
	Activity    Money
	Available   Money
	Suggested   Money // from the category's active target, zero without one
}

// BudgetSummary is an at-a-glance view of one budget period.
type BudgetSummary struct {
	Period            Period
	Income            Money
	Budgeted          Money
	Activity          Money
	AvailableToBudget Money
	Rows              []CategoryStanding
	Overspent         int
}

// NewSummary computes the period summary: every category's standing plus
// the period totals.
func (bs *BudgetSystem) NewSummary(p Period) *BudgetSummary {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.ledger.newSummary(p)
}

func (l *Ledger) newSummary(p Period) *BudgetSummary {
	s := &BudgetSummary{
		Period:            p,
		Income:            l.Income(p),
		Budgeted:          l.TotalBudgeted(p),
		Activity:          l.TotalActivity(p),
		AvailableToBudget: l.availableToBudget(p),
	}
	for _, c := range l.categories.All() {
		if c.Archived {
			continue
		}
		row := CategoryStanding{
			Category: c,
			Activity: l.Activity(c.ID, p),
		}
		if a := l.Allocation(c.ID, p); a != nil {
			row.CarryoverIn = a.CarryoverIn
			row.Budgeted = a.Budgeted
		}
		row.Available = row.CarryoverIn.Add(row.Budgeted).Add(row.Activity)
		if t := l.TargetFor(c.ID); t != nil {
			row.Suggested = l.SuggestedAmount(t, p)
		}
		if row.Available.IsNegative() {
			s.Overspent++
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}
