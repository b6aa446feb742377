package envelope

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// PeriodSnapshot is one period's headline numbers in a history report.
type PeriodSnapshot struct {
	Period            Period
	Income            Money
	Budgeted          Money
	Activity          Money
	AvailableToBudget Money
	NetWorth          Money // at period end
	Overspent         int
}

// HistoryReport tracks the budget's headline numbers across consecutive
// periods, oldest first.
type HistoryReport struct {
	Periods []PeriodSnapshot
}

// NewHistory computes one snapshot per period from first through last. The
// bounds must share a period kind; custom periods have no successor and
// cannot form a history.
func (bs *BudgetSystem) NewHistory(first, last Period) (*HistoryReport, error) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.ledger.newHistory(first, last)
}

func (l *Ledger) newHistory(first, last Period) (*HistoryReport, error) {
	if first.Kind() != last.Kind() {
		return nil, Validationf("history bounds use different period kinds: %s and %s", first.Kind(), last.Kind())
	}
	if last.Before(first) {
		first, last = last, first
	}

	periods := []Period{first}
	for p := first; p.Compare(last) < 0; {
		next, err := p.Next()
		if err != nil {
			return nil, err
		}
		p = next
		periods = append(periods, p)
		if len(periods) > 1200 {
			return nil, Validationf("history span from %s to %s is too long", first, last)
		}
	}

	// Each period's snapshot only reads the ledger, so they can be
	// computed concurrently.
	report := &HistoryReport{Periods: make([]PeriodSnapshot, len(periods))}
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, p := range periods {
		g.Go(func() error {
			report.Periods[i] = l.periodSnapshot(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func (l *Ledger) periodSnapshot(p Period) PeriodSnapshot {
	s := PeriodSnapshot{
		Period:            p,
		Income:            l.Income(p),
		Budgeted:          l.TotalBudgeted(p),
		Activity:          l.TotalActivity(p),
		AvailableToBudget: l.availableToBudget(p),
		NetWorth:          l.NetWorth(p.End()),
	}
	for _, c := range l.categories.All() {
		if l.Available(c.ID, p).IsNegative() {
			s.Overspent++
		}
	}
	return s
}
