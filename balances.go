package envelope

// Derived balances. Nothing here is stored: every figure is recomputed from
// the register and the allocation table, so a mutation can never leave a
// stale cached value behind.

// AccountBalance computes an account's balance on a date, starting balance
// included once the account's starting date is reached.
func (l *Ledger) AccountBalance(account string, on Date) Money {
	var balance Money
	if a := l.accounts.Get(account); a != nil && !a.StartingDate.After(on) {
		balance = a.StartingBalance
	}
	for _, tx := range l.transactions {
		if tx.Date.After(on) {
			// The register is sorted by date, so it's safe to break.
			break
		}
		if tx.Account == account {
			balance = balance.Add(tx.Amount)
		}
	}
	return balance
}

// ClearedBalance computes an account's balance on a date counting only
// Cleared and Reconciled transactions, starting balance included.
func (l *Ledger) ClearedBalance(account string, on Date) Money {
	var balance Money
	if a := l.accounts.Get(account); a != nil && !a.StartingDate.After(on) {
		balance = a.StartingBalance
	}
	for _, tx := range l.transactions {
		if tx.Date.After(on) {
			break
		}
		if tx.Account == account && tx.Status != Pending {
			balance = balance.Add(tx.Amount)
		}
	}
	return balance
}

// ReconciledBalance computes an account's balance counting only Reconciled
// transactions, starting balance included.
func (l *Ledger) ReconciledBalance(account string) Money {
	var balance Money
	if a := l.accounts.Get(account); a != nil {
		balance = a.StartingBalance
	}
	for _, tx := range l.transactions {
		if tx.Account == account && tx.Status == Reconciled {
			balance = balance.Add(tx.Amount)
		}
	}
	return balance
}

// Activity sums the signed amounts posted to a category within a period.
// Outflows are negative, refunds positive.
func (l *Ledger) Activity(category string, p Period) Money {
	var total Money
	for _, tx := range l.transactions {
		if tx.Date.After(p.End()) {
			break
		}
		if !p.Contains(tx.Date) {
			continue
		}
		tx.CategoryAmounts(func(cat string, amount Money) bool {
			if cat == category {
				total = total.Add(amount)
			}
			return true
		})
	}
	return total
}

// PaidBefore sums the absolute outflows posted to a category strictly
// before a date. Target progress treats this as the authoritative signal.
func (l *Ledger) PaidBefore(category string, cutoff Date) Money {
	var total Money
	for _, tx := range l.transactions {
		if !tx.Date.Before(cutoff) {
			break
		}
		tx.CategoryAmounts(func(cat string, amount Money) bool {
			if cat == category && amount.IsNegative() {
				total = total.Add(amount.Neg())
			}
			return true
		})
	}
	return total
}

// BudgetedThrough sums a category's budgeted amounts over every period
// starting on or before the end of p.
func (l *Ledger) BudgetedThrough(category string, p Period) Money {
	var total Money
	for a := range l.AllocationsThrough(p) {
		if a.Category == category {
			total = total.Add(a.Budgeted)
		}
	}
	return total
}

// Income sums income transactions dated within a period.
func (l *Ledger) Income(p Period) Money {
	var total Money
	for _, tx := range l.transactions {
		if tx.Date.After(p.End()) {
			break
		}
		if p.Contains(tx.Date) && tx.IsIncome() {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// CumulativeIncome sums income transactions from the beginning of tracked
// history through a date.
func (l *Ledger) CumulativeIncome(through Date) Money {
	var total Money
	for _, tx := range l.transactions {
		if tx.Date.After(through) {
			break
		}
		if tx.IsIncome() {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// Available computes a category's spendable balance for a period:
// carryover-in plus budgeted plus signed activity. Negative means
// overspent, which is a reportable state, not an error.
func (l *Ledger) Available(category string, p Period) Money {
	var carryover, budgeted Money
	if a := l.Allocation(category, p); a != nil {
		carryover, budgeted = a.CarryoverIn, a.Budgeted
	}
	return carryover.Add(budgeted).Add(l.Activity(category, p))
}

// TotalBudgeted sums budgeted amounts across all categories for a period.
func (l *Ledger) TotalBudgeted(p Period) Money {
	var total Money
	for _, a := range l.Allocations(p) {
		total = total.Add(a.Budgeted)
	}
	return total
}

// TotalActivity sums categorized activity across all categories for a
// period.
func (l *Ledger) TotalActivity(p Period) Money {
	var total Money
	for _, tx := range l.transactions {
		if tx.Date.After(p.End()) {
			break
		}
		if !p.Contains(tx.Date) {
			continue
		}
		tx.CategoryAmounts(func(_ string, amount Money) bool {
			total = total.Add(amount)
			return true
		})
	}
	return total
}

// NetWorth sums every account's balance on a date, credit accounts counting
// their (negative) balance as debt.
func (l *Ledger) NetWorth(on Date) Money {
	var total Money
	for _, a := range l.accounts.All() {
		total = total.Add(l.AccountBalance(a.ID, on))
	}
	return total
}
