package envelope

// AccountBalanceRow is one account's balances on a date.
type AccountBalanceRow struct {
	Account *Account
	Balance Money
	Cleared Money
}

// NetWorthReport is every account's balance on a date, budget accounts
// separated from tracking accounts. Archived accounts appear only while
// they still hold money.
type NetWorthReport struct {
	Date          Date
	OnBudget      []AccountBalanceRow
	Tracking      []AccountBalanceRow
	OnBudgetTotal Money
	TrackingTotal Money
	Total         Money
}

// NewNetWorthReport computes account balances as of a date.
func (bs *BudgetSystem) NewNetWorthReport(on Date) *NetWorthReport {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	l := bs.ledger
	report := &NetWorthReport{Date: on}
	for _, a := range l.accounts.All() {
		balance := l.AccountBalance(a.ID, on)
		if a.Archived && balance.IsZero() {
			continue
		}
		row := AccountBalanceRow{
			Account: a,
			Balance: balance,
			Cleared: l.ClearedBalance(a.ID, on),
		}
		if a.OnBudget {
			report.OnBudget = append(report.OnBudget, row)
			report.OnBudgetTotal = report.OnBudgetTotal.Add(balance)
		} else {
			report.Tracking = append(report.Tracking, row)
			report.TrackingTotal = report.TrackingTotal.Add(balance)
		}
		report.Total = report.Total.Add(balance)
	}
	return report
}
