package envelope

import "sort"

// SpendingRow is one category's net spending in a period.
type SpendingRow struct {
	Category *Category
	Spent    Money   // net outflow, shown positive
	Share    Percent // of the period's total spending
}

// PayeeSpend is one payee's outflow total in a period.
type PayeeSpend struct {
	Payee *Payee
	Spent Money
	Count int
}

// SpendingReport breaks a period's outflows down by category and by payee,
// biggest first. Transfers are not spending and categories that netted an
// inflow are left out.
type SpendingReport struct {
	Period Period
	Rows   []SpendingRow
	Payees []PayeeSpend
	Total  Money
}

// NewSpendingReport computes the spending breakdown for a period.
func (bs *BudgetSystem) NewSpendingReport(p Period) *SpendingReport {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	l := bs.ledger
	report := &SpendingReport{Period: p}

	byCategory := make(map[string]Money)
	byPayee := make(map[string]*PayeeSpend)
	for _, tx := range l.Transactions(InPeriod(p)) {
		if tx.IsTransfer() {
			continue
		}
		tx.CategoryAmounts(func(category string, amount Money) bool {
			byCategory[category] = byCategory[category].Add(amount)
			return true
		})
		if tx.Amount.IsNegative() && tx.Payee != "" {
			ps := byPayee[tx.Payee]
			if ps == nil {
				ps = &PayeeSpend{Payee: l.Payee(tx.Payee)}
				byPayee[tx.Payee] = ps
			}
			ps.Spent = ps.Spent.Add(tx.Amount.Neg())
			ps.Count++
		}
	}

	for id, activity := range byCategory {
		if !activity.IsNegative() {
			continue
		}
		c := l.Category(id)
		if c == nil {
			continue
		}
		spent := activity.Neg()
		report.Rows = append(report.Rows, SpendingRow{Category: c, Spent: spent})
		report.Total = report.Total.Add(spent)
	}
	for i := range report.Rows {
		report.Rows[i].Share = Ratio(report.Rows[i].Spent, report.Total)
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		if !report.Rows[i].Spent.Equal(report.Rows[j].Spent) {
			return report.Rows[j].Spent.LessThan(report.Rows[i].Spent)
		}
		return report.Rows[i].Category.Name < report.Rows[j].Category.Name
	})

	for _, ps := range byPayee {
		if ps.Payee == nil {
			continue
		}
		report.Payees = append(report.Payees, *ps)
	}
	sort.Slice(report.Payees, func(i, j int) bool {
		if !report.Payees[i].Spent.Equal(report.Payees[j].Spent) {
			return report.Payees[j].Spent.LessThan(report.Payees[i].Spent)
		}
		return report.Payees[i].Payee.Name < report.Payees[j].Payee.Name
	})
	return report
}
