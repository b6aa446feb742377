package envelope

// RegisterRow is one transaction with its references resolved to display
// names.
type RegisterRow struct {
	Transaction *Transaction
	Account     string
	Payee       string
	Category    string
	Balance     Money // running account balance, only in single-account registers
}

// RegisterReport is a filtered view of the transaction register, in date
// order.
type RegisterReport struct {
	Account *Account // nil when the register spans all accounts
	Rows    []RegisterRow
	Inflow  Money
	Outflow Money
	Net     Money
}

// NewRegister lists transactions matching the filters. With an account the
// register is scoped to it and each row carries the running balance, kept
// correct even when filters hide rows in between.
func (bs *BudgetSystem) NewRegister(account string, filters ...func(*Transaction) bool) (*RegisterReport, error) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	l := bs.ledger
	report := &RegisterReport{}
	match := func(tx *Transaction) bool {
		for _, f := range filters {
			if !f(tx) {
				return false
			}
		}
		return true
	}
	categoryLabel := func(tx *Transaction) string {
		switch {
		case tx.IsTransfer():
			return "(transfer)"
		case tx.IsSplit():
			return "(split)"
		case tx.IsIncome():
			return "(income)"
		}
		if c := l.Category(tx.Category); c != nil {
			return c.Name
		}
		return tx.Category
	}
	addRow := func(tx *Transaction, balance Money) {
		row := RegisterRow{
			Transaction: tx,
			Category:    categoryLabel(tx),
			Balance:     balance,
		}
		if a := l.Account(tx.Account); a != nil {
			row.Account = a.Name
		}
		if p := l.Payee(tx.Payee); p != nil {
			row.Payee = p.Name
		}
		if tx.Amount.IsNegative() {
			report.Outflow = report.Outflow.Add(tx.Amount)
		} else {
			report.Inflow = report.Inflow.Add(tx.Amount)
		}
		report.Net = report.Net.Add(tx.Amount)
		report.Rows = append(report.Rows, row)
	}

	if account == "" {
		for _, tx := range l.Transactions(filters...) {
			addRow(tx, Money{})
		}
		return report, nil
	}

	a := l.accounts.Find(account)
	if a == nil {
		return nil, NotFoundf("unknown account %q", account)
	}
	report.Account = a
	running := a.StartingBalance
	for _, tx := range l.Transactions(ByAccount(a.ID)) {
		running = running.Add(tx.Amount)
		if !match(tx) {
			continue
		}
		addRow(tx, running)
	}
	return report, nil
}
