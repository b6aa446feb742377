package envelope

// TargetRow is one category target's progress line.
type TargetRow struct {
	Category *Category
	Progress Progress
}

// TargetsReport shows how every active target is doing in a period.
type TargetsReport struct {
	Period Period
	Rows   []TargetRow
	Funded int // rows whose budgeted amount meets the period suggestion
}

// NewTargetsReport computes progress for every active target, in the
// Targets() order.
func (bs *BudgetSystem) NewTargetsReport(p Period) *TargetsReport {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	report := &TargetsReport{Period: p}
	for _, t := range bs.ledger.Targets() {
		if !t.Active {
			continue
		}
		c := bs.ledger.Category(t.Category)
		if c == nil || c.Archived {
			continue
		}
		row := TargetRow{Category: c, Progress: bs.ledger.TargetProgress(t, p)}
		if row.Progress.Budgeted.GreaterThanOrEqual(row.Progress.Suggested) {
			report.Funded++
		}
		report.Rows = append(report.Rows, row)
	}
	return report
}
