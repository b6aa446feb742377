package renderer

import (
	"bytes"
	"fmt"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	md "github.com/nao1215/markdown"
)

// NetWorthMarkdown renders account balances on a date, budget accounts
// first, tracking accounts after.
func NetWorthMarkdown(r *envelope.NetWorthReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Net Worth on %s", r.Date))
	doc.PlainText(fmt.Sprintf("Total: %s", md.Bold(r.Total.SignedString())))

	section := func(title string, rows []envelope.AccountBalanceRow, total envelope.Money) {
		if len(rows) == 0 {
			return
		}
		doc.H2(title)
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{"Account", "Cleared", "Balance"},
		}
		for _, row := range rows {
			name := row.Account.Name
			if row.Account.Archived {
				name += " (archived)"
			}
			table.Rows = append(table.Rows, []string{
				name,
				row.Cleared.String(),
				row.Balance.String(),
			})
		}
		table.Rows = append(table.Rows, []string{md.Bold("Total"), "", md.Bold(total.String())})
		doc.Table(table)
	}

	section("On Budget", r.OnBudget, r.OnBudgetTotal)
	section("Tracking", r.Tracking, r.TrackingTotal)

	return doc.String()
}
