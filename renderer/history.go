package renderer

import (
	"bytes"
	"strconv"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders the period-by-period history table, oldest first.
func HistoryMarkdown(r *envelope.HistoryReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Budget History")

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Period", "Income", "Budgeted", "Activity", "To Budget", "Net Worth", "Overspent"},
	}
	for _, s := range r.Periods {
		overspent := ""
		if s.Overspent > 0 {
			overspent = md.Bold(strconv.Itoa(s.Overspent))
		}
		table.Rows = append(table.Rows, []string{
			s.Period.Label(),
			amountCell(s.Income),
			amountCell(s.Budgeted),
			signedCell(s.Activity),
			s.AvailableToBudget.SignedString(),
			s.NetWorth.String(),
			overspent,
		})
	}
	doc.Table(table)

	return doc.String()
}
