package renderer

import (
	"bytes"
	"fmt"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders a period summary: the headline numbers, then one
// row per category.
func SummaryMarkdown(s *envelope.BudgetSummary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Budget for %s", s.Period.Label()))

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{
			md.Bold("Available to Budget"),
			md.Bold(s.AvailableToBudget.SignedString()),
		},
		Rows: [][]string{
			{"Income", s.Income.String()},
			{"Budgeted", s.Budgeted.String()},
			{"Activity", s.Activity.SignedString()},
		},
	})

	if s.Overspent > 0 {
		doc.PlainText(fmt.Sprintf("%d categories are overspent and need covering.", s.Overspent))
	}

	doc.H2("Categories")
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Group", "Category", "Carryover", "Budgeted", "Activity", "Available", "Suggested"},
	}
	for _, row := range s.Rows {
		available := row.Available.SignedString()
		if row.Available.IsNegative() {
			available = md.Bold(available)
		}
		table.Rows = append(table.Rows, []string{
			row.Category.Group,
			row.Category.Name,
			amountCell(row.CarryoverIn),
			amountCell(row.Budgeted),
			signedCell(row.Activity),
			available,
			amountCell(row.Suggested),
		})
	}
	doc.Table(table)

	return doc.String()
}
