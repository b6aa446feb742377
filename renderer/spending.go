package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	md "github.com/nao1215/markdown"
)

// SpendingMarkdown renders the spending breakdown for a period, by category
// then by payee.
func SpendingMarkdown(r *envelope.SpendingReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Spending in %s", r.Period.Label()))
	if len(r.Rows) == 0 {
		doc.PlainText("No spending in this period.")
		return doc.String()
	}
	doc.PlainText(fmt.Sprintf("Total spent: %s", md.Bold(r.Total.String())))

	doc.H2("By Category")
	byCategory := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Group", "Category", "Spent", "Share"},
	}
	for _, row := range r.Rows {
		byCategory.Rows = append(byCategory.Rows, []string{
			row.Category.Group,
			row.Category.Name,
			row.Spent.String(),
			row.Share.String(),
		})
	}
	doc.Table(byCategory)

	if len(r.Payees) > 0 {
		doc.H2("By Payee")
		byPayee := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{"Payee", "Spent", "Transactions"},
		}
		for _, ps := range r.Payees {
			byPayee.Rows = append(byPayee.Rows, []string{
				ps.Payee.Name,
				ps.Spent.String(),
				strconv.Itoa(ps.Count),
			})
		}
		doc.Table(byPayee)
	}

	return doc.String()
}
