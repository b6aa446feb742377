package renderer

import (
	"bytes"
	"fmt"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	md "github.com/nao1215/markdown"
)

// RegisterMarkdown renders a transaction register. Single account registers
// carry a running balance column.
func RegisterMarkdown(r *envelope.RegisterReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	if r.Account != nil {
		doc.H1(fmt.Sprintf("Register for %s", r.Account.Name))
	} else {
		doc.H1("Register")
	}
	if len(r.Rows) == 0 {
		doc.PlainText("No transactions match.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"Date", "Account", "Payee", "Category", "Amount", "St"},
	}
	if r.Account != nil {
		table.Header = append(table.Header, "Balance")
		table.Alignment = append(table.Alignment, md.AlignRight)
	}
	for _, row := range r.Rows {
		cells := []string{
			row.Transaction.Date.String(),
			row.Account,
			row.Payee,
			row.Category,
			row.Transaction.Amount.SignedString(),
			statusMark(row.Transaction.Status),
		}
		if r.Account != nil {
			cells = append(cells, row.Balance.String())
		}
		table.Rows = append(table.Rows, cells)
	}
	doc.Table(table)

	doc.PlainText(fmt.Sprintf("In %s, out %s, net %s over %d transactions.",
		r.Inflow, r.Outflow, r.Net.SignedString(), len(r.Rows)))

	return doc.String()
}

// statusMark is the one character status column: blank pending, c cleared,
// R reconciled.
func statusMark(s envelope.TransactionStatus) string {
	switch s {
	case envelope.Cleared:
		return "c"
	case envelope.Reconciled:
		return "R"
	default:
		return ""
	}
}
