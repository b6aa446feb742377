package renderer

import (
	"bytes"
	"fmt"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	md "github.com/nao1215/markdown"
)

// ReconcileMarkdown renders an in-progress reconciliation: where the
// session stands against the statement and what is left to clear.
func ReconcileMarkdown(accountName string, st *envelope.SessionStatus) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	s := st.Session
	doc.H1(fmt.Sprintf("Reconciling %s", accountName))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Statement " + s.StatementDate.String(), s.StatementBalance.String()},
		Rows: [][]string{
			{"Cleared in session", st.ClearedSum.SignedString()},
			{"Difference", md.Bold(st.Difference.SignedString())},
		},
	})

	if st.Difference.IsZero() {
		doc.PlainText("Balanced. Complete with `envelope reconcile done`.")
	} else {
		doc.PlainText("Clear or unclear transactions until the difference is zero, or complete with an adjustment.")
	}

	if len(st.Pending) > 0 {
		doc.H2("Not yet cleared")
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignLeft,
				md.AlignLeft,
				md.AlignRight,
			},
			Header: []string{"Id", "Date", "Memo", "Amount"},
		}
		for _, tx := range st.Pending {
			table.Rows = append(table.Rows, []string{
				tx.ID,
				tx.Date.String(),
				tx.Memo,
				tx.Amount.SignedString(),
			})
		}
		doc.Table(table)
	}

	return doc.String()
}
