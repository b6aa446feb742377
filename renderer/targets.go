package renderer

import (
	"bytes"
	"fmt"
	"strings"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	md "github.com/nao1215/markdown"
)

// TargetsMarkdown renders target progress for a period, one row per active
// target with a text progress bar.
func TargetsMarkdown(r *envelope.TargetsReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Targets for %s", r.Period.Label()))
	if len(r.Rows) == 0 {
		doc.PlainText("No active targets. Set one with `envelope target set`.")
		return doc.String()
	}
	doc.PlainText(fmt.Sprintf("%d of %d targets funded for the period.", r.Funded, len(r.Rows)))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"Category", "Target", "Suggested", "Budgeted", "Progress", ""},
	}
	for _, row := range r.Rows {
		pr := row.Progress
		table.Rows = append(table.Rows, []string{
			row.Category.Name,
			fmt.Sprintf("%s %s", pr.Target.Amount, pr.Target.Cadence),
			amountCell(pr.Suggested),
			amountCell(pr.Budgeted),
			pr.Pct.Clamp().String(),
			progressBar(pr.Pct),
		})
	}
	doc.Table(table)

	return doc.String()
}

// progressBar draws a ten segment bar, full segments for funded tenths.
func progressBar(p envelope.Percent) string {
	filled := int(p.Clamp()) / 10
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}
