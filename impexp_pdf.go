package envelope

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/phpdave11/gofpdf"
)

// PDF statements are text-extracted and scanned for rows shaped like
// "date payee amount". Anything else on the page (headers, footers,
// balance summaries) is ignored.
var statementRowRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4})\s+(.{1,80}?)\s+(\(?-?\$?[\d,]+\.\d{2}\)?)(?:\s|$)`)

const usDateLayout = "01/02/2006"

// ImportPDF extracts transaction rows from a bank statement PDF into an
// account. Rows already in the register are skipped by fingerprint, like
// the other importers.
func ImportPDF(l *Ledger, account, path string) (*ImportResult, error) {
	a := l.accounts.Find(account)
	if a == nil {
		return nil, NotFoundf("unknown account %q", account)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open PDF %q: %w", path, err)
	}
	defer f.Close()

	var text strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// Scanned or malformed pages yield nothing, keep going.
			continue
		}
		text.WriteString(content)
		text.WriteString("\n")
	}

	var rows []stagedRow
	for _, match := range statementRowRe.FindAllStringSubmatch(text.String(), -1) {
		row, err := parseRow(l, usDateLayout, a.ID, match[1], match[3], strings.TrimSpace(match[2]), "", "")
		if err != nil {
			// A row the regexp accepted but the parsers reject is
			// noise from the extraction, not a transaction.
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, Validationf("no transaction rows found in %q", path)
	}
	return applyRows(l, a.ID, rows)
}

// ImportPDF imports statement rows into an account, saves the book and
// audits the batch.
func (bs *BudgetSystem) ImportPDF(account, path string) (*ImportResult, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	result, err := ImportPDF(bs.ledger, account, path)
	if err != nil {
		return nil, err
	}
	return result, bs.finishImport("import.pdf", account, result)
}

// ExportStatementPDF renders an account's activity over a period as a
// printable statement, with a running balance per row.
func ExportStatementPDF(w io.Writer, l *Ledger, account string, p Period) error {
	a := l.accounts.Find(account)
	if a == nil {
		return NotFoundf("unknown account %q", account)
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, fmt.Sprintf("%s statement", a.Name), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, fmt.Sprintf("%s to %s", p.Start(), p.End()), "", 1, "L", false, 0, "")
	doc.Ln(4)

	opening := l.AccountBalance(a.ID, p.Start().Add(-1))
	closing := l.AccountBalance(a.ID, p.End())

	headers := []string{"Date", "Payee", "Category", "Amount", "Balance"}
	colW := []float64{22, 62, 40, 28, 28}
	align := []string{"L", "L", "L", "R", "R"}

	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(240, 240, 240)
	for i, h := range headers {
		doc.CellFormat(colW[i], 7, h, "1", 0, align[i], true, 0, "")
	}
	doc.Ln(-1)

	payeeName := func(id string) string {
		if p := l.Payee(id); p != nil {
			return p.Name
		}
		return id
	}
	categoryName := func(tx *Transaction) string {
		if tx.IsTransfer() {
			return "(transfer)"
		}
		if tx.IsSplit() {
			return "(split)"
		}
		if c := l.Category(tx.Category); c != nil {
			return c.Name
		}
		return tx.Category
	}

	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(colW[0]+colW[1]+colW[2]+colW[3], 6, "Opening balance", "1", 0, "L", false, 0, "")
	doc.CellFormat(colW[4], 6, opening.String(), "1", 1, "R", false, 0, "")

	running := opening
	for _, tx := range l.Transactions(ByAccount(a.ID), InPeriod(p)) {
		running = running.Add(tx.Amount)
		cells := []string{
			tx.Date.String(),
			payeeName(tx.Payee),
			categoryName(tx),
			tx.Amount.String(),
			running.String(),
		}
		for i, c := range cells {
			doc.CellFormat(colW[i], 6, c, "1", 0, align[i], false, 0, "")
		}
		doc.Ln(-1)
	}

	doc.SetFont("Helvetica", "B", 9)
	doc.CellFormat(colW[0]+colW[1]+colW[2]+colW[3], 6, "Closing balance", "1", 0, "L", false, 0, "")
	doc.CellFormat(colW[4], 6, closing.String(), "1", 1, "R", false, 0, "")

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("cannot render statement PDF: %w", err)
	}
	return nil
}
