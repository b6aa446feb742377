// Package sqlite stores a budget book in a single SQLite file. It is a
// drop-in alternative to the JSONL store for books that outgrow a text
// file, and satisfies the same Store contract: Load rebuilds the whole
// ledger, Save rewrites it in one transaction.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"

	_ "modernc.org/sqlite"
)

// Store holds a budget book in a SQLite database.
type Store struct {
	path string
	name string
	db   *sql.DB
}

// Open opens or creates the book database and brings its schema up to
// date. The book name is the file name without its extension.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("cannot create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot reach database: %w", err)
	}
	if err := runMigrations(path); err != nil {
		db.Close()
		return nil, err
	}
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return &Store{path: path, name: name, db: db}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close releases the database connection.
func (s *Store) Close() error { return s.db.Close() }

// dateText stores dates as ISO text, zero dates as empty.
func dateText(d envelope.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func scanDate(text string) (envelope.Date, error) {
	if text == "" {
		return envelope.Date{}, nil
	}
	return envelope.ParseDate(text)
}

// jsonText marshals a value to text, empty slices as empty text.
func jsonText(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Load rebuilds the ledger from the database. An empty database is an
// empty book.
func (s *Store) Load() (*envelope.Ledger, error) {
	l := envelope.NewLedger()
	l.SetName(s.name)

	if err := s.loadAccounts(l); err != nil {
		return nil, fmt.Errorf("cannot load accounts: %w", err)
	}
	if err := s.loadCategories(l); err != nil {
		return nil, fmt.Errorf("cannot load categories: %w", err)
	}
	if err := s.loadPayees(l); err != nil {
		return nil, fmt.Errorf("cannot load payees: %w", err)
	}
	if err := s.loadTargets(l); err != nil {
		return nil, fmt.Errorf("cannot load targets: %w", err)
	}
	if err := s.loadAllocations(l); err != nil {
		return nil, fmt.Errorf("cannot load allocations: %w", err)
	}
	if err := s.loadTransactions(l); err != nil {
		return nil, fmt.Errorf("cannot load transactions: %w", err)
	}
	if err := s.loadSessions(l); err != nil {
		return nil, fmt.Errorf("cannot load reconciliations: %w", err)
	}
	return l, nil
}

func (s *Store) loadAccounts(l *envelope.Ledger) error {
	rows, err := s.db.Query(`SELECT id, name, kind, on_budget, starting_balance, starting_date,
		last_reconciled, last_reconciled_balance, archived FROM accounts ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var a envelope.Account
		var kind, startingDate, lastReconciled string
		var onBudget, archived int
		var startingBalance, lastBalance int64
		if err := rows.Scan(&a.ID, &a.Name, &kind, &onBudget, &startingBalance, &startingDate,
			&lastReconciled, &lastBalance, &archived); err != nil {
			return err
		}
		if a.Kind, err = envelope.ParseAccountKind(kind); err != nil {
			return err
		}
		if a.StartingDate, err = scanDate(startingDate); err != nil {
			return err
		}
		if a.LastReconciled, err = scanDate(lastReconciled); err != nil {
			return err
		}
		a.OnBudget = onBudget != 0
		a.Archived = archived != 0
		a.StartingBalance = envelope.Cents(startingBalance)
		a.LastReconciledBalance = envelope.Cents(lastBalance)
		if err := l.Accounts().Add(&a); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Store) loadCategories(l *envelope.Ledger) error {
	rows, err := s.db.Query(`SELECT id, name, category_group, archived FROM categories ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var c envelope.Category
		var archived int
		if err := rows.Scan(&c.ID, &c.Name, &c.Group, &archived); err != nil {
			return err
		}
		c.Archived = archived != 0
		if err := l.Categories().Add(&c); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Store) loadPayees(l *envelope.Ledger) error {
	rows, err := s.db.Query(`SELECT id, name FROM payees ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var p envelope.Payee
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return err
		}
		if err := l.Payees().Add(&p); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Store) loadTargets(l *envelope.Ledger) error {
	rows, err := s.db.Query(`SELECT id, category, amount, cadence, notes, active, created FROM targets ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var t envelope.BudgetTarget
		var amount int64
		var cadence, created string
		var active int
		if err := rows.Scan(&t.ID, &t.Category, &amount, &cadence, &t.Notes, &active, &created); err != nil {
			return err
		}
		t.Amount = envelope.Cents(amount)
		if t.Cadence, err = envelope.ParseCadence(cadence); err != nil {
			return err
		}
		if t.Created, err = scanDate(created); err != nil {
			return err
		}
		t.Active = active != 0
		if err := l.SetTarget(&t); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Store) loadAllocations(l *envelope.Ledger) error {
	rows, err := s.db.Query(`SELECT category, period, budgeted, carryover_in, notes FROM allocations ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var a envelope.CategoryAllocation
		var period string
		var budgeted, carryover int64
		if err := rows.Scan(&a.Category, &period, &budgeted, &carryover, &a.Notes); err != nil {
			return err
		}
		if a.Period, err = envelope.ParsePeriod(period, envelope.Monthly); err != nil {
			return err
		}
		a.Budgeted = envelope.Cents(budgeted)
		a.CarryoverIn = envelope.Cents(carryover)
		if err := l.SetAllocation(&a); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Store) loadTransactions(l *envelope.Ledger) error {
	rows, err := s.db.Query(`SELECT id, date, account, payee, category, amount, memo, status,
		splits, transfer_id, import_id FROM transactions ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var tx envelope.Transaction
		var date, status, splits string
		var amount int64
		if err := rows.Scan(&tx.ID, &date, &tx.Account, &tx.Payee, &tx.Category, &amount,
			&tx.Memo, &status, &splits, &tx.TransferID, &tx.ImportID); err != nil {
			return err
		}
		if tx.Date, err = envelope.ParseDate(date); err != nil {
			return err
		}
		if tx.Status, err = envelope.ParseTransactionStatus(status); err != nil {
			return err
		}
		tx.Amount = envelope.Cents(amount)
		if splits != "" {
			if err := json.Unmarshal([]byte(splits), &tx.Splits); err != nil {
				return err
			}
		}
		if err := l.AddTransaction(&tx); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Store) loadSessions(l *envelope.Ledger) error {
	rows, err := s.db.Query(`SELECT id, account, statement_date, statement_balance, state,
		cleared, started, closed FROM reconciliations ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var sess envelope.ReconciliationSession
		var statementDate, state, cleared, started, closed string
		var balance int64
		if err := rows.Scan(&sess.ID, &sess.Account, &statementDate, &balance, &state,
			&cleared, &started, &closed); err != nil {
			return err
		}
		if sess.StatementDate, err = envelope.ParseDate(statementDate); err != nil {
			return err
		}
		if sess.State, err = envelope.ParseSessionState(state); err != nil {
			return err
		}
		if sess.Started, err = scanDate(started); err != nil {
			return err
		}
		if sess.Closed, err = scanDate(closed); err != nil {
			return err
		}
		sess.StatementBalance = envelope.Cents(balance)
		if cleared != "" {
			if err := json.Unmarshal([]byte(cleared), &sess.Cleared); err != nil {
				return err
			}
		}
		if err := l.RestoreSession(&sess); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Save rewrites the whole book in one transaction. The book stays intact
// if anything fails along the way.
func (s *Store) Save(l *envelope.Ledger) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("cannot begin save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"meta", "accounts", "categories", "payees", "targets", "allocations", "transactions", "reconciliations"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("cannot clear %s: %w", table, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES ('name', ?)`, l.Name()); err != nil {
		return fmt.Errorf("cannot save book name: %w", err)
	}
	for _, a := range l.Accounts().All() {
		_, err := tx.Exec(`INSERT INTO accounts (id, name, kind, on_budget, starting_balance, starting_date,
			last_reconciled, last_reconciled_balance, archived) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Name, a.Kind.String(), boolInt(a.OnBudget), a.StartingBalance.Cents(), dateText(a.StartingDate),
			dateText(a.LastReconciled), a.LastReconciledBalance.Cents(), boolInt(a.Archived))
		if err != nil {
			return fmt.Errorf("cannot save account %s: %w", a.ID, err)
		}
	}
	for _, c := range l.Categories().All() {
		_, err := tx.Exec(`INSERT INTO categories (id, name, category_group, archived) VALUES (?, ?, ?, ?)`,
			c.ID, c.Name, c.Group, boolInt(c.Archived))
		if err != nil {
			return fmt.Errorf("cannot save category %s: %w", c.ID, err)
		}
	}
	for _, p := range l.Payees().All() {
		if _, err := tx.Exec(`INSERT INTO payees (id, name) VALUES (?, ?)`, p.ID, p.Name); err != nil {
			return fmt.Errorf("cannot save payee %s: %w", p.ID, err)
		}
	}
	for _, t := range l.Targets() {
		_, err := tx.Exec(`INSERT INTO targets (id, category, amount, cadence, notes, active, created)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Category, t.Amount.Cents(), t.Cadence.String(), t.Notes, boolInt(t.Active), dateText(t.Created))
		if err != nil {
			return fmt.Errorf("cannot save target %s: %w", t.ID, err)
		}
	}
	for a := range l.AllAllocations() {
		_, err := tx.Exec(`INSERT INTO allocations (category, period, budgeted, carryover_in, notes)
			VALUES (?, ?, ?, ?, ?)`,
			a.Category, a.Period.String(), a.Budgeted.Cents(), a.CarryoverIn.Cents(), a.Notes)
		if err != nil {
			return fmt.Errorf("cannot save allocation %s@%s: %w", a.Category, a.Period, err)
		}
	}
	for _, t := range l.Transactions() {
		splits := ""
		if t.IsSplit() {
			text, err := jsonText(t.Splits)
			if err != nil {
				return fmt.Errorf("cannot save splits of %s: %w", t.ID, err)
			}
			splits = text
		}
		_, err := tx.Exec(`INSERT INTO transactions (id, date, account, payee, category, amount, memo,
			status, splits, transfer_id, import_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Date.String(), t.Account, t.Payee, t.Category, t.Amount.Cents(), t.Memo,
			t.Status.String(), splits, t.TransferID, t.ImportID)
		if err != nil {
			return fmt.Errorf("cannot save transaction %s: %w", t.ID, err)
		}
	}
	for _, sess := range l.Sessions() {
		cleared := ""
		if len(sess.Cleared) > 0 {
			text, err := jsonText(sess.Cleared)
			if err != nil {
				return fmt.Errorf("cannot save cleared set of %s: %w", sess.ID, err)
			}
			cleared = text
		}
		_, err := tx.Exec(`INSERT INTO reconciliations (id, account, statement_date, statement_balance,
			state, cleared, started, closed) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sess.ID, sess.Account, dateText(sess.StatementDate), sess.StatementBalance.Cents(),
			sess.State.String(), cleared, dateText(sess.Started), dateText(sess.Closed))
		if err != nil {
			return fmt.Errorf("cannot save reconciliation %s: %w", sess.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("cannot commit save: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ envelope.Store = (*Store)(nil)
