package envelope

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// The book is persisted as a single JSONL file, one record per line, in a
// way that is still human-readable and git-friendly. Every line carries a
// "kind" discriminator as its first key; the rest of the object is the
// record itself. Records are written grouped by kind and sorted, so two
// saves of the same book are byte identical.

const (
	kindAccount        = "account"
	kindCategory       = "category"
	kindPayee          = "payee"
	kindTarget         = "target"
	kindAllocation     = "allocation"
	kindTransaction    = "transaction"
	kindReconciliation = "reconciliation"
)

const attrKind = "kind"

// encodeRecord writes one record as a JSON line, kind first.
func encodeRecord(w io.Writer, kind string, v any) error {
	jw := &jsonObjectWriter{}
	jw.Append(attrKind, kind).EmbedFrom(v)
	data, err := jw.MarshalJSON()
	if err != nil {
		return fmt.Errorf("cannot marshal %s record: %w", kind, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("cannot write %s record: %w", kind, err)
	}
	return nil
}

/// EncodeBook persists the whole ledger to an io.Writer in JSONL format:
// accounts, categories, payees, targets, allocations, transactions, then
// reconciliation sessions, each group in its stable order.
func EncodeBook(w io.Writer, ledger *Ledger) error {
	for _, a := range ledger.accounts.All() {
		if err := encodeRecord(w, kindAccount, a); err != nil {
			return err
		}
	}
	for _, c := range ledger.categories.All() {
		if err := encodeRecord(w, kindCategory, c); err != nil {
			return err
		}
	}
	for _, p := range ledger.payees.All() {
		if err := encodeRecord(w, kindPayee, p); err != nil {
			return err
		}
	}
	for _, t := range ledger.targets {
		if err := encodeRecord(w, kindTarget, t); err != nil {
			return err
		}
	}
	for a := range ledger.AllAllocations() {
		if err := encodeRecord(w, kindAllocation, a); err != nil {
			return err
		}
	}
	ledger.stableSort()
	for _, tx := range ledger.transactions {
		if err := encodeRecord(w, kindTransaction, tx); err != nil {
			return err
		}
	}
	for _, s := range ledger.sessions {
		if err := encodeRecord(w, kindReconciliation, s); err != nil {
			return err
		}
	}
	return nil
}

// DecodeBook reads a JSONL stream of book records and returns the ledger
// they describe, transactions sorted chronologically.
func DecodeBook(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	n := 0
	for scanner.Scan() {
		n++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var identifier struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("format error on line %d: not a record: %w", n, err)
		}

		var err error
		switch identifier.Kind {
		case kindAccount:
			var a Account
			if err = json.Unmarshal(line, &a); err == nil {
				err = ledger.accounts.Add(&a)
			}
		case kindCategory:
			var c Category
			if err = json.Unmarshal(line, &c); err == nil {
				err = ledger.categories.Add(&c)
			}
		case kindPayee:
			var p Payee
			if err = json.Unmarshal(line, &p); err == nil {
				err = ledger.payees.Add(&p)
			}
		case kindTarget:
			var t BudgetTarget
			if err = json.Unmarshal(line, &t); err == nil {
				ledger.targets = append(ledger.targets, &t)
			}
		case kindAllocation:
			var a CategoryAllocation
			if err = json.Unmarshal(line, &a); err == nil {
				ledger.allocations[a.Key()] = &a
			}
		case kindTransaction:
			var tx Transaction
			if err = json.Unmarshal(line, &tx); err == nil {
				ledger.transactions = append(ledger.transactions, &tx)
			}
		case kindReconciliation:
			var s ReconciliationSession
			if err = json.Unmarshal(line, &s); err == nil {
				err = ledger.RestoreSession(&s)
			}
		default:
			err = fmt.Errorf("unknown record kind %q", identifier.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("format error on line %d: %w", n, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading book: %w", err)
	}

	ledger.stableSort()
	return ledger, nil
}
