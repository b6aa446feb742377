// Package envelope provides the functions and types for keeping a personal
// budget with envelope-style allocations. It is designed to be local-first,
// auditable, and extensible, so users keep full control and transparency
// over their financial data.
//
// The core functionalities include:
//   - Ledger Management: Recording accounts, categories, payees and every
//     transaction (spending, income, transfers, splits) in a single book.
//   - Zero-Based Budgeting: Assigning income to category envelopes period by
//     period, tracking the amount available to budget, carryover between
//     periods, and savings targets.
//   - Reporting: A stateless layer that derives balances, budget summaries,
//     spending breakdowns, net worth and history from the book.
//   - Reconciliation: Matching the book against bank statements through
//     explicit sessions that lock cleared transactions once balanced.
//   - Data Persistence: Encoding the book to a human-readable, version
//     controllable JSONL form, with SQLite and CSV exchange alongside.
//
// This package serves as the foundational logic for the `envelope`
// command-line tool, ensuring that all operations are consistent and based
// on a single source of truth.
package envelope
