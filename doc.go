// Package cashflow models bookkeeping and cash-flow projection.
//
// The core functionalities include:
//   - Money: exact, currency-tagged amounts. Arithmetic between different
//     currencies fails, amounts are never converted.
//   - Ledger: accounts and transactions made of postings. Transactions are
//     validated on insertion: in Double mode postings must sum to zero in each
//     currency, in Single mode the check is disabled to record intentionally
//     incomplete entries. Balances and running balances are computed from a
//     per-account index of postings.
//   - Rules: recurring transaction templates (daily, weekly, monthly, yearly,
//     or every N days/weeks/months/years) with an optional end condition and
//     an optional escalation of amounts over time.
//   - Generator: expands rules into projected transactions up to a horizon.
//     Projections are merged into a copy of the ledger and never into the
//     recorded one.
//   - Books: the JSON or YAML files holding accounts, transactions and rules.
//
// This package serves as the foundational logic for the `cfp` command-line
// tool.
package cashflow
