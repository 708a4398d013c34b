// Package satstack computes the realized capital gains of a bitcoin
// portfolio for tax reporting.
//
// The core functionalities include:
//   - Ledger Management: recording buys, sells, sends, receives and spends
//     in an ordered, JSONL persisted ledger.
//   - Lot Matching: a stateless engine that matches every disposal against
//     the acquisition lots available on its day, using the FIFO, LIFO or HIFO
//     cost basis method, and classifies the result as short or long term.
//   - Tax Reporting: yearly aggregation of realized gains, monthly breakdown,
//     estimated tax at the configured rates and quarterly installments.
//   - Data Exchange: CSV import of transactions and CSV export of disposals.
//
// The computations are pure functions of the ledger and the tax
// configuration: they never read a clock, a price feed, or a file.
//
// This package serves as the foundational logic for the `satstack`
// command-line tool and HTTP server.
package satstack
