package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/satstack"
)

// LogMarkdown renders the ledger transactions, in ledger order.
func LogMarkdown(txs []satstack.Transaction) string {
	r := &logRenderer{Builder: &strings.Builder{}}
	r.Printf("# Ledger\n\n")
	if len(txs) == 0 {
		r.Printf("No transactions.\n")
		return r.String()
	}
	r.Printf("| Date | ID | Type | Amount | Price | Fiat | Fees | Description |\n")
	r.Printf("|:---|:---|:---|---:|---:|---:|---:|:---|\n")
	for _, tx := range txs {
		r.Printf("| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			tx.Date, tx.ID, tx.Type, tx.AssetAmount, tx.PricePerUnit, tx.FiatAmount, tx.Fees.SignedString(), tx.Description)
	}
	return r.String()
}

// logRenderer formats the output of the log generator into a markdown string.
type logRenderer struct {
	*strings.Builder
}

// Printf formats according to a format specifier and writes to the renderer's buffer.
func (r *logRenderer) Printf(format string, args ...any) {
	fmt.Fprintf(r, format, args...)
}
