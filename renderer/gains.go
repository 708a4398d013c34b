package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/satstack"
)

// DisposalsMarkdown renders the disposals, one row per consumed lot.
func DisposalsMarkdown(disposals []satstack.Disposal) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Disposals\n\n")
	if len(disposals) == 0 {
		fmt.Fprintln(&b, "No disposals.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Disposed | Transaction | Lot | Acquired | Amount | Proceeds | Cost Basis | Fee | Gain | Days | Term |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|---:|---:|---:|---:|---:|:---|")

	total := satstack.USD(0)
	for _, d := range disposals {
		lot, acquired := d.LotSourceTransactionID, d.AcquiredDate.String()
		if !d.Matched() {
			lot, acquired = "*unmatched*", "Unknown"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %d | %s |\n",
			d.DisposedDate,
			d.DisposalTransactionID,
			lot,
			acquired,
			d.AssetAmount,
			d.Proceeds,
			d.CostBasis,
			d.Fee,
			d.Gain.SignedString(),
			d.HoldingDays,
			d.Term,
		)
		total = total.Add(d.Gain)
	}
	fmt.Fprintf(&b, "| **%s** | | | | | | | | **%s** | | |\n", "Total", total.SignedString())
	return b.String()
}
