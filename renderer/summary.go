package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/satstack"
)

// SummaryMarkdown renders one row per yearly report.
func SummaryMarkdown(reports []satstack.YearlyTaxReport) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Tax Summary\n\n")
	fmt.Fprintln(&b, "| Year | Disposals | Proceeds | Cost Basis | Short Term | Long Term | Total Gain | Estimated Tax |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|")

	gain, tax := satstack.USD(0), satstack.USD(0)
	for _, r := range reports {
		fmt.Fprintf(&b, "| %d | %d | %s | %s | %s | %s | %s | %s |\n",
			r.Year,
			r.ShortTermCount+r.LongTermCount,
			r.TotalProceeds,
			r.TotalCostBasis,
			r.ShortTermGain.SignedString(),
			r.LongTermGain.SignedString(),
			r.TotalGain.SignedString(),
			r.EstimatedTax,
		)
		gain = gain.Add(r.TotalGain)
		tax = tax.Add(r.EstimatedTax)
	}
	fmt.Fprintf(&b, "| **Total** | | | | | | **%s** | **%s** |\n", gain.SignedString(), tax)
	return b.String()
}
