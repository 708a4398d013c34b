package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/satstack"
)

// HoldingMarkdown renders the bitcoin held on a day and its unrealized gain.
func HoldingMarkdown(h *satstack.Holding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holding on %s\n\n", h.Date)
	fmt.Fprintf(&b, "| Quantity | Cost Basis | Average Cost | Price | Market Value | Unrealized Gain |\n")
	fmt.Fprintf(&b, "|---:|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
		h.Quantity, h.CostBasis, h.AverageCost, h.Price, h.MarketValue, h.UnrealizedGain.SignedString())

	optionalSection(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Open Lots\n\n")
		fmt.Fprintln(w, "| Lot | Acquired | Days | Term | Remaining | Unit Cost | Cost Basis | Market Value | Unrealized Gain |")
		fmt.Fprintln(w, "|:---|:---|---:|:---|---:|---:|---:|---:|---:|")
		for _, lt := range h.Lots {
			fmt.Fprintf(w, "| %s | %s | %d | %s | %s | %s | %s | %s | %s |\n",
				lt.SourceTransactionID, lt.AcquiredDate, lt.HoldingDays, lt.Term, lt.RemainingAmount,
				lt.UnitCost(), lt.RemainingCost(), lt.MarketValue, lt.UnrealizedGain.SignedString())
		}
		return len(h.Lots) > 0
	})

	optionalSection(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Tax-Loss Harvesting\n\n")
		fmt.Fprintf(w, "Selling the lots held at a loss would realize %s.\n", h.HarvestableLoss.SignedString())
		return h.HarvestableLoss.IsNegative()
	})
	return b.String()
}
