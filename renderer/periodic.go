package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/satstack"
)

// QuarterlyMarkdown renders the estimated tax installments of a year.
func QuarterlyMarkdown(year int, installments []satstack.Installment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Estimated Payments %d\n\n", year)
	fmt.Fprintln(&b, "| Quarter | Due Date | Amount | Status |")
	fmt.Fprintln(&b, "|:---|:---|---:|:---|")
	for _, in := range installments {
		status := "upcoming"
		if in.Due {
			status = "due"
		}
		fmt.Fprintf(&b, "| Q%d | %s | %s | %s |\n", in.Quarter, in.DueDate, in.Amount, status)
	}
	return b.String()
}
