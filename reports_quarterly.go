package satstack

import "time"

// Installment is one of the four estimated tax payments of a year.
type Installment struct {
	Quarter int
	DueDate Date
	Amount  Money
	Due     bool // the due date is on or before the reference day.
}

// quarterDueDates are the month and day of the estimated payment deadlines,
// the last one falls in the following year.
var quarterDueDates = [4]struct {
	month    time.Month
	day      int
	nextYear bool
}{
	{time.April, 15, false},
	{time.June, 15, false},
	{time.September, 15, false},
	{time.January, 15, true},
}

// QuarterlyEstimates splits the estimated tax of the report into four equal
// installments. The last installment absorbs the rounding remainder.
func QuarterlyEstimates(report YearlyTaxReport, today Date) []Installment {
	total := report.EstimatedTax.Round()
	quarter := total.Div(Q(4)).Round()
	left := total

	res := make([]Installment, 0, len(quarterDueDates))
	for i, q := range quarterDueDates {
		year := report.Year
		if q.nextYear {
			year++
		}
		amount := quarter
		if i == len(quarterDueDates)-1 {
			amount = left
		}
		left = left.Sub(amount)
		due := NewDate(year, q.month, q.day)
		res = append(res, Installment{
			Quarter: i + 1,
			DueDate: due,
			Amount:  amount,
			Due:     !due.After(today),
		})
	}
	return res
}
