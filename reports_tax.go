package satstack

import (
	"fmt"
	"slices"
	"time"
)

// YearlyTaxReport sums the realized gains of the disposals of one calendar year.
type YearlyTaxReport struct {
	Year          int
	TotalGain     Money
	ShortTermGain Money
	LongTermGain  Money
	EstimatedTax  Money
	MonthlyGains  map[time.Month]Money // every month is present.

	TotalProceeds  Money
	TotalCostBasis Money
	ShortTermCount int
	LongTermCount  int
	Disposals      []Disposal // the disposals of the year, in matching order.
}

// AggregateYear sums the disposals whose disposal date falls in year.
//
// EstimatedTax is left at zero, see EstimateTax.
func AggregateYear(disposals []Disposal, year int) YearlyTaxReport {
	r := YearlyTaxReport{
		Year:           year,
		TotalGain:      USD(0),
		ShortTermGain:  USD(0),
		LongTermGain:   USD(0),
		EstimatedTax:   USD(0),
		MonthlyGains:   make(map[time.Month]Money, 12),
		TotalProceeds:  USD(0),
		TotalCostBasis: USD(0),
	}
	for m := time.January; m <= time.December; m++ {
		r.MonthlyGains[m] = USD(0)
	}

	for _, d := range disposals {
		if d.DisposedDate.Year() != year {
			continue
		}
		switch d.Term {
		case LongTerm:
			r.LongTermGain = r.LongTermGain.Add(d.Gain)
			r.LongTermCount++
		default:
			r.ShortTermGain = r.ShortTermGain.Add(d.Gain)
			r.ShortTermCount++
		}
		r.TotalGain = r.TotalGain.Add(d.Gain)
		r.TotalProceeds = r.TotalProceeds.Add(d.Proceeds)
		r.TotalCostBasis = r.TotalCostBasis.Add(d.CostBasis)
		m := d.DisposedDate.Month()
		r.MonthlyGains[m] = r.MonthlyGains[m].Add(d.Gain)
		r.Disposals = append(r.Disposals, d)
	}
	return r
}

// EstimateTax applies the rates to the positive term gains of the report.
//
// A net loss in one term contributes nothing and does not offset the other
// term.
func EstimateTax(report YearlyTaxReport, shortTermRate, longTermRate Percent) Money {
	short := shortTermRate.Of(report.ShortTermGain.Floor())
	long := longTermRate.Of(report.LongTermGain.Floor())
	return USD(0).Add(short).Add(long).Round()
}

// NewYearlyTaxReport computes the disposals of txs and returns the tax report
// of year, with its estimated tax.
//
// Like ComputeDisposals, the report is computed even when some transactions
// are invalid and the error lists them.
func NewYearlyTaxReport(txs []Transaction, cfg TaxConfiguration, year int) (YearlyTaxReport, error) {
	if err := cfg.Validate(); err != nil {
		return YearlyTaxReport{}, fmt.Errorf("invalid tax configuration: %w", err)
	}
	disposals, err := ComputeDisposals(txs, cfg)
	return yearReport(disposals, cfg, year), err
}

func yearReport(disposals []Disposal, cfg TaxConfiguration, year int) YearlyTaxReport {
	r := AggregateYear(disposals, year)
	r.EstimatedTax = EstimateTax(r, cfg.ShortTermRate, cfg.LongTermRate)
	return r
}

// TaxSummaries returns the tax report of each year, ascending.
//
// When no year is given, every year with at least one transaction in txs is
// reported.
func TaxSummaries(txs []Transaction, cfg TaxConfiguration, years ...int) ([]YearlyTaxReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tax configuration: %w", err)
	}
	disposals, err := ComputeDisposals(txs, cfg)
	if len(years) == 0 {
		years = Years(txs)
	}
	years = slices.Clone(years)
	slices.Sort(years)
	years = slices.Compact(years)

	res := make([]YearlyTaxReport, 0, len(years))
	for _, y := range years {
		res = append(res, yearReport(disposals, cfg, y))
	}
	return res, err
}

// Years returns the distinct years of the dates of txs, ascending.
func Years(txs []Transaction) []int {
	var years []int
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		years = append(years, tx.Date.Year())
	}
	slices.Sort(years)
	return slices.Compact(years)
}
