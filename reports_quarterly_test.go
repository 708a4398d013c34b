package satstack

import (
	"testing"
	"time"
)

func TestQuarterlyEstimates(t *testing.T) {
	report := YearlyTaxReport{Year: 2024, EstimatedTax: USD(1000.01)}
	got := QuarterlyEstimates(report, day(2024, time.July, 1))

	want := []Installment{
		{Quarter: 1, DueDate: day(2024, time.April, 15), Amount: USD(250), Due: true},
		{Quarter: 2, DueDate: day(2024, time.June, 15), Amount: USD(250), Due: true},
		{Quarter: 3, DueDate: day(2024, time.September, 15), Amount: USD(250), Due: false},
		{Quarter: 4, DueDate: day(2025, time.January, 15), Amount: USD(250.01), Due: false},
	}
	if len(got) != len(want) {
		t.Fatalf("QuarterlyEstimates() returned %d installments, want %d", len(got), len(want))
	}
	total := USD(0)
	for i := range want {
		g, w := got[i], want[i]
		if g.Quarter != w.Quarter || g.DueDate != w.DueDate || !g.Amount.Equal(w.Amount) || g.Due != w.Due {
			t.Errorf("installment %d = %+v, want %+v", i+1, g, w)
		}
		total = total.Add(g.Amount)
	}
	if !total.Equal(report.EstimatedTax) {
		t.Errorf("installments sum to %s, want %s", total, report.EstimatedTax)
	}
}

func TestQuarterlyEstimates_DueOnDeadline(t *testing.T) {
	got := QuarterlyEstimates(YearlyTaxReport{Year: 2023, EstimatedTax: USD(0)}, day(2023, time.April, 15))
	if !got[0].Due || got[1].Due {
		t.Errorf("on the first deadline, want only the first installment due, got %+v", got)
	}
	for _, in := range got {
		if !in.Amount.IsZero() {
			t.Errorf("installment %d = %s, want 0", in.Quarter, in.Amount)
		}
	}
}
