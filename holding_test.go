package satstack

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewHolding(t *testing.T) {
	txs := []Transaction{
		buy("a", day(2023, time.January, 1), 1, 20000),
		buy("b", day(2023, time.February, 1), 1, 30000).WithFees(USD(10)),
		sell("s", day(2023, time.March, 1), 1.5, 45000),
		buy("c", day(2023, time.April, 1), 2, 50000),
	}

	tests := []struct {
		name     string
		on       Date
		method   CostBasisMethod
		lots     []string
		quantity Quantity
		cost     Money
		gain     Money
	}{
		{
			name:     "before the sale",
			on:       day(2023, time.February, 15),
			method:   FIFO,
			lots:     []string{"a", "b"},
			quantity: Q(2),
			cost:     USD(50010),
			gain:     USD(-10),
		},
		{
			name:     "after the sale with fifo",
			on:       day(2023, time.March, 1),
			method:   FIFO,
			lots:     []string{"b"},
			quantity: Q(0.5),
			cost:     USD(15005),
			gain:     USD(12500 - 15005),
		},
		{
			name:     "after the sale with lifo",
			on:       day(2023, time.March, 31),
			method:   LIFO,
			lots:     []string{"a"},
			quantity: Q(0.5),
			cost:     USD(10000),
			gain:     USD(2500),
		},
		{
			name:     "later acquisitions are excluded",
			on:       day(2023, time.April, 1),
			method:   FIFO,
			lots:     []string{"b", "c"},
			quantity: Q(2.5),
			cost:     USD(65005),
			gain:     USD(62500 - 65005),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, err := NewHolding(txs, config(tc.method, true), tc.on, USD(25000))
			if err != nil {
				t.Fatalf("NewHolding() unexpected error: %v", err)
			}
			var lots []string
			for _, lt := range h.Lots {
				lots = append(lots, lt.SourceTransactionID)
			}
			if len(lots) != len(tc.lots) {
				t.Fatalf("open lots = %v, want %v", lots, tc.lots)
			}
			for i := range lots {
				if lots[i] != tc.lots[i] {
					t.Errorf("open lots = %v, want %v", lots, tc.lots)
				}
			}
			if !h.Quantity.Equal(tc.quantity) {
				t.Errorf("Quantity = %s, want %s", h.Quantity, tc.quantity)
			}
			if !h.CostBasis.Equal(tc.cost) {
				t.Errorf("CostBasis = %s, want %s", h.CostBasis, tc.cost)
			}
			if !h.UnrealizedGain.Equal(tc.gain) {
				t.Errorf("UnrealizedGain = %s, want %s", h.UnrealizedGain, tc.gain)
			}
		})
	}
}

func TestNewHolding_Empty(t *testing.T) {
	h, err := NewHolding(nil, DefaultTaxConfiguration(), day(2023, time.January, 1), USD(30000))
	if err != nil {
		t.Fatalf("NewHolding() unexpected error: %v", err)
	}
	if !h.Quantity.IsZero() || !h.AverageCost.IsZero() || !h.MarketValue.IsZero() {
		t.Errorf("NewHolding() on an empty ledger = %+v, want zero values", h)
	}
}

func TestNewHolding_Lots(t *testing.T) {
	txs := []Transaction{
		buy("a", day(2022, time.January, 1), 1, 20000),
		buy("b", day(2023, time.February, 1), 1, 30000).WithFees(USD(10)),
		buy("c", day(2023, time.February, 15), 0.5, 10000),
	}
	h, err := NewHolding(txs, config(FIFO, true), day(2023, time.March, 1), USD(25000))
	if err != nil {
		t.Fatalf("NewHolding() unexpected error: %v", err)
	}

	type lot struct {
		ID    string
		Days  int
		Term  Term
		Value string
		Gain  string
	}
	var got []lot
	for _, lt := range h.Lots {
		got = append(got, lot{lt.SourceTransactionID, lt.HoldingDays, lt.Term, lt.MarketValue.Decimal(), lt.UnrealizedGain.Decimal()})
	}
	want := []lot{
		{"a", 424, LongTerm, "25000.00", "5000.00"},
		{"b", 28, ShortTerm, "25000.00", "-5010.00"},
		{"c", 14, ShortTerm, "12500.00", "2500.00"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Lots mismatch (-want +got):\n%s", diff)
	}
	if !h.HarvestableLoss.Equal(USD(-5010)) {
		t.Errorf("HarvestableLoss = %s, want -5010", h.HarvestableLoss)
	}
	if !h.UnrealizedGain.Equal(USD(2490)) {
		t.Errorf("UnrealizedGain = %s, want 2490", h.UnrealizedGain)
	}
}
