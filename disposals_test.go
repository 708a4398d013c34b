package satstack

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// summary is a compact view of a disposal used to compare results.
type summary struct {
	Lot      string
	Amount   string
	Proceeds string
	Cost     string
	Fee      string
	Gain     string
	Days     int
	Term     Term
}

func summarize(disposals []Disposal) []summary {
	var res []summary
	for _, d := range disposals {
		res = append(res, summary{
			Lot:      d.LotSourceTransactionID,
			Amount:   d.AssetAmount.String(),
			Proceeds: d.Proceeds.Decimal(),
			Cost:     d.CostBasis.Decimal(),
			Fee:      d.Fee.Decimal(),
			Gain:     d.Gain.Decimal(),
			Days:     d.HoldingDays,
			Term:     d.Term,
		})
	}
	return res
}

func TestComputeDisposals(t *testing.T) {
	twoLots := []Transaction{
		buy("a", day(2022, time.January, 1), 1, 20000),
		buy("b", day(2023, time.January, 1), 1, 30000),
		sell("s", day(2023, time.June, 1), 1.5, 50000),
	}

	tests := []struct {
		name   string
		txs    []Transaction
		config TaxConfiguration
		want   []summary
	}{
		{
			name:   "fifo consumes the oldest lot first",
			txs:    twoLots,
			config: config(FIFO, true),
			want: []summary{
				{"a", "1", "33333.33", "20000.00", "0.00", "13333.33", 516, LongTerm},
				{"b", "0.5", "16666.67", "15000.00", "0.00", "1666.67", 151, ShortTerm},
			},
		},
		{
			name:   "lifo consumes the newest lot first",
			txs:    twoLots,
			config: config(LIFO, true),
			want: []summary{
				{"b", "1", "33333.33", "30000.00", "0.00", "3333.33", 151, ShortTerm},
				{"a", "0.5", "16666.67", "10000.00", "0.00", "6666.67", 516, LongTerm},
			},
		},
		{
			name: "hifo consumes the most expensive unit cost first",
			txs: []Transaction{
				buy("x", day(2023, time.January, 1), 1, 10),
				buy("y", day(2023, time.February, 1), 1, 50),
				buy("z", day(2023, time.March, 1), 1, 30),
				sell("s", day(2023, time.April, 1), 2.5, 250),
			},
			config: config(HIFO, true),
			want: []summary{
				{"y", "1", "100.00", "50.00", "0.00", "50.00", 59, ShortTerm},
				{"z", "1", "100.00", "30.00", "0.00", "70.00", 31, ShortTerm},
				{"x", "0.5", "50.00", "5.00", "0.00", "45.00", 90, ShortTerm},
			},
		},
		{
			name: "hifo ties go to the oldest lot",
			txs: []Transaction{
				buy("late", day(2023, time.March, 1), 2, 100),
				buy("early", day(2023, time.January, 1), 1, 50),
				sell("s", day(2023, time.April, 1), 1, 80),
			},
			config: config(HIFO, true),
			want: []summary{
				{"early", "1", "80.00", "50.00", "0.00", "30.00", 90, ShortTerm},
			},
		},
		{
			name: "fifo same day lots in ledger order",
			txs: []Transaction{
				buy("first", day(2023, time.January, 1), 1, 100),
				buy("second", day(2023, time.January, 1), 1, 200),
				sell("s", day(2023, time.February, 1), 1, 150),
			},
			config: config(FIFO, true),
			want: []summary{
				{"first", "1", "150.00", "100.00", "0.00", "50.00", 31, ShortTerm},
			},
		},
		{
			name: "lifo same day lots in reverse ledger order",
			txs: []Transaction{
				buy("first", day(2023, time.January, 1), 1, 100),
				buy("second", day(2023, time.January, 1), 1, 200),
				sell("s", day(2023, time.February, 1), 1, 150),
			},
			config: config(LIFO, true),
			want: []summary{
				{"second", "1", "150.00", "200.00", "0.00", "-50.00", 31, ShortTerm},
			},
		},
		{
			name: "held exactly 365 days is short term",
			txs: []Transaction{
				buy("a", day(2022, time.January, 1), 1, 100),
				sell("s", day(2023, time.January, 1), 1, 200),
			},
			config: config(FIFO, true),
			want: []summary{
				{"a", "1", "200.00", "100.00", "0.00", "100.00", 365, ShortTerm},
			},
		},
		{
			name: "held 366 days is long term",
			txs: []Transaction{
				buy("a", day(2022, time.January, 1), 1, 100),
				sell("s", day(2023, time.January, 2), 1, 200),
			},
			config: config(FIFO, true),
			want: []summary{
				{"a", "1", "200.00", "100.00", "0.00", "100.00", 366, LongTerm},
			},
		},
		{
			name: "unmatched remainder has no cost basis",
			txs: []Transaction{
				buy("a", day(2023, time.January, 1), 3, 30000),
				sell("s", day(2024, time.June, 1), 5, 50000),
			},
			config: config(FIFO, true),
			want: []summary{
				{"a", "3", "30000.00", "30000.00", "0.00", "0.00", 517, LongTerm},
				{"", "2", "20000.00", "0.00", "0.00", "20000.00", 0, ShortTerm},
			},
		},
		{
			name: "a lot acquired on the disposal day is not eligible",
			txs: []Transaction{
				buy("a", day(2023, time.January, 1), 1, 100),
				sell("s", day(2023, time.January, 1), 1, 200),
			},
			config: config(FIFO, true),
			want: []summary{
				{"", "1", "200.00", "0.00", "0.00", "200.00", 0, ShortTerm},
			},
		},
		{
			name: "fees are added to cost and deducted from gains",
			txs: []Transaction{
				buy("a", day(2023, time.January, 1), 1, 10000).WithFees(USD(100)),
				sell("s", day(2023, time.March, 1), 1, 15000).WithFees(USD(50)),
			},
			config: config(FIFO, true),
			want: []summary{
				{"a", "1", "15000.00", "10100.00", "50.00", "4850.00", 59, ShortTerm},
			},
		},
		{
			name: "fees are ignored when excluded",
			txs: []Transaction{
				buy("a", day(2023, time.January, 1), 1, 10000).WithFees(USD(100)),
				sell("s", day(2023, time.March, 1), 1, 15000).WithFees(USD(50)),
			},
			config: config(FIFO, false),
			want: []summary{
				{"a", "1", "15000.00", "10000.00", "0.00", "5000.00", 59, ShortTerm},
			},
		},
		{
			name: "receive fees are never added to cost",
			txs: []Transaction{
				NewTransaction("r", TxReceive, day(2023, time.January, 1), Q(1), USD(10000)).WithFees(USD(100)),
				NewTransaction("p", TxSpend, day(2023, time.March, 1), Q(1), USD(12000)),
			},
			config: config(FIFO, true),
			want: []summary{
				{"r", "1", "12000.00", "10000.00", "0.00", "2000.00", 59, ShortTerm},
			},
		},
		{
			name: "disposals are processed by date, not ledger order",
			txs: []Transaction{
				buy("a", day(2023, time.January, 1), 1, 100),
				buy("b", day(2023, time.February, 1), 1, 200),
				sell("late", day(2023, time.April, 1), 1, 400),
				sell("early", day(2023, time.March, 1), 1, 300),
			},
			config: config(FIFO, true),
			want: []summary{
				{"a", "1", "300.00", "100.00", "0.00", "200.00", 59, ShortTerm},
				{"b", "1", "400.00", "200.00", "0.00", "200.00", 59, ShortTerm},
			},
		},
		{
			name: "partial disposals attribute the whole lot cost",
			txs: []Transaction{
				buy("a", day(2023, time.January, 1), 3, 100),
				sell("s1", day(2023, time.February, 1), 1, 10),
				sell("s2", day(2023, time.February, 2), 1, 10),
				sell("s3", day(2023, time.February, 3), 1, 10),
			},
			config: config(FIFO, true),
			want: []summary{
				{"a", "1", "10.00", "33.33", "0.00", "-23.33", 31, ShortTerm},
				{"a", "1", "10.00", "33.33", "0.00", "-23.33", 32, ShortTerm},
				{"a", "1", "10.00", "33.34", "0.00", "-23.34", 33, ShortTerm},
			},
		},
		{
			name: "send is a disposal at its declared value",
			txs: []Transaction{
				buy("a", day(2023, time.January, 1), 1, 100),
				NewTransaction("out", TxSend, day(2023, time.February, 1), Q(0.25), USD(50)),
			},
			config: config(FIFO, true),
			want: []summary{
				{"a", "0.25", "50.00", "25.00", "0.00", "25.00", 31, ShortTerm},
			},
		},
		{
			name:   "no transactions",
			config: config(FIFO, true),
			want:   nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputeDisposals(tc.txs, tc.config)
			if err != nil {
				t.Fatalf("ComputeDisposals() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, summarize(got)); diff != "" {
				t.Errorf("ComputeDisposals() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputeDisposals_Conservation(t *testing.T) {
	txs := []Transaction{
		buy("a", day(2021, time.March, 3), 0.12345678, 5000),
		buy("b", day(2021, time.July, 9), 0.3, 9876.54),
		NewTransaction("r", TxReceive, day(2022, time.February, 1), Q(0.07), USD(2500)),
		sell("s1", day(2022, time.May, 5), 0.2, 7777.77).WithFees(USD(12.34)),
		sell("s2", day(2023, time.May, 5), 0.29345678, 8000).WithFees(USD(3)),
	}
	for _, method := range CostBasisMethods {
		t.Run(method.String(), func(t *testing.T) {
			disposals, err := ComputeDisposals(txs, config(method, true))
			if err != nil {
				t.Fatalf("ComputeDisposals() unexpected error: %v", err)
			}
			for _, tx := range txs {
				if !tx.Type.IsDisposal() {
					continue
				}
				amount, proceeds, fees := Q(0), USD(0), USD(0)
				for _, d := range disposals {
					if d.DisposalTransactionID != tx.ID {
						continue
					}
					if !d.Matched() {
						t.Errorf("disposal %q should be fully matched", tx.ID)
					}
					amount = amount.Add(d.AssetAmount)
					proceeds = proceeds.Add(d.Proceeds)
					fees = fees.Add(d.Fee)
				}
				if !amount.Equal(tx.AssetAmount) {
					t.Errorf("disposal %q consumed %s, want %s", tx.ID, amount, tx.AssetAmount)
				}
				if !proceeds.Equal(tx.FiatAmount) {
					t.Errorf("disposal %q proceeds %s, want %s", tx.ID, proceeds, tx.FiatAmount)
				}
				if !fees.Equal(tx.Fees) {
					t.Errorf("disposal %q fees %s, want %s", tx.ID, fees, tx.Fees)
				}
			}
		})
	}
}

func TestComputeDisposals_Idempotent(t *testing.T) {
	txs := []Transaction{
		buy("a", day(2022, time.January, 1), 1, 20000),
		buy("b", day(2023, time.January, 1), 1, 30000).WithFees(USD(25)),
		sell("s", day(2023, time.June, 1), 1.5, 50000).WithFees(USD(10)),
		sell("t", day(2024, time.June, 1), 1, 60000),
	}
	for _, method := range CostBasisMethods {
		cfg := config(method, true)
		first, err1 := ComputeDisposals(txs, cfg)
		second, err2 := ComputeDisposals(txs, cfg)
		if err1 != nil || err2 != nil {
			t.Fatalf("ComputeDisposals(%s) unexpected errors: %v, %v", method, err1, err2)
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("ComputeDisposals(%s) is not idempotent (-first +second):\n%s", method, diff)
		}
	}
}

func TestComputeDisposals_InvalidTransactions(t *testing.T) {
	txs := []Transaction{
		buy("a", day(2023, time.January, 1), 1, 100),
		buy("bad", day(2023, time.January, 2), 0, 100),
		NewTransaction("neg", TxBuy, day(2023, time.January, 3), Q(1), USD(-5)),
		NewTransaction("eur", TxBuy, day(2023, time.January, 3), Q(1), M(100, "EUR")),
		buy("a", day(2023, time.January, 4), 1, 100),
		sell("s", day(2023, time.February, 1), 1, 150),
	}
	disposals, err := ComputeDisposals(txs, config(FIFO, true))
	if err == nil {
		t.Fatal("ComputeDisposals() expected an error for the invalid transactions")
	}
	if !errors.Is(err, ErrInvalidAmount) || !errors.Is(err, ErrNegativeFiat) || !errors.Is(err, ErrCurrency) || !errors.Is(err, ErrDuplicateID) {
		t.Errorf("ComputeDisposals() error %v does not wrap every failure", err)
	}
	var ids []string
	for _, v := range ValidationErrors(err) {
		ids = append(ids, v.TxID)
	}
	if diff := cmp.Diff([]string{"bad", "neg", "eur", "a"}, ids); diff != "" {
		t.Errorf("ValidationErrors() mismatch (-want +got):\n%s", diff)
	}

	want := []summary{{"a", "1", "150.00", "100.00", "0.00", "50.00", 31, ShortTerm}}
	if diff := cmp.Diff(want, summarize(disposals)); diff != "" {
		t.Errorf("valid transactions must still be processed (-want +got):\n%s", diff)
	}
}

func TestComputeDisposals_InvalidConfiguration(t *testing.T) {
	cfg := DefaultTaxConfiguration()
	cfg.CostBasisMethod = CostBasisMethod(42)
	disposals, err := ComputeDisposals([]Transaction{buy("a", day(2023, time.January, 1), 1, 1)}, cfg)
	if err == nil {
		t.Error("ComputeDisposals() expected an error for an unknown method")
	}
	if disposals != nil {
		t.Errorf("ComputeDisposals() = %v, want nil", disposals)
	}
}

func TestComputeDisposals_DoesNotMutateInput(t *testing.T) {
	txs := []Transaction{
		buy("a", day(2023, time.January, 1), 1, 100),
		sell("late", day(2023, time.April, 1), 0.5, 400),
		sell("early", day(2023, time.March, 1), 0.5, 300),
	}
	before := append([]Transaction(nil), txs...)
	if _, err := ComputeDisposals(txs, config(LIFO, true)); err != nil {
		t.Fatalf("ComputeDisposals() unexpected error: %v", err)
	}
	if diff := cmp.Diff(before, txs); diff != "" {
		t.Errorf("ComputeDisposals() modified its input (-before +after):\n%s", diff)
	}
}
