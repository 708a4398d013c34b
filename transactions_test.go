package satstack

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestTransaction_Validate(t *testing.T) {
	valid := buy("a", day(2023, time.January, 1), 1, 100)

	tests := []struct {
		name    string
		modify  func(*Transaction)
		wantErr error
	}{
		{"valid", func(*Transaction) {}, nil},
		{"zero fiat is valid", func(tx *Transaction) { tx.FiatAmount = USD(0) }, nil},
		{"missing id", func(tx *Transaction) { tx.ID = "" }, ErrMissingID},
		{"unknown type", func(tx *Transaction) { tx.Type = "trade" }, ErrInvalidType},
		{"missing date", func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
		{"zero amount", func(tx *Transaction) { tx.AssetAmount = Q(0) }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.AssetAmount = Q(-1) }, ErrInvalidAmount},
		{"negative fiat", func(tx *Transaction) { tx.FiatAmount = USD(-1) }, ErrNegativeFiat},
		{"negative price", func(tx *Transaction) { tx.PricePerUnit = USD(-1) }, ErrNegativeFiat},
		{"negative fees", func(tx *Transaction) { tx.Fees = USD(-0.01) }, ErrNegativeFee},
		{"euro fiat", func(tx *Transaction) { tx.FiatAmount = M(100, "EUR") }, ErrCurrency},
		{"euro fees", func(tx *Transaction) { tx.Fees = M(1, "EUR") }, ErrCurrency},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tx := valid
			tc.modify(&tx)
			err := tx.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tc.wantErr)
			}
			var v *ValidationError
			if !errors.As(err, &v) || v.TxID != tx.ID {
				t.Errorf("Validate() error %v is not a *ValidationError for %q", err, tx.ID)
			}
		})
	}
}

func TestParseTxType(t *testing.T) {
	for _, s := range []string{"buy", "SELL", " Send ", "receive", "spend"} {
		if _, err := ParseTxType(s); err != nil {
			t.Errorf("ParseTxType(%q) unexpected error: %v", s, err)
		}
	}
	if _, err := ParseTxType("dividend"); !errors.Is(err, ErrInvalidType) {
		t.Errorf("ParseTxType(dividend) error = %v, want %v", err, ErrInvalidType)
	}
}

func TestTransaction_JSON(t *testing.T) {
	tx := NewTransaction("id-1", TxSpend, day(2024, time.March, 9), Q(0.001), USD(65.43)).WithDescription("coffee")
	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	want := `{"id":"id-1","type":"spend","date":"2024-03-09","assetAmount":0.001,"pricePerUnit":65430,"fiatAmount":65.43,"description":"coffee"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
	var got Transaction
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !got.Equal(tx) {
		t.Errorf("Unmarshal() = %+v, want %+v", got, tx)
	}
}
