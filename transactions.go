package satstack

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TxType is a typed string for identifying transaction types.
type TxType string

// Transaction types.
const (
	TxBuy     TxType = "buy"     // bitcoin acquired against fiat.
	TxSell    TxType = "sell"    // bitcoin disposed against fiat.
	TxSend    TxType = "send"    // bitcoin sent out of the portfolio.
	TxReceive TxType = "receive" // bitcoin received into the portfolio.
	TxSpend   TxType = "spend"   // bitcoin spent on goods or services.
)

// TxTypes lists all the transaction types.
var TxTypes = []TxType{TxBuy, TxSell, TxSend, TxReceive, TxSpend}

// ParseTxType parses a transaction type, case insensitive.
func ParseTxType(s string) (TxType, error) {
	t := TxType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

// IsValid reports whether t is a known transaction type.
func (t TxType) IsValid() bool {
	switch t {
	case TxBuy, TxSell, TxSend, TxReceive, TxSpend:
		return true
	}
	return false
}

// IsAcquisition reports whether t creates a lot.
func (t TxType) IsAcquisition() bool { return t == TxBuy || t == TxReceive }

// IsDisposal reports whether t consumes lots.
func (t TxType) IsDisposal() bool { return t == TxSell || t == TxSend || t == TxSpend }

// Transaction is an immutable record of one ledger event.
//
// FiatAmount is stored independently from AssetAmount*PricePerUnit, it may
// already include some fee adjustment and must not be recomputed.
type Transaction struct {
	ID           string
	Type         TxType
	Date         Date
	AssetAmount  Quantity // always positive, the Type tells the direction.
	PricePerUnit Money
	FiatAmount   Money
	Fees         Money // zero when absent.
	Description  string
}

// NewTransaction creates a transaction without fees.
func NewTransaction(id string, typ TxType, on Date, amount Quantity, fiat Money) Transaction {
	tx := Transaction{
		ID:          id,
		Type:        typ,
		Date:        on,
		AssetAmount: amount,
		FiatAmount:  fiat,
		Fees:        USD(0),
	}
	if amount.IsPositive() {
		tx.PricePerUnit = fiat.Div(amount).Round()
	}
	return tx
}

// WithFees returns a copy of tx with the given fees.
func (tx Transaction) WithFees(fees Money) Transaction {
	tx.Fees = fees
	return tx
}

// WithDescription returns a copy of tx with the given description.
func (tx Transaction) WithDescription(desc string) Transaction {
	tx.Description = desc
	return tx
}

// Validate checks the transaction fields. Failures are reported as a *ValidationError.
func (tx Transaction) Validate() error {
	fail := func(err error) error { return &ValidationError{TxID: tx.ID, Err: err} }

	if tx.ID == "" {
		return fail(ErrMissingID)
	}
	if !tx.Type.IsValid() {
		return fail(fmt.Errorf("%w: %q", ErrInvalidType, tx.Type))
	}
	if tx.Date.IsZero() {
		return fail(ErrInvalidDate)
	}
	if !tx.AssetAmount.IsPositive() {
		return fail(fmt.Errorf("%w, got %s", ErrInvalidAmount, tx.AssetAmount))
	}
	for _, m := range []Money{tx.FiatAmount, tx.PricePerUnit, tx.Fees} {
		if c := m.Currency(); c != "" && c != Fiat {
			return fail(fmt.Errorf("%w %q, want %s", ErrCurrency, c, Fiat))
		}
	}
	if tx.FiatAmount.IsNegative() {
		return fail(fmt.Errorf("%w, got %s", ErrNegativeFiat, tx.FiatAmount))
	}
	if tx.PricePerUnit.IsNegative() {
		return fail(fmt.Errorf("%w: price per unit is %s", ErrNegativeFiat, tx.PricePerUnit))
	}
	if tx.Fees.IsNegative() {
		return fail(fmt.Errorf("%w, got %s", ErrNegativeFee, tx.Fees))
	}
	return nil
}

// Equal reports whether both transactions hold the same values.
func (tx Transaction) Equal(o Transaction) bool {
	return tx.ID == o.ID &&
		tx.Type == o.Type &&
		tx.Date == o.Date &&
		tx.AssetAmount.Equal(o.AssetAmount) &&
		tx.PricePerUnit.value.Equal(o.PricePerUnit.value) &&
		tx.FiatAmount.value.Equal(o.FiatAmount.value) &&
		tx.Fees.value.Equal(o.Fees.value) &&
		tx.Description == o.Description
}

// MarshalJSON implements the json.Marshaler interface with a canonical field order.
func (tx Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", tx.ID)
	w.Append("type", tx.Type)
	w.Append("date", tx.Date)
	w.Append("assetAmount", tx.AssetAmount)
	w.Append("pricePerUnit", tx.PricePerUnit)
	w.Append("fiatAmount", tx.FiatAmount)
	if !tx.Fees.IsZero() {
		w.Append("fees", tx.Fees)
	}
	w.Optional("description", tx.Description)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (tx *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID           string   `json:"id"`
		Type         TxType   `json:"type"`
		Date         Date     `json:"date"`
		AssetAmount  Quantity `json:"assetAmount"`
		PricePerUnit Money    `json:"pricePerUnit"`
		FiatAmount   Money    `json:"fiatAmount"`
		Fees         *Money   `json:"fees,omitempty"`
		Description  string   `json:"description,omitempty"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*tx = Transaction{
		ID:           temp.ID,
		Type:         temp.Type,
		Date:         temp.Date,
		AssetAmount:  temp.AssetAmount,
		PricePerUnit: temp.PricePerUnit,
		FiatAmount:   temp.FiatAmount,
		Fees:         USD(0),
		Description:  temp.Description,
	}
	if temp.Fees != nil {
		tx.Fees = *temp.Fees
	}
	return nil
}
