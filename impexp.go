package satstack

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// this file contains the CSV formats exchanged with spreadsheets and tax
// software.

// disposalsCSVHeader is the header row of the disposals export.
var disposalsCSVHeader = []string{
	"Date Acquired",
	"Date Disposed",
	"Bitcoin Amount",
	"Proceeds",
	"Cost Basis",
	"Gain/Loss",
	"Term",
}

// EncodeDisposalsCSV writes the disposals to w, one row per disposal, after
// a header row.
//
// Unmatched disposals have an "Unknown" acquisition date.
func EncodeDisposalsCSV(w io.Writer, disposals []Disposal) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(disposalsCSVHeader); err != nil {
		return fmt.Errorf("cannot write csv header: %w", err)
	}
	for _, d := range disposals {
		acquired := "Unknown"
		if d.Matched() {
			acquired = d.AcquiredDate.String()
		}
		term := "Short Term"
		if d.Term == LongTerm {
			term = "Long Term"
		}
		row := []string{
			acquired,
			d.DisposedDate.String(),
			d.AssetAmount.String(),
			d.Proceeds.Decimal(),
			d.CostBasis.Decimal(),
			d.Gain.Decimal(),
			term,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("cannot write disposal of %q: %w", d.DisposalTransactionID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// csvColumns maps the accepted header names, lower cased, to the transaction
// field they fill.
var csvColumns = map[string]string{
	"id":             "id",
	"date":           "date",
	"time":           "date",
	"type":           "type",
	"amount":         "amount",
	"asset amount":   "amount",
	"bitcoin amount": "amount",
	"quantity":       "amount",
	"fiat":           "fiat",
	"fiat amount":    "fiat",
	"total":          "fiat",
	"cost":           "fiat",
	"price":          "price",
	"price per unit": "price",
	"fee":            "fees",
	"fees":           "fees",
	"description":    "description",
	"note":           "description",
}

// DecodeTransactionsCSV reads transactions from a CSV file with a header row.
//
// Columns are identified by name: date, type, amount and fiat are
// required; id, price, fees and description are optional. Rows without an id
// get one when added to a Ledger. A missing price is derived from the fiat
// amount.
func DecodeTransactionsCSV(r io.Reader) ([]Transaction, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read csv header: %w", err)
	}
	idx := make(map[string]int)
	for i, h := range header {
		if field, ok := csvColumns[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, dup := idx[field]; !dup {
				idx[field] = i
			}
		}
	}
	var missing []string
	for _, field := range []string{"date", "type", "amount", "fiat"} {
		if _, ok := idx[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv header %q lacks columns %s", header, strings.Join(missing, ", "))
	}

	get := func(record []string, field string) string {
		i, ok := idx[field]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var txs []Transaction
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		tx, err := decodeCSVRecord(func(field string) string { return get(record, field) })
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func decodeCSVRecord(get func(string) string) (Transaction, error) {
	var errs []error
	on, err := ParseDate(get("date"))
	if err != nil {
		errs = append(errs, err)
	}
	typ, err := ParseTxType(get("type"))
	if err != nil {
		errs = append(errs, err)
	}
	amount, err := ParseQuantity(get("amount"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid amount: %w", err))
	}
	fiat, err := ParseMoney(get("fiat"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid fiat amount: %w", err))
	}
	fees := USD(0)
	if s := get("fees"); s != "" {
		if fees, err = ParseMoney(s); err != nil {
			errs = append(errs, fmt.Errorf("invalid fees: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return Transaction{}, err
	}

	tx := NewTransaction(get("id"), typ, on, amount, fiat).
		WithFees(fees).
		WithDescription(get("description"))
	if s := get("price"); s != "" {
		if tx.PricePerUnit, err = ParseMoney(s); err != nil {
			return Transaction{}, fmt.Errorf("invalid price: %w", err)
		}
	}
	return tx, nil
}
