package satstack

import (
	"errors"
	"fmt"
)

// Transaction validation failures.
var (
	// ErrMissingID indicates a transaction without identifier.
	ErrMissingID = errors.New("transaction id is missing")
	// ErrInvalidType indicates an unknown transaction type.
	ErrInvalidType = errors.New("invalid transaction type")
	// ErrInvalidDate indicates a missing or malformed transaction date.
	ErrInvalidDate = errors.New("invalid transaction date")
	// ErrInvalidAmount indicates an asset amount that is zero or negative.
	ErrInvalidAmount = errors.New("asset amount must be positive")
	// ErrNegativeFiat indicates a negative fiat amount or price.
	ErrNegativeFiat = errors.New("fiat amount cannot be negative")
	// ErrNegativeFee indicates a negative fee.
	ErrNegativeFee = errors.New("fees cannot be negative")
	// ErrCurrency indicates a fiat amount, price or fee not in the Fiat currency.
	ErrCurrency = errors.New("unsupported currency")
)

// Ledger failures.
var (
	// ErrDuplicateID indicates that a transaction with the same id already exists.
	ErrDuplicateID = errors.New("duplicate transaction id")
	// ErrTransactionNotFound indicates that no transaction has the given id.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// ValidationError reports why a single transaction was rejected.
type ValidationError struct {
	TxID string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("transaction %q: %v", e.TxID, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ValidationErrors extracts all the ValidationError joined in err.
func ValidationErrors(err error) []*ValidationError {
	if err == nil {
		return nil
	}
	var res []*ValidationError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			res = append(res, ValidationErrors(e)...)
		}
		return res
	}
	var v *ValidationError
	if errors.As(err, &v) {
		res = append(res, v)
	}
	return res
}
