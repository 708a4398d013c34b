package satstack

import (
	"errors"
	"fmt"
	"slices"
)

// LongTermThreshold is the number of held days a disposal must exceed to be
// long term.
const LongTermThreshold = 365

// Term classifies a disposal by its holding period.
type Term string

const (
	ShortTerm Term = "short"
	LongTerm  Term = "long"
)

// termOf returns the term of a holding period of the given number of days.
func termOf(days int) Term {
	if days > LongTermThreshold {
		return LongTerm
	}
	return ShortTerm
}

// Disposal is the realized gain of the portion of a disposal transaction
// that consumed a single lot.
//
// A disposal that could not be matched against any lot has an empty
// LotSourceTransactionID, a zero AcquiredDate and a zero CostBasis.
type Disposal struct {
	DisposalTransactionID  string
	LotSourceTransactionID string
	AcquiredDate           Date
	DisposedDate           Date
	AssetAmount            Quantity
	Proceeds               Money
	CostBasis              Money
	Fee                    Money // share of the disposal fees deducted from the gain.
	Gain                   Money
	HoldingDays            int
	Term                   Term
}

// Matched reports whether the disposal consumed a lot.
func (d Disposal) Matched() bool { return d.LotSourceTransactionID != "" }

// MarshalJSON implements the json.Marshaler interface with a canonical field order.
func (d Disposal) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("disposalTransactionId", d.DisposalTransactionID)
	w.Optional("lotSourceTransactionId", d.LotSourceTransactionID)
	w.Optional("acquiredDate", d.AcquiredDate)
	w.Append("disposedDate", d.DisposedDate)
	w.Append("assetAmount", d.AssetAmount)
	w.Append("proceeds", d.Proceeds)
	w.Append("costBasis", d.CostBasis)
	w.Append("fee", d.Fee)
	w.Append("gain", d.Gain)
	w.Append("holdingDays", d.HoldingDays)
	w.Append("term", d.Term)
	return w.MarshalJSON()
}

// ComputeDisposals matches every disposal transaction against the lots
// created by the acquisitions of txs, using the configured cost basis method.
//
// txs is the full ledger, in ledger order. The result is ordered by disposal
// transaction (ascending date, then ledger order) and, within a transaction,
// by lot consumption order.
//
// Invalid transactions are ignored and reported in the returned error as
// joined *ValidationError values, the disposals computed from the other
// transactions are still returned. An invalid configuration returns no
// disposals.
func ComputeDisposals(txs []Transaction, cfg TaxConfiguration) ([]Disposal, error) {
	_, disposals, err := match(txs, cfg)
	return disposals, err
}

// match runs a complete matching of txs and returns the lot arena in its
// final state along with the disposals.
func match(txs []Transaction, cfg TaxConfiguration) (lots, []Disposal, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid tax configuration: %w", err)
	}
	valid, errs := validTransactions(txs)

	arena := newLots(valid, cfg)

	// disposals in ascending date, same day in ledger order.
	var outgoing []Transaction
	for _, tx := range valid {
		if tx.Type.IsDisposal() {
			outgoing = append(outgoing, tx)
		}
	}
	slices.SortStableFunc(outgoing, func(a, b Transaction) int { return a.Date.Compare(b.Date) })

	var res []Disposal
	for _, tx := range outgoing {
		res = arena.dispose(res, tx, cfg)
	}
	return arena, res, errors.Join(errs...)
}

// validTransactions returns the valid transactions of txs, in the same order,
// and one error per rejected transaction.
func validTransactions(txs []Transaction) ([]Transaction, []error) {
	valid := make([]Transaction, 0, len(txs))
	var errs []error
	seen := make(map[string]struct{}, len(txs))
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := seen[tx.ID]; dup {
			errs = append(errs, &ValidationError{TxID: tx.ID, Err: ErrDuplicateID})
			continue
		}
		seen[tx.ID] = struct{}{}
		valid = append(valid, tx)
	}
	return valid, errs
}

// dispose consumes the lots available for tx and appends the resulting
// disposals to res.
func (l lots) dispose(res []Disposal, tx Transaction, cfg TaxConfiguration) []Disposal {
	remaining := tx.AssetAmount
	proceedsTotal := tx.FiatAmount.Round()
	feesTotal := USD(0)
	if cfg.IncludeFees {
		feesTotal = tx.Fees.Round()
	}
	proceedsLeft, feesLeft := proceedsTotal, feesTotal

	// share returns the part of total attributable to q. The portion that
	// completes the transaction gets whatever is left.
	share := func(total, left Money, q Quantity) Money {
		if q.Equal(remaining) {
			return left
		}
		p := total.Prorate(q, tx.AssetAmount)
		if p.GreaterThan(left) {
			return left
		}
		return p
	}

	for _, lt := range l.candidates(tx.Date, cfg.CostBasisMethod) {
		if !remaining.IsPositive() {
			break
		}
		consumed := remaining.Min(lt.RemainingAmount)
		proceeds := share(proceedsTotal, proceedsLeft, consumed)
		fee := share(feesTotal, feesLeft, consumed)
		cost := lt.consume(consumed)
		days := tx.Date.DaysSince(lt.AcquiredDate)

		res = append(res, Disposal{
			DisposalTransactionID:  tx.ID,
			LotSourceTransactionID: lt.SourceTransactionID,
			AcquiredDate:           lt.AcquiredDate,
			DisposedDate:           tx.Date,
			AssetAmount:            consumed,
			Proceeds:               proceeds,
			CostBasis:              cost,
			Fee:                    fee,
			Gain:                   proceeds.Sub(cost).Sub(fee),
			HoldingDays:            days,
			Term:                   termOf(days),
		})
		proceedsLeft = proceedsLeft.Sub(proceeds)
		feesLeft = feesLeft.Sub(fee)
		remaining = remaining.Sub(consumed)
	}

	if remaining.IsPositive() {
		// no lot left to cover the rest: zero cost basis, short term.
		res = append(res, Disposal{
			DisposalTransactionID: tx.ID,
			DisposedDate:          tx.Date,
			AssetAmount:           remaining,
			Proceeds:              proceedsLeft,
			CostBasis:             USD(0),
			Fee:                   feesLeft,
			Gain:                  proceedsLeft.Sub(feesLeft),
			HoldingDays:           0,
			Term:                  ShortTerm,
		})
	}
	return res
}
