package satstack

import (
	"cmp"
	"slices"
)

// Lot is the quantity of bitcoin acquired by one buy or receive transaction,
// tracked while disposals consume it.
//
// Lots only exist during a single matching run, they are never persisted.
type Lot struct {
	SourceTransactionID string
	AcquiredDate        Date
	OriginalAmount      Quantity
	CostBasisTotal      Money // fiat amount of the acquisition, optionally with its fees.
	RemainingAmount     Quantity

	remainingCost Money // cost not yet attributed to a disposal.
	seq           int   // position of the source transaction in the ledger.
}

// UnitCost returns the original cost per unit of the lot.
func (lt *Lot) UnitCost() Money {
	return lt.CostBasisTotal.Div(lt.OriginalAmount).Round()
}

// RemainingCost returns the cost basis of the unconsumed quantity.
func (lt *Lot) RemainingCost() Money { return lt.remainingCost }

// consume removes q from the lot and returns its cost basis.
//
// The consumption that empties the lot receives exactly the remaining cost, so
// that the lot's cost is fully attributed whatever the rounding of previous
// partial consumptions.
func (lt *Lot) consume(q Quantity) Money {
	var cost Money
	if q.Equal(lt.RemainingAmount) {
		cost = lt.remainingCost
	} else {
		cost = lt.CostBasisTotal.Prorate(q, lt.OriginalAmount)
		if cost.GreaterThan(lt.remainingCost) {
			cost = lt.remainingCost
		}
	}
	lt.RemainingAmount = lt.RemainingAmount.Sub(q)
	lt.remainingCost = lt.remainingCost.Sub(cost)
	return cost
}

// lots is the arena of all the lots of a matching run, in ledger order.
type lots []*Lot

// newLots creates one lot per acquisition in txs, in the same order.
//
// txs must have been validated: every amount is positive.
func newLots(txs []Transaction, cfg TaxConfiguration) lots {
	var arena lots
	for i, tx := range txs {
		if !tx.Type.IsAcquisition() {
			continue
		}
		cost := tx.FiatAmount
		if cfg.IncludeFees && tx.Type == TxBuy {
			cost = cost.Add(tx.Fees)
		}
		cost = cost.Round()
		arena = append(arena, &Lot{
			SourceTransactionID: tx.ID,
			AcquiredDate:        tx.Date,
			OriginalAmount:      tx.AssetAmount,
			CostBasisTotal:      cost,
			RemainingAmount:     tx.AssetAmount,
			remainingCost:       cost,
			seq:                 i,
		})
	}
	return arena
}

// candidates returns the lots that can cover a disposal on the given day, in
// the order they must be consumed.
//
// Only lots acquired strictly before the disposal day and not yet exhausted
// are eligible.
func (l lots) candidates(on Date, method CostBasisMethod) []*Lot {
	var res []*Lot
	for _, lt := range l {
		if lt.RemainingAmount.IsPositive() && lt.AcquiredDate.Before(on) {
			res = append(res, lt)
		}
	}

	// res is in ledger order, stable sorts keep it for ties.
	switch method {
	case FIFO:
		slices.SortStableFunc(res, func(a, b *Lot) int {
			return a.AcquiredDate.Compare(b.AcquiredDate)
		})
	case LIFO:
		slices.SortStableFunc(res, func(a, b *Lot) int {
			if c := b.AcquiredDate.Compare(a.AcquiredDate); c != 0 {
				return c
			}
			return cmp.Compare(b.seq, a.seq)
		})
	case HIFO:
		slices.SortStableFunc(res, func(a, b *Lot) int {
			// compare b.cost/b.amount with a.cost/a.amount without dividing.
			if c := b.CostBasisTotal.value.Mul(a.OriginalAmount.value).Cmp(a.CostBasisTotal.value.Mul(b.OriginalAmount.value)); c != 0 {
				return c
			}
			return a.AcquiredDate.Compare(b.AcquiredDate)
		})
	}
	return res
}

// Open returns the lots that still hold some quantity, in ledger order.
func (l lots) Open() []Lot {
	var res []Lot
	for _, lt := range l {
		if lt.RemainingAmount.IsPositive() {
			res = append(res, *lt)
		}
	}
	return res
}
