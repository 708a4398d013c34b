package satstack

import "fmt"

// Holding is the bitcoin still held on a given day, valued at a given price.
//
// It is a display only view: unrealized gains never enter tax reports.
type Holding struct {
	Date           Date
	Lots           []HoldingLot // open lots in ledger order.
	Quantity       Quantity
	CostBasis      Money
	AverageCost    Money // cost basis per unit, zero when nothing is held.
	Price          Money
	MarketValue    Money
	UnrealizedGain Money

	// HarvestableLoss is the sum of the unrealized losses of the lots held at
	// a loss, as a negative amount. Selling those lots would realize it.
	HarvestableLoss Money
}

// HoldingLot is an open lot valued on the holding day.
type HoldingLot struct {
	Lot
	HoldingDays    int
	Term           Term // term the lot would get if disposed of on the holding day.
	MarketValue    Money
	UnrealizedGain Money
}

// NewHolding matches every transaction up to and including day on, and
// returns the lots left open, valued at price.
//
// Invalid transactions are reported the same way as ComputeDisposals.
func NewHolding(txs []Transaction, cfg TaxConfiguration, on Date, price Money) (*Holding, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tax configuration: %w", err)
	}
	var upto []Transaction
	for _, tx := range txs {
		if !tx.Date.After(on) {
			upto = append(upto, tx)
		}
	}
	arena, _, err := match(upto, cfg)

	h := &Holding{
		Date:            on,
		CostBasis:       USD(0),
		Price:           price,
		HarvestableLoss: USD(0),
	}
	for _, lt := range arena.Open() {
		days := on.DaysSince(lt.AcquiredDate)
		value := price.Mul(lt.RemainingAmount).Round()
		hl := HoldingLot{
			Lot:            lt,
			HoldingDays:    days,
			Term:           termOf(days),
			MarketValue:    value,
			UnrealizedGain: value.Sub(lt.remainingCost),
		}
		if hl.UnrealizedGain.IsNegative() {
			h.HarvestableLoss = h.HarvestableLoss.Add(hl.UnrealizedGain)
		}
		h.Lots = append(h.Lots, hl)
		h.Quantity = h.Quantity.Add(lt.RemainingAmount)
		h.CostBasis = h.CostBasis.Add(lt.remainingCost)
	}
	h.AverageCost = USD(0)
	if h.Quantity.IsPositive() {
		h.AverageCost = h.CostBasis.Div(h.Quantity).Round()
	}
	h.MarketValue = price.Mul(h.Quantity).Round()
	h.UnrealizedGain = h.MarketValue.Sub(h.CostBasis)
	return h, err
}
