package satstack

import "time"

// day is a helper for test to create a date from const.
func day(y int, m time.Month, d int) Date { return NewDate(y, m, d) }

// buy is a helper for test to create a buy transaction without fees.
func buy(id string, on Date, amount, fiat float64) Transaction {
	return NewTransaction(id, TxBuy, on, Q(amount), USD(fiat))
}

// sell is a helper for test to create a sell transaction without fees.
func sell(id string, on Date, amount, fiat float64) Transaction {
	return NewTransaction(id, TxSell, on, Q(amount), USD(fiat))
}

// config is a helper for test to create a tax configuration with the default
// rates.
func config(method CostBasisMethod, includeFees bool) TaxConfiguration {
	cfg := DefaultTaxConfiguration()
	cfg.CostBasisMethod = method
	cfg.IncludeFees = includeFees
	return cfg
}
