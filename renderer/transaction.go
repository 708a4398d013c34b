package renderer

import (
	"fmt"

	"github.com/etnz/satstack"
)

// Transaction renders a transaction to a string.
func Transaction(tx satstack.Transaction) string {
	var s string
	switch tx.Type {
	case satstack.TxBuy:
		s = fmt.Sprintf("Bought %s BTC for %s", tx.AssetAmount, tx.FiatAmount)
	case satstack.TxSell:
		s = fmt.Sprintf("Sold %s BTC for %s", tx.AssetAmount, tx.FiatAmount)
	case satstack.TxSend:
		s = fmt.Sprintf("Sent %s BTC worth %s", tx.AssetAmount, tx.FiatAmount)
	case satstack.TxReceive:
		s = fmt.Sprintf("Received %s BTC worth %s", tx.AssetAmount, tx.FiatAmount)
	case satstack.TxSpend:
		s = fmt.Sprintf("Spent %s BTC on %s", tx.AssetAmount, tx.FiatAmount)
	default:
		s = fmt.Sprintf("%s %s BTC for %s", tx.Type, tx.AssetAmount, tx.FiatAmount)
	}
	if !tx.Fees.IsZero() {
		s += fmt.Sprintf(" (fees %s)", tx.Fees)
	}
	return s
}
