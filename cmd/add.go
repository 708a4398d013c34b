package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/satstack"
	"github.com/etnz/satstack/renderer"
	"github.com/google/subcommands"
)

// addCmd appends one transaction of a given type to the ledger.
type addCmd struct {
	typ satstack.TxType

	id     string
	date   string
	amount string
	fiat   string
	price  string
	fees   string
	memo   string
}

func newAddCmd(typ satstack.TxType) *addCmd { return &addCmd{typ: typ} }

var addSynopsis = map[satstack.TxType]string{
	satstack.TxBuy:     "record bitcoin bought against dollars",
	satstack.TxSell:    "record bitcoin sold against dollars",
	satstack.TxSend:    "record bitcoin sent out of the portfolio",
	satstack.TxReceive: "record bitcoin received into the portfolio",
	satstack.TxSpend:   "record bitcoin spent on goods or services",
}

func (c *addCmd) Name() string     { return string(c.typ) }
func (c *addCmd) Synopsis() string { return addSynopsis[c.typ] }
func (c *addCmd) Usage() string {
	fiat := "-f <fiat>"
	if c.typ == satstack.TxSend {
		fiat = "[-f <fiat>]"
	}
	return fmt.Sprintf(`satstack %s [-d <date>] -a <amount> %s [-p <price>] [-fees <fees>] [-m <memo>] [-id <id>]

  Appends a %q transaction to the ledger. The amount is in bitcoin and always
  positive, the fiat amount is the total in dollars. The price per unit
  defaults to fiat/amount.
`, c.typ, fiat, c.typ)
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Transaction id, generated when empty")
	f.StringVar(&c.date, "d", satstack.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.amount, "a", "", "Bitcoin amount")
	f.StringVar(&c.fiat, "f", "", "Total fiat amount in dollars")
	f.StringVar(&c.price, "p", "", "Price of one bitcoin in dollars")
	f.StringVar(&c.fees, "fees", "", "Fees in dollars")
	f.StringVar(&c.memo, "m", "", "An optional description of the transaction")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" || (c.fiat == "" && c.typ != satstack.TxSend) {
		f.Usage()
		return subcommands.ExitUsageError
	}
	tx, err := c.transaction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := loadLedger()
	if err != nil {
		return failure(err)
	}
	tx, err = ledger.Add(tx)
	if err != nil {
		return failure(err)
	}
	if err := saveLedger(ledger); err != nil {
		return failure(err)
	}

	printMarkdown(renderer.Transaction(tx))
	return subcommands.ExitSuccess
}

// transaction builds the transaction from the flags.
func (c *addCmd) transaction() (satstack.Transaction, error) {
	on, err := satstack.ParseDate(c.date)
	if err != nil {
		return satstack.Transaction{}, fmt.Errorf("invalid date: %w", err)
	}
	amount, err := satstack.ParseQuantity(c.amount)
	if err != nil {
		return satstack.Transaction{}, fmt.Errorf("invalid amount: %w", err)
	}
	fiat := satstack.USD(0)
	if c.fiat != "" {
		if fiat, err = satstack.ParseMoney(c.fiat); err != nil {
			return satstack.Transaction{}, fmt.Errorf("invalid fiat amount: %w", err)
		}
	}
	tx := satstack.NewTransaction(c.id, c.typ, on, amount, fiat).WithDescription(c.memo)
	if c.price != "" {
		if tx.PricePerUnit, err = satstack.ParseMoney(c.price); err != nil {
			return satstack.Transaction{}, fmt.Errorf("invalid price: %w", err)
		}
	}
	if c.fees != "" {
		fees, err := satstack.ParseMoney(c.fees)
		if err != nil {
			return satstack.Transaction{}, fmt.Errorf("invalid fees: %w", err)
		}
		tx = tx.WithFees(fees)
	}
	return tx, nil
}
