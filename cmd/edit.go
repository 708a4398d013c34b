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

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "remove transactions from the ledger" }
func (*rmCmd) Usage() string {
	return `satstack rm <id>...

  Removes the transactions with the given ids from the ledger.
`
}

func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (*rmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	ledger, err := loadLedger()
	if err != nil {
		return failure(err)
	}
	for _, id := range f.Args() {
		if err := ledger.Remove(id); err != nil {
			return failure(err)
		}
	}
	if err := saveLedger(ledger); err != nil {
		return failure(err)
	}
	fmt.Printf("Removed %d transaction(s) from %s\n", f.NArg(), *ledgerFile)
	return subcommands.ExitSuccess
}

// editCmd changes some fields of an existing transaction. The transaction
// keeps its position in the ledger.
type editCmd struct {
	add addCmd
	typ string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change a transaction of the ledger" }
func (*editCmd) Usage() string {
	return `satstack edit [-t <type>] [-d <date>] [-a <amount>] [-f <fiat>] [-p <price>] [-fees <fees>] [-m <memo>] <id>

  Changes the given fields of the transaction <id>, the others are kept.
  Changing the amount or the fiat amount recomputes the price per unit unless
  -p is given.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "t", "", "Transaction type (buy, sell, send, receive, spend)")
	f.StringVar(&c.add.date, "d", "", "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.add.amount, "a", "", "Bitcoin amount")
	f.StringVar(&c.add.fiat, "f", "", "Total fiat amount in dollars")
	f.StringVar(&c.add.price, "p", "", "Price of one bitcoin in dollars")
	f.StringVar(&c.add.fees, "fees", "", "Fees in dollars")
	f.StringVar(&c.add.memo, "m", "", "Description of the transaction")
}

func (c *editCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	ledger, err := loadLedger()
	if err != nil {
		return failure(err)
	}
	tx, ok := ledger.Get(f.Arg(0))
	if !ok {
		return failure(fmt.Errorf("%w: %q", satstack.ErrTransactionNotFound, f.Arg(0)))
	}

	// only the flags actually set change the transaction.
	repriced := false
	var errs []error
	f.Visit(func(fl *flag.Flag) {
		var err error
		switch fl.Name {
		case "t":
			tx.Type, err = satstack.ParseTxType(c.typ)
		case "d":
			tx.Date, err = satstack.ParseDate(c.add.date)
		case "a":
			tx.AssetAmount, err = satstack.ParseQuantity(c.add.amount)
			repriced = true
		case "f":
			tx.FiatAmount, err = satstack.ParseMoney(c.add.fiat)
			repriced = true
		case "fees":
			tx.Fees, err = satstack.ParseMoney(c.add.fees)
		case "m":
			tx.Description = c.add.memo
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid -%s: %w", fl.Name, err))
		}
	})
	if repriced && tx.AssetAmount.IsPositive() {
		tx.PricePerUnit = tx.FiatAmount.Div(tx.AssetAmount).Round()
	}
	if c.add.price != "" {
		price, err := satstack.ParseMoney(c.add.price)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid -p: %w", err))
		}
		tx.PricePerUnit = price
	}
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return subcommands.ExitUsageError
	}

	if err := ledger.Update(tx); err != nil {
		return failure(err)
	}
	if err := saveLedger(ledger); err != nil {
		return failure(err)
	}
	printMarkdown(renderer.Transaction(tx))
	return subcommands.ExitSuccess
}
