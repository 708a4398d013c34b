package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/satstack"
	"github.com/etnz/satstack/price"
	"github.com/etnz/satstack/renderer"
	"github.com/google/subcommands"
)

type holdingCmd struct {
	tax   taxFlags
	date  string
	price string
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "show the open lots and their unrealized gain" }
func (*holdingCmd) Usage() string {
	return `satstack holding [-d <date>] [-price <price>] [-method <method>] [-include-fees <true|false>]

  Shows the bitcoin held on a day, lot by lot, valued at the price of that
  day. The price is fetched from CoinGecko unless -price is given.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	c.tax.SetFlags(f)
	f.StringVar(&c.date, "d", satstack.Today().String(), "Holding date (YYYY-MM-DD)")
	f.StringVar(&c.price, "price", "", "Price of one bitcoin in dollars, fetched when empty")
}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := satstack.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	txs, cfg, status := c.tax.source()
	if status != subcommands.ExitSuccess {
		return status
	}

	var p satstack.Money
	if c.price != "" {
		if p, err = satstack.ParseMoney(c.price); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing price: %v\n", err)
			return subcommands.ExitUsageError
		}
	} else {
		oracle, err := newOracle(price.Daily(appConfig.Price.CacheDir), time.Minute)
		if err != nil {
			return failure(err)
		}
		if p, err = quote(ctx, oracle, on); err != nil {
			return failure(err)
		}
	}

	h, err := satstack.NewHolding(txs, cfg, on, p)
	if h == nil {
		return failure(err)
	}
	reportInvalid(err)
	printMarkdown(renderer.HoldingMarkdown(h))
	return subcommands.ExitSuccess
}
