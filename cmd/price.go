package cmd

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/etnz/satstack"
	"github.com/etnz/satstack/internal/logger"
	"github.com/etnz/satstack/price"
	"github.com/google/subcommands"
)

// newOracle returns the CoinGecko oracle behind a fallback on the configured
// estimate.
func newOracle(client *http.Client, ttl time.Duration) (*price.Fallback, error) {
	estimate := satstack.USD(0)
	if appConfig.Price.Estimate != "" {
		var err error
		if estimate, err = satstack.ParseMoney(appConfig.Price.Estimate); err != nil {
			return nil, fmt.Errorf("invalid price estimate %q: %w", appConfig.Price.Estimate, err)
		}
	}
	oracle := price.NewCoinGecko(client, appConfig.Price.CoinGeckoAPIKey)
	return price.NewFallback(oracle, ttl, estimate, logger.Get()), nil
}

// quote returns the price of one bitcoin on the given day, the latest one
// when on is today or later.
func quote(ctx context.Context, oracle price.Oracle, on satstack.Date) (satstack.Money, error) {
	if on.Before(satstack.Today()) {
		return oracle.Historical(ctx, on)
	}
	return oracle.Current(ctx)
}

type priceCmd struct {
	date string
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "print the price of one bitcoin" }
func (*priceCmd) Usage() string {
	return `satstack price [-d <date>]

  Prints the price of one bitcoin in dollars, on the given day. Quotes are
  cached for the day.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", satstack.Today().String(), "Quote date (YYYY-MM-DD)")
}

func (c *priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := satstack.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	oracle, err := newOracle(price.Daily(appConfig.Price.CacheDir), time.Minute)
	if err != nil {
		return failure(err)
	}
	p, err := quote(ctx, oracle, on)
	if err != nil {
		return failure(err)
	}
	fmt.Printf("%s: %s\n", on, p)
	return subcommands.ExitSuccess
}
