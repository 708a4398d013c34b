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

type logCmd struct {
	start string
	date  string
	year  int
	head  int
	tail  int
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "list the transactions of the ledger" }
func (*logCmd) Usage() string {
	return `satstack log [-y <year> | -s <start_date>] [-d <end_date>] [-head <n>] [-tail <n>]

  Lists the transactions of the ledger, in ledger order, with options for
  filtering and limiting the output.
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "Only transactions on or after this date")
	f.StringVar(&c.date, "d", "", "Only transactions on or before this date")
	f.IntVar(&c.year, "y", 0, "Only transactions of this year")
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions")
}

func (c *logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	var start, end satstack.Date
	var err error
	if c.start != "" {
		if start, err = satstack.ParseDate(c.start); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if c.date != "" {
		if end, err = satstack.ParseDate(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	ledger, err := loadLedger()
	if err != nil {
		return failure(err)
	}

	var transactions []satstack.Transaction
	for _, tx := range ledger.List() {
		switch {
		case c.year != 0 && tx.Date.Year() != c.year:
		case !start.IsZero() && tx.Date.Before(start):
		case !end.IsZero() && tx.Date.After(end):
		default:
			transactions = append(transactions, tx)
		}
	}

	if c.head > 0 && len(transactions) > c.head {
		transactions = transactions[:c.head]
	}
	if c.tail > 0 && len(transactions) > c.tail {
		transactions = transactions[len(transactions)-c.tail:]
	}

	printMarkdown(renderer.LogMarkdown(transactions))
	return subcommands.ExitSuccess
}
