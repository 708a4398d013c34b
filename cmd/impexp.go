package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/satstack"
	"github.com/google/subcommands"
)

type exportCmd struct {
	tax    taxFlags
	all    bool
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the disposals of a year as CSV" }
func (*exportCmd) Usage() string {
	return `satstack export [-all] [-o <file>] [-method <method>] [-include-fees <true|false>] [<year>]

  Writes the disposals of the year (the current one by default) in CSV, the
  format expected by tax software.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.tax.SetFlags(f)
	f.BoolVar(&c.all, "all", false, "Export the disposals of every year")
	f.StringVar(&c.output, "o", "", "Output file, defaults to stdout")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	year, err := yearArg(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	txs, cfg, status := c.tax.source()
	if status != subcommands.ExitSuccess {
		return status
	}
	disposals, err := satstack.ComputeDisposals(txs, cfg)
	reportInvalid(err)
	if !c.all {
		disposals = satstack.AggregateYear(disposals, year).Disposals
	}

	var w io.Writer = os.Stdout
	if c.output != "" {
		out, err := os.Create(c.output)
		if err != nil {
			return failure(err)
		}
		defer out.Close()
		w = out
	}
	if err := satstack.EncodeDisposalsCSV(w, disposals); err != nil {
		return failure(err)
	}
	return subcommands.ExitSuccess
}

type importCmd struct {
	dryRun bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a CSV file" }
func (*importCmd) Usage() string {
	return `satstack import [-dry-run] <file.csv>

  Appends the transactions of a CSV file to the ledger. The file needs a
  header row, see "satstack topic ledger" for the accepted columns.
  Nothing is imported if any row is invalid.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "dry-run", false, "Check the file without changing the ledger")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	in, err := os.Open(f.Arg(0))
	if err != nil {
		return failure(err)
	}
	defer in.Close()

	txs, err := satstack.DecodeTransactionsCSV(in)
	if err != nil {
		return failure(err)
	}
	ledger, err := loadLedger()
	if err != nil {
		return failure(err)
	}
	failed := false
	for _, tx := range txs {
		if _, err := ledger.Add(tx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed = true
		}
	}
	if failed {
		return subcommands.ExitFailure
	}
	if c.dryRun {
		fmt.Printf("%d transaction(s) can be imported into %s\n", len(txs), *ledgerFile)
		return subcommands.ExitSuccess
	}
	if err := saveLedger(ledger); err != nil {
		return failure(err)
	}
	fmt.Printf("Imported %d transaction(s) into %s\n", len(txs), *ledgerFile)
	return subcommands.ExitSuccess
}
