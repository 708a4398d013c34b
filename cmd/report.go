package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/etnz/satstack"
	"github.com/etnz/satstack/renderer"
	"github.com/google/subcommands"
)

// yearArg parses the optional year argument, defaulting to the current year.
func yearArg(f *flag.FlagSet) (int, error) {
	switch f.NArg() {
	case 0:
		return satstack.Today().Year(), nil
	case 1:
		year, err := strconv.Atoi(f.Arg(0))
		if err != nil || year < 1 {
			return 0, fmt.Errorf("invalid year %q", f.Arg(0))
		}
		return year, nil
	default:
		return 0, fmt.Errorf("too many arguments")
	}
}

type disposalsCmd struct {
	tax taxFlags
	all bool
}

func (*disposalsCmd) Name() string     { return "disposals" }
func (*disposalsCmd) Synopsis() string { return "list the lots consumed by each disposal" }
func (*disposalsCmd) Usage() string {
	return `satstack disposals [-all] [-method <method>] [-include-fees <true|false>] [<year>]

  Lists the disposals of the year (the current one by default), one row per
  consumed lot, with their cost basis, gain and holding term.
`
}

func (c *disposalsCmd) SetFlags(f *flag.FlagSet) {
	c.tax.SetFlags(f)
	f.BoolVar(&c.all, "all", false, "List the disposals of every year")
}

func (c *disposalsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printMarkdown(renderer.DisposalsMarkdown(disposals))
	return subcommands.ExitSuccess
}

type reportCmd struct {
	tax  taxFlags
	html bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "compute the tax report of a year" }
func (*reportCmd) Usage() string {
	return `satstack report [-html] [-method <method>] [-include-fees <true|false>] [-short <rate>] [-long <rate>] [<year>]

  Computes the capital gains of the year (the current one by default), split
  by holding term and by month, and the estimated tax.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.tax.SetFlags(f)
	f.BoolVar(&c.html, "html", false, "Print the report as an HTML document")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	year, err := yearArg(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	txs, cfg, status := c.tax.source()
	if status != subcommands.ExitSuccess {
		return status
	}
	report, err := satstack.NewYearlyTaxReport(txs, cfg, year)
	reportInvalid(err)

	md := renderer.TaxReportMarkdown(report, cfg)
	if c.html {
		html, err := renderer.HTML(md)
		if err != nil {
			return failure(err)
		}
		fmt.Print(html)
		return subcommands.ExitSuccess
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

type summaryCmd struct {
	tax taxFlags
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "summarize the gains and taxes of every year" }
func (*summaryCmd) Usage() string {
	return `satstack summary [-method <method>] [-include-fees <true|false>] [-short <rate>] [-long <rate>] [<year>...]

  Prints one row per year, every year of the ledger by default.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) { c.tax.SetFlags(f) }

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var years []int
	for _, arg := range f.Args() {
		year, err := strconv.Atoi(arg)
		if err != nil || year < 1 {
			fmt.Fprintf(os.Stderr, "Error: invalid year %q\n", arg)
			return subcommands.ExitUsageError
		}
		years = append(years, year)
	}
	txs, cfg, status := c.tax.source()
	if status != subcommands.ExitSuccess {
		return status
	}
	reports, err := satstack.TaxSummaries(txs, cfg, years...)
	reportInvalid(err)
	printMarkdown(renderer.SummaryMarkdown(reports))
	return subcommands.ExitSuccess
}

type quarterlyCmd struct {
	tax  taxFlags
	date string
}

func (*quarterlyCmd) Name() string     { return "quarterly" }
func (*quarterlyCmd) Synopsis() string { return "split the estimated tax in quarterly payments" }
func (*quarterlyCmd) Usage() string {
	return `satstack quarterly [-d <date>] [-method <method>] [-include-fees <true|false>] [-short <rate>] [-long <rate>] [<year>]

  Splits the estimated tax of the year (the current one by default) in four
  installments, and flags those due on the given date.
`
}

func (c *quarterlyCmd) SetFlags(f *flag.FlagSet) {
	c.tax.SetFlags(f)
	f.StringVar(&c.date, "d", satstack.Today().String(), "Reference date for the due installments")
}

func (c *quarterlyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	year, err := yearArg(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	on, err := satstack.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	txs, cfg, status := c.tax.source()
	if status != subcommands.ExitSuccess {
		return status
	}
	report, err := satstack.NewYearlyTaxReport(txs, cfg, year)
	reportInvalid(err)
	printMarkdown(renderer.QuarterlyMarkdown(year, satstack.QuarterlyEstimates(report, on)))
	return subcommands.ExitSuccess
}
