package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/etnz/satstack"
	"github.com/google/subcommands"
)

// taxFlags override the stored tax settings for one command.
type taxFlags struct {
	method      string
	includeFees string
	shortTerm   string
	longTerm    string
}

func (t *taxFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&t.method, "method", "", "Cost basis method (fifo, lifo, hifo), defaults to the settings")
	f.StringVar(&t.includeFees, "include-fees", "", "Include fees in the cost basis (true, false), defaults to the settings")
	f.StringVar(&t.shortTerm, "short", "", "Short term tax rate in percent, defaults to the settings")
	f.StringVar(&t.longTerm, "long", "", "Long term tax rate in percent, defaults to the settings")
}

// apply returns cfg with the flags that were set.
func (t *taxFlags) apply(cfg satstack.TaxConfiguration) (satstack.TaxConfiguration, error) {
	var errs []error
	var err error
	if t.method != "" {
		if cfg.CostBasisMethod, err = satstack.ParseCostBasisMethod(t.method); err != nil {
			errs = append(errs, err)
		}
	}
	if t.includeFees != "" {
		if cfg.IncludeFees, err = strconv.ParseBool(t.includeFees); err != nil {
			errs = append(errs, fmt.Errorf("invalid include-fees flag %q: %w", t.includeFees, err))
		}
	}
	if t.shortTerm != "" {
		if cfg.ShortTermRate, err = satstack.ParsePercent(t.shortTerm); err != nil {
			errs = append(errs, err)
		}
	}
	if t.longTerm != "" {
		if cfg.LongTermRate, err = satstack.ParsePercent(t.longTerm); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		errs = append(errs, cfg.Validate())
	}
	return cfg, errors.Join(errs...)
}

// configuration loads the settings file and applies the overrides.
func (t *taxFlags) configuration() (satstack.TaxConfiguration, error) {
	cfg, err := loadSettings()
	if err != nil {
		return cfg, err
	}
	return t.apply(cfg)
}

// source loads the ledger transactions and the tax configuration, or exits
// with the matching status.
func (t *taxFlags) source() ([]satstack.Transaction, satstack.TaxConfiguration, subcommands.ExitStatus) {
	cfg, err := t.configuration()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, cfg, subcommands.ExitUsageError
	}
	ledger, err := loadLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, cfg, subcommands.ExitFailure
	}
	return ledger.List(), cfg, subcommands.ExitSuccess
}

type settingsCmd struct {
	tax taxFlags
}

func (*settingsCmd) Name() string     { return "settings" }
func (*settingsCmd) Synopsis() string { return "show or change the tax settings" }
func (*settingsCmd) Usage() string {
	return `satstack settings [-method <method>] [-include-fees <true|false>] [-short <rate>] [-long <rate>]

  Without flags, prints the tax settings. With flags, changes and saves them.
`
}

func (c *settingsCmd) SetFlags(f *flag.FlagSet) { c.tax.SetFlags(f) }

func (c *settingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := c.tax.configuration()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if f.NFlag() > 0 {
		if err := satstack.SaveTaxConfiguration(*settingsFile, cfg); err != nil {
			return failure(err)
		}
	}
	printMarkdown(fmt.Sprintf(`# Tax Settings

| Setting | Value |
|:---|---:|
| Cost basis method | %s |
| Include fees | %t |
| Short term rate | %s |
| Long term rate | %s |
`, cfg.CostBasisMethod, cfg.IncludeFees, cfg.ShortTermRate, cfg.LongTermRate))
	return subcommands.ExitSuccess
}
