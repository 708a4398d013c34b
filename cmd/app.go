// Package cmd implements the satstack command line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/satstack"
	"github.com/etnz/satstack/internal/config"
	"github.com/google/subcommands"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	ledgerFile   = flag.String("ledger-file", "", "Path to the ledger file (JSONL format), defaults to $SATSTACK_LEDGER_FILE or satstack.jsonl")
	settingsFile = flag.String("settings-file", "", "Path to the tax settings file (JSON format), defaults to $SATSTACK_SETTINGS_FILE or satstack-settings.json")
	raw          = flag.Bool("raw", false, "Print reports as plain markdown")
	Verbose      = flag.Bool("v", false, "Verbose logging")
)

// appConfig is the environment configuration, set by Register.
var appConfig = new(config.Config)

// Register the subcommands. Flags parsed afterwards override the
// configuration values.
func Register(c *subcommands.Commander, cfg *config.Config) {
	appConfig = cfg
	if *ledgerFile == "" {
		*ledgerFile = cfg.Ledger.File
	}
	if *settingsFile == "" {
		*settingsFile = cfg.Ledger.SettingsFile
	}

	for _, typ := range satstack.TxTypes {
		c.Register(newAddCmd(typ), "transactions")
	}
	c.Register(&editCmd{}, "transactions")
	c.Register(&rmCmd{}, "transactions")
	c.Register(&logCmd{}, "transactions")
	c.Register(&importCmd{}, "transactions")

	c.Register(&disposalsCmd{}, "reports")
	c.Register(&reportCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&quarterlyCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")
	c.Register(&holdingCmd{}, "reports")

	c.Register(&priceCmd{}, "market")

	c.Register(&settingsCmd{}, "settings")
	c.Register(&serveCmd{}, "server")
	c.Register(&assistCmd{}, "assistant")
	c.Register(&topicCmd{}, "help")
}

// loadLedger decodes the ledger from the app ledger file. A missing file is
// an empty ledger.
func loadLedger() (*satstack.Ledger, error) {
	return satstack.LoadLedger(*ledgerFile)
}

// saveLedger encodes the ledger into the app ledger file.
func saveLedger(ledger *satstack.Ledger) error {
	return satstack.SaveLedger(*ledgerFile, ledger)
}

// loadSettings reads the tax settings from the app settings file.
func loadSettings() (satstack.TaxConfiguration, error) {
	return satstack.LoadTaxConfiguration(*settingsFile)
}

// printMarkdown prints md, formatted for the terminal unless -raw is set.
func printMarkdown(md string) {
	fmt.Print(renderMarkdown(md))
}

// renderMarkdown formats md for the terminal unless -raw is set.
func renderMarkdown(md string) string {
	if *raw {
		return md
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// plain markdown is still readable.
		return md
	}
	return out
}

// reportInvalid prints the transactions ignored by a computation.
func reportInvalid(err error) {
	for _, v := range satstack.ValidationErrors(err) {
		fmt.Fprintf(os.Stderr, "Warning: %v, ignored\n", v)
	}
}

// failure prints err and returns the matching exit status.
func failure(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var verr *satstack.ValidationError
	if errors.As(err, &verr) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}
