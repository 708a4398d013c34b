// Command satstack computes the capital gains and the taxes of a bitcoin ledger.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/satstack/cmd"
	"github.com/etnz/satstack/internal/config"
	"github.com/etnz/satstack/internal/logger"
	"github.com/google/subcommands"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	commander := subcommands.NewCommander(flag.CommandLine, "satstack")
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander, cfg)

	cmd.Complete(commander, "satstack")

	flag.Parse()
	if *cmd.Verbose {
		cfg.Env = "debug"
	}
	logger.Init(cfg.Env)

	code := run(commander)
	logger.Sync()
	os.Exit(code)
}

func run(commander *subcommands.Commander) int {
	if flag.NArg() > 0 && !registered(commander, flag.Arg(0)) {
		if ok, code := cmd.RunExtension(flag.Arg(0), flag.Args()[1:]); ok {
			return code
		}
	}
	return int(commander.Execute(context.Background()))
}

// registered reports whether name is a built in command.
func registered(commander *subcommands.Commander, name string) bool {
	found := false
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		found = found || c.Name() == name
	})
	return found
}
