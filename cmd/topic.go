package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/satstack/docs"
	"github.com/google/subcommands"
)

// topicCmd prints the embedded user guide.
type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the user guide (cost basis, taxes, ledger format)" }
func (*topicCmd) Usage() string {
	return `satstack topic [-list] [<topic>...]

  Prints the user guide pages named on the command line, one after the other.
  Without a name the guide overview is printed. Use "*" to print every page.
  -list prints the available page names instead.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "list the available topics")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		topics, err := docs.GetAllTopics()
		if err != nil {
			return failure(err)
		}
		fmt.Println(strings.Join(topics, "\n"))
		return subcommands.ExitSuccess
	}

	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}
	guide, err := docs.GetTopics(topics...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unknown topic, try 'satstack topic -list': %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(guide)
	return subcommands.ExitSuccess
}
