package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/satstack"
	"github.com/etnz/satstack/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct {
	tax   taxFlags
	model string
}

func (*assistCmd) Name() string { return "assist" }
func (*assistCmd) Synopsis() string {
	return "start an interactive session with the AI assistant"
}
func (*assistCmd) Usage() string {
	return `satstack assist [-model <model>] [<question>...]

  Starts an interactive session with the AI assistant. It reads the ledger
  through the tax engine, and can look up the tax rules. It needs a Gemini
  API key in $GEMINI_API_KEY.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	c.tax.SetFlags(f)
	f.StringVar(&c.model, "model", appConfig.Agent.Model, "Gemini model")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := strings.Join(f.Args(), " ")
	if c.model == "" {
		c.model = agent.DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  appConfig.Agent.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	// the ledger is read again for every question, it may be edited meanwhile.
	source := func(context.Context) ([]satstack.Transaction, satstack.TaxConfiguration, error) {
		cfg, err := c.tax.configuration()
		if err != nil {
			return nil, cfg, err
		}
		ledger, err := loadLedger()
		if err != nil {
			return nil, cfg, err
		}
		return ledger.List(), cfg, nil
	}

	a := agent.New(os.Stdout, os.Stdin, c.model,
		agent.NewAccountant(c.model, source),
		agent.NewTaxAdvisor(c.model),
	)
	a.Render = renderMarkdown

	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
