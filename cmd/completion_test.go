package cmd

import (
	"flag"
	"slices"
	"testing"

	"github.com/etnz/satstack/internal/config"
	"github.com/google/subcommands"
)

func TestCompletion(t *testing.T) {
	useTempFiles(t, testLedger)
	commander := subcommands.NewCommander(flag.NewFlagSet("satstack", flag.ContinueOnError), "satstack")
	Register(commander, &config.Config{})

	root := completion(commander)
	for _, name := range []string{"buy", "sell", "send", "receive", "spend", "edit", "report", "serve", "topic"} {
		if _, ok := root.Sub[name]; !ok {
			t.Errorf("no completion for %q", name)
		}
	}
	if _, ok := root.Flags["ledger-file"]; !ok {
		t.Errorf("no completion for the global -ledger-file flag")
	}

	tests := []struct {
		cmd, flag, prefix string
		want              string
	}{
		{"report", "method", "", "hifo"},
		{"report", "include-fees", "", "false"},
		{"edit", "t", "", "receive"},
	}
	for _, tc := range tests {
		p, ok := root.Sub[tc.cmd].Flags[tc.flag]
		if !ok {
			t.Errorf("%s has no -%s completion", tc.cmd, tc.flag)
			continue
		}
		if got := p.Predict(tc.prefix); !slices.Contains(got, tc.want) {
			t.Errorf("%s -%s predicts %v, want %q among them", tc.cmd, tc.flag, got, tc.want)
		}
	}

	if got := root.Sub["topic"].Args.Predict(""); !slices.Contains(got, "cost-basis") {
		t.Errorf("topic predicts %v, want cost-basis among them", got)
	}
	if got := root.Sub["rm"].Args.Predict(""); !slices.Equal(got, []string{"a", "b", "s"}) {
		t.Errorf("rm predicts %v, want the ledger ids", got)
	}
}
