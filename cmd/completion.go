package cmd

import (
	"flag"
	"strings"

	"github.com/etnz/satstack"
	"github.com/etnz/satstack/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete answers the shell completion requests and returns when the
// program is not run for completion.
//
// Install it with COMP_INSTALL=1 satstack.
func Complete(c *subcommands.Commander, name string) {
	completion(c).Complete(name)
}

// completion describes the commands of c for the shell completion.
func completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(flag.CommandLine),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)
		root.Sub[cmd.Name()] = &complete.Command{
			Flags: flagPredictors(fs),
			Args:  argPredictor(cmd.Name()),
		}
	})
	return root
}

// flagPredictors predicts the values of the flags in fs.
func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	res := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			res[f.Name] = predict.Nothing
			return
		}
		switch {
		case f.Name == "method":
			res[f.Name] = predict.Set(methodNames())
		case f.Name == "include-fees":
			res[f.Name] = predict.Set{"true", "false"}
		case f.Name == "t":
			res[f.Name] = predict.Set(typeNames())
		case f.Name == "o" || strings.HasSuffix(f.Name, "-file") || f.Name == "db":
			res[f.Name] = predict.Files("*")
		default:
			res[f.Name] = predict.Something
		}
	})
	return res
}

// argPredictor predicts the positional arguments of a command.
func argPredictor(name string) complete.Predictor {
	switch name {
	case "import":
		return predict.Files("*.csv")
	case "topic":
		topics, _ := docs.GetAllTopics()
		return predict.Set(topics)
	case "rm", "edit":
		return ledgerIDs{}
	default:
		return predict.Nothing
	}
}

// ledgerIDs predicts the transaction ids of the ledger.
type ledgerIDs struct{}

func (ledgerIDs) Predict(prefix string) []string {
	ledger, err := loadLedger()
	if err != nil {
		return nil
	}
	var ids []string
	for _, tx := range ledger.List() {
		if strings.HasPrefix(tx.ID, prefix) {
			ids = append(ids, tx.ID)
		}
	}
	return ids
}

func methodNames() []string {
	var res []string
	for _, m := range satstack.CostBasisMethods {
		res = append(res, m.String())
	}
	return res
}

func typeNames() []string {
	var res []string
	for _, t := range satstack.TxTypes {
		res = append(res, string(t))
	}
	return res
}
