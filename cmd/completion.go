package cmd

import (
	"flag"
	"slices"

	"github.com/etnz/cashflow"
	"github.com/etnz/cashflow/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// accountIDs predicts the account ids of the book.
var accountIDs = complete.PredictFunc(func(prefix string) []string {
	book, err := cashflow.LoadBook(BookPath())
	if err != nil {
		return nil
	}
	var ids []string
	for _, a := range book.Accounts {
		ids = append(ids, a.ID)
	}
	return ids
})

// ruleIDs predicts the rule ids of the book.
var ruleIDs = complete.PredictFunc(func(prefix string) []string {
	book, err := cashflow.LoadBook(BookPath())
	if err != nil {
		return nil
	}
	var ids []string
	for _, r := range book.Rules {
		ids = append(ids, r.ID)
	}
	return ids
})

// postingPredictor completes the account part of a posting.
var postingPredictor = complete.PredictFunc(func(prefix string) []string {
	ids := accountIDs.Predict(prefix)
	for i := range ids {
		ids[i] += "="
	}
	return ids
})

var flagPredictors = map[string]complete.Predictor{
	"a":          accountIDs,
	"p":          postingPredictor,
	"rule":       ruleIDs,
	"kind":       predict.Set{"asset", "liability", "equity", "income", "expense"},
	"mode":       predict.Set{"double", "single"},
	"format":     predict.Set{"terminal", "markdown", "html"},
	"log-level":  predict.Set{"debug", "info", "warn", "error"},
	"log-format": predict.Set{"console", "json"},
	"book":       predict.Files("*"),
	"config":     predict.Files("*"),
}

// predictFlags builds the flag predictors of a flag set.
func predictFlags(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := flagPredictors[f.Name]; ok {
			flags[f.Name] = p
			return
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = predict.Nothing
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}

// Completion returns the shell completion of the commander's subcommands and global flags.
// Account and rule ids are read from the book given by CASHFLOW_BOOK or the default path.
func Completion(c *subcommands.Commander, global *flag.FlagSet) *complete.Command {
	setDefaults()
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: predictFlags(global),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		// subcommands registers its own help commands
		if slices.Contains([]string{"help", "flags", "commands"}, cmd.Name()) {
			return
		}
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)
		root.Sub[cmd.Name()] = &complete.Command{Flags: predictFlags(fs)}
	})
	if topic, ok := root.Sub["topic"]; ok {
		topics, _ := docs.GetAllTopics()
		topic.Args = predict.Set(topics)
	}
	return root
}
