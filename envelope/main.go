// Command envelope is a zero-based budgeting CLI.
//
// Money in a book lives in envelopes: every unit of income is assigned to a
// category before it is spent. The command groups follow the daily workflow,
// from 'init' through 'add' and 'assign' to 'summary' and 'reconcile'. Run
// 'envelope topic' for the full documentation.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/KayleeBeyene/EnvelopeCLI/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// .env may carry ENVELOPE_* overrides and Gemini credentials.
	_ = godotenv.Load()
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion answers shell completion requests and returns immediately when
// none is in progress. Install with COMP_INSTALL=1 envelope.
func completion() {
	accountFlag := map[string]complete.Predictor{"on": predict.Something}
	periodFlag := map[string]complete.Predictor{"p": predict.Something}
	c := &complete.Command{
		Flags: map[string]complete.Predictor{
			"dir":  predict.Dirs("*"),
			"book": predict.Something,
		},
		Sub: map[string]*complete.Command{
			"init":         {Flags: map[string]complete.Predictor{"currency": predict.Something, "period": predict.Options(predict.OptValues("monthly", "weekly", "biweekly")), "seed": predict.Nothing}},
			"books":        {},
			"settings":     {Flags: map[string]complete.Predictor{"period": predict.Options(predict.OptValues("monthly", "weekly", "biweekly")), "negative-atb": predict.Options(predict.OptValues("on", "off")), "audit": predict.Options(predict.OptValues("on", "off")), "backups": predict.Something}},
			"backup":       {},
			"fmt":          {},
			"new-account":  {Flags: map[string]complete.Predictor{"kind": predict.Options(predict.OptValues("checking", "savings", "cash", "credit"))}},
			"new-category": {},
			"new-payee":    {},
			"accounts":     {},
			"categories":   {},
			"payees":       {},
			"add":          {Flags: accountFlag},
			"income":       {Flags: accountFlag},
			"transfer":     {},
			"edit":         {},
			"delete":       {},
			"status":       {Args: predict.Options(predict.OptValues("pending", "cleared"))},
			"log":          {Flags: periodFlag},
			"assign":       {Flags: periodFlag},
			"move":         {Flags: periodFlag},
			"rollover":     {},
			"atb":          {Flags: periodFlag},
			"overspent":    {Flags: periodFlag},
			"target": {Sub: map[string]*complete.Command{
				"set":  {Flags: map[string]complete.Predictor{"cadence": predict.Options(predict.OptValues("weekly", "monthly", "yearly"))}},
				"drop": {},
				"fill": {Flags: periodFlag},
			}},
			"summary":  {Flags: periodFlag},
			"history":  {},
			"targets":  {Flags: periodFlag},
			"register": {Flags: accountFlag},
			"spending": {Flags: periodFlag},
			"networth": {},
			"chart":    {Args: predict.Options(predict.OptValues("networth", "spending"))},
			"reconcile": {Sub: map[string]*complete.Command{
				"start":  {Flags: accountFlag},
				"toggle": {Flags: accountFlag},
				"status": {Flags: accountFlag},
				"done":   {Flags: accountFlag},
				"adjust": {Flags: accountFlag},
				"abort":  {Flags: accountFlag},
			}},
			"unlock": {},
			"import": {Sub: map[string]*complete.Command{
				"csv":  {Flags: accountFlag, Args: predict.Files("*.csv")},
				"json": {Flags: accountFlag, Args: predict.Files("*.json")},
				"pdf":  {Flags: accountFlag, Args: predict.Files("*.pdf")},
			}},
			"export": {Sub: map[string]*complete.Command{
				"csv":       {Flags: accountFlag},
				"jsonl":     {Flags: accountFlag},
				"statement": {Flags: accountFlag},
			}},
			"topic":  {Args: predict.Something},
			"assist": {},
		},
	}
	c.Complete("envelope")
}
