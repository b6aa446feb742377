package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	"github.com/KayleeBeyene/EnvelopeCLI/renderer"
	"github.com/google/subcommands"
)

type registerCmd struct {
	account  string
	category string
	payee    string
	status   string
	period   string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "list transactions, filtered" }
func (*registerCmd) Usage() string {
	return `envelope register [-on <account>] [-c <category>] [-p <payee>] [-status <status>] [-period <period>]

  Lists transactions in date order with inflow, outflow and net totals.
  With -on the register is scoped to one account and shows its running
  balance.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "on", "", "Only transactions on this account")
	f.StringVar(&c.category, "c", "", "Only transactions in this category")
	f.StringVar(&c.payee, "p", "", "Only transactions with this payee")
	f.StringVar(&c.status, "status", "", "Only transactions with this status")
	f.StringVar(&c.period, "period", "", "Only transactions dated in this period")
}

func (c *registerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sys, settings, err := openForReading()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}

	var filters []func(*envelope.Transaction) bool
	if c.category != "" {
		id, err := resolveCategory(sys, c.category)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		filters = append(filters, envelope.ByCategory(id))
	}
	if c.payee != "" {
		var id string
		err := sys.View(func(l *envelope.Ledger) error {
			p := l.Payees().Find(c.payee)
			if p == nil {
				return envelope.NotFoundf("unknown payee %q", c.payee)
			}
			id = p.ID
			return nil
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		filters = append(filters, envelope.ByPayee(id))
	}
	if c.status != "" {
		status, err := envelope.ParseTransactionStatus(c.status)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		filters = append(filters, envelope.ByStatus(status))
	}
	if c.period != "" {
		p, err := parsePeriodFlag(settings, c.period)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
			return subcommands.ExitUsageError
		}
		filters = append(filters, envelope.InPeriod(p))
	}

	account := ""
	if c.account != "" {
		if account, err = resolveAccount(sys, c.account); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	report, err := sys.NewRegister(account, filters...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building register: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RegisterMarkdown(report))
	return subcommands.ExitSuccess
}
