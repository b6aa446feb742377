package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	"github.com/google/subcommands"
)

type booksCmd struct{}

func (*booksCmd) Name() string     { return "books" }
func (*booksCmd) Synopsis() string { return "list the books in the budget directory" }
func (*booksCmd) Usage() string {
	return `envelope books

  Lists the books found in the budget directory. The default one is marked.
`
}

func (c *booksCmd) SetFlags(f *flag.FlagSet) {}

func (c *booksCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	settings, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		return subcommands.ExitFailure
	}
	books, err := envelope.ListBooks(*budgetDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing books: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(books) == 0 {
		fmt.Println("No books yet. Run 'envelope init' to create one.")
		return subcommands.ExitSuccess
	}
	current := bookName(settings)
	for _, b := range books {
		marker := " "
		if b == current {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, b)
	}
	return subcommands.ExitSuccess
}

// --- Fmt Command ---

type fmtCmd struct{}

func (*fmtCmd) Name() string     { return "fmt" }
func (*fmtCmd) Synopsis() string { return "rewrite the book file in canonical form" }
func (*fmtCmd) Usage() string {
	return `envelope fmt

  Loads the book and writes it back, normalizing record order and field
  order. Useful after hand edits or a merge.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	settings, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		return subcommands.ExitFailure
	}
	name := bookName(settings)
	ledger, store, err := envelope.FindBook(*budgetDir, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := store.Save(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing book: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Formatted %s.\n", name)
	return subcommands.ExitSuccess
}
