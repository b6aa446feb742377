package agent

import (
	"context"
	"fmt"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	"github.com/KayleeBeyene/EnvelopeCLI/docs"
	"github.com/KayleeBeyene/EnvelopeCLI/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// Dir is the budget directory the expert functions read the book from. The
// assist command points it at the same directory every other command uses.
var Dir = "."

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:        "Facilitator",
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skills from the Tools so you can ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			Analyse the sentiment of the user's request, he is here primarily to understand his budget:
			how much is left to spend, whether envelopes are overspent, and how to plan the next period.
			If he is angry try to understand why, and seek a clear user approval.

			Devise a plan of questions to ask each expert and come up with the best response to the user's request.

			The user will assume that you know his accounts and categories, check the book first to understand what they are.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewCoach returns the budgeting coach, an expert grounded by Google Search.
func NewCoach() *Expert {
	return &Expert{
		Name: "Coach",
		Description: `This is an expert budgeting coach,
		very well aware of zero-based budgeting practice, envelope methods,
		and of current prices, rates and money news.
		Ask the Coach whenever you need recent or grounding information, or
		advice on how to plan spending.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in personal budgeting. You can search and find about anything related to
			household finance, prices, interest rates, banks etc. You leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latest news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewAnalyst returns the ledger analyst, an expert that reads the user's
// book through the report functions.
func NewAnalyst() *Expert {

	lib := []Function{Summary, Spending, NetWorth}

	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. He is in charge of reading the user's budget book.
		He can run the book's reports to compute the relevant figures about the user's money.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an analyst in charge of the user's budget book.
				You know how to use the Tools to extract relevant information about the user's budget and accounts.
				You are part of a team of experts, yours is everything recorded in the book. They might ask
				you questions about the user's budget, pardon their approximative language and figure out what they meant.

				Use the available tools to get information about the user's budget
				  - the budget summary with every category's available amount
				  - spending broken down by category and payee
				  - net worth across accounts
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// failure wraps an error into the function response the model expects.
func failure(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:       id,
		Name:     name,
		Response: map[string]any{"error": err.Error()},
	}
}

func success(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:       id,
		Name:     name,
		Response: map[string]any{"output": output},
	}
}

// Summary reports the budget summary for a period.
var Summary = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "Summary",
		Description: `Summary computes the budget for one period: income, the amount still
		available to budget, and for every category its carryover, budgeted amount, activity
		and available balance. A negative available balance means the category is overspent.`,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"period": {
					Type: genai.TypeString,
					Description: `The period to compute the budget for. The current period is the default.
					Otherwise it uses the period identifier format:

					` + must(docs.GetTopic("periods")),
				},
			},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown-formatted budget summary with one row per category.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		p, err := parsePeriod(args)
		if err != nil {
			return failure(id, "Summary", err)
		}
		sys, err := LoadBook()
		if err != nil {
			return failure(id, "Summary", err)
		}
		return success(id, "Summary", renderer.SummaryMarkdown(sys.NewSummary(p)))
	},
}

// Spending reports spending by category and payee for a period.
var Spending = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "Spending",
		Description: `Spending breaks one period's outflows down by category and by payee,
		with each category's share of the total. Transfers between accounts are not spending
		and are left out.`,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"period": {
					Type: genai.TypeString,
					Description: `The period to break down. The current period is the default.
					Otherwise it uses the period identifier format:

					` + must(docs.GetTopic("periods")),
				},
			},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown-formatted spending breakdown by category and payee.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		p, err := parsePeriod(args)
		if err != nil {
			return failure(id, "Spending", err)
		}
		sys, err := LoadBook()
		if err != nil {
			return failure(id, "Spending", err)
		}
		return success(id, "Spending", renderer.SpendingMarkdown(sys.NewSpendingReport(p)))
	},
}

// NetWorth reports account balances and net worth on a date.
var NetWorth = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "NetWorth",
		Description: `NetWorth lists every account balance on the given day, split between
		on-budget and tracking accounts, and totals them into the user's net worth.`,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"date": {
					Type: genai.TypeString,
					Description: `The date on which to compute the balances. Today is the default.
					Otherwise it uses a flexible date format based on YYYY-MM-DD:

					` + must(docs.GetTopic("periods")),
				},
			},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown-formatted net worth statement with one row per account.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		date, err := parseDate(args)
		if err != nil {
			return failure(id, "NetWorth", err)
		}
		sys, err := LoadBook()
		if err != nil {
			return failure(id, "NetWorth", err)
		}
		return success(id, "NetWorth", renderer.NetWorthMarkdown(sys.NewNetWorthReport(date)))
	},
}

// LoadBook opens the configured book in Dir for reading. A book that does
// not exist yet is an empty ledger.
func LoadBook() (*envelope.BudgetSystem, error) {
	settings, err := envelope.LoadSettings(Dir)
	if err != nil {
		return nil, fmt.Errorf("could not load settings: %w", err)
	}
	ledger, _, err := envelope.FindBook(Dir, settings.Book)
	if err != nil {
		return nil, fmt.Errorf("could not load book: %w", err)
	}
	return envelope.NewBudgetSystem(ledger, nil, nil), nil
}

func parsePeriod(args map[string]any) (envelope.Period, error) {
	kind := envelope.Monthly
	if settings, err := envelope.LoadSettings(Dir); err == nil {
		kind = settings.PeriodKind()
	}

	iperiod, hasPeriod := args["period"]
	if !hasPeriod {
		return envelope.CurrentPeriod(kind), nil
	}
	speriod, ok := iperiod.(string)
	if !ok {
		return envelope.Period{}, fmt.Errorf("argument 'period' is not a string as expected but %T", iperiod)
	}

	p, err := envelope.ParsePeriod(speriod, kind)
	if err != nil {
		return envelope.Period{}, fmt.Errorf("argument 'period' must be a valid period got %q. Below is the doc about the format\n\n%s", speriod, must(docs.GetTopic("periods")))
	}
	return p, nil
}

func parseDate(args map[string]any) (envelope.Date, error) {
	idate, hasDate := args["date"]
	if !hasDate {
		return envelope.Today(), nil
	}
	sdate, ok := idate.(string)
	if !ok {
		return envelope.Today(), fmt.Errorf("argument 'date' is not a string as expected but %T", idate)
	}

	date, err := envelope.ParseDate(sdate)
	if err != nil {
		return envelope.Today(), fmt.Errorf("argument 'date' must be a valid date got %q. Below is the doc about the format\n\n%s", sdate, must(docs.GetTopic("periods")))
	}
	return date, nil
}
