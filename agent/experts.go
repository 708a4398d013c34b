package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/satstack"
	"github.com/etnz/satstack/docs"
	"github.com/etnz/satstack/renderer"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-pro"

// Source loads the ledger and the tax settings the accountant works on.
type Source func(ctx context.Context) ([]satstack.Transaction, satstack.TaxConfiguration, error)

// NewFacilitator creates the expert in charge of the conversation, it asks
// the other experts.
func NewFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They keep the context of your previous questions.

			The user holds bitcoin and wants to understand the capital gains they realized,
			the tax they should expect and the payments they should plan.
			Devise a plan of questions to ask to each expert and come up with the best response.
			Always give the figures computed by the Accountant, never compute them yourself.
			Answer in markdown. You are not a lawyer, say so when the user asks for legal advice.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTaxAdvisor creates an expert grounded on Google Search for the
// questions about tax rules.
func NewTaxAdvisor(model string) *Expert {
	return &Expert{
		Name: "TaxAdvisor",
		Description: `This is a tax advisor aware of the current capital gains rules for digital assets.
		Ask the TaxAdvisor about rates, brackets, deadlines or forms.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in capital gains taxation of digital assets. You leverage Google Search
			to ground your assertions, and you cite the year the rule applies to.
			`}}},
		},
	}
}

// NewAccountant creates the expert reading the user's ledger through the
// tax engine.
func NewAccountant(model string, source Source) *Expert {
	lib := Tools(source)
	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. They read the user's bitcoin ledger and compute
		the realized gains, the yearly tax reports and the quarterly estimated payments.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an accountant in charge of the user's bitcoin ledger.
			Use the Tools to get the figures, they are computed with the user's settings.
			Pardon the approximative language of your colleagues and figure out what they meant.

			The rules used by the tools are:

			` + docs.MustGetTopic("cost-basis") + docs.MustGetTopic("taxes")}}},
		},
		Library: NewLibrary(lib),
	}
}

var yearSchema = &genai.Schema{
	Type:        genai.TypeInteger,
	Description: "The tax year, for instance 2024.",
}

// Tools returns the functions the accountant can call.
func Tools(source Source) []Function {
	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "tax_report",
				Description: "Returns the tax report of a year: gains by term and by month, and the estimated tax.",
				Parameters: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: map[string]*genai.Schema{"year": yearSchema},
					Required:   []string{"year"},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown report."},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				year, err := yearArg(args)
				if err != nil {
					return "", err
				}
				txs, cfg, err := source(ctx)
				if err != nil {
					return "", err
				}
				report, err := satstack.NewYearlyTaxReport(txs, cfg, year)
				if report.Year == 0 {
					return "", err
				}
				return renderer.TaxReportMarkdown(report, cfg) + warnings(err), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "list_disposals",
				Description: "Lists the disposals of a year, one row per consumed lot, with their cost basis, gain and term.",
				Parameters: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: map[string]*genai.Schema{"year": yearSchema},
					Required:   []string{"year"},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown table."},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				year, err := yearArg(args)
				if err != nil {
					return "", err
				}
				txs, cfg, err := source(ctx)
				if err != nil {
					return "", err
				}
				if err := cfg.Validate(); err != nil {
					return "", err
				}
				disposals, err := satstack.ComputeDisposals(txs, cfg)
				return renderer.DisposalsMarkdown(satstack.AggregateYear(disposals, year).Disposals) + warnings(err), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "tax_summary",
				Description: "Returns the gains and estimated tax of every year of the ledger.",
				Parameters:  &genai.Schema{Type: genai.TypeObject},
				Response:    &genai.Schema{Type: genai.TypeString, Description: "A markdown table."},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				txs, cfg, err := source(ctx)
				if err != nil {
					return "", err
				}
				reports, err := satstack.TaxSummaries(txs, cfg)
				if reports == nil {
					return "", err
				}
				return renderer.SummaryMarkdown(reports) + warnings(err), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "quarterly_estimates",
				Description: "Splits the estimated tax of a year in the four quarterly payments, with their due dates.",
				Parameters: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: map[string]*genai.Schema{"year": yearSchema},
					Required:   []string{"year"},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown table."},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				year, err := yearArg(args)
				if err != nil {
					return "", err
				}
				txs, cfg, err := source(ctx)
				if err != nil {
					return "", err
				}
				report, err := satstack.NewYearlyTaxReport(txs, cfg, year)
				if report.Year == 0 {
					return "", err
				}
				return renderer.QuarterlyMarkdown(year, satstack.QuarterlyEstimates(report, satstack.Today())) + warnings(err), nil
			},
		},
	}
}

// yearArg reads the year argument, models send numbers as float64.
func yearArg(args map[string]any) (int, error) {
	switch v := args["year"].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case string:
		year, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("argument 'year' must be a number, got %q", v)
		}
		return year, nil
	case nil:
		return 0, fmt.Errorf("argument 'year' is required")
	default:
		return 0, fmt.Errorf("argument 'year' is not a number as expected but %T", v)
	}
}

// warnings lists the transactions skipped by a computation.
func warnings(err error) string {
	invalid := satstack.ValidationErrors(err)
	if len(invalid) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nThese transactions are invalid and were ignored:\n\n")
	for _, v := range invalid {
		fmt.Fprintf(&b, "- %s: %v\n", v.TxID, v.Err)
	}
	return b.String()
}
