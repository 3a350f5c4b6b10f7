package agent

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/hmoreau/netvalue"
	"github.com/hmoreau/netvalue/date"
	"github.com/hmoreau/netvalue/docs"
	"github.com/hmoreau/netvalue/renderer"
)

const model = "gemini-2.5-pro"

// Env is the read-only slice of the application the analyst may use.
type Env struct {
	Engine   *netvalue.Engine
	Ledger   netvalue.Ledger
	Prices   *netvalue.PriceService
	Quotes   netvalue.QuoteSource
	Currency string
}

func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and of solving the user's request.

			Learn about the expert skills available through the Tools and ask the experts questions.
			They are at your service and 100% dedicated to you, and they keep context of your previous questions.

			The user is here to understand the value of his investment ledger over time:
			positions, cash, the valuation curve and how it moved. Check the ledger first,
			he will assume you know what he holds.

			Devise a plan of questions for the experts and come up with the best response to the user's request.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst returns the expert that reads the ledger, computes valuation
// curves and summaries, and quotes the built-in documentation. It never
// modifies anything.
func NewAnalyst(env *Env) *Expert {
	lib := []Function{curveFunc(env), summaryFunc(env), priceFunc(env), documentationFunc()}

	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. He has read-only access to the user's investment ledger
		and to the valuation engine. He can compute the day-by-day valuation curve over any
		date range, build the current portfolio summary with live quotes, look up the close
		of a symbol on a date, and quote the built-in documentation about how the figures
		are computed.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an analyst with read-only access to the user's investment ledger.
				Use the available tools to compute valuation curves, the current summary,
				and to read the documentation when asked how a figure is defined.
				You are part of a team of experts; pardon their approximative language
				and figure out what they meant. Never invent numbers, always compute them.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// fail wraps an error into a function response.
func fail(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"error": err.Error(),
		},
	}
}

// succeed wraps a markdown payload into a function response.
func succeed(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"output": output,
		},
	}
}

// optionalDate reads a date argument, nil when absent.
func optionalDate(args map[string]any, key string) (*date.Date, error) {
	raw, ok := args[key]
	if !ok {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("argument %q is not a string but %T", key, raw)
	}
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := date.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("argument %q must be a YYYY-MM-DD date: %w", key, err)
	}
	return &d, nil
}

func curveFunc(env *Env) *Func {
	const name = "valuation_curve"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `Compute the day-by-day valuation of the ledger: baseline (cost),
			market value, profit/loss and percentage, one row per calendar day. Defaults to
			the full history when no dates are given.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"start": {
						Type:        genai.TypeString,
						Description: "First day of the range, YYYY-MM-DD. Defaults to the first trade.",
					},
					"end": {
						Type:        genai.TypeString,
						Description: "Last day of the range, YYYY-MM-DD. Defaults to today.",
					},
					"include_cash": {
						Type:        genai.TypeBoolean,
						Description: "Fold the cash balance into baseline and market value.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the valuation curve.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			req := netvalue.CurveRequest{}
			var err error
			if req.Start, err = optionalDate(args, "start"); err != nil {
				return fail(id, name, err)
			}
			if req.End, err = optionalDate(args, "end"); err != nil {
				return fail(id, name, err)
			}
			if v, ok := args["include_cash"].(bool); ok {
				req.IncludeCash = v
			}
			curve, err := env.Engine.ComputeCurve(ctx, req)
			if err != nil {
				return fail(id, name, err)
			}
			return succeed(id, name, renderer.CurveMarkdown(curve, env.Currency))
		},
	}
}

func summaryFunc(env *Env) *Func {
	const name = "summary"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `Build the current portfolio summary: open positions with shares,
			average cost, live market value and unrealized P/L, cash per account, and today's P/L.`,
			Parameters: &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown portfolio summary.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			s, err := netvalue.SummarizeLedger(ctx, env.Ledger, env.Quotes, nil)
			if err != nil {
				return fail(id, name, err)
			}
			return succeed(id, name, renderer.SummaryMarkdown(s, env.Currency))
		},
	}
}

func priceFunc(env *Env) *Func {
	const name = "price_on"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `Look up the closing price of a symbol on a calendar date. A non-trading
			day carries the last close from up to two weeks back.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"symbol": {
						Type:        genai.TypeString,
						Description: "The ticker symbol, e.g. AAPL.",
					},
					"date": {
						Type:        genai.TypeString,
						Description: "The date, YYYY-MM-DD. Defaults to today.",
					},
				},
				Required: []string{"symbol"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The close, or a note that none is known.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			symbol, ok := args["symbol"].(string)
			if !ok || strings.TrimSpace(symbol) == "" {
				return fail(id, name, fmt.Errorf("argument %q is required", "symbol"))
			}
			d := date.Today()
			when, err := optionalDate(args, "date")
			if err != nil {
				return fail(id, name, err)
			}
			if when != nil {
				d = *when
			}
			price, err := env.Prices.PriceOn(ctx, symbol, d)
			if err != nil {
				return fail(id, name, err)
			}
			sym := netvalue.NormalizeSymbol(symbol)
			if price == nil {
				return succeed(id, name, fmt.Sprintf("No close known for %s on or within two weeks before %s.", sym, d))
			}
			return succeed(id, name, fmt.Sprintf("%s last closed at %s as of %s.", sym, price, d))
		},
	}
}

func documentationFunc() *Func {
	const name = "documentation"
	topics, _ := docs.GetAllTopics()
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `Read the built-in documentation about how figures are computed.
			Available topics: ` + strings.Join(topics, ", ") + `. "*" reads everything.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": {
						Type:        genai.TypeString,
						Description: "The topic name. Defaults to the index.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The topic content, markdown.",
			},
		},
		Func: func(_ context.Context, id string, args map[string]any) *genai.FunctionResponse {
			topic := "readme"
			if s, ok := args["topic"].(string); ok && strings.TrimSpace(s) != "" {
				topic = strings.TrimSpace(s)
			}
			content, err := docs.GetTopic(topic)
			if err != nil {
				return fail(id, name, err)
			}
			return succeed(id, name, content)
		},
	}
}

// Func implements Function from a declaration and a closure.
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}
