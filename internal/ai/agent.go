package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"grillmaster-pos/internal/actions"
	"grillmaster-pos/internal/selectors"

	"github.com/google/generative-ai-go/genai"
	"github.com/op/go-logging"
	"github.com/spf13/cast"
	"google.golang.org/api/option"
)

var log = logging.MustGetLogger("ai")

const (
	modelName     = "gemini-2.0-flash-001"
	maxToolRounds = 5
	dateLayout    = "2006-01-02"
)

// ErrNoAPIKey is returned when the assistant has no Gemini key configured.
var ErrNoAPIKey = errors.New("assistant is not configured")

// Agent answers staff questions about the menu and sales. Tool calls are
// routed to the same actions and selectors the HTTP API uses.
type Agent struct {
	apiKey  string
	actions *actions.Actions
	now     func() time.Time
}

func NewAgent(apiKey string, a *actions.Actions) *Agent {
	return &Agent{apiKey: apiKey, actions: a, now: time.Now}
}

var tools = []*genai.Tool{{
	FunctionDeclarations: []*genai.FunctionDeclaration{
		{
			Name:        "check_menu",
			Description: "Get the full menu. Use this to find ANY product details like ID, Name, Price or Category.",
		},
		{
			Name:        "update_product_price",
			Description: "Update the price of a specific product using its ID",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"product_id": {Type: genai.TypeString, Description: "ID of the product"},
					"new_price":  {Type: genai.TypeNumber, Description: "New price"},
				},
				Required: []string{"product_id", "new_price"},
			},
		},
		{
			Name:        "create_product",
			Description: "Add a new product to the menu",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":     {Type: genai.TypeString, Description: "Name of the product"},
					"price":    {Type: genai.TypeNumber, Description: "Price of the product"},
					"category": {Type: genai.TypeString, Description: "Menu category (Beef Burgers, Sides, Beverages, ...)"},
				},
				Required: []string{"name", "price", "category"},
			},
		},
		{
			Name:        "get_sales_report",
			Description: "Get total sales revenue and order count for a date range.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
					"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
				},
				Required: []string{"start_date", "end_date"},
			},
		},
		{
			Name:        "get_top_products",
			Description: "Get the best selling products by units sold.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"limit": {Type: genai.TypeInteger, Description: "How many products to return (default 5)"},
				},
			},
		},
	},
}}

func (a *Agent) systemPrompt(userMessage string) string {
	return fmt.Sprintf(`SYSTEM: Today is %s. You are the assistant of a burger restaurant point of sale.

	RULES:
	1. UPDATE: If a user asks to update a product by NAME, do NOT ask them for the ID. Call 'check_menu' to find the ID, then call 'update_product_price'.
	2. READ: For the PRICE, CATEGORY or DETAILS of a product, call 'check_menu' and read the result.
	3. SALES: For sales or revenue use 'get_sales_report'. For best sellers use 'get_top_products'.

	USER: %s`, a.now().Format(dateLayout), userMessage)
}

// Ask sends message to Gemini and resolves tool calls until it answers in text.
func (a *Agent) Ask(ctx context.Context, message string) (string, error) {
	if a.apiKey == "" {
		return "", ErrNoAPIKey
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(a.apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel(modelName)
	model.Tools = tools
	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(a.systemPrompt(message)))
	if err != nil {
		return "", err
	}
	for round := 0; round < maxToolRounds; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			break
		}
		replies := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			log.Infof("Tool call %s %v", call.Name, call.Args)
			replies = append(replies, genai.FunctionResponse{Name: call.Name, Response: a.execute(call)})
		}
		if resp, err = session.SendMessage(ctx, replies...); err != nil {
			return "", err
		}
	}
	return printResponse(resp), nil
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var calls []genai.FunctionCall
	for _, part := range resp.Candidates[0].Content.Parts {
		if call, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, call)
		}
	}
	return calls
}

type menuItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// execute runs one tool call and returns the payload sent back to the model.
func (a *Agent) execute(call genai.FunctionCall) map[string]any {
	args := call.Args
	switch call.Name {
	case "check_menu":
		products := a.actions.Store().GetState().Products
		menu := make([]menuItem, 0, len(products))
		for _, p := range products {
			menu = append(menu, menuItem{ID: p.ID, Name: p.Name, Category: p.Category, Price: p.Price})
		}
		return map[string]any{"menu": menu}

	case "update_product_price":
		id := cast.ToString(args["product_id"])
		price := args["new_price"]
		if _, ok := selectors.ProductByID(a.actions.Store().GetState(), id); !ok {
			return map[string]any{"status": "Product ID not found"}
		}
		p, err := a.actions.UpdateProduct(id, actions.ProductUpdate{Price: price})
		if err != nil {
			return map[string]any{"status": err.Error()}
		}
		return map[string]any{"status": "Success", "new_price": p.Price}

	case "create_product":
		p, err := a.actions.AddProduct(cast.ToString(args["name"]), args["price"], cast.ToString(args["category"]), "")
		if err != nil {
			return map[string]any{"status": err.Error()}
		}
		return map[string]any{"status": "created", "id": p.ID}

	case "get_sales_report":
		start, err1 := time.ParseInLocation(dateLayout, cast.ToString(args["start_date"]), a.now().Location())
		end, err2 := time.ParseInLocation(dateLayout, cast.ToString(args["end_date"]), a.now().Location())
		if err1 != nil || err2 != nil {
			return map[string]any{"status": "Error: Dates must be in YYYY-MM-DD format."}
		}
		end = end.Add(24*time.Hour - time.Nanosecond)
		report := selectors.Sales(a.actions.Store().GetState(), start, end)
		return map[string]any{"revenue": report.Revenue, "sales_count": report.Count}

	case "get_top_products":
		top := selectors.TopProducts(a.actions.Store().GetState(), cast.ToInt(args["limit"]))
		return map[string]any{"top_products": top}
	}
	return map[string]any{"status": "Unknown tool " + call.Name}
}

func printResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "I completed the action."
	}
	var out []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out = append(out, string(txt))
		}
	}
	if len(out) == 0 {
		return "I completed the action."
	}
	return strings.Join(out, "")
}
