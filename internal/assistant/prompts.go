package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matthieukhl/nexsales/internal/models"
	"github.com/matthieukhl/nexsales/internal/store"
	"github.com/matthieukhl/nexsales/internal/types"
	"github.com/shopspring/decimal"
)

// PromptBuilder renders the assistant prompts. The chat prompt carries a
// redacted view of the business records: ids, names, prices and stock, but
// no contact details or order history.
type PromptBuilder struct {
	company models.CompanyConfig
}

func NewPromptBuilder(company models.CompanyConfig) *PromptBuilder {
	return &PromptBuilder{company: company}
}

type promptProduct struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

type promptCustomer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

type promptContext struct {
	Config    models.CompanyConfig `json:"config"`
	Products  []promptProduct      `json:"products"`
	Customers []promptCustomer     `json:"customers"`
}

// Context serializes the redacted snapshot as one line of JSON
func (pb *PromptBuilder) Context(snap store.Snapshot) (string, error) {
	pc := promptContext{
		Config:    pb.company,
		Products:  make([]promptProduct, 0, len(snap.Products)),
		Customers: make([]promptCustomer, 0, len(snap.Customers)),
	}
	for _, p := range snap.Products {
		pc.Products = append(pc.Products, promptProduct{ID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock})
	}
	for _, c := range snap.Customers {
		pc.Customers = append(pc.Customers, promptCustomer{ID: c.ID, Name: c.Name, Company: c.Company})
	}

	out, err := json.Marshal(pc)
	if err != nil {
		return "", fmt.Errorf("failed to encode prompt context: %w", err)
	}
	return string(out), nil
}

// System is the instruction sent alongside every chat prompt
func (pb *PromptBuilder) System() string {
	return fmt.Sprintf("You are an intelligent ERP assistant for %s.", pb.company.Name)
}

// BuildChatPrompt creates the prompt for one user message
func (pb *PromptBuilder) BuildChatPrompt(userText string, snap store.Snapshot) (string, error) {
	ctxJSON, err := pb.Context(snap)
	if err != nil {
		return "", err
	}

	var prompt strings.Builder

	prompt.WriteString(pb.System())
	prompt.WriteString("\n\n")

	prompt.WriteString(types.PromptContextHeading + "\n")
	prompt.WriteString(ctxJSON)
	prompt.WriteString("\n\n")

	prompt.WriteString(types.PromptUserHeading + "\n")
	prompt.WriteString(strings.Join(strings.Fields(userText), " "))
	prompt.WriteString("\n\n")

	prompt.WriteString(chatInstructions)
	return prompt.String(), nil
}

// BuildMockDataPrompt asks for a batch of demo records
func (pb *PromptBuilder) BuildMockDataPrompt() string {
	var prompt strings.Builder
	prompt.WriteString(types.PromptMockDataHeading + "\n")
	prompt.WriteString(fmt.Sprintf("Generate realistic mock data for the ERP system of %s.\n", pb.company.Name))
	prompt.WriteString(`Return ONLY a raw JSON object (no markdown formatting) with two keys: "products" (array of 5 items) and "customers" (array of 3 items).` + "\n\n")
	prompt.WriteString("Product schema: { id, sku, name, category, price (number), stock (number), reorder_level (number) }\n")
	prompt.WriteString("Customer schema: { id, name, email, phone, company }\n\n")
	prompt.WriteString("Ensure IDs are unique strings.\n")
	return prompt.String()
}

const chatInstructions = `INSTRUCTIONS:
1. If the user wants to CREATE AN ORDER (e.g., "Order 5 mice for John"), you MUST return a raw JSON object with this schema:
   {
     "action": "create_order",
     "customerId": "exact_id_from_context",
     "items": [
       { "productId": "exact_id_from_context", "quantity": number }
     ],
     "confirmationMessage": "Short summary of what was done"
   }
   - Infer the correct Product ID and Customer ID. If ambiguous, ask for clarification in plain text (do not return JSON).

2. If the user wants to CHECK STOCK or LOOK UP A PRODUCT (e.g., "How many mice do we have?", "Show stock for PROD001"), return a raw JSON object:
   {
     "action": "lookup_product",
     "productId": "exact_id_from_context"
   }

3. If the user wants to UPDATE STOCK or RECEIVE SHIPMENT (e.g., "Received shipment of 20 cables", "Add 50 units to Wireless Mouse"), return a raw JSON object:
   {
     "action": "update_stock",
     "productId": "exact_id_from_context",
     "quantity": number
   }
   - Quantity is the amount to ADD. Use a negative number to remove units.

4. If the user wants to SEE CUSTOMER ORDERS or SPENDING HISTORY (e.g., "Show orders for John", "Total spent by Tech Corp"), return a raw JSON object:
   {
     "action": "lookup_customer_history",
     "customerId": "exact_id_from_context"
   }

5. If the user wants a REPORT, SUMMARY, or DAILY OVERVIEW (e.g., "End of day report", "Daily summary", "Stats for today"), return a raw JSON object:
   {
     "action": "generate_report",
     "period": "today"
   }

6. For general analysis or questions, provide a helpful, professional plain text response. Do not use Markdown formatting for the JSON blocks.
`
