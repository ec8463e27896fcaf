package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/matthieukhl/nexsales/internal/types"
)

// MockGenerator answers with canned command JSON chosen by keywords in the
// user's message, resolving names against the products and customers in
// the prompt context. It is meant for demos and offline development.
type MockGenerator struct {
	model string
	delay time.Duration
}

func NewMockGenerator(model string) *MockGenerator {
	return &MockGenerator{model: model}
}

// WithDelay simulates provider latency
func (g *MockGenerator) WithDelay(d time.Duration) *MockGenerator {
	g.delay = d
	return g
}

type mockContext struct {
	Products []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"products"`
	Customers []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"customers"`
}

var quantityPattern = regexp.MustCompile(`-?\d+`)

func (g *MockGenerator) Complete(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if _, ok := types.PromptSection(prompt, types.PromptMockDataHeading); ok {
		return mockDataReply, nil
	}

	var mc mockContext
	if raw, ok := types.PromptSection(prompt, types.PromptContextHeading); ok {
		_ = json.Unmarshal([]byte(raw), &mc)
	}
	user, _ := types.PromptSection(prompt, types.PromptUserHeading)

	return g.reply(strings.ToLower(user), mc), nil
}

func (g *MockGenerator) reply(text string, mc mockContext) string {
	productID := ""
	for _, p := range mc.Products {
		if p.Name != "" && strings.Contains(text, strings.ToLower(p.Name)) || p.ID != "" && strings.Contains(text, strings.ToLower(p.ID)) {
			productID = p.ID
			break
		}
	}
	customerID := ""
	for _, c := range mc.Customers {
		if c.Name != "" && strings.Contains(text, strings.ToLower(c.Name)) || c.ID != "" && strings.Contains(text, strings.ToLower(c.ID)) {
			customerID = c.ID
			break
		}
	}
	qty, hasQty := firstNumber(text)

	switch {
	case strings.Contains(text, "report") || strings.Contains(text, "end of day"):
		return `{"action": "generate_report", "period": "today"}`

	case customerID != "" && productID != "" && containsAny(text, "order", "buy", "sell", "purchase"):
		if !hasQty || qty <= 0 {
			qty = 1
		}
		return fmt.Sprintf("```json\n{\"action\": \"create_order\", \"customerId\": %q, \"items\": [{\"productId\": %q, \"quantity\": %d}], \"confirmationMessage\": \"Order created for %d units.\"}\n```",
			customerID, productID, qty, qty)

	case customerID != "" && containsAny(text, "history", "orders", "bought", "spent"):
		return fmt.Sprintf(`{"action": "lookup_customer_history", "customerId": %q}`, customerID)

	case productID != "" && hasQty && containsAny(text, "receive", "received", "add", "restock", "remove", "shipment"):
		if containsAny(text, "remove") && qty > 0 {
			qty = -qty
		}
		return fmt.Sprintf(`{"action": "update_stock", "productId": %q, "quantity": %d}`, productID, qty)

	case productID != "":
		return fmt.Sprintf(`{"action": "lookup_product", "productId": %q}`, productID)

	default:
		return "I'm running in offline mode. Ask me about stock levels, receiving shipments, creating orders, customer history or today's report."
	}
}

func firstNumber(text string) (int, bool) {
	m := quantityPattern.FindString(text)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	return n, err == nil
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func (g *MockGenerator) Model() string {
	return g.model + "-mock"
}

const mockDataReply = `{
  "products": [
    {"sku": "MOCK-101", "name": "Ergonomic Keyboard", "category": "Electronics", "price": 79.99, "stock": 40, "reorder_level": 10},
    {"sku": "MOCK-102", "name": "Noise Cancelling Headset", "category": "Electronics", "price": 129.50, "stock": 8, "reorder_level": 12},
    {"sku": "MOCK-103", "name": "Standing Desk Mat", "category": "Office", "price": 34.00, "stock": 65, "reorder_level": 15},
    {"sku": "MOCK-104", "name": "HDMI Adapter", "category": "Accessories", "price": 14.25, "stock": 200, "reorder_level": 40},
    {"sku": "MOCK-105", "name": "Desk Lamp", "category": "Office", "price": 22.90, "stock": 5, "reorder_level": 10}
  ],
  "customers": [
    {"name": "Olivia Chen", "email": "olivia@brightlabs.io", "phone": "+15550100", "company": "Bright Labs"},
    {"name": "Marcus Reed", "email": "marcus@northwind.com", "phone": "+15550101", "company": "Northwind"},
    {"name": "Priya Nair", "email": "priya@atlasretail.com", "phone": "+15550102", "company": "Atlas Retail"}
  ]
}`

// Compile-time interface check
var _ types.Generator = (*MockGenerator)(nil)
