// Package response turns executor outcomes into chat messages with an
// optional display payload.
package response

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matthieukhl/nexsales/internal/command"
	"github.com/matthieukhl/nexsales/internal/executor"
	"github.com/matthieukhl/nexsales/internal/models"
	"github.com/matthieukhl/nexsales/internal/store"
	"github.com/shopspring/decimal"
)

// ErrUpstream marks failures of the assistant collaborator. The assistant
// package wraps its own sentinel with it so the formatter can pick the
// right apology without importing the caller.
var ErrUpstream = errors.New("upstream unavailable")

const (
	msgUpstream     = "Sorry, I encountered an error communicating with the AI service."
	msgProcessing   = "Sorry, I encountered an error processing your request."
	msgOrderInvalid = "I understood the order, but failed to create it due to missing data (Customer or Product ID mismatch)."
	msgProductGone  = "I found a match, but the product ID seems invalid in the current database."
	msgStockMissing = "Could not update stock: Product not found."
	msgCustomerGone = "I couldn't find that customer in the database."
	msgMockFailed   = "Failed to generate data. Please check API Key."
	msgEmptyReply   = "No response generated."

	reportDateLayout = "Mon Jan 02 2006"
)

type PayloadType string

const (
	PayloadProductCard     PayloadType = "product_card"
	PayloadCustomerHistory PayloadType = "customer_history"
	PayloadDailyReport     PayloadType = "daily_report"
)

// Payload is structured data for a rich display card
type Payload struct {
	Type    PayloadType `json:"type"`
	Content any         `json:"content"`
}

type Response struct {
	Text string   `json:"text"`
	Data *Payload `json:"data,omitempty"`
}

type HistoryContent struct {
	Customer   models.Customer `json:"customer"`
	Orders     []models.Order  `json:"orders"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
}

// Plain wraps prose from the assistant
func Plain(text string) Response {
	return Response{Text: text}
}

// Upstream is the reply used when the assistant could not be reached
func Upstream() Response {
	return Response{Text: msgUpstream}
}

// Empty is the reply used when the assistant returned nothing
func Empty() Response {
	return Response{Text: msgEmptyReply}
}

// MockData reports the outcome of a mock data batch
func MockData(res store.MockDataResult, err error) Response {
	if err != nil {
		return Response{Text: msgMockFailed}
	}
	return Response{Text: fmt.Sprintf("Successfully added %d products and %d customers to the database.", res.Products, res.Customers)}
}

type Formatter struct {
	currency string
}

func NewFormatter(currency string) *Formatter {
	return &Formatter{currency: strings.ToUpper(strings.TrimSpace(currency))}
}

// Format renders the result of one executed action. It never fails: errors
// become recoverable messages.
func (f *Formatter) Format(kind command.Kind, res executor.Result, err error) Response {
	if err != nil {
		return f.formatError(kind, err)
	}

	switch r := res.(type) {
	case executor.OrderPlaced:
		return Response{Text: fmt.Sprintf("✅ Success! %s\nTotal: %s", f.confirmation(r), f.Money(r.Order.Total))}
	case executor.ProductSnapshot:
		return Response{
			Text: fmt.Sprintf("Here is the current stock information for %s:", r.Product.Name),
			Data: &Payload{Type: PayloadProductCard, Content: r.Product},
		}
	case executor.StockUpdated:
		return Response{Text: stockText(r)}
	case executor.CustomerHistory:
		return Response{
			Text: fmt.Sprintf("Found %d orders for %s.", len(r.Orders), r.Customer.Name),
			Data: &Payload{
				Type:    PayloadCustomerHistory,
				Content: HistoryContent{Customer: r.Customer, Orders: r.Orders, TotalSpent: r.TotalSpent},
			},
		}
	case executor.DailyReport:
		return Response{
			Text: fmt.Sprintf("Generated End of Day Report for %s.", r.Date.Format(reportDateLayout)),
			Data: &Payload{Type: PayloadDailyReport, Content: r},
		}
	default:
		return Response{Text: msgProcessing}
	}
}

func (f *Formatter) formatError(kind command.Kind, err error) Response {
	if errors.Is(err, ErrUpstream) {
		return Upstream()
	}

	var nf *store.NotFoundError
	if !errors.As(err, &nf) {
		return Response{Text: msgProcessing}
	}

	switch kind {
	case command.KindCreateOrder:
		return Response{Text: msgOrderInvalid}
	case command.KindLookupProduct:
		return Response{Text: msgProductGone}
	case command.KindUpdateStock:
		return Response{Text: msgStockMissing}
	case command.KindLookupCustomerHistory:
		return Response{Text: msgCustomerGone}
	default:
		return Response{Text: fmt.Sprintf("I couldn't find %s.", nf.Error())}
	}
}

func (f *Formatter) confirmation(r executor.OrderPlaced) string {
	if msg := strings.TrimSpace(r.Confirmation); msg != "" {
		return msg
	}
	return fmt.Sprintf("Order %s created for %s.", r.Order.OrderID, r.Order.CustomerName)
}

func stockText(r executor.StockUpdated) string {
	verb := fmt.Sprintf("Added %d units to", r.Quantity)
	if r.Quantity < 0 {
		verb = fmt.Sprintf("Removed %d units from", -r.Quantity)
	}
	return fmt.Sprintf("✅ Inventory Updated.\n%s %s.\nNew Stock Level: %d", verb, r.Product.Name, r.Product.Stock)
}

// Money renders an amount with two decimals in the configured currency
func (f *Formatter) Money(v decimal.Decimal) string {
	amount := v.StringFixed(2)
	sign := ""
	if v.IsNegative() {
		sign = "-"
		amount = v.Abs().StringFixed(2)
	}

	switch f.currency {
	case "", "USD":
		return sign + "$" + amount
	case "EUR":
		return sign + "€" + amount
	case "GBP":
		return sign + "£" + amount
	default:
		return sign + amount + " " + f.currency
	}
}
