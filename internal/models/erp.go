package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices and totals travel as JSON numbers, matching what the assistant emits
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a sellable catalog item with its current stock level
type Product struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	ReorderLevel int             `json:"reorder_level"`
}

// LowStock reports whether the product is at or below its reorder level
func (p Product) LowStock() bool {
	return p.Stock <= p.ReorderLevel
}

// Customer is a buyer that orders are placed for
type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

// OrderItem is one order line. ProductName and PriceAtTime are copied from the
// product when the order is created and never follow later product edits.
type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"priceAtTime"`
}

// LineTotal returns quantity * priceAtTime
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtTime.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a placed customer order. CustomerName is a snapshot.
type Order struct {
	OrderID      string          `json:"order_id"`
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Date         time.Time       `json:"date"`
	Items        []OrderItem     `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Status       OrderStatus     `json:"status"`
}

// Subtotal sums the line totals before tax
func (o Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range o.Items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// Clone returns a copy that shares no mutable state with o
func (o Order) Clone() Order {
	items := make([]OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}

// OrderStatus is the lifecycle state of an order
type OrderStatus string

// Order statuses
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CompanyConfig holds process-wide company settings
type CompanyConfig struct {
	Name     string          `json:"name"`
	Currency string          `json:"currency"`
	TaxRate  decimal.Decimal `json:"taxRate"`
}

// ApplyTax returns subtotal * (1 + taxRate)
func (c CompanyConfig) ApplyTax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(decimal.NewFromInt(1).Add(c.TaxRate))
}
