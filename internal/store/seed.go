package store

import (
	"time"

	"github.com/matthieukhl/nexsales/internal/models"
	"github.com/shopspring/decimal"
)

// NewSeeded creates a store holding the demo catalog, customers and two
// historical orders dated relative to now.
func NewSeeded(now time.Time) *Store {
	s := New()
	for _, p := range demoProducts() {
		_ = s.st.addProduct(p)
	}
	for _, c := range demoCustomers() {
		_ = s.st.addCustomer(c)
	}

	// Historical orders are inserted directly; their stock was deducted long ago.
	s.st.orders = []models.Order{
		{
			OrderID:      "ORD-100002",
			CustomerID:   "cust-002",
			CustomerName: "Sarah Johnson",
			Date:         now,
			Status:       models.OrderStatusConfirmed,
			Items: []models.OrderItem{
				{ProductID: "prod-003", ProductName: "Laptop Stand", Quantity: 3, PriceAtTime: price("45.50")},
				{ProductID: "prod-001", ProductName: "Wireless Mouse", Quantity: 1, PriceAtTime: price("27.99")},
			},
			Total: price("189.16"),
		},
		{
			OrderID:      "ORD-100001",
			CustomerID:   "cust-001",
			CustomerName: "John Smith",
			Date:         now.Add(-48 * time.Hour),
			Status:       models.OrderStatusDelivered,
			Items: []models.OrderItem{
				{ProductID: "prod-001", ProductName: "Wireless Mouse", Quantity: 5, PriceAtTime: price("25.99")},
				{ProductID: "prod-002", ProductName: "USB Cable", Quantity: 10, PriceAtTime: price("9.99")},
			},
			Total: price("264.33"),
		},
	}
	for _, o := range s.st.orders {
		s.st.orderIDs[o.OrderID] = struct{}{}
	}
	return s
}

func demoProducts() []models.Product {
	return []models.Product{
		{ID: "prod-001", SKU: "PROD001", Name: "Wireless Mouse", Category: "Electronics", Price: price("27.99"), Stock: 145, ReorderLevel: 20},
		{ID: "prod-002", SKU: "PROD002", Name: "USB Cable", Category: "Accessories", Price: price("9.99"), Stock: 340, ReorderLevel: 50},
		{ID: "prod-003", SKU: "PROD003", Name: "Laptop Stand", Category: "Office", Price: price("45.50"), Stock: 12, ReorderLevel: 15},
		{ID: "prod-004", SKU: "PROD004", Name: "Laptop Bag", Category: "Accessories", Price: price("39.99"), Stock: 50, ReorderLevel: 10},
	}
}

func demoCustomers() []models.Customer {
	return []models.Customer{
		{ID: "cust-001", Name: "John Smith", Email: "john@email.com", Phone: "+1234567890", Company: "Tech Corp"},
		{ID: "cust-002", Name: "Sarah Johnson", Email: "sarah@email.com", Phone: "+0987654321", Company: "Design Studio"},
		{ID: "cust-003", Name: "Mike Davis", Email: "mike@email.com", Phone: "+1122334455", Company: "Retail Plus"},
	}
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
