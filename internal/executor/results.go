package executor

import (
	"time"

	"github.com/matthieukhl/nexsales/internal/models"
	"github.com/shopspring/decimal"
)

// Result is the outcome of one executed action
type Result interface {
	result()
}

type OrderPlaced struct {
	Order        models.Order
	Confirmation string
}

type ProductSnapshot struct {
	Product models.Product
}

type StockUpdated struct {
	Product  models.Product
	Quantity int
}

type CustomerHistory struct {
	Customer   models.Customer
	Orders     []models.Order
	TotalSpent decimal.Decimal
}

type DailyReport struct {
	Date               time.Time        `json:"date"`
	OrdersCount        int              `json:"ordersCount"`
	Revenue            decimal.Decimal  `json:"revenue"`
	LowStockItems      []models.Product `json:"lowStockItems"`
	PendingOrdersCount int              `json:"pendingOrdersCount"`
	PendingOrdersTotal decimal.Decimal  `json:"pendingOrdersTotal"`
}

func (OrderPlaced) result()     {}
func (ProductSnapshot) result() {}
func (StockUpdated) result()    {}
func (CustomerHistory) result() {}
func (DailyReport) result()     {}

// DashboardSummary aggregates the figures shown on the overview page
type DashboardSummary struct {
	TotalRevenue  decimal.Decimal  `json:"totalRevenue"`
	ProductCount  int              `json:"productCount"`
	CustomerCount int              `json:"customerCount"`
	OrderCount    int              `json:"orderCount"`
	LowStockCount int              `json:"lowStockCount"`
	LowStockItems []models.Product `json:"lowStockItems"`
	RecentOrders  []models.Order   `json:"recentOrders"`
}
