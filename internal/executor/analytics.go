package executor

import (
	"context"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/matthieukhl/nexsales/internal/models"
	"github.com/matthieukhl/nexsales/internal/store"
)

const (
	bestSellerLimit = 3
	// restock targets are reorder_level times this factor, but never below minRestockTarget
	restockFactor    = 3
	minRestockTarget = 20
	unknownProduct   = "Unknown Product"
)

type BestSeller struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type TopCustomer struct {
	CustomerID string          `json:"customerId"`
	Name       string          `json:"name"`
	Company    string          `json:"company,omitempty"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
}

type RestockRecommendation struct {
	Product        models.Product  `json:"product"`
	TargetStock    int             `json:"targetStock"`
	SuggestedOrder int             `json:"suggestedOrder"`
	EstimatedCost  decimal.Decimal `json:"estimatedCost"`
}

// Analytics holds the figures of the reports page
type Analytics struct {
	InventoryValue         decimal.Decimal         `json:"inventoryValue"`
	LowStockItems          []models.Product        `json:"lowStockItems"`
	TodaysOrders           int                     `json:"todaysOrders"`
	TodaysSales            decimal.Decimal         `json:"todaysSales"`
	ConfirmedRevenue       decimal.Decimal         `json:"confirmedRevenue"`
	BestSellers            []BestSeller            `json:"bestSellers"`
	TopCustomer            *TopCustomer            `json:"topCustomer"`
	RestockRecommendations []RestockRecommendation `json:"restockRecommendations"`
}

// Analytics aggregates inventory value, sales and restock advice over one
// consistent snapshot. Cancelled orders count towards today's sales only.
func (e *Executor) Analytics(ctx context.Context) (Analytics, error) {
	if err := ctx.Err(); err != nil {
		return Analytics{}, err
	}

	snap := e.store.Snapshot()
	now := e.now()

	a := Analytics{
		InventoryValue:         decimal.Zero,
		LowStockItems:          []models.Product{},
		TodaysSales:            decimal.Zero,
		ConfirmedRevenue:       decimal.Zero,
		BestSellers:            []BestSeller{},
		RestockRecommendations: []RestockRecommendation{},
	}

	for _, p := range snap.Products {
		a.InventoryValue = a.InventoryValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
		if p.LowStock() {
			a.LowStockItems = append(a.LowStockItems, p)
			a.RestockRecommendations = append(a.RestockRecommendations, recommendRestock(p))
		}
	}

	for _, o := range snap.Orders {
		if sameDay(o.Date, now) {
			a.TodaysOrders++
			a.TodaysSales = a.TodaysSales.Add(o.Total)
		}
		switch o.Status {
		case models.OrderStatusConfirmed, models.OrderStatusShipped, models.OrderStatusDelivered:
			a.ConfirmedRevenue = a.ConfirmedRevenue.Add(o.Total)
		}
	}

	a.BestSellers = bestSellers(snap)
	a.TopCustomer = topCustomer(snap)
	return a, nil
}

func bestSellers(snap store.Snapshot) []BestSeller {
	var ranked []BestSeller
	index := map[string]int{}
	for _, o := range snap.Orders {
		if o.Status == models.OrderStatusCancelled {
			continue
		}
		for _, item := range o.Items {
			i, ok := index[item.ProductID]
			if !ok {
				i = len(ranked)
				index[item.ProductID] = i
				ranked = append(ranked, BestSeller{ProductID: item.ProductID})
			}
			ranked[i].Quantity = saturatingAdd(ranked[i].Quantity, item.Quantity)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Quantity > ranked[j].Quantity })
	if len(ranked) > bestSellerLimit {
		ranked = ranked[:bestSellerLimit]
	}

	out := make([]BestSeller, 0, len(ranked))
	for _, b := range ranked {
		b.Name = unknownProduct
		b.Revenue = decimal.Zero
		if p, err := snap.Product(b.ProductID); err == nil {
			b.Name = p.Name
			b.Revenue = p.Price.Mul(decimal.NewFromInt(int64(b.Quantity)))
		}
		out = append(out, b)
	}
	return out
}

// topCustomer returns the highest spender over non-cancelled orders; the
// first customer to reach the top amount wins ties.
func topCustomer(snap store.Snapshot) *TopCustomer {
	var ranked []TopCustomer
	index := map[string]int{}
	for _, o := range snap.Orders {
		if o.Status == models.OrderStatusCancelled {
			continue
		}
		i, ok := index[o.CustomerID]
		if !ok {
			i = len(ranked)
			index[o.CustomerID] = i
			ranked = append(ranked, TopCustomer{CustomerID: o.CustomerID, Name: o.CustomerName, TotalSpent: decimal.Zero})
		}
		ranked[i].TotalSpent = ranked[i].TotalSpent.Add(o.Total)
	}
	if len(ranked) == 0 {
		return nil
	}

	best := ranked[0]
	for _, c := range ranked[1:] {
		if c.TotalSpent.GreaterThan(best.TotalSpent) {
			best = c
		}
	}
	if c, err := snap.Customer(best.CustomerID); err == nil {
		best.Name = c.Name
		best.Company = c.Company
	}
	return &best
}

func recommendRestock(p models.Product) RestockRecommendation {
	target := minRestockTarget
	if p.ReorderLevel > math.MaxInt/restockFactor {
		target = math.MaxInt
	} else if scaled := p.ReorderLevel * restockFactor; scaled > target {
		target = scaled
	}

	suggested, err := store.SubQuantity(target, p.Stock)
	if err != nil {
		suggested = math.MaxInt
	}
	suggested = max(suggested, 0)

	return RestockRecommendation{
		Product:        p,
		TargetStock:    target,
		SuggestedOrder: suggested,
		EstimatedCost:  p.Price.Mul(decimal.NewFromInt(int64(suggested))),
	}
}

func saturatingAdd(a, b int) int {
	sum, err := store.AddQuantity(a, b)
	if err != nil {
		return math.MaxInt
	}
	return sum
}
