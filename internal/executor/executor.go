// Package executor resolves interpreted actions against the store and
// applies their mutations.
package executor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/matthieukhl/nexsales/internal/command"
	"github.com/matthieukhl/nexsales/internal/models"
	"github.com/matthieukhl/nexsales/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrUnsupportedAction = errors.New("unsupported action")

type Executor struct {
	store   *store.Store
	company models.CompanyConfig
	ids     *OrderIDGenerator
	now     func() time.Time
	log     *zap.Logger
}

type Option func(*Executor)

// WithClock replaces time.Now; report days are taken in the clock's location
func WithClock(now func() time.Time) Option {
	return func(e *Executor) { e.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(e *Executor) { e.log = log }
}

func WithOrderIDs(ids *OrderIDGenerator) Option {
	return func(e *Executor) { e.ids = ids }
}

func New(st *store.Store, company models.CompanyConfig, opts ...Option) *Executor {
	e := &Executor{
		store:   st,
		company: company,
		now:     time.Now,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.ids == nil {
		e.ids = NewOrderIDGenerator(e.now)
	}
	return e
}

// Company returns the company settings used for pricing
func (e *Executor) Company() models.CompanyConfig {
	return e.company
}

// Execute runs one action. Lookup failures come back as *store.NotFoundError
// and leave the store unchanged.
func (e *Executor) Execute(ctx context.Context, action command.Action) (Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch a := action.(type) {
	case command.CreateOrder:
		return e.createOrder(a)
	case command.LookupProduct:
		return e.lookupProduct(a)
	case command.UpdateStock:
		return e.updateStock(a)
	case command.LookupCustomerHistory:
		return e.customerHistory(a)
	case command.GenerateReport:
		return e.report(), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedAction, action)
	}
}

func (e *Executor) createOrder(a command.CreateOrder) (Result, error) {
	order, err := e.placeOrder(a.CustomerID, a.Items, models.OrderStatusConfirmed)
	if err != nil {
		return nil, err
	}
	return OrderPlaced{Order: order, Confirmation: a.ConfirmationMessage}, nil
}

// PlaceManualOrder places an order entered by hand. Such orders start as
// pending, and repeated lines for one product are merged into a single line.
func (e *Executor) PlaceManualOrder(ctx context.Context, customerID string, lines []command.OrderLine) (models.Order, error) {
	if err := ctx.Err(); err != nil {
		return models.Order{}, err
	}
	merged, err := mergeLines(lines)
	if err != nil {
		return models.Order{}, fmt.Errorf("place order: %w", err)
	}
	return e.placeOrder(customerID, merged, models.OrderStatusPending)
}

// placeOrder resolves the customer and every product, snapshots names and
// current prices, and inserts the order in one store transaction.
func (e *Executor) placeOrder(customerID string, lines []command.OrderLine, status models.OrderStatus) (models.Order, error) {
	var placed models.Order

	err := e.store.WithTx(func(tx *store.Tx) error {
		customer, err := tx.Customer(customerID)
		if err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			product, err := tx.Product(line.ProductID)
			if err != nil {
				return err
			}
			items = append(items, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				PriceAtTime: product.Price,
			})
		}

		order := models.Order{
			OrderID:      e.nextOrderID(tx),
			CustomerID:   customer.ID,
			CustomerName: customer.Name,
			Date:         e.now(),
			Items:        items,
			Status:       status,
		}
		order.Total = e.company.ApplyTax(order.Subtotal())

		if err := tx.PlaceOrder(order); err != nil {
			return err
		}
		placed = order
		return nil
	})
	if err != nil {
		e.log.Warn("order rejected",
			zap.String("customer_id", customerID),
			zap.Int("lines", len(lines)),
			zap.Error(err),
		)
		return models.Order{}, fmt.Errorf("place order: %w", err)
	}

	e.log.Info("order placed",
		zap.String("order_id", placed.OrderID),
		zap.String("customer_id", placed.CustomerID),
		zap.String("status", string(placed.Status)),
		zap.String("total", placed.Total.StringFixed(2)),
	)
	return placed, nil
}

func (e *Executor) nextOrderID(tx *store.Tx) string {
	id := e.ids.Next()
	for tx.HasOrder(id) {
		id = e.ids.Next()
	}
	return id
}

func mergeLines(lines []command.OrderLine) ([]command.OrderLine, error) {
	merged := make([]command.OrderLine, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, line := range lines {
		if i, ok := index[line.ProductID]; ok {
			sum, err := store.AddQuantity(merged[i].Quantity, line.Quantity)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %w", store.ErrInvalidOrder, line.ProductID, err)
			}
			merged[i].Quantity = sum
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged, nil
}

func (e *Executor) lookupProduct(a command.LookupProduct) (Result, error) {
	product, err := e.store.Product(a.ProductID)
	if err != nil {
		return nil, err
	}
	return ProductSnapshot{Product: product}, nil
}

// updateStock applies the signed delta; the stock is not clamped at zero
func (e *Executor) updateStock(a command.UpdateStock) (Result, error) {
	product, err := e.store.AdjustStock(a.ProductID, a.Delta())
	if err != nil {
		return nil, err
	}
	e.log.Info("stock adjusted",
		zap.String("product_id", product.ID),
		zap.Int("delta", a.Delta()),
		zap.Int("stock", product.Stock),
	)
	return StockUpdated{Product: product, Quantity: a.Delta()}, nil
}

func (e *Executor) customerHistory(a command.LookupCustomerHistory) (Result, error) {
	snap := e.store.Snapshot()
	customer, err := snap.Customer(a.CustomerID)
	if err != nil {
		return nil, err
	}

	orders := []models.Order{}
	spent := decimal.Zero
	for _, o := range snap.Orders {
		if o.CustomerID != customer.ID {
			continue
		}
		orders = append(orders, o)
		if o.Status != models.OrderStatusCancelled {
			spent = spent.Add(o.Total)
		}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date.After(orders[j].Date)
	})

	return CustomerHistory{Customer: customer, Orders: orders, TotalSpent: spent}, nil
}

// report summarizes the caller's local calendar day
func (e *Executor) report() DailyReport {
	snap := e.store.Snapshot()
	now := e.now()

	r := DailyReport{
		Date:               now,
		Revenue:            decimal.Zero,
		LowStockItems:      []models.Product{},
		PendingOrdersTotal: decimal.Zero,
	}
	for _, o := range snap.Orders {
		if sameDay(o.Date, now) {
			r.OrdersCount++
			r.Revenue = r.Revenue.Add(o.Total)
		}
		if o.Status == models.OrderStatusPending {
			r.PendingOrdersCount++
			r.PendingOrdersTotal = r.PendingOrdersTotal.Add(o.Total)
		}
	}
	for _, p := range snap.Products {
		if p.LowStock() {
			r.LowStockItems = append(r.LowStockItems, p)
		}
	}
	return r
}

func sameDay(t, ref time.Time) bool {
	y1, m1, d1 := t.In(ref.Location()).Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// RestockLowStock raises every product at or below its reorder level to
// reorder_level + buffer and returns the updated products.
func (e *Executor) RestockLowStock(ctx context.Context, buffer int) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	restocked := []models.Product{}
	err := e.store.WithTx(func(tx *store.Tx) error {
		for _, p := range tx.Products() {
			if !p.LowStock() {
				continue
			}
			target, err := store.AddQuantity(p.ReorderLevel, buffer)
			if err != nil {
				return fmt.Errorf("product %q: %w", p.ID, err)
			}
			updated, err := tx.UpdateProduct(p.ID, store.ProductUpdate{Stock: &target})
			if err != nil {
				return err
			}
			restocked = append(restocked, updated)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("restock: %w", err)
	}

	e.log.Info("low stock restocked", zap.Int("products", len(restocked)), zap.Int("buffer", buffer))
	return restocked, nil
}

// Dashboard computes overview figures; revenue excludes cancelled orders
func (e *Executor) Dashboard(ctx context.Context) (DashboardSummary, error) {
	if err := ctx.Err(); err != nil {
		return DashboardSummary{}, err
	}

	snap := e.store.Snapshot()
	d := DashboardSummary{
		TotalRevenue:  decimal.Zero,
		ProductCount:  len(snap.Products),
		CustomerCount: len(snap.Customers),
		OrderCount:    len(snap.Orders),
		LowStockItems: []models.Product{},
	}
	for _, o := range snap.Orders {
		if o.Status != models.OrderStatusCancelled {
			d.TotalRevenue = d.TotalRevenue.Add(o.Total)
		}
	}
	for _, p := range snap.Products {
		if p.LowStock() {
			d.LowStockItems = append(d.LowStockItems, p)
		}
	}
	d.LowStockCount = len(d.LowStockItems)

	recent := snap.Orders
	if len(recent) > 5 {
		recent = recent[:5]
	}
	d.RecentOrders = recent
	return d, nil
}
