// Package store owns the in-memory product, customer and order records and
// is the only way to modify them. All methods are safe for concurrent use;
// each mutation runs inside one store-wide critical section.
package store

import (
	"sync"

	"github.com/google/uuid"
	"github.com/matthieukhl/nexsales/internal/models"
	"github.com/shopspring/decimal"
)

type Store struct {
	mu sync.RWMutex
	st *state
}

// New creates an empty store
func New() *Store {
	return &Store{st: newState()}
}

// ProductUpdate is a partial product edit; nil fields are left unchanged
type ProductUpdate struct {
	SKU          *string          `json:"sku"`
	Name         *string          `json:"name"`
	Category     *string          `json:"category"`
	Price        *decimal.Decimal `json:"price"`
	Stock        *int             `json:"stock"`
	ReorderLevel *int             `json:"reorder_level"`
}

func (u ProductUpdate) apply(p *models.Product) {
	if u.SKU != nil {
		p.SKU = *u.SKU
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.ReorderLevel != nil {
		p.ReorderLevel = *u.ReorderLevel
	}
}

// Tx is a working view handed to WithTx callbacks
type Tx struct {
	st *state
}

func (tx *Tx) Product(id string) (models.Product, error)   { return tx.st.product(id) }
func (tx *Tx) Customer(id string) (models.Customer, error) { return tx.st.customer(id) }
func (tx *Tx) Products() []models.Product                  { return tx.st.productList() }
func (tx *Tx) HasOrder(id string) bool {
	_, ok := tx.st.orderIDs[id]
	return ok
}

func (tx *Tx) PlaceOrder(o models.Order) error { return tx.st.placeOrder(o) }

func (tx *Tx) UpdateProduct(id string, upd ProductUpdate) (models.Product, error) {
	return tx.st.updateProduct(id, upd)
}

func (tx *Tx) AdjustStock(id string, delta int) (models.Product, error) {
	return tx.st.adjustStock(id, delta)
}

// WithTx runs fn against a working copy of the records while holding the
// write lock. The copy replaces the live records only when fn returns nil,
// so a failed multi-step operation leaves the store untouched.
func (s *Store) WithTx(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(&Tx{st: work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) AddProduct(p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.addProduct(p)
}

func (s *Store) UpdateProduct(id string, upd ProductUpdate) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.updateProduct(id, upd)
}

// AdjustStock adds delta to the product stock. The result may go negative.
func (s *Store) AdjustStock(id string, delta int) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.adjustStock(id, delta)
}

// RemoveProduct deletes the product. Orders that reference it keep their snapshots.
func (s *Store) RemoveProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.removeProduct(id)
}

func (s *Store) AddCustomer(c models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.addCustomer(c)
}

func (s *Store) RemoveCustomer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.removeCustomer(id)
}

// PlaceOrder inserts the order at the front of the order list and applies
// the aggregated stock deduction in the same critical section.
func (s *Store) PlaceOrder(o models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.placeOrder(o)
}

func (s *Store) SetOrderStatus(id string, status models.OrderStatus) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.setOrderStatus(id, status)
}

// MockDataResult counts the records appended by LoadMockData
type MockDataResult struct {
	Products  int `json:"products"`
	Customers int `json:"customers"`
}

// LoadMockData appends a generated batch without merging on SKU or email.
// Records whose id is empty or already taken get a fresh id.
func (s *Store) LoadMockData(products []models.Product, customers []models.Customer) (MockDataResult, error) {
	err := s.WithTx(func(tx *Tx) error {
		for _, p := range products {
			if _, taken := tx.st.products[p.ID]; p.ID == "" || taken {
				p.ID = NewProductID()
			}
			if err := tx.st.addProduct(p); err != nil {
				return err
			}
		}
		for _, c := range customers {
			if _, taken := tx.st.customers[c.ID]; c.ID == "" || taken {
				c.ID = NewCustomerID()
			}
			if err := tx.st.addCustomer(c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return MockDataResult{}, err
	}
	return MockDataResult{Products: len(products), Customers: len(customers)}, nil
}

func (s *Store) Product(id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.product(id)
}

func (s *Store) Customer(id string) (models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.customer(id)
}

func (s *Store) Order(id string) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.st.orderIndex(id)
	if idx < 0 {
		return models.Order{}, notFound(KindOrder, id)
	}
	return s.st.orders[idx].Clone(), nil
}

// Products returns the catalog in insertion order
func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.productList()
}

func (s *Store) Customers() []models.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.customerList()
}

// Orders returns all orders, most recent first
func (s *Store) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.orderList()
}

// OrdersByCustomer returns the customer's orders, most recent first. An
// unknown customer id yields an empty list, since orders outlive customers.
func (s *Store) OrdersByCustomer(customerID string) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Order{}
	for _, o := range s.st.orders {
		if o.CustomerID == customerID {
			out = append(out, o.Clone())
		}
	}
	return out
}

// Snapshot is a consistent copy of every collection taken under one read lock
type Snapshot struct {
	Products  []models.Product
	Customers []models.Customer
	Orders    []models.Order
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Products:  s.st.productList(),
		Customers: s.st.customerList(),
		Orders:    s.st.orderList(),
	}
}

func NewProductID() string  { return "prod-" + uuid.NewString() }
func NewCustomerID() string { return "cust-" + uuid.NewString() }

// Product finds a product in the snapshot
func (s Snapshot) Product(id string) (models.Product, error) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, notFound(KindProduct, id)
}

// Customer finds a customer in the snapshot
func (s Snapshot) Customer(id string) (models.Customer, error) {
	for _, c := range s.Customers {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Customer{}, notFound(KindCustomer, id)
}
