package store

import (
	"fmt"
	"slices"

	"github.com/matthieukhl/nexsales/internal/models"
)

// state is the unguarded record set. Every mutating method validates its
// input completely before it touches any collection.
type state struct {
	products      map[string]models.Product
	productOrder  []string
	customers     map[string]models.Customer
	customerOrder []string
	orders        []models.Order // most recent first
	orderIDs      map[string]struct{}
}

func newState() *state {
	return &state{
		products:  make(map[string]models.Product),
		customers: make(map[string]models.Customer),
		orderIDs:  make(map[string]struct{}),
	}
}

func (st *state) clone() *state {
	c := &state{
		products:      make(map[string]models.Product, len(st.products)),
		productOrder:  slices.Clone(st.productOrder),
		customers:     make(map[string]models.Customer, len(st.customers)),
		customerOrder: slices.Clone(st.customerOrder),
		orders:        make([]models.Order, len(st.orders)),
		orderIDs:      make(map[string]struct{}, len(st.orderIDs)),
	}
	for id, p := range st.products {
		c.products[id] = p
	}
	for id, cu := range st.customers {
		c.customers[id] = cu
	}
	// order items are never mutated in place, sharing them is safe
	copy(c.orders, st.orders)
	for id := range st.orderIDs {
		c.orderIDs[id] = struct{}{}
	}
	return c
}

func validateProduct(p models.Product) error {
	if p.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidProduct)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	return nil
}

func (st *state) product(id string) (models.Product, error) {
	p, ok := st.products[id]
	if !ok {
		return models.Product{}, notFound(KindProduct, id)
	}
	return p, nil
}

func (st *state) customer(id string) (models.Customer, error) {
	c, ok := st.customers[id]
	if !ok {
		return models.Customer{}, notFound(KindCustomer, id)
	}
	return c, nil
}

func (st *state) orderIndex(id string) int {
	return slices.IndexFunc(st.orders, func(o models.Order) bool { return o.OrderID == id })
}

func (st *state) addProduct(p models.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	if _, exists := st.products[p.ID]; exists {
		return fmt.Errorf("product %q: %w", p.ID, ErrDuplicateID)
	}
	st.products[p.ID] = p
	st.productOrder = append(st.productOrder, p.ID)
	return nil
}

func (st *state) updateProduct(id string, upd ProductUpdate) (models.Product, error) {
	p, err := st.product(id)
	if err != nil {
		return models.Product{}, err
	}
	upd.apply(&p)
	if err := validateProduct(p); err != nil {
		return models.Product{}, err
	}
	st.products[id] = p
	return p, nil
}

func (st *state) adjustStock(id string, delta int) (models.Product, error) {
	p, err := st.product(id)
	if err != nil {
		return models.Product{}, err
	}
	stock, err := AddQuantity(p.Stock, delta)
	if err != nil {
		return models.Product{}, fmt.Errorf("product %q: %w", id, err)
	}
	p.Stock = stock
	st.products[id] = p
	return p, nil
}

func (st *state) removeProduct(id string) error {
	if _, err := st.product(id); err != nil {
		return err
	}
	delete(st.products, id)
	st.productOrder = slices.DeleteFunc(st.productOrder, func(pid string) bool { return pid == id })
	return nil
}

func (st *state) addCustomer(c models.Customer) error {
	if c.ID == "" {
		return fmt.Errorf("customer id is required")
	}
	if _, exists := st.customers[c.ID]; exists {
		return fmt.Errorf("customer %q: %w", c.ID, ErrDuplicateID)
	}
	st.customers[c.ID] = c
	st.customerOrder = append(st.customerOrder, c.ID)
	return nil
}

func (st *state) removeCustomer(id string) error {
	if _, err := st.customer(id); err != nil {
		return err
	}
	delete(st.customers, id)
	st.customerOrder = slices.DeleteFunc(st.customerOrder, func(cid string) bool { return cid == id })
	return nil
}

// placeOrder prepends the order and deducts stock once per distinct product
// using the summed quantity of all its lines.
func (st *state) placeOrder(o models.Order) error {
	if o.OrderID == "" {
		return fmt.Errorf("%w: order id is required", ErrInvalidOrder)
	}
	if _, exists := st.orderIDs[o.OrderID]; exists {
		return fmt.Errorf("order %q: %w", o.OrderID, ErrDuplicateID)
	}
	if !o.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, o.Status)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("%w: order has no items", ErrInvalidOrder)
	}
	if _, err := st.customer(o.CustomerID); err != nil {
		return err
	}

	deductions := make(map[string]int, len(o.Items))
	var productIDs []string
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: quantity for %q must be > 0", ErrInvalidOrder, item.ProductID)
		}
		if _, err := st.product(item.ProductID); err != nil {
			return err
		}
		if _, seen := deductions[item.ProductID]; !seen {
			productIDs = append(productIDs, item.ProductID)
		}
		sum, err := AddQuantity(deductions[item.ProductID], item.Quantity)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidOrder, item.ProductID, err)
		}
		deductions[item.ProductID] = sum
	}

	remaining := make(map[string]int, len(productIDs))
	for _, id := range productIDs {
		stock, err := SubQuantity(st.products[id].Stock, deductions[id])
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidOrder, id, err)
		}
		remaining[id] = stock
	}

	st.orders = append([]models.Order{o.Clone()}, st.orders...)
	st.orderIDs[o.OrderID] = struct{}{}
	for _, id := range productIDs {
		p := st.products[id]
		p.Stock = remaining[id]
		st.products[id] = p
	}
	return nil
}

func (st *state) setOrderStatus(id string, status models.OrderStatus) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	idx := st.orderIndex(id)
	if idx < 0 {
		return models.Order{}, notFound(KindOrder, id)
	}
	st.orders[idx].Status = status
	return st.orders[idx].Clone(), nil
}

func (st *state) productList() []models.Product {
	out := make([]models.Product, 0, len(st.productOrder))
	for _, id := range st.productOrder {
		out = append(out, st.products[id])
	}
	return out
}

func (st *state) customerList() []models.Customer {
	out := make([]models.Customer, 0, len(st.customerOrder))
	for _, id := range st.customerOrder {
		out = append(out, st.customers[id])
	}
	return out
}

func (st *state) orderList() []models.Order {
	out := make([]models.Order, len(st.orders))
	for i, o := range st.orders {
		out[i] = o.Clone()
	}
	return out
}
