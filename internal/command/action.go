// Package command turns raw assistant replies into typed actions.
package command

// Kind tags an Action variant. The string values are the wire tags the
// assistant puts in the "action" field.
type Kind string

const (
	KindPlainText             Kind = "plain_text"
	KindCreateOrder           Kind = "create_order"
	KindLookupProduct         Kind = "lookup_product"
	KindUpdateStock           Kind = "update_stock"
	KindLookupCustomerHistory Kind = "lookup_customer_history"
	KindGenerateReport        Kind = "generate_report"
)

// PeriodToday is the only report period the assistant may request
const PeriodToday = "today"

// Action is one interpreted assistant reply
type Action interface {
	Kind() Kind
}

// PlainText is free-form prose that is shown as is
type PlainText struct {
	Message string
}

type OrderLine struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

type CreateOrder struct {
	CustomerID          string      `json:"customerId" validate:"required"`
	Items               []OrderLine `json:"items" validate:"required,min=1,dive"`
	ConfirmationMessage string      `json:"confirmationMessage"`
}

type LookupProduct struct {
	ProductID string `json:"productId" validate:"required"`
}

// UpdateStock adds Quantity to the product stock; zero and negative
// quantities are accepted.
type UpdateStock struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"required"`
}

// Delta returns the stock change, treating a missing quantity as zero
func (a UpdateStock) Delta() int {
	if a.Quantity == nil {
		return 0
	}
	return *a.Quantity
}

type LookupCustomerHistory struct {
	CustomerID string `json:"customerId" validate:"required"`
}

type GenerateReport struct {
	Period string `json:"period" validate:"omitempty,oneof=today"`
}

func (PlainText) Kind() Kind             { return KindPlainText }
func (CreateOrder) Kind() Kind           { return KindCreateOrder }
func (LookupProduct) Kind() Kind         { return KindLookupProduct }
func (UpdateStock) Kind() Kind           { return KindUpdateStock }
func (LookupCustomerHistory) Kind() Kind { return KindLookupCustomerHistory }
func (GenerateReport) Kind() Kind        { return KindGenerateReport }
