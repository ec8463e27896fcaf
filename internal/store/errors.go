package store

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateID    = errors.New("duplicate id")
	ErrInvalidProduct = errors.New("invalid product")
	ErrInvalidOrder   = errors.New("invalid order")
	ErrInvalidStatus  = errors.New("invalid order status")
	// ErrQuantityOverflow means a stock or quantity sum does not fit an int
	ErrQuantityOverflow = errors.New("quantity out of range")
)

// Kind names the record collection a lookup ran against
type Kind string

const (
	KindProduct  Kind = "product"
	KindCustomer Kind = "customer"
	KindOrder    Kind = "order"
)

// NotFoundError is returned when a referenced record does not exist
type NotFoundError struct {
	Kind Kind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func notFound(kind Kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// IsNotFound reports whether err is a NotFoundError for the given kind.
// An empty kind matches any collection.
func IsNotFound(err error, kind Kind) bool {
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		return false
	}
	return kind == "" || nf.Kind == kind
}
