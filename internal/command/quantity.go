package command

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

var (
	maxInt = decimal.NewFromInt(math.MaxInt)
	minInt = decimal.NewFromInt(math.MinInt)
)

const (
	maxExponent = 18
	minExponent = -64
)

// wholeNumber accepts any JSON number with an integral value that fits an
// int, so 2, 2.0 and 2e1 decode while 1.5 and 1e30 do not.
func wholeNumber(n json.Number) (int, error) {
	if v, err := strconv.ParseInt(n.String(), 10, 0); err == nil {
		return int(v), nil
	}

	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return 0, fmt.Errorf("quantity %q is not a number", n)
	}
	if d.IsZero() {
		return 0, nil
	}
	// Bound the exponent before any arithmetic; anything beyond is either
	// out of range or carries more fractional digits than a quantity needs.
	if exp := d.Exponent(); exp > maxExponent {
		return 0, fmt.Errorf("quantity %s is out of range", n)
	} else if exp < minExponent {
		return 0, fmt.Errorf("quantity %s is not a whole number", n)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("quantity %s is not a whole number", n)
	}
	if d.GreaterThan(maxInt) || d.LessThan(minInt) {
		return 0, fmt.Errorf("quantity %s is out of range", n)
	}
	return int(d.IntPart()), nil
}

func (l *OrderLine) UnmarshalJSON(data []byte) error {
	var wire struct {
		ProductID string      `json:"productId"`
		Quantity  json.Number `json:"quantity"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	l.ProductID = wire.ProductID
	l.Quantity = 0
	if wire.Quantity != "" {
		q, err := wholeNumber(wire.Quantity)
		if err != nil {
			return err
		}
		l.Quantity = q
	}
	return nil
}

func (a *UpdateStock) UnmarshalJSON(data []byte) error {
	var wire struct {
		ProductID string       `json:"productId"`
		Quantity  *json.Number `json:"quantity"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	a.ProductID = wire.ProductID
	a.Quantity = nil
	if wire.Quantity != nil {
		q, err := wholeNumber(*wire.Quantity)
		if err != nil {
			return err
		}
		a.Quantity = &q
	}
	return nil
}
