package store

import (
	"fmt"
	"math"
)

// AddQuantity returns a+b, or ErrQuantityOverflow when the sum does not
// fit an int.
func AddQuantity(a, b int) (int, error) {
	if (b > 0 && a > math.MaxInt-b) || (b < 0 && a < math.MinInt-b) {
		return 0, fmt.Errorf("%w: %d + %d", ErrQuantityOverflow, a, b)
	}
	return a + b, nil
}

// SubQuantity returns a-b, or ErrQuantityOverflow when the difference does
// not fit an int.
func SubQuantity(a, b int) (int, error) {
	if (b < 0 && a > math.MaxInt+b) || (b > 0 && a < math.MinInt+b) {
		return 0, fmt.Errorf("%w: %d - %d", ErrQuantityOverflow, a, b)
	}
	return a - b, nil
}
