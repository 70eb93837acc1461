package calculator

import (
	"errors"

	"github.com/shopspring/decimal"
)

// PercentRatio computes numerator / denominator * 100 rounded to the given
// number of decimal places. Both operands must be non-zero.
func PercentRatio(numerator, denominator float64, places int32) (float64, error) {
	if numerator == 0 || denominator == 0 {
		return 0, errors.New("ratio operands must be non-zero")
	}
	n := decimal.NewFromFloat(numerator)
	d := decimal.NewFromFloat(denominator)
	r := n.Div(d).Mul(decimal.NewFromInt(100)).Round(places)
	f, _ := r.Float64()
	return f, nil
}
