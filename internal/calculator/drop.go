package calculator

import (
	"errors"

	"github.com/shopspring/decimal"
)

// PercentDrop returns (baseline - current) / baseline * 100.
// The arithmetic is done in decimal so that a value sitting exactly on a
// tier boundary (56.5 -> 45.2 is 20%) does not land a hair below it.
func PercentDrop(baseline, current float64) (float64, error) {
	if baseline == 0 {
		return 0, errors.New("baseline must be non-zero")
	}
	b := decimal.NewFromFloat(baseline)
	c := decimal.NewFromFloat(current)
	drop := b.Sub(c).Div(b).Mul(decimal.NewFromInt(100))
	f, _ := drop.Float64()
	return f, nil
}
