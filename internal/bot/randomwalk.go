package bot

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

// randomWalkDelta draws a uniform price change in (-500, +500).
func randomWalkDelta() decimal.Decimal {
	return decimal.NewFromFloat(rand.Float64()*1000 - 500)
}
