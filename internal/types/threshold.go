package types

import "github.com/shopspring/decimal"

// DustThreshold is the minimum quantity below which a position is
// considered fully closed (1e-5).
var DustThreshold = decimal.New(1, -5)
