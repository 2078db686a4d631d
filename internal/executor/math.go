package executor

import "github.com/shopspring/decimal"

// NextAverageCost returns the weighted average cost after adding addQty
// units at price to an existing holding of oldQty units at oldAvgCost:
//
//	(oldQty*oldAvgCost + addQty*price) / (oldQty + addQty)
func NextAverageCost(oldQty, oldAvgCost, addQty, price decimal.Decimal) decimal.Decimal {
	totalQty := oldQty.Add(addQty)
	if !totalQty.IsPositive() {
		return decimal.Zero
	}
	totalCost := oldQty.Mul(oldAvgCost).Add(addQty.Mul(price))
	return totalCost.DivRound(totalQty, 8)
}

// RealizedPnL returns qty * (price - avgCost), the profit or loss realized
// by selling qty units bought at avgCost.
func RealizedPnL(qty, price, avgCost decimal.Decimal) decimal.Decimal {
	return qty.Mul(price.Sub(avgCost))
}
