package engine

import "math"

// Fixed fee rates. Broker fee is charged on the purchase cost, sales tax on gross revenue.
const (
	BrokerFeeRate = 0.05
	SalesTaxRate  = 0.08
)

// CalculateTradingProfit spends as much of investment as whole units at buyPrice allow,
// resells them at sellPrice and reports fees and profit. Prices are expected to be positive;
// when not even one unit is affordable, or an input is not finite, or the unit count
// does not fit in an int64, every derived value is zero.
func CalculateTradingProfit(investment, buyPrice, sellPrice float64) TradingCalculation {
	calc := TradingCalculation{
		InvestmentAmount: investment,
		BuyPrice:         buyPrice,
		SellPrice:        sellPrice,
	}
	if !finite(investment) || !finite(buyPrice) || !finite(sellPrice) {
		return calc
	}
	if buyPrice <= 0 || investment <= 0 {
		return calc
	}
	units := math.Floor(investment / buyPrice)
	if units >= math.MaxInt64 {
		return calc
	}

	qty := int64(units)
	totalCost := float64(qty) * buyPrice
	brokerFee := totalCost * BrokerFeeRate
	grossRevenue := float64(qty) * sellPrice
	salesTax := grossRevenue * SalesTaxRate
	netRevenue := grossRevenue - brokerFee - salesTax
	netProfit := netRevenue - totalCost

	margin := 0.0
	if totalCost > 0 {
		margin = netProfit / totalCost * 100
	}

	calc.Quantity = qty
	calc.TotalCost = totalCost
	calc.BrokerFee = brokerFee
	calc.GrossRevenue = grossRevenue
	calc.SalesTax = salesTax
	calc.NetRevenue = netRevenue
	calc.GrossProfit = grossRevenue - totalCost
	calc.NetProfit = netProfit
	calc.ProfitMargin = margin
	calc.ROIPercentage = margin
	return calc
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
