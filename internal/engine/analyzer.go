package engine

import (
	"sort"

	"eve-nexus/internal/esi"
)

// splitOrders partitions orders into new buy and sell slices, buys highest first and
// sells lowest first. Equal prices keep their input order. The input is not modified.
func splitOrders(orders []esi.MarketOrder) (buys, sells []esi.MarketOrder) {
	buys = make([]esi.MarketOrder, 0, len(orders))
	sells = make([]esi.MarketOrder, 0, len(orders))
	for _, o := range orders {
		if o.IsBuyOrder {
			buys = append(buys, o)
		} else {
			sells = append(sells, o)
		}
	}
	sort.SliceStable(buys, func(i, j int) bool { return buys[i].Price > buys[j].Price })
	sort.SliceStable(sells, func(i, j int) bool { return sells[i].Price < sells[j].Price })
	return buys, sells
}

func sumVolumeRemain(orders []esi.MarketOrder) int64 {
	var total int64
	for _, o := range orders {
		total += int64(o.VolumeRemain)
	}
	return total
}

// AnalyzeMarket summarizes an order book: best prices, spread, side volumes,
// estimated margin and a headline action. Empty input yields a zeroed Analysis with ActionHold.
func AnalyzeMarket(orders []esi.MarketOrder) Analysis {
	buys, sells := splitOrders(orders)

	var bestBuy, bestSell float64
	if len(buys) > 0 {
		bestBuy = buys[0].Price
	}
	if len(sells) > 0 {
		bestSell = sells[0].Price
	}

	spread := bestSell - bestBuy
	spreadPct := 0.0
	if bestBuy > 0 {
		spreadPct = spread / bestBuy * 100
	}

	margin := SpreadMargin(bestBuy, bestSell)

	return Analysis{
		BuyOrders:         buys,
		SellOrders:        sells,
		BestBuyPrice:      bestBuy,
		BestSellPrice:     bestSell,
		Spread:            spread,
		SpreadPercentage:  spreadPct,
		TotalBuyVolume:    sumVolumeRemain(buys),
		TotalSellVolume:   sumVolumeRemain(sells),
		ProfitMargin:      margin,
		RecommendedAction: recommendAction(margin, spreadPct),
	}
}

// SpreadMargin estimates the margin of buying at buyPrice and selling at sellPrice as
// the gross percentage spread minus the broker fee and sales tax rates in percentage points.
// Fees are not applied to the actual cost and revenue; CalculateTradingProfit does that.
func SpreadMargin(buyPrice, sellPrice float64) float64 {
	if buyPrice <= 0 {
		return 0
	}
	gross := (sellPrice - buyPrice) / buyPrice * 100
	return gross - (BrokerFeeRate+SalesTaxRate)*100
}

// recommendAction picks the first matching verdict in order of precedence.
func recommendAction(margin, spreadPct float64) Action {
	switch {
	case margin > 15:
		return ActionStrongBuy
	case margin > 10:
		return ActionBuy
	case margin < -10:
		return ActionSell
	case spreadPct > 20:
		return ActionConsiderTrading
	default:
		return ActionHold
	}
}
