package engine

import "eve-nexus/internal/esi"

// Action is the headline trading verdict for a market.
type Action string

const (
	ActionHold            Action = "Hold"
	ActionStrongBuy       Action = "Strong Buy"
	ActionBuy             Action = "Buy"
	ActionSell            Action = "Sell"
	ActionConsiderTrading Action = "Consider Trading"
)

// Analysis is the order-book summary of a single region/type market.
type Analysis struct {
	BuyOrders         []esi.MarketOrder `json:"buy_orders"`  // highest price first
	SellOrders        []esi.MarketOrder `json:"sell_orders"` // lowest price first
	BestBuyPrice      float64           `json:"best_buy_price"`
	BestSellPrice     float64           `json:"best_sell_price"`
	Spread            float64           `json:"spread"` // best sell - best buy, negative when inverted
	SpreadPercentage  float64           `json:"spread_percentage"`
	TotalBuyVolume    int64             `json:"total_buy_volume"`
	TotalSellVolume   int64             `json:"total_sell_volume"`
	ProfitMargin      float64           `json:"profit_margin"` // percent, after flat fee points
	RecommendedAction Action            `json:"recommended_action"`
}

// PriceInversion is a best buy priced above the best sell in the same region.
type PriceInversion struct {
	BuyPrice             float64 `json:"buy_price"`
	SellPrice            float64 `json:"sell_price"`
	ArbitrageOpportunity float64 `json:"arbitrage_opportunity"`
}

// PriceGap is a jump between two adjacent sell order prices.
type PriceGap struct {
	GapSize       float64 `json:"gap_size"`
	GapPercentage float64 `json:"gap_percentage"`
}

// VolumeSpike is a recent day whose traded volume far exceeds the trailing average.
type VolumeSpike struct {
	Date          string  `json:"date"`
	Volume        int64   `json:"volume"`
	AverageVolume float64 `json:"average_volume"`
}

// Anomalies collects unusual order-book and history patterns.
type Anomalies struct {
	PriceInversions []PriceInversion  `json:"price_inversions"` // at most one entry
	LargeOrders     []esi.MarketOrder `json:"large_orders"`
	PriceGaps       []PriceGap        `json:"price_gaps"`
	VolumeSpikes    []VolumeSpike     `json:"volume_spikes"`
}

// TradingCalculation is the outcome of buying at one price and reselling at another.
type TradingCalculation struct {
	InvestmentAmount float64 `json:"investment_amount"`
	BuyPrice         float64 `json:"buy_price"`
	SellPrice        float64 `json:"sell_price"`
	Quantity         int64   `json:"quantity"`
	TotalCost        float64 `json:"total_cost"`
	BrokerFee        float64 `json:"broker_fee"`
	GrossRevenue     float64 `json:"gross_revenue"`
	SalesTax         float64 `json:"sales_tax"`
	NetRevenue       float64 `json:"net_revenue"`
	GrossProfit      float64 `json:"gross_profit"`
	NetProfit        float64 `json:"net_profit"`
	ProfitMargin     float64 `json:"profit_margin"`
	ROIPercentage    float64 `json:"roi_percentage"` // same value as ProfitMargin
}
