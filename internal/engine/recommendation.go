package engine

import (
	"math"
	"strings"

	"eve-nexus/internal/esi"
)

// Advisory lines emitted by Recommendations.
const (
	MsgExcellentMargin = "🟢 Excellent profit opportunity (>15% margin)"
	MsgGoodMargin      = "🟡 Good trading opportunity (>10% margin)"
	MsgLowMargin       = "🔴 Low profit margins, consider other items"
	MsgLargeSpread     = "💰 Large spread detected - potential for market making"
	MsgHighDemand      = "📈 High demand - consider selling"
	MsgHighSupply      = "📉 High supply - consider buying"
	MsgTrendUp         = "📊 Price trending upward - consider buying"
	MsgTrendDown       = "📊 Price trending downward - consider selling"
	MsgStable          = "📋 Stable market conditions - monitor for opportunities"
)

const (
	trendWindowDays = 7
	trendMAPeriod   = 3
)

// Recommendations evaluates each advisory rule in a fixed order and returns every
// line that applies. Margin lines are mutually exclusive, as are the demand/supply
// lines; the spread and trend lines are independent. With no match the single
// MsgStable line is returned.
func Recommendations(a Analysis, history []esi.HistoryEntry) []string {
	var lines []string

	switch {
	case a.ProfitMargin > 15:
		lines = append(lines, MsgExcellentMargin)
	case a.ProfitMargin > 10:
		lines = append(lines, MsgGoodMargin)
	case a.ProfitMargin < 5:
		lines = append(lines, MsgLowMargin)
	}

	if a.SpreadPercentage > 20 {
		lines = append(lines, MsgLargeSpread)
	}

	switch {
	case a.TotalBuyVolume > a.TotalSellVolume*2:
		lines = append(lines, MsgHighDemand)
	case a.TotalSellVolume > a.TotalBuyVolume*2:
		lines = append(lines, MsgHighSupply)
	}

	if len(history) >= trendWindowDays {
		ma := MovingAverage(history[len(history)-trendWindowDays:], trendMAPeriod)
		trend := ma[len(ma)-1] - ma[0]
		switch {
		case trend > 0:
			lines = append(lines, MsgTrendUp)
		case trend < 0:
			lines = append(lines, MsgTrendDown)
		}
	}

	if len(lines) == 0 {
		return []string{MsgStable}
	}
	return lines
}

// TradingRecommendation joins Recommendations with newlines for display.
func TradingRecommendation(a Analysis, history []esi.HistoryEntry) string {
	return strings.Join(Recommendations(a, history), "\n")
}

// MovingAverage returns, for every entry, the mean Average price over the trailing
// window of up to days entries ending at it. The window is shorter at the start.
func MovingAverage(history []esi.HistoryEntry, days int) []float64 {
	if days < 1 {
		days = 1
	}
	out := make([]float64, len(history))
	for i := range history {
		start := max(0, i-days+1)
		var sum float64
		for _, h := range history[start : i+1] {
			sum += h.Average
		}
		out[i] = sum / float64(i+1-start)
	}
	return out
}

// Volatility is the population standard deviation of the daily Average price.
func Volatility(history []esi.HistoryEntry) float64 {
	if len(history) < 2 {
		return 0
	}
	prices := make([]float64, len(history))
	for i, h := range history {
		prices[i] = h.Average
	}
	return stdDev(prices)
}

// stdDev calculates population standard deviation.
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))

	return math.Sqrt(variance)
}
