package engine

import (
	"math"

	"eve-nexus/internal/esi"
)

const (
	largeOrderFactor  = 10   // volume_remain above this multiple of the mean
	priceGapPercent   = 10.0 // gap between adjacent sell prices
	volumeSpikeFactor = 3    // daily volume above this multiple of the trailing mean
	spikeWindowDays   = 7
	spikeBaselineDays = 30
)

// DetectAnomalies scans the order book for arbitrage inversions, oversized orders and
// sell-side price gaps, and the most recent history for volume spikes.
// history must be oldest first. All lists are empty (not nil) when nothing is found.
func DetectAnomalies(orders []esi.MarketOrder, history []esi.HistoryEntry) Anomalies {
	_, sells := splitOrders(orders)
	return Anomalies{
		PriceInversions: priceInversions(orders),
		LargeOrders:     largeOrders(orders),
		PriceGaps:       priceGaps(sells),
		VolumeSpikes:    volumeSpikes(history),
	}
}

// priceInversions reports the single best-vs-best crossing, if any.
func priceInversions(orders []esi.MarketOrder) []PriceInversion {
	out := []PriceInversion{}
	highestBuy := math.Inf(-1)
	lowestSell := math.Inf(1)
	var haveBuy, haveSell bool
	for _, o := range orders {
		if o.IsBuyOrder {
			haveBuy = true
			if o.Price > highestBuy {
				highestBuy = o.Price
			}
		} else {
			haveSell = true
			if o.Price < lowestSell {
				lowestSell = o.Price
			}
		}
	}
	if haveBuy && haveSell && highestBuy > lowestSell {
		out = append(out, PriceInversion{
			BuyPrice:             highestBuy,
			SellPrice:            lowestSell,
			ArbitrageOpportunity: highestBuy - lowestSell,
		})
	}
	return out
}

// largeOrders returns orders, in input order, whose remaining volume exceeds
// largeOrderFactor times the mean remaining volume over all orders.
func largeOrders(orders []esi.MarketOrder) []esi.MarketOrder {
	out := []esi.MarketOrder{}
	if len(orders) == 0 {
		return out
	}
	avg := float64(sumVolumeRemain(orders)) / float64(len(orders))
	threshold := avg * largeOrderFactor
	for _, o := range orders {
		if float64(o.VolumeRemain) > threshold {
			out = append(out, o)
		}
	}
	return out
}

// priceGaps walks sell orders sorted ascending and flags adjacent pairs more than
// priceGapPercent apart. A pair whose lower price is not positive has no defined
// percentage and is skipped.
func priceGaps(sells []esi.MarketOrder) []PriceGap {
	out := []PriceGap{}
	for i := 0; i+1 < len(sells); i++ {
		cur := sells[i].Price
		if cur <= 0 {
			continue
		}
		gap := sells[i+1].Price - cur
		pct := gap / cur * 100
		if pct > priceGapPercent {
			out = append(out, PriceGap{GapSize: gap, GapPercentage: pct})
		}
	}
	return out
}

// volumeSpikes compares each of the last spikeWindowDays days against the mean volume of
// the last spikeBaselineDays days. Needs more than spikeWindowDays days of history.
func volumeSpikes(history []esi.HistoryEntry) []VolumeSpike {
	out := []VolumeSpike{}
	if len(history) <= spikeWindowDays {
		return out
	}

	baseline := history[len(history)-min(spikeBaselineDays, len(history)):]
	var total int64
	for _, h := range baseline {
		total += h.Volume
	}
	avg := float64(total) / float64(len(baseline))

	for _, h := range history[len(history)-spikeWindowDays:] {
		if float64(h.Volume) > avg*volumeSpikeFactor {
			out = append(out, VolumeSpike{Date: h.Date, Volume: h.Volume, AverageVolume: avg})
		}
	}
	return out
}
