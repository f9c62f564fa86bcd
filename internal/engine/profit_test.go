package engine

import (
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestCalculateTradingProfit_Exact(t *testing.T) {
	c := CalculateTradingProfit(1_000_000, 100, 110)
	if c.Quantity != 10000 {
		t.Errorf("Quantity = %d, want 10000", c.Quantity)
	}
	if !approx(c.TotalCost, 1_000_000) {
		t.Errorf("TotalCost = %v, want 1000000", c.TotalCost)
	}
	if !approx(c.BrokerFee, 50_000) {
		t.Errorf("BrokerFee = %v, want 50000", c.BrokerFee)
	}
	if !approx(c.GrossRevenue, 1_100_000) {
		t.Errorf("GrossRevenue = %v, want 1100000", c.GrossRevenue)
	}
	if !approx(c.SalesTax, 88_000) {
		t.Errorf("SalesTax = %v, want 88000", c.SalesTax)
	}
	if !approx(c.GrossProfit, 100_000) {
		t.Errorf("GrossProfit = %v, want 100000", c.GrossProfit)
	}
	// 1,100,000 - 50,000 - 88,000 - 1,000,000
	if !approx(c.NetProfit, -38_000) {
		t.Errorf("NetProfit = %v, want -38000", c.NetProfit)
	}
	if !approx(c.ProfitMargin, -3.8) || c.ROIPercentage != c.ProfitMargin {
		t.Errorf("ProfitMargin/ROI = %v/%v, want -3.8 for both", c.ProfitMargin, c.ROIPercentage)
	}
	if c.InvestmentAmount != 1_000_000 || c.BuyPrice != 100 || c.SellPrice != 110 {
		t.Errorf("inputs not echoed: %+v", c)
	}
}

func TestCalculateTradingProfit_FloorsQuantity(t *testing.T) {
	c := CalculateTradingProfit(1000, 300, 400)
	if c.Quantity != 3 {
		t.Errorf("Quantity = %d, want 3", c.Quantity)
	}
	if c.TotalCost > c.InvestmentAmount {
		t.Errorf("TotalCost %v exceeds investment %v", c.TotalCost, c.InvestmentAmount)
	}
	// sales tax is on revenue only, broker fee on cost only
	if !approx(c.BrokerFee, 900*BrokerFeeRate) || !approx(c.SalesTax, 1200*SalesTaxRate) {
		t.Errorf("BrokerFee/SalesTax = %v/%v, want 45/96", c.BrokerFee, c.SalesTax)
	}
	wantNet := 1200 - 45 - 96 - 900.0
	if !approx(c.NetProfit, wantNet) {
		t.Errorf("NetProfit = %v, want %v", c.NetProfit, wantNet)
	}
	if !approx(c.ProfitMargin, wantNet/900*100) {
		t.Errorf("ProfitMargin = %v, want %v", c.ProfitMargin, wantNet/900*100)
	}
}

func TestCalculateTradingProfit_UnaffordableIsZero(t *testing.T) {
	c := CalculateTradingProfit(50, 100, 200)
	if c.Quantity != 0 || c.TotalCost != 0 || c.NetProfit != 0 || c.ProfitMargin != 0 || c.ROIPercentage != 0 {
		t.Errorf("buy price above investment: %+v, want zeroed", c)
	}
}

func TestCalculateTradingProfit_DegenerateInputs(t *testing.T) {
	for _, c := range []TradingCalculation{
		CalculateTradingProfit(1000, 0, 10),
		CalculateTradingProfit(1000, -5, 10),
		CalculateTradingProfit(-1000, 5, 10),
	} {
		if c.Quantity != 0 || c.ProfitMargin != 0 || math.IsNaN(c.NetProfit) || math.IsInf(c.NetProfit, 0) {
			t.Errorf("degenerate input gave %+v, want zeroed", c)
		}
	}
}

func TestCalculateTradingProfit_QuantityOverflowIsZero(t *testing.T) {
	c := CalculateTradingProfit(1e30, 100, 110)
	if c.Quantity != 0 || c.TotalCost != 0 || c.NetProfit != 0 || c.ProfitMargin != 0 {
		t.Errorf("unrepresentable quantity gave %+v, want zeroed", c)
	}
	if c.InvestmentAmount != 1e30 || c.BuyPrice != 100 || c.SellPrice != 110 {
		t.Errorf("inputs not echoed: %+v", c)
	}

	// Largest investment whose unit count still fits.
	c = CalculateTradingProfit(9e18, 1, 1)
	if c.Quantity != 9e18 {
		t.Errorf("Quantity = %d, want 9e18", c.Quantity)
	}
}

func TestCalculateTradingProfit_NonFiniteInputsAreZero(t *testing.T) {
	inf, nan := math.Inf(1), math.NaN()
	for _, in := range [][3]float64{
		{inf, 100, 110},
		{1000, inf, 110},
		{1000, 100, inf},
		{nan, 100, 110},
		{1000, nan, 110},
		{1000, 100, nan},
	} {
		c := CalculateTradingProfit(in[0], in[1], in[2])
		if c.Quantity != 0 || c.TotalCost != 0 || c.NetProfit != 0 || c.ProfitMargin != 0 {
			t.Errorf("CalculateTradingProfit(%v) = %+v, want zeroed", in, c)
		}
	}
}

func TestMarginFormulasDiffer(t *testing.T) {
	// SpreadMargin subtracts flat points; CalculateTradingProfit applies fees to their bases.
	flat := SpreadMargin(100, 110)
	actual := CalculateTradingProfit(1_000_000, 100, 110).ProfitMargin
	if approx(flat, actual) {
		t.Errorf("expected distinct margins, both = %v", flat)
	}
	if !approx(flat, -3) || !approx(actual, -3.8) {
		t.Errorf("flat/actual = %v/%v, want -3/-3.8", flat, actual)
	}
}
