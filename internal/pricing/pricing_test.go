package pricing

import (
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestCalculate_ReferenceScenario(t *testing.T) {
	inputs := GlobalInputs{
		ProductionCost: 10,
		PackagingCost:  2,
		Quantity:       1,
		TaxRate:        0,
		SellingPrice:   50,
	}
	cfg := MarketplaceConfig{CommissionRate: 12, FixedFee: 6.5}

	result := Calculate(inputs, cfg)

	nearlyEqual(t, "totalMarketplaceFees", result.TotalMarketplaceFees, 12.5)
	nearlyEqual(t, "realProfit", result.RealProfit, 25.5)
	nearlyEqual(t, "profitMargin", result.ProfitMargin, 51)
	nearlyEqual(t, "roi", result.ROI, 212.5)
	nearlyEqual(t, "markup", result.Markup, 50.0/12.0)
	nearlyEqual(t, "netReceivable", result.NetReceivable, 37.5)
	nearlyEqual(t, "totalCost", result.TotalCost, 12)
}

func TestCalculate_QuantityScalesRevenueCostsAndMarketing(t *testing.T) {
	inputs := GlobalInputs{
		ProductionCost: 10,
		PackagingCost:  5,
		Quantity:       3,
		TaxRate:        10,
		SellingPrice:   40,
		EnableRoas:     true,
		RoasValue:      8,
	}
	cfg := MarketplaceConfig{CommissionRate: 10, FixedFee: 2, ShippingCost: 3, AnticipationFee: 5}

	result := Calculate(inputs, cfg)

	nearlyEqual(t, "revenue", result.Breakdown.Revenue, 120)
	nearlyEqual(t, "baseCost", result.Breakdown.BaseCost, 45)
	nearlyEqual(t, "tax", result.Breakdown.Tax, 12)
	nearlyEqual(t, "commission", result.Breakdown.Commission, 12)
	nearlyEqual(t, "anticipation", result.Breakdown.Anticipation, 6)
	nearlyEqual(t, "unitMarketing", result.Breakdown.UnitMarketing, 5)
	nearlyEqual(t, "marketing", result.MarketingCost, 15)
	nearlyEqual(t, "marketingPercent", result.Breakdown.MarketingPercent, 12.5)
	// fixed fee and shipping are charged once per sale
	nearlyEqual(t, "totalMarketplaceFees", result.TotalMarketplaceFees, 12+2+3+6)
	nearlyEqual(t, "realProfit", result.RealProfit, 120-(45+12+23+15))
}

func TestCalculate_QuantityDefaultsToOne(t *testing.T) {
	for _, q := range []int{0, -4} {
		result := Calculate(GlobalInputs{SellingPrice: 30, Quantity: q}, MarketplaceConfig{})
		nearlyEqual(t, "revenue", result.Breakdown.Revenue, 30)
	}
}

func TestCalculate_RoasDisabledOrZeroHasNoMarketing(t *testing.T) {
	off := Calculate(GlobalInputs{SellingPrice: 100, RoasValue: 4}, MarketplaceConfig{})
	zero := Calculate(GlobalInputs{SellingPrice: 100, EnableRoas: true}, MarketplaceConfig{})
	clamped := Calculate(GlobalInputs{SellingPrice: 100, EnableRoas: true, RoasValue: 400}, MarketplaceConfig{})

	nearlyEqual(t, "off marketing", off.MarketingCost, 0)
	nearlyEqual(t, "zero marketing", zero.MarketingCost, 0)
	nearlyEqual(t, "clamped marketing", clamped.MarketingCost, 2)
}

func TestCalculate_ShippingThresholdWaivesShipping(t *testing.T) {
	threshold := 79.0
	cfg := MarketplaceConfig{ShippingCost: 20, ShippingThreshold: &threshold}

	below := Calculate(GlobalInputs{SellingPrice: 78.99}, cfg)
	at := Calculate(GlobalInputs{SellingPrice: 79}, cfg)

	nearlyEqual(t, "below shipping", below.Breakdown.Shipping, 0)
	nearlyEqual(t, "at shipping", at.Breakdown.Shipping, 20)
}

func TestCalculate_ZeroDenominatorsYieldZeroRatios(t *testing.T) {
	noRevenue := Calculate(GlobalInputs{ProductionCost: 10}, MarketplaceConfig{FixedFee: 5})
	nearlyEqual(t, "profitMargin", noRevenue.ProfitMargin, 0)

	noCost := Calculate(GlobalInputs{SellingPrice: 10}, MarketplaceConfig{CommissionRate: 10})
	nearlyEqual(t, "roi", noCost.ROI, 0)
	nearlyEqual(t, "markup", noCost.Markup, 0)
}

func TestCalculate_NeverReturnsNaNOrInf(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name   string
		inputs GlobalInputs
		cfg    MarketplaceConfig
	}{
		{
			name: "non-finite inputs",
			inputs: GlobalInputs{
				ProductionCost: nan,
				PackagingCost:  math.Inf(1),
				Quantity:       1,
				TaxRate:        nan,
				SellingPrice:   nan,
				DesiredProfit:  nan,
				EnableRoas:     true,
				RoasValue:      nan,
				ProductWeight:  nan,
			},
			cfg: MarketplaceConfig{CommissionRate: nan, FixedFee: math.Inf(-1), ShippingCost: nan, AnticipationFee: nan},
		},
		{
			name:   "revenue overflows",
			inputs: GlobalInputs{SellingPrice: 1e308, Quantity: 2, ProductionCost: 1},
			cfg:    MarketplaceConfig{CommissionRate: 10},
		},
		{
			name:   "fees overflow",
			inputs: GlobalInputs{SellingPrice: 1e308, Quantity: 1, TaxRate: 100, EnableRoas: true, RoasValue: 0.5},
			cfg:    MarketplaceConfig{CommissionRate: 100, FixedFee: math.MaxFloat64, ShippingCost: math.MaxFloat64},
		},
		{
			name:   "base cost overflows",
			inputs: GlobalInputs{SellingPrice: 10, Quantity: 3, ProductionCost: math.MaxFloat64, PackagingCost: math.MaxFloat64},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := Calculate(tc.inputs, tc.cfg)
			fields := map[string]float64{
				"totalMarketplaceFees": r.TotalMarketplaceFees,
				"netReceivable":        r.NetReceivable,
				"totalCost":            r.TotalCost,
				"marketingCost":        r.MarketingCost,
				"realProfit":           r.RealProfit,
				"profitMargin":         r.ProfitMargin,
				"roi":                  r.ROI,
				"markup":               r.Markup,
				"revenue":              r.Breakdown.Revenue,
				"baseCost":             r.Breakdown.BaseCost,
				"tax":                  r.Breakdown.Tax,
				"commission":           r.Breakdown.Commission,
				"anticipation":         r.Breakdown.Anticipation,
				"unitMarketing":        r.Breakdown.UnitMarketing,
				"marketing":            r.Breakdown.Marketing,
			}
			for name, v := range fields {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("%s = %v, want finite", name, v)
				}
			}
		})
	}
}

func TestCalculate_NegativeInputsAreZeroed(t *testing.T) {
	result := Calculate(GlobalInputs{ProductionCost: -10, SellingPrice: -5}, MarketplaceConfig{CommissionRate: -12})

	nearlyEqual(t, "revenue", result.Breakdown.Revenue, 0)
	nearlyEqual(t, "baseCost", result.Breakdown.BaseCost, 0)
	nearlyEqual(t, "commission", result.Breakdown.Commission, 0)
}

func TestCalculate_IsDeterministicAndDoesNotMutate(t *testing.T) {
	threshold := 10.0
	inputs := GlobalInputs{ProductionCost: 7, SellingPrice: 33, Quantity: 2, TaxRate: 6, EnableRoas: true, RoasValue: 5}
	cfg := MarketplaceConfig{CommissionRate: 14, FixedFee: 4, ShippingCost: 1, ShippingThreshold: &threshold}

	first := Calculate(inputs, cfg)
	second := Calculate(inputs, cfg)

	if first != second {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
	if inputs.Quantity != 2 || cfg.FixedFee != 4 || *cfg.ShippingThreshold != 10 {
		t.Fatalf("arguments were modified: %+v %+v", inputs, cfg)
	}
}

func TestCalculate_HigherCommissionLowersProfit(t *testing.T) {
	inputs := GlobalInputs{ProductionCost: 10, SellingPrice: 50, Quantity: 1}

	prev := Calculate(inputs, MarketplaceConfig{CommissionRate: 0}).RealProfit
	for rate := 1.0; rate <= 30; rate++ {
		got := Calculate(inputs, MarketplaceConfig{CommissionRate: rate}).RealProfit
		if got >= prev {
			t.Fatalf("profit at %v%% = %v, want < %v", rate, got, prev)
		}
		prev = got
	}
}

func TestCalculate_GoalStatus(t *testing.T) {
	base := GlobalInputs{ProductionCost: 75, SellingPrice: 100, Quantity: 1}

	tests := []struct {
		name        string
		desired     float64
		profitType  ProfitType
		wantStatus  GoalStatus
		wantReached bool
	}{
		{name: "no goal", desired: 0, profitType: ProfitPercentage, wantStatus: GoalNone, wantReached: true},
		{name: "negative currency goal reached", desired: -30, profitType: ProfitCurrency, wantStatus: GoalReached, wantReached: true},
		{name: "negative margin goal reached", desired: -5, profitType: ProfitPercentage, wantStatus: GoalReached, wantReached: true},
		{name: "margin below", desired: 30, profitType: ProfitPercentage, wantStatus: GoalNotReached},
		{name: "margin equal", desired: 25, profitType: ProfitPercentage, wantStatus: GoalReached, wantReached: true},
		{name: "currency above", desired: 20, profitType: ProfitCurrency, wantStatus: GoalReached, wantReached: true},
		{name: "currency below", desired: 26, profitType: ProfitCurrency, wantStatus: GoalNotReached},
		{name: "unset type reads percentage", desired: 26, profitType: "", wantStatus: GoalNotReached},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			in.DesiredProfit = tc.desired
			in.DesiredProfitType = tc.profitType

			result := Calculate(in, MarketplaceConfig{})
			if result.Goal != tc.wantStatus {
				t.Fatalf("goal = %q, want %q", result.Goal, tc.wantStatus)
			}
			if result.GoalReached != tc.wantReached {
				t.Fatalf("goalReached = %v, want %v", result.GoalReached, tc.wantReached)
			}
		})
	}
}

func TestCalculate_NegativeGoalCanBeMissed(t *testing.T) {
	in := GlobalInputs{
		ProductionCost:    120,
		SellingPrice:      100,
		Quantity:          1,
		DesiredProfit:     -5,
		DesiredProfitType: ProfitCurrency,
	}

	result := Calculate(in, MarketplaceConfig{})
	nearlyEqual(t, "realProfit", result.RealProfit, -20)
	if result.Goal != GoalNotReached || result.GoalReached {
		t.Fatalf("goal = %q reached=%v, want not_reached", result.Goal, result.GoalReached)
	}
	if cmp := CompareToGoal(result, in); cmp != nil {
		t.Fatalf("comparison = %+v, want nil for a negative goal", cmp)
	}
}
