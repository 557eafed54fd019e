package pricing

import "math"

// MaxRoas is the upper bound accepted for a target return on ad spend.
const MaxRoas = 50.0

// Calculate computes the profitability of selling with inputs on the
// marketplace described by cfg. Neither argument is modified.
func Calculate(inputs GlobalInputs, cfg MarketplaceConfig) CalculationResult {
	in := SanitizeInputs(inputs)
	quantity := float64(in.Quantity)

	totalRevenue := finite(in.SellingPrice * quantity)
	totalBaseCost := finite((in.ProductionCost + in.PackagingCost) * quantity)
	taxValue := finite(totalRevenue * in.TaxRate / 100.0)

	unitMarketing := 0.0
	marketingPercent := 0.0
	if in.EnableRoas && in.RoasValue > 0 {
		unitMarketing = finite(in.SellingPrice / in.RoasValue)
		marketingPercent = 100.0 / in.RoasValue
	}
	totalMarketingCost := finite(unitMarketing * quantity)

	commissionRate := nonNegative(cfg.CommissionRate)
	fixedFee := nonNegative(cfg.FixedFee)
	anticipationFee := nonNegative(cfg.AnticipationFee)

	commissionValue := finite(totalRevenue * commissionRate / 100.0)
	anticipationValue := finite(totalRevenue * anticipationFee / 100.0)
	shipping := effectiveShipping(in.SellingPrice, cfg)

	totalMarketplaceFees := finite(commissionValue + fixedFee + shipping + anticipationValue)
	realProfit := finite(totalRevenue - (totalBaseCost + taxValue + totalMarketplaceFees + totalMarketingCost))

	profitMargin := finite(ratio(realProfit, totalRevenue) * 100.0)
	roi := finite(ratio(realProfit, totalBaseCost) * 100.0)
	markup := ratio(totalRevenue, totalBaseCost)

	goal := goalStatus(in, profitMargin, realProfit)

	return CalculationResult{
		TotalMarketplaceFees: totalMarketplaceFees,
		NetReceivable:        finite(totalRevenue - totalMarketplaceFees),
		TotalCost:            finite(totalBaseCost + taxValue),
		MarketingCost:        totalMarketingCost,
		RealProfit:           realProfit,
		ProfitMargin:         profitMargin,
		ROI:                  roi,
		Markup:               markup,
		GoalReached:          goal != GoalNotReached,
		Goal:                 goal,
		Breakdown: Breakdown{
			Revenue:          totalRevenue,
			BaseCost:         totalBaseCost,
			Tax:              taxValue,
			Commission:       commissionValue,
			FixedFee:         fixedFee,
			Shipping:         shipping,
			Anticipation:     anticipationValue,
			UnitMarketing:    unitMarketing,
			Marketing:        totalMarketingCost,
			MarketingPercent: marketingPercent,
		},
	}
}

// effectiveShipping waives the configured shipping cost when the price is
// below the marketplace's shipping threshold.
func effectiveShipping(price float64, cfg MarketplaceConfig) float64 {
	if cfg.ShippingThreshold != nil {
		threshold := nonNegative(*cfg.ShippingThreshold)
		if threshold > 0 && price < threshold {
			return 0
		}
	}
	return nonNegative(cfg.ShippingCost)
}

// goalStatus applies the desired-profit goal. A zero goal is GoalNone, which
// counts as reached; negative goals are compared like any other.
func goalStatus(in GlobalInputs, margin, profit float64) GoalStatus {
	if in.DesiredProfit == 0 {
		return GoalNone
	}

	value := margin
	if in.DesiredProfitType == ProfitCurrency {
		value = profit
	}
	if value >= in.DesiredProfit {
		return GoalReached
	}
	return GoalNotReached
}

// SanitizeInputs returns the normalized copy of in that Calculate works on:
// NaN, infinite and negative numbers become zero, the quantity defaults to
// one and the ROAS target is clamped.
func SanitizeInputs(in GlobalInputs) GlobalInputs {
	out := in
	out.ProductionCost = nonNegative(in.ProductionCost)
	out.PackagingCost = nonNegative(in.PackagingCost)
	out.TaxRate = nonNegative(in.TaxRate)
	out.SellingPrice = nonNegative(in.SellingPrice)
	out.DesiredProfit = finite(in.DesiredProfit)
	out.ProductWeight = nonNegative(in.ProductWeight)
	out.RoasValue = math.Min(nonNegative(in.RoasValue), MaxRoas)
	if out.Quantity <= 0 {
		out.Quantity = 1
	}
	if out.DesiredProfitType != ProfitCurrency {
		out.DesiredProfitType = ProfitPercentage
	}
	return out
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func nonNegative(v float64) float64 {
	v = finite(v)
	if v < 0 {
		return 0
	}
	return v
}

// ratio returns num/den, or 0 when den is not positive or the quotient is
// not finite.
func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return finite(num / den)
}
