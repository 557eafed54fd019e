package pricing

import "math"

// GoalComparison is the distance between a result's profit and the desired
// profit, in currency and as a percentage of the selling price.
type GoalComparison struct {
	IsAbove     bool    `json:"is_above"`
	DiffValue   float64 `json:"diff_value"`
	DiffPercent float64 `json:"diff_percent"`
}

// GoalTarget converts the desired profit into a currency amount per unit.
func GoalTarget(inputs GlobalInputs) float64 {
	in := SanitizeInputs(inputs)
	if in.DesiredProfitType == ProfitPercentage {
		return in.SellingPrice * in.DesiredProfit / 100.0
	}
	return in.DesiredProfit
}

// CompareToGoal compares result against the desired profit in inputs. It
// returns nil when there is no price or no positive goal to compare with.
func CompareToGoal(result CalculationResult, inputs GlobalInputs) *GoalComparison {
	in := SanitizeInputs(inputs)
	if in.SellingPrice <= 0 || in.DesiredProfit <= 0 {
		return nil
	}

	diff := finite(result.RealProfit) - GoalTarget(in)
	diffValue := math.Abs(diff)

	return &GoalComparison{
		IsAbove:     diff >= 0,
		DiffValue:   diffValue,
		DiffPercent: ratio(diffValue, in.SellingPrice) * 100.0,
	}
}
