// Package limit computes the suggested credit limit that goes with a decision.
package limit

import (
	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/shopspring/decimal"
)

// RoundingStep is the granularity of every suggested limit.
var RoundingStep = decimal.NewFromInt(5000)

var (
	increaseBaseFactor = decimal.RequireFromString("1.15")
	increaseSlope      = decimal.RequireFromString("0.20")
	increaseCoverage   = decimal.RequireFromString("0.45")
	increaseCap        = decimal.RequireFromString("1.40")

	possibleIncreaseBaseFactor = decimal.RequireFromString("1.05")
	possibleIncreaseSlope      = decimal.RequireFromString("0.10")
	possibleIncreaseCoverage   = decimal.RequireFromString("0.60")
	possibleIncreaseCap        = decimal.RequireFromString("1.25")

	possibleDecreaseBase  = decimal.RequireFromString("0.95")
	possibleDecreaseLimit = decimal.RequireFromString("0.85")

	decreaseBase  = decimal.RequireFromString("0.80")
	decreaseLimit = decimal.RequireFromString("0.70")

	peakShare = decimal.RequireFromString("0.75")
	ten       = decimal.NewFromInt(10)
)

// Input is everything the recommendation depends on.
type Input struct {
	Score        *int
	Decision     model.Decision
	CurrentLimit decimal.Decimal
	Outstanding  decimal.Decimal
	Sales        [model.SalesMonths]decimal.Decimal
}

// InputFor reads a customer's limit, balance and sales. Missing amounts read as zero.
func InputFor(c model.Customer, d model.Decision, score *int) Input {
	in := Input{
		Score:        score,
		Decision:     d,
		CurrentLimit: decimal.NewFromFloat(c.CreditLimit.Number(0)),
		Outstanding:  decimal.NewFromFloat(c.OutstandingBalance.Number(0)),
	}
	for i, v := range c.MonthlySales {
		in.Sales[i] = decimal.NewFromFloat(v.Number(0))
	}
	return in
}

// AverageSales is the mean of the twelve sales months.
func (in Input) AverageSales() decimal.Decimal {
	return decimal.Avg(in.Sales[0], in.Sales[1:]...)
}

// OperatingBase is the sales volume a limit must be able to carry: the average
// month or three quarters of the best month, whichever is larger.
func (in Input) OperatingBase() decimal.Decimal {
	peak := decimal.Max(in.Sales[0], in.Sales[1:]...)
	return decimal.Max(in.AverageSales(), peak.Mul(peakShare))
}

// Floor is the lowest limit that may be suggested: never below what the
// customer owes, one month of average sales, or zero.
func (in Input) Floor() decimal.Decimal {
	return decimal.Max(decimal.Zero, in.Outstanding, in.AverageSales())
}

// Suggest computes the suggested limit for the input's decision, rounded to the
// nearest RoundingStep. When rounding would fall below Floor, the next step
// above the floor is used instead.
func Suggest(in Input) decimal.Decimal {
	suggested := byDecision(in)
	floor := in.Floor()
	suggested = decimal.Max(suggested, floor)

	rounded := suggested.Div(RoundingStep).RoundBank(0).Mul(RoundingStep)
	if rounded.LessThan(floor) {
		rounded = floor.Div(RoundingStep).Ceil().Mul(RoundingStep)
	}
	return rounded
}

func byDecision(in Input) decimal.Decimal {
	score := decimal.Zero
	if in.Score != nil {
		score = decimal.NewFromInt(int64(*in.Score))
	}
	base := in.OperatingBase()
	current := in.CurrentLimit

	switch in.Decision {
	case model.DecisionIncrease:
		// 90 -> 1.15, 100 -> 1.35
		factor := increaseBaseFactor.Add(score.Sub(decimal.NewFromInt(90)).Div(ten).Mul(increaseSlope))
		suggested := decimal.Max(base.Div(increaseCoverage), current.Mul(factor))
		return decimal.Min(suggested, current.Mul(increaseCap))

	case model.DecisionPossibleIncrease:
		factor := possibleIncreaseBaseFactor.Add(score.Sub(decimal.NewFromInt(80)).Div(ten).Mul(possibleIncreaseSlope))
		suggested := decimal.Max(base.Div(possibleIncreaseCoverage), current.Mul(factor))
		return decimal.Min(suggested, current.Mul(possibleIncreaseCap))

	case model.DecisionPossibleDecrease:
		return decimal.Max(base.Mul(possibleDecreaseBase), current.Mul(possibleDecreaseLimit))

	case model.DecisionDecrease:
		return decimal.Max(base.Mul(decreaseBase), current.Mul(decreaseLimit))

	default:
		return current
	}
}
