// Package decision combines sub-scores into the final score and maps it to a
// credit decision.
package decision

import (
	"strings"

	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/shopspring/decimal"
)

// Factor is one weighted component of the final score.
type Factor struct {
	Points func(model.Scores) float64
	Name   string
	Weight decimal.Decimal
}

// Factors returns the scoring model. Weights sum to 1.
func Factors() []Factor {
	return []Factor{
		{Name: model.ColPtsUso, Weight: decimal.RequireFromString("0.47"), Points: func(s model.Scores) float64 { return s.Uso }},
		{Name: model.ColPtsADN, Weight: decimal.RequireFromString("0.10"), Points: func(s model.Scores) float64 { return s.ADN }},
		{Name: model.ColPtsDPP, Weight: decimal.RequireFromString("0.13"), Points: func(s model.Scores) float64 { return s.DPP }},
		{Name: model.ColPtsVencido, Weight: decimal.RequireFromString("0.12"), Points: func(s model.Scores) float64 { return s.Vencido }},
		{Name: model.ColPtsAntiguedad, Weight: decimal.RequireFromString("0.05"), Points: func(s model.Scores) float64 { return s.Antiguedad }},
		{Name: model.ColPtsVariabilidad, Weight: decimal.RequireFromString("0.06"), Points: func(s model.Scores) float64 { return s.Variabilidad }},
		{Name: model.ColPtsCapacidadPago, Weight: decimal.RequireFromString("0.10"), Points: func(s model.Scores) float64 { return s.CapacidadPago }},
	}
}

// Score thresholds.
const (
	IncreaseThreshold         = 90
	PossibleIncreaseThreshold = 80
	NoChangeThreshold         = 20
	PossibleDecreaseThreshold = 10
)

var ten = decimal.NewFromInt(10)

// protectedClasses are account classes that are never changed automatically.
var protectedClasses = map[string]bool{"N": true, "X": true, "XL": true}

// FinalScore weights the sub-scores and scales them to [0,100]. The sum is
// exact decimal arithmetic rounded half to even.
func FinalScore(s model.Scores) int {
	total := decimal.Zero
	for _, f := range Factors() {
		total = total.Add(decimal.NewFromFloat(f.Points(s)).Mul(f.Weight))
	}
	return int(total.Mul(ten).RoundBank(0).IntPart())
}

// Protected reports whether the classification code marks a special account
// class that keeps its limit regardless of score.
func Protected(classification model.Value) bool {
	return protectedClasses[strings.ToUpper(classification.String())]
}

// Decide maps a final score to a decision. Protected classifications always
// map to no change; a nil score means there was nothing to score.
func Decide(classification model.Value, score *int) model.Decision {
	if Protected(classification) {
		return model.DecisionNoChange
	}
	if score == nil {
		return model.DecisionNoInformation
	}

	switch s := *score; {
	case s >= IncreaseThreshold:
		return model.DecisionIncrease
	case s >= PossibleIncreaseThreshold:
		return model.DecisionPossibleIncrease
	case s >= NoChangeThreshold:
		return model.DecisionNoChange
	case s >= PossibleDecreaseThreshold:
		return model.DecisionPossibleDecrease
	default:
		return model.DecisionDecrease
	}
}
