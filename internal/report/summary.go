// Package report assembles the output of an evaluation run: the enriched table
// and the executive summary shared by every writer.
package report

import (
	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/shopspring/decimal"
)

// DecisionCount is the number of customers that received a decision.
type DecisionCount struct {
	Decision model.Decision
	Count    int
}

// Summary holds the portfolio-level totals of a run.
type Summary struct {
	AverageScore        *decimal.Decimal
	CurrentLimitTotal   decimal.Decimal
	SuggestedLimitTotal decimal.Decimal
	NetImpact           decimal.Decimal
	Decisions           []DecisionCount
	Customers           int
	Scored              int
}

// Line is one labelled row of the executive summary.
type Line struct {
	Value any
	Label string
}

// Summarize computes the summary of a set of evaluations. Decision counts are
// listed in report order, including decisions nobody received. The average
// score only considers customers with a score and is rounded to one decimal.
func Summarize(evaluations []model.Evaluation) Summary {
	counts := make(map[model.Decision]int, len(model.Decisions()))
	s := Summary{
		Customers:           len(evaluations),
		CurrentLimitTotal:   decimal.Zero,
		SuggestedLimitTotal: decimal.Zero,
	}

	scoreTotal := decimal.Zero
	for _, ev := range evaluations {
		counts[ev.Decision]++
		s.CurrentLimitTotal = s.CurrentLimitTotal.Add(decimal.NewFromFloat(ev.Customer.CreditLimit.Number(0)))
		s.SuggestedLimitTotal = s.SuggestedLimitTotal.Add(ev.SuggestedLimit)
		if ev.FinalScore != nil {
			s.Scored++
			scoreTotal = scoreTotal.Add(decimal.NewFromInt(int64(*ev.FinalScore)))
		}
	}

	for _, d := range model.Decisions() {
		s.Decisions = append(s.Decisions, DecisionCount{Decision: d, Count: counts[d]})
	}
	if s.Scored > 0 {
		avg := scoreTotal.Div(decimal.NewFromInt(int64(s.Scored))).RoundBank(1)
		s.AverageScore = &avg
	}
	s.NetImpact = s.SuggestedLimitTotal.Sub(s.CurrentLimitTotal)

	return s
}

// Count returns how many customers received the decision.
func (s Summary) Count(d model.Decision) int {
	for _, dc := range s.Decisions {
		if dc.Decision == d {
			return dc.Count
		}
	}
	return 0
}

// Lines returns the executive summary as labelled rows, in display order.
// A missing average score is reported as an empty value.
func (s Summary) Lines() []Line {
	var avg any
	if s.AverageScore != nil {
		avg = s.AverageScore.InexactFloat64()
	}
	return []Line{
		{Label: "Total clientes", Value: s.Customers},
		{Label: "Score promedio", Value: avg},
		{Label: "Incrementos", Value: s.Count(model.DecisionIncrease)},
		{Label: "Posibles incrementos", Value: s.Count(model.DecisionPossibleIncrease)},
		{Label: "Sin cambio", Value: s.Count(model.DecisionNoChange)},
		{Label: "Posibles decrementos", Value: s.Count(model.DecisionPossibleDecrease)},
		{Label: "Decrementos", Value: s.Count(model.DecisionDecrease)},
		{Label: "Sin información", Value: s.Count(model.DecisionNoInformation)},
		{Label: "Límite actual total", Value: s.CurrentLimitTotal.InexactFloat64()},
		{Label: "Límite sugerido total", Value: s.SuggestedLimitTotal.InexactFloat64()},
		{Label: "Impacto neto", Value: s.NetImpact.InexactFloat64()},
	}
}
