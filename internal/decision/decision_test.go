package decision

import (
	"testing"

	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/Veraticus/credit-limit-engine/internal/scoring"
	"github.com/Veraticus/credit-limit-engine/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int {
	return &v
}

func TestFactors_WeightsSumToOne(t *testing.T) {
	sum := decimal.Zero
	for _, f := range Factors() {
		sum = sum.Add(f.Weight)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(1)), "weights sum to %s", sum)
	assert.Len(t, Factors(), 7)
}

func TestFinalScore(t *testing.T) {
	tests := []struct {
		name     string
		scores   model.Scores
		expected int
	}{
		{
			name:     "all zero",
			scores:   model.Scores{},
			expected: 0,
		},
		{
			name:     "all ten",
			scores:   model.Scores{Uso: 10, ADN: 10, Variabilidad: 10, DPP: 10, Antiguedad: 10, Vencido: 10, CapacidadPago: 10},
			expected: 100,
		},
		{
			name:     "half usage rounds 79.5 to even",
			scores:   model.Scores{Uso: 5, ADN: 10, Variabilidad: 10, DPP: 10, Antiguedad: 10, Vencido: 10, CapacidadPago: 10},
			expected: 80,
		},
		{
			name:     "tenure only",
			scores:   model.Scores{Antiguedad: 4},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FinalScore(tt.scores))
		})
	}
}

func TestFinalScore_HalfEvenRounding(t *testing.T) {
	// 10 * (0.47 * 6.5 + 0.05 * 10) = 35.55 -> 36; 10 * 0.05 * 1 = 0.5 -> 0
	assert.Equal(t, 36, FinalScore(model.Scores{Uso: 6.5, Antiguedad: 10}))
	assert.Equal(t, 0, FinalScore(model.Scores{Antiguedad: 1}))
	// 10 * 0.05 * 3 = 1.5 -> 2
	assert.Equal(t, 2, FinalScore(model.Scores{Antiguedad: 3}))
}

func TestDecide(t *testing.T) {
	tests := []struct {
		score          *int
		name           string
		classification string
		expected       model.Decision
	}{
		{name: "increase", classification: "AAA", score: intPtr(90), expected: model.DecisionIncrease},
		{name: "top score", classification: "AAA", score: intPtr(100), expected: model.DecisionIncrease},
		{name: "possible increase", classification: "AAA", score: intPtr(89), expected: model.DecisionPossibleIncrease},
		{name: "possible increase floor", classification: "AAA", score: intPtr(80), expected: model.DecisionPossibleIncrease},
		{name: "no change", classification: "BBB", score: intPtr(79), expected: model.DecisionNoChange},
		{name: "no change floor", classification: "BBB", score: intPtr(20), expected: model.DecisionNoChange},
		{name: "possible decrease", classification: "DDD", score: intPtr(19), expected: model.DecisionPossibleDecrease},
		{name: "possible decrease floor", classification: "DDD", score: intPtr(10), expected: model.DecisionPossibleDecrease},
		{name: "decrease", classification: "DDD", score: intPtr(9), expected: model.DecisionDecrease},
		{name: "decrease at zero", classification: "DDD", score: intPtr(0), expected: model.DecisionDecrease},
		{name: "missing score", classification: "AAA", score: nil, expected: model.DecisionNoInformation},
		{name: "protected N", classification: "N", score: intPtr(100), expected: model.DecisionNoChange},
		{name: "protected x lowercase", classification: " x ", score: intPtr(0), expected: model.DecisionNoChange},
		{name: "protected XL without score", classification: "XL", score: nil, expected: model.DecisionNoChange},
		{name: "XLL is not protected", classification: "XLL", score: intPtr(95), expected: model.DecisionIncrease},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Decide(model.Cell(tt.classification), tt.score))
		})
	}
}

func TestDecide_ReferenceCustomer(t *testing.T) {
	c := testutil.GoodStanding("1").Build()
	score := FinalScore(scoring.Score(c))

	assert.Equal(t, 80, score)
	assert.Equal(t, model.DecisionPossibleIncrease, Decide(c.Classification, &score))
	assert.Equal(t, "Posible incremento (Revisión manual)", string(Decide(c.Classification, &score)))
}
