package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Scores are the seven sub-scores of a customer, each in [0,10].
type Scores struct {
	Uso           float64
	ADN           float64
	Variabilidad  float64
	DPP           float64
	Antiguedad    float64
	Vencido       float64
	CapacidadPago float64
}

// Evaluation is a customer enriched with every derived field.
type Evaluation struct {
	LastModification      *time.Time
	DaysSinceModification *int
	Coverage              *Coverage
	FinalScore            *int
	Decision              Decision
	SuggestedLimit        decimal.Decimal
	Customer              Customer
	Scores                Scores
	RecentlyModified      bool
}
