package model

// Decision is the credit action recommended for a customer.
type Decision string

// Decision constants. The values are the labels written to the report.
const (
	DecisionIncrease         Decision = "Incremento"
	DecisionPossibleIncrease Decision = "Posible incremento (Revisión manual)"
	DecisionNoChange         Decision = "Sin cambio"
	DecisionPossibleDecrease Decision = "Posible decremento (Revisión manual)"
	DecisionDecrease         Decision = "Decremento"
	DecisionNoInformation    Decision = "Sin información"
)

// Decisions returns every decision in report order.
func Decisions() []Decision {
	return []Decision{
		DecisionIncrease,
		DecisionPossibleIncrease,
		DecisionNoChange,
		DecisionPossibleDecrease,
		DecisionDecrease,
		DecisionNoInformation,
	}
}

// NeedsReview reports whether an analyst has to confirm the decision.
func (d Decision) NeedsReview() bool {
	return d == DecisionPossibleIncrease || d == DecisionPossibleDecrease
}
