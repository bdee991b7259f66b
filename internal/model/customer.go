package model

// SalesMonths is the length of the monthly sales history carried per customer.
const SalesMonths = 12

// Customer is one row of the primary portfolio table.
type Customer struct {
	ID                 Value
	CreditLimit        Value
	MonthsOnBook       Value
	Classification     Value
	WeightedDPP        Value
	PctBalanceOverdue  Value
	DaysMostOverdue    Value
	MaxPayment         Value
	OutstandingBalance Value
	MonthlySales       [SalesMonths]Value

	// Cells holds the original row aligned with Portfolio.Columns. Text marks
	// the cells stored as strings in the source even when they look numeric.
	Cells []string
	Text  []bool
	Row   int
}

// TextCell reports whether input cell i was stored as text.
func (c Customer) TextCell(i int) bool {
	return i >= 0 && i < len(c.Text) && c.Text[i]
}

// LimitChange is one approval in the limit-modification history table.
type LimitChange struct {
	Code       Value
	ResolvedOn Value
	Row        int
}

// Coverage holds the collateral and guarantee documents on file for a customer.
type Coverage struct {
	Name        Value
	Promissory  string // PAGARE
	Contract    string // CONTRATO
	GuarantorID string // INE TITULAR/REPRESENTANTE
	Row         int
}

// Portfolio is the full input of one evaluation run.
type Portfolio struct {
	Source       string
	Columns      []string
	Customers    []Customer
	LimitChanges []LimitChange
	Coverage     []Coverage
}
