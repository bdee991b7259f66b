// Package scoring computes the seven sub-scores of a customer. Every function
// is total: blank or malformed cells are coerced to defaults and every result is
// clamped to [0,10].
package scoring

import (
	"math"
	"strings"

	"github.com/Veraticus/credit-limit-engine/internal/model"
)

// MaxPoints is the upper bound of every sub-score.
const MaxPoints = 10

// DefaultClassification is used when a classification code is not exactly three
// characters after cleanup. It grades as the worst code on both axes.
const DefaultClassification = "DDD"

var grades = map[byte]int{'A': 10, 'B': 7, 'C': 4, 'D': 0}

var classificationCleaner = strings.NewReplacer(" ", "", "-", "", "/", "", "\n", "", "\r", "", "\t", "")

// Score computes every sub-score of a customer.
func Score(c model.Customer) model.Scores {
	return model.Scores{
		Uso:           Uso(c),
		ADN:           ADN(c),
		Variabilidad:  Variabilidad(c),
		DPP:           DPP(c),
		Antiguedad:    Antiguedad(c),
		Vencido:       Vencido(c),
		CapacidadPago: CapacidadPago(c),
	}
}

// Scorable reports whether the customer has any sales history inside the
// usage window. Without it there is nothing to base a final score on.
func Scorable(c model.Customer) bool {
	for _, v := range c.MonthlySales[:window(c, 1)] {
		if _, ok := v.Float(); ok {
			return true
		}
	}
	return false
}

// Uso scores average sales over the relationship window against the limit.
func Uso(c model.Customer) float64 {
	avg := mean(sales(c, window(c, 1)))
	return clamp(avg / divisorLimit(c) * 10)
}

// ADN grades the classification code: 70% payment behavior (third letter),
// 30% purchase behavior (first letter).
func ADN(c model.Customer) float64 {
	code := CleanClassification(c.Classification.Raw)
	payment := grades[code[2]]
	purchase := grades[code[0]]
	return clamp(float64(7*payment+3*purchase) / 10)
}

// CleanClassification upper-cases a classification code and strips separators.
// Anything that is not three characters long becomes DefaultClassification.
func CleanClassification(raw string) string {
	code := strings.TrimSpace(classificationCleaner.Replace(strings.ToUpper(raw)))
	if len(code) != 3 {
		return DefaultClassification
	}
	return code
}

// Variabilidad rewards stable sales: 10 minus ten times the coefficient of
// variation. The window is at least three months even for newer accounts.
func Variabilidad(c model.Customer) float64 {
	values := sales(c, window(c, 3))
	avg := mean(values)
	if avg <= 0 {
		return 0
	}
	cv := stddev(values, avg) / avg
	return clamp(math.Max(0, MaxPoints-cv*10))
}

// DPP steps down with weighted days past due.
func DPP(c model.Customer) float64 {
	days := c.WeightedDPP.Number(0)
	switch {
	case days <= 0:
		return 10
	case days <= 7:
		return 7
	case days <= 15:
		return 4
	default:
		return 0
	}
}

// Antiguedad rewards tenure.
func Antiguedad(c model.Customer) float64 {
	months := c.MonthsOnBook.Number(0)
	switch {
	case months >= 24:
		return 10
	case months >= 12:
		return 7
	default:
		return 4
	}
}

// Vencido is all or nothing: full points only with no overdue balance at all.
func Vencido(c model.Customer) float64 {
	if c.PctBalanceOverdue.Number(0) == 0 && c.DaysMostOverdue.Number(0) == 0 {
		return 10
	}
	return 0
}

// CapacidadPago steps up with the largest historical payment relative to the limit.
func CapacidadPago(c model.Customer) float64 {
	ratio := c.MaxPayment.Number(0) / divisorLimit(c)
	switch {
	case ratio >= 1:
		return 10
	case ratio >= 0.75:
		return 8
	case ratio >= 0.50:
		return 6
	case ratio >= 0.30:
		return 3
	default:
		return 0
	}
}

// window returns months on book clamped to [lower, 12], truncated to whole months.
func window(c model.Customer, lower int) int {
	months := c.MonthsOnBook.Number(float64(lower))
	months = math.Max(float64(lower), math.Min(months, model.SalesMonths))
	return int(months)
}

// divisorLimit returns the credit limit for use as a divisor; missing or
// non-positive limits read as 1.
func divisorLimit(c model.Customer) float64 {
	limit := c.CreditLimit.Number(1)
	if limit <= 0 {
		return 1
	}
	return limit
}

func sales(c model.Customer, months int) []float64 {
	values := make([]float64, months)
	for i := range values {
		values[i] = c.MonthlySales[i].Number(0)
	}
	return values
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), MaxPoints)
}
