package testutil

import (
	"strconv"

	"github.com/Veraticus/credit-limit-engine/internal/model"
)

// CustomerBuilder assembles customers for tests with a fluent API.
//
// Example:
//
//	c := testutil.NewCustomer("7").
//		WithLimit(100000).
//		WithFlatSales(50000).
//		Build()
type CustomerBuilder struct {
	customer model.Customer
}

// NewCustomer starts a customer with the given identifier and nothing else set.
func NewCustomer(id string) *CustomerBuilder {
	return &CustomerBuilder{customer: model.Customer{ID: model.Cell(id)}}
}

// GoodStanding returns the reference customer used across tests: grade AAA,
// 100,000 limit, 50,000 monthly sales for a year, two years on book, nothing
// overdue and a payment as large as the limit.
func GoodStanding(id string) *CustomerBuilder {
	return NewCustomer(id).
		WithClassification("AAA").
		WithLimit(100000).
		WithFlatSales(50000).
		WithMonths(24).
		WithDPP(0).
		WithOverdue(0, 0).
		WithMaxPayment(100000).
		WithBalance(0)
}

// WithLimit sets the current credit limit.
func (b *CustomerBuilder) WithLimit(v float64) *CustomerBuilder {
	b.customer.CreditLimit = num(v)
	return b
}

// WithMonths sets months on book.
func (b *CustomerBuilder) WithMonths(v float64) *CustomerBuilder {
	b.customer.MonthsOnBook = num(v)
	return b
}

// WithSales sets the first len(values) sales months and blanks the rest.
func (b *CustomerBuilder) WithSales(values ...float64) *CustomerBuilder {
	for i := range b.customer.MonthlySales {
		b.customer.MonthlySales[i] = model.Value{}
		if i < len(values) {
			b.customer.MonthlySales[i] = num(values[i])
		}
	}
	return b
}

// WithFlatSales sets all twelve sales months to v.
func (b *CustomerBuilder) WithFlatSales(v float64) *CustomerBuilder {
	for i := range b.customer.MonthlySales {
		b.customer.MonthlySales[i] = num(v)
	}
	return b
}

// WithRawSales sets sales months from raw cell text.
func (b *CustomerBuilder) WithRawSales(raw ...string) *CustomerBuilder {
	for i := range b.customer.MonthlySales {
		b.customer.MonthlySales[i] = model.Value{}
		if i < len(raw) {
			b.customer.MonthlySales[i] = model.Cell(raw[i])
		}
	}
	return b
}

// WithClassification sets the raw classification code.
func (b *CustomerBuilder) WithClassification(code string) *CustomerBuilder {
	b.customer.Classification = model.Cell(code)
	return b
}

// WithDPP sets weighted days past due.
func (b *CustomerBuilder) WithDPP(v float64) *CustomerBuilder {
	b.customer.WeightedDPP = num(v)
	return b
}

// WithOverdue sets the overdue percentage and the days of the most overdue invoice.
func (b *CustomerBuilder) WithOverdue(pct, days float64) *CustomerBuilder {
	b.customer.PctBalanceOverdue = num(pct)
	b.customer.DaysMostOverdue = num(days)
	return b
}

// WithMaxPayment sets the largest historical payment.
func (b *CustomerBuilder) WithMaxPayment(v float64) *CustomerBuilder {
	b.customer.MaxPayment = num(v)
	return b
}

// WithBalance sets the outstanding balance.
func (b *CustomerBuilder) WithBalance(v float64) *CustomerBuilder {
	b.customer.OutstandingBalance = num(v)
	return b
}

// WithRow sets the input row number.
func (b *CustomerBuilder) WithRow(row int) *CustomerBuilder {
	b.customer.Row = row
	return b
}

// Build returns the customer.
func (b *CustomerBuilder) Build() model.Customer {
	return b.customer
}

func num(v float64) model.Value {
	return model.Cell(strconv.FormatFloat(v, 'f', -1, 64))
}
