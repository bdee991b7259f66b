package scoring

import (
	"testing"

	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/Veraticus/credit-limit-engine/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestScore_GoodStandingCustomer(t *testing.T) {
	scores := Score(testutil.GoodStanding("1").Build())

	assert.InDelta(t, 5.0, scores.Uso, 1e-9)
	assert.InDelta(t, 10.0, scores.ADN, 1e-9)
	assert.InDelta(t, 10.0, scores.Variabilidad, 1e-9)
	assert.InDelta(t, 10.0, scores.DPP, 1e-9)
	assert.InDelta(t, 10.0, scores.Antiguedad, 1e-9)
	assert.InDelta(t, 10.0, scores.Vencido, 1e-9)
	assert.InDelta(t, 10.0, scores.CapacidadPago, 1e-9)
}

func TestUso(t *testing.T) {
	tests := []struct {
		customer model.Customer
		name     string
		expected float64
	}{
		{
			name:     "only months on book are averaged",
			customer: testutil.NewCustomer("1").WithLimit(60000).WithMonths(6).WithSales(30000, 30000, 30000, 30000, 30000, 30000, 999999).Build(),
			expected: 5,
		},
		{
			name:     "capped at ten",
			customer: testutil.NewCustomer("1").WithLimit(1000).WithMonths(12).WithFlatSales(50000).Build(),
			expected: 10,
		},
		{
			name:     "missing limit divides by one",
			customer: testutil.NewCustomer("1").WithMonths(12).WithFlatSales(0.5).Build(),
			expected: 5,
		},
		{
			name:     "negative limit divides by one",
			customer: testutil.NewCustomer("1").WithLimit(-100).WithMonths(1).WithSales(0.2).Build(),
			expected: 2,
		},
		{
			name:     "missing months uses one month",
			customer: testutil.NewCustomer("1").WithLimit(100).WithSales(50, 100, 100).Build(),
			expected: 5,
		},
		{
			name:     "months beyond twelve clamp",
			customer: testutil.NewCustomer("1").WithLimit(100).WithMonths(60).WithFlatSales(20).Build(),
			expected: 2,
		},
		{
			name:     "fractional months truncate",
			customer: testutil.NewCustomer("1").WithLimit(100).WithMonths(2.9).WithSales(40, 60, 1000).Build(),
			expected: 5,
		},
		{
			name:     "negative sales floor at zero",
			customer: testutil.NewCustomer("1").WithLimit(100).WithMonths(1).WithSales(-500).Build(),
			expected: 0,
		},
		{
			name:     "non numeric sales count as zero",
			customer: testutil.NewCustomer("1").WithLimit(100).WithMonths(2).WithRawSales("100", "n/d").Build(),
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Uso(tt.customer), 1e-9)
		})
	}
}

func TestADN(t *testing.T) {
	tests := []struct {
		code     string
		expected float64
	}{
		{code: "AAA", expected: 10},
		{code: "BBB", expected: 7},
		{code: "CAB", expected: 6.1}, // payment B (7), purchase C (4)
		{code: "ADD", expected: 3},
		{code: "DDA", expected: 7},
		{code: "a-b/c", expected: 5.8},
		{code: " bab ", expected: 7},
		{code: "AXA", expected: 10},
		{code: "ZZZ", expected: 0},
		{code: "XL", expected: 0},
		{code: "AAAA", expected: 0},
		{code: "", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			c := testutil.NewCustomer("1").WithClassification(tt.code).Build()
			assert.InDelta(t, tt.expected, ADN(c), 1e-9)
		})
	}
}

// A malformed code grades as DDD, the worst possible classification. This is a
// harsh outcome for what may only be a data entry problem, so it is pinned here.
func TestADN_MalformedCodeIsWorstGrade(t *testing.T) {
	assert.Equal(t, DefaultClassification, CleanClassification("A1"))
	assert.Equal(t, DefaultClassification, CleanClassification("\n"))
	assert.Equal(t, "ABC", CleanClassification("a b\nc"))

	c := testutil.NewCustomer("1").WithClassification("AA").Build()
	assert.Zero(t, ADN(c))
}

func TestVariabilidad(t *testing.T) {
	tests := []struct {
		customer model.Customer
		name     string
		expected float64
	}{
		{
			name:     "flat sales are perfectly stable",
			customer: testutil.NewCustomer("1").WithMonths(12).WithFlatSales(1000).Build(),
			expected: 10,
		},
		{
			name: "alternating sales",
			customer: testutil.NewCustomer("1").WithMonths(12).
				WithSales(40000, 60000, 40000, 60000, 40000, 60000, 40000, 60000, 40000, 60000, 40000, 60000).Build(),
			expected: 8,
		},
		{
			name:     "no sales scores zero",
			customer: testutil.NewCustomer("1").WithMonths(12).WithFlatSales(0).Build(),
			expected: 0,
		},
		{
			name:     "very volatile floors at zero",
			customer: testutil.NewCustomer("1").WithMonths(4).WithSales(100, 0, 0, 0).Build(),
			expected: 0,
		},
		{
			name:     "window covers months on book only",
			customer: testutil.NewCustomer("1").WithMonths(3).WithSales(500, 500, 500, 0, 0, 0).Build(),
			expected: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Variabilidad(tt.customer), 1e-9)
		})
	}
}

// New accounts are still measured over three months, so a one month old
// customer looks volatile. Pinned as current behavior.
func TestVariabilidad_NewAccountUsesThreeMonthWindow(t *testing.T) {
	c := testutil.NewCustomer("1").WithMonths(1).WithSales(30000).Build()
	assert.Zero(t, Variabilidad(c))

	flat := testutil.NewCustomer("1").WithMonths(1).WithSales(30000, 30000, 30000).Build()
	assert.InDelta(t, 10.0, Variabilidad(flat), 1e-9)
}

func TestDPP(t *testing.T) {
	tests := []struct {
		raw      string
		expected float64
	}{
		{raw: "-2", expected: 10},
		{raw: "0", expected: 10},
		{raw: "0.5", expected: 7},
		{raw: "7", expected: 7},
		{raw: "7.01", expected: 4},
		{raw: "15", expected: 4},
		{raw: "15.5", expected: 0},
		{raw: "90", expected: 0},
		{raw: "", expected: 10},
		{raw: "sin dato", expected: 10},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c := model.Customer{WeightedDPP: model.Cell(tt.raw)}
			assert.InDelta(t, tt.expected, DPP(c), 1e-9)
		})
	}
}

func TestAntiguedad(t *testing.T) {
	tests := []struct {
		raw      string
		expected float64
	}{
		{raw: "36", expected: 10},
		{raw: "24", expected: 10},
		{raw: "23.9", expected: 7},
		{raw: "12", expected: 7},
		{raw: "11", expected: 4},
		{raw: "0", expected: 4},
		{raw: "", expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c := model.Customer{MonthsOnBook: model.Cell(tt.raw)}
			assert.InDelta(t, tt.expected, Antiguedad(c), 1e-9)
		})
	}
}

func TestVencido(t *testing.T) {
	tests := []struct {
		name     string
		pct      string
		days     string
		expected float64
	}{
		{name: "nothing overdue", pct: "0", days: "0", expected: 10},
		{name: "blank reads as zero", pct: "", days: "", expected: 10},
		{name: "overdue percentage", pct: "0.05", days: "0", expected: 0},
		{name: "overdue days", pct: "0", days: "12", expected: 0},
		{name: "negative days", pct: "0", days: "-1", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := model.Customer{
				PctBalanceOverdue: model.Cell(tt.pct),
				DaysMostOverdue:   model.Cell(tt.days),
			}
			assert.InDelta(t, tt.expected, Vencido(c), 1e-9)
		})
	}
}

func TestCapacidadPago(t *testing.T) {
	tests := []struct {
		name     string
		payment  float64
		expected float64
	}{
		{name: "covers limit", payment: 100000, expected: 10},
		{name: "three quarters", payment: 75000, expected: 8},
		{name: "half", payment: 50000, expected: 6},
		{name: "below half", payment: 49999, expected: 3},
		{name: "thirty percent", payment: 30000, expected: 3},
		{name: "small", payment: 29999, expected: 0},
		{name: "none", payment: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testutil.NewCustomer("1").WithLimit(100000).WithMaxPayment(tt.payment).Build()
			assert.InDelta(t, tt.expected, CapacidadPago(c), 1e-9)
		})
	}

	t.Run("missing limit divides by one", func(t *testing.T) {
		c := testutil.NewCustomer("1").WithMaxPayment(1).Build()
		assert.InDelta(t, 10.0, CapacidadPago(c), 1e-9)
	})
}

func TestScorable(t *testing.T) {
	assert.True(t, Scorable(testutil.GoodStanding("1").Build()))
	assert.True(t, Scorable(testutil.NewCustomer("1").WithMonths(12).WithSales(0).Build()))
	assert.False(t, Scorable(testutil.NewCustomer("1").WithMonths(12).Build()))
	assert.False(t, Scorable(testutil.NewCustomer("1").WithMonths(1).WithRawSales("", "100").Build()),
		"sales outside the usage window do not count")
}

func TestScore_AlwaysWithinBounds(t *testing.T) {
	customers := []model.Customer{
		{},
		testutil.NewCustomer("x").WithLimit(-1).WithMonths(-5).WithRawSales("abc", "1e308", "-1e308").Build(),
		testutil.NewCustomer("y").WithLimit(0.0001).WithMonths(1000).WithFlatSales(1e12).WithMaxPayment(-5).Build(),
		testutil.NewCustomer("z").WithClassification("???").WithDPP(-100).WithOverdue(-1, -1).Build(),
	}

	for _, c := range customers {
		s := Score(c)
		for _, v := range []float64{s.Uso, s.ADN, s.Variabilidad, s.DPP, s.Antiguedad, s.Vencido, s.CapacidadPago} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 10.0)
		}
	}
}
