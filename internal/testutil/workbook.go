package testutil

import (
	"path/filepath"
	"testing"

	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/xuri/excelize/v2"
)

// WorkbookBuilder writes xlsx fixtures for loader tests.
//
// Example:
//
//	path := testutil.NewWorkbook(t).
//		WithSheet("cartera", testutil.PortfolioHeader(), row1).
//		WithSheet("incremento", testutil.HistoryHeader()).
//		WithSheet("cobertura", testutil.CoverageHeader()).
//		Save("input.xlsx")
type WorkbookBuilder struct {
	t      *testing.T
	sheets []fixtureSheet
}

type fixtureSheet struct {
	name string
	rows [][]any
}

// NewWorkbook starts an empty workbook fixture.
func NewWorkbook(t *testing.T) *WorkbookBuilder {
	t.Helper()
	return &WorkbookBuilder{t: t}
}

// WithSheet appends a sheet. Sheets keep the order they are added in.
func (b *WorkbookBuilder) WithSheet(name string, rows ...[]any) *WorkbookBuilder {
	b.sheets = append(b.sheets, fixtureSheet{name: name, rows: rows})
	return b
}

// Save writes the workbook into a temporary directory and returns its path.
func (b *WorkbookBuilder) Save(name string) string {
	b.t.Helper()

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	for i, s := range b.sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				b.t.Fatalf("failed to rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			b.t.Fatalf("failed to create sheet %q: %v", s.name, err)
		}

		for r, row := range s.rows {
			addr, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				b.t.Fatalf("bad coordinates: %v", err)
			}
			if err := f.SetSheetRow(s.name, addr, &row); err != nil {
				b.t.Fatalf("failed to write row %d of %q: %v", r+1, s.name, err)
			}
		}
	}

	path := filepath.Join(b.t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		b.t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

// PortfolioHeader returns a complete primary table header with an extra
// descriptive column after the identifier.
func PortfolioHeader() []any {
	header := []any{
		model.ColCustomer,
		"Nombre",
		model.ColCreditLimit,
		model.ColMonthsOnBook,
		model.ColClassification,
		model.ColWeightedDPP,
		model.ColPctBalanceOverdue,
		model.ColDaysMostOverdue,
		model.ColMaxPayment,
		model.ColOutstandingBalance,
	}
	for m := 1; m <= model.SalesMonths; m++ {
		header = append(header, model.SalesColumn(m))
	}
	return header
}

// PortfolioRow returns a row matching PortfolioHeader for a customer in good
// standing with flat monthly sales.
func PortfolioRow(id any, name string, limit, sales float64) []any {
	row := []any{id, name, limit, 24, "AAA", 0, 0, 0, limit, 0}
	for m := 0; m < model.SalesMonths; m++ {
		row = append(row, sales)
	}
	return row
}

// HistoryHeader returns the limit-history table header.
func HistoryHeader() []any {
	return []any{model.ColHistoryCode, model.ColHistoryDate}
}

// CoverageHeader returns the coverage table header.
func CoverageHeader() []any {
	return []any{model.ColCoverageName, model.ColPromissory, model.ColContract, model.ColGuarantorID}
}
