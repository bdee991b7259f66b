// Package workbook reads the input tables of a run from an xlsx workbook and
// writes the enriched analysis back out.
package workbook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/Veraticus/credit-limit-engine/internal/common"
	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/Veraticus/credit-limit-engine/internal/normalize"
	"github.com/xuri/excelize/v2"
)

// Default sheet names of the secondary tables.
const (
	DefaultHistorySheet  = "incremento"
	DefaultCoverageSheet = "cobertura"
)

// Options selects the sheets to read. A blank PrimarySheet means the first
// sheet of the workbook.
type Options struct {
	PrimarySheet  string
	HistorySheet  string
	CoverageSheet string
}

// Loader reads portfolios from xlsx workbooks.
type Loader struct {
	opts Options
}

// NewLoader creates a loader, filling in the default secondary sheet names.
func NewLoader(opts Options) *Loader {
	if opts.HistorySheet == "" {
		opts.HistorySheet = DefaultHistorySheet
	}
	if opts.CoverageSheet == "" {
		opts.CoverageSheet = DefaultCoverageSheet
	}
	return &Loader{opts: opts}
}

// Load reads the primary, history and coverage tables of the workbook at path.
// Cells are read raw, so dates arrive as Excel serial numbers.
func (l *Loader) Load(ctx context.Context, path string) (*model.Portfolio, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", common.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat input: %w", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close workbook", "path", path, "error", closeErr)
		}
	}()

	primary := l.opts.PrimarySheet
	if primary == "" {
		primary = f.GetSheetName(0)
	}

	p := &model.Portfolio{Source: path}

	sheet, rows, err := readSheet(f, primary)
	if err != nil {
		return nil, err
	}
	if p.Columns, p.Customers, err = parseCustomers(rows); err != nil {
		return nil, fmt.Errorf("sheet %q: %w", primary, err)
	}
	if err := markTextCells(f, sheet, p.Customers); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, rows, err = readSheet(f, l.opts.HistorySheet); err != nil {
		return nil, err
	}
	if p.LimitChanges, err = parseLimitChanges(rows); err != nil {
		return nil, fmt.Errorf("sheet %q: %w", l.opts.HistorySheet, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, rows, err = readSheet(f, l.opts.CoverageSheet); err != nil {
		return nil, err
	}
	if p.Coverage, err = parseCoverage(rows); err != nil {
		return nil, fmt.Errorf("sheet %q: %w", l.opts.CoverageSheet, err)
	}

	slog.Info("Loaded workbook",
		"path", path,
		"sheet", primary,
		"customers", len(p.Customers),
		"limit_changes", len(p.LimitChanges),
		"coverage", len(p.Coverage))

	return p, nil
}

// readSheet returns the resolved name and raw rows of a sheet. The name is
// matched exactly first and then with folded case and accents.
func readSheet(f *excelize.File, name string) (string, [][]string, error) {
	sheet, ok := findSheet(f.GetSheetList(), name)
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", common.ErrMissingSheet, name)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return sheet, rows, nil
}

// markTextCells flags the numeric-looking cells that the workbook stores as
// strings. Other cells are either numbers or plainly text already.
func markTextCells(f *excelize.File, sheet string, customers []model.Customer) error {
	for ci := range customers {
		c := &customers[ci]
		c.Text = make([]bool, len(c.Cells))
		for i, raw := range c.Cells {
			if _, ok := model.Cell(raw).Float(); !ok {
				continue
			}
			name, err := excelize.CoordinatesToCellName(i+1, c.Row)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			typ, err := f.GetCellType(sheet, name)
			if err != nil {
				return fmt.Errorf("failed to read type of %s!%s: %w", sheet, name, err)
			}
			switch typ {
			case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
				c.Text[i] = true
			}
		}
	}
	return nil
}

func findSheet(sheets []string, name string) (string, bool) {
	for _, s := range sheets {
		if s == name {
			return s, true
		}
	}
	folded := normalize.Header(name)
	for _, s := range sheets {
		if normalize.Header(s) == folded {
			return s, true
		}
	}
	return "", false
}

// table is a sheet split into its header index and data rows.
type table struct {
	index normalize.HeaderIndex
	rows  [][]string
}

func newTable(rows [][]string) table {
	if len(rows) == 0 {
		return table{index: normalize.HeaderIndex{}}
	}
	return table{index: normalize.NewHeaderIndex(rows[0]), rows: rows[1:]}
}

// require returns the positions of the named columns.
func (t table) require(names ...string) (map[string]int, error) {
	pos := make(map[string]int, len(names))
	var missing []string
	for _, name := range names {
		i, ok := t.index.Lookup(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		pos[name] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return pos, nil
}

// each calls fn for every non-blank data row with its 1-based sheet row.
func (t table) each(fn func(row []string, sheetRow int)) {
	for i, row := range t.rows {
		if blank(row) {
			continue
		}
		fn(row, i+2)
	}
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, i int) model.Value {
	if i < 0 || i >= len(row) {
		return model.Value{}
	}
	return model.Cell(row[i])
}

// optional returns the position of a column or -1 when the sheet lacks it.
func (t table) optional(name string) int {
	if i, ok := t.index.Lookup(name); ok {
		return i
	}
	return -1
}

// scoringColumns must all be present in the primary sheet. A misspelled header
// would otherwise score every customer on blank inputs.
var scoringColumns = []string{
	model.ColCustomer,
	model.ColCreditLimit,
	model.ColMonthsOnBook,
	model.ColClassification,
	model.ColWeightedDPP,
	model.ColPctBalanceOverdue,
	model.ColDaysMostOverdue,
	model.ColMaxPayment,
	model.ColOutstandingBalance,
}

func parseCustomers(rows [][]string) ([]string, []model.Customer, error) {
	t := newTable(rows)
	pos, err := t.require(scoringColumns...)
	if err != nil {
		return nil, nil, err
	}

	var columns []string
	if len(rows) > 0 {
		columns = make([]string, len(rows[0]))
		for i, h := range rows[0] {
			columns[i] = strings.TrimSpace(h)
		}
	}

	var salesCols [model.SalesMonths]int
	var missingSales []string
	for m := range salesCols {
		salesCols[m] = t.optional(model.SalesColumn(m + 1))
		if salesCols[m] < 0 {
			missingSales = append(missingSales, model.SalesColumn(m+1))
		}
	}
	if len(missingSales) > 0 {
		slog.Warn("Sales columns missing, treating them as blank", "columns", missingSales)
	}

	var customers []model.Customer
	t.each(func(row []string, sheetRow int) {
		c := model.Customer{
			ID:                 cell(row, pos[model.ColCustomer]),
			CreditLimit:        cell(row, pos[model.ColCreditLimit]),
			MonthsOnBook:       cell(row, pos[model.ColMonthsOnBook]),
			Classification:     cell(row, pos[model.ColClassification]),
			WeightedDPP:        cell(row, pos[model.ColWeightedDPP]),
			PctBalanceOverdue:  cell(row, pos[model.ColPctBalanceOverdue]),
			DaysMostOverdue:    cell(row, pos[model.ColDaysMostOverdue]),
			MaxPayment:         cell(row, pos[model.ColMaxPayment]),
			OutstandingBalance: cell(row, pos[model.ColOutstandingBalance]),
			Cells:              row,
			Row:                sheetRow,
		}
		for m, col := range salesCols {
			c.MonthlySales[m] = cell(row, col)
		}
		customers = append(customers, c)
	})

	return columns, customers, nil
}

func parseLimitChanges(rows [][]string) ([]model.LimitChange, error) {
	t := newTable(rows)
	pos, err := t.require(model.ColHistoryCode, model.ColHistoryDate)
	if err != nil {
		return nil, err
	}

	var changes []model.LimitChange
	t.each(func(row []string, sheetRow int) {
		changes = append(changes, model.LimitChange{
			Code:       cell(row, pos[model.ColHistoryCode]),
			ResolvedOn: cell(row, pos[model.ColHistoryDate]),
			Row:        sheetRow,
		})
	})
	return changes, nil
}

func parseCoverage(rows [][]string) ([]model.Coverage, error) {
	t := newTable(rows)
	pos, err := t.require(model.ColCoverageName, model.ColPromissory, model.ColContract, model.ColGuarantorID)
	if err != nil {
		return nil, err
	}

	var coverage []model.Coverage
	t.each(func(row []string, sheetRow int) {
		coverage = append(coverage, model.Coverage{
			Name:        cell(row, pos[model.ColCoverageName]),
			Promissory:  cell(row, pos[model.ColPromissory]).String(),
			Contract:    cell(row, pos[model.ColContract]).String(),
			GuarantorID: cell(row, pos[model.ColGuarantorID]).String(),
			Row:         sheetRow,
		})
	})
	return coverage, nil
}
