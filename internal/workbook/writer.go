package workbook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/credit-limit-engine/internal/common"
	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/Veraticus/credit-limit-engine/internal/report"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Output layout.
const (
	DefaultOutputName = "Resultado_Analisis_credito.xlsx"

	AnalysisSheet = "Evaluacion_Crediticia"
	SummarySheet  = "Resumen_Ejecutivo"
	AnalysisTable = "AnalisisCredito"

	tableStyle     = "TableStyleMedium9"
	maxColumnWidth = 45
	kpiFill        = "BDD7EE"
)

var numbers = message.NewPrinter(language.English)

// DefaultOutputPath returns the report path used when none is configured:
// DefaultOutputName next to the input workbook.
func DefaultOutputPath(input string) string {
	return filepath.Join(filepath.Dir(input), DefaultOutputName)
}

// Writer renders a report as a formatted xlsx workbook.
type Writer struct {
	path string
}

// NewWriter creates a writer for the given output path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the output path.
func (w *Writer) Path() string {
	return w.path
}

// Write renders the analysis and summary sheets. The workbook is written to a
// temporary file next to the target and renamed into place, so a failed write
// never leaves a partial file behind.
func (w *Writer) Write(ctx context.Context, r *report.Report) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName(f.GetSheetName(0), AnalysisSheet); err != nil {
		return fmt.Errorf("failed to name analysis sheet: %w", err)
	}
	if err := writeAnalysis(f, r); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeSummary(f, r.Summary); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := w.save(f); err != nil {
		return err
	}

	slog.Info("Wrote analysis workbook", "path", w.path, "rows", len(r.Evaluations))
	return nil
}

func (w *Writer) save(f *excelize.File) error {
	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, ".creditlimit-*.xlsx")
	if err != nil {
		return outputError(w.path, err)
	}
	tmpPath := tmp.Name()

	_, writeErr := f.WriteTo(tmp)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		_ = os.Remove(tmpPath)
		return outputError(w.path, errors.Join(writeErr, closeErr))
	}

	if err := os.Rename(tmpPath, w.path); err != nil {
		_ = os.Remove(tmpPath)
		return outputError(w.path, err)
	}
	return nil
}

func outputError(path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %s: %v", common.ErrOutputLocked, path, err)
	}
	return fmt.Errorf("failed to write %s: %w", path, err)
}

func writeAnalysis(f *excelize.File, r *report.Report) error {
	header := r.Header()
	rows := r.Rows()

	headerCells := make([]any, len(header))
	widths := make([]int, len(header))
	for i, h := range header {
		headerCells[i] = h
		widths[i] = displayLength(h)
	}
	if err := f.SetSheetRow(AnalysisSheet, "A1", &headerCells); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(AnalysisSheet, addr, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
		for c, v := range row {
			if c < len(widths) {
				widths[c] = max(widths[c], displayLength(v))
			}
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(AnalysisSheet, col, col, float64(min(width+2, maxColumnWidth))); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}

	if len(rows) == 0 {
		return nil
	}

	end, err := excelize.CoordinatesToCellName(len(header), len(rows)+1)
	if err != nil {
		return err
	}
	stripes := true
	if err := f.AddTable(AnalysisSheet, &excelize.Table{
		Range:          "A1:" + end,
		Name:           AnalysisTable,
		StyleName:      tableStyle,
		ShowRowStripes: &stripes,
	}); err != nil {
		return fmt.Errorf("failed to add table: %w", err)
	}
	return nil
}

// displayLength is the width a value takes when printed the way a
// spreadsheet user reads it. Empty, zero and false cells count as nothing.
func displayLength(v any) int {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		return utf8.RuneCountInString(x)
	case bool:
		if !x {
			return 0
		}
		return len("True")
	case int:
		if x == 0 {
			return 0
		}
		return len(strconv.Itoa(x))
	case float64:
		if x == 0 || math.IsNaN(x) {
			return 0
		}
		s := strconv.FormatFloat(x, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return len(s)
	case time.Time:
		return len(time.DateTime)
	default:
		return utf8.RuneCountInString(fmt.Sprint(x))
	}
}

type kpi struct {
	title string
	value string
}

func writeSummary(f *excelize.File, s report.Summary) error {
	sheet := SummarySheet

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A1", "Resumen Ejecutivo de Crédito"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", titleStyle); err != nil {
		return err
	}

	row := 3
	for _, line := range s.Lines() {
		if err := setRow(f, sheet, row, line.Label, line.Value); err != nil {
			return err
		}
		row++
	}
	if err := f.SetColWidth(sheet, "A", "A", 35); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 20); err != nil {
		return err
	}

	if err := writeKPIs(f, s); err != nil {
		return err
	}

	decisionsStart := row + 2
	last, err := writeDecisionTable(f, s, decisionsStart)
	if err != nil {
		return err
	}
	if last > decisionsStart {
		if err := f.AddChart(sheet, "D8", &excelize.Chart{
			Type: excelize.Pie,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("%s!$B$%d", sheet, decisionsStart),
				Categories: fmt.Sprintf("%s!$A$%d:$A$%d", sheet, decisionsStart+1, last),
				Values:     fmt.Sprintf("%s!$B$%d:$B$%d", sheet, decisionsStart+1, last),
			}},
			Title:  []excelize.RichTextRun{{Text: "Distribución de Decisiones de Crédito"}},
			Legend: excelize.ChartLegend{Position: "right"},
		}); err != nil {
			return fmt.Errorf("failed to add decision chart: %w", err)
		}
	}

	limitsStart := last + 3
	if err := setRow(f, sheet, limitsStart, "Concepto", "Monto"); err != nil {
		return err
	}
	if err := setRow(f, sheet, limitsStart+1, "Límite Actual", s.CurrentLimitTotal.InexactFloat64()); err != nil {
		return err
	}
	if err := setRow(f, sheet, limitsStart+2, "Límite Sugerido", s.SuggestedLimitTotal.InexactFloat64()); err != nil {
		return err
	}
	if err := f.AddChart(sheet, "D24", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$%d", sheet, limitsStart),
			Categories: fmt.Sprintf("%s!$A$%d:$A$%d", sheet, limitsStart+1, limitsStart+2),
			Values:     fmt.Sprintf("%s!$B$%d:$B$%d", sheet, limitsStart+1, limitsStart+2),
		}},
		Title: []excelize.RichTextRun{{Text: "Impacto en Límites de Crédito"}},
		XAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Tipo"}}},
		YAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Monto"}}},
	}); err != nil {
		return fmt.Errorf("failed to add limit chart: %w", err)
	}

	return nil
}

// writeDecisionTable lists the decisions that occurred and returns the last
// row written.
func writeDecisionTable(f *excelize.File, s report.Summary, start int) (int, error) {
	if err := setRow(f, SummarySheet, start, "Decisión", "Cantidad"); err != nil {
		return 0, err
	}
	row := start
	for _, dc := range s.Decisions {
		if dc.Count == 0 {
			continue
		}
		row++
		if err := setRow(f, SummarySheet, row, string(dc.Decision), dc.Count); err != nil {
			return 0, err
		}
	}
	return row, nil
}

// writeKPIs renders the headline figures as merged blocks across rows 2-3,
// starting at column D.
func writeKPIs(f *excelize.File, s report.Summary) error {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{kpiFill}},
	})
	if err != nil {
		return err
	}

	avg := "-"
	if s.AverageScore != nil {
		avg = s.AverageScore.StringFixed(1)
	}
	kpis := []kpi{
		{title: "Total Clientes", value: formatThousands(decimal.NewFromInt(int64(s.Customers)))},
		{title: "Incrementos", value: strconv.Itoa(s.Count(model.DecisionIncrease))},
		{title: "Decrementos", value: strconv.Itoa(s.Count(model.DecisionDecrease))},
		{title: "Score Promedio", value: avg},
		{title: "Impacto Neto", value: formatThousands(s.NetImpact)},
	}

	col := 4
	for _, k := range kpis {
		topLeft, err := excelize.CoordinatesToCellName(col, 2)
		if err != nil {
			return err
		}
		bottomRight, err := excelize.CoordinatesToCellName(col+1, 3)
		if err != nil {
			return err
		}
		if err := f.MergeCell(SummarySheet, topLeft, bottomRight); err != nil {
			return err
		}
		if err := f.SetCellValue(SummarySheet, topLeft, k.title+"\n"+k.value); err != nil {
			return err
		}
		if err := f.SetCellStyle(SummarySheet, topLeft, bottomRight, style); err != nil {
			return err
		}
		col += 2
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	addr, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, addr, &values)
}

// formatThousands rounds half to even and groups thousands with commas.
func formatThousands(d decimal.Decimal) string {
	return numbers.Sprintf("%.0f", d.RoundBank(0).InexactFloat64())
}
