package sheets

import (
	"time"

	"github.com/Veraticus/credit-limit-engine/internal/report"
)

// EvaluationValues renders the enriched table as sheet values: the header
// followed by one row per evaluation.
func EvaluationValues(r *report.Report) [][]any {
	header := r.Header()
	values := make([][]any, 0, len(r.Evaluations)+1)

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	values = append(values, headerRow)

	for _, row := range r.Rows() {
		out := make([]any, len(row))
		for i, v := range row {
			out[i] = sheetValue(v)
		}
		values = append(values, out)
	}

	return values
}

// SummaryValues renders the executive summary: title, run details, the
// summary lines and the decision counts.
func SummaryValues(r *report.Report) [][]any {
	s := r.Summary
	values := [][]any{
		{"Resumen Ejecutivo de Crédito"},
		{"Ejecución", r.RunID, "Fecha de corte", r.AsOf.Format(time.DateOnly)},
	}

	for _, line := range s.Lines() {
		values = append(values, []any{line.Label, sheetValue(line.Value)})
	}

	values = append(values,
		[]any{},
		[]any{"Decisión", "Cantidad"},
	)
	for _, dc := range s.Decisions {
		values = append(values, []any{string(dc.Decision), dc.Count})
	}

	return values
}

// sheetValue converts a report cell to something the Sheets API accepts.
func sheetValue(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return x.Format(time.DateOnly)
	default:
		return x
	}
}
