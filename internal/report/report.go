package report

import (
	"time"

	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/google/uuid"
)

// Report is the complete result of an evaluation run.
type Report struct {
	AsOf        time.Time
	GeneratedAt time.Time
	RunID       string
	Source      string
	Columns     []string
	Evaluations []model.Evaluation
	Summary     Summary
}

// New builds the report of a run over the portfolio.
func New(p *model.Portfolio, evaluations []model.Evaluation, asOf time.Time) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		Source:      p.Source,
		AsOf:        asOf,
		GeneratedAt: time.Now(),
		Columns:     p.Columns,
		Evaluations: evaluations,
		Summary:     Summarize(evaluations),
	}
}

// Header returns the original columns followed by the derived ones.
func (r *Report) Header() []string {
	derived := model.DerivedColumns()
	header := make([]string, 0, len(r.Columns)+len(derived))
	header = append(header, r.Columns...)
	return append(header, derived...)
}

// Rows returns one row per evaluation aligned with Header. Numeric input cells
// are returned as float64, blank cells and missing derived values as nil.
func (r *Report) Rows() [][]any {
	rows := make([][]any, 0, len(r.Evaluations))
	for _, ev := range r.Evaluations {
		rows = append(rows, r.row(ev))
	}
	return rows
}

func (r *Report) row(ev model.Evaluation) []any {
	row := make([]any, 0, len(r.Columns)+len(model.DerivedColumns()))
	for i := range r.Columns {
		var raw string
		if i < len(ev.Customer.Cells) {
			raw = ev.Customer.Cells[i]
		}
		row = append(row, InputCell(raw, ev.Customer.TextCell(i)))
	}

	var lastMod, days any
	if ev.LastModification != nil {
		lastMod = *ev.LastModification
	}
	if ev.DaysSinceModification != nil {
		days = *ev.DaysSinceModification
	}

	var promissory, contract, guarantor any
	if ev.Coverage != nil {
		promissory = blankAsNil(ev.Coverage.Promissory)
		contract = blankAsNil(ev.Coverage.Contract)
		guarantor = blankAsNil(ev.Coverage.GuarantorID)
	}

	var final any
	if ev.FinalScore != nil {
		final = *ev.FinalScore
	}

	return append(row,
		lastMod,
		days,
		ev.RecentlyModified,
		promissory,
		contract,
		guarantor,
		ev.Scores.Uso,
		ev.Scores.ADN,
		ev.Scores.Variabilidad,
		ev.Scores.DPP,
		ev.Scores.Antiguedad,
		ev.Scores.Vencido,
		ev.Scores.CapacidadPago,
		final,
		string(ev.Decision),
		ev.SuggestedLimit.InexactFloat64(),
	)
}

// InputCell converts a raw input cell to the value written back out. Cells
// stored as text keep their text so identifiers like "007" survive.
func InputCell(raw string, text bool) any {
	v := model.Cell(raw)
	if !v.Present() {
		return nil
	}
	if text {
		return raw
	}
	if f, ok := v.Float(); ok {
		return f
	}
	return raw
}

func blankAsNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
