// Package engine runs the evaluation pipeline: join, score, decide and suggest
// a limit for every customer of a portfolio.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/credit-limit-engine/internal/common"
	"github.com/Veraticus/credit-limit-engine/internal/decision"
	"github.com/Veraticus/credit-limit-engine/internal/join"
	"github.com/Veraticus/credit-limit-engine/internal/limit"
	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/Veraticus/credit-limit-engine/internal/scoring"
)

// ProgressFunc is called after each customer is evaluated.
type ProgressFunc func(done, total int)

// Config holds configuration options for the evaluation engine.
type Config struct {
	AsOf     time.Time
	Logger   *slog.Logger
	Progress ProgressFunc
}

// DefaultConfig returns the default configuration, evaluated as of now.
func DefaultConfig() Config {
	return Config{
		AsOf:   time.Now(),
		Logger: slog.Default(),
	}
}

// EvaluationEngine evaluates whole portfolios.
type EvaluationEngine struct {
	asOf     time.Time
	logger   *slog.Logger
	progress ProgressFunc
}

// New creates an engine with the default configuration.
func New() *EvaluationEngine {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an engine with a custom configuration.
func NewWithConfig(config Config) *EvaluationEngine {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.AsOf.IsZero() {
		config.AsOf = time.Now()
	}
	return &EvaluationEngine{
		asOf:     config.AsOf,
		logger:   config.Logger,
		progress: config.Progress,
	}
}

// Evaluate returns one evaluation per primary row, in input order. It only
// fails when ctx is canceled or the portfolio is empty.
func (e *EvaluationEngine) Evaluate(ctx context.Context, p *model.Portfolio) ([]model.Evaluation, error) {
	if p == nil || len(p.Customers) == 0 {
		return nil, common.ErrNoCustomers
	}

	joiner := join.NewJoiner(p.LimitChanges, p.Coverage, e.asOf)
	e.logger.Info("Joined secondary tables",
		"customers", len(p.Customers),
		"history_customers", joiner.HistorySize(),
		"coverage_customers", joiner.CoverageSize(),
		"as_of", e.asOf.Format(time.DateOnly))

	evaluations := make([]model.Evaluation, 0, len(p.Customers))
	for i, c := range p.Customers {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("evaluation interrupted after %d of %d customers: %w", i, len(p.Customers), ctx.Err())
		default:
		}

		ev := EvaluateCustomer(c, joiner.Match(c))
		if ev.FinalScore == nil {
			e.logger.Debug("No sales history to score", "row", c.Row, "customer", c.ID.String())
		}
		evaluations = append(evaluations, ev)

		if e.progress != nil {
			e.progress(i+1, len(p.Customers))
		}
	}

	return evaluations, nil
}

// EvaluateCustomer derives every output field of a single customer. It is a
// pure function of the customer and its joined fields.
func EvaluateCustomer(c model.Customer, m join.Match) model.Evaluation {
	scores := scoring.Score(c)

	var final *int
	if scoring.Scorable(c) {
		s := decision.FinalScore(scores)
		final = &s
	}

	d := decision.Decide(c.Classification, final)

	return model.Evaluation{
		Customer:              c,
		LastModification:      m.LastModification,
		DaysSinceModification: m.DaysSinceModification,
		RecentlyModified:      m.RecentlyModified,
		Coverage:              m.Coverage,
		Scores:                scores,
		FinalScore:            final,
		Decision:              d,
		SuggestedLimit:        limit.Suggest(limit.InputFor(c, d, final)),
	}
}
