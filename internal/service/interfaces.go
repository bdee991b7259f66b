// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/Veraticus/credit-limit-engine/internal/report"
)

// PortfolioLoader reads the three input tables of a run.
type PortfolioLoader interface {
	Load(ctx context.Context, path string) (*model.Portfolio, error)
}

// ReportWriter persists or publishes a finished report. Writers are run in
// order after every customer has been evaluated.
type ReportWriter interface {
	Write(ctx context.Context, r *report.Report) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
