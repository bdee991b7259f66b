// Package storage provides the SQLite export of evaluation runs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/credit-limit-engine/internal/report"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidRun   = errors.New("invalid run")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateReport checks that a report can be exported.
func validateReport(r *report.Report) error {
	if r == nil {
		return fmt.Errorf("%w: report", ErrNilParameter)
	}
	if strings.TrimSpace(r.RunID) == "" {
		return fmt.Errorf("%w: run ID is required", ErrInvalidRun)
	}

	seen := make(map[int]bool, len(r.Evaluations))
	for i, ev := range r.Evaluations {
		if ev.Decision == "" {
			return fmt.Errorf("%w: evaluation at index %d has no decision", ErrInvalidRun, i)
		}
		if ev.Customer.Row != 0 {
			if seen[ev.Customer.Row] {
				return fmt.Errorf("%w: duplicate row %d", ErrInvalidRun, ev.Customer.Row)
			}
			seen[ev.Customer.Row] = true
		}
	}
	return nil
}
