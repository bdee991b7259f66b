package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/credit-limit-engine/internal/service"
	"github.com/stretchr/testify/assert"
)

var fastRetry = service.RetryOptions{
	MaxAttempts:  3,
	InitialDelay: time.Millisecond,
	MaxDelay:     5 * time.Millisecond,
	Multiplier:   2,
}

func TestWithRetry(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		wantErr      error
		failures     []error
		name         string
		wantAttempts int
	}{
		{
			name:         "succeeds first time",
			wantAttempts: 1,
		},
		{
			name:         "succeeds after transient failures",
			failures:     []error{errBoom, ErrSheetsUnavailable},
			wantAttempts: 3,
		},
		{
			name:         "gives up after max attempts",
			failures:     []error{errBoom, errBoom, errBoom},
			wantAttempts: 3,
			wantErr:      ErrMaxRetries,
		},
		{
			name:         "stops on permanent error",
			failures:     []error{&RetryableError{Err: errBoom, Retryable: false}},
			wantAttempts: 1,
			wantErr:      errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := WithRetry(context.Background(), func() error {
				attempts++
				if attempts <= len(tt.failures) {
					return tt.failures[attempts-1]
				}
				return nil
			}, fastRetry)

			assert.Equal(t, tt.wantAttempts, attempts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWithRetry_KeepsLastError(t *testing.T) {
	err := WithRetry(context.Background(), func() error {
		return ErrSheetsUnavailable
	}, fastRetry)

	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.ErrorIs(t, err, ErrSheetsUnavailable)
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	err := WithRetry(ctx, func() error {
		cancel()
		return errors.New("temporary")
	}, service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Hour})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "rate limit", err: fmt.Errorf("update: %w", ErrRateLimit), want: true},
		{name: "sheets unavailable", err: ErrSheetsUnavailable, want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "marked retryable", err: &RetryableError{Err: errors.New("x"), Retryable: true}, want: true},
		{name: "marked permanent", err: &RetryableError{Err: errors.New("x")}, want: false},
		{name: "plain", err: errors.New("x"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestUserError(t *testing.T) {
	err := NewUserError("No se encontró el archivo", ErrInputNotFound)

	assert.Equal(t, "No se encontró el archivo: input workbook not found", err.Error())
	assert.ErrorIs(t, err, ErrInputNotFound)

	var userErr *UserError
	assert.ErrorAs(t, err, &userErr)
	assert.Equal(t, "No se encontró el archivo", userErr.UserMessage)
}
