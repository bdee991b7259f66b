package common

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewLogger(&buf, "info", "json")
		require.NoError(t, err)

		logger.Debug("hidden")
		logger.Info("evaluation complete", "customers", 3)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "evaluation complete", entry["msg"])
		assert.InDelta(t, 3, entry["customers"], 0)
	})

	t.Run("console", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewLogger(&buf, "debug", "console")
		require.NoError(t, err)

		logger.Debug("joined tables")
		assert.Contains(t, buf.String(), "msg=\"joined tables\"")
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := NewLogger(&bytes.Buffer{}, "info", "xml")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
