package cli

import (
	"bytes"
	"testing"

	"github.com/Veraticus/credit-limit-engine/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoringProgress_Update(t *testing.T) {
	var out bytes.Buffer
	p := NewScoringProgress(&out)

	var fn engine.ProgressFunc = p.Update
	for i := 1; i <= 3; i++ {
		fn(i, 3)
	}

	require.NotNil(t, p.bar)
	assert.True(t, p.bar.IsFinished())
	assert.Contains(t, out.String(), "Evaluando clientes")
}
