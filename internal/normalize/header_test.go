package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected bool
	}{
		{name: "accents and case", a: "Límite de crédito", b: "LIMITE DE CREDITO", expected: true},
		{name: "surrounding whitespace", a: " Cartera total ", b: "Cartera total", expected: true},
		{name: "inner whitespace", a: "Cartera   total", b: "Cartera total", expected: true},
		{name: "slash header", a: "Historial de aprobaciones/Fecha de resolución", b: "historial de aprobaciones/fecha de resolucion", expected: true},
		{name: "different names", a: "VtaMes1", b: "VtaMes11", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Header(tt.a) == Header(tt.b))
		})
	}
}

func TestHeaderIndex(t *testing.T) {
	idx := NewHeaderIndex([]string{"Cliente", "Límite de crédito", "", "cliente"})

	pos, ok := idx.Lookup("CLIENTE")
	require.True(t, ok)
	assert.Equal(t, 0, pos, "first occurrence wins")

	pos, ok = idx.Lookup("Limite de credito")
	require.True(t, ok)
	assert.Equal(t, 1, pos)

	_, ok = idx.Lookup("PagosMaximo")
	assert.False(t, ok)
}
