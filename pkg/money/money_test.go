package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected float64
	}{
		{"already cents", 12.34, 12.34},
		{"half to even down", 0.125, 0.12},
		{"half to even up", 0.135, 0.14},
		{"negative", -3.456, -3.46},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Round2(tt.in))
		})
	}
}

func TestMulAvoidsFloatDrift(t *testing.T) {
	assert.Equal(t, 89.0, Mul(5, 17.8))
	assert.Equal(t, 0.3, Mul(3, 0.1))
}

func TestSumGRVScenario(t *testing.T) {
	subtotal := Sum(Mul(10, 18.00), Mul(5, 17.80))
	tax := Mul(subtotal, 0.16)

	assert.Equal(t, 269.00, subtotal)
	assert.Equal(t, 43.04, tax)
	assert.Equal(t, 312.04, Sum(subtotal, tax))
}

func TestDiv(t *testing.T) {
	assert.Equal(t, 3.33, Div(10, 3))
	assert.Equal(t, 0.0, Div(10, 0))
}

func TestDeltaKeepsQuantityPrecision(t *testing.T) {
	assert.Equal(t, -0.025, Delta(0.1, 0.125))
	assert.Equal(t, 0.0001, Delta(2.0001, 2))
	assert.Equal(t, -2.0, Delta(18, 20))
}
