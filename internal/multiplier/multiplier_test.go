package multiplier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePerThousand(t *testing.T) {
	res, err := Compute(0.0025, 0.01, PerThousand)
	require.NoError(t, err)
	assert.InDelta(t, 1.25, res.ModelMultiplier, 1e-12)
	assert.InDelta(t, 4.0, res.CompletionMultiplier, 1e-12)
}

func TestComputeExactDivision(t *testing.T) {
	prices := [][2]float64{
		{0.0025, 0.01},
		{0.00015, 0.0006},
		{3, 15},
		{0.000015, 0},
	}
	for _, unit := range []Unit{PerThousand, PerMillion} {
		for _, p := range prices {
			res, err := Compute(p[0], p[1], unit)
			require.NoError(t, err)
			assert.Equal(t, p[0]/BasePrice(unit), res.ModelMultiplier)
			assert.Equal(t, p[1]/p[0], res.CompletionMultiplier)
		}
	}
}

func TestComputePerMillion(t *testing.T) {
	res, err := Compute(2.5, 10, PerMillion)
	require.NoError(t, err)
	assert.InDelta(t, 1.25, res.ModelMultiplier, 1e-12)
	assert.InDelta(t, 4.0, res.CompletionMultiplier, 1e-12)
}

func TestComputeZeroInput(t *testing.T) {
	_, err := Compute(0, 0.01, PerThousand)
	assert.ErrorIs(t, err, ErrDivisionUndefined)
}

func TestComputeInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		out  float64
	}{
		{"nan input", math.NaN(), 1},
		{"nan output", 1, math.NaN()},
		{"inf input", math.Inf(1), 1},
		{"negative inf output", 1, math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.in, tt.out, PerThousand)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRescaleRoundTrip(t *testing.T) {
	for _, p := range []float64{0.0025, 0.00015, 0.03, 0} {
		up := Rescale(p, PerThousand, PerMillion)
		back := Rescale(up, PerMillion, PerThousand)
		assert.InDelta(t, p, back, 1e-15)
	}
	assert.InDelta(t, 2.5, Rescale(0.0025, PerThousand, PerMillion), 1e-12)
	assert.Equal(t, 0.5, Rescale(0.5, PerMillion, PerMillion))
}

func TestParseUnit(t *testing.T) {
	u, err := ParseUnit("1M")
	require.NoError(t, err)
	assert.Equal(t, PerMillion, u)

	u, err = ParseUnit("")
	require.NoError(t, err)
	assert.Equal(t, PerThousand, u)

	_, err = ParseUnit("per-token")
	assert.Error(t, err)
}

func TestUnitStringAndOther(t *testing.T) {
	assert.Equal(t, "1K", PerThousand.String())
	assert.Equal(t, "1M", PerMillion.String())
	assert.Equal(t, PerMillion, PerThousand.Other())
	assert.Equal(t, PerThousand, PerMillion.Other())
}
