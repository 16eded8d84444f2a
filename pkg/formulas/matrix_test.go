package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multiply(a, b [][]float64) [][]float64 {
	n := len(a)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				out[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return out
}

func TestInvert(t *testing.T) {
	m := [][]float64{
		{4, 7},
		{2, 6},
	}

	inv := Invert(m)
	product := multiply(m, inv)

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			expected := 0.0
			if i == j {
				expected = 1.0
			}
			assert.InDelta(t, expected, product[i][j], 1e-9)
		}
	}
}

func TestInvertDiagonal(t *testing.T) {
	m := [][]float64{
		{2, 0, 0},
		{0, 4, 0},
		{0, 0, 8},
	}

	inv := Invert(m)
	assert.InDelta(t, 0.5, inv[0][0], 1e-12)
	assert.InDelta(t, 0.25, inv[1][1], 1e-12)
	assert.InDelta(t, 0.125, inv[2][2], 1e-12)
}

func TestInvertSingularSubstitutesIdentity(t *testing.T) {
	// Second row is a multiple of the first: rank 1.
	singular := [][]float64{
		{1, 2},
		{2, 4},
	}

	inv := Invert(singular)
	assert.Equal(t, IdentityMatrix(2), inv, "singular input degrades to identity, never errors")

	// Near-singular pivots below the threshold get the same treatment.
	nearSingular := [][]float64{
		{1e-12, 0},
		{0, 1e-12},
	}
	assert.Equal(t, IdentityMatrix(2), Invert(nearSingular))
}

func TestInvertEmpty(t *testing.T) {
	assert.Empty(t, Invert(nil))
}

func TestCorrelationMatrixFromCovariance(t *testing.T) {
	cov := [][]float64{
		{0.04, 0.01},
		{0.01, 0.09},
	}

	corr, err := CorrelationMatrixFromCovariance(cov)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, corr[0][0], 1e-12)
	assert.InDelta(t, 1.0, corr[1][1], 1e-12)
	assert.InDelta(t, 0.01/(0.2*0.3), corr[0][1], 1e-12)
	assert.Equal(t, corr[0][1], corr[1][0])

	_, err = CorrelationMatrixFromCovariance(nil)
	assert.Error(t, err)

	_, err = CorrelationMatrixFromCovariance([][]float64{{1, 2}})
	assert.Error(t, err)
}
