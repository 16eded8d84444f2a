package formulas

import (
	"fmt"
	"math"
)

// singularPivotThreshold is the pivot magnitude below which a matrix is
// treated as singular during Gauss-Jordan elimination.
const singularPivotThreshold = 1e-10

// IdentityMatrix returns the n x n identity matrix.
func IdentityMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	return m
}

// Invert inverts a square matrix using Gauss-Jordan elimination with partial
// pivoting. Gauss-Jordan is sufficient at the scale this engine operates on
// (tens of assets); callers needing hundreds of assets can swap in an
// LU/Cholesky implementation behind the same contract.
//
// A singular or near-singular matrix (pivot magnitude below 1e-10) never
// raises: the identity matrix is substituted, which degrades dependent
// allocations toward equal weighting.
func Invert(matrix [][]float64) [][]float64 {
	n := len(matrix)
	if n == 0 {
		return [][]float64{}
	}

	// Augment a working copy with the identity.
	aug := make([][]float64, n)
	for i := range aug {
		if len(matrix[i]) != n {
			return IdentityMatrix(n)
		}
		aug[i] = make([]float64, 2*n)
		copy(aug[i], matrix[i])
		aug[i][n+i] = 1
	}

	for col := 0; col < n; col++ {
		// Partial pivoting: select the row with the largest magnitude in
		// this column.
		pivotRow := col
		pivotMag := math.Abs(aug[col][col])
		for r := col + 1; r < n; r++ {
			if mag := math.Abs(aug[r][col]); mag > pivotMag {
				pivotMag = mag
				pivotRow = r
			}
		}

		if pivotMag < singularPivotThreshold {
			return IdentityMatrix(n)
		}

		aug[col], aug[pivotRow] = aug[pivotRow], aug[col]

		pivot := aug[col][col]
		for c := 0; c < 2*n; c++ {
			aug[col][c] /= pivot
		}

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			for c := 0; c < 2*n; c++ {
				aug[r][c] -= factor * aug[col][c]
			}
		}
	}

	inv := make([][]float64, n)
	for i := range inv {
		inv[i] = make([]float64, n)
		copy(inv[i], aug[i][n:])
	}
	return inv
}

// CorrelationMatrixFromCovariance converts a covariance matrix to a
// correlation matrix: corr(i,j) = cov(i,j) / sqrt(var(i) * var(j)).
// Zero-variance assets contribute 0 off-diagonal and 1 on the diagonal.
func CorrelationMatrixFromCovariance(cov [][]float64) ([][]float64, error) {
	n := len(cov)
	if n == 0 {
		return nil, fmt.Errorf("empty covariance matrix")
	}

	variances := make([]float64, n)
	for i := range cov {
		if len(cov[i]) != n {
			return nil, fmt.Errorf("covariance matrix is not square")
		}
		variances[i] = cov[i][i]
	}

	corr := make([][]float64, n)
	for i := range corr {
		corr[i] = make([]float64, n)
		corr[i][i] = 1
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if variances[i] > 0 && variances[j] > 0 {
				corr[i][j] = cov[i][j] / math.Sqrt(variances[i]*variances[j])
			}
		}
	}
	return corr, nil
}
