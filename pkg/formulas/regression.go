package formulas

import "gonum.org/v1/gonum/stat"

// OLSRegression fits a simple linear model y = intercept + slope*x by
// ordinary least squares, used for single-factor alpha/beta attribution.
//
// Degenerate inputs fall back instead of erroring: mismatched or
// shorter-than-two series return (0, 0); a zero-variance x returns slope 0
// and the mean of y as intercept.
func OLSRegression(x, y []float64) (slope, intercept float64) {
	if len(x) < 2 || len(x) != len(y) {
		return 0, 0
	}
	if Variance(x) == 0 {
		return 0, Mean(y)
	}
	intercept, slope = stat.LinearRegression(x, y, nil, false)
	return slope, intercept
}

// AlphaBeta regresses asset returns on benchmark returns and reports the
// intercept as alpha and the slope as beta.
func AlphaBeta(assetReturns, benchmarkReturns []float64) (alpha, beta float64) {
	beta, alpha = OLSRegression(benchmarkReturns, assetReturns)
	return alpha, beta
}
