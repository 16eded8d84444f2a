package optimization

import "gonum.org/v1/gonum/mat"

// model is the per-call risk model: estimates and matrices indexed by the
// sorted symbol universe. The covariance is kept both as nested slices (the
// shape the Gauss-Jordan inverter works on) and as a gonum matrix for the
// quadratic forms.
type model struct {
	symbols []string
	returns []float64
	vols    []float64
	corr    [][]float64
	cov     [][]float64
	sigma   *mat.SymDense
}

// buildModel runs the estimator over the universe and assembles the
// correlation and covariance matrices: Cov[i][j] = corr[i][j] * vol[i] *
// vol[j], with unit self-correlation on the diagonal.
func buildModel(symbols []string, snapshot Snapshot, estimator Estimator) *model {
	n := len(symbols)
	m := &model{
		symbols: symbols,
		returns: make([]float64, n),
		vols:    make([]float64, n),
		corr:    make([][]float64, n),
		cov:     make([][]float64, n),
		sigma:   mat.NewSymDense(n, nil),
	}

	for i, symbol := range symbols {
		est := estimator.Estimate(symbol, snapshot[symbol])
		m.returns[i] = est.ExpectedReturn
		m.vols[i] = est.Volatility
	}

	for i := range symbols {
		m.corr[i] = make([]float64, n)
		m.cov[i] = make([]float64, n)
		for j := range symbols {
			var c float64
			if i == j {
				c = 1
			} else {
				c = estimator.Correlation(snapshot[symbols[i]], snapshot[symbols[j]])
			}
			m.corr[i][j] = c
			m.cov[i][j] = c * m.vols[i] * m.vols[j]
			if j >= i {
				m.sigma.SetSym(i, j, m.cov[i][j])
			}
		}
	}
	return m
}

// portfolioVariance is w' * Cov * w.
func (m *model) portfolioVariance(weights []float64) float64 {
	w := mat.NewVecDense(len(weights), weights)
	return mat.Inner(w, m.sigma, w)
}

// covTimesWeights is the vector (Cov * w), used for risk contributions.
func (m *model) covTimesWeights(weights []float64) []float64 {
	var out mat.VecDense
	out.MulVec(m.sigma, mat.NewVecDense(len(weights), weights))

	result := make([]float64, len(weights))
	copy(result, out.RawVector().Data)
	return result
}
