package stats

import "math"

// PoissonInterval returns the two-sided Garwood confidence interval for a
// Poisson count, at the given confidence level (e.g. 0.6827 for the
// customary "1 sigma" band). It is the standard way to attach an
// uncertainty to an unweighted histogram bin, where the per-bin variance
// equals the count itself.
//
// The edges are the values of the Poisson rate λ at which the observed
// count sits at the alpha/2 and 1-alpha/2 quantiles of the corresponding
// chi-squared distribution; both are expressed here via the regularized
// incomplete beta function, following the standard Poisson-gamma-beta
// relationship, and solved for with the root finder in root.go.
func PoissonInterval(count float64, confidence float64) (lo, hi float64) {
	if count < 0 {
		return math.NaN(), math.NaN()
	}
	alpha := 1 - confidence

	lo = poissonLowerEdge(count, alpha/2)
	hi = poissonUpperEdge(count, alpha/2)
	return lo, hi
}

// poissonLowerEdge solves Iₗₒ(count, 1) = 1 - p for the lower rate edge lo,
// where p = alpha/2. A zero count has no lower edge.
func poissonLowerEdge(count, p float64) float64 {
	if count == 0 {
		return 0
	}
	target := p
	fx := func(x float64) float64 { return betaIncompleteRegular(x, count, 1) - target }
	dfx := func(x float64) float64 { return betaDensity(x, count, 1) }

	x := find(fx, dfx, 0.5, withLimits(1e-12, 1-1e-12), withHeuristics())
	if math.IsNaN(x) {
		x = bisect(fx, 1e-12, 1-1e-12)
	}
	return x * count
}

// poissonUpperEdge solves Iᵤₚ(count+1, 1) = p for the upper rate edge, where
// p = alpha/2 measured from the top of the distribution.
func poissonUpperEdge(count, p float64) float64 {
	target := 1 - p
	fx := func(x float64) float64 { return betaIncompleteRegular(x, count+1, 1) - target }
	dfx := func(x float64) float64 { return betaDensity(x, count+1, 1) }

	x := find(fx, dfx, 0.5, withLimits(1e-12, 1-1e-12), withHeuristics())
	if math.IsNaN(x) {
		x = bisect(fx, 1e-12, 1-1e-12)
	}
	return x * (count + 1)
}

// NormalInterval returns the symmetric z*sigma interval appropriate for a
// weighted bin, whose accumulated sum_w^2 already holds the variance
// estimate that a Poisson assumption can't supply.
func NormalInterval(value, variance float64, z float64) (lo, hi float64) {
	sigma := math.Sqrt(variance)
	return value - z*sigma, value + z*sigma
}
