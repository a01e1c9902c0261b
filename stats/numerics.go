// Package stats implements the confidence-interval support histogram bins
// need on top of their raw (count, variance) cells: the special functions
// behind the regularized incomplete beta function, a small root finder to
// invert it, and the Garwood/Clopper-Pearson interval built from both.
package stats

import "math"

func sign(x float64) int {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}

func lgamma(x float64) float64 {
	y, _ := math.Lgamma(x)
	return y
}

// beta returns the value of the complete beta function B(a, b).
func beta(a, b float64) float64 {
	return math.Exp(lgamma(a) + lgamma(b) - lgamma(a+b))
}

// betaIncompleteRegular returns the value of the regularized incomplete beta
// function Iₓ(a, b), the distribution function a Poisson confidence interval
// is inverted from. Returns NaN outside [0, 1].
func betaIncompleteRegular(x, a, b float64) float64 {
	// Numerical Recipes in C, section 6.4: the continued-fraction
	// definition of I, evaluated directly or after the symmetry transform
	// depending on which side of the interval converges faster.
	if x < 0 || x > 1 {
		return math.NaN()
	}
	bt := 0.0
	if 0 < x && x < 1 {
		bt = math.Exp(lgamma(a+b) - lgamma(a) - lgamma(b) +
			a*math.Log(x) + b*math.Log(1-x))
	}
	if x < (a+1)/(a+b+2) {
		return bt * betacf(x, a, b) / a
	}
	return 1 - bt*betacf(1-x, b, a)/b
}

// betaDensity returns d/dx Iₓ(a, b), the derivative the Newton-Raphson step
// in root.go uses to invert the regularized incomplete beta function for a
// confidence-interval edge.
func betaDensity(x, a, b float64) float64 {
	if x <= 0 || x >= 1 {
		return 0
	}
	return math.Exp((a-1)*math.Log(x) + (b-1)*math.Log(1-x) - lgamma(a) - lgamma(b) + lgamma(a+b))
}

////////////////////////////////////////////////////////////////////////////////

const (
	betaEpsilon       = 3e-14
	betaMaxIterations = 200
)

// smallestNonZero avoids division by zero from numeric fluctuation.
func smallestNonZero(val float64) float64 {
	if math.Abs(val) < math.SmallestNonzeroFloat64 {
		return math.SmallestNonzeroFloat64
	}
	return val
}

// betacf is the continued-fraction component of the regularized incomplete
// beta function Iₓ(a, b), per Numerical Recipes in C, 2nd ed., §6.4.
func betacf(x, a, b float64) float64 {
	c := 1.0
	d := 1.0 / smallestNonZero(1.0-(a+b)*x/(a+1.0))
	h := d
	for m := 1; m <= betaMaxIterations; m++ {
		mf := float64(m)

		numer := mf * (b - mf) * x / ((a + 2.0*mf - 1.0) * (a + 2.0*mf))
		d = 1 / smallestNonZero(1+numer*d)
		c = smallestNonZero(1 + numer/c)
		h *= d * c

		numer = -(a + mf) * (a + b + mf) * x / ((a + 2*mf) * (a + 2.0*mf + 1.0))
		d = 1 / smallestNonZero(1+numer*d)
		c = smallestNonZero(1 + numer/c)
		hfac := d * c
		h *= hfac

		if math.Abs(hfac-1) < betaEpsilon {
			return h
		}
	}

	return math.NaN()
}
