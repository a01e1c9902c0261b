package stats

import "math"

// method wraps the functional parameters used by a non-linear root-finding
// step.
type method func(x float64, fx, dfx func(float64) float64) float64

// newtonRaphson performs the original method by Newton/Raphson.
func newtonRaphson(x float64, fx, dfx func(float64) float64) float64 {
	return x - fx(x)/dfx(x)
}

// finder drives an iterative root search for the function whose regularized
// incomplete beta value is pinned by a Poisson interval edge.
type finder struct {
	fx, dfx func(x float64) float64
	method  method

	xMin, xMax float64

	minIterations   int
	maxIterations   int
	targetPrecision float64
	useHeuristics   bool
}

type finderOption func(*finder)

func withLimits(xMin, xMax float64) finderOption {
	return func(f *finder) { f.xMin, f.xMax = xMin, xMax }
}

func withHeuristics() finderOption {
	return func(f *finder) { f.useHeuristics = true }
}

// find performs a non-linear iterative root-finding using the supplied
// functional options.
func find(fx, dfx func(x float64) float64, xInit float64, options ...finderOption) float64 {
	obj := &finder{
		fx:     fx,
		dfx:    dfx,
		method: newtonRaphson,

		xMin: -math.MaxFloat64,
		xMax: math.MaxFloat64,

		minIterations:   5,
		maxIterations:   25,
		targetPrecision: 1e-9,
	}

	for _, option := range options {
		option(obj)
	}

	return obj.loop(xInit)
}

func (f *finder) loop(xInit float64) float64 {
	x := xInit
	nIter := 0
	resultLookup := make(map[float64]struct{})

	for {
		xNew := f.method(x, f.fx, f.dfx)

		if !math.IsInf(xNew, 0) {
			if xNew > f.xMax {
				x = 0.5 * (x + f.xMax)
				continue
			} else if xNew < f.xMin {
				x = 0.5 * (x + f.xMin)
				continue
			}
		}

		if math.IsNaN(xNew) {
			return math.NaN()
		}

		if f.useHeuristics {
			if math.IsInf(xNew, 0) {
				if math.IsInf(xNew, 1) {
					x += 0.1*x + 0.1
				} else {
					x -= 0.1*x - 0.1
				}
				continue
			}

			if math.Abs(xNew-x) > 1e-15 {
				if _, alreadySeen := resultLookup[xNew]; alreadySeen {
					if xNew != x {
						x = (xNew + x) / 2.
					} else {
						x += 0.1*x + 0.1
					}
					continue
				}
				resultLookup[xNew] = struct{}{}
			}
		}

		x = xNew
		nIter++

		if nIter >= f.minIterations {
			if math.Abs(f.fx(x)) < f.targetPrecision || nIter >= f.maxIterations {
				break
			}
		}
	}

	return x
}

// bisect performs a bracketed bisection of fx between aInit and bInit. The
// interval-edge searches in poisson.go fall back to it when the Newton
// search returns NaN.
func bisect(fx func(x float64) float64, aInit, bInit float64) float64 {
	const (
		tolerance = 1e-11
		maxIter   = 100
	)

	a, b := aInit, bInit
	for i := 0; i < maxIter; i++ {
		c := (a + b) / 2.

		fxVal := fx(c)
		if fxVal == 0 || (b-a)/2. < tolerance {
			return c
		}

		if sign(fxVal) == sign(fx(a)) {
			a = c
		} else {
			b = c
		}
	}

	return math.NaN()
}
