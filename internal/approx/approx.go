// Package approx provides the tolerance-comparison helpers the
// round-trip and accuracy tests in laplace and stokes need: complex
// expansion coefficients and relative L2 error between a direct
// evaluation and its FMM approximation. Adapted from the teacher's
// lib/eq package, which does the same job for []float64/[][3]float64
// arrays with an exact or epsilon-bounded comparison; here the
// comparisons are against complex128 slices and against a relative
// (not absolute) error, since truncation error in spec.md scenarios
// S1/S2 is specified as relative.
package approx

import (
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// ComplexSlices reports whether x and y have the same length and are
// within eps of each other entrywise, by complex modulus.
func ComplexSlices(x, y []complex128, eps float64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if cmplx.Abs(x[i]-y[i]) > eps {
			return false
		}
	}
	return true
}

// RelativeL2 returns the relative L2 error between got and want:
// ||got - want|| / ||want||. Used by the S1/S2 scenario tests to check
// FMM-evaluated potentials against a direct sum to within 1e-3/1e-6.
func RelativeL2(got, want []float64) float64 {
	den := floats.Norm(want, 2)
	if den == 0 {
		return 0
	}
	return floats.Distance(got, want, 2) / den
}
