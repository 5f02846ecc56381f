// Package harmonic evaluates the solid spherical harmonics
// r^n Y_n^m(alpha,beta) ("inner", used by multipole expansions) and
// r^{-n-1} Y_n^m ("outer", used by local expansions), along with their
// alpha-derivatives, via the associated-Legendre recurrence
// SphericalLaplaceKernel::evalMultipole/evalLocal use. coeffs.Tables
// supplies the normalization (prefactor) these recurrences are scaled by.
package harmonic

import (
	"math"
	"math/cmplx"

	"github.com/phil-mansfield/fmm3d"
	"github.com/phil-mansfield/fmm3d/coeffs"
)

// CartToSph converts a Cartesian offset into the (rho, alpha, beta)
// spherical coordinates the kernels are evaluated in, following
// SphericalLaplaceKernel::cart2sph exactly: rho is floored at eps so a
// body at the expansion center never divides by zero, and beta takes
// the on-axis convention phi=0 whenever |x|+|y| < eps rather than the
// atan2 value, which the traversal relies on to stay singularity-free.
func CartToSph(dist fmm3d.Point, eps float64) (rho, alpha, beta float64) {
	rho = math.Sqrt(dist.X*dist.X+dist.Y*dist.Y+dist.Z*dist.Z) + eps
	alpha = math.Acos(dist.Z / rho)
	switch {
	case math.Abs(dist.X)+math.Abs(dist.Y) < eps:
		beta = 0
	case math.Abs(dist.X) < eps:
		beta = math.Copysign(math.Pi/2, dist.Y)
	case dist.X > 0:
		beta = math.Atan(dist.Y / dist.X)
	default:
		beta = math.Atan(dist.Y/dist.X) + math.Pi
	}
	return rho, alpha, beta
}

// SphToCart applies the spherical-to-Cartesian Jacobian to a
// (d/drho, d/dalpha, d/dbeta) gradient triple, the free function
// template sph2cart specializes on in the reference.
func SphToCart(r, theta, phi float64, spherical [3]float64) [3]float64 {
	sinT, cosT := math.Sincos(theta)
	sinP, cosP := math.Sincos(phi)
	return [3]float64{
		sinT*cosP*spherical[0] + cosT*cosP/r*spherical[1] - sinP/r/sinT*spherical[2],
		sinT*sinP*spherical[0] + cosT*sinP/r*spherical[1] + cosP/r/sinT*spherical[2],
		cosT*spherical[0] - sinT/r*spherical[1],
	}
}

// EvalMultipole fills Ynm and YnmTheta (each must have length at least
// 4*tables.P*tables.P) with r^n Y_n^m(alpha,beta) and its
// alpha-derivative for 0 <= m <= n < tables.P, with negative-m entries
// set by conjugate symmetry, matching
// SphericalLaplaceKernel::evalMultipole.
func EvalMultipole(rho, alpha, beta float64, tables *coeffs.Tables, Ynm, YnmTheta []complex128) {
	evalHarmonic(rho, alpha, beta, tables.P, false, tables.Prefactor, Ynm, YnmTheta)
}

// EvalLocal fills Ynm and YnmTheta the same way as EvalMultipole but
// for r^{-n-1} Y_n^m, 0 <= m <= n < 2*tables.P, matching
// SphericalLaplaceKernel::evalLocal. The doubled degree is what M2L's
// convolution of two order-P expansions needs.
func EvalLocal(rho, alpha, beta float64, tables *coeffs.Tables, Ynm, YnmTheta []complex128) {
	evalHarmonic(rho, alpha, beta, 2*tables.P, true, tables.Prefactor, Ynm, YnmTheta)
}

// evalHarmonic is the shared associated-Legendre recurrence behind
// EvalMultipole (outer=false, rho^n growing outward) and EvalLocal
// (outer=true, rho^{-n-1} decaying outward). nmax is the exclusive
// degree bound: P for the inner form, 2P for the outer form.
func evalHarmonic(rho, alpha, beta float64, nmax int, outer bool, prefactor []float64, Ynm, YnmTheta []complex128) {
	x := math.Cos(alpha)
	y := math.Sin(alpha)
	fact := 1.0
	pn := 1.0
	var rhom float64
	if outer {
		rhom = 1.0 / rho
	} else {
		rhom = 1.0
	}
	for m := 0; m < nmax; m++ {
		eim := cmplx.Exp(complex(0, float64(m)*beta))
		p := pn
		npn := coeffs.Index(m, m)
		nmn := coeffs.Index(m, -m)
		Ynm[npn] = complex(rhom*p*prefactor[npn], 0) * eim
		Ynm[nmn] = cmplx.Conj(Ynm[npn])
		p1 := p
		p = x * (2*float64(m) + 1) * p1
		YnmTheta[npn] = complex(rhom*(p-(float64(m)+1)*x*p1)/y*prefactor[npn], 0) * eim
		if outer {
			rhom /= rho
		} else {
			rhom *= rho
		}
		rhon := rhom
		for n := m + 1; n < nmax; n++ {
			npm := coeffs.Index(n, m)
			nmm := coeffs.Index(n, -m)
			Ynm[npm] = complex(rhon*p*prefactor[npm], 0) * eim
			Ynm[nmm] = cmplx.Conj(Ynm[npm])
			p2 := p1
			p1 = p
			p = (x*(2*float64(n)+1)*p1 - float64(n+m)*p2) / float64(n-m+1)
			YnmTheta[npm] = complex(rhon*(float64(n-m+1)*p-float64(n+1)*x*p1)/y*prefactor[npm], 0) * eim
			if outer {
				rhon /= rho
			} else {
				rhon *= rho
			}
		}
		pn = -pn * fact * y
		fact += 2
	}
}
