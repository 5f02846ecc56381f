// Package laplace implements the seven translation operators of the FMM
// core specialized for the Laplace (1/r) potential: P2M, M2M, M2L, M2P,
// L2L, L2P and the direct P2P, specified in terms of spherical-harmonic
// multipole and local expansions. Every operator here is grounded
// directly on SphericalLaplaceKernel's P2M/M2M/M2L/M2P/L2L/L2P/P2P
// methods in the original_source reference, translated into exported
// functions on a Kernel value rather than methods mutating shared state
// on a cell object.
//
// Multipole and Local expansions store coefficients for 0 <= m <= n < P
// only (struct-of-array-by-degree, flattened with the same n*(n+1)/2+m
// packing the reference uses for its M/L arrays); negative-m
// coefficients are recovered by conjugate symmetry inside each operator
// exactly where the reference needs them, rather than stored twice.
package laplace

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/fmm3d"
	"github.com/phil-mansfield/fmm3d/coeffs"
	"github.com/phil-mansfield/fmm3d/harmonic"
)

// Multipole is a truncated outgoing (multipole) expansion centered on a
// box. Coef has length P(P+1)/2, indexed by nmsIndex(n,m) for
// 0 <= m <= n < P. RMax tracks the farthest body (or, after M2M, the
// farthest translated child) the expansion has absorbed, the input
// RCrit needs.
type Multipole struct {
	Coef []complex128
	RMax float64
}

// Local is a truncated incoming (local) expansion centered on a box.
// Coef has the same shape as Multipole.Coef.
type Local struct {
	Coef []complex128
}

// Target accumulates a P2P/M2P/L2P field evaluation at one point:
// potential and the Cartesian force/velocity gradient, matching a
// Body's TRG = {potential, f_x, f_y, f_z} in spec.md §3.
type Target struct {
	Potential, Fx, Fy, Fz float64
}

// Body is an immutable source: a position and a scalar charge
// (spec.md's source-weight s).
type Body struct {
	Point  fmm3d.Point
	Charge float64
}

// RCrit returns min(boxRadius, m.RMax), spec.md §4.5's RCRIT: the
// radius M2M uses to decide how far a child's expansion reaches past
// its own box when folding it into the parent's RMax.
func (m *Multipole) RCrit(boxRadius float64) float64 {
	if boxRadius < m.RMax {
		return boxRadius
	}
	return m.RMax
}

// Kernel holds the coefficient tables and numerical constants every
// translation operator shares; it is built once and is safe for
// concurrent use by the const operators (M2L, M2P, P2P, L2L, L2P) per
// spec.md §5, provided callers serialize P2M/M2M writes to the same
// target expansion.
type Kernel struct {
	cfg    *fmm3d.KernelConfig
	tables *coeffs.Tables
}

// NewKernel builds a Kernel for cfg, precomputing its coefficient
// tables. It returns fmm3d.ErrInvalidOrder if cfg.P < 1.
func NewKernel(cfg *fmm3d.KernelConfig) (*Kernel, error) {
	if cfg.P < 1 {
		return nil, fmm3d.ErrInvalidOrder
	}
	return &Kernel{cfg: cfg, tables: coeffs.NewTables(cfg.P, cfg.EPS)}, nil
}

// Order returns the expansion order P the kernel was built with.
func (k *Kernel) Order() int { return k.tables.P }

// Tables returns the kernel's precomputed coefficient tables. Exposed
// for packages - stokes, specifically - that build on top of this
// kernel's translation operators but need direct harmonic evaluation
// of their own for kernel-specific P2M/M2P/L2P combinations, rather
// than recomputing an identical table set of their own.
func (k *Kernel) Tables() *coeffs.Tables { return k.tables }

// Config returns the kernel's KernelConfig.
func (k *Kernel) Config() *fmm3d.KernelConfig { return k.cfg }

// NewMultipole returns a zeroed Multipole sized for this kernel's
// order, the role init_multipole plays in spec.md §6.
func (k *Kernel) NewMultipole() *Multipole {
	return &Multipole{Coef: make([]complex128, nmsLen(k.tables.P))}
}

// NewLocal returns a zeroed Local sized for this kernel's order.
func (k *Kernel) NewLocal() *Local {
	return &Local{Coef: make([]complex128, nmsLen(k.tables.P))}
}

func nmsLen(p int) int { return p * (p + 1) / 2 }

// nmsIndex flattens (n,m), 0 <= m <= n, into Multipole/Local storage
// order.
func nmsIndex(n, m int) int { return n*(n+1)/2 + m }

func oddeven(n int) float64 {
	if n&1 == 1 {
		return -1
	}
	return 1
}

func iabs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func newHarmonicBuffers(p int) (Ynm, YnmTheta []complex128) {
	n := 4 * p * p
	return make([]complex128, n), make([]complex128, n)
}

// P2M accumulates source into the multipole expansion M of the box
// centered at center, and updates M.RMax with source's distance from
// center, matching SphericalLaplaceKernel::P2M. The conjugated azimuth
// (-beta) keeps M in the same basis M2M/M2L expect it in.
func (k *Kernel) P2M(source Body, center fmm3d.Point, M *Multipole) {
	P := k.tables.P
	dist := r3.Sub(source.Point, center)
	if R := r3.Norm(dist); R > M.RMax {
		M.RMax = R
	}
	rho, alpha, beta := harmonic.CartToSph(dist, k.cfg.EPS)
	Ynm, YnmTheta := newHarmonicBuffers(P)
	harmonic.EvalMultipole(rho, alpha, -beta, k.tables, Ynm, YnmTheta)
	charge := complex(source.Charge, 0)
	for n := 0; n < P; n++ {
		for m := 0; m <= n; m++ {
			M.Coef[nmsIndex(n, m)] += charge * Ynm[coeffs.Index(n, m)]
		}
	}
}

// M2M translates mChild, a multipole centered at a child box of radius
// childRadius, into mParent, accumulating its contribution there.
// translation is center_parent - center_child. Matches
// SphericalLaplaceKernel::M2M, including the child/parent split at
// m=k that switches between mChild and its conjugate.
func (k *Kernel) M2M(mChild *Multipole, childRadius float64, mParent *Multipole, translation fmm3d.Point) {
	P := k.tables.P
	tables := k.tables
	if R := r3.Norm(translation) + mChild.RCrit(childRadius); R > mParent.RMax {
		mParent.RMax = R
	}
	rho, alpha, beta := harmonic.CartToSph(translation, k.cfg.EPS)
	Ynm, YnmTheta := newHarmonicBuffers(P)
	harmonic.EvalMultipole(rho, alpha, -beta, tables, Ynm, YnmTheta)
	for j := 0; j < P; j++ {
		for kk := 0; kk <= j; kk++ {
			jk := coeffs.Index(j, kk)
			var M complex128
			for n := 0; n <= j; n++ {
				mHi := kk - 1
				if n < mHi {
					mHi = n
				}
				for m := -n; m <= mHi; m++ {
					if j-n >= kk-m {
						jnkm := coeffs.Index(j-n, kk-m)
						jnkms := nmsIndex(j-n, kk-m)
						nm := coeffs.Index(n, m)
						M += mChild.Coef[jnkms] * cmplx.Pow(complex(0, 1), complex(float64(m-iabs(m)), 0)) *
							Ynm[nm] * complex(oddeven(n)*tables.Anm[nm]*tables.Anm[jnkm]/tables.Anm[jk], 0)
					}
				}
				for m := kk; m <= n; m++ {
					if j-n >= m-kk {
						jnkm := coeffs.Index(j-n, kk-m)
						jnkms := nmsIndex(j-n, m-kk)
						nm := coeffs.Index(n, m)
						M += cmplx.Conj(mChild.Coef[jnkms]) * Ynm[nm] *
							complex(oddeven(kk+n+m)*tables.Anm[nm]*tables.Anm[jnkm]/tables.Anm[jk], 0)
					}
				}
			}
			mParent.Coef[nmsIndex(j, kk)] += M * complex(k.cfg.EPS, 0)
		}
	}
}

// M2L translates mSource, a multipole centered at a well-separated box,
// into an addend on lTarget, a local expansion centered at translation
// = center_target - center_source - Xperiodic away. Matches
// SphericalLaplaceKernel::M2L, using the degree-2P outer harmonics and
// the precomputed Cnm coupling tensor.
func (k *Kernel) M2L(mSource *Multipole, lTarget *Local, translation fmm3d.Point) {
	P := k.tables.P
	tables := k.tables
	rho, alpha, beta := harmonic.CartToSph(translation, k.cfg.EPS)
	Ynm, YnmTheta := newHarmonicBuffers(P)
	harmonic.EvalLocal(rho, alpha, beta, tables, Ynm, YnmTheta)
	for j := 0; j < P; j++ {
		for kk := 0; kk <= j; kk++ {
			var L complex128
			for n := 0; n < P; n++ {
				for m := -n; m < 0; m++ {
					nms := nmsIndex(n, -m)
					jknm := coeffs.CnmIndex(P, j, kk, n, m)
					jnkm := coeffs.Index(j+n, m-kk)
					L += cmplx.Conj(mSource.Coef[nms]) * tables.Cnm[jknm] * Ynm[jnkm]
				}
				for m := 0; m <= n; m++ {
					nms := nmsIndex(n, m)
					jknm := coeffs.CnmIndex(P, j, kk, n, m)
					jnkm := coeffs.Index(j+n, m-kk)
					L += mSource.Coef[nms] * tables.Cnm[jknm] * Ynm[jnkm]
				}
			}
			lTarget.Coef[nmsIndex(j, kk)] += L
		}
	}
}

// M2P evaluates the field M induces, centered at center, at target and
// returns it as a Target to be added into the target body's
// accumulator. Applies the kernel's Xperiodic shift, matching
// SphericalLaplaceKernel::M2P's dist = B->X - Cj->X - Xperiodic.
func (k *Kernel) M2P(M *Multipole, center, target fmm3d.Point) Target {
	P := k.tables.P
	dist := r3.Sub(r3.Sub(target, center), k.cfg.Xperiodic)
	r, theta, phi := harmonic.CartToSph(dist, k.cfg.EPS)
	Ynm, YnmTheta := newHarmonicBuffers(P)
	harmonic.EvalLocal(r, theta, phi, k.tables, Ynm, YnmTheta)

	var result Target
	var spherical [3]float64
	for n := 0; n < P; n++ {
		nm := coeffs.Index(n, 0)
		nms := nmsIndex(n, 0)
		result.Potential += real(M.Coef[nms] * Ynm[nm])
		spherical[0] -= real(M.Coef[nms]*Ynm[nm]) / r * float64(n+1)
		spherical[1] += real(M.Coef[nms] * YnmTheta[nm])
		for m := 1; m <= n; m++ {
			nm := coeffs.Index(n, m)
			nms := nmsIndex(n, m)
			result.Potential += 2 * real(M.Coef[nms]*Ynm[nm])
			spherical[0] -= 2 * real(M.Coef[nms]*Ynm[nm]) / r * float64(n+1)
			spherical[1] += 2 * real(M.Coef[nms] * YnmTheta[nm])
			spherical[2] += 2 * real(M.Coef[nms]*Ynm[nm]*complex(0, 1)) * float64(m)
		}
	}
	cartesian := harmonic.SphToCart(r, theta, phi, spherical)
	result.Fx += cartesian[0]
	result.Fy += cartesian[1]
	result.Fz += cartesian[2]
	return result
}

// L2L translates lParent, a local expansion, into an addend on lChild,
// centered translation = center_child - center_parent away. Matches
// SphericalLaplaceKernel::L2L.
func (k *Kernel) L2L(lParent *Local, lChild *Local, translation fmm3d.Point) {
	P := k.tables.P
	tables := k.tables
	rho, alpha, beta := harmonic.CartToSph(translation, k.cfg.EPS)
	Ynm, YnmTheta := newHarmonicBuffers(P)
	harmonic.EvalMultipole(rho, alpha, beta, tables, Ynm, YnmTheta)
	for j := 0; j < P; j++ {
		for kk := 0; kk <= j; kk++ {
			jk := coeffs.Index(j, kk)
			var L complex128
			for n := j; n < P; n++ {
				for m := j + kk - n; m < 0; m++ {
					jnkm := coeffs.Index(n-j, m-kk)
					nm := coeffs.Index(n, -m)
					nms := nmsIndex(n, -m)
					L += cmplx.Conj(lParent.Coef[nms]) * Ynm[jnkm] *
						complex(oddeven(kk)*tables.Anm[jnkm]*tables.Anm[jk]/tables.Anm[nm], 0)
				}
				for m := 0; m <= n; m++ {
					if n-j >= iabs(m-kk) {
						jnkm := coeffs.Index(n-j, m-kk)
						nm := coeffs.Index(n, m)
						nms := nmsIndex(n, m)
						exp := float64(m - kk - iabs(m-kk))
						L += lParent.Coef[nms] * cmplx.Pow(complex(0, 1), complex(exp, 0)) * Ynm[jnkm] *
							complex(tables.Anm[jnkm], 0) * complex(tables.Anm[jk], 0) / complex(tables.Anm[nm], 0)
					}
				}
			}
			lChild.Coef[nmsIndex(j, kk)] += L * complex(k.cfg.EPS, 0)
		}
	}
}

// L2P evaluates the field L induces, centered at center, at target and
// returns it as a Target. Gradient sign is +n/r rather than M2P's
// -(n+1)/r, matching SphericalLaplaceKernel::L2P. Unlike M2P, no
// Xperiodic shift applies: a local expansion is only ever evaluated at
// targets inside its own (non-periodic-image) box.
func (k *Kernel) L2P(L *Local, center, target fmm3d.Point) Target {
	P := k.tables.P
	dist := r3.Sub(target, center)
	r, theta, phi := harmonic.CartToSph(dist, k.cfg.EPS)
	Ynm, YnmTheta := newHarmonicBuffers(P)
	harmonic.EvalMultipole(r, theta, phi, k.tables, Ynm, YnmTheta)

	var result Target
	var spherical [3]float64
	for n := 0; n < P; n++ {
		nm := coeffs.Index(n, 0)
		nms := nmsIndex(n, 0)
		result.Potential += real(L.Coef[nms] * Ynm[nm])
		spherical[0] += real(L.Coef[nms]*Ynm[nm]) / r * float64(n)
		spherical[1] += real(L.Coef[nms] * YnmTheta[nm])
		for m := 1; m <= n; m++ {
			nm := coeffs.Index(n, m)
			nms := nmsIndex(n, m)
			result.Potential += 2 * real(L.Coef[nms]*Ynm[nm])
			spherical[0] += 2 * real(L.Coef[nms]*Ynm[nm]) / r * float64(n)
			spherical[1] += 2 * real(L.Coef[nms] * YnmTheta[nm])
			spherical[2] += 2 * real(L.Coef[nms]*Ynm[nm]*complex(0, 1)) * float64(m)
		}
	}
	cartesian := harmonic.SphToCart(r, theta, phi, spherical)
	result.Fx += cartesian[0]
	result.Fy += cartesian[1]
	result.Fz += cartesian[2]
	return result
}

// P2P evaluates the direct Laplace potential and force every source in
// sources induces at every point in targets, adding into the matching
// entry of results. Self-interaction (a source coincident with a
// target) contributes zero, not NaN or Inf: invR2 is zeroed whenever
// the raw (pre-EPS2-floor) squared distance is exactly zero, rather
// than after the floor has already made it nonzero. Matches
// SphericalLaplaceKernel::P2P.
func (k *Kernel) P2P(sources []Body, targets []fmm3d.Point, results []Target) {
	eps2 := k.cfg.EPS2
	xp := k.cfg.Xperiodic
	for i, t := range targets {
		var p0 float64
		var f0 fmm3d.Point
		for _, s := range sources {
			dist := r3.Sub(r3.Sub(t, s.Point), xp)
			raw := r3.Dot(dist, dist)
			var invR2 float64
			if raw != 0 {
				invR2 = 1 / (raw + eps2)
			}
			invR := s.Charge * math.Sqrt(invR2)
			f0 = r3.Add(f0, r3.Scale(invR2*invR, dist))
			p0 += invR
		}
		results[i].Potential += p0
		results[i].Fx -= f0.X
		results[i].Fy -= f0.Y
		results[i].Fz -= f0.Z
	}
}
