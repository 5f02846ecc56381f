// Package stokes wraps four laplace.Kernel expansions into the Stokes
// flow kernel spec.md §4.6 describes: a Multipole/Local pair is four
// Laplace expansions (M_0..M_2 carrying the force/stresslet components,
// M_3 carrying their dotted-with-position correction), translated by
// delegating componentwise to laplace.Kernel's M2M/M2L/L2L, with P2M and
// M2P/L2P carrying the kernel-specific gradient combinations that turn
// four scalar potentials into a velocity. Grounded on
// StokesSpherical.hpp's two charge_type specializations (undirected
// Stokeslet force vs. Stresslet (g,n) pair), modeled here as a runtime
// Mode rather than a compile-time #ifdef, per spec.md §9.
package stokes

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/fmm3d"
	"github.com/phil-mansfield/fmm3d/coeffs"
	"github.com/phil-mansfield/fmm3d/harmonic"
	"github.com/phil-mansfield/fmm3d/laplace"
)

// Mode selects which of StokesSpherical.hpp's two charge_type
// specializations a Kernel evaluates. It is a runtime field rather than
// a build-time flag, so a single binary can construct both a Stokeslet
// and a Stresslet kernel side by side.
type Mode int

const (
	// Stokeslet charges carry a point force; Charge.F is used, Charge.G
	// and Charge.N are ignored.
	Stokeslet Mode = iota
	// Stresslet charges carry a (surface-element, normal) pair;
	// Charge.G and Charge.N are used, Charge.F is ignored.
	Stresslet
)

// Charge is a source weight for one of the two modes. Which fields
// matter depends on the Kernel's Mode.
type Charge struct {
	F fmm3d.Point // Stokeslet point force.
	G fmm3d.Point // Stresslet surface element.
	N fmm3d.Point // Stresslet surface normal.
}

// Result is the velocity a P2P/M2P/L2P evaluation induces at a target.
type Result struct {
	Ux, Uy, Uz float64
}

// Multipole is a Stokes multipole expansion: four Laplace multipoles,
// Lap[0..2] carrying the force/stresslet components and Lap[3] carrying
// their position-weighted correction, matching StokesSpherical.hpp's
// M[4] array of sub-expansions.
type Multipole struct {
	Lap [4]*laplace.Multipole
}

// Local is a Stokes local expansion, shaped like Multipole.
type Local struct {
	Lap [4]*laplace.Local
}

// Kernel evaluates one Stokes mode by delegating translations to an
// embedded laplace.Kernel and handling P2M/M2P/L2P itself, since those
// three combine the four sub-expansions' fields into a velocity rather
// than translating them independently.
type Kernel struct {
	mode Mode
	lap  *laplace.Kernel
}

// NewKernel builds a Kernel for cfg in the given mode, precomputing the
// coefficient tables its embedded laplace.Kernel needs. It returns
// fmm3d.ErrInvalidOrder if cfg.P < 1.
func NewKernel(cfg *fmm3d.KernelConfig, mode Mode) (*Kernel, error) {
	lap, err := laplace.NewKernel(cfg)
	if err != nil {
		return nil, err
	}
	return &Kernel{mode: mode, lap: lap}, nil
}

// Mode returns the kernel's charge mode.
func (k *Kernel) Mode() Mode { return k.mode }

// Order returns the expansion order P the kernel was built with.
func (k *Kernel) Order() int { return k.lap.Order() }

// NewMultipole returns a zeroed Multipole sized for this kernel's order.
func (k *Kernel) NewMultipole() *Multipole {
	var m Multipole
	for i := range m.Lap {
		m.Lap[i] = k.lap.NewMultipole()
	}
	return &m
}

// NewLocal returns a zeroed Local sized for this kernel's order.
func (k *Kernel) NewLocal() *Local {
	var l Local
	for i := range l.Lap {
		l.Lap[i] = k.lap.NewLocal()
	}
	return &l
}

// P2M accumulates source (at position src, weighted by charge) into M,
// the multipole expansion of the box centered at center. Matches
// StokesSpherical.hpp's two P2M specializations, selected by k.mode.
func (k *Kernel) P2M(src fmm3d.Point, charge Charge, center fmm3d.Point, M *Multipole) {
	switch k.mode {
	case Stresslet:
		k.p2mStresslet(src, charge, center, M)
	default:
		k.p2mStokeslet(src, charge, center, M)
	}
}

func (k *Kernel) p2mStokeslet(src fmm3d.Point, charge Charge, center fmm3d.Point, M *Multipole) {
	P := k.lap.Order()
	tables := k.lap.Tables()
	eps := k.lap.Config().EPS
	dist := r3.Sub(src, center)
	if R := r3.Norm(dist); R > M.Lap[0].RMax {
		for i := range M.Lap {
			M.Lap[i].RMax = R
		}
	}
	rho, alpha, beta := harmonic.CartToSph(dist, eps)
	Ynm, YnmTheta := newBuffers(P)
	harmonic.EvalMultipole(rho, alpha, -beta, tables, Ynm, YnmTheta)

	f := [3]float64{charge.F.X, charge.F.Y, charge.F.Z}
	fdotx := charge.F.X*src.X + charge.F.Y*src.Y + charge.F.Z*src.Z
	for n := 0; n < P; n++ {
		for m := 0; m <= n; m++ {
			nm := coeffs.Index(n, m)
			nms := nmsIndex(n, m)
			y := Ynm[nm]
			M.Lap[0].Coef[nms] += complex(f[0], 0) * y
			M.Lap[1].Coef[nms] += complex(f[1], 0) * y
			M.Lap[2].Coef[nms] += complex(f[2], 0) * y
			M.Lap[3].Coef[nms] += complex(fdotx, 0) * y
		}
	}
}

func (k *Kernel) p2mStresslet(src fmm3d.Point, charge Charge, center fmm3d.Point, M *Multipole) {
	P := k.lap.Order()
	tables := k.lap.Tables()
	eps := k.lap.Config().EPS
	dist := r3.Sub(src, center)
	if R := r3.Norm(dist); R > M.Lap[0].RMax {
		for i := range M.Lap {
			M.Lap[i].RMax = R
		}
	}
	rho, alpha, beta := harmonic.CartToSph(dist, eps)
	Ynm, YnmTheta := newBuffers(P)
	harmonic.EvalMultipole(rho, alpha, -beta, tables, Ynm, YnmTheta)

	g := [3]float64{charge.G.X, charge.G.Y, charge.G.Z}
	n := [3]float64{charge.N.X, charge.N.Y, charge.N.Z}
	xdotg := charge.G.X*src.X + charge.G.Y*src.Y + charge.G.Z*src.Z
	ndotx := charge.N.X*src.X + charge.N.Y*src.Y + charge.N.Z*src.Z
	sinA, cosA := math.Sincos(alpha)
	sinB, cosB := math.Sincos(beta)
	for deg := 0; deg < P; deg++ {
		for m := 0; m <= deg; m++ {
			nm := coeffs.Index(deg, m)
			nms := nmsIndex(deg, m)
			y := Ynm[nm]
			brh := complex(float64(deg)/rho, 0) * y
			bal := YnmTheta[nm]
			bbe := complex(0, -float64(m)) * y
			bxd := real(complex(sinA*cosB, 0)*brh + complex(cosA*cosB/rho, 0)*bal - complex(sinB/rho/sinA, 0)*bbe)
			byd := real(complex(sinA*sinB, 0)*brh + complex(cosA*sinB/rho, 0)*bal + complex(cosB/rho/sinA, 0)*bbe)
			bzd := real(complex(cosA, 0)*brh - complex(sinA/rho, 0)*bal)

			rdotn := bxd*n[0] + byd*n[1] + bzd*n[2]
			rdotg := bxd*g[0] + byd*g[1] + bzd*g[2]
			M.Lap[0].Coef[nms] += complex(rdotn*g[0]+rdotg*n[0], 0)
			M.Lap[1].Coef[nms] += complex(rdotn*g[1]+rdotg*n[1], 0)
			M.Lap[2].Coef[nms] += complex(rdotn*g[2]+rdotg*n[2], 0)
			M.Lap[3].Coef[nms] += complex(rdotn*xdotg+rdotg*ndotx, 0)
		}
	}
}

// M2M translates mChild into mParent componentwise, delegating each of
// the four sub-expansions to the embedded laplace.Kernel's M2M.
func (k *Kernel) M2M(mChild *Multipole, childRadius float64, mParent *Multipole, translation fmm3d.Point) {
	for i := range mChild.Lap {
		k.lap.M2M(mChild.Lap[i], childRadius, mParent.Lap[i], translation)
	}
}

// M2L translates mSource into an addend on lTarget componentwise.
func (k *Kernel) M2L(mSource *Multipole, lTarget *Local, translation fmm3d.Point) {
	for i := range mSource.Lap {
		k.lap.M2L(mSource.Lap[i], lTarget.Lap[i], translation)
	}
}

// L2L translates lParent into an addend on lChild componentwise.
func (k *Kernel) L2L(lParent *Local, lChild *Local, translation fmm3d.Point) {
	for i := range lParent.Lap {
		k.lap.L2L(lParent.Lap[i], lChild.Lap[i], translation)
	}
}

// M2P evaluates the velocity M induces at target and returns it as a
// Result. Matches StokesSpherical.hpp's M2P: the same combination of the
// four sub-expansions' fields and gradients regardless of k.mode, since
// by the time a charge has been folded into M the mode-specific
// difference is already absorbed.
func (k *Kernel) M2P(M *Multipole, center, target fmm3d.Point) Result {
	P := k.lap.Order()
	tables := k.lap.Tables()
	eps := k.lap.Config().EPS
	dist := r3.Sub(target, center)
	r, theta, phi := harmonic.CartToSph(dist, eps)
	Ynm, YnmTheta := newBuffers(P)
	harmonic.EvalLocal(r, theta, phi, tables, Ynm, YnmTheta)

	var result [3]float64
	var gradient [4][3]float64
	for n := 0; n < P; n++ {
		nm := coeffs.Index(n, 0)
		nms := nmsIndex(n, 0)
		factor := float64(n+1) / r
		for i := 0; i < 3; i++ {
			result[i] += real(M.Lap[i].Coef[nms]*Ynm[nm]) / 6
		}
		for i := 0; i < 4; i++ {
			gradient[i][0] -= real(M.Lap[i].Coef[nms]*Ynm[nm]) * factor
			gradient[i][1] += real(M.Lap[i].Coef[nms] * YnmTheta[nm])
		}
		for m := 1; m <= n; m++ {
			nm := coeffs.Index(n, m)
			nms := nmsIndex(n, m)
			for i := 0; i < 3; i++ {
				result[i] += real(M.Lap[i].Coef[nms]*Ynm[nm]) / 3
			}
			for i := 0; i < 4; i++ {
				gradient[i][0] -= 2 * real(M.Lap[i].Coef[nms]*Ynm[nm]) * factor
				gradient[i][1] += 2 * real(M.Lap[i].Coef[nms] * YnmTheta[nm])
				gradient[i][2] += 2 * real(M.Lap[i].Coef[nms]*Ynm[nm]*complex(0, 1)) * float64(m)
			}
		}
	}
	cart := [4][3]float64{}
	for i := 0; i < 4; i++ {
		cart[i] = harmonic.SphToCart(r, theta, phi, gradient[i])
	}
	cart[0] = scale3(cart[0], -target.X)
	cart[1] = scale3(cart[1], -target.Y)
	cart[2] = scale3(cart[2], -target.Z)
	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			result[j] += cart[i][j] / 6
		}
	}
	return Result{Ux: result[0], Uy: result[1], Uz: result[2]}
}

// L2P evaluates the velocity L induces at target and returns it as a
// Result. Gradient sign and 1/r factor mirror laplace.Kernel.L2P's
// relationship to M2P, matching StokesSpherical.hpp's L2P.
func (k *Kernel) L2P(L *Local, center, target fmm3d.Point) Result {
	P := k.lap.Order()
	tables := k.lap.Tables()
	eps := k.lap.Config().EPS
	dist := r3.Sub(target, center)
	r, theta, phi := harmonic.CartToSph(dist, eps)
	Ynm, YnmTheta := newBuffers(P)
	harmonic.EvalMultipole(r, theta, phi, tables, Ynm, YnmTheta)

	var result [3]float64
	var gradient [4][3]float64
	for n := 0; n < P; n++ {
		nm := coeffs.Index(n, 0)
		nms := nmsIndex(n, 0)
		factor := float64(n) / r
		for i := 0; i < 3; i++ {
			result[i] += real(L.Lap[i].Coef[nms]*Ynm[nm]) / 6
		}
		for i := 0; i < 4; i++ {
			gradient[i][0] += real(L.Lap[i].Coef[nms]*Ynm[nm]) * factor
			gradient[i][1] += real(L.Lap[i].Coef[nms] * YnmTheta[nm])
		}
		for m := 1; m <= n; m++ {
			nm := coeffs.Index(n, m)
			nms := nmsIndex(n, m)
			for i := 0; i < 3; i++ {
				result[i] += real(L.Lap[i].Coef[nms]*Ynm[nm]) / 3
			}
			for i := 0; i < 4; i++ {
				gradient[i][0] += 2 * real(L.Lap[i].Coef[nms]*Ynm[nm]) * factor
				gradient[i][1] += 2 * real(L.Lap[i].Coef[nms] * YnmTheta[nm])
				gradient[i][2] += 2 * real(L.Lap[i].Coef[nms]*Ynm[nm]*complex(0, 1)) * float64(m)
			}
		}
	}
	cart := [4][3]float64{}
	for i := 0; i < 4; i++ {
		cart[i] = harmonic.SphToCart(r, theta, phi, gradient[i])
	}
	cart[0] = scale3(cart[0], -target.X)
	cart[1] = scale3(cart[1], -target.Y)
	cart[2] = scale3(cart[2], -target.Z)
	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			result[j] += cart[i][j] / 6
		}
	}
	return Result{Ux: result[0], Uy: result[1], Uz: result[2]}
}

// P2P evaluates the direct Stokes velocity every source in sources
// induces at every point in targets, adding into the matching entry of
// results. Matches StokesSpherical.hpp's two P2P specializations,
// selected by k.mode; self-interaction (and any pair closer than the
// eps2 threshold) is excluded by comparing the raw, unfloored squared
// distance against eps2 before ever taking its reciprocal, the same
// style of guard laplace.Kernel.P2P uses on its own raw distance.
func (k *Kernel) P2P(sources []fmm3d.Point, charges []Charge, targets []fmm3d.Point, results []Result) {
	eps2 := k.lap.Config().EPS2
	for i, t := range targets {
		var u fmm3d.Point
		for j, s := range sources {
			dist := r3.Sub(t, s)
			r2 := r3.Dot(dist, dist)
			var invR float64
			if r2 >= eps2 {
				invR = 1 / r2
			}
			switch k.mode {
			case Stresslet:
				u = r3.Add(u, stokesletStresslet(dist, r2, invR, charges[j]))
			default:
				u = r3.Add(u, stokesletStokeslet(dist, r2, invR, charges[j]))
			}
		}
		results[i].Ux += u.X
		results[i].Uy += u.Y
		results[i].Uz += u.Z
	}
}

func stokesletStokeslet(dist fmm3d.Point, r2, invR float64, charge Charge) fmm3d.Point {
	h := math.Sqrt(invR) * invR
	fdotx := charge.F.X*dist.X + charge.F.Y*dist.Y + charge.F.Z*dist.Z
	return fmm3d.NewPoint(
		h*(charge.F.X*r2+fdotx*dist.X),
		h*(charge.F.Y*r2+fdotx*dist.Y),
		h*(charge.F.Z*r2+fdotx*dist.Z),
	)
}

func stokesletStresslet(dist fmm3d.Point, r2, invR float64, charge Charge) fmm3d.Point {
	dxdotn := charge.N.X*dist.X + charge.N.Y*dist.Y + charge.N.Z*dist.Z
	h := math.Sqrt(invR) * invR * dxdotn * invR
	dxdotg := charge.G.X*dist.X + charge.G.Y*dist.Y + charge.G.Z*dist.Z
	return fmm3d.NewPoint(h*dist.X*dxdotg, h*dist.Y*dxdotg, h*dist.Z*dxdotg)
}

func scale3(v [3]float64, s float64) [3]float64 {
	return [3]float64{v[0] * s, v[1] * s, v[2] * s}
}

func nmsIndex(n, m int) int { return n*(n+1)/2 + m }

func newBuffers(p int) (Ynm, YnmTheta []complex128) {
	n := 4 * p * p
	return make([]complex128, n), make([]complex128, n)
}
