package stokes

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/phil-mansfield/fmm3d"
	"github.com/phil-mansfield/fmm3d/internal/approx"
)

func newKernel(t *testing.T, p int, mode Mode) *Kernel {
	cfg, err := fmm3d.NewKernelConfig(p)
	if err != nil {
		t.Fatalf("NewKernelConfig(%d) returned unexpected error: %v", p, err)
	}
	k, err := NewKernel(cfg, mode)
	if err != nil {
		t.Fatalf("NewKernel returned unexpected error: %v", err)
	}
	return k
}

// TestS4StokesletP2P covers spec.md §8 scenario S4: a Stokeslet force
// f=(1,0,0) at the origin, a target at (1,0,0), must produce velocity
// (2,0,0) (R=1, u_i = f_i/R + dist_i(f.dist)/R^3).
func TestS4StokesletP2P(t *testing.T) {
	k := newKernel(t, 6, Stokeslet)
	sources := []fmm3d.Point{fmm3d.NewPoint(0, 0, 0)}
	charges := []Charge{{F: fmm3d.NewPoint(1, 0, 0)}}
	targets := []fmm3d.Point{fmm3d.NewPoint(1, 0, 0)}
	results := make([]Result, 1)

	k.P2P(sources, charges, targets, results)

	want := Result{Ux: 2, Uy: 0, Uz: 0}
	if math.Abs(results[0].Ux-want.Ux) > 1e-12 ||
		math.Abs(results[0].Uy-want.Uy) > 1e-12 ||
		math.Abs(results[0].Uz-want.Uz) > 1e-12 {
		t.Errorf("velocity = %+v, want %+v", results[0], want)
	}
}

// TestP2PSelfInteractionIsZero covers invariant 8 for the Stokes
// wrapper: a source coincident with a target contributes zero.
func TestP2PSelfInteractionIsZero(t *testing.T) {
	for _, mode := range []Mode{Stokeslet, Stresslet} {
		k := newKernel(t, 4, mode)
		p := fmm3d.NewPoint(1, 2, 3)
		sources := []fmm3d.Point{p}
		charges := []Charge{{
			F: fmm3d.NewPoint(1, 1, 1),
			G: fmm3d.NewPoint(1, 0, 0),
			N: fmm3d.NewPoint(0, 1, 0),
		}}
		targets := []fmm3d.Point{p}
		results := make([]Result, 1)
		k.P2P(sources, charges, targets, results)

		if math.IsNaN(results[0].Ux) || math.IsInf(results[0].Ux, 0) {
			t.Fatalf("mode %v: self-interaction Ux = %g, want finite", mode, results[0].Ux)
		}
		if results[0].Ux != 0 || results[0].Uy != 0 || results[0].Uz != 0 {
			t.Errorf("mode %v: self-interaction velocity = %+v, want zero", mode, results[0])
		}
	}
}

// TestStokesletP2MDegreeZero covers invariant 5: a real-sourced
// P2M's M[n,m] and M[n,-m] must be conjugates, which for this
// 0<=m<=n-only storage means no test of a stored negative-m entry is
// possible directly; instead this checks the stored coefficients
// reproduce the degree-0 component exactly (the real-valued charge
// folded through Y_0^0, which is real), the part of the symmetry that
// is directly observable from storage.
func TestStokesletP2MDegreeZero(t *testing.T) {
	k := newKernel(t, 6, Stokeslet)
	center := fmm3d.NewPoint(0, 0, 0)
	src := fmm3d.NewPoint(0.2, 0.1, -0.1)
	charge := Charge{F: fmm3d.NewPoint(1, 2, 3)}

	M := k.NewMultipole()
	k.P2M(src, charge, center, M)

	for i := 0; i < 3; i++ {
		if imag(M.Lap[i].Coef[0]) != 0 {
			t.Errorf("Lap[%d].Coef[0] = %v, want a real degree-0 coefficient", i, M.Lap[i].Coef[0])
		}
	}
}

// TestStokesletM2MIdentity mirrors laplace's S5 scenario for the Stokes
// wrapper: an M2M with zero translation must reproduce the child's
// coefficients, since componentwise delegation to laplace.Kernel.M2M
// inherits that identity from the Laplace kernel.
func TestStokesletM2MIdentity(t *testing.T) {
	k := newKernel(t, 6, Stokeslet)
	center := fmm3d.NewPoint(0.3, -0.2, 0.1)
	child := k.NewMultipole()
	k.P2M(fmm3d.NewPoint(0.31, -0.19, 0.12), Charge{F: fmm3d.NewPoint(1, 0, 0)}, center, child)
	k.P2M(fmm3d.NewPoint(0.28, -0.22, 0.08), Charge{F: fmm3d.NewPoint(0, -0.5, 0)}, center, child)

	parent := k.NewMultipole()
	k.M2M(child, 0.1, parent, fmm3d.NewPoint(0, 0, 0))

	for i := range child.Lap {
		if !approx.ComplexSlices(parent.Lap[i].Coef, child.Lap[i].Coef, 1e-4) {
			t.Errorf("Lap[%d]: M2M with zero translation did not reproduce the child's coefficients:\nchild  = %v\nparent = %v",
				i, child.Lap[i].Coef, parent.Lap[i].Coef)
		}
	}
}

// TestFullUpDownPathMatchesDirect covers invariant 7's second half for
// the Stokeslet mode: P2M -> M2M -> M2L -> L2L -> L2P across a
// two-level hierarchy of well-separated boxes must agree with direct
// P2P to the order's truncation error.
func TestFullUpDownPathMatchesDirect(t *testing.T) {
	k := newKernel(t, 10, Stokeslet)

	childCenterS := fmm3d.NewPoint(0.1, 0.1, 0.1)
	parentCenterS := fmm3d.NewPoint(0, 0, 0)
	parentCenterT := fmm3d.NewPoint(4, 0, 0)
	childCenterT := fmm3d.NewPoint(4.1, 0.05, -0.05)

	sources := []fmm3d.Point{
		fmm3d.NewPoint(0.12, 0.08, 0.11),
		fmm3d.NewPoint(0.07, 0.13, 0.09),
	}
	charges := []Charge{
		{F: fmm3d.NewPoint(1, 0, 0)},
		{F: fmm3d.NewPoint(-0.5, 0.5, 0)},
	}
	target := fmm3d.NewPoint(4.13, 0.02, -0.04)

	childM := k.NewMultipole()
	for i, s := range sources {
		k.P2M(s, charges[i], childCenterS, childM)
	}
	parentM := k.NewMultipole()
	k.M2M(childM, 0.2, parentM, sub(parentCenterS, childCenterS))

	parentL := k.NewLocal()
	k.M2L(parentM, parentL, sub(parentCenterT, parentCenterS))

	childL := k.NewLocal()
	k.L2L(parentL, childL, sub(childCenterT, parentCenterT))

	got := k.L2P(childL, childCenterT, target)

	want := make([]Result, 1)
	k2 := newKernel(t, 10, Stokeslet)
	k2.P2P(sources, charges, []fmm3d.Point{target}, want)

	rel := cmplx.Abs(complex(got.Ux-want[0].Ux, got.Uy-want[0].Uy)) +
		math.Abs(got.Uz - want[0].Uz)
	scale := math.Abs(want[0].Ux) + math.Abs(want[0].Uy) + math.Abs(want[0].Uz)
	if scale == 0 {
		scale = 1
	}
	if rel/scale > 1e-3 {
		t.Errorf("full up/down path velocity = %+v, direct = %+v, relative error %g > 1e-3",
			got, want[0], rel/scale)
	}
}

func sub(a, b fmm3d.Point) fmm3d.Point {
	return fmm3d.NewPoint(a.X-b.X, a.Y-b.Y, a.Z-b.Z)
}
