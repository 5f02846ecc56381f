package harmonic

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/phil-mansfield/fmm3d"
	"github.com/phil-mansfield/fmm3d/coeffs"
)

func TestCartToSphOnAxisNoNaN(t *testing.T) {
	// Invariant 9: points that map onto the polar axis (x=y=0) must not
	// produce NaN phi or blow up the subsequent harmonic evaluation.
	tables := coeffs.NewTables(6, 1e-6)
	for _, dist := range []fmm3d.Point{
		fmm3d.NewPoint(0, 0, 1),
		fmm3d.NewPoint(0, 0, -1),
		fmm3d.NewPoint(0, 0, 0),
	} {
		rho, alpha, beta := CartToSph(dist, 1e-6)
		if math.IsNaN(rho) || math.IsNaN(alpha) || math.IsNaN(beta) {
			t.Fatalf("CartToSph(%v) = (%g,%g,%g), want finite", dist, rho, alpha, beta)
		}
		Ynm := make([]complex128, 4*tables.P*tables.P)
		YnmTheta := make([]complex128, 4*tables.P*tables.P)
		EvalMultipole(rho, alpha, beta, tables, Ynm, YnmTheta)
		for i, v := range Ynm {
			if cmplx.IsNaN(v) {
				t.Errorf("Ynm[%d] = NaN for dist=%v", i, dist)
			}
		}
	}
}

func TestCartToSphOriginConvention(t *testing.T) {
	// Open question 2 in DESIGN.md: phi=0 for both the on-axis and
	// origin cases, preserved from the reference's cart2sph.
	_, _, beta := CartToSph(fmm3d.NewPoint(0, 0, 0), 1e-6)
	if beta != 0 {
		t.Errorf("beta at origin = %g, want 0", beta)
	}
}

func TestEvalMultipoleConjugateSymmetry(t *testing.T) {
	// Invariant 6 support: Ynm(n,-m) must be the conjugate of Ynm(n,m)
	// for every degree/order the recurrence fills.
	tables := coeffs.NewTables(5, 1e-6)
	rho, alpha, beta := CartToSph(fmm3d.NewPoint(0.3, -0.4, 0.5), 1e-6)
	Ynm := make([]complex128, 4*tables.P*tables.P)
	YnmTheta := make([]complex128, 4*tables.P*tables.P)
	EvalMultipole(rho, alpha, beta, tables, Ynm, YnmTheta)
	for n := 0; n < tables.P; n++ {
		for m := 0; m <= n; m++ {
			got := Ynm[coeffs.Index(n, -m)]
			want := cmplx.Conj(Ynm[coeffs.Index(n, m)])
			if cmplx.Abs(got-want) > 1e-9 {
				t.Errorf("Ynm(%d,%d)=%v, conj(Ynm(%d,%d))=%v differ", n, -m, got, n, m, want)
			}
		}
	}
}

func TestEvalMultipoleDegreeZero(t *testing.T) {
	// Y_0^0 = 1 for any direction, scaled by rho^0 = 1: the recurrence's
	// seed term must reduce to exactly 1 regardless of (alpha, beta).
	tables := coeffs.NewTables(4, 1e-6)
	rho, alpha, beta := CartToSph(fmm3d.NewPoint(1, 2, 3), 1e-6)
	Ynm := make([]complex128, 4*tables.P*tables.P)
	YnmTheta := make([]complex128, 4*tables.P*tables.P)
	EvalMultipole(rho, alpha, beta, tables, Ynm, YnmTheta)
	got := Ynm[coeffs.Index(0, 0)]
	if cmplx.Abs(got-1) > 1e-9 {
		t.Errorf("Ynm(0,0) = %v, want 1", got)
	}
}

func TestEvalLocalRadialDecay(t *testing.T) {
	// r^{-n-1} Y_n^0 along the z-axis direction reduces to a pure power
	// of rho (Y_n^0(0,beta) is real and independent of beta), so halving
	// rho should scale Ynm(n,0) by exactly 2^(n+1).
	tables := coeffs.NewTables(4, 1e-6)
	Ynm1 := make([]complex128, 4*tables.P*tables.P)
	YnmTheta1 := make([]complex128, 4*tables.P*tables.P)
	EvalLocal(2.0, 0, 0, tables, Ynm1, YnmTheta1)
	Ynm2 := make([]complex128, 4*tables.P*tables.P)
	YnmTheta2 := make([]complex128, 4*tables.P*tables.P)
	EvalLocal(1.0, 0, 0, tables, Ynm2, YnmTheta2)
	for n := 0; n < 2*tables.P; n++ {
		nm := coeffs.Index(n, 0)
		ratio := cmplx.Abs(Ynm2[nm]) / cmplx.Abs(Ynm1[nm])
		want := math.Pow(2, float64(n+1))
		if math.Abs(ratio-want) > 1e-6*want {
			t.Errorf("|Ynm(%d,0)| ratio = %g, want %g", n, ratio, want)
		}
	}
}

func TestSphToCartRadialUnitVector(t *testing.T) {
	// A pure d/drho gradient of 1 at theta=pi/2, phi=0 points along +x.
	cart := SphToCart(1, math.Pi/2, 0, [3]float64{1, 0, 0})
	if math.Abs(cart[0]-1) > 1e-9 || math.Abs(cart[1]) > 1e-9 || math.Abs(cart[2]) > 1e-9 {
		t.Errorf("SphToCart radial unit vector = %v, want (1,0,0)", cart)
	}
}
