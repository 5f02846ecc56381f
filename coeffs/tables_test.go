package coeffs

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestNewTablesPrefactorSymmetric(t *testing.T) {
	tables := NewTables(6, 1e-6)
	for n := 0; n < 2*tables.P; n++ {
		for m := 0; m <= n; m++ {
			pos := tables.Prefactor[Index(n, m)]
			neg := tables.Prefactor[Index(n, -m)]
			if math.Abs(pos-neg) > 1e-12 {
				t.Errorf("Prefactor(%d,%d)=%g != Prefactor(%d,%d)=%g", n, m, pos, n, -m, neg)
			}
		}
	}
}

func TestNewTablesFactorial(t *testing.T) {
	tables := NewTables(8, 1e-6)
	want := 1.0
	for n := 0; n < tables.P; n++ {
		if tables.Factorial[n] != want {
			t.Errorf("Factorial[%d] = %g, want %g", n, tables.Factorial[n], want)
		}
		want *= float64(n + 1)
	}
}

func TestNewTablesAnmFinite(t *testing.T) {
	tables := NewTables(6, 1e-6)
	for i, a := range tables.Anm {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			t.Errorf("Anm[%d] = %g, want finite", i, a)
		}
	}
}

func TestNewTablesCnmFinite(t *testing.T) {
	tables := NewTables(5, 1e-6)
	for i, c := range tables.Cnm {
		if cmplx.IsNaN(c) || cmplx.IsInf(c) {
			t.Errorf("Cnm[%d] = %v, want finite", i, c)
		}
	}
}

func TestCnmIndexMatchesStorageOrder(t *testing.T) {
	p := 4
	tables := NewTables(p, 1e-6)
	i := 0
	for j := 0; j < p; j++ {
		for k := -j; k <= j; k++ {
			for n := 0; n < p; n++ {
				for m := -n; m <= n; m++ {
					if got := CnmIndex(p, j, k, n, m); got != i {
						t.Fatalf("CnmIndex(%d,%d,%d,%d,%d) = %d, want %d", p, j, k, n, m, got, i)
					}
					i++
				}
			}
		}
	}
	if i != len(tables.Cnm) {
		t.Errorf("enumerated %d Cnm entries, want %d", i, len(tables.Cnm))
	}
}
