package fmm3d

import (
	"errors"
	"testing"
)

func TestNewKernelConfigDefaults(t *testing.T) {
	cfg, err := NewKernelConfig(5)
	if err != nil {
		t.Fatalf("NewKernelConfig(5) returned unexpected error: %v", err)
	}
	if cfg.P != 5 {
		t.Errorf("P = %d, want 5", cfg.P)
	}
	if cfg.EPS != defaultEPS {
		t.Errorf("EPS = %g, want %g", cfg.EPS, defaultEPS)
	}
	if cfg.EPS2 != defaultEPS*defaultEPS {
		t.Errorf("EPS2 = %g, want %g", cfg.EPS2, defaultEPS*defaultEPS)
	}
	if cfg.Xperiodic != (Point{}) {
		t.Errorf("Xperiodic = %v, want zero", cfg.Xperiodic)
	}
}

func TestNewKernelConfigInvalidOrder(t *testing.T) {
	for _, p := range []int{0, -1, -100} {
		_, err := NewKernelConfig(p)
		if !errors.Is(err, ErrInvalidOrder) {
			t.Errorf("NewKernelConfig(%d): got err %v, want ErrInvalidOrder", p, err)
		}
	}
}

func TestNewKernelConfigOptions(t *testing.T) {
	shift := NewPoint(1, 2, 3)
	cfg, err := NewKernelConfig(3, WithEPS(1e-3), WithEPS2(1e-5), WithXperiodic(shift))
	if err != nil {
		t.Fatalf("NewKernelConfig returned unexpected error: %v", err)
	}
	if cfg.EPS != 1e-3 {
		t.Errorf("EPS = %g, want 1e-3", cfg.EPS)
	}
	if cfg.EPS2 != 1e-5 {
		t.Errorf("EPS2 = %g, want 1e-5", cfg.EPS2)
	}
	if cfg.Xperiodic != shift {
		t.Errorf("Xperiodic = %v, want %v", cfg.Xperiodic, shift)
	}
}
