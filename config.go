package fmm3d

// KernelConfig bundles the few process-wide numerical constants a kernel
// needs - expansion order, the EPS/EPS2 regularization floors, and the
// periodic shift vector - into a single immutable value passed to a
// kernel at construction time, rather than scattering them across
// package-level mutable globals (spec.md design notes call this out
// explicitly). This mirrors the teacher's own "gather raw options, then
// validate into an immutable value" shape (lib.Args / rawArgs.Process()),
// just without a config file or command line behind it.
type KernelConfig struct {
	// P is the truncation degree of multipole/local expansions. Fixed for
	// the lifetime of any kernel built from this config.
	P int
	// EPS floors divisions that would otherwise touch zero in the
	// coefficient tables and in cart2sph's radius. Defaults to 1e-6.
	EPS float64
	// EPS2 floors P2P's squared distance so coincident source/target
	// pairs never divide by zero. Defaults to EPS*EPS.
	EPS2 float64
	// Xperiodic is the additive periodic-image shift applied inside
	// laplace.Kernel's P2P and M2P; stokes.Kernel's operators do not
	// apply it. Zero (the default) disables periodic images entirely.
	Xperiodic Point
}

// ConfigOption configures a KernelConfig under construction.
type ConfigOption func(*KernelConfig)

// WithEPS overrides the default EPS regularization floor.
func WithEPS(eps float64) ConfigOption {
	return func(c *KernelConfig) { c.EPS = eps }
}

// WithEPS2 overrides the default EPS2 (P2P self-interaction) floor.
func WithEPS2(eps2 float64) ConfigOption {
	return func(c *KernelConfig) { c.EPS2 = eps2 }
}

// WithXperiodic sets the periodic-image shift vector applied by
// laplace.Kernel's P2P and M2P. It defaults to zero, which disables
// periodic images.
func WithXperiodic(shift Point) ConfigOption {
	return func(c *KernelConfig) { c.Xperiodic = shift }
}

const defaultEPS = 1e-6

// NewKernelConfig validates p and returns a KernelConfig with defaults
// EPS=1e-6, EPS2=EPS*EPS, Xperiodic=0, overridden by any opts given.
func NewKernelConfig(p int, opts ...ConfigOption) (*KernelConfig, error) {
	if p < 1 {
		return nil, ErrInvalidOrder
	}
	cfg := &KernelConfig{
		P:    p,
		EPS:  defaultEPS,
		EPS2: defaultEPS * defaultEPS,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg, nil
}
