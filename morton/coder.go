// Package morton maps points inside a cubic bounding box onto 30-bit
// Morton (Z-order) codes and back. octree.Build sorts bodies by this
// code to turn spatial proximity into array proximity before splitting
// boxes, the same role Octree.hpp's lower_bound/upper_bound machinery
// plays in the original.
package morton

import (
	"errors"

	"github.com/phil-mansfield/fmm3d"
)

// Levels is the number of bits of resolution per axis. A code therefore
// packs 3*Levels = 30 bits, leaving room in a 64-bit key for the
// leading marker bit that octree's box keys carry above their octant
// bits.
const Levels = 10

// cells is the number of grid cells along one axis: 2^Levels.
const cells = 1 << Levels

// ErrOutOfDomain is returned by Code when the point lies outside the
// coder's bounding box and therefore has no valid code.
var ErrOutOfDomain = errors.New("morton: point lies outside the coder's bounding box")

// Coder converts between points and Morton codes within a fixed cubic
// bounding box. The zero value is not usable; construct with NewCoder.
type Coder struct {
	box fmm3d.BoundingBox
}

// NewCoder returns a Coder for the given cubic bounding box.
func NewCoder(box fmm3d.BoundingBox) *Coder {
	return &Coder{box: box}
}

// BoundingBox returns the box the coder was constructed with.
func (c *Coder) BoundingBox() fmm3d.BoundingBox {
	return c.box
}

// Code quantizes p onto a Levels-bit-per-axis grid over the coder's
// bounding box and interleaves the three axis indices into a single
// 30-bit code, most significant triplet first. It returns
// ErrOutOfDomain if p lies outside the box.
func (c *Coder) Code(p fmm3d.Point) (uint64, error) {
	if !c.box.Contains(p) {
		return 0, ErrOutOfDomain
	}
	extent := c.box.Extent()
	x := quantize(p.X, c.box.Min.X, extent)
	y := quantize(p.Y, c.box.Min.Y, extent)
	z := quantize(p.Z, c.box.Min.Z, extent)
	return interleave(x, y, z), nil
}

// Cell returns the leaf-level sub-cube (side Extent()/2^Levels) that
// code decodes to. code is assumed to be a full 30-bit code as returned
// by Code; codes representing shallower octree levels should be
// left-shifted to 30 bits by the caller before calling Cell.
func (c *Coder) Cell(code uint64) fmm3d.BoundingBox {
	x, y, z := deinterleave(code)
	side := c.box.Extent() / float64(cells)
	min := fmm3d.NewPoint(
		c.box.Min.X+float64(x)*side,
		c.box.Min.Y+float64(y)*side,
		c.box.Min.Z+float64(z)*side,
	)
	max := fmm3d.NewPoint(min.X+side, min.Y+side, min.Z+side)
	return fmm3d.BoundingBox{Min: min, Max: max}
}

// quantize maps v in [min, min+extent] onto an integer grid index in
// [0, cells-1]. A value exactly on the far face maps to cells-1, not
// cells, so Code never produces an out-of-range axis index.
func quantize(v, min, extent float64) uint32 {
	idx := int((v - min) / extent * float64(cells))
	if idx < 0 {
		idx = 0
	}
	if idx > cells-1 {
		idx = cells - 1
	}
	return uint32(idx)
}

// interleave packs the low Levels bits of x, y, z into a single code,
// placing the most significant bit of each axis first so the resulting
// code sorts consistently with top-down octree subdivision: the three
// bits distinguishing the root's octant occupy the code's most
// significant triplet.
func interleave(x, y, z uint32) uint64 {
	var code uint64
	for i := 0; i < Levels; i++ {
		shift := uint(Levels - 1 - i)
		xb := (x >> shift) & 1
		yb := (y >> shift) & 1
		zb := (z >> shift) & 1
		out := uint(3 * (Levels - 1 - i))
		code |= uint64(xb) << (out + 2)
		code |= uint64(yb) << (out + 1)
		code |= uint64(zb) << out
	}
	return code
}

// deinterleave is interleave's inverse.
func deinterleave(code uint64) (x, y, z uint32) {
	for i := 0; i < Levels; i++ {
		out := uint(3 * (Levels - 1 - i))
		xb := (code >> (out + 2)) & 1
		yb := (code >> (out + 1)) & 1
		zb := (code >> out) & 1
		shift := uint(Levels - 1 - i)
		x |= uint32(xb) << shift
		y |= uint32(yb) << shift
		z |= uint32(zb) << shift
	}
	return x, y, z
}
