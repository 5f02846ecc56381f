package fmm3d

import "gonum.org/v1/gonum/spatial/r3"

// BoundingBox is an axis-aligned cube: Max - Min must be equal on every
// axis. MortonCoder relies on this invariant to map a point linearly onto
// a 10-bit-per-axis grid; NewBoundingBox enforces it by construction.
type BoundingBox struct {
	Min, Max Point
}

// NewBoundingBox returns the smallest cube containing [min, max] on every
// axis, expanding whichever axes fall short of the largest extent so the
// box stays cubic. This mirrors the "smallest enclosing box" spirit of
// go/bounds.go's PeriodicBounds in the teacher repo, without the periodic
// wraparound a single (non-periodic) octree doesn't need.
func NewBoundingBox(min, max Point) BoundingBox {
	extent := r3.Sub(max, min)
	side := extent.X
	if extent.Y > side {
		side = extent.Y
	}
	if extent.Z > side {
		side = extent.Z
	}
	center := r3.Scale(0.5, r3.Add(min, max))
	half := side / 2
	return BoundingBox{
		Min: r3.Sub(center, Point{X: half, Y: half, Z: half}),
		Max: r3.Add(center, Point{X: half, Y: half, Z: half}),
	}
}

// Center returns the geometric center of the box.
func (b BoundingBox) Center() Point {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Extent returns the side length of the box (the same on every axis).
func (b BoundingBox) Extent() float64 {
	return b.Max.X - b.Min.X
}

// Radius returns half the side length.
func (b BoundingBox) Radius() float64 {
	return b.Extent() / 2
}

// Contains reports whether p lies within the closed box [Min, Max] on
// every axis.
func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
