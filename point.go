package fmm3d

import "gonum.org/v1/gonum/spatial/r3"

// Point is a 3-vector of real coordinates. It is a type alias for
// gonum's r3.Vec, which gives every package in this module the usual
// vector arithmetic (r3.Add, r3.Sub, r3.Scale, r3.Dot, r3.Cross, r3.Norm)
// for free instead of a hand-rolled [3]float64 helper set.
type Point = r3.Vec

// NewPoint returns the Point (x, y, z).
func NewPoint(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}
