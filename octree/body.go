package octree

import "github.com/phil-mansfield/fmm3d"

// Body is a lightweight handle to one point in a Tree's sorted
// ordering, the role Octree.hpp's Body class plays over its idx_.
type Body struct {
	tree *Tree
	idx  int
}

// Index returns the body's position in the tree's sorted ordering, in
// [0, Tree.NumBodies()).
func (b Body) Index() int {
	return b.idx
}

// Point returns the body's location.
func (b Body) Point() fmm3d.Point {
	return b.tree.points[b.tree.permutation[b.idx]]
}

// OriginalIndex returns the body's position in the slice passed to
// Build, before sorting by Morton code.
func (b Body) OriginalIndex() int {
	return b.tree.permutation[b.idx]
}

// MortonCode returns the body's full-depth Morton code.
func (b Body) MortonCode() uint64 {
	return b.tree.codes[b.idx]
}
