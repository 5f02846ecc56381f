package octree

import (
	"github.com/phil-mansfield/fmm3d"
	"github.com/phil-mansfield/fmm3d/morton"
)

// Box is a lightweight handle to one node of a Tree. It is a value
// type - cheap to copy, invalid once its Tree is discarded - playing
// the role Octree.hpp's Box class plays over its tree_ pointer and
// idx_.
type Box struct {
	tree *Tree
	idx  int
}

// Index returns the box's position in its tree, stable for the life
// of the tree and usable with Tree.BoxAt.
func (b Box) Index() int {
	return b.idx
}

// Level returns the box's depth, with the root at level 0.
func (b Box) Level() int {
	return b.tree.boxes[b.idx].level
}

// IsLeaf reports whether the box holds bodies directly rather than
// child boxes.
func (b Box) IsLeaf() bool {
	return b.tree.boxes[b.idx].isLeaf
}

// NumChildren returns the number of non-empty octants this box was
// split into, or the number of bodies it holds if it is a leaf.
func (b Box) NumChildren() int {
	return b.tree.boxes[b.idx].numChildren()
}

// Parent returns the box's parent. Calling Parent on the root returns
// the root itself.
func (b Box) Parent() Box {
	return Box{tree: b.tree, idx: b.tree.boxes[b.idx].parent}
}

// ChildBegin and ChildEnd bound the range of child Box indices, usable
// with Tree.BoxAt. They must not be called on a leaf.
func (b Box) ChildBegin() int {
	return b.tree.boxes[b.idx].childBegin
}

func (b Box) ChildEnd() int {
	return b.tree.boxes[b.idx].childEnd
}

// BodyBegin and BodyEnd bound the range of Body indices, usable with
// Tree.BodyAt, contained anywhere beneath this box. For an internal
// box this descends to the leftmost and rightmost leaf the way
// Octree.hpp's body_begin/body_end do, since only leaves carry body
// offsets directly.
func (b Box) BodyBegin() int {
	rec := b.tree.boxes[b.idx]
	if rec.isLeaf {
		return rec.childBegin
	}
	idx := rec.childBegin
	for !b.tree.boxes[idx].isLeaf {
		idx = b.tree.boxes[idx].childBegin
	}
	return b.tree.boxes[idx].childBegin
}

func (b Box) BodyEnd() int {
	rec := b.tree.boxes[b.idx]
	if rec.isLeaf {
		return rec.childEnd
	}
	idx := rec.childEnd - 1
	for !b.tree.boxes[idx].isLeaf {
		idx = b.tree.boxes[idx].childEnd - 1
	}
	return b.tree.boxes[idx].childEnd
}

// Bounds returns the box's own axis-aligned cube, recovered from its
// Morton key the way Octree.hpp's Box::center does, but returning the
// full cube rather than just its midpoint.
func (b Box) Bounds() fmm3d.BoundingBox {
	rec := b.tree.boxes[b.idx]
	lowerMC, _ := codeBounds(rec.key, rec.level)
	leaf := b.tree.coder.Cell(lowerMC)
	scale := float64(uint64(1) << uint(morton.Levels-rec.level))
	side := leaf.Extent() * scale
	return fmm3d.BoundingBox{
		Min: leaf.Min,
		Max: fmm3d.NewPoint(leaf.Min.X+side, leaf.Min.Y+side, leaf.Min.Z+side),
	}
}

// Center returns the geometric center of the box.
func (b Box) Center() fmm3d.Point {
	return b.Bounds().Center()
}
