// Package octree builds a bucketed octree over a set of points by
// sorting their Morton codes and recursively splitting ranges of the
// sorted array, the same array-of-ranges design as
// phil-mansfield/guppy's particle-reordering code (lib/particles) and
// the original FMM core's Octree.hpp, rather than a pointer-linked
// tree of node objects.
//
// A Tree owns no traversal policy: callers walk it themselves via Box
// and Body, the way they would walk Octree.hpp's Box/body_iterator
// pair. Dual-tree traversal, interaction-list construction and well-
// separated-pair testing all live above this package.
package octree

import (
	"errors"
	"sort"

	"github.com/phil-mansfield/fmm3d"
	"github.com/phil-mansfield/fmm3d/morton"
)

// ErrInvalidNCrit is returned by Build when ncrit is less than 1.
var ErrInvalidNCrit = errors.New("octree: ncrit must be >= 1")

// totalBits is the full depth of a Morton code: three bits per axis,
// morton.Levels levels deep.
const totalBits = 3 * morton.Levels

// boxRecord is the fixed-size record behind every Box. key encodes the
// box's position in the tree the same way Octree.hpp's box_data.key_
// does: a leading 1 bit (inherited from the root's key of 1) followed
// by three bits of octant choice per level below the root. level is
// cached rather than re-derived from key on every call, the one place
// this package trades the original's bit-trick for a stored field.
type boxRecord struct {
	key        uint64
	level      int
	parent     int
	childBegin int
	childEnd   int
	isLeaf     bool
}

func (r boxRecord) numChildren() int { return r.childEnd - r.childBegin }

// Tree is a bucketed octree over a fixed set of points. The zero value
// is not usable; construct with Build.
type Tree struct {
	coder       *morton.Coder
	points      []fmm3d.Point
	codes       []uint64
	permutation []int
	boxes       []boxRecord
	levelOffset []int
}

// Build sorts points by Morton code within bb and recursively splits
// ranges into octants until no box holds more than ncrit points,
// mirroring construct_tree in Octree.hpp. A box at level morton.Levels
// (the finest Morton cell) becomes a leaf whatever its population, so
// such a leaf can hold more than ncrit points. It returns
// ErrInvalidNCrit if ncrit < 1, or morton.ErrOutOfDomain if any point
// lies outside bb.
func Build(points []fmm3d.Point, bb fmm3d.BoundingBox, ncrit int) (*Tree, error) {
	if ncrit < 1 {
		return nil, ErrInvalidNCrit
	}
	coder := morton.NewCoder(bb)

	type codeIdx struct {
		code uint64
		idx  int
	}
	pairs := make([]codeIdx, len(points))
	for i, p := range points {
		code, err := coder.Code(p)
		if err != nil {
			return nil, err
		}
		pairs[i] = codeIdx{code: code, idx: i}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].code < pairs[j].code })

	codes := make([]uint64, len(pairs))
	permutation := make([]int, len(pairs))
	for i, pr := range pairs {
		codes[i] = pr.code
		permutation[i] = pr.idx
	}

	t := &Tree{
		coder:       coder,
		points:      points,
		codes:       codes,
		permutation: permutation,
		boxes:       []boxRecord{{key: 1, level: 0, parent: 0, childBegin: 0, childEnd: len(codes)}},
		levelOffset: []int{0},
	}

	for k := 0; k < len(t.boxes); k++ {
		if t.boxes[k].numChildren() <= ncrit || t.boxes[k].level >= morton.Levels {
			t.boxes[k].isLeaf = true
			continue
		}

		lo, hi := t.boxes[k].childBegin, t.boxes[k].childEnd
		parentKey, parentLevel := t.boxes[k].key, t.boxes[k].level
		t.boxes[k].childBegin = len(t.boxes)
		t.boxes[k].childEnd = len(t.boxes)

		for oct := uint64(0); oct < 8; oct++ {
			childKey := (parentKey << 3) | oct
			childLevel := parentLevel + 1
			lowerMC, upperMC := codeBounds(childKey, childLevel)
			begin := lo + lowerBoundCodes(t.codes[lo:hi], lowerMC)
			end := lo + upperBoundCodes(t.codes[lo:hi], upperMC)
			if end <= begin {
				continue
			}

			t.boxes[k].childEnd++
			if childLevel >= len(t.levelOffset) {
				t.levelOffset = append(t.levelOffset, len(t.boxes))
			}
			t.boxes = append(t.boxes, boxRecord{
				key:        childKey,
				level:      childLevel,
				parent:     k,
				childBegin: begin,
				childEnd:   end,
			})
		}
	}
	t.levelOffset = append(t.levelOffset, len(t.boxes))
	return t, nil
}

// codeBounds returns the smallest and largest full-depth Morton code
// any point in the box identified by (key, level) could have: the
// octant path in key padded out to morton.Levels with zero octants for
// the lower bound and 7 (binary 111) octants for the upper bound. This
// is get_mc_lower_bound/get_mc_upper_bound from Octree.hpp, computed
// directly from level instead of looping a shift until a marker bit is
// seen.
func codeBounds(key uint64, level int) (lower, upper uint64) {
	shift := uint(totalBits - 3*level)
	lower = (key << shift) &^ (uint64(1) << totalBits)
	upper = lower | (uint64(1)<<shift - 1)
	return lower, upper
}

func lowerBoundCodes(s []uint64, target uint64) int {
	return sort.Search(len(s), func(i int) bool { return s[i] >= target })
}

func upperBoundCodes(s []uint64, target uint64) int {
	return sort.Search(len(s), func(i int) bool { return s[i] > target })
}

// BoundingBox returns the cubic box the tree was built over.
func (t *Tree) BoundingBox() fmm3d.BoundingBox {
	return t.coder.BoundingBox()
}

// NumBodies returns the number of points in the tree.
func (t *Tree) NumBodies() int {
	return len(t.codes)
}

// NumBoxes returns the number of boxes in the tree, root included.
func (t *Tree) NumBoxes() int {
	return len(t.boxes)
}

// Levels returns the number of levels in the tree; the root is level 0.
func (t *Tree) Levels() int {
	return len(t.levelOffset) - 1
}

// BoxRange returns the [begin, end) index range, usable with Box, of
// every box at the given level.
func (t *Tree) BoxRange(level int) (begin, end int) {
	return t.levelOffset[level], t.levelOffset[level+1]
}

// Root returns the tree's root box.
func (t *Tree) Root() Box {
	return Box{tree: t, idx: 0}
}

// BoxAt returns the box at the given index, as would be produced by
// iterating BoxRange's bounds.
func (t *Tree) BoxAt(idx int) Box {
	return Box{tree: t, idx: idx}
}

// BodyAt returns the body at the given sorted-array position, in
// [0, NumBodies()).
func (t *Tree) BodyAt(idx int) Body {
	return Body{tree: t, idx: idx}
}
