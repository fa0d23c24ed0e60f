package geometry

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// bvhNode is a node in the bounding volume hierarchy. Leaves hold a range of
// the owning BVH's triangle slice.
type bvhNode struct {
	Bounds      AABB
	Left, Right *bvhNode
	Start, End  int
}

func (n *bvhNode) isLeaf() bool {
	return n.Left == nil
}

// bvh is a hierarchy over world-space triangles
type bvh struct {
	root      *bvhNode
	triangles []triangle
}

// Leaf threshold: if we have this many or fewer triangles, store them in a leaf node
const leafThreshold = 8

func newBVH(triangles []triangle) *bvh {
	b := &bvh{triangles: triangles}
	if len(triangles) > 0 {
		b.root = b.build(0, len(triangles))
	}
	return b
}

// build splits [start, end) at the midpoint of the longest axis of the node bounds
func (b *bvh) build(start, end int) *bvhNode {
	bounds := EmptyAABB()
	for i := start; i < end; i++ {
		bounds = bounds.Union(b.triangles[i].bbox)
	}
	node := &bvhNode{Bounds: bounds, Start: start, End: end}

	if end-start <= leafThreshold {
		return node
	}

	axis := bounds.LongestAxis()
	lo, hi := axisOf(bounds.Min, axis), axisOf(bounds.Max, axis)
	if hi <= lo {
		return node
	}
	split := (lo + hi) * 0.5

	// In-place partition by centroid
	mid := start
	for i := start; i < end; i++ {
		if axisOf(b.triangles[i].bbox.Center(), axis) < split {
			b.triangles[i], b.triangles[mid] = b.triangles[mid], b.triangles[i]
			mid++
		}
	}

	// Ensure we don't create empty partitions
	if mid == start || mid == end {
		return node
	}

	node.Left = b.build(start, mid)
	node.Right = b.build(mid, end)
	return node
}

// closest finds the nearest hit in (tMin, tMax]
func (b *bvh) closest(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	var best Hit
	found := false
	if b.root == nil {
		return best, false
	}

	stack := make([]*bvhNode, 0, 64)
	stack = append(stack, b.root)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !node.Bounds.Hit(ray, tMin, tMax) {
			continue
		}
		if !node.isLeaf() {
			stack = append(stack, node.Right, node.Left)
			continue
		}
		for i := node.Start; i < node.End; i++ {
			tri := &b.triangles[i]
			if t, bary, ok := tri.hit(ray, tMin, tMax); ok {
				tMax = t
				found = true
				best = Hit{T: t, Instance: tri.Instance, Primitive: tri.Primitive, Barycentrics: bary}
			}
		}
	}
	return best, found
}

// any reports whether anything is hit in (tMin, tMax)
func (b *bvh) any(ray core.Ray, tMin, tMax float64) bool {
	if b.root == nil {
		return false
	}

	stack := make([]*bvhNode, 0, 64)
	stack = append(stack, b.root)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !node.Bounds.Hit(ray, tMin, tMax) {
			continue
		}
		if !node.isLeaf() {
			stack = append(stack, node.Right, node.Left)
			continue
		}
		for i := node.Start; i < node.End; i++ {
			if _, _, ok := b.triangles[i].hit(ray, tMin, tMax); ok {
				return true
			}
		}
	}
	return false
}
