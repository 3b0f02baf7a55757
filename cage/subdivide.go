package cage

import "github.com/voxsplat/octoscan/fixedpoint"

// Callback is invoked once per sub-cage produced at a subdivision
// level, in front-to-back order. It does whatever the caller's domain
// requires with sub and octant (§4.7: render it, or derive a child
// octree root address for it) and reports, via mask, which of that
// sub-cage's own 8 octants still need further subdivision — a zero
// mask means this branch is done.
type Callback func(sub Corners, octant uint8, depth int) (mask uint8)

// pending is one cage awaiting subdivision: the explicit-stack
// analogue of a call frame, so Subdivide never recurses on the Go
// stack regardless of scene depth.
type pending struct {
	corners Corners
	depth   int
}

// Subdivide walks root's subdivision tree depth-first with an
// explicit stack, calling cb for every sub-cage and recursing into
// any sub-cage whose returned mask is nonzero, down to MaxDepth
// (§4.6, §5 "Memory": bounded stack, no per-frame allocation beyond
// the slice growth below).
func Subdivide(root Corners, eye fixedpoint.Vec3, perspective bool, cb Callback) {
	stack := []pending{{root, 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		grid := BuildGrid(top.corners)
		startingOctant := StartingOctant(grid, eye, perspective)
		q := Queue(startingOctant)

		for {
			octant, _, ok := q.Next()
			if !ok {
				break
			}
			q = q.Advance()

			sub := grid.SubCage(octant)
			mask := cb(sub, octant, top.depth)
			if mask != 0 && top.depth+1 < MaxDepth {
				stack = append(stack, pending{sub, top.depth + 1})
			}
		}
	}
}
