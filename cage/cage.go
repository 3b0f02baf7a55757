// Package cage implements the trilinear cage subdivider (§4.6): given
// an 8-vertex cage too coarse to splat directly (the octree's
// TooBig/TooClose verdict), it halves the cage along each axis to
// populate a 3x3x3 grid of midpoints, extracts the 8 sub-cages that
// grid implies, and visits them in front-to-back order using the same
// starting-octant/queue machinery the splatter uses for octree
// children.
//
// The explicit per-level stack and depth-bounded recursion mirror the
// cube decomposition in the retrieved glrender Octree renderer
// (processCubesDFS): push whole cages to subdivide, pop and process
// one level at a time rather than recursing on the Go call stack.
package cage

import (
	"github.com/voxsplat/octoscan/fixedpoint"
	"github.com/voxsplat/octoscan/ordertable"
)

// MaxDepth bounds cage recursion (§7: "Assert-class invariant
// violations... implementations MAY panic" — here it's a plain
// stop condition instead, since an oversized scene hitting this is
// not a programming error).
const MaxDepth = 128

// Corners holds one cage's 8 vertices, indexed by octant bit
// convention: bit0 selects +X, bit1 selects +Y, bit2 selects +Z.
type Corners [8]fixedpoint.Vec3

// Grid is the 3x3x3 lattice of points produced by trilinearly halving
// a cage: Grid[0][*][*], Grid[2][*][*] reproduce the cage's own
// -X/+X faces, Grid[1][*][*] is the new mid-X slice, and so on for Y
// and Z.
type Grid [3][3][3]fixedpoint.Vec3

// BuildGrid computes every point of the 3x3x3 midpoint lattice by
// trilinear interpolation of c's 8 corners.
func BuildGrid(c Corners) Grid {
	var g Grid
	for i := 0; i < 3; i++ {
		u := float64(i) / 2
		for j := 0; j < 3; j++ {
			v := float64(j) / 2
			for k := 0; k < 3; k++ {
				w := float64(k) / 2
				g[i][j][k] = trilerp(c, u, v, w)
			}
		}
	}
	return g
}

// trilerp evaluates the cage's corners at parametric coordinates
// u,v,w in [0,1], each axis independently lerped corner-to-corner.
func trilerp(c Corners, u, v, w float64) fixedpoint.Vec3 {
	lerp := func(a, b fixedpoint.Vec3, t float64) fixedpoint.Vec3 {
		return a.Scale(1 - t).Add(b.Scale(t))
	}
	// Resolve X first (bit0), then Y (bit1), then Z (bit2).
	x00 := lerp(c[0], c[1], u)
	x10 := lerp(c[2], c[3], u)
	x01 := lerp(c[4], c[5], u)
	x11 := lerp(c[6], c[7], u)
	y0 := lerp(x00, x10, v)
	y1 := lerp(x01, x11, v)
	return lerp(y0, y1, w)
}

// SubCage extracts the 8-corner cage for octant o (same bit
// convention as Corners) out of g: o's bit i selects the lo (0,1) or
// hi (1,2) half of the grid along axis i.
func (g Grid) SubCage(o uint8) Corners {
	lo := func(bit uint8) int {
		if o&(1<<bit) != 0 {
			return 1
		}
		return 0
	}
	ix, iy, iz := lo(0), lo(1), lo(2)
	var out Corners
	for octant := 0; octant < 8; octant++ {
		dx, dy, dz := octant&1, (octant>>1)&1, (octant>>2)&1
		out[octant] = g[ix+dx][iy+dy][iz+dz]
	}
	return out
}

// Projector maps a cage vertex's object-space Z to a screen scale
// (§4.6): ZSlope==0 is the orthographic case (scale is constant);
// ZSlope!=0 divides by a Z-dependent term for perspective.
type Projector struct {
	ZIntercept, ZSlope float64
}

// Project returns v's screen-space X,Y after applying the
// perspective (or orthographic) scale.
func (p Projector) Project(v fixedpoint.Vec3) (x, y float64) {
	scale := 1 / (p.ZIntercept + p.ZSlope*v.Z)
	return v.X * scale, v.Y * scale
}

// StartingOctant picks, for one subdivision level, which of the
// grid's 8 sub-cages is nearest the camera, generalizing
// ordertable.StartingOctant's screen-space cross-product test from a
// projection matrix's basis columns to the grid's own center-adjacent
// edges. Orthographic callers pass perspective=false; eye is ignored
// in that case and the eye is taken to lie on the +Z side of the cage
// (view direction +Z), so an axis-aligned cage starts from its +Z
// half. That is the opposite sense from ordertable.StartingOctant,
// which starts the identity matrix from its -Z corner.
func StartingOctant(g Grid, eye fixedpoint.Vec3, perspective bool) uint8 {
	center := g[1][1][1]
	edgeX := g[2][1][1].Sub(center)
	edgeY := g[1][2][1].Sub(center)
	edgeZ := g[1][1][2].Sub(center)

	view := fixedpoint.Vec3{Z: 1}
	if perspective {
		view = eye.Sub(center)
	}

	var o uint8
	if edgeY.Cross(edgeZ).Dot(view) > 0 {
		o |= 1
	}
	if edgeZ.Cross(edgeX).Dot(view) > 0 {
		o |= 2
	}
	if edgeX.Cross(edgeY).Dot(view) > 0 {
		o |= 4
	}
	return o
}

// Queue returns the front-to-back octant visitation order for a
// subdivision level whose nearest sub-cage is startingOctant: it
// reuses the splatter's own Sparse queue table with the full mask
// (255, every sub-cage present) and the canonical XYZ order, matching
// §4.6's literal SparseQueues[(startingOctant<<8)|255] lookup.
func Queue(startingOctant uint8) ordertable.Queue {
	return ordertable.SparseQueues[ordertable.Key(ordertable.XYZ, startingOctant, 0xFF)]
}
