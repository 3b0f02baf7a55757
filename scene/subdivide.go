package scene

import (
	"math"

	"github.com/voxsplat/octoscan/cage"
	"github.com/voxsplat/octoscan/fixedpoint"
	"github.com/voxsplat/octoscan/splat"
)

// planStep is one leaf of a subdivision plan: a sub-cage that the
// splatter rendered successfully (Rendered or Culled) or on which
// recursion bottomed out at cage.MaxDepth, paired with the matrix
// and octree address that produced it.
type planStep struct {
	matrix  fixedpoint.Matrix
	address uint32
}

// cageFrame is the explicit-stack entry for subdivideInstance's
// descent: a cage, the octree address it corresponds to, and its
// subdivision depth. It plays the same role as cage.pending, plus the
// octree address cage.Subdivide's generic Callback protocol has no
// way to carry across recursive levels.
type cageFrame struct {
	corners cage.Corners
	address uint32
	depth   int
}

// subdivideInstance implements §4.6/§4.7's TooBig/TooClose handoff:
// it walks cfg's root cage with cage's own building blocks
// (BuildGrid/StartingOctant/Queue/SubCage) rather than cage.Subdivide
// directly, because each level also needs the octree address that
// cage.Subdivide's Callback signature doesn't carry (see DESIGN.md).
// A cached plan from a prior frame with a bitwise-identical matrix
// skips this walk entirely.
func (sc *Scene) subdivideInstance(s *splat.Splatter, inst Instance, cfg splat.Config) {
	key := cacheKey{id: inst.ID, matrix: cfg.Matrix}
	if plan, ok := sc.cache.get(key); ok {
		for _, step := range plan {
			sub := cfg
			sub.Matrix = step.matrix
			sub.RootAddress = step.address
			s.Render(sub)
			s.Finish()
		}
		return
	}

	store := inst.Octree
	var plan []planStep
	eye := fixedpoint.Vec3{} // view-space camera sits at the origin

	stack := []cageFrame{{cornersFromMatrix(cfg.Matrix), cfg.RootAddress, 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		mask := store.Mask(top.address)
		leaf := mask == 0

		grid := cage.BuildGrid(top.corners)
		startingOctant := cage.StartingOctant(grid, eye, false)
		q := cage.Queue(startingOctant)

		for {
			octant, _, ok := q.Next()
			if !ok {
				break
			}
			q = q.Advance()
			// An interior node only has geometry in its present
			// octants. A leaf has no children at all, but it's still
			// one solid color filling the whole oversized cube: every
			// sub-cage re-splats the SAME leaf address, just at a
			// smaller (hopefully no-longer-TooBig) extent.
			if !leaf && mask&(1<<octant) == 0 {
				continue
			}

			sub := grid.SubCage(octant)
			childAddr := top.address
			if !leaf {
				childAddr = childAddress(store, top.address, octant)
			}
			childMatrix := matrixFromCorners(sub)

			// Skip a sub-cage outright if nearer geometry already
			// covers its whole screen footprint (SPEC_FULL.md §6
			// item 4): no sense recursing into, let alone splatting,
			// something wholly hidden this frame. Not cached — the
			// depth buffer contents that make this true are
			// frame-local, unlike the subdivision geometry itself.
			if region, z, ok := boundsOf(sub); ok {
				if occluded, _ := s.IsOccluded(region, z); occluded {
					continue
				}
			}

			subCfg := cfg
			subCfg.Matrix = childMatrix
			subCfg.RootAddress = childAddr
			result := s.Render(subCfg)
			s.Finish()

			if (result == splat.TooBig || result == splat.TooClose) && top.depth+1 < cage.MaxDepth {
				stack = append(stack, cageFrame{sub, childAddr, top.depth + 1})
				continue
			}
			plan = append(plan, planStep{matrix: childMatrix, address: childAddr})
		}
	}

	sc.cache.add(key, plan)
}

// boundsOf derives a conservative screen rect and near-Z from a
// sub-cage's 8 corners, cheap enough to compute before deciding
// whether a sub-cage's traversal is worth running at all. ok is false
// for a cage whose nearest corner is already behind the camera — that
// case is left for splat.Render's own TooClose check rather than
// guessed at here.
func boundsOf(c cage.Corners) (rect splat.Rect, z int32, ok bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	minZ := math.Inf(1)
	for _, v := range c {
		minX, maxX = math.Min(minX, v.X), math.Max(maxX, v.X)
		minY, maxY = math.Min(minY, v.Y), math.Max(maxY, v.Y)
		minZ = math.Min(minZ, v.Z)
	}
	if minZ < 0 {
		return splat.Rect{}, 0, false
	}
	rect = splat.Rect{
		MinX: int(math.Floor(minX)), MinY: int(math.Floor(minY)),
		MaxX: int(math.Ceil(maxX)), MaxY: int(math.Ceil(maxY)),
	}
	return rect, int32(math.Round(minZ)), true
}
