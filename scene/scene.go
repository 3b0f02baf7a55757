// Package scene implements the per-frame driver (§4.7): it owns a
// list of instances, composes each one's rendering matrix, walks them
// in a coarse front-to-back order, and either splats an instance
// directly or hands it to the cage subdivider when the splatter
// reports TooBig/TooClose. It mirrors the orchestration role
// console.Bus plays in the teacher repo (owning the mapper/CPU/PPU
// and driving their per-frame interaction), generalized from one NES
// frame to a list of octree instances.
package scene

import (
	"sort"

	"github.com/voxsplat/octoscan/cage"
	"github.com/voxsplat/octoscan/fixedpoint"
	"github.com/voxsplat/octoscan/octree"
	"github.com/voxsplat/octoscan/ordertable"
	"github.com/voxsplat/octoscan/splat"
)

// Instance is one placement of an octree in the scene: which store,
// which node to start from, and its object-to-world matrix.
type Instance struct {
	ID          string
	Octree      *octree.Store
	RootAddress uint32
	World       fixedpoint.Matrix
}

// Scene holds the instance list for one frame's render call plus a
// coherence cache of cage subdivision plans keyed by instance
// identity and composed rendering matrix.
type Scene struct {
	instances []Instance
	cache     *planCache
}

// New returns an empty Scene. cacheSize bounds the number of
// subdivision plans retained across frames; 0 disables the cache.
func New(cacheSize int) (*Scene, error) {
	c, err := newPlanCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Scene{cache: c}, nil
}

// AddInstance appends inst to the scene's instance list.
func (sc *Scene) AddInstance(inst Instance) {
	sc.instances = append(sc.instances, inst)
}

// Clear empties the instance list; the plan cache survives across
// Clear calls so coherence is preserved frame to frame.
func (sc *Scene) Clear() {
	sc.instances = sc.instances[:0]
}

// renderJob pairs an instance with its fully composed rendering
// matrix, computed once before sorting so the sort comparator doesn't
// re-derive it per comparison.
type renderJob struct {
	inst   Instance
	matrix fixedpoint.Matrix
}

// Render composes each instance's renderingMatrix = World * viewProjection
// (§4.7 step 1), orders instances coarsely front-to-back by the
// resulting translation Z (step 2), and renders each in turn (step 3),
// handing TooBig/TooClose instances to the cage subdivider. template
// supplies the shared splat knobs (Shape, dilation, MapThreshold, ...);
// its Matrix/Octree/RootAddress fields are overwritten per instance.
func (sc *Scene) Render(s *splat.Splatter, viewProjection fixedpoint.Matrix, template splat.Config) {
	jobs := make([]renderJob, len(sc.instances))
	for i, inst := range sc.instances {
		jobs[i] = renderJob{inst: inst, matrix: inst.World.Mul(viewProjection)}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].matrix.Tz < jobs[j].matrix.Tz })

	for _, job := range jobs {
		cfg := template
		cfg.Matrix = job.matrix
		cfg.Octree = job.inst.Octree
		cfg.RootAddress = job.inst.RootAddress

		result := s.Render(cfg)
		s.Finish()

		switch result {
		case splat.TooBig, splat.TooClose:
			sc.subdivideInstance(s, job.inst, cfg)
		}
	}
}

// IsOccluded exposes the splatter's occlusion query (§4.7 step 4) so
// a caller can skip expensive per-instance work — cage subdivision in
// particular — for an instance whose screen bound is already fully
// covered by nearer geometry.
func IsOccluded(s *splat.Splatter, region splat.Rect, z int32) (bool, int) {
	return s.IsOccluded(region, z)
}

// cornersFromMatrix derives the 8 world/screen-space cage vertices a
// splat.Config's Matrix implies: the same per-octant sign convention
// splat.setup uses to compute its 8 child deltas (§4.5.2 step 5),
// applied here to the root cube's own corners rather than its
// children's centers.
func cornersFromMatrix(m fixedpoint.Matrix) cage.Corners {
	var c cage.Corners
	for o := 0; o < 8; o++ {
		sx, sy, sz := sign(o, 0), sign(o, 1), sign(o, 2)
		c[o] = fixedpoint.Vec3{
			X: m.Tx + m.Xx*sx + m.Yx*sy + m.Zx*sz,
			Y: m.Ty + m.Xy*sx + m.Yy*sy + m.Zy*sz,
			Z: m.Tz + m.Xz*sx + m.Yz*sy + m.Zz*sz,
		}
	}
	return c
}

func sign(octant, bit int) float64 {
	if octant&(1<<uint(bit)) != 0 {
		return 1
	}
	return -1
}

// matrixFromCorners is cornersFromMatrix's inverse: it rebuilds a
// splat.Config-shaped Matrix from a cage.Corners parallelepiped,
// approximating each axis as half the average of its four parallel
// edges (the cube spans -1..1, so an edge is twice an axis).
// This is exact when the cage is itself a parallelepiped (the common
// case for an un-deformed subdivision) and a first-order approximation
// under perspective deformation, matching §4.6's "near-parallelepiped
// sub-cages" framing.
func matrixFromCorners(c cage.Corners) fixedpoint.Matrix {
	edge := func(hi, lo [4]int) fixedpoint.Vec3 {
		var sum fixedpoint.Vec3
		for i := 0; i < 4; i++ {
			sum = sum.Add(c[hi[i]].Sub(c[lo[i]]))
		}
		return sum.Scale(1.0 / 8.0)
	}

	xAxis := edge([4]int{1, 3, 5, 7}, [4]int{0, 2, 4, 6})
	yAxis := edge([4]int{2, 3, 6, 7}, [4]int{0, 1, 4, 5})
	zAxis := edge([4]int{4, 5, 6, 7}, [4]int{0, 1, 2, 3})

	var center fixedpoint.Vec3
	for _, v := range c {
		center = center.Add(v)
	}
	center = center.Scale(1.0 / 8.0)

	return fixedpoint.Matrix{
		Xx: xAxis.X, Xy: xAxis.Y, Xz: xAxis.Z,
		Yx: yAxis.X, Yy: yAxis.Y, Yz: yAxis.Z,
		Zx: zAxis.X, Zy: zAxis.Y, Zz: zAxis.Z,
		Tx: center.X, Ty: center.Y, Tz: center.Z,
	}
}

// childAddress resolves octant's child index of the node at address,
// under store's fixed Layout — the same rule splat's traversal
// kernel applies to descend one level, needed again here because the
// subdivider descends the octree independently of any live Splatter
// traversal.
func childAddress(store *octree.Store, address uint32, octant uint8) uint32 {
	base := store.Addr(address)
	if store.Layout() == octree.Packed {
		mask := store.Mask(address)
		return base + uint32(ordertable.OctantToIndex[int(mask)*8+int(octant)])
	}
	return base + uint32(octant)
}
