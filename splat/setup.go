package splat

import (
	"math"

	"github.com/voxsplat/octoscan/fixedpoint"
	"github.com/voxsplat/octoscan/octantmap"
	"github.com/voxsplat/octoscan/octree"
	"github.com/voxsplat/octoscan/ordertable"
)

// frame is one explicit-stack entry (§3 "Stack frame (splatter)").
// store/colorOverride let a Shape=Cube leaf substitute the synthetic
// cube octree (cubeStore) for a few levels without a second traversal
// loop: descendants of that substitution carry store=cubeStore and a
// fixed colorOverride, and the dispatch below special-cases them at
// the leaf branch.
type frame struct {
	minX, minY, maxX, maxY int
	maxSize                int
	x, y, z                int32
	address                uint32
	level                  int

	store         *octree.Store
	colorOverride *octree.Color24
}

// delta is one octant's fixed-point offset from its parent's center,
// computed once in setup (§4.5.2 step 5) and halved by level on use.
type delta struct {
	x, y, z int32
}

type instance struct {
	cfg Config

	order          ordertable.Order
	startingOctant uint8

	deltas  [8]delta
	extentZ int32
	maps    octantmap.Maps
	maps8   octantmap.Maps8

	rootExtentX, rootExtentY int32
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// setup runs §4.5.2. On success it returns the seeded root frame and
// the precomputed instance context; otherwise it returns the Result
// the caller should propagate (TooBig/TooClose/Culled).
func (s *Splatter) setup(cfg Config) (frame, instance, Result) {
	m := cfg.Matrix

	// Step 1: maxLevel.
	sumX := absF(m.Xx) + absF(m.Yx) + absF(m.Zx)
	sumY := absF(m.Xy) + absF(m.Yy) + absF(m.Zy)
	maxSum := sumX
	if sumY > maxSum {
		maxSum = sumY
	}
	maxLevel := -1
	for l := 0; l <= fixedpoint.LevelLimit; l++ {
		if maxSum < float64(int64(1)<<uint(l)) {
			maxLevel = l
			break
		}
	}
	if maxLevel < 0 {
		return frame{}, instance{}, TooBig
	}

	// Step 2: integer matrix. X/Y-contributing basis components are
	// scaled by 2^(SubpixelBits-maxLevel), halved, then shifted back
	// by maxLevel — a net factor of 2^(SubpixelBits-1), independent of
	// maxLevel itself, which is exactly fixedpoint.SubpixelHalf. Z
	// components are left raw, mirroring the translation rule ("leave
	// raw" for Z) onto the basis vectors. This float64 computation
	// only quantizes to fixed-point int32 at the points that feed
	// pixel/stack arithmetic below — see DESIGN.md.
	const subpixelXYScale = float64(fixedpoint.SubpixelHalf)

	// Step 3: root extents, from the scaled basis components above.
	extentX := int32(math.Round((absF(m.Xx) + absF(m.Yx) + absF(m.Zx)) * subpixelXYScale * 2))
	extentY := int32(math.Round((absF(m.Xy) + absF(m.Yy) + absF(m.Zy)) * subpixelXYScale * 2))
	extentZ := int32(math.Round((absF(m.Xz) + absF(m.Yz) + absF(m.Zz)) * 2))

	switch cfg.Shape {
	case Circle:
		diag := math.Sqrt(float64(extentX)*float64(extentX) + float64(extentY)*float64(extentY))
		e := int32(math.Ceil(diag))
		extentX, extentY = e, e
	case Square:
		e := extentX
		if extentY > e {
			e = extentY
		}
		extentX, extentY = e, e
	}

	dilation := cfg.AbsoluteDilation + int32(cfg.RelativeDilation*float64(fixedpoint.MaxI(int(extentX), int(extentY))))

	// Step 4: root screen rectangle and startZ.
	tx := int32(math.Round(m.Tx * fixedpoint.SubpixelSize))
	ty := int32(math.Round(m.Ty * fixedpoint.SubpixelSize))
	tz := int32(math.Round(m.Tz))

	rect := Rect{
		MinX: int(tx-(extentX+dilation)) >> fixedpoint.SubpixelBits,
		MinY: int(ty-(extentY+dilation)) >> fixedpoint.SubpixelBits,
		MaxX: int(tx+(extentX+dilation)) >> fixedpoint.SubpixelBits,
		MaxY: int(ty+(extentY+dilation)) >> fixedpoint.SubpixelBits,
	}
	startZ := tz - extentZ
	if startZ < 0 {
		return frame{}, instance{}, TooClose
	}
	rect = rect.intersect(s.viewport)
	if rect.empty() {
		return frame{}, instance{}, Culled
	}

	// Step 5: octant deltas, X/Y components scaled the same way as the
	// extents above so they stay in the same fixed-point units as tx/ty.
	var deltas [8]delta
	for o := 0; o < 8; o++ {
		sx, sy, sz := signOf(o, 0), signOf(o, 1), signOf(o, 2)
		deltas[o] = delta{
			x: int32(math.Round((m.Xx*sx + m.Yx*sy + m.Zx*sz) * subpixelXYScale)),
			y: int32(math.Round((m.Xy*sx + m.Yy*sy + m.Zy*sz) * subpixelXYScale)),
			z: int32(math.Round(m.Xz*sx+m.Yz*sy+m.Zz*sz)) + extentZ/2,
		}
	}

	// Step 6: octant map.
	var mapDeltas [8]octantmap.Delta
	for o, d := range deltas {
		mapDeltas[o] = octantmap.Delta{X: d.x, Y: d.y}
	}
	maps := octantmap.Build(mapDeltas, extentX, extentY)

	// Sub-octant deltas for the medium-node (u64) map: each octant's
	// own 8 grandchild centers, approximated as that octant's center
	// offset plus a half-scale grandchild pattern (the per-level-2
	// matrix isn't separately derived).
	var subDeltas [8][8]octantmap.Delta
	for o := 0; o < 8; o++ {
		for sub := 0; sub < 8; sub++ {
			subDeltas[o][sub] = octantmap.Delta{
				X: deltas[o].x + deltas[sub].x>>1,
				Y: deltas[o].y + deltas[sub].y>>1,
			}
		}
	}
	maps8 := octantmap.Build8(subDeltas, extentX, extentY)

	// Step 7: order/starting octant (the forward/reverse queue keys
	// themselves are computed on demand by ordertable.ForwardQueue /
	// ReverseQueue from these two values plus a node's own mask).
	order, startingOctant := ordSelect(m)

	root := frame{
		minX: rect.MinX, minY: rect.MinY, maxX: rect.MaxX, maxY: rect.MaxY,
		maxSize: fixedpoint.MaxI(rect.MaxX-rect.MinX, rect.MaxY-rect.MinY),
		x:       tx, y: ty, z: startZ,
		address: cfg.RootAddress,
		level:   0,
		store:   cfg.Octree,
	}

	inst := instance{
		cfg:            cfg,
		order:          order,
		startingOctant: startingOctant,
		deltas:         deltas,
		extentZ:        extentZ,
		maps:           maps,
		maps8:          maps8,
		rootExtentX:    extentX,
		rootExtentY:    extentY,
	}
	return root, inst, Rendered
}

// signOf returns the signed unit for octant o's bit-th axis: -1 if
// the bit is clear, +1 if set (glossary: +X=bit0, +Y=bit1, +Z=bit2).
func signOf(o, bit int) float64 {
	if o&(1<<uint(bit)) != 0 {
		return 1
	}
	return -1
}
