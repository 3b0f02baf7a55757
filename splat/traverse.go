package splat

import (
	"github.com/voxsplat/octoscan/fixedpoint"
	"github.com/voxsplat/octoscan/octantmap"
	"github.com/voxsplat/octoscan/octree"
	"github.com/voxsplat/octoscan/ordertable"
)

// Render walks cfg.Octree from cfg.RootAddress against the
// renderbuffer/viewport bound by the last Begin call, implementing
// the state machine of §4.5.6: Pop/WritePixel/Splat/MapSmall/
// MapMedium/OcclusionTest/PushChildren, terminal on an empty stack.
func (s *Splatter) Render(cfg Config) Result {
	if cfg.MaxLevel < 0 {
		cfg.MaxLevel = 1<<31 - 1
	}
	mapThreshold := cfg.MapThreshold
	if mapThreshold == 0 {
		mapThreshold = DefaultMapThreshold
	}

	root, inst, result := s.setup(cfg)
	if result != Rendered {
		return result
	}

	s.stack = append(s.stack[:0:cap(s.stack)], root)
	for len(s.stack) > 0 {
		fr := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		s.step(fr, &inst, mapThreshold)
	}
	return Rendered
}

func (s *Splatter) step(fr frame, inst *instance, mapThreshold int) {
	nodeMask := fr.store.Mask(fr.address)
	isSubstitute := fr.store != inst.cfg.Octree
	packed := fr.store.Layout() == octree.Packed

	// A cube-table substitution has its own shallow, fixed depth cap
	// (cubeStoreMaxLevel): it restarts fr.level at 0 (see
	// enterCubeShape), so reapplying the original instance's MaxLevel
	// here would recreate the same leaf dispatch over and over when
	// MaxLevel is small, looping forever instead of terminating.
	maxLevel := inst.cfg.MaxLevel
	if isSubstitute {
		maxLevel = cubeStoreMaxLevel
	}

	switch {
	case fr.maxSize < 1:
		s.dispatchSinglePixel(fr, inst, nodeMask, isSubstitute, packed, mapThreshold)
	case nodeMask == 0 || fr.level >= maxLevel:
		s.dispatchLeaf(fr, inst, isSubstitute)
	case fr.maxSize < mapThreshold:
		s.dispatchMapSmall(fr, inst, nodeMask, packed)
	case fr.maxSize < DefaultMapThreshold8:
		s.dispatchMapMedium(fr, inst, nodeMask, packed)
	default:
		s.dispatchGeneral(fr, inst, nodeMask, packed)
	}
}

func (s *Splatter) leafColor(fr frame) octree.Color24 {
	if fr.colorOverride != nil {
		return *fr.colorOverride
	}
	return fr.store.Data(fr.address)
}

// dispatchSinglePixel is state 1: the node covers at most one pixel.
func (s *Splatter) dispatchSinglePixel(fr frame, inst *instance, nodeMask uint8, isSubstitute, packed bool, mapThreshold int) {
	x := int(fr.x) >> fixedpoint.SubpixelBits
	y := int(fr.y) >> fixedpoint.SubpixelBits

	if nodeMask == 0 || mapThreshold > 1 || isSubstitute {
		s.writePixel(x, y, fr.z, s.leafColor(fr))
		return
	}

	mx, my := mapCell(inst.maps.Shift, fr, x, y)
	mask := inst.maps.Mask(mx, my, nodeMask)
	if mask == 0 {
		return
	}
	q := ordertable.ForwardQueue(inst.order, inst.startingOctant, mask, packed)
	octant, _, ok := q.Next()
	if !ok {
		return
	}
	rank := ordertable.OctantToIndex[int(nodeMask)*8+int(octant)]
	child := childAddress(fr.store, fr.address, octant, rank, packed)
	z := fr.z + (inst.deltas[octant].z >> uint(fr.level))
	s.writePixel(x, y, z, s.childColor(fr, child))
}

// dispatchLeaf is state 2: a leaf or the depth cap, splatted by Shape.
func (s *Splatter) dispatchLeaf(fr frame, inst *instance, isSubstitute bool) {
	z := fr.z + (inst.extentZ >> uint(fr.level))
	fr.z = z
	color := s.leafColor(fr)

	shape := inst.cfg.Shape
	if isSubstitute {
		// Inside a cube-table substitution only the branching pattern
		// produces the silhouette; leaves always fill their rect.
		shape = Rectangle
	}

	switch shape {
	case Point:
		s.fillPoint(fr, z, color)
	case Circle:
		s.fillCircle(fr, z, color)
	case Cube:
		s.enterCubeShape(fr, color)
	default: // Rectangle, Square
		s.fillRect(fr, z, color)
	}
}

// dispatchMapSmall is state 3.
func (s *Splatter) dispatchMapSmall(fr frame, inst *instance, nodeMask uint8, packed bool) {
	rect := Rect{fr.minX, fr.minY, fr.maxX, fr.maxY}.intersect(s.viewport)
	for y := rect.MinY; y < rect.MaxY; y++ {
		for x := rect.MinX; x < rect.MaxX; x++ {
			mx, my := mapCell(inst.maps.Shift, fr, x, y)
			mask := inst.maps.Mask(mx, my, nodeMask)
			if mask == 0 {
				continue
			}
			q := ordertable.ForwardQueue(inst.order, inst.startingOctant, mask, packed)
			octant, _, ok := q.Next()
			if !ok {
				continue
			}
			rank := ordertable.OctantToIndex[int(nodeMask)*8+int(octant)]
			child := childAddress(fr.store, fr.address, octant, rank, packed)
			z := fr.z + (inst.deltas[octant].z >> uint(fr.level))
			s.writePixel(x, y, z, s.childColor(fr, child))
		}
	}
}

// dispatchMapMedium is state 4: same per-pixel idea as MapSmall but
// resolved against the 64-bit map. Each octant whose 8-bit group of
// the compound mask has any bit set is a candidate, and the first
// candidate in front-to-back queue order wins.
func (s *Splatter) dispatchMapMedium(fr frame, inst *instance, nodeMask uint8, packed bool) {
	rect := Rect{fr.minX, fr.minY, fr.maxX, fr.maxY}.intersect(s.viewport)
	var nodeMask64 uint64
	for o := 0; o < 8; o++ {
		if nodeMask&(1<<uint(o)) != 0 {
			nodeMask64 |= 0xFF << uint(o*8)
		}
	}

	for y := rect.MinY; y < rect.MaxY; y++ {
		for x := rect.MinX; x < rect.MaxX; x++ {
			mx, my := mapCell(inst.maps8.Shift, fr, x, y)
			compound := inst.maps8.Mask64(mx, my) & nodeMask64
			if compound == 0 {
				continue
			}
			var present uint8
			for o := 0; o < 8; o++ {
				if compound>>uint(o*8)&0xFF != 0 {
					present |= 1 << uint(o)
				}
			}
			octant, _, _ := ordertable.ForwardQueue(inst.order, inst.startingOctant, present, packed).Next()
			rank := ordertable.OctantToIndex[int(nodeMask)*8+int(octant)]
			child := childAddress(fr.store, fr.address, octant, rank, packed)
			z := fr.z + (inst.deltas[octant].z >> uint(fr.level))
			s.writePixel(x, y, z, s.childColor(fr, child))
		}
	}
}

// dispatchGeneral is state 5: occlusion test then push children in
// reverse front-to-back order.
func (s *Splatter) dispatchGeneral(fr frame, inst *instance, nodeMask uint8, packed bool) {
	rect := Rect{fr.minX, fr.minY, fr.maxX, fr.maxY}.intersect(s.viewport)
	if rect.empty() {
		return
	}
	if occluded, _ := s.IsOccluded(rect, fr.z); occluded {
		return
	}

	q := ordertable.ReverseQueue(inst.order, inst.startingOctant, nodeMask, packed)
	level := fr.level + 1
	for {
		octant, index, ok := q.Next()
		if !ok {
			break
		}
		q = q.Advance()

		d := inst.deltas[octant]
		cx := fr.x + (d.x >> uint(fr.level))
		cy := fr.y + (d.y >> uint(fr.level))
		cz := fr.z + (d.z >> uint(fr.level))

		childExtentX := (inst.rootExtentX >> uint(level)) + inst.cfg.AbsoluteDilation
		childExtentY := (inst.rootExtentY >> uint(level)) + inst.cfg.AbsoluteDilation

		childRect := Rect{
			MinX: int(cx-childExtentX) >> fixedpoint.SubpixelBits,
			MinY: int(cy-childExtentY) >> fixedpoint.SubpixelBits,
			MaxX: int(cx+childExtentX) >> fixedpoint.SubpixelBits,
			MaxY: int(cy+childExtentY) >> fixedpoint.SubpixelBits,
		}.intersect(rect)
		if childRect.empty() {
			continue
		}

		child := childAddress(fr.store, fr.address, octant, index, packed)
		s.stack = append(s.stack, frame{
			minX: childRect.MinX, minY: childRect.MinY, maxX: childRect.MaxX, maxY: childRect.MaxY,
			maxSize:       fixedpoint.MaxI(childRect.MaxX-childRect.MinX, childRect.MaxY-childRect.MinY),
			x:             cx, y: cy, z: cz,
			address:       child,
			level:         level,
			store:         fr.store,
			colorOverride: fr.colorOverride,
		})
	}
}

// mapCell resolves the octant-map cell for absolute screen pixel
// (px, py) against fr. inst.maps/inst.maps8 are built once per
// instance from root-level octant deltas (§4.4), in subpixel units
// centered on the node's own position — not on absolute screen
// coordinates — so a query against a node found partway through
// traversal first measures the pixel's offset from that node's own
// center (fr.x, fr.y) in subpixel units, then rescales the offset
// back up to root-level units by <<level (the inverse of the >>level
// applied when descending octant deltas) before handing it to
// octantmap.Cell, which applies shift alone — the same convention
// Build/Build8 used to place deltas into map cells in the first
// place.
func mapCell(shift uint, fr frame, px, py int) (int, int) {
	pcx := int32(px)<<fixedpoint.SubpixelBits + fixedpoint.SubpixelHalf
	pcy := int32(py)<<fixedpoint.SubpixelBits + fixedpoint.SubpixelHalf
	offX := (pcx - fr.x) << uint(fr.level)
	offY := (pcy - fr.y) << uint(fr.level)
	return octantmap.Cell(shift, offX), octantmap.Cell(shift, offY)
}

// childAddress resolves octant's child index under fr's Layout: for
// Sparse, index==octant is also the raw offset; for Packed, index must
// be octant's rank among the parent's own Mask (from a Queue built for
// that Mask, or from ordertable.OctantToIndex).
func childAddress(store *octree.Store, parent uint32, octant, index uint8, packed bool) uint32 {
	base := store.Addr(parent)
	if packed {
		return base + uint32(index)
	}
	return base + uint32(octant)
}

// childColor reads a child's leaf color for the single-pixel/small/
// medium dispatch paths; substituted (cube-table) frames always use
// the carried override instead.
func (s *Splatter) childColor(fr frame, child uint32) octree.Color24 {
	if fr.colorOverride != nil {
		return *fr.colorOverride
	}
	return fr.store.Data(child)
}
