package octantmap

// Maps8 is the higher-resolution map variant used for nodes whose
// projected size falls in the mid-range between "use the coarse byte
// map" and "push the children": 8 bits per octant, 8 octants,
// packed into one u64 per cell, giving each octant's children their
// own sub-cell bit.
type Maps8 struct {
	Shift uint
	X     [MapSize]uint64
	Y     [MapSize]uint64
}

// Build8 fills MapX8/MapY8 from each octant's 8 sub-octant center
// deltas (subDeltas[octant][subOctant]), OR-ing bit (octant*8+sub)
// into every cell the sub-octant's projected bounds cover.
func Build8(subDeltas [8][8]Delta, extentX, extentY int32) Maps8 {
	var m Maps8
	m.Shift = shiftFor(extentX, extentY)
	center := int32(MapSize/2) << m.Shift
	halfX, halfY := extentX>>1, extentY>>1

	for o := 0; o < 8; o++ {
		for s := 0; s < 8; s++ {
			bit := uint64(1) << uint(o*8+s)
			d := subDeltas[o][s]

			nodeX := center + d.X
			lo, hi := cellRange(nodeX-halfX, nodeX+halfX, m.Shift)
			for c := lo; c <= hi; c++ {
				m.X[c] |= bit
			}

			nodeY := center + d.Y
			lo, hi = cellRange(nodeY-halfY, nodeY+halfY, m.Shift)
			for c := lo; c <= hi; c++ {
				m.Y[c] |= bit
			}
		}
	}
	return m
}

// Mask64 returns the raw 64-bit intersection for map cell (mx, my),
// with no node-mask filtering applied: splat's medium-node dispatch
// derives the chosen octant from this value via its 8-bit group
// masks, not from a pre-filtered byte mask.
func (m Maps8) Mask64(mx, my int) uint64 {
	return m.X[clampCell(mx)] & m.Y[clampCell(my)]
}
