package ordertable

import "math/bits"

// Counts[mask] is the number of children present under an octree node
// whose child bitmask is mask: popcount(mask).
var Counts [256]uint8

// OctantToIndex[mask*8+octant] is the rank of octant among the
// children present in mask: the position it would occupy in a Packed
// node's contiguous child run. Only meaningful when bit octant of
// mask is set.
var OctantToIndex [256 * 8]uint8

// IndexToOctant[mask*8+index] is the inverse of OctantToIndex: the
// octant holding the index'th present child of mask.
var IndexToOctant [256 * 8]uint8

func init() {
	for mask := 0; mask < 256; mask++ {
		Counts[mask] = uint8(bits.OnesCount8(uint8(mask)))

		var rank uint8
		for octant := 0; octant < 8; octant++ {
			if mask&(1<<octant) == 0 {
				continue
			}
			OctantToIndex[mask*8+octant] = rank
			IndexToOctant[mask*8+int(rank)] = uint8(octant)
			rank++
		}
	}
}
