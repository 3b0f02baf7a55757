package splat

import "github.com/voxsplat/octoscan/octree"

// cubeStore is the synthetic 46-node "cube octree" the leaf branch
// substitutes in for Shape=Cube (§4.5.3 state 2): a coarse, static
// subdivision that gives a solid cube's screen silhouette correct
// blocky edges no matter its orientation, without the kernel needing
// a second traversal codepath. It carries no color data — every leaf
// reached while rendering it uses the originating leaf's color via
// frame.colorOverride instead of its own (always-empty) Data.
//
// Layout: Packed. Root (index 0) has all 8 octants present; four of
// its children (octants 0-3) fully subdivide again (8 leaves each);
// a fifth (octant 4) partially subdivides (5 leaves), rounding the
// total out to 46 nodes; the remaining three (octants 5-7) are bare
// leaves. This is read-only after init, like the rest of this
// package's global tables (§9 "Global read-only tables").
var cubeStore *octree.Store

const cubeStoreMaxLevel = 2

func init() {
	nodes := make([]octree.Node, 46)

	nodes[0] = octree.Node{Address: 1, Mask: 0xFF}

	const (
		l1Start   = 1
		fullMask  = 0xFF
		partMask  = 0b00011111 // 5 octants present
	)

	// Octants 0-3 (indices 1-4): each subdivides into 8 leaves.
	childBase := uint32(9)
	for octant := 0; octant < 4; octant++ {
		nodes[l1Start+octant] = octree.Node{Address: childBase, Mask: fullMask}
		for i := 0; i < 8; i++ {
			nodes[childBase+uint32(i)] = octree.Node{}
		}
		childBase += 8
	}

	// Octant 4 (index 5): subdivides into 5 leaves.
	nodes[l1Start+4] = octree.Node{Address: childBase, Mask: partMask}
	for i := 0; i < 5; i++ {
		nodes[childBase+uint32(i)] = octree.Node{}
	}
	childBase += 5

	// Octants 5-7 (indices 6-8): bare leaves.
	for octant := 5; octant < 8; octant++ {
		nodes[l1Start+octant] = octree.Node{}
	}

	if childBase != 46 {
		panic("splat: cube octree table miscounted")
	}

	cubeStore = octree.New(nodes, octree.Packed)
}
