package cage

import (
	"testing"

	"github.com/voxsplat/octoscan/fixedpoint"
)

func unitCube() Corners {
	var c Corners
	for o := 0; o < 8; o++ {
		x, y, z := -1.0, -1.0, -1.0
		if o&1 != 0 {
			x = 1
		}
		if o&2 != 0 {
			y = 1
		}
		if o&4 != 0 {
			z = 1
		}
		c[o] = fixedpoint.Vec3{X: x, Y: y, Z: z}
	}
	return c
}

func TestBuildGridReproducesCornersAtLatticeExtremes(t *testing.T) {
	g := BuildGrid(unitCube())
	for o := 0; o < 8; o++ {
		ix, iy, iz := 0, 0, 0
		if o&1 != 0 {
			ix = 2
		}
		if o&2 != 0 {
			iy = 2
		}
		if o&4 != 0 {
			iz = 2
		}
		got := g[ix][iy][iz]
		want := unitCube()[o]
		if got != want {
			t.Errorf("octant %d: grid corner = %+v, want %+v", o, got, want)
		}
	}
	center := g[1][1][1]
	if center != (fixedpoint.Vec3{}) {
		t.Errorf("center = %+v, want origin", center)
	}
}

func TestSubCagePartitionsTheUnitCube(t *testing.T) {
	g := BuildGrid(unitCube())
	for o := uint8(0); o < 8; o++ {
		sub := g.SubCage(o)
		for _, v := range sub {
			if v.X < -1 || v.X > 1 || v.Y < -1 || v.Y > 1 || v.Z < -1 || v.Z > 1 {
				t.Fatalf("octant %d: vertex %+v outside the parent cage", o, v)
			}
		}
		// Every sub-cage has a vertex at the grid center.
		foundCenter := false
		for _, v := range sub {
			if v == (fixedpoint.Vec3{}) {
				foundCenter = true
			}
		}
		if !foundCenter {
			t.Errorf("octant %d: sub-cage %+v missing the shared grid center", o, sub)
		}
	}
}

func TestStartingOctantOrthographicPicksNearestCorner(t *testing.T) {
	g := BuildGrid(unitCube())
	// Orthographic view direction is the canonical +Z axis (the eye
	// sits somewhere along +Z looking back at the cage), so the +Z
	// half is nearest.
	o := StartingOctant(g, fixedpoint.Vec3{}, false)
	if o&4 == 0 {
		t.Errorf("starting octant %03b has +Z bit clear, want the +Z half nearest the canonical eye", o)
	}
}

func TestStartingOctantPerspectiveFollowsEyeVector(t *testing.T) {
	g := BuildGrid(unitCube())
	// An eye at z=-10 sits on the -Z side, so the -Z half is nearest.
	eye := fixedpoint.Vec3{Z: -10}
	o := StartingOctant(g, eye, true)
	if o&4 != 0 {
		t.Errorf("starting octant %03b has +Z bit set, want the -Z half nearest eye at z=-10", o)
	}
}

func TestQueueVisitsAllEightSubOctantsExactlyOnce(t *testing.T) {
	q := Queue(5)
	seen := map[uint8]bool{}
	for {
		octant, _, ok := q.Next()
		if !ok {
			break
		}
		q = q.Advance()
		if seen[octant] {
			t.Fatalf("octant %d visited twice", octant)
		}
		seen[octant] = true
	}
	if len(seen) != 8 {
		t.Errorf("visited %d octants, want 8", len(seen))
	}
}

func TestSubdivideStopsWhenMaskIsZero(t *testing.T) {
	calls := 0
	Subdivide(unitCube(), fixedpoint.Vec3{}, false, func(sub Corners, octant uint8, depth int) uint8 {
		calls++
		return 0
	})
	if calls != 8 {
		t.Errorf("calls = %d, want 8 (single level, no recursion)", calls)
	}
}

func TestSubdivideRecursesUntilMaskClears(t *testing.T) {
	calls := 0
	maxDepthSeen := 0
	Subdivide(unitCube(), fixedpoint.Vec3{}, false, func(sub Corners, octant uint8, depth int) uint8 {
		calls++
		if depth > maxDepthSeen {
			maxDepthSeen = depth
		}
		if depth < 2 {
			return 1 // ask for one more level
		}
		return 0
	})
	// Depth 0: 8 calls, each recursing once (8 pushes).
	// Depth 1: 8*8 calls, each recursing once.
	// Depth 2: 8*8*8 calls, none recursing.
	want := 8 + 8*8 + 8*8*8
	if calls != want {
		t.Errorf("calls = %d, want %d", calls, want)
	}
	if maxDepthSeen != 2 {
		t.Errorf("maxDepthSeen = %d, want 2", maxDepthSeen)
	}
}

func TestSubdivideRespectsMaxDepth(t *testing.T) {
	levels := 0
	Subdivide(unitCube(), fixedpoint.Vec3{}, false, func(sub Corners, octant uint8, depth int) uint8 {
		if depth > levels {
			levels = depth
		}
		// Only octant 0 ever asks for another level, so depth grows
		// linearly instead of the full tree blowing up exponentially.
		if octant == 0 {
			return 1
		}
		return 0
	})
	if levels != MaxDepth-1 {
		t.Errorf("deepest depth seen = %d, want %d", levels, MaxDepth-1)
	}
}

func TestProjectorOrthographicIsConstantScale(t *testing.T) {
	p := Projector{ZIntercept: 1, ZSlope: 0}
	x1, y1 := p.Project(fixedpoint.Vec3{X: 2, Y: 4, Z: 100})
	x2, y2 := p.Project(fixedpoint.Vec3{X: 2, Y: 4, Z: -100})
	if x1 != x2 || y1 != y2 {
		t.Errorf("orthographic projection varied with Z: (%v,%v) vs (%v,%v)", x1, y1, x2, y2)
	}
	if x1 != 2 || y1 != 4 {
		t.Errorf("Project(2,4,_) = (%v,%v), want (2,4) at unit scale", x1, y1)
	}
}

func TestProjectorPerspectiveShrinksWithDistance(t *testing.T) {
	p := Projector{ZIntercept: 1, ZSlope: 1}
	xNear, _ := p.Project(fixedpoint.Vec3{X: 1, Z: 1})
	xFar, _ := p.Project(fixedpoint.Vec3{X: 1, Z: 9})
	if !(xFar < xNear) {
		t.Errorf("xFar = %v, xNear = %v; want a farther point to project smaller", xFar, xNear)
	}
}
