package octantmap

import "testing"

func TestShiftForCoversRequestedExtent(t *testing.T) {
	cases := []struct{ extentX, extentY int32 }{
		{0, 0}, {1, 1}, {30, 10}, {1000, 2000},
	}
	for _, tc := range cases {
		shift := shiftFor(tc.extentX, tc.extentY)
		need := tc.extentX*2 + 1
		if tc.extentY*2+1 > need {
			need = tc.extentY*2 + 1
		}
		if int32(MapSize-2)<<shift < need {
			t.Errorf("shiftFor(%d,%d) = %d, does not cover %d", tc.extentX, tc.extentY, shift, need)
		}
	}
}

func TestBuildSetsOctantBitOverProjectedBounds(t *testing.T) {
	var deltas [8]Delta
	deltas[3] = Delta{X: 0, Y: 0}
	m := Build(deltas, 8, 8)

	center := MapSize / 2
	if m.X[center]&(1<<3) == 0 {
		t.Errorf("MapX[center] missing octant 3's bit")
	}
	if m.Y[center]&(1<<3) == 0 {
		t.Errorf("MapY[center] missing octant 3's bit")
	}
}

func TestMaskIntersectsAxesAndNodeMask(t *testing.T) {
	var deltas [8]Delta
	m := Build(deltas, 4, 4)
	center := MapSize / 2

	got := m.Mask(center, center, 0xFF)
	if got == 0 {
		t.Fatalf("Mask at center with full node mask = 0, want nonzero")
	}

	got = m.Mask(center, center, 0x00)
	if got != 0 {
		t.Errorf("Mask with empty nodeMask = %#x, want 0", got)
	}
}

func TestMaskClampsOutOfRangeCoordinates(t *testing.T) {
	var deltas [8]Delta
	m := Build(deltas, 4, 4)
	// must not panic for wildly out-of-range map coordinates.
	_ = m.Mask(-100, 9999, 0xFF)
}

func TestBuild8SetsSubOctantBit(t *testing.T) {
	var sub [8][8]Delta
	sub[2][5] = Delta{X: 0, Y: 0}
	m := Build8(sub, 8, 8)

	center := MapSize / 2
	bit := uint64(1) << uint(2*8+5)
	if m.X[center]&bit == 0 {
		t.Errorf("MapX8[center] missing octant 2 sub-octant 5's bit")
	}
	if m.Y[center]&bit == 0 {
		t.Errorf("MapY8[center] missing octant 2 sub-octant 5's bit")
	}
}

func TestMask64ClampsOutOfRangeCoordinates(t *testing.T) {
	var sub [8][8]Delta
	m := Build8(sub, 4, 4)
	_ = m.Mask64(-5, 500)
}
