package ordertable

import (
	"testing"

	"github.com/voxsplat/octoscan/fixedpoint"
)

func TestCountsIsPopcount(t *testing.T) {
	cases := []struct {
		mask uint8
		want uint8
	}{
		{0x00, 0},
		{0xFF, 8},
		{0x81, 2},
		{0x0F, 4},
	}
	for _, tc := range cases {
		if got := Counts[tc.mask]; got != tc.want {
			t.Errorf("Counts[%#x] = %d, want %d", tc.mask, got, tc.want)
		}
	}
}

func TestOctantIndexRoundTrip(t *testing.T) {
	mask := uint8(0b10110100)
	present := []uint8{2, 4, 5, 7}
	for rank, octant := range present {
		gotIdx := OctantToIndex[int(mask)*8+int(octant)]
		if int(gotIdx) != rank {
			t.Errorf("OctantToIndex[mask,%d] = %d, want %d", octant, gotIdx, rank)
		}
		gotOctant := IndexToOctant[int(mask)*8+rank]
		if gotOctant != octant {
			t.Errorf("IndexToOctant[mask,%d] = %d, want %d", rank, gotOctant, octant)
		}
	}
}

func TestSparseQueueVisitsExactlyPresentOctants(t *testing.T) {
	mask := uint8(0b10100101)
	want := map[uint8]bool{0: true, 2: true, 5: true, 7: true}

	q := ForwardQueue(XYZ, 0, mask, false)
	got := map[uint8]bool{}
	for {
		octant, index, ok := q.Next()
		if !ok {
			break
		}
		if octant != index {
			t.Errorf("sparse queue: octant %d != index %d", octant, index)
		}
		got[octant] = true
		q = q.Advance()
	}
	if len(got) != len(want) {
		t.Fatalf("visited %v, want %v", got, want)
	}
	for o := range want {
		if !got[o] {
			t.Errorf("sparse queue missing octant %d", o)
		}
	}
}

func TestPackedQueueIndexIsRank(t *testing.T) {
	mask := uint8(0b10100101)
	q := ForwardQueue(ZYX, 3, mask, true)
	count := 0
	for {
		octant, index, ok := q.Next()
		if !ok {
			break
		}
		want := OctantToIndex[int(mask)*8+int(octant)]
		if index != want {
			t.Errorf("packed queue: octant %d index = %d, want %d", octant, index, want)
		}
		count++
		q = q.Advance()
	}
	if count != int(Counts[mask]) {
		t.Errorf("packed queue visited %d octants, want %d", count, Counts[mask])
	}
}

func TestReverseQueueIsForwardQueueReversed(t *testing.T) {
	mask := uint8(0b01111010)
	fwd := ForwardQueue(YZX, 5, mask, false)
	rev := ReverseQueue(YZX, 5, mask, false)

	var fwdSeq, revSeq []uint8
	for {
		o, _, ok := fwd.Next()
		if !ok {
			break
		}
		fwdSeq = append(fwdSeq, o)
		fwd = fwd.Advance()
	}
	for {
		o, _, ok := rev.Next()
		if !ok {
			break
		}
		revSeq = append(revSeq, o)
		rev = rev.Advance()
	}
	if len(fwdSeq) != len(revSeq) {
		t.Fatalf("forward has %d octants, reverse has %d", len(fwdSeq), len(revSeq))
	}
	for i := range fwdSeq {
		if fwdSeq[i] != revSeq[len(revSeq)-1-i] {
			t.Errorf("forward[%d]=%d, want reverse mirror %d", i, fwdSeq[i], revSeq[len(revSeq)-1-i])
		}
	}
}

func TestSelectOrderPicksAxisWithLargestZComponent(t *testing.T) {
	m := fixedpoint.Matrix{}
	m.Xz, m.Yz, m.Zz = 0.1, 0.9, 0.2
	if got := SelectOrder(m); got.axes()[0] != 1 {
		t.Errorf("SelectOrder outer axis = %d, want Y (1); order=%v", got.axes()[0], got)
	}

	m.Xz, m.Yz, m.Zz = 0.9, 0.1, 0.2
	if got := SelectOrder(m); got.axes()[0] != 0 {
		t.Errorf("SelectOrder outer axis = %d, want X (0); order=%v", got.axes()[0], got)
	}

	m.Xz, m.Yz, m.Zz = 0, 0, 0
	if got := SelectOrder(m); got != XYZ {
		t.Errorf("SelectOrder tie = %v, want XYZ", got)
	}
}

func TestStartingOctantIsThreeIndependentBits(t *testing.T) {
	m := fixedpoint.Identity()
	got := StartingOctant(m)
	if got > 7 {
		t.Fatalf("StartingOctant = %d, out of range", got)
	}
}
