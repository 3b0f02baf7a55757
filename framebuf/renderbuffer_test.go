package framebuf

import "testing"

func TestBeginFillsBackgroundAndFarPlane(t *testing.T) {
	rb := New(4, 4)
	bg := Color32{R: 1, G: 2, B: 3, A: 4}
	rb.Begin(bg)

	for i, d := range rb.Depth() {
		if d != FarPlane {
			t.Fatalf("depth[%d] = %d, want FarPlane", i, d)
		}
	}
	for i, c := range rb.Color() {
		if c != bg {
			t.Fatalf("color[%d] = %+v, want %+v", i, c, bg)
		}
	}
}

func TestStrideIsPowerOfTwoCoveringWidth(t *testing.T) {
	cases := []struct {
		w, wantStride int
	}{
		{1, 1},
		{3, 4},
		{4, 4},
		{5, 8},
		{640, 1024},
	}
	for _, tc := range cases {
		rb := New(tc.w, 1)
		if got := rb.Stride(); got != tc.wantStride {
			t.Errorf("New(%d, 1).Stride() = %d, want %d", tc.w, got, tc.wantStride)
		}
	}
}

func TestEndNonTemporalPacksTightly(t *testing.T) {
	rb := New(3, 2)
	rb.Begin(Color32{})
	// write a distinguishable pixel at (2,1), which sits in the
	// padding region of a strided row (stride=4 for width 3).
	want := Color32{R: 9}
	rb.Color()[rb.PixelIndex(2, 1)] = want

	out := rb.End()
	if len(out) != 6 {
		t.Fatalf("End() len = %d, want 6 (3x2 tightly packed)", len(out))
	}
	if got := out[1*3+2]; got != want {
		t.Errorf("out[(2,1)] = %+v, want %+v", got, want)
	}
}

func TestTemporalUpscaleCyclesPhases(t *testing.T) {
	rb := NewTemporal(4, 4) // working resolution 2x2
	if rb.SizeX() != 2 || rb.SizeY() != 2 {
		t.Fatalf("working size = %dx%d, want 2x2", rb.SizeX(), rb.SizeY())
	}

	colors := []Color32{{R: 1}, {R: 2}, {R: 3}, {R: 4}}
	var out []Color32
	for i := 0; i < 4; i++ {
		rb.Begin(Color32{})
		rb.Color()[rb.PixelIndex(0, 0)] = colors[i]
		out = rb.End()
	}

	// jitterPhases is {0,0},{1,1},{1,0},{0,1}; working pixel (0,0)
	// lands at out (0,0), (1,1), (1,0), (0,1) across the 4 frames.
	wantAt := map[[2]int]Color32{
		{0, 0}: colors[0],
		{1, 1}: colors[1],
		{1, 0}: colors[2],
		{0, 1}: colors[3],
	}
	for pos, want := range wantAt {
		got := out[pos[1]*rb.outX+pos[0]]
		if got != want {
			t.Errorf("out[%v] = %+v, want %+v", pos, got, want)
		}
	}
}
