// Package framebuf implements the renderbuffer described by the
// splatting engine's data model: a depth+stencil plane and a color
// plane, internally strided to a power-of-two row width so pixel
// addressing is a shift instead of a multiply, with an optional
// 4-phase temporal upscale on End.
//
// Renderbuffer has no internal synchronization (§5): a caller slicing
// the viewport across goroutines must give each slice its own
// Renderbuffer.
package framebuf

import "math/bits"

var jitterPhases = [4]struct{ X, Y int }{
	{0, 0}, {1, 1}, {1, 0}, {0, 1},
}

// Renderbuffer owns the working depth/color planes the splatter
// writes into, and (when temporal upscaling is enabled) a separate
// tightly packed output plane at twice the working resolution.
type Renderbuffer struct {
	sizeX, sizeY int
	shift        uint
	stride       int
	depth        []int32
	color        []Color32

	temporal   bool
	outX, outY int
	out        []Color32
	frameCount uint64
}

// New creates a Renderbuffer whose working resolution equals its
// output resolution: no temporal upscaling.
func New(w, h int) *Renderbuffer {
	r := &Renderbuffer{}
	r.resize(w, h, false)
	return r
}

// NewTemporal creates a Renderbuffer that renders at half of outW x
// outH internally and reconstructs the full-resolution output by
// accumulating one quadrant of pixels per frame over a 4-frame cycle
// (§4.2).
func NewTemporal(outW, outH int) *Renderbuffer {
	r := &Renderbuffer{}
	r.resize(outW, outH, true)
	return r
}

func shiftFor(w int) uint {
	if w <= 1 {
		return 0
	}
	return uint(bits.Len(uint(w - 1)))
}

// Resize reallocates the buffer's planes if the output dimensions
// changed. The kernel never grows buffers mid-frame (§7); callers
// resize only in response to a viewport change between frames.
func (r *Renderbuffer) Resize(w, h int) {
	r.resize(w, h, r.temporal)
}

func (r *Renderbuffer) resize(outW, outH int, temporal bool) {
	workW, workH := outW, outH
	if temporal {
		workW, workH = outW/2, outH/2
	}
	if workW == r.sizeX && workH == r.sizeY && temporal == r.temporal && outW == r.outX && outH == r.outY {
		return
	}

	r.sizeX, r.sizeY = workW, workH
	r.shift = shiftFor(workW)
	r.stride = 1 << r.shift
	if workW == 0 || workH == 0 {
		r.depth = nil
		r.color = nil
	} else {
		r.depth = make([]int32, r.stride*workH)
		r.color = make([]Color32, r.stride*workH)
	}

	r.temporal = temporal
	r.outX, r.outY = outW, outH
	if outW == 0 || outH == 0 {
		r.out = nil
	} else {
		r.out = make([]Color32, outW*outH)
	}
	r.frameCount = 0
}

// SizeX returns the working-resolution width the splatter renders
// into (equal to the output width unless temporal upscaling is on).
func (r *Renderbuffer) SizeX() int { return r.sizeX }

// SizeY returns the working-resolution height.
func (r *Renderbuffer) SizeY() int { return r.sizeY }

// Stride returns the internal row stride (1<<shift).
func (r *Renderbuffer) Stride() int { return r.stride }

// Depth returns the working depth plane for direct pixel access.
func (r *Renderbuffer) Depth() []int32 { return r.depth }

// Color returns the working color plane for direct pixel access.
func (r *Renderbuffer) Color() []Color32 { return r.color }

// PixelIndex returns the index of pixel (x,y) within Depth()/Color().
func (r *Renderbuffer) PixelIndex(x, y int) int {
	return (y << r.shift) + x
}

// Begin clears the working planes: depth to FarPlane (stencil bit
// clear) and color to background.
func (r *Renderbuffer) Begin(background Color32) {
	for i := range r.depth {
		r.depth[i] = FarPlane
	}
	for i := range r.color {
		r.color[i] = background
	}
}

// End produces the tightly packed RGBA32 output buffer (§6). With no
// temporal upscaling this is a straight copy out of the strided
// working plane. With temporal upscaling enabled, it writes one
// quadrant of the output (chosen by frameCount mod 4) from the
// half-resolution working plane and leaves the other three quadrants
// holding whatever the previous three End calls wrote, producing a
// checkerboard-accumulated full-resolution image over 4 frames.
func (r *Renderbuffer) End() []Color32 {
	if !r.temporal {
		for y := 0; y < r.sizeY; y++ {
			src := r.color[y<<r.shift : (y<<r.shift)+r.sizeX]
			copy(r.out[y*r.outX:(y+1)*r.outX], src)
		}
		return r.out
	}

	phase := jitterPhases[r.frameCount%4]
	for wy := 0; wy < r.sizeY; wy++ {
		oy := wy*2 + phase.Y
		if oy >= r.outY {
			continue
		}
		row := wy << r.shift
		for wx := 0; wx < r.sizeX; wx++ {
			ox := wx*2 + phase.X
			if ox >= r.outX {
				continue
			}
			r.out[oy*r.outX+ox] = r.color[row+wx]
		}
	}
	r.frameCount++
	return r.out
}
