// Package splat implements the front-to-back octree splatting kernel
// (§4.5): the traversal/rasterization engine that walks one octree
// instance against one renderbuffer and leaves every covered pixel
// holding the color of its nearest visible leaf.
//
// A Splatter is reused across instances within a frame: Begin binds
// it to a renderbuffer and viewport, Render walks one instance, and
// Finish clears the per-instance stencil trace before the next
// instance's Render call.
package splat

import (
	"github.com/voxsplat/octoscan/fixedpoint"
	"github.com/voxsplat/octoscan/framebuf"
	"github.com/voxsplat/octoscan/octree"
	"github.com/voxsplat/octoscan/ordertable"
)

// Result is the outcome of one Render call (§4.5.7).
type Result int

const (
	Rendered Result = iota
	TooBig
	TooClose
	Culled
)

func (r Result) String() string {
	switch r {
	case Rendered:
		return "Rendered"
	case TooBig:
		return "TooBig"
	case TooClose:
		return "TooClose"
	case Culled:
		return "Culled"
	default:
		return "Result(?)"
	}
}

// Shape selects how a leaf or depth-capped node is rasterized once
// traversal stops subdividing it. It's a small closed set switched at
// the kernel's leaf branch rather than dispatched virtually, so the
// inner loop stays branch-predictable (§9).
type Shape int

const (
	Point Shape = iota
	Rectangle
	Square
	Circle
	Cube
)

// Rect is a screen-space rectangle, end-exclusive like a slice range.
type Rect struct {
	MinX, MinY, MaxX, MaxY int
}

func (r Rect) empty() bool { return r.MinX >= r.MaxX || r.MinY >= r.MaxY }

func (r Rect) intersect(o Rect) Rect {
	out := Rect{
		MinX: fixedpoint.MaxI(r.MinX, o.MinX),
		MinY: fixedpoint.MaxI(r.MinY, o.MinY),
		MaxX: fixedpoint.MinI(r.MaxX, o.MaxX),
		MaxY: fixedpoint.MinI(r.MaxY, o.MaxY),
	}
	return out
}

// Config holds one Render call's inputs: the instance's octree,
// its screen-space projection, and the splat-shape/dilation knobs
// (§6).
type Config struct {
	Matrix       fixedpoint.Matrix
	Octree       *octree.Store
	RootAddress  uint32
	MapThreshold int // small-node cutoff; 0 selects DefaultMapThreshold
	MaxLevel     int // depth cap; -1 disables
	AbsoluteDilation int32
	RelativeDilation float64
	Shape        Shape
	// BoundsColor and ShowBounds are carried on Config, but Render does
	// not read them: no bounds overlay is drawn.
	BoundsColor  framebuf.Color32
	ShowBounds   bool
}

// DefaultMapThreshold and DefaultMapThreshold8 are the conservative
// choice from §9's open question. The small-node cutoff is a Config
// knob (MapThreshold); the medium-node cutoff is the fixed package
// constant DefaultMapThreshold8 below and is not configurable, since
// the boundary only shifts where the 8-wide map kicks in and is
// visually immaterial for thresholds this small.
const (
	DefaultMapThreshold  = 2
	DefaultMapThreshold8 = 3
)

// Splatter owns the per-instance scratch the kernel needs: the
// explicit node stack and the stencil trace buffer. Neither is
// shared across concurrent Splatters (§5); a tile-parallel caller
// gives each goroutine its own.
type Splatter struct {
	rb       *framebuf.Renderbuffer
	viewport Rect

	stack []frame
	trace []int
}

// New returns a ready-to-use Splatter.
func New() *Splatter {
	return &Splatter{}
}

// Begin binds s to a renderbuffer and viewport for the coming frame's
// sequence of Render calls.
func (s *Splatter) Begin(rb *framebuf.Renderbuffer, viewport Rect) {
	s.rb = rb
	s.viewport = viewport.intersect(Rect{0, 0, rb.SizeX(), rb.SizeY()})
	s.stack = s.stack[:0]
	s.trace = s.trace[:0]
}

// Finish clears the stencil bit from every pixel Render touched since
// the last Finish, without a full-buffer clear (§4.5.5).
func (s *Splatter) Finish() {
	depth := s.rb.Depth()
	for _, idx := range s.trace {
		depth[idx] = framebuf.ClearStencil(depth[idx])
	}
	s.trace = s.trace[:0]
}

// IsOccluded scans the depth plane within region and reports whether
// every pixel there already holds a depth ≤ z, plus the last row
// index it scanned — used by the scene driver to skip expensive work
// under an opaque instance (§4.7).
func (s *Splatter) IsOccluded(region Rect, z int32) (occluded bool, lastY int) {
	region = region.intersect(s.viewport)
	if region.empty() {
		return true, region.MinY
	}
	depth := s.rb.Depth()
	for y := region.MinY; y < region.MaxY; y++ {
		lastY = y
		for x := region.MinX; x < region.MaxX; x++ {
			// A pixel rejects the candidate when its existing depth
			// already beats z (z >= depth[i]). If even one pixel's
			// existing depth does NOT beat z, the candidate isn't
			// fully occluded.
			if z < depth[s.rb.PixelIndex(x, y)] {
				return false, lastY
			}
		}
	}
	return true, lastY
}

func ordSelect(m fixedpoint.Matrix) (ordertable.Order, uint8) {
	return ordertable.SelectOrder(m), ordertable.StartingOctant(m)
}
