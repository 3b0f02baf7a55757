package splat

import (
	"github.com/voxsplat/octoscan/fixedpoint"
	"github.com/voxsplat/octoscan/framebuf"
	"github.com/voxsplat/octoscan/octree"
)

// writePixel applies the depth+stencil test from §4.5.5: the single
// signed comparison nodeZ < depth[idx] is simultaneously a depth test
// and a "not yet written by this instance" test, because a pixel this
// instance already wrote carries the stencil (sign) bit and so reads
// as negative, which no non-negative nodeZ can beat.
func (s *Splatter) writePixel(x, y int, nodeZ int32, c octree.Color24) {
	idx := s.rb.PixelIndex(x, y)
	depth := s.rb.Depth()
	if nodeZ >= depth[idx] {
		return
	}
	depth[idx] = framebuf.WithStencil(nodeZ)
	s.rb.Color()[idx].R = c.R
	s.rb.Color()[idx].G = c.G
	s.rb.Color()[idx].B = c.B
	s.trace = append(s.trace, idx)
}

// fillRect row-scan fills fr's clipped rectangle with c at depth z,
// used for Rectangle/Square and as the terminal fill for every shape
// once clipped to a single node's bounds (§4.5.3 state 2).
func (s *Splatter) fillRect(fr frame, z int32, c octree.Color24) {
	rect := Rect{fr.minX, fr.minY, fr.maxX, fr.maxY}.intersect(s.viewport)
	for y := rect.MinY; y < rect.MaxY; y++ {
		for x := rect.MinX; x < rect.MaxX; x++ {
			s.writePixel(x, y, z, c)
		}
	}
}

// fillPoint clips a dilated dot around (x,y) rather than the node's
// whole rectangle: used for Shape=Point, where the node's screen
// extent is treated as a pixel radius rather than a fill area.
func (s *Splatter) fillPoint(fr frame, z int32, c octree.Color24) {
	cx := int(fr.x) >> fixedpoint.SubpixelBits
	cy := int(fr.y) >> fixedpoint.SubpixelBits
	rect := Rect{cx, cy, cx + 1, cy + 1}.intersect(Rect{fr.minX, fr.minY, fr.maxX, fr.maxY}).intersect(s.viewport)
	for y := rect.MinY; y < rect.MaxY; y++ {
		for x := rect.MinX; x < rect.MaxX; x++ {
			s.writePixel(x, y, z, c)
		}
	}
}

// fillCircle does an incremental squared-distance fill of fr's
// rectangle, keeping only pixels within the node's projected radius
// of its screen center.
func (s *Splatter) fillCircle(fr frame, z int32, c octree.Color24) {
	rect := Rect{fr.minX, fr.minY, fr.maxX, fr.maxY}.intersect(s.viewport)
	cx := int(fr.x) >> fixedpoint.SubpixelBits
	cy := int(fr.y) >> fixedpoint.SubpixelBits
	radius := (fr.maxX - fr.minX) / 2
	if (fr.maxY-fr.minY)/2 > radius {
		radius = (fr.maxY - fr.minY) / 2
	}
	r2 := radius * radius

	for y := rect.MinY; y < rect.MaxY; y++ {
		dy := y - cy
		dy2 := dy * dy
		for x := rect.MinX; x < rect.MaxX; x++ {
			dx := x - cx
			if dx*dx+dy2 > r2 {
				continue
			}
			s.writePixel(x, y, z, c)
		}
	}
}

// enterCubeShape pushes one substitute frame that walks cubeStore in
// place of the original leaf, carrying c as every descendant's fixed
// color (§4.5.3 state 2, Shape=Cube).
func (s *Splatter) enterCubeShape(fr frame, c octree.Color24) {
	cc := c
	sub := fr
	sub.address = 0
	sub.level = 0
	sub.store = cubeStore
	sub.colorOverride = &cc
	s.stack = append(s.stack, sub)
}
