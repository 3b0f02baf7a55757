package framebuf

import "github.com/voxsplat/octoscan/octree"

// Color32 is a 4-byte RGBA pixel. It's laid out so the low three
// bytes alias a Color24 write: WriteRGB never touches A, letting a
// leaf's opaque color be written without disturbing whatever alpha
// convention a caller layered on top (§3).
type Color32 struct {
	R, G, B, A uint8
}

// FromLeaf builds an opaque Color32 from an octree leaf's Color24.
func FromLeaf(c octree.Color24) Color32 {
	return Color32{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// WriteRGB overwrites only the RGB channels of dst with c's, leaving
// A untouched — the aliasing behavior §3 calls for.
func WriteRGB(dst *Color32, c octree.Color24) {
	dst.R, dst.G, dst.B = c.R, c.G, c.B
}
