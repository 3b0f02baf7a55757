package framebuf

import "github.com/voxsplat/octoscan/fixedpoint"

// StencilBit is the sign bit of a signed 32-bit depth word. Every
// node depth produced by splat's setup is non-negative and well under
// 1<<31, so ORing in StencilBit always yields a negative int32 and
// never collides with a legitimate unsigned depth magnitude.
const StencilBit int32 = -1 << 31

// WithStencil marks z as "written this frame" by setting the sign
// bit. Used by splat on every pixel write.
func WithStencil(z int32) int32 {
	return z | StencilBit
}

// HasStencil reports whether d carries the "already written" flag.
// Because z is always non-negative, this is equivalent to d < 0.
func HasStencil(d int32) bool {
	return d < 0
}

// ClearStencil strips the stencil flag, restoring d to its plain
// depth magnitude for the next instance's cross-instance depth test.
func ClearStencil(d int32) int32 {
	return d &^ StencilBit
}

// FarPlane is the depth written by Begin: larger than any value a
// node write can produce, and with its stencil bit clear so the very
// first node touching a pixel always passes the depth+stencil test.
const FarPlane = int32(fixedpoint.FarPlane)
