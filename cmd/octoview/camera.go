package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/voxsplat/octoscan/fixedpoint"
)

// camera is an orbit camera: yaw/pitch around the octree's center
// plus a zoom distance. poll reads the arrow keys once per Update,
// repurposing console.controller's per-frame button-polling idiom
// from discrete NES buttons to continuous yaw/pitch/zoom state.
type camera struct {
	yaw, pitch float64
	distance   float64
}

func newCamera() *camera {
	return &camera{distance: 3}
}

const (
	yawSpeed    = 0.035
	pitchSpeed  = 0.035
	zoomSpeed   = 0.05
	minPitch    = -1.5
	maxPitch    = 1.5
	minDistance = 1.2
	maxDistance = 12
)

func (c *camera) poll() {
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		c.yaw -= yawSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		c.yaw += yawSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		c.pitch -= pitchSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		c.pitch += pitchSpeed
	}
	if c.pitch < minPitch {
		c.pitch = minPitch
	}
	if c.pitch > maxPitch {
		c.pitch = maxPitch
	}

	if ebiten.IsKeyPressed(ebiten.KeyPageUp) {
		c.distance -= zoomSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyPageDown) {
		c.distance += zoomSpeed
	}
	if c.distance < minDistance {
		c.distance = minDistance
	}
	if c.distance > maxDistance {
		c.distance = maxDistance
	}
}

// viewProjection builds the matrix mapping the octree's (-1,-1,-1)..
// (1,1,1) object cube into renderbuffer space (§3 "Projection
// matrix"): an orbit rotation (yaw around Y, then pitch around X)
// composed with an orthographic scale/translate into
// [0,sizeX]x[0,sizeY]x[0,2^DepthBits).
func (c *camera) viewProjection(sizeX, sizeY int) fixedpoint.Matrix {
	cy, sy := math.Cos(c.yaw), math.Sin(c.yaw)
	cp, sp := math.Cos(c.pitch), math.Sin(c.pitch)

	rot := fixedpoint.Matrix{
		Xx: cy, Xy: 0, Xz: -sy,
		Yx: sp * sy, Yy: cp, Yz: sp * cy,
		Zx: cp * sy, Zy: -sp, Zz: cp * cy,
	}

	half := float64(sizeX)
	if sizeY < sizeX {
		half = float64(sizeY)
	}
	half /= 2 * c.distance

	scale := fixedpoint.Matrix{
		Xx: half, Yy: half, Zz: half,
		Tx: float64(sizeX) / 2, Ty: float64(sizeY) / 2,
		// 8x the scale margin comfortably clears the root extent's
		// worst case (|Xz|+|Yz|+|Zz|)*2 <= 6*half under any orbit
		// angle, keeping startZ = Tz-extentZ positive (no TooClose).
		Tz: half * 8,
	}

	return rot.Mul(scale)
}
