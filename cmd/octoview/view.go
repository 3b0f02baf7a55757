package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/voxsplat/octoscan/framebuf"
	"github.com/voxsplat/octoscan/scene"
	"github.com/voxsplat/octoscan/splat"
)

// view is the ebiten.Game implementation: it owns the renderbuffer,
// splatter, scene and camera, and plays the same Layout/Draw/Update
// role console.Bus plays for the NES emulator, generalized from "blit
// the PPU's pixel buffer" to "blit the splatter's color plane".
type view struct {
	cfg    config
	shape  splat.Shape
	scene  *scene.Scene
	camera *camera
	rb     *framebuf.Renderbuffer
	splat  *splat.Splatter

	out *ebiten.Image
}

// Layout returns the renderer's fixed working resolution; ebiten
// scales the window to it, matching the teacher's Bus.Layout comment
// about forcing ebiten-side scaling rather than re-deriving our own.
func (v *view) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.cfg.Width, v.cfg.Height
}

// Update polls the camera. The splatting kernel itself has no
// suspension points (§5), so there's nothing else to drive here every
// tick beyond input.
func (v *view) Update() error {
	v.camera.poll()
	return nil
}

// Draw runs one frame of the engine: clear, splat every scene
// instance front-to-back, then blit the result.
func (v *view) Draw(screen *ebiten.Image) {
	v.rb.Begin(v.cfg.background())

	vp := v.camera.viewProjection(v.rb.SizeX(), v.rb.SizeY())
	v.splat.Begin(v.rb, splat.Rect{MaxX: v.rb.SizeX(), MaxY: v.rb.SizeY()})
	v.scene.Render(v.splat, vp, splat.Config{
		MapThreshold:     v.cfg.MapThreshold,
		MaxLevel:         -1,
		AbsoluteDilation: v.cfg.AbsDilation,
		RelativeDilation: v.cfg.RelDilation,
		Shape:            v.shape,
	})

	pixels := v.rb.End()
	if v.out == nil {
		v.out = ebiten.NewImage(v.rb.SizeX(), v.rb.SizeY())
	}
	v.out.WritePixels(colorsToBytes(pixels))
	screen.DrawImage(v.out, nil)
}

// colorsToBytes flattens the renderbuffer's tightly packed Color32
// plane (§6: "tightly packed RGBA32... color[y*sizeX+x]") into the
// byte slice ebiten.Image.WritePixels wants.
func colorsToBytes(c []framebuf.Color32) []byte {
	out := make([]byte, len(c)*4)
	for i, px := range c {
		out[i*4+0] = px.R
		out[i*4+1] = px.G
		out[i*4+2] = px.B
		out[i*4+3] = px.A
	}
	return out
}
