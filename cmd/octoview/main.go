// Command octoview is the demo host for the octree splatting engine:
// it loads an octree file, owns one scene instance, drives an orbit
// camera off polled arrow keys, and blits the renderbuffer's color
// plane into an ebiten window every frame. Everything the core spec
// puts out of scope (windowing, input, the GPU blit) lives only here,
// the same boundary gintendo.go/console.Bus draw between the teacher's
// emulator core and its ebiten-driven shell.
package main

import (
	"flag"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/voxsplat/octoscan/fixedpoint"
	"github.com/voxsplat/octoscan/framebuf"
	"github.com/voxsplat/octoscan/octree"
	"github.com/voxsplat/octoscan/scene"
	"github.com/voxsplat/octoscan/splat"
)

var (
	octreeFile = flag.String("octree_file", "", "Path to a raw octree file (§6 record format).")
	configPath = flag.String("config", "", "Path to the TOML config file (defaults to the platform config dir).")
)

func main() {
	flag.Parse()

	path := *configPath
	if path == "" {
		path = filepath.Join(configDir(), configFileName)
	}
	initializeConfigIfNot(path)
	cfg := readConfig(path)

	if *octreeFile == "" {
		log.Fatalf("missing required -octree_file")
	}
	store, err := octree.Load(*octreeFile)
	if err != nil {
		log.Fatalf("couldn't load octree: %v", err)
	}

	shape, err := cfg.shape()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	sc, err := scene.New(cfg.CacheSize)
	if err != nil {
		log.Fatalf("couldn't create scene: %v", err)
	}
	sc.AddInstance(scene.Instance{
		ID:          *octreeFile,
		Octree:      store,
		RootAddress: 0,
		World:       fixedpoint.Identity(),
	})

	v := &view{
		cfg:    cfg,
		shape:  shape,
		scene:  sc,
		camera: newCamera(),
		rb:     framebuf.New(cfg.Width, cfg.Height),
		splat:  splat.New(),
	}

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("octoview")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(cfg.VSync)

	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
