package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/voxsplat/octoscan/framebuf"
	"github.com/voxsplat/octoscan/splat"
)

// config holds the renderer knobs SPEC_FULL.md §6 exposes as
// configuration: resolution, the small-node map cutoff
// (MapThreshold; the medium-node cutoff is splat's fixed
// DefaultMapThreshold8), dilation, the default splat Shape, and the
// clear color. Mirrors
// noisetorch's flat config struct and initialize/read/write trio.
type config struct {
	Width, Height int
	MapThreshold  int
	AbsDilation   int32
	RelDilation   float64
	Shape         string
	Background    [4]uint8
	VSync         bool
	CacheSize     int
}

const configFileName = "octoview.toml"

func defaultConfig() config {
	return config{
		Width: 640, Height: 480,
		MapThreshold: splat.DefaultMapThreshold,
		AbsDilation:  0,
		RelDilation:  0,
		Shape:        "Cube",
		Background:   [4]uint8{16, 16, 24, 255},
		VSync:        true,
		CacheSize:    64,
	}
}

func initializeConfigIfNot(path string) {
	log.Println("checking if config needs to be initialized")

	dir := filepath.Dir(path)
	if ok, err := exists(dir); err != nil {
		log.Fatalf("couldn't check if config directory exists: %v", err)
	} else if !ok {
		if err := os.MkdirAll(dir, 0700); err != nil {
			log.Fatalf("couldn't create config directory: %v", err)
		}
	}

	if ok, err := exists(path); err != nil {
		log.Fatalf("couldn't check if config file exists: %v", err)
	} else if !ok {
		log.Println("initializing config")
		writeConfig(path, defaultConfig())
	}
}

func readConfig(path string) config {
	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		log.Fatalf("couldn't read config file: %v", err)
	}
	return cfg
}

func writeConfig(path string, cfg config) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(&cfg); err != nil {
		log.Fatalf("couldn't write config file: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		log.Fatalf("couldn't write config file: %v", err)
	}
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		if ok, err := exists(xdg); ok && err == nil {
			return filepath.Join(xdg, "octoview")
		}
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "octoview")
}

func (c config) shape() (splat.Shape, error) {
	switch c.Shape {
	case "Point":
		return splat.Point, nil
	case "Rectangle":
		return splat.Rectangle, nil
	case "Square":
		return splat.Square, nil
	case "Circle":
		return splat.Circle, nil
	case "Cube":
		return splat.Cube, nil
	default:
		return 0, fmt.Errorf("unknown shape %q", c.Shape)
	}
}

func (c config) background() framebuf.Color32 {
	return framebuf.Color32{R: c.Background[0], G: c.Background[1], B: c.Background[2], A: c.Background[3]}
}
