// Package config loads the scene configuration from TOML. Every field has a
// default, so a file only needs the values it changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"fresnel-scene/core"
	"fresnel-scene/fresnel"
	"fresnel-scene/math"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Vec3 is written as a three element array in TOML.
type Vec3 [3]float32

func (v Vec3) Vec() math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// Duration accepts Go duration strings such as "10s".
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

type Config struct {
	Window   core.WindowConfig `toml:"window"`
	Camera   CameraConfig      `toml:"camera"`
	Controls ControlsConfig    `toml:"controls"`
	Light    LightConfig       `toml:"light"`
	Floor    FloorConfig       `toml:"floor"`
	Skybox   SkyboxConfig      `toml:"skybox"`
	Sphere   SphereConfig      `toml:"sphere"`
	Fresnel  fresnel.Params    `toml:"fresnel"`
	Capture  CaptureConfig     `toml:"capture"`
	Assets   AssetsConfig      `toml:"assets"`
	Log      LogConfig         `toml:"log"`
	// Background is the clear color as 0xRRGGBB.
	Background uint32 `toml:"background"`
}

type CameraConfig struct {
	FOV      float32 `toml:"fov"`
	Near     float32 `toml:"near"`
	Far      float32 `toml:"far"`
	Position Vec3    `toml:"position"`
	Target   Vec3    `toml:"target"`
}

type ControlsConfig struct {
	RotateSpeed float32 `toml:"rotate_speed"`
	PanSpeed    float32 `toml:"pan_speed"`
	ZoomSpeed   float32 `toml:"zoom_speed"`
	Damping     float32 `toml:"damping"`
}

type LightConfig struct {
	Position  Vec3    `toml:"position"`
	Color     uint32  `toml:"color"`
	Intensity float32 `toml:"intensity"`
}

type FloorConfig struct {
	Texture  string  `toml:"texture"`
	Size     float32 `toml:"size"`
	Segments int     `toml:"segments"`
	Y        float32 `toml:"y"`
	Repeat   float32 `toml:"repeat"`
}

type SkyboxConfig struct {
	// Face URLs are Prefix + Faces[i] + Suffix in +X, -X, +Y, -Y, +Z, -Z order.
	Prefix string    `toml:"prefix"`
	Faces  [6]string `toml:"faces"`
	Suffix string    `toml:"suffix"`
	Size   float32   `toml:"size"`
}

// FaceURLs expands the face names into full locations.
func (s SkyboxConfig) FaceURLs() [6]string {
	var urls [6]string
	for i, f := range s.Faces {
		urls[i] = s.Prefix + f + s.Suffix
	}
	return urls
}

type SphereConfig struct {
	Radius         float32 `toml:"radius"`
	WidthSegments  int     `toml:"width_segments"`
	HeightSegments int     `toml:"height_segments"`
	Position       Vec3    `toml:"position"`
	// Model optionally names a glTF file whose first mesh replaces the
	// procedural sphere, scaled to Radius.
	Model string `toml:"model"`
}

type CaptureConfig struct {
	Resolution int     `toml:"resolution"`
	Mipmaps    bool    `toml:"mipmaps"`
	Near       float32 `toml:"near"`
	Far        float32 `toml:"far"`
	Every      int     `toml:"every"`
}

type AssetsConfig struct {
	Timeout     Duration `toml:"timeout"`
	Concurrency int      `toml:"concurrency"`
}

type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Default returns the stock scene.
func Default() Config {
	return Config{
		Window: core.DefaultWindowConfig(),
		Camera: CameraConfig{
			FOV:      45,
			Near:     0.1,
			Far:      20000,
			Position: Vec3{0, 150, 400},
		},
		Controls: ControlsConfig{
			RotateSpeed: 0.005,
			PanSpeed:    0.001,
			ZoomSpeed:   0.95,
		},
		Light: LightConfig{
			Position:  Vec3{0, 250, 0},
			Color:     0xffffff,
			Intensity: 1,
		},
		Floor: FloorConfig{
			Texture:  "http://stemkoski.github.io/Three.js/images/checkerboard.jpg",
			Size:     1000,
			Segments: 10,
			Y:        -50.5,
			Repeat:   10,
		},
		Skybox: SkyboxConfig{
			Prefix: "http://stemkoski.github.io/Three.js/images/dawnmountain-",
			Faces:  [6]string{"xpos", "xneg", "ypos", "yneg", "zpos", "zneg"},
			Suffix: ".png",
			Size:   5000,
		},
		Sphere: SphereConfig{
			Radius:         100,
			WidthSegments:  64,
			HeightSegments: 32,
			Position:       Vec3{0, 50, 100},
		},
		Fresnel: fresnel.DefaultParams(),
		Capture: CaptureConfig{
			Resolution: 512,
			Mipmaps:    true,
			Near:       0.1,
			Far:        5000,
			Every:      1,
		},
		Assets: AssetsConfig{
			Timeout:     Duration(15 * time.Second),
			Concurrency: 4,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load overlays the TOML file at path on Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the ranges the scene depends on.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov %v not in (0, 180)", c.Camera.FOV)
	check(c.Camera.Near > 0 && c.Camera.Near < c.Camera.Far, "camera near %v must be positive and below far %v", c.Camera.Near, c.Camera.Far)
	check(c.Capture.Resolution > 0, "capture.resolution %d must be positive", c.Capture.Resolution)
	check(c.Capture.Near > 0 && c.Capture.Near < c.Capture.Far, "capture near %v must be positive and below far %v", c.Capture.Near, c.Capture.Far)
	check(c.Capture.Every >= 1, "capture.every %d must be at least 1", c.Capture.Every)
	check(c.Sphere.Radius > 0, "sphere.radius %v must be positive", c.Sphere.Radius)
	check(c.Sphere.WidthSegments >= 3 && c.Sphere.HeightSegments >= 2, "sphere segments %dx%d too few", c.Sphere.WidthSegments, c.Sphere.HeightSegments)
	check(c.Floor.Size > 0 && c.Floor.Segments >= 1, "floor size %v segments %d", c.Floor.Size, c.Floor.Segments)
	check(c.Floor.Repeat > 0, "floor.repeat %v must be positive", c.Floor.Repeat)
	check(c.Skybox.Size > 0, "skybox.size %v must be positive", c.Skybox.Size)
	check(c.Fresnel.RefractionRatio > 0, "fresnel.refraction_ratio %v must be positive", c.Fresnel.RefractionRatio)
	check(c.Assets.Timeout > 0, "assets.timeout must be positive")
	check(c.Assets.Concurrency >= 1, "assets.concurrency %d must be at least 1", c.Assets.Concurrency)

	return errors.Join(errs...)
}
