package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"time"

	"go.uber.org/zap"

	"fresnel-scene/assembly"
	"fresnel-scene/assets"
	"fresnel-scene/config"
	"fresnel-scene/core"
	"fresnel-scene/frame"
	"fresnel-scene/internal/logger"
	"fresnel-scene/internal/software"
	"fresnel-scene/renderer"
)

func runHeadless(ctx context.Context, cfg config.Config, opts *options) error {
	surface := core.StaticSurface{Width: cfg.Window.Width, Height: cfg.Window.Height}

	batch := assets.NewLoader(time.Duration(cfg.Assets.Timeout), cfg.Assets.Concurrency).NewBatch()
	s, err := assembly.Build(cfg, surface, batch)
	if err != nil {
		return err
	}
	// Output must not depend on download timing.
	if err := batch.Wait(ctx); err != nil {
		return err
	}

	backend := software.NewBackend()
	engine := renderer.NewRenderEngine(backend, s.Viewport)
	stats := frame.NewStatsLogger(engine)
	d := &frame.Driver{
		Scene:      s.Graph,
		Camera:     s.Camera,
		Renderer:   engine,
		Assets:     batch,
		Controls:   s.Controls,
		Capture:    s.Capture,
		AfterFrame: stats.Observe,
	}

	frames := opts.frames
	if frames <= 0 {
		frames = 1
	}
	start := time.Now()
	clock := &frame.VirtualClock{Step: time.Second / 60, Frames: frames}
	if err := d.Run(ctx, clock); err != nil {
		return err
	}
	logger.Log.Info("headless run finished",
		zap.Uint64("frames", d.Frames()),
		zap.Duration("elapsed", time.Since(start)))

	if opts.out == "" {
		return nil
	}
	return writePNG(opts.out, backend)
}

func writePNG(path string, backend *software.Backend) error {
	img := backend.Image()
	if img == nil {
		return fmt.Errorf("no frame rendered")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	logger.Log.Info("frame written", zap.String("path", path))
	return nil
}
