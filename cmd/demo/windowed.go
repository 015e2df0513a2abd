package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fresnel-scene/assembly"
	"fresnel-scene/assets"
	"fresnel-scene/config"
	"fresnel-scene/core"
	"fresnel-scene/core/glfwwindow"
	"fresnel-scene/frame"
	"fresnel-scene/internal/logger"
	"fresnel-scene/internal/opengl"
	"fresnel-scene/renderer"
)

func runWindowed(ctx context.Context, cfg config.Config, opts *options) error {
	window, err := glfwwindow.New(cfg.Window)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	batch := assets.NewLoader(time.Duration(cfg.Assets.Timeout), cfg.Assets.Concurrency).NewBatch()
	s, err := assembly.Build(cfg, window, batch)
	if err != nil {
		return err
	}

	backend, err := opengl.NewBackend()
	if err != nil {
		return err
	}
	defer backend.Destroy()
	defer s.Close(backend)

	if err := backend.Prepare(s.Graph); err != nil {
		return err
	}

	// Frames render with placeholders until the loads land.
	batch.Start(ctx)

	engine := renderer.NewRenderEngine(backend, s.Viewport)
	stats := frame.NewStatsLogger(engine)
	d := &frame.Driver{
		Scene:    s.Graph,
		Camera:   s.Camera,
		Renderer: engine,
		Assets:   batch,
		Input:    core.NewInputManager(window),
		Controls: s.Controls,
		Capture:  s.Capture,
		AfterFrame: func(n uint64, dt time.Duration) {
			stats.Observe(n, dt)
			if window.IsKeyPressed(glfwwindow.KeyEscape) {
				window.SetShouldClose(true)
			}
			if w, h := window.Size(); w > 0 && h > 0 && (w != engine.Viewport.Width || h != engine.Viewport.Height) {
				engine.Resize(w, h)
			}
		},
	}

	logger.Log.Info("running", zap.String("backend", "opengl"))
	err = d.Run(ctx, frame.Limit(frame.NewWindowClock(window), opts.frames))
	if errs := batch.Errors(); len(errs) > 0 {
		logger.Log.Warn("some textures kept their placeholders", zap.Int("failed", len(errs)))
	}
	return err
}
