// Command demo renders the Fresnel sphere scene, either in a window with
// OpenGL or headless with the software rasterizer.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fresnel-scene/config"
	"fresnel-scene/internal/logger"
	"fresnel-scene/internal/opengl"
)

type options struct {
	configPath string
	headless   bool
	frames     int
	out        string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "demo",
		Short:         "Render a skybox, a checkerboard floor and a Fresnel sphere",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, opts)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "TOML file overriding the default scene")
	f.BoolVar(&opts.headless, "headless", false, "render with the software backend and no window")
	f.IntVar(&opts.frames, "frames", 0, "stop after N frames (0 runs until the window closes, headless renders 1)")
	f.StringVar(&opts.out, "out", "", "write the last frame to this PNG file (headless only)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level, overrides the config")
	return cmd
}

func loadConfig(opts *options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return cfg, err
		}
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, nil
}

func run(ctx context.Context, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		return err
	}
	defer logger.Sync()

	if opts.headless {
		err = runHeadless(ctx, cfg, opts)
	} else {
		err = runWindowed(ctx, cfg, opts)
	}
	if errors.Is(err, context.Canceled) {
		logger.Log.Info("interrupted")
		return nil
	}
	if err != nil {
		logFailure(err)
	}
	return err
}

func logFailure(err error) {
	var ce *opengl.CompileError
	if errors.As(err, &ce) {
		logger.Log.Error("shader compilation failed",
			zap.String("program", ce.Program),
			zap.String("stage", ce.Stage),
			zap.String("log", ce.Log))
		return
	}
	logger.Log.Error("demo failed", zap.Error(err))
}
