package frame

import (
	"time"

	"go.uber.org/zap"

	"fresnel-scene/internal/logger"
	"fresnel-scene/renderer"
)

// StatsSource reports per-frame draw counters.
type StatsSource interface {
	DrawStats() renderer.Stats
	ResetStats()
}

// StatsLogger accumulates frame times and logs the frame rate with the
// draw counters once per Interval. Use Observe as Driver.AfterFrame.
type StatsLogger struct {
	Source   StatsSource
	Interval time.Duration

	frames  int
	elapsed time.Duration
}

func NewStatsLogger(src StatsSource) *StatsLogger {
	return &StatsLogger{Source: src, Interval: time.Second}
}

func (l *StatsLogger) Observe(frame uint64, dt time.Duration) {
	l.frames++
	l.elapsed += dt
	if l.elapsed < l.Interval {
		return
	}
	fps := float64(l.frames) / l.elapsed.Seconds()
	fields := []zap.Field{
		zap.Uint64("frame", frame),
		zap.Float64("fps", fps),
	}
	if l.Source != nil {
		st := l.Source.DrawStats()
		fields = append(fields,
			zap.Int("passes", st.Passes/l.frames),
			zap.Int("objects", st.Objects/l.frames),
			zap.Int("triangles", st.Triangles/l.frames))
		l.Source.ResetStats()
	}
	logger.Log.Info("frame stats", fields...)
	l.frames = 0
	l.elapsed = 0
}
