package assets

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"fresnel-scene/core"
	"fresnel-scene/internal/logger"
	"fresnel-scene/scene"
)

// DefaultPlaceholder is the color shown until a texture arrives, and for
// good if it never does.
var DefaultPlaceholder = core.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}

type job struct {
	location string
	apply    func(tex *scene.Texture, err error)
}

type result struct {
	job     int
	tex     *scene.Texture
	err     error
	elapsed time.Duration
}

// Batch is a set of textures loaded together. Register textures with
// Texture and Cube, then call Start once. Resolve and Wait must be called
// from the goroutine that renders.
type Batch struct {
	loader      *Loader
	Placeholder core.Color

	jobs    []job
	results chan result
	group   errgroup.Group
	once    sync.Once
	started bool

	pending int
	errs    []error
}

func (l *Loader) NewBatch() *Batch {
	return &Batch{loader: l, Placeholder: DefaultPlaceholder}
}

func (b *Batch) add(location string, apply func(*scene.Texture, error)) {
	if b.started {
		panic("assets: texture registered after Start")
	}
	b.jobs = append(b.jobs, job{location: location, apply: apply})
	b.pending++
}

// Texture returns a placeholder that takes the pixels of location once it
// resolves. The returned texture's sampling fields may be set freely.
func (b *Batch) Texture(location string) *scene.Texture {
	tex := scene.NewSolidTexture(location, b.Placeholder)
	b.add(location, func(loaded *scene.Texture, err error) {
		if err != nil {
			return
		}
		tex.Replace(loaded)
	})
	return tex
}

// Cube returns a cube of placeholder faces. The six faces are swapped in
// together once all of them resolved, scaled to a common square size.
func (b *Batch) Cube(name string, locations [6]string) *scene.CubeTexture {
	cube := scene.NewSolidCubeTexture(name, b.Placeholder)

	var loaded [6]*scene.Texture
	remaining := 6
	for i, loc := range locations {
		i := i
		b.add(loc, func(tex *scene.Texture, err error) {
			if err == nil {
				loaded[i] = tex
			}
			remaining--
			if remaining == 0 {
				b.assembleCube(cube, loaded)
			}
		})
	}
	return cube
}

// assembleCube replaces every face of cube with the loaded one, scaled to
// the largest loaded edge. Faces that failed get a placeholder of that size.
func (b *Batch) assembleCube(cube *scene.CubeTexture, loaded [6]*scene.Texture) {
	size := 0
	for _, f := range loaded {
		if f != nil {
			size = max(size, f.Width, f.Height)
		}
	}
	if size == 0 {
		return
	}
	fill := b.Placeholder.NRGBA()
	for i, f := range loaded {
		dst := image.NewRGBA(image.Rect(0, 0, size, size))
		switch {
		case f == nil:
			draw.Draw(dst, dst.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
		case f.Width == size && f.Height == size:
			copy(dst.Pix, f.Pixels)
		default:
			draw.CatmullRom.Scale(dst, dst.Bounds(), f.Image(), f.Image().Bounds(), draw.Src, nil)
		}
		cube.Faces[i].Replace(&scene.Texture{Width: size, Height: size, Pixels: dst.Pix})
	}
	cube.Version++
}

// Start launches every registered fetch, at most Loader.Concurrency at a
// time. Later calls do nothing.
func (b *Batch) Start(ctx context.Context) {
	b.once.Do(func() {
		b.started = true
		b.results = make(chan result, len(b.jobs))
		if b.loader.Concurrency > 0 {
			b.group.SetLimit(b.loader.Concurrency)
		}
		logger.Log.Info("loading textures", zap.Int("count", len(b.jobs)))
		for i, j := range b.jobs {
			i, j := i, j
			b.group.Go(func() error {
				start := time.Now()
				tex, err := b.loader.Fetch(ctx, j.location)
				b.results <- result{job: i, tex: tex, err: err, elapsed: time.Since(start)}
				return nil
			})
		}
	})
}

// Resolve applies every fetch that completed since the last call without
// blocking and returns how many it applied.
func (b *Batch) Resolve() int {
	if !b.started {
		return 0
	}
	n := 0
	for {
		select {
		case r := <-b.results:
			b.apply(r)
			n++
		default:
			return n
		}
	}
}

func (b *Batch) apply(r result) {
	j := b.jobs[r.job]
	b.pending--
	if r.err != nil {
		err := fmt.Errorf("load %s: %w", j.location, r.err)
		b.errs = append(b.errs, err)
		logger.Log.Warn("texture load failed, keeping placeholder",
			zap.String("url", j.location), zap.Error(r.err))
	} else {
		logger.Log.Debug("texture loaded",
			zap.String("url", j.location),
			zap.Int("width", r.tex.Width),
			zap.Int("height", r.tex.Height),
			zap.Duration("elapsed", r.elapsed))
	}
	j.apply(r.tex, r.err)
}

// Wait blocks until every fetch finished or ctx is done, then resolves.
func (b *Batch) Wait(ctx context.Context) error {
	b.Start(ctx)
	done := make(chan struct{})
	go func() {
		_ = b.group.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		b.Resolve()
		return ctx.Err()
	}
	b.Resolve()
	return nil
}

// Pending is the number of registered textures not yet resolved.
func (b *Batch) Pending() int {
	return b.pending
}

// Errors lists the failed loads resolved so far.
func (b *Batch) Errors() []error {
	return b.errs
}
