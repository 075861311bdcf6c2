package engine

import (
	"image"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/ess476/gfx-final/internal/kdtree"
	"github.com/ess476/gfx-final/internal/scene"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	tileSize   = 32
	maxWorkers = 128
)

// RenderConfig defines internal render parameters.
type RenderConfig struct {
	Width        int
	Height       int
	SamplesPerPx int
	MaxDepth     int

	// Workers is the number of rendering goroutines. Defaults to the
	// number of CPUs.
	Workers int
	// Seed makes the random streams reproducible when not 0. Worker i uses
	// Seed+i, so images only repeat exactly with a single worker.
	Seed int64
	// DirectLight enables shadow rays towards emissive spheres on diffuse
	// surfaces.
	DirectLight bool

	Index IndexOptions
}

func (cfg RenderConfig) validate() error {
	if cfg.Width < 2 || cfg.Height < 2 {
		return errors.New("image must be at least 2x2").
			WithType(ErrTypeInvalidConfig).
			WithTag("width", cfg.Width).
			WithTag("height", cfg.Height)
	}
	if cfg.SamplesPerPx < 1 {
		return errors.New("samples per pixel must be positive").
			WithType(ErrTypeInvalidConfig).
			WithTag("samples_per_px", cfg.SamplesPerPx)
	}
	return nil
}

func (cfg RenderConfig) workerCount() int {
	n := cfg.Workers
	if n < 1 {
		n = runtime.NumCPU()
	}
	if n < 1 {
		n = 1
	}
	if n > maxWorkers {
		n = maxWorkers
	}
	return n
}

// Render performs a path tracing render of the given scene and returns a new image.
func Render(sc *scene.Scene, cfg RenderConfig) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	if err := RenderInto(sc, cfg, img, nil); err != nil {
		return nil, err
	}
	return img, nil
}

// RenderInto renders the scene into the provided image.
// If progress is not nil, it will be called periodically from worker goroutines
// after finishing a tile to allow interactive preview.
func RenderInto(sc *scene.Scene, cfg RenderConfig, img *image.RGBA, progress func()) error {
	w, err := BuildWorld(sc, cfg.Index)
	if err != nil {
		return err
	}
	return RenderWorld(w, sc, cfg, img, progress)
}

// RenderWorld renders an already built world. The camera and sky come from
// sc. Every worker queries the same world concurrently.
func RenderWorld(w *World, sc *scene.Scene, cfg RenderConfig, img *image.RGBA, progress func()) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	b := img.Bounds()
	if b.Dx() != cfg.Width || b.Dy() != cfg.Height {
		return errors.New("image size does not match the render config").
			WithType(ErrTypeInvalidConfig).
			WithTag("image", b.Size().String()).
			WithTag("width", cfg.Width).
			WithTag("height", cfg.Height)
	}
	if cfg.MaxDepth < 1 {
		cfg.MaxDepth = 1
	}

	start := time.Now()
	cam := newCamera(sc.Camera, cfg)
	background := backgroundFunc(sc)

	invWidth := 1.0 / float64(cfg.Width-1)
	invHeight := 1.0 / float64(cfg.Height-1)
	invSamples := 1.0 / float64(cfg.SamplesPerPx)
	heightMinus1 := float64(cfg.Height - 1)

	pix := img.Pix
	stride := img.Stride

	type tile struct {
		x0, y0, x1, y1 int
	}
	numTilesX := (cfg.Width + tileSize - 1) / tileSize
	numTilesY := (cfg.Height + tileSize - 1) / tileSize
	totalTiles := numTilesX * numTilesY

	tiles := make(chan tile, totalTiles)
	for ty := 0; ty < cfg.Height; ty += tileSize {
		for tx := 0; tx < cfg.Width; tx += tileSize {
			tiles <- tile{
				x0: tx,
				y0: ty,
				x1: min(tx+tileSize, cfg.Width),
				y1: min(ty+tileSize, cfg.Height),
			}
		}
	}
	close(tiles)

	var processedTiles int
	var progressMu sync.Mutex
	var wg sync.WaitGroup

	workers := cfg.workerCount()
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			var seed int64
			if cfg.Seed != 0 {
				seed = cfg.Seed + int64(worker)
			}
			t := tracer{
				world:       w,
				background:  background,
				rng:         newRandSource(seed),
				directLight: cfg.DirectLight,
			}

			for tl := range tiles {
				for y := tl.y0; y < tl.y1; y++ {
					yIdx := y * stride
					flipY := heightMinus1 - float64(y)

					for x := tl.x0; x < tl.x1; x++ {
						var col mgl64.Vec3
						for s := 0; s < cfg.SamplesPerPx; s++ {
							u := (float64(x) + t.rng.Float64()) * invWidth
							v := (flipY + t.rng.Float64()) * invHeight
							col = col.Add(t.rayColor(cam.getRay(u, v, t.rng), cfg.MaxDepth, false))
						}

						idx := yIdx + x*4
						pix[idx] = toByte(col[0] * invSamples)
						pix[idx+1] = toByte(col[1] * invSamples)
						pix[idx+2] = toByte(col[2] * invSamples)
						pix[idx+3] = 255
					}
				}

				instrumentRays(t.rays)
				t.rays = 0

				if progress != nil {
					progressMu.Lock()
					processedTiles++
					updateThreshold := max(1, totalTiles/20)
					shouldUpdate := processedTiles%updateThreshold == 0 || processedTiles == totalTiles
					progressMu.Unlock()
					if shouldUpdate {
						progress()
					}
				}
			}
		}(i)
	}
	wg.Wait()

	instrumentRender(w.Accelerator(), time.Since(start))
	logs.WithTag("scene", sc.Name).
		WithTag("width", cfg.Width).
		WithTag("height", cfg.Height).
		WithTag("samples_per_px", cfg.SamplesPerPx).
		WithTag("workers", workers).
		WithTag("duration", time.Since(start)).
		Info("render finished")
	return nil
}

// toByte gamma-corrects a linear channel value and quantizes it.
func toByte(c float64) uint8 {
	if c <= 0 || math.IsNaN(c) {
		return 0
	}
	v := math.Sqrt(c) * 255.999
	if v > 255.999 {
		v = 255.999
	}
	return uint8(v)
}

func backgroundFunc(sc *scene.Scene) func(kdtree.Ray) mgl64.Vec3 {
	if sc.Sky != nil && sc.Sky.Type == "gradient" {
		horizon := mgl64.Vec3{sc.Sky.Horizon.R, sc.Sky.Horizon.G, sc.Sky.Horizon.B}
		zenith := mgl64.Vec3{sc.Sky.Zenith.R, sc.Sky.Zenith.G, sc.Sky.Zenith.B}
		return func(r kdtree.Ray) mgl64.Vec3 {
			dirLen := r.Direction.Len()
			if dirLen == 0 {
				return horizon
			}
			// -1..1 on the Y component maps to horizon..zenith
			t := clamp((r.Direction[1]/dirLen+1.0)*0.5, 0, 1)
			return horizon.Mul(1 - t).Add(zenith.Mul(t))
		}
	}

	var bgColor mgl64.Vec3
	if sc.Sky != nil && sc.Sky.Type == "solid" {
		bgColor = mgl64.Vec3{sc.Sky.Color.R, sc.Sky.Color.G, sc.Sky.Color.B}
	} else {
		bgColor = mgl64.Vec3{sc.Background.R, sc.Background.G, sc.Background.B}
	}
	return func(kdtree.Ray) mgl64.Vec3 {
		return bgColor
	}
}

// tracer holds the per-goroutine state of a render.
type tracer struct {
	world       *World
	background  func(kdtree.Ray) mgl64.Vec3
	rng         *randSource
	directLight bool
	rays        int
}

// rayColor follows a path through the world. skipLights drops the emission
// of sampled lights, which the previous diffuse bounce already counted
// through directLight.
func (t *tracer) rayColor(r kdtree.Ray, depth int, skipLights bool) mgl64.Vec3 {
	if depth <= 0 {
		return mgl64.Vec3{}
	}
	t.rays++

	rec, ok := t.world.nearest(r)
	if !ok {
		return t.background(r)
	}
	mat := surfaceMaterial(rec)
	if mat == nil {
		return mgl64.Vec3{}
	}

	emitted := mat.emitted()
	if skipLights && isLight(rec.Renderable) {
		emitted = mgl64.Vec3{}
	}

	ok, attenuation, scattered := mat.scatter(t.rng, r, &rec)
	if !ok {
		return emitted
	}

	diffuse := t.directLight && mat.typ == matLambert
	if diffuse {
		emitted = emitted.Add(mulVec(attenuation, t.world.directLight(rec.Point, rec.Normal)))
	}

	next := t.rayColor(scattered, depth-1, diffuse)
	return emitted.Add(mulVec(attenuation, next))
}
