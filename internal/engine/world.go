package engine

import (
	"math"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/ess476/gfx-final/internal/kdtree"
	"github.com/ess476/gfx-final/internal/scene"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	ErrTypeInvalidConfig = "engine_invalid_config"
	ErrTypeInvalidScene  = "engine_invalid_scene"
)

// hitEpsilon keeps secondary rays from hitting the surface they start on.
const hitEpsilon = 0.001

// IndexOptions tunes the KD-tree built over a scene.
type IndexOptions struct {
	// MaxDepth overrides kdtree.MaxDepth when positive.
	MaxDepth int
	// LeafSize is the object count at or below which nodes are not split.
	LeafSize int
}

type index interface {
	NearestRay(r kdtree.Ray, tMax float64) (kdtree.Intersection, bool)
	All(origin, direction mgl64.Vec3) []kdtree.Intersection
}

// World is a scene prepared for ray queries.
type World struct {
	accel       Accelerator
	renderables []kdtree.Renderable
	lights      []*sphere
	tree        *kdtree.Tree
	index       index
}

// BuildWorld converts a scene description and indexes it with the current
// accelerator.
func BuildWorld(sc *scene.Scene, opts IndexOptions) (*World, error) {
	if sc == nil {
		return nil, errors.New("scene is nil").WithType(ErrTypeInvalidScene)
	}
	if err := sc.Validate(); err != nil {
		return nil, errors.New("invalid scene").
			WithType(ErrTypeInvalidScene).
			WithTag("scene", sc.Name).
			Wrap(err)
	}

	renderables, lights := sceneToWorld(sc)
	w := newWorld(renderables, lights, GetAccelerator(), opts)

	logs.WithTag("scene", sc.Name).
		WithTag("accelerator", w.accel.String()).
		WithTag("objects", len(renderables)).
		WithTag("lights", len(lights)).
		Debug("world built")
	return w, nil
}

func newWorld(renderables []kdtree.Renderable, lights []*sphere, accel Accelerator, opts IndexOptions) *World {
	w := &World{
		accel:       accel,
		renderables: renderables,
		lights:      lights,
	}

	switch accel {
	case AcceleratorLinear:
		w.index = linearIndex(renderables)

	default:
		buildOpts := []kdtree.Option{kdtree.WithMinDistance(hitEpsilon)}
		if opts.MaxDepth > 0 {
			buildOpts = append(buildOpts, kdtree.WithMaxDepth(opts.MaxDepth))
		}
		if opts.LeafSize > 0 {
			buildOpts = append(buildOpts, kdtree.WithLeafSize(opts.LeafSize))
		}

		start := time.Now()
		w.tree = kdtree.Build(renderables, buildOpts...)
		w.index = w.tree

		stats := w.tree.Stats()
		logs.WithTag("objects", stats.Renderables).
			WithTag("nodes", stats.Nodes).
			WithTag("leaves", stats.Leaves).
			WithTag("max_depth", stats.MaxDepth).
			WithTag("references", stats.References).
			WithTag("duration", time.Since(start)).
			Info("kd-tree built")
	}
	return w
}

// Accelerator returns the structure answering the queries of the world.
func (w *World) Accelerator() Accelerator {
	return w.accel
}

// Len returns the number of objects in the world.
func (w *World) Len() int {
	return len(w.renderables)
}

// Stats returns the statistics of the KD-tree. Worlds using another
// accelerator only report their object count.
func (w *World) Stats() kdtree.Stats {
	if w.tree == nil {
		return kdtree.Stats{Renderables: len(w.renderables)}
	}
	return w.tree.Stats()
}

// Validate checks the invariants of the KD-tree, if any.
func (w *World) Validate() error {
	if w.tree == nil {
		return nil
	}
	return w.tree.Validate()
}

func (w *World) nearest(r kdtree.Ray) (kdtree.Intersection, bool) {
	return w.index.NearestRay(r, math.Inf(1))
}

// linearIndex answers queries by testing every renderable.
type linearIndex []kdtree.Renderable

func (l linearIndex) NearestRay(r kdtree.Ray, tMax float64) (kdtree.Intersection, bool) {
	var best kdtree.Intersection
	found := false
	for i, rd := range l {
		hit, ok := rd.Intersect(r, hitEpsilon, tMax)
		if !ok {
			continue
		}
		hit.Renderable = rd
		hit.Index = i
		best = hit
		tMax = hit.T
		found = true
	}
	return best, found
}

func (l linearIndex) All(origin, direction mgl64.Vec3) []kdtree.Intersection {
	r := kdtree.Ray{Origin: origin, Direction: direction}
	var hits []kdtree.Intersection
	for i, rd := range l {
		hit, ok := rd.Intersect(r, hitEpsilon, math.Inf(1))
		if !ok {
			continue
		}
		hit.Renderable = rd
		hit.Index = i
		hits = append(hits, hit)
	}
	return hits
}
