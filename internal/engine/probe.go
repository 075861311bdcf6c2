package engine

import (
	"math"

	"github.com/ess476/gfx-final/internal/kdtree"
	"github.com/go-gl/mathgl/mgl64"
)

// ProbeHit describes where a probe ray meets an object.
type ProbeHit struct {
	ObjectID  string     `json:"object_id"`
	Index     int        `json:"index"`
	T         float64    `json:"t"`
	Point     [3]float64 `json:"point"`
	Normal    [3]float64 `json:"normal"`
	FrontFace bool       `json:"front_face"`
}

// ProbeResult is the answer of both queries for a single ray.
type ProbeResult struct {
	Origin    [3]float64 `json:"origin"`
	Direction [3]float64 `json:"direction"`
	Nearest   *ProbeHit  `json:"nearest"`
	All       []ProbeHit `json:"all"`
}

// Probe casts a single ray through the world and returns its nearest hit
// and every object it meets, closest first.
func Probe(w *World, origin, direction mgl64.Vec3) ProbeResult {
	res := ProbeResult{
		Origin:    origin,
		Direction: direction,
		All:       []ProbeHit{},
	}

	r := kdtree.Ray{Origin: origin, Direction: direction}
	if hit, ok := w.index.NearestRay(r, math.Inf(1)); ok {
		h := newProbeHit(hit)
		res.Nearest = &h
	}

	hits := w.index.All(origin, direction)
	kdtree.SortByDistance(hits)
	for _, hit := range hits {
		res.All = append(res.All, newProbeHit(hit))
	}
	return res
}

func newProbeHit(hit kdtree.Intersection) ProbeHit {
	return ProbeHit{
		ObjectID:  objectID(hit.Renderable),
		Index:     hit.Index,
		T:         hit.T,
		Point:     hit.Point,
		Normal:    hit.Normal,
		FrontFace: hit.FrontFace,
	}
}
