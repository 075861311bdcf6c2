package engine

import (
	"math"

	"github.com/ess476/gfx-final/internal/kdtree"
	"github.com/go-gl/mathgl/mgl64"
)

// directLight estimates the radiance reflected by a Lambertian surface at
// p, per unit albedo, coming straight from the emissive spheres. Each light
// is treated as a uniform emitter covering its solid angle as seen from p.
func (w *World) directLight(p, normal mgl64.Vec3) mgl64.Vec3 {
	var total mgl64.Vec3

	for _, l := range w.lights {
		toLight := l.center.Sub(p)
		dist := toLight.Len()
		if dist <= l.radius {
			continue
		}
		dir := toLight.Mul(1 / dist)

		cosTheta := dir.Dot(normal)
		if cosTheta <= 0 {
			continue
		}

		vis := w.transmittance(p, dir, dist-l.radius, l)
		if vis == (mgl64.Vec3{}) {
			continue
		}

		sinMax2 := (l.radius * l.radius) / (dist * dist)
		solidAngle := 2 * math.Pi * (1 - math.Sqrt(1-sinMax2))

		total = total.Add(mulVec(l.mat.emit, vis).Mul(cosTheta * solidAngle / math.Pi))
	}
	return total
}

// transmittance returns how much light gets from p to the given light
// along dir, over distance maxT. Opaque objects block it and dielectrics
// filter it through their albedo.
func (w *World) transmittance(p, dir mgl64.Vec3, maxT float64, light *sphere) mgl64.Vec3 {
	hits := w.index.All(p, dir)
	kdtree.SortByDistance(hits)

	vis := mgl64.Vec3{1, 1, 1}
	for _, h := range hits {
		if h.T >= maxT {
			break
		}
		if h.Renderable == kdtree.Renderable(light) {
			continue
		}

		m := surfaceMaterial(h)
		if m == nil || !m.transmits() {
			return mgl64.Vec3{}
		}
		vis = mulVec(vis, m.albedo)
	}
	return vis
}

// isLight reports whether r is sampled by directLight.
func isLight(r kdtree.Renderable) bool {
	s, ok := r.(*sphere)
	return ok && s.light
}
