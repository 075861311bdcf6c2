package kdtree

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half-line starting at Origin and going along Direction.
// Direction does not need to be normalized; distances are expressed in
// multiples of it.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Renderable is a scene primitive the tree can index.
//
// Intersect returns the closest hit with tMin < t < tMax. The tree sets the
// Renderable and Index fields of the returned record itself.
type Renderable interface {
	AABB() AABB
	Intersect(r Ray, tMin, tMax float64) (Intersection, bool)
}

// Intersection describes where a ray hit a renderable.
type Intersection struct {
	Renderable Renderable
	// Index is the position of Renderable in the slice passed to Build.
	Index int

	T         float64
	Point     mgl64.Vec3
	Normal    mgl64.Vec3
	FrontFace bool

	// Surface is shading data supplied by the renderable. The tree never
	// looks at it.
	Surface any
}

// SortByDistance orders hits nearest first. Hits at equal distance keep
// their traversal order.
func SortByDistance(hits []Intersection) {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].T < hits[j].T
	})
}
