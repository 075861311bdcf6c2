package kdtree

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis names one of the three coordinate axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "unknown"
	}
}

// AxisForDepth returns the split axis used at the given tree depth.
// Axes cycle X, Y, Z regardless of the geometry below the node.
func AxisForDepth(depth int) Axis {
	return Axis(depth % 3)
}

// AABB is an axis-aligned bounding box given by its min and max corners.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewAABB builds a box from two opposite corners in any order.
func NewAABB(a, b mgl64.Vec3) AABB {
	var box AABB
	for i := 0; i < 3; i++ {
		box.Min[i] = math.Min(a[i], b[i])
		box.Max[i] = math.Max(a[i], b[i])
	}
	return box
}

// EmptyAABB returns the identity element of Union.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box encloses no point at all.
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Union returns the smallest box enclosing both b and o.
func (b AABB) Union(o AABB) AABB {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], o.Min[i])
		b.Max[i] = math.Max(b.Max[i], o.Max[i])
	}
	return b
}

// Contains reports whether o lies entirely inside b. Empty boxes are
// contained in everything.
func (b AABB) Contains(o AABB) bool {
	if o.IsEmpty() {
		return true
	}
	for i := 0; i < 3; i++ {
		if o.Min[i] < b.Min[i] || o.Max[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Extent returns the length of the box along axis.
func (b AABB) Extent(axis Axis) float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Max[axis] - b.Min[axis]
}

// SurfaceArea returns the total area of the six faces.
func (b AABB) SurfaceArea() float64 {
	if b.IsEmpty() {
		return 0
	}
	dx := b.Max[0] - b.Min[0]
	dy := b.Max[1] - b.Min[1]
	dz := b.Max[2] - b.Min[2]
	return 2 * (dx*dy + dy*dz + dz*dx)
}

func (b AABB) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) withMin(axis Axis, v float64) AABB {
	b.Min[axis] = v
	return b
}

func (b AABB) withMax(axis Axis, v float64) AABB {
	b.Max[axis] = v
	return b
}

// inAABB reports whether r overlaps the slab of b along axis. A box that
// only touches the slab boundary from outside, while extending away from
// it, does not count. Boxes flat at the boundary do.
func inAABB(r, b AABB, axis Axis) bool {
	rMin, rMax := r.Min[axis], r.Max[axis]
	lo, hi := b.Min[axis], b.Max[axis]

	if rMax < lo || rMin > hi {
		return false
	}
	if rMax == lo && rMin < lo {
		return false
	}
	if rMin == hi && rMax > hi {
		return false
	}
	return true
}

// Missed reports whether t is the no-intersection value returned by
// IntersectsAABB.
func Missed(t float64) bool {
	return math.IsInf(t, -1)
}

// IntersectsAABB runs the slab test of a ray against box. It returns the
// parametric distance at which the ray enters the box, 0 when the origin is
// already inside, or negative infinity when the ray misses the box or the
// box lies behind the origin.
func IntersectsAABB(origin, direction mgl64.Vec3, box AABB) float64 {
	miss := math.Inf(-1)
	if box.IsEmpty() {
		return miss
	}

	tEnter := math.Inf(-1)
	tExit := math.Inf(1)

	for i := 0; i < 3; i++ {
		if direction[i] == 0 {
			// parallel to the slab: no constraint if inside, miss otherwise
			if origin[i] < box.Min[i] || origin[i] > box.Max[i] {
				return miss
			}
			continue
		}

		invD := 1 / direction[i]
		tNear := (box.Min[i] - origin[i]) * invD
		tFar := (box.Max[i] - origin[i]) * invD
		if invD < 0 {
			tNear, tFar = tFar, tNear
		}
		if tNear > tEnter {
			tEnter = tNear
		}
		if tFar < tExit {
			tExit = tFar
		}
		if tExit < tEnter {
			return miss
		}
	}

	if tExit < 0 {
		return miss
	}
	if tEnter < 0 {
		return 0
	}
	return tEnter
}
