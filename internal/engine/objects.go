package engine

import (
	"math"

	"github.com/ess476/gfx-final/internal/kdtree"
	"github.com/ess476/gfx-final/internal/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// defaultGroundExtent is the side of the ground rectangle built for plane
// objects that leave their size empty.
const defaultGroundExtent = 1000.0

func setFaceNormal(rec *kdtree.Intersection, r kdtree.Ray, outwardNormal mgl64.Vec3) {
	rec.FrontFace = r.Direction.Dot(outwardNormal) < 0
	if rec.FrontFace {
		rec.Normal = outwardNormal
	} else {
		rec.Normal = outwardNormal.Mul(-1)
	}
}

// surfaceMaterial extracts the material stored in a hit by the primitives
// of this package.
func surfaceMaterial(rec kdtree.Intersection) *material {
	m, _ := rec.Surface.(*material)
	return m
}

// objectID returns the scene object id of a renderable built by this
// package, or an empty string.
func objectID(r kdtree.Renderable) string {
	switch o := r.(type) {
	case *sphere:
		return o.id
	case *box:
		return o.id
	case *quad:
		return o.id
	default:
		return ""
	}
}

// Sphere primitive.
type sphere struct {
	id     string
	center mgl64.Vec3
	radius float64
	mat    *material
	light  bool
}

func (s *sphere) AABB() kdtree.AABB {
	r := mgl64.Vec3{s.radius, s.radius, s.radius}
	return kdtree.NewAABB(s.center.Sub(r), s.center.Add(r))
}

func (s *sphere) Intersect(r kdtree.Ray, tMin, tMax float64) (kdtree.Intersection, bool) {
	oc := r.Origin.Sub(s.center)
	a := r.Direction.LenSqr()
	halfB := oc.Dot(r.Direction)
	c := oc.LenSqr() - s.radius*s.radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return kdtree.Intersection{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root <= tMin || root >= tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root >= tMax {
			return kdtree.Intersection{}, false
		}
	}

	rec := kdtree.Intersection{
		T:       root,
		Point:   r.At(root),
		Surface: s.mat,
	}
	setFaceNormal(&rec, r, rec.Point.Sub(s.center).Mul(1/s.radius))
	return rec, true
}

// Axis-aligned box defined by min and max points.
type box struct {
	id       string
	min, max mgl64.Vec3
	mat      *material
}

func (b *box) AABB() kdtree.AABB {
	return kdtree.NewAABB(b.min, b.max)
}

func (b *box) Intersect(r kdtree.Ray, tMin, tMax float64) (kdtree.Intersection, bool) {
	tEnter := math.Inf(-1)
	tExit := math.Inf(1)

	for i := 0; i < 3; i++ {
		if r.Direction[i] == 0 {
			if r.Origin[i] < b.min[i] || r.Origin[i] > b.max[i] {
				return kdtree.Intersection{}, false
			}
			continue
		}

		invD := 1 / r.Direction[i]
		tNear := (b.min[i] - r.Origin[i]) * invD
		tFar := (b.max[i] - r.Origin[i]) * invD
		if invD < 0 {
			tNear, tFar = tFar, tNear
		}
		tEnter = math.Max(tEnter, tNear)
		tExit = math.Min(tExit, tFar)
		if tExit < tEnter {
			return kdtree.Intersection{}, false
		}
	}

	t := tEnter
	if t <= tMin {
		// origin inside the box: the exit is the visible face
		t = tExit
	}
	if t <= tMin || t >= tMax {
		return kdtree.Intersection{}, false
	}

	rec := kdtree.Intersection{
		T:       t,
		Point:   r.At(t),
		Surface: b.mat,
	}
	setFaceNormal(&rec, r, b.faceNormal(rec.Point))
	return rec, true
}

// faceNormal returns the outward normal of the face closest to p.
func (b *box) faceNormal(p mgl64.Vec3) mgl64.Vec3 {
	best := math.Inf(1)
	var n mgl64.Vec3
	for i := 0; i < 3; i++ {
		if d := math.Abs(p[i] - b.min[i]); d < best {
			best = d
			n = mgl64.Vec3{}
			n[i] = -1
		}
		if d := math.Abs(p[i] - b.max[i]); d < best {
			best = d
			n = mgl64.Vec3{}
			n[i] = 1
		}
	}
	return n
}

// Horizontal rectangle facing +Y, used as ground. An infinite plane has no
// bounding box, so planes from the scene are bounded by their size.
type quad struct {
	id     string
	center mgl64.Vec3
	halfX  float64
	halfZ  float64
	mat    *material
}

func (q *quad) AABB() kdtree.AABB {
	return kdtree.NewAABB(
		mgl64.Vec3{q.center[0] - q.halfX, q.center[1], q.center[2] - q.halfZ},
		mgl64.Vec3{q.center[0] + q.halfX, q.center[1], q.center[2] + q.halfZ},
	)
}

func (q *quad) Intersect(r kdtree.Ray, tMin, tMax float64) (kdtree.Intersection, bool) {
	if math.Abs(r.Direction[1]) < 1e-9 {
		return kdtree.Intersection{}, false
	}

	t := (q.center[1] - r.Origin[1]) / r.Direction[1]
	if t <= tMin || t >= tMax {
		return kdtree.Intersection{}, false
	}

	p := r.At(t)
	if math.Abs(p[0]-q.center[0]) > q.halfX || math.Abs(p[2]-q.center[2]) > q.halfZ {
		return kdtree.Intersection{}, false
	}

	rec := kdtree.Intersection{
		T:       t,
		Point:   p,
		Surface: q.mat,
	}
	setFaceNormal(&rec, r, mgl64.Vec3{0, 1, 0})
	return rec, true
}

func vec(v scene.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// sceneToWorld builds the renderables of a scene description. Emissive
// spheres are also returned as lights.
func sceneToWorld(sc *scene.Scene) ([]kdtree.Renderable, []*sphere) {
	materials := make(map[string]*material, len(sc.Materials))
	for _, m := range sc.Materials {
		mat := convertMaterial(m)
		materials[m.ID] = &mat
	}

	renderables := make([]kdtree.Renderable, 0, len(sc.Objects))
	var lights []*sphere

	for _, o := range sc.Objects {
		mat, ok := materials[o.MaterialID]
		if !ok {
			mat = &material{typ: matLambert, albedo: mgl64.Vec3{0.5, 0.5, 0.5}}
		}
		pos := vec(o.Position)
		size := vec(o.Size)

		switch o.Type {
		case scene.ObjectSphere, scene.ObjectSphereLight:
			s := &sphere{
				id:     o.ID,
				center: pos,
				radius: size[0],
				mat:    mat,
				light:  mat.typ == matEmissive,
			}
			renderables = append(renderables, s)
			if s.light {
				lights = append(lights, s)
			}

		case scene.ObjectPlane:
			halfX, halfZ := size[0]/2, size[2]/2
			if halfX <= 0 {
				halfX = defaultGroundExtent / 2
			}
			if halfZ <= 0 {
				halfZ = defaultGroundExtent / 2
			}
			renderables = append(renderables, &quad{
				id:     o.ID,
				center: pos,
				halfX:  halfX,
				halfZ:  halfZ,
				mat:    mat,
			})

		case scene.ObjectBox:
			renderables = append(renderables, &box{
				id:  o.ID,
				min: pos.Sub(size.Mul(0.5)),
				max: pos.Add(size.Mul(0.5)),
				mat: mat,
			})
		}
	}
	return renderables, lights
}
