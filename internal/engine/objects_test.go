package engine

import (
	"math"
	"testing"

	"github.com/ess476/gfx-final/internal/kdtree"
	"github.com/ess476/gfx-final/internal/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func grey() *material {
	return &material{typ: matLambert, albedo: mgl64.Vec3{0.5, 0.5, 0.5}}
}

func TestSphereIntersect(t *testing.T) {
	s := &sphere{id: "s", radius: 1, mat: grey()}

	t.Run("from outside", func(t *testing.T) {
		hit, ok := s.Intersect(kdtree.Ray{
			Origin:    mgl64.Vec3{0, 0, -5},
			Direction: mgl64.Vec3{0, 0, 1},
		}, hitEpsilon, math.Inf(1))
		require.True(t, ok)
		require.InDelta(t, 4, hit.T, 1e-12)
		require.True(t, hit.FrontFace)
		require.True(t, hit.Normal.ApproxEqual(mgl64.Vec3{0, 0, -1}))
		require.Equal(t, s.mat, surfaceMaterial(hit))
	})

	t.Run("from inside", func(t *testing.T) {
		hit, ok := s.Intersect(kdtree.Ray{
			Direction: mgl64.Vec3{0, 0, 1},
		}, hitEpsilon, math.Inf(1))
		require.True(t, ok)
		require.InDelta(t, 1, hit.T, 1e-12)
		require.False(t, hit.FrontFace)
		require.True(t, hit.Normal.ApproxEqual(mgl64.Vec3{0, 0, -1}))
	})

	t.Run("beyond t max", func(t *testing.T) {
		_, ok := s.Intersect(kdtree.Ray{
			Origin:    mgl64.Vec3{0, 0, -5},
			Direction: mgl64.Vec3{0, 0, 1},
		}, hitEpsilon, 3)
		require.False(t, ok)
	})

	t.Run("miss", func(t *testing.T) {
		_, ok := s.Intersect(kdtree.Ray{
			Origin:    mgl64.Vec3{2, 0, -5},
			Direction: mgl64.Vec3{0, 0, 1},
		}, hitEpsilon, math.Inf(1))
		require.False(t, ok)
	})

	require.Equal(t, kdtree.NewAABB(mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1, 1, 1}), s.AABB())
}

func TestBoxIntersect(t *testing.T) {
	b := &box{
		id:  "b",
		min: mgl64.Vec3{-1, -1, -1},
		max: mgl64.Vec3{1, 1, 1},
		mat: grey(),
	}

	t.Run("from outside", func(t *testing.T) {
		hit, ok := b.Intersect(kdtree.Ray{
			Origin:    mgl64.Vec3{0, 0, -5},
			Direction: mgl64.Vec3{0, 0, 1},
		}, hitEpsilon, math.Inf(1))
		require.True(t, ok)
		require.InDelta(t, 4, hit.T, 1e-12)
		require.True(t, hit.FrontFace)
		require.Equal(t, mgl64.Vec3{0, 0, -1}, hit.Normal)
	})

	t.Run("from inside", func(t *testing.T) {
		hit, ok := b.Intersect(kdtree.Ray{
			Direction: mgl64.Vec3{0, 0, 1},
		}, hitEpsilon, math.Inf(1))
		require.True(t, ok)
		require.InDelta(t, 1, hit.T, 1e-12)
		require.False(t, hit.FrontFace)
		require.Equal(t, mgl64.Vec3{0, 0, -1}, hit.Normal)
	})

	t.Run("parallel outside slab", func(t *testing.T) {
		_, ok := b.Intersect(kdtree.Ray{
			Origin:    mgl64.Vec3{5, 0, -5},
			Direction: mgl64.Vec3{0, 0, 1},
		}, hitEpsilon, math.Inf(1))
		require.False(t, ok)
	})

	t.Run("behind origin", func(t *testing.T) {
		_, ok := b.Intersect(kdtree.Ray{
			Origin:    mgl64.Vec3{0, 0, 5},
			Direction: mgl64.Vec3{0, 0, 1},
		}, hitEpsilon, math.Inf(1))
		require.False(t, ok)
	})
}

func TestQuadIntersect(t *testing.T) {
	q := &quad{id: "q", halfX: 1, halfZ: 2, mat: grey()}

	hit, ok := q.Intersect(kdtree.Ray{
		Origin:    mgl64.Vec3{0.5, 5, -1.5},
		Direction: mgl64.Vec3{0, -1, 0},
	}, hitEpsilon, math.Inf(1))
	require.True(t, ok)
	require.InDelta(t, 5, hit.T, 1e-12)
	require.True(t, hit.FrontFace)
	require.Equal(t, mgl64.Vec3{0, 1, 0}, hit.Normal)

	_, ok = q.Intersect(kdtree.Ray{
		Origin:    mgl64.Vec3{3, 5, 0},
		Direction: mgl64.Vec3{0, -1, 0},
	}, hitEpsilon, math.Inf(1))
	require.False(t, ok)

	_, ok = q.Intersect(kdtree.Ray{
		Origin:    mgl64.Vec3{0, 5, 0},
		Direction: mgl64.Vec3{1, 0, 0},
	}, hitEpsilon, math.Inf(1))
	require.False(t, ok)

	bounds := q.AABB()
	require.Equal(t, 0.0, bounds.Extent(kdtree.AxisY))
	require.Equal(t, 2.0, bounds.Extent(kdtree.AxisX))
	require.Equal(t, 4.0, bounds.Extent(kdtree.AxisZ))
}

func TestSceneToWorld(t *testing.T) {
	sc := &scene.Scene{
		Materials: []scene.Material{
			{ID: "light", Type: scene.MaterialEmissive, Emit: scene.Color{R: 1, G: 1, B: 1}, Power: 3},
			{ID: "glass", Type: scene.MaterialDielectric},
		},
		Objects: []scene.Object{
			{ID: "lamp", Type: scene.ObjectSphereLight, Position: scene.Vec3{Y: 5}, Size: scene.Vec3{X: 1}, MaterialID: "light"},
			{ID: "ball", Type: scene.ObjectSphere, Size: scene.Vec3{X: 0.5}, MaterialID: "glass"},
			{ID: "ground", Type: scene.ObjectPlane},
			{ID: "crate", Type: scene.ObjectBox, Position: scene.Vec3{X: 2}, Size: scene.Vec3{X: 1, Y: 2, Z: 1}},
		},
	}

	renderables, lights := sceneToWorld(sc)
	require.Len(t, renderables, 4)
	require.Len(t, lights, 1)
	require.Equal(t, "lamp", lights[0].id)
	require.Equal(t, mgl64.Vec3{3, 3, 3}, lights[0].mat.emit)
	require.True(t, isLight(renderables[0]))
	require.False(t, isLight(renderables[1]))

	ids := make([]string, len(renderables))
	for i, r := range renderables {
		ids[i] = objectID(r)
	}
	require.Equal(t, []string{"lamp", "ball", "ground", "crate"}, ids)

	ball := renderables[1].(*sphere)
	require.Equal(t, matDielectric, ball.mat.typ)
	require.Equal(t, 1.5, ball.mat.ior)
	require.Equal(t, mgl64.Vec3{1, 1, 1}, ball.mat.albedo)

	ground := renderables[2].(*quad)
	require.Equal(t, defaultGroundExtent/2, ground.halfX)
	require.Equal(t, defaultGroundExtent/2, ground.halfZ)
	require.Equal(t, matLambert, ground.mat.typ)

	crate := renderables[3].(*box)
	require.Equal(t, mgl64.Vec3{1.5, -1, -0.5}, crate.min)
	require.Equal(t, mgl64.Vec3{2.5, 1, 0.5}, crate.max)
}
