package kdtree

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

// bruteNearest intersects every renderable, the reference for Nearest.
func bruteNearest(renderables []Renderable, origin, direction mgl64.Vec3) (Intersection, bool) {
	r := Ray{Origin: origin, Direction: direction}
	best := Intersection{T: math.Inf(1)}
	found := false
	for i, rd := range renderables {
		hit, ok := rd.Intersect(r, 0, best.T)
		if ok {
			hit.Index = i
			best = hit
			found = true
		}
	}
	return best, found
}

func TestNearestMatchesAll(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	renderables := randomBoxes(rng, 400, 50, 6)
	tree := Build(renderables)
	require.NoError(t, tree.Validate())

	hitCount := 0
	for i := 0; i < 2000; i++ {
		origin, direction := randomRay(rng, 50)

		nearest, ok := tree.Nearest(origin, direction)
		all := tree.All(origin, direction)
		expected, expectedOK := bruteNearest(renderables, origin, direction)

		require.Equal(t, expectedOK, ok)
		require.Equal(t, ok, len(all) != 0)
		if !ok {
			continue
		}
		hitCount++

		require.InDelta(t, expected.T, nearest.T, 1e-9)

		minT := math.Inf(1)
		seen := make(map[int]bool)
		for _, h := range all {
			require.False(t, seen[h.Index], "renderable %d reported twice", h.Index)
			seen[h.Index] = true
			minT = math.Min(minT, h.T)
		}
		require.Equal(t, minT, nearest.T)
	}
	require.NotZero(t, hitCount)
}

func TestQueriesAreIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	tree := Build(randomBoxes(rng, 100, 20, 4))

	for i := 0; i < 200; i++ {
		origin, direction := randomRay(rng, 20)

		first, firstOK := tree.Nearest(origin, direction)
		second, secondOK := tree.Nearest(origin, direction)
		require.Equal(t, firstOK, secondOK)
		require.Equal(t, first, second)

		require.Equal(t, tree.All(origin, direction), tree.All(origin, direction))
	}
}

func TestAllOrder(t *testing.T) {
	renderables := []Renderable{
		newBox("near", mgl64.Vec3{-0.5, -0.5, -0.5}, mgl64.Vec3{0.5, 0.5, 0.5}),
		newBox("far", mgl64.Vec3{9.5, -0.5, -0.5}, mgl64.Vec3{10.5, 0.5, 0.5}),
	}
	tree := Build(renderables)

	// right to left: traversal still reports the left subtree first
	hits := tree.All(mgl64.Vec3{20, 0, 0}, mgl64.Vec3{-1, 0, 0})
	require.Len(t, hits, 2)
	require.Equal(t, "near", hits[0].Surface)
	require.Equal(t, "far", hits[1].Surface)

	SortByDistance(hits)
	require.Equal(t, "far", hits[0].Surface)
	require.InDelta(t, 9.5, hits[0].T, 1e-12)
	require.Equal(t, "near", hits[1].Surface)
	require.InDelta(t, 19.5, hits[1].T, 1e-12)

	nearest, ok := tree.Nearest(mgl64.Vec3{20, 0, 0}, mgl64.Vec3{-1, 0, 0})
	require.True(t, ok)
	require.Equal(t, "far", nearest.Surface)
	require.Equal(t, 1, nearest.Index)
}

func TestNearestRayLimit(t *testing.T) {
	tree := Build(twoSeparatedBoxes())
	r := Ray{Origin: mgl64.Vec3{-10, 0, 0}, Direction: mgl64.Vec3{1, 0, 0}}

	hit, ok := tree.NearestRay(r, math.Inf(1))
	require.True(t, ok)
	require.InDelta(t, 7.0, hit.T, 1e-12)

	_, ok = tree.NearestRay(r, 5)
	require.False(t, ok)
}

func TestMinDistance(t *testing.T) {
	cube := newBox("cube", mgl64.Vec3{-0.5, -0.5, -0.5}, mgl64.Vec3{0.5, 0.5, 0.5})

	t.Run("origin on the surface", func(t *testing.T) {
		tree := Build([]Renderable{cube}, WithMinDistance(0.001))

		hit, ok := tree.Nearest(mgl64.Vec3{0, 0, 0.5}, mgl64.Vec3{0, 0, -1})
		require.True(t, ok)
		require.InDelta(t, 1.0, hit.T, 1e-12)

		_, ok = tree.Nearest(mgl64.Vec3{0, 0, 0.5}, mgl64.Vec3{0, 0, 1})
		require.False(t, ok)
	})

	t.Run("negative distance is ignored", func(t *testing.T) {
		tree := Build([]Renderable{cube}, WithMinDistance(-1))
		require.Equal(t, 0.0, tree.opts.minDistance)
	})
}

func TestConcurrentQueries(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	tree := Build(randomBoxes(rng, 300, 30, 5))

	type query struct {
		origin, direction mgl64.Vec3
		nearest           Intersection
		ok                bool
		all               int
	}
	queries := make([]query, 500)
	for i := range queries {
		q := &queries[i]
		q.origin, q.direction = randomRay(rng, 30)
		q.nearest, q.ok = tree.Nearest(q.origin, q.direction)
		q.all = len(tree.All(q.origin, q.direction))
	}

	var wg sync.WaitGroup
	errs := make(chan string, 8*len(queries))
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, q := range queries {
				nearest, ok := tree.Nearest(q.origin, q.direction)
				if ok != q.ok || nearest.T != q.nearest.T || nearest.Index != q.nearest.Index {
					errs <- "nearest differs"
				}
				if len(tree.All(q.origin, q.direction)) != q.all {
					errs <- "all differs"
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestQueryOnUnbuiltTreePanics(t *testing.T) {
	var tree Tree
	require.Panics(t, func() {
		tree.Nearest(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
	})
	require.Panics(t, func() {
		tree.All(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
	})

	var nilTree *Tree
	require.Panics(t, func() {
		nilTree.Nearest(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
	})
}
