package kdtree

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Nearest returns the closest hit along the ray, if any.
func (t *Tree) Nearest(origin, direction mgl64.Vec3) (Intersection, bool) {
	return t.NearestRay(Ray{Origin: origin, Direction: direction}, math.Inf(1))
}

// NearestRay returns the closest hit along r before tMax.
func (t *Tree) NearestRay(r Ray, tMax float64) (Intersection, bool) {
	t.mustBeBuilt()
	queryNearestCount.Inc()

	q := nearestQuery{
		tree:  t,
		ray:   r,
		bestT: tMax,
	}
	if t.root != nil {
		if entry := IntersectsAABB(r.Origin, r.Direction, t.root.bounds); !Missed(entry) {
			q.visit(t.root, entry)
		}
	}
	return q.best, q.found
}

type nearestQuery struct {
	tree  *Tree
	ray   Ray
	best  Intersection
	bestT float64
	found bool
}

func (q *nearestQuery) visit(n *Node, entry float64) {
	if entry > q.bestT {
		return
	}

	if n.IsLeaf() {
		for _, id := range n.contained {
			r := q.tree.items[id]
			hit, ok := r.Intersect(q.ray, q.tree.opts.minDistance, q.bestT)
			if !ok || hit.T >= q.bestT || hit.T <= q.tree.opts.minDistance {
				continue
			}
			hit.Renderable = r
			hit.Index = id
			q.best = hit
			q.bestT = hit.T
			q.found = true
		}
		return
	}

	if n.left == nil || n.right == nil {
		return
	}

	leftEntry := IntersectsAABB(q.ray.Origin, q.ray.Direction, n.left.bounds)
	rightEntry := IntersectsAABB(q.ray.Origin, q.ray.Direction, n.right.bounds)

	first, second := n.left, n.right
	firstEntry, secondEntry := leftEntry, rightEntry
	if !Missed(rightEntry) && (Missed(leftEntry) || rightEntry < leftEntry) {
		first, second = second, first
		firstEntry, secondEntry = secondEntry, firstEntry
	}

	if !Missed(firstEntry) {
		q.visit(first, firstEntry)
	}
	if !Missed(secondEntry) {
		q.visit(second, secondEntry)
	}
}

// All returns every renderable hit by the ray, one record per renderable
// holding its closest hit. Records come in traversal order, left subtree
// before right subtree, not sorted by distance; see SortByDistance.
func (t *Tree) All(origin, direction mgl64.Vec3) []Intersection {
	t.mustBeBuilt()
	queryAllCount.Inc()

	if t.root == nil {
		return nil
	}

	q := allQuery{
		tree: t,
		ray:  Ray{Origin: origin, Direction: direction},
		seen: make([]uint64, (len(t.items)+63)/64),
	}
	q.visit(t.root)
	return q.hits
}

type allQuery struct {
	tree *Tree
	ray  Ray
	seen []uint64
	hits []Intersection
}

func (q *allQuery) visit(n *Node) {
	if Missed(IntersectsAABB(q.ray.Origin, q.ray.Direction, n.bounds)) {
		return
	}

	if n.IsLeaf() {
		for _, id := range n.contained {
			word, bit := id/64, uint64(1)<<(id%64)
			if q.seen[word]&bit != 0 {
				continue
			}
			q.seen[word] |= bit

			r := q.tree.items[id]
			hit, ok := r.Intersect(q.ray, q.tree.opts.minDistance, math.Inf(1))
			if !ok || hit.T <= q.tree.opts.minDistance {
				continue
			}
			hit.Renderable = r
			hit.Index = id
			q.hits = append(q.hits, hit)
		}
		return
	}

	if n.left != nil {
		q.visit(n.left)
	}
	if n.right != nil {
		q.visit(n.right)
	}
}
