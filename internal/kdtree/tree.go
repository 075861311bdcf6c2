package kdtree

import (
	"time"
)

// MaxDepth bounds the depth of every tree. Nodes reaching it become leaves
// whatever they contain.
const MaxDepth = 40

// Node is a node of a Tree. A leaf holds the indices of its renderables;
// an internal node has exactly two children. A node built from an empty
// set has neither.
type Node struct {
	bounds    AABB
	depth     int
	left      *Node
	right     *Node
	contained []int
}

func (n *Node) Bounds() AABB {
	return n.bounds
}

func (n *Node) Depth() int {
	return n.depth
}

func (n *Node) Left() *Node {
	return n.left
}

func (n *Node) Right() *Node {
	return n.right
}

func (n *Node) IsLeaf() bool {
	return len(n.contained) != 0
}

// Contained returns the indices, into the slice given to Build, of the
// renderables stored at this node. It must not be modified.
func (n *Node) Contained() []int {
	return n.contained
}

// Tree is an immutable KD-tree over a set of renderables.
//
// The tree only borrows the renderables: whoever owns them must keep them
// alive and unchanged for as long as the tree is queried. Queries do not
// mutate anything and can run from many goroutines at once.
type Tree struct {
	root  *Node
	items []Renderable
	opts  options
	built bool
}

type options struct {
	maxDepth    int
	leafSize    int
	minDistance float64
}

// Option customizes Build.
type Option func(*options)

// WithMaxDepth lowers the depth limit. Values are clamped to [0, MaxDepth].
func WithMaxDepth(d int) Option {
	return func(o *options) {
		if d < 0 {
			d = 0
		}
		if d > MaxDepth {
			d = MaxDepth
		}
		o.maxDepth = d
	}
}

// WithLeafSize sets the renderable count at or below which a node is not
// split further.
func WithLeafSize(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.leafSize = n
	}
}

// WithMinDistance makes queries ignore hits closer than eps along the ray.
// Renderers use it to keep secondary rays from hitting their own origin.
func WithMinDistance(eps float64) Option {
	return func(o *options) {
		if eps < 0 {
			eps = 0
		}
		o.minDistance = eps
	}
}

// Build constructs a tree over renderables. An empty input gives an empty
// tree on which every query reports no hit.
func Build(renderables []Renderable, opts ...Option) *Tree {
	start := time.Now()

	o := options{
		maxDepth: MaxDepth,
		leafSize: 1,
	}
	for _, opt := range opts {
		opt(&o)
	}

	items := make([]Renderable, len(renderables))
	copy(items, renderables)

	t := &Tree{
		items: items,
		opts:  o,
		built: true,
	}

	if len(items) != 0 {
		b := builder{
			boxes: make([]AABB, len(items)),
			opts:  o,
		}
		ids := make([]int, len(items))
		for i, r := range items {
			b.boxes[i] = r.AABB()
			ids[i] = i
		}
		t.root = b.build(ids, 0)
	}

	instrumentBuild(time.Since(start), t.Stats())
	return t
}

// Root returns the root node, or nil for an empty tree.
func (t *Tree) Root() *Node {
	return t.root
}

// Len returns the number of indexed renderables.
func (t *Tree) Len() int {
	return len(t.items)
}

// Renderable returns the i-th renderable given to Build.
func (t *Tree) Renderable(i int) Renderable {
	return t.items[i]
}

// Bounds returns the box enclosing every renderable.
func (t *Tree) Bounds() AABB {
	if t.root == nil {
		return EmptyAABB()
	}
	return t.root.bounds
}

// Walk visits nodes depth first, left before right. Returning false from
// fn skips the subtree below the node.
func (t *Tree) Walk(fn func(n *Node) bool) {
	walk(t.root, fn)
}

func walk(n *Node, fn func(n *Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	walk(n.left, fn)
	walk(n.right, fn)
}

func (t *Tree) mustBeBuilt() {
	if t == nil || !t.built {
		panic("kdtree: query on a tree that was not created by Build")
	}
}

type builder struct {
	boxes []AABB
	opts  options
}

func (b *builder) bounds(ids []int) AABB {
	box := EmptyAABB()
	for _, id := range ids {
		box = box.Union(b.boxes[id])
	}
	return box
}

func (b *builder) build(ids []int, depth int) *Node {
	n := &Node{
		bounds: b.bounds(ids),
		depth:  depth,
	}
	if len(ids) == 0 {
		return n
	}

	if depth >= b.opts.maxDepth || len(ids) <= b.opts.leafSize {
		n.contained = ids
		return n
	}

	axis := AxisForDepth(depth)
	split, ok := selectSplitPlane(b.boxes, ids, n.bounds, axis)
	if !ok {
		n.contained = ids
		return n
	}

	left, right := b.partition(ids, n.bounds, axis, split)
	if !improves(n.bounds, axis, split, len(ids), len(left), len(right)) {
		n.contained = ids
		return n
	}

	n.left = b.build(left, depth+1)
	n.right = b.build(right, depth+1)
	return n
}

// partition distributes ids between the two halves of bounds cut at split.
// Renderables straddling the plane end up on both sides.
func (b *builder) partition(ids []int, bounds AABB, axis Axis, split float64) (left, right []int) {
	leftBox := bounds.withMax(axis, split)
	rightBox := bounds.withMin(axis, split)

	for _, id := range ids {
		if inAABB(b.boxes[id], leftBox, axis) {
			left = append(left, id)
		}
		if inAABB(b.boxes[id], rightBox, axis) {
			right = append(right, id)
		}
	}
	return left, right
}

// improves reports whether splitting n renderables into nLeft and nRight
// is estimated cheaper than keeping them in a single leaf.
func improves(bounds AABB, axis Axis, split float64, n, nLeft, nRight int) bool {
	if nLeft == n && nRight == n {
		return false
	}
	return splitCost(bounds, axis, split, nLeft, nRight) < float64(n)
}
