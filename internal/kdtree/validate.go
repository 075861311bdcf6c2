package kdtree

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
)

const (
	// ErrTypeInvariant is the type of errors returned by Validate.
	ErrTypeInvariant = "kdtree_invariant_violated"
)

// Validate checks the structural invariants of the tree: depth limit,
// leaf and children shape, bounds enclosing children and contained
// renderables, and every renderable being reachable from a leaf.
func (t *Tree) Validate() error {
	if t == nil || !t.built {
		return errors.New("tree was not created by Build").
			WithType(ErrTypeInvariant)
	}
	if t.root == nil {
		if len(t.items) != 0 {
			return errors.New("non-empty tree has no root").
				WithType(ErrTypeInvariant).
				WithTag("renderables", len(t.items))
		}
		return nil
	}

	reached := make([]bool, len(t.items))
	var err error

	t.Walk(func(n *Node) bool {
		if err = t.validateNode(n, reached); err != nil {
			return false
		}
		return true
	})
	if err != nil {
		return err
	}

	for id, ok := range reached {
		if !ok {
			return errors.New("renderable is not stored in any leaf").
				WithType(ErrTypeInvariant).
				WithTag("index", id)
		}
	}
	return nil
}

func (t *Tree) validateNode(n *Node, reached []bool) error {
	if n.depth > t.opts.maxDepth {
		return errors.New("node is deeper than the depth limit").
			WithType(ErrTypeInvariant).
			WithTag("depth", n.depth).
			WithTag("max_depth", t.opts.maxDepth)
	}

	if (n.left == nil) != (n.right == nil) {
		return errors.New("node has a single child").
			WithType(ErrTypeInvariant).
			WithTag("depth", n.depth)
	}

	if n.IsLeaf() {
		if n.left != nil {
			return errors.New("leaf has children").
				WithType(ErrTypeInvariant).
				WithTag("depth", n.depth)
		}
		for _, id := range n.contained {
			if id < 0 || id >= len(t.items) {
				return errors.New("leaf references an unknown renderable").
					WithType(ErrTypeInvariant).
					WithTag("index", id)
			}
			if !n.bounds.Contains(t.items[id].AABB()) {
				return errors.New("leaf bounds do not enclose a contained renderable").
					WithType(ErrTypeInvariant).
					WithTag("depth", n.depth).
					WithTag("index", id)
			}
			reached[id] = true
		}
		return nil
	}

	for _, c := range []*Node{n.left, n.right} {
		if c == nil {
			continue
		}
		if c.depth != n.depth+1 {
			return errors.New("child depth does not follow its parent").
				WithType(ErrTypeInvariant).
				WithTag("depth", n.depth).
				WithTag("child_depth", c.depth)
		}
		if !n.bounds.Contains(c.bounds) {
			return errors.New("node bounds do not enclose a child").
				WithType(ErrTypeInvariant).
				WithTag("depth", n.depth)
		}
	}
	return nil
}
