// Package kdtree implements the spatial index used to answer ray queries
// against a scene.
//
// The tree is built once over a snapshot of the scene renderables. Each
// level splits its node along a fixed axis (X, Y, Z, X, ... by depth) at a
// plane chosen with the surface area heuristic. The partition is loose: a
// renderable crossing the plane is stored on both sides. Once built the
// tree is read only and can serve Nearest and All queries from any number
// of goroutines.
//
// The round-robin axis choice is simpler than picking the best axis per
// node and produces worse trees on elongated scenes. It is kept on purpose
// so the tree layout stays predictable.
package kdtree
