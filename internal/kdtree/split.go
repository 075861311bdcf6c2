package kdtree

import (
	"math"
	"sort"
)

type planeEvent struct {
	pos     float64
	exiting bool
}

// selectSplitPlane picks a split coordinate along axis with the surface
// area heuristic. Every renderable contributes an entering event at its
// min and an exiting event at its max. Events are swept in ascending order
// and each is scored with the normalized area of the two sub-boxes
// weighted by the running counts on each side, before the event itself
// updates the counts. The first minimum wins.
//
// ok is false when there is nothing to sweep or bounds has no area.
func selectSplitPlane(boxes []AABB, ids []int, bounds AABB, axis Axis) (split float64, ok bool) {
	sa := bounds.SurfaceArea()
	if len(ids) == 0 || sa <= 0 || math.IsNaN(sa) || math.IsInf(sa, 0) {
		return 0, false
	}

	events := make([]planeEvent, 0, 2*len(ids))
	for _, id := range ids {
		events = append(events,
			planeEvent{pos: boxes[id].Min[axis]},
			planeEvent{pos: boxes[id].Max[axis], exiting: true},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].pos < events[j].pos
	})

	minCost := math.Inf(1)
	minIdx := -1
	left, right := 0, len(ids)

	for i, e := range events {
		cost := splitCost(bounds, axis, e.pos, left, right)
		if cost < minCost {
			minCost = cost
			minIdx = i
		}

		if e.exiting {
			right--
		} else {
			left++
		}
	}

	if minIdx < 0 {
		return 0, false
	}
	return events[minIdx].pos, true
}

// splitCost is the surface area heuristic estimate for cutting bounds at
// pos with nLeft and nRight renderables on each side, relative to the
// area of bounds.
func splitCost(bounds AABB, axis Axis, pos float64, nLeft, nRight int) float64 {
	sa := bounds.SurfaceArea()
	if sa <= 0 {
		return math.Inf(1)
	}
	leftSA := bounds.withMax(axis, pos).SurfaceArea() / sa
	rightSA := bounds.withMin(axis, pos).SurfaceArea() / sa
	return leftSA*float64(nLeft) + rightSA*float64(nRight)
}
