package polylabel

import (
	"math"

	"github.com/twpayne/go-geom"
)

// SignedDistance returns the signed distance from (x, y) to the boundary
// described by rings, where rings[0] is the exterior ring and the rest are
// holes. The magnitude is the Euclidean distance to the nearest ring edge;
// the sign is positive when the point lies inside the exterior ring and
// outside every hole (even-odd ray-crossing rule), negative otherwise.
//
// Rings are treated as implicitly closed and read-only. Rings with fewer
// than three vertices contribute neither boundary nor containment. A point
// exactly on an edge yields 0. No epsilon is applied: the computation is
// plain IEEE 754 arithmetic on the inputs, and the result is finite for
// finite inputs.
func SignedDistance(x, y float64, rings [][]geom.Coord) float64 {
	inside := false
	minDistSq := math.MaxFloat64

	for _, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
			a, b := ring[i], ring[j]

			if (a[1] > y) != (b[1] > y) && x < (b[0]-a[0])*(y-a[1])/(b[1]-a[1])+a[0] {
				inside = !inside
			}

			if d := segDistSq(x, y, a, b); d < minDistSq {
				minDistSq = d
			}
		}
	}

	if minDistSq == math.MaxFloat64 {
		// Every ring was degenerate; there is no boundary to measure.
		return 0
	}

	d := math.Sqrt(minDistSq)
	if inside {
		return d
	}
	return -d
}

// segDistSq returns the squared distance from (px, py) to the segment ab,
// covering both the perpendicular-projection and endpoint cases.
// Zero-length segments degrade to point distance.
func segDistSq(px, py float64, a, b geom.Coord) float64 {
	x, y := a[0], a[1]
	dx, dy := b[0]-x, b[1]-y

	if dx != 0 || dy != 0 {
		t := ((px-x)*dx + (py-y)*dy) / (dx*dx + dy*dy)
		if t > 1 {
			x, y = b[0], b[1]
		} else if t > 0 {
			x += dx * t
			y += dy * t
		}
	}

	dx = px - x
	dy = py - y
	return dx*dx + dy*dy
}
