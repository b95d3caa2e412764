// Package polylabel computes the pole of inaccessibility of a polygon:
// the interior point farthest from every boundary edge, found to within a
// caller-supplied tolerance by priority-driven quadtree refinement of the
// polygon's bounding box.
package polylabel

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Label is a computed pole of inaccessibility: the point, and its
// distance to the nearest polygon edge.
type Label struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Distance float64 `json:"distance"`
}

// FindPole computes the pole of inaccessibility of a go-geom polygon.
// Ring 0 is the exterior; any further rings are holes. See FindPoleRings.
func FindPole(p *geom.Polygon, tolerance float64) (Label, error) {
	rings := make([][]geom.Coord, p.NumLinearRings())
	for i := range rings {
		rings[i] = p.LinearRing(i).Coords()
	}
	return FindPoleRings(rings, tolerance)
}

// FindPoleRings computes the pole of inaccessibility of the polygon whose
// exterior is rings[0] and whose holes are the remaining rings. The
// returned label's distance is within tolerance of the true optimum.
//
// Holes are assumed to lie inside the exterior ring without overlapping
// each other; violated assumptions give an undefined but finite result.
// Repeated calls with identical input return bit-identical output.
func FindPoleRings(rings [][]geom.Coord, tolerance float64) (Label, error) {
	if tolerance <= 0 || math.IsNaN(tolerance) || math.IsInf(tolerance, 0) {
		return Label{}, eris.Wrapf(ErrInvalidTolerance, "polylabel: tolerance %v", tolerance)
	}
	if len(rings) == 0 || len(rings[0]) < 3 {
		return Label{}, eris.Wrap(ErrDegenerateGeometry, "polylabel: exterior ring has fewer than 3 vertices")
	}

	// Bounding box of the exterior ring.
	minX, minY := rings[0][0][0], rings[0][0][1]
	maxX, maxY := minX, minY
	for _, c := range rings[0][1:] {
		minX = math.Min(minX, c[0])
		minY = math.Min(minY, c[1])
		maxX = math.Max(maxX, c[0])
		maxY = math.Max(maxY, c[1])
	}
	width := maxX - minX
	height := maxY - minY
	cellSize := math.Min(width, height)
	if cellSize == 0 {
		return Label{}, eris.Wrap(ErrDegenerateGeometry, "polylabel: polygon collapses to a point or line")
	}

	// Initial best guess: the better of the area-weighted centroid and the
	// bounding-box center. The centroid can land outside a concave
	// exterior; the bbox center covers rectangles exactly.
	best := centroidCell(rings)
	if c := newCell(minX+width/2, minY+height/2, 0, rings); c.dist > best.dist {
		best = c
	}

	// Tile the bounding box with seed cells.
	q := &cellQueue{}
	h := cellSize / 2
	for x := minX; x < maxX; x += cellSize {
		for y := minY; y < maxY; y += cellSize {
			c := newCell(x+h, y+h, h, rings)
			if c.dist > best.dist {
				best = c
			}
			q.push(c)
		}
	}

	// Children below this half-extent can move the result by at most
	// tolerance/2; the floor keeps degenerate geometry from subdividing
	// forever. The tolerance prune below fires first on sane input.
	minExtent := tolerance / (2 * math.Sqrt2)

	for q.Len() > 0 {
		c := q.pop()

		// The queue is ordered by max, so once the top cell cannot beat
		// the best by more than tolerance, no queued cell can.
		if c.max-best.dist <= tolerance {
			break
		}

		h := c.h / 2
		if h < minExtent {
			continue
		}
		for _, child := range [4]cell{
			newCell(c.x-h, c.y-h, h, rings),
			newCell(c.x+h, c.y-h, h, rings),
			newCell(c.x-h, c.y+h, h, rings),
			newCell(c.x+h, c.y+h, h, rings),
		} {
			if child.dist > best.dist {
				best = child
			}
			q.push(child)
		}
	}

	return Label{X: best.x, Y: best.y, Distance: best.dist}, nil
}

// centroidCell probes the area-weighted centroid of the exterior ring,
// falling back to its first vertex for zero-area rings.
func centroidCell(rings [][]geom.Coord) cell {
	ext := rings[0]
	var area, cx, cy float64
	for i, j := 0, len(ext)-1; i < len(ext); j, i = i, i+1 {
		a, b := ext[i], ext[j]
		f := a[0]*b[1] - b[0]*a[1]
		cx += (a[0] + b[0]) * f
		cy += (a[1] + b[1]) * f
		area += f * 3
	}
	if area == 0 {
		return newCell(ext[0][0], ext[0][1], 0, rings)
	}
	return newCell(cx/area, cy/area, 0, rings)
}
