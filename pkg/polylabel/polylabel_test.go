package polylabel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestFindPoleSquare(t *testing.T) {
	// For a square of side s centered at the origin the pole is the
	// center with distance s/2.
	rings := [][]geom.Coord{{{-3, -3}, {3, -3}, {3, 3}, {-3, 3}}}

	label, err := FindPoleRings(rings, 0.01)
	require.NoError(t, err)

	assert.InDelta(t, 0, label.X, 0.01)
	assert.InDelta(t, 0, label.Y, 0.01)
	assert.InDelta(t, 3, label.Distance, 0.01)
}

func TestFindPoleSquareWithCenteredHole(t *testing.T) {
	// The hole pushes the pole off-center toward a side midpoint, where
	// half the remaining usable width is 2.0.
	rings := [][]geom.Coord{
		{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		{{4, 4}, {6, 4}, {6, 6}, {4, 6}},
	}

	label, err := FindPoleRings(rings, 0.1)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, label.Distance, 0.15)
	// Not at the hole-obstructed center.
	assert.Greater(t, math.Hypot(label.X-5, label.Y-5), 1.0)
	// Strictly inside.
	assert.Positive(t, SignedDistance(label.X, label.Y, rings))
}

func TestFindPoleSquareWithCornerHole(t *testing.T) {
	rings := [][]geom.Coord{
		{{0, 0}, {100, 0}, {100, 100}, {0, 100}},
		{{60, 60}, {60, 80}, {80, 80}, {80, 60}},
	}

	label, err := FindPoleRings(rings, 1.0)
	require.NoError(t, err)

	// The optimum sits in the lower-left quadrant, clear of the hole.
	assert.InDelta(t, 35.15, label.Distance, 1.0)
	assert.Less(t, label.X, 50.0)
	assert.Less(t, label.Y, 50.0)
}

func TestFindPoleLShape(t *testing.T) {
	// The centroid of an L lies outside it; the pole must not.
	rings := [][]geom.Coord{{
		{0, 0}, {4, 0}, {4, 1}, {1, 1}, {1, 4}, {0, 4},
	}}

	label, err := FindPoleRings(rings, 0.1)
	require.NoError(t, err)

	assert.Positive(t, SignedDistance(label.X, label.Y, rings))
	// True optimum is √2/(1+√2) ≈ 0.586 in the corner square; the search
	// lands on the 0.5625 grid point at this tolerance.
	assert.GreaterOrEqual(t, label.Distance, 0.52)
	assert.LessOrEqual(t, label.Distance, 0.59)
}

func TestFindPoleConvexContainment(t *testing.T) {
	tests := []struct {
		name  string
		rings [][]geom.Coord
	}{
		{
			name:  "triangle",
			rings: [][]geom.Coord{{{0, 0}, {7, 1}, {3, 5}}},
		},
		{
			name:  "thin rectangle",
			rings: [][]geom.Coord{{{0, 0}, {100, 0}, {100, 1}, {0, 1}}},
		},
		{
			name: "hexagon",
			rings: [][]geom.Coord{{
				{2, 0}, {4, 1}, {4, 3}, {2, 4}, {0, 3}, {0, 1},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, err := FindPoleRings(tt.rings, 0.01)
			require.NoError(t, err)
			assert.Positive(t, SignedDistance(label.X, label.Y, tt.rings))
		})
	}
}

func TestFindPoleMonotonicConvergence(t *testing.T) {
	rings := [][]geom.Coord{{
		{0, 0}, {4, 0}, {4, 1}, {1, 1}, {1, 4}, {0, 4},
	}}

	prev := math.Inf(-1)
	for _, tol := range []float64{1.0, 0.5, 0.1, 0.01, 0.001} {
		label, err := FindPoleRings(rings, tol)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, label.Distance, prev, "tolerance %v", tol)
		prev = label.Distance
	}
}

func TestFindPoleDeterminism(t *testing.T) {
	rings := [][]geom.Coord{
		{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		{{4, 4}, {6, 4}, {6, 6}, {4, 6}},
	}

	first, err := FindPoleRings(rings, 0.1)
	require.NoError(t, err)

	for n := 0; n < 5; n++ {
		again, err := FindPoleRings(rings, 0.1)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFindPoleScaleInvariance(t *testing.T) {
	rings := [][]geom.Coord{{
		{0, 0}, {4, 0}, {4, 1}, {1, 1}, {1, 4}, {0, 4},
	}}
	const k = 4.0

	scaled := make([][]geom.Coord, len(rings))
	for i, ring := range rings {
		scaled[i] = make([]geom.Coord, len(ring))
		for j, c := range ring {
			scaled[i][j] = geom.Coord{c[0] * k, c[1] * k}
		}
	}

	base, err := FindPoleRings(rings, 0.1)
	require.NoError(t, err)
	big, err := FindPoleRings(scaled, 0.1*k)
	require.NoError(t, err)

	assert.InDelta(t, base.X*k, big.X, 1e-9)
	assert.InDelta(t, base.Y*k, big.Y, 1e-9)
	assert.InDelta(t, base.Distance*k, big.Distance, 1e-9)
}

func TestFindPoleDegenerateGeometry(t *testing.T) {
	tests := []struct {
		name  string
		rings [][]geom.Coord
	}{
		{
			name:  "no rings",
			rings: nil,
		},
		{
			name:  "two-vertex exterior",
			rings: [][]geom.Coord{{{0, 0}, {1, 1}}},
		},
		{
			name:  "collinear exterior",
			rings: [][]geom.Coord{{{0, 0}, {1, 0}, {2, 0}}},
		},
		{
			name:  "single repeated point",
			rings: [][]geom.Coord{{{3, 3}, {3, 3}, {3, 3}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FindPoleRings(tt.rings, 0.1)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDegenerateGeometry)
		})
	}
}

func TestFindPoleInvalidTolerance(t *testing.T) {
	rings := unitSquare()

	for _, tol := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := FindPoleRings(rings, tol)
		require.Error(t, err, "tolerance %v", tol)
		assert.ErrorIs(t, err, ErrInvalidTolerance, "tolerance %v", tol)
	}
}

func TestFindPoleGeomPolygon(t *testing.T) {
	p := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
		{{4, 4}, {6, 4}, {6, 6}, {4, 6}, {4, 4}},
	})

	label, err := FindPole(p, 0.1)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, label.Distance, 0.15)
}

func TestFindPoleToleranceBound(t *testing.T) {
	// A unit square's true optimum is exactly 0.5; even a loose tolerance
	// must come within that bound.
	rings := unitSquare()

	label, err := FindPoleRings(rings, 0.4)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, label.Distance, 0.5-0.4)
	assert.LessOrEqual(t, label.Distance, 0.5+1e-9)
}
