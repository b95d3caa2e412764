package polylabel

import "github.com/rotisserie/eris"

// Sentinel errors returned by FindPole and FindPoleRings. Both are
// terminal for the call: they are detected before the search loop starts,
// so a partial result is never returned as if complete.
var (
	// ErrDegenerateGeometry means the exterior ring has fewer than three
	// vertices or the polygon collapses to a point or line.
	ErrDegenerateGeometry = eris.New("degenerate polygon geometry")

	// ErrInvalidTolerance means the tolerance is zero, negative, or not
	// finite. Rejected up front because it could prevent termination.
	ErrInvalidTolerance = eris.New("tolerance must be a positive finite number")
)
