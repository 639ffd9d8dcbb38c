package landscape

import "errors"

var (
	// ErrInvalidPatch is returned for a patch index outside the grid.
	ErrInvalidPatch = errors.New("landscape: invalid patch index")
	// ErrUnknownLayer is returned for a layer ID the surface does not hold.
	ErrUnknownLayer = errors.New("landscape: unknown layer")
	// ErrUnknownHole is returned for a hole ID the surface does not hold.
	ErrUnknownHole = errors.New("landscape: unknown hole volume")
	// ErrClosed is returned once the surface has been closed.
	ErrClosed = errors.New("landscape: surface closed")
	// ErrNotInitialized is returned before height data was loaded.
	ErrNotInitialized = errors.New("landscape: surface not initialized")
)
