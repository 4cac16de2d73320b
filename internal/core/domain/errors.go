package domain

import "errors"

var (
	// ErrInsufficientVertices is returned when a sequence is too short to
	// commit, or a vertex deletion would take a polygon below its floor.
	ErrInsufficientVertices = errors.New("insufficient vertices")

	ErrPolygonNotFound    = errors.New("polygon not found")
	ErrCollectionInactive = errors.New("no collection in progress")
	ErrVertexIndex        = errors.New("vertex index out of range")
	ErrInvalidPoint       = errors.New("coordinate out of range")

	// ErrStaleMenu means the menu token was replaced by a newer invocation.
	ErrStaleMenu = errors.New("menu binding is stale")

	ErrViewportNotFound = errors.New("viewport not stored")
	ErrInvalidViewport  = errors.New("invalid viewport")

	ErrMalformedExport   = errors.New("malformed export")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

var (
	ErrInvalidEvent      = errors.New("invalid input event")
	ErrUnknownMenuAction = errors.New("unknown menu action")
)

// ErrArchiveUnavailable means no export archive backend is configured.
var ErrArchiveUnavailable = errors.New("export archive not configured")

// IsClientError reports whether err was caused by the request itself, so
// retrying the same input cannot succeed.
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrInvalidEvent,
		ErrInvalidPoint,
		ErrPolygonNotFound,
		ErrCollectionInactive,
		ErrVertexIndex,
		ErrStaleMenu,
		ErrUnknownMenuAction,
		ErrInvalidViewport,
		ErrMalformedExport,
		ErrUnsupportedFormat,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
