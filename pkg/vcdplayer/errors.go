package vcdplayer

import "errors"

// Errors returned by a Session. They are wrapped with context; test for
// them with errors.Is.
var (
	// ErrInvalidItemNumber is returned when an item number is outside the
	// range the catalog holds for its kind. The session is left unchanged.
	ErrInvalidItemNumber = errors.New("invalid item number")

	// ErrInvalidLsn is returned when the catalog has no sector location for
	// an item.
	ErrInvalidLsn = errors.New("invalid LSN")

	// ErrDiscRead reports a sector that could not be read. The sector has
	// already been skipped.
	ErrDiscRead = errors.New("disc read error")

	// ErrUnsupportedDescriptor is reported once when a command list is
	// entered. Playback then ends.
	ErrUnsupportedDescriptor = errors.New("unsupported PBC descriptor")

	// ErrMalformedGraph is returned for descriptor offsets that point at
	// nothing and for navigation that does not settle within the hop limit.
	ErrMalformedGraph = errors.New("malformed PBC graph")

	ErrNoTarget       = errors.New("no navigation target")
	ErrSeekOutOfRange = errors.New("seek out of range")
	ErrNotPlaying     = errors.New("not playing")
	ErrClosed         = errors.New("session closed")
)
