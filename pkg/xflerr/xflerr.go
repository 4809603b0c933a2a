// Package xflerr defines the shared error taxonomy for the parser.
//
// The core never panics on malformed input. Every fallible stage returns one
// of these sentinels (wrapped with context via fmt.Errorf("...: %w", err))
// so callers can distinguish "this archive can't be opened at all" from
// "this one symbol/bitmap/edge was skipped but the Document is still usable".
package xflerr

import "errors"

var (
	// ErrMalformed means DOMDocument.xml is absent or not parseable. Fatal: abort.
	ErrMalformed = errors.New("malformed archive")

	// ErrCancelled means the caller's cancellation predicate returned true.
	ErrCancelled = errors.New("parse cancelled")

	// ErrBitmapRecoveryFailed means every decompression strategy in the
	// cascade yielded less than one pixel's worth of data.
	ErrBitmapRecoveryFailed = errors.New("bitmap recovery failed")

	// ErrInvalidHex means a hex coordinate token's integer part failed to parse.
	ErrInvalidHex = errors.New("invalid hex coordinate")

	// ErrInvalidMagic means a .dat blob's header magic bytes are unrecognised.
	ErrInvalidMagic = errors.New("invalid bitmap magic")

	// ErrInvalidHeader means a .dat blob's header is truncated or inconsistent.
	ErrInvalidHeader = errors.New("invalid bitmap header")

	// ErrDecompressionFailed means the decompression cascade exhausted every
	// strategy without producing any usable output.
	ErrDecompressionFailed = errors.New("decompression failed")

	// ErrArchiveRepairFailed means both EOCD repair strategies were
	// attempted and the archive still could not be opened.
	ErrArchiveRepairFailed = errors.New("archive repair failed")
)
