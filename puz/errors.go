package puz

import "errors"

// Errors returned while parsing or unlocking puzzle files.  Decode errors are
// returned immediately; they are never accumulated.  Callers should compare
// with errors.Is since parse errors may be wrapped with positional context.
var (
	// ErrTruncated is returned when the buffer ends before a required field.
	ErrTruncated = errors.New("puz: buffer truncated")

	// ErrMissingRTBL is returned when a non-empty rebus grid is not
	// immediately followed by its rebus table section.
	ErrMissingRTBL = errors.New("puz: rebus grid is missing a rebus table")

	// ErrClueCountShort is returned when the buffer ends before the number of
	// clues promised by the header has been read.
	ErrClueCountShort = errors.New("puz: ran out of clues")

	// ErrMalformedExtension is returned when an extension section's length is
	// inconsistent with its payload or its terminator is missing.
	ErrMalformedExtension = errors.New("puz: malformed extension section")

	// ErrFormat is returned when the input doesn't look like either the
	// binary container or the text authoring format.
	ErrFormat = errors.New("puz: unrecognized file format")

	// ErrBadKey is returned when an unlock key contains a zero digit or is
	// outside the four digit range.
	ErrBadKey = errors.New("puz: invalid key")

	// ErrWrongKey is returned when unlocking produced a solution whose
	// checksum doesn't match the one stored in the header.
	ErrWrongKey = errors.New("puz: wrong key")

	// ErrNotScrambled is returned when an unlock is requested for a puzzle
	// whose solution isn't scrambled.
	ErrNotScrambled = errors.New("puz: puzzle is not scrambled")

	// ErrScrambled is returned when a lock is requested for a puzzle whose
	// solution is already scrambled.
	ErrScrambled = errors.New("puz: puzzle is already scrambled")

	// ErrKeyNotFound is returned by the brute force search when no four digit
	// key unlocks the puzzle.
	ErrKeyNotFound = errors.New("puz: no key unlocks this puzzle")

	// ErrNotPresent is returned by accessors for extension sections the
	// puzzle doesn't carry.
	ErrNotPresent = errors.New("puz: section not present")
)
