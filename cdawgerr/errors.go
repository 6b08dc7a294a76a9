// Package cdawgerr defines the sentinel error taxonomy shared by every
// cdawg subpackage.
//
// Error policy (explicit and strict):
//   - Only sentinel variables (package-level) are exposed.
//   - Callers MUST use errors.Is(err, ErrX) to branch on semantics.
//   - Sentinels are never wrapped with formatted strings at definition site;
//     call sites attach context with Wrap/Wrapf instead.
//   - InvariantViolation is never returned as a recoverable error: Fatal
//     panics immediately with the failing invariant's label.
package cdawgerr

import (
	"errors"
	"fmt"
)

// Five error kinds, grouped per the project's error-handling design.
var (
	// ErrConfiguration covers missing required paths, inconsistent sizes,
	// or a token width too narrow for the observed vocabulary.
	ErrConfiguration = errors.New("cdawg: configuration error")

	// ErrIO covers read/write/mmap failures.
	ErrIO = errors.New("cdawg: io error")

	// ErrDecode covers malformed metadata or arena headers.
	ErrDecode = errors.New("cdawg: decode error")

	// ErrCapacity covers arena growth failures (disk full, address space exhausted).
	ErrCapacity = errors.New("cdawg: capacity error")

	// ErrInvariant marks an internal invariant check that failed. It is
	// never returned to a caller as a recoverable error; use Fatal to raise it.
	ErrInvariant = errors.New("cdawg: invariant violation")
)

// Wrap attaches method/operation context to a sentinel, preserving it for
// errors.Is while adding a deterministic prefix.
//
// Example: Wrap("Arena.Allocate", ErrCapacity) -> "Arena.Allocate: cdawg: capacity error"
func Wrap(context string, sentinel error) error {
	return fmt.Errorf("%s: %w", context, sentinel)
}

// Wrapf is Wrap with a formatted message appended after the sentinel.
func Wrapf(context string, sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w: %s", context, sentinel, fmt.Sprintf(format, args...))
}

// Fatal panics with the failing invariant's label. Invariant violations are
// always fatal to the process; they must never be surfaced as a value a
// caller could recover from.
func Fatal(label string) {
	panic(fmt.Sprintf("cdawg: invariant violation: %s", label))
}
