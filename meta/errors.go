package meta

import "errors"

// Navigation failures callers are expected to branch on. Everything
// else is reported as a plain wrapped error.
var (
	// ErrIndexOutOfRange reports a positional index that is negative,
	// unparsable, or beyond the live length of a sequence.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNoSuchProperty reports a property name the wrapped type does
	// not declare at all. A property that exists but holds nothing is
	// absent, not an error.
	ErrNoSuchProperty = errors.New("no such property")

	// ErrNotWritable reports a write into a value reflection cannot
	// mutate, an unaddressable root or a nil container.
	ErrNotWritable = errors.New("value is not writable")
)
