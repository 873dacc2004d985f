package timeline

import "errors"

var (
	// ErrValidation marks a malformed import payload or an invariant
	// violation. The log is left unchanged.
	ErrValidation = errors.New("timeline: invalid document")

	// ErrNotFound marks a revert target version that does not exist.
	ErrNotFound = errors.New("timeline: version not found")

	// ErrStorage marks a persistence backend failure during a write.
	// The in-memory document stays at its last persisted state.
	ErrStorage = errors.New("timeline: storage failure")

	// ErrInvalidInput marks bad caller-supplied arguments.
	ErrInvalidInput = errors.New("timeline: invalid input")
)
