package peer

import "errors"

// Sentinel errors reported by peer operations (spec.md §7). All are
// recoverable: they bubble to the caller of the public operation that
// detected them, with no local recovery attempted.
var (
	// ErrMissingSuccessor indicates a peer's successor field is empty
	// at a point where it must be set: a broken invariant, or an
	// attempt to operate on a Fresh peer.
	ErrMissingSuccessor = errors.New("peer: missing successor")

	// ErrMissingFingerStart indicates a request for a finger's start
	// found no precomputed value. Cannot occur under correct
	// construction; surfaced rather than silently defaulted.
	ErrMissingFingerStart = errors.New("peer: missing finger start")

	// ErrMissingPredecessor indicates predecessor is missing when
	// required, e.g. during a leave on a peer that never joined.
	ErrMissingPredecessor = errors.New("peer: missing predecessor")

	// ErrNotFresh indicates join was called on a peer already past
	// the Fresh state.
	ErrNotFresh = errors.New("peer: join called on a non-fresh peer")

	// ErrDetached indicates an operation other than inspection was
	// attempted on a Detached peer.
	ErrDetached = errors.New("peer: operation attempted on a detached peer")
)
