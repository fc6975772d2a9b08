// Package peer implements the ring protocol: the Peer type, its
// FingerTable, and the join/leave/lookup operations that keep a ring
// of peers routable (spec.md §4.3-§4.6).
//
// Peers reference one another directly through *Peer pointers. Go's
// garbage collector and the single-threaded, cooperative execution
// model (spec.md §5 — one operation runs to completion before the
// next begins, no locking) make the "shared-ownership references with
// interior mutability" option from the design notes unnecessary: a
// plain pointer graph already gives every holder a live, mutable view
// of a peer's state, and nothing ever runs concurrently to race with
// it. See DESIGN.md for the alternatives considered.
package peer

import (
	"chordring/internal/keystore"
	"chordring/internal/logger"
	"chordring/internal/ring"
)

// ID is the ring identifier type fingers, keys and peers share.
type ID = ring.ID

// State is a peer's position in its lifecycle (spec.md §4.6).
type State int

const (
	// Fresh peers are constructed but not yet joined to any ring.
	Fresh State = iota
	// InRing peers participate in routing and may insert/remove/find.
	InRing
	// Detached peers have left the ring; only inspection is defined.
	Detached
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case InRing:
		return "in-ring"
	case Detached:
		return "detached"
	default:
		return "unknown"
	}
}

// Peer is one node of the ring: an identifier, a finger table, a local
// key store, and a buffer of recent lookup traces (spec.md §3).
type Peer struct {
	id    ID
	space ring.Space
	ft    *FingerTable
	ks    *keystore.KeyStore
	trace []string
	lgr   logger.Logger
	state State
}

// New constructs a peer with the given id in the Fresh state: its
// finger table has correctly computed starts and empty nodes, and its
// predecessor is empty (spec.md §3, Lifecycle).
func New(sp ring.Space, id ID, lgr logger.Logger) *Peer {
	if lgr == nil {
		lgr = &logger.NopLogger{}
	}
	lgr = lgr.Named("peer").With(logger.F("id", id))
	p := &Peer{
		id:    id,
		space: sp,
		ft:    newFingerTable(sp, id, int(sp.Bits)),
		ks:    keystore.New(lgr),
		lgr:   lgr,
		state: Fresh,
	}
	return p
}

// ID returns the peer's identifier.
func (p *Peer) ID() ID { return p.id }

// Space returns the identifier space this peer was created in.
func (p *Peer) Space() ring.Space { return p.space }

// M returns the bit length of the identifier space.
func (p *Peer) M() int { return int(p.space.Bits) }

// State returns the peer's current lifecycle state.
func (p *Peer) State() State { return p.state }

// FingerTable returns the peer's finger table for inspection or for
// use by another peer's protocol operations (spec.md §5: protocol
// procedures reach into another peer's specific fields).
func (p *Peer) FingerTable() *FingerTable { return p.ft }

// KeyStore returns the peer's local key store.
func (p *Peer) KeyStore() *keystore.KeyStore { return p.ks }

// Successor returns finger[1].node.
func (p *Peer) Successor() *Peer { return p.ft.Successor() }

// Predecessor returns the stored predecessor.
func (p *Peer) Predecessor() *Peer { return p.ft.Predecessor() }

// setSuccessor sets finger[1].node.
func (p *Peer) setSuccessor(s *Peer) { p.ft.SetSuccessor(s) }

// setPredecessor sets the predecessor field.
func (p *Peer) setPredecessor(pr *Peer) { p.ft.SetPredecessor(pr) }

// LookupTrace returns the peer's full recorded trace buffer, in
// recording order.
func (p *Peer) LookupTrace() []string {
	out := make([]string, len(p.trace))
	copy(out, p.trace)
	return out
}

func (p *Peer) recordTrace(line string) {
	p.trace = append(p.trace, line)
}
