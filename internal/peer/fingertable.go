package peer

import (
	"fmt"

	"chordring/internal/ring"
)

// Finger is one routing entry of a FingerTable: a precomputed start
// identifier and the peer currently believed to own it (spec.md §3).
type Finger struct {
	Start ID
	Node  *Peer
}

// FingerTable holds the M routing fingers of a peer plus its
// predecessor. Index 0 is unused; fingers are addressed 1..M to match
// spec.md's 1-based finger indexing. It lives in the same package as
// Peer because Finger.Node references *Peer directly.
//
// No invariant is enforced by the table itself (spec.md §4.2);
// correctness of what gets stored here is the peer protocol's job.
type FingerTable struct {
	space    ring.Space
	fingers  []Finger // fingers[1..M], fingers[0] is unused
	predNode *Peer
}

// newFingerTable produces a table with all M finger starts
// pre-computed for nodeID and every node field empty; predecessor
// empty.
func newFingerTable(sp ring.Space, nodeID ID, m int) *FingerTable {
	fingers := make([]Finger, m+1)
	for i := 1; i <= m; i++ {
		fingers[i] = Finger{Start: sp.FingerStart(nodeID, i)}
	}
	return &FingerTable{space: sp, fingers: fingers}
}

// M returns the number of fingers in the table.
func (ft *FingerTable) M() int {
	return len(ft.fingers) - 1
}

// Get returns a copy of finger i. It panics when i is 0 or exceeds M,
// mirroring the contract's "panics on i == 0" rule generalized to any
// out-of-range index.
func (ft *FingerTable) Get(i int) Finger {
	if i <= 0 || i > ft.M() {
		panic(fmt.Sprintf("peer: finger index %d out of range [1, %d]", i, ft.M()))
	}
	return ft.fingers[i]
}

// Set overwrites the node at index i; the finger's start remains
// whatever newFingerTable derived from the owning peer's id.
func (ft *FingerTable) Set(i int, p *Peer) {
	if i <= 0 || i > ft.M() {
		panic(fmt.Sprintf("peer: finger index %d out of range [1, %d]", i, ft.M()))
	}
	ft.fingers[i].Node = p
}

// Successor returns finger[1].node.
func (ft *FingerTable) Successor() *Peer {
	return ft.fingers[1].Node
}

// SetSuccessor is Set(1, p).
func (ft *FingerTable) SetSuccessor(p *Peer) {
	ft.Set(1, p)
}

// Predecessor returns the stored predecessor field.
func (ft *FingerTable) Predecessor() *Peer {
	return ft.predNode
}

// SetPredecessor overwrites the predecessor field.
func (ft *FingerTable) SetPredecessor(p *Peer) {
	ft.predNode = p
}
