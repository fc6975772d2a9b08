package peer

import (
	"fmt"

	"chordring/internal/logger"
)

// FindSuccessor returns the peer responsible for id (spec.md §4.4):
// find_predecessor(id).successor.
func (p *Peer) FindSuccessor(id ID) (*Peer, error) {
	pred, err := p.FindPredecessor(id)
	if err != nil {
		return nil, err
	}
	succ := pred.Successor()
	if succ == nil {
		return nil, fmt.Errorf("find successor of %d: %w", id, ErrMissingSuccessor)
	}
	return succ, nil
}

// FindPredecessor walks the ring from this peer until it finds the
// peer n such that id lies in (n.id, n.successor.id] (spec.md §4.4).
// Each iteration moves n strictly closer to id; under invariants I1
// and I4 this terminates in O(M) hops.
func (p *Peer) FindPredecessor(id ID) (*Peer, error) {
	n := p
	for {
		succ := n.Successor()
		if succ == nil {
			return nil, fmt.Errorf("find predecessor of %d at peer %d: %w", id, n.id, ErrMissingSuccessor)
		}
		if n.space.RightClosed(id, n.id, succ.id) {
			return n, nil
		}
		n = n.closestPrecedingNode(id)
	}
}

// closestPrecedingNode scans fingers from M down to 1 and returns the
// first one whose node lies strictly between self and id; falls back
// to self when none does (spec.md §4.4).
func (p *Peer) closestPrecedingNode(id ID) *Peer {
	for i := p.M(); i >= 1; i-- {
		f := p.ft.Get(i)
		if f.Node != nil && p.space.InOpenInterval(f.Node.id, p.id, id) {
			return f.Node
		}
	}
	return p
}

// Find looks up key k. On a hit it appends a trace line to this
// peer's lookup buffer and returns the stored value; on a miss it
// returns ok == false and records no trace (spec.md §4.4, §6).
func (p *Peer) Find(k ID) (value any, ok bool, err error) {
	s, err := p.FindSuccessor(k)
	if err != nil {
		return nil, false, err
	}
	v, found := s.ks.Get(k)
	if !found {
		return nil, false, nil
	}
	var path string
	if s == p {
		path = fmt.Sprintf("%d", p.id)
	} else {
		path = fmt.Sprintf("%d,%d", p.id, s.id)
	}
	valueStr := "None"
	if v != nil {
		valueStr = fmt.Sprintf("%v", v)
	}
	p.recordTrace(fmt.Sprintf("Look-up result of key %d from node %d with path [%s] value is %s", k, p.id, path, valueStr))
	p.lgr.Debug("find: key located", logger.F("key", k), logger.F("owner", s.id))
	return v, true, nil
}

// Insert routes k to its successor and stores (k, v) there (spec.md
// §4.4).
func (p *Peer) Insert(k ID, v any) error {
	s, err := p.FindSuccessor(k)
	if err != nil {
		return err
	}
	s.ks.Put(k, v)
	p.lgr.Debug("insert: key stored", logger.F("key", k), logger.F("owner", s.id))
	return nil
}

// Remove routes k to its successor and removes it from that peer's
// key store (spec.md §4.4).
func (p *Peer) Remove(k ID) error {
	s, err := p.FindSuccessor(k)
	if err != nil {
		return err
	}
	s.ks.Delete(k)
	p.lgr.Debug("remove: key deleted", logger.F("key", k), logger.F("owner", s.id))
	return nil
}
