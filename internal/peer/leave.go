package peer

import (
	"fmt"

	"chordring/internal/logger"
)

// Leave splices the departing peer out of the ring, migrates its keys
// to its successor, and patches every finger that pointed at it
// (spec.md §4.5). It returns the migration records emitted, one line
// per key moved.
func (p *Peer) Leave() ([]string, error) {
	if p.state != InRing {
		return nil, fmt.Errorf("leave peer %d: peer is not in-ring (state=%s)", p.id, p.state)
	}

	s := p.Successor()
	pred := p.Predecessor()
	if s == nil {
		return nil, fmt.Errorf("leave peer %d: %w", p.id, ErrMissingSuccessor)
	}
	if pred == nil {
		return nil, fmt.Errorf("leave peer %d: %w", p.id, ErrMissingPredecessor)
	}

	if s == p && pred == p {
		// the only peer in the ring: nothing to splice or migrate.
		p.state = Detached
		p.lgr.Info("leave: departed the only peer in the ring")
		return nil, nil
	}

	s.setPredecessor(pred)
	pred.ft.Set(1, s)

	var records []string
	for _, e := range p.ks.All() {
		s.ks.Put(e.Key, e.Value)
		records = append(records, fmt.Sprintf("migrate key %d from node %d to node %d", e.Key, p.id, s.id))
	}
	p.ks.Take(p.ks.All())

	for i := 1; i <= p.M(); i++ {
		prev := p.space.Decrease(p.id, uint64(1)<<uint(i-1))
		pr, err := s.FindPredecessor(prev)
		if err != nil {
			return nil, fmt.Errorf("leave peer %d: update others: finger %d: %w", p.id, i, err)
		}
		updateFingerTableOnLeaveChain(pr, s, i, p.id)
	}

	p.state = Detached
	for _, r := range records {
		p.lgr.Info(r)
	}
	p.lgr.Info("leave: completed", logger.F("successor", s.id), logger.F("predecessor", pred.id))
	return records, nil
}

// updateFingerTableOnLeaveChain walks the predecessor chain from p,
// replacing finger i with s wherever it still points at the departed
// peer (leavingID), stopping as soon as a peer's finger i no longer
// matches — the leave counterpart to updateFingerTableChain.
func updateFingerTableOnLeaveChain(p *Peer, s *Peer, i int, leavingID ID) {
	cur := p
	for {
		f := cur.ft.Get(i)
		if f.Node == nil || f.Node.id != leavingID {
			return
		}
		cur.ft.Set(i, s)
		pred := cur.Predecessor()
		if pred == nil || pred == cur {
			return
		}
		cur = pred
	}
}
