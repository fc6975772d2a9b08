package peer

import (
	"fmt"

	"chordring/internal/logger"
)

// Join links a Fresh peer into the ring. bootstrap == nil means this
// is the first peer in an empty ring; otherwise bootstrap is any
// already-joined peer used to reach the ring (spec.md §4.3).
//
// It returns the migration records emitted while transferring keys
// into the newly joined peer, one line per key moved, in the format
// spec.md §6 pins.
func (p *Peer) Join(bootstrap *Peer) ([]string, error) {
	if p.state != Fresh {
		return nil, fmt.Errorf("join peer %d: %w", p.id, ErrNotFresh)
	}
	if bootstrap == nil {
		p.bootstrapAlone()
		p.state = InRing
		p.lgr.Info("join: bootstrapped new ring")
		return nil, nil
	}

	if err := p.initFingerTable(bootstrap); err != nil {
		return nil, fmt.Errorf("join peer %d via %d: %w", p.id, bootstrap.id, err)
	}
	if err := p.updateOthers(); err != nil {
		return nil, fmt.Errorf("join peer %d via %d: %w", p.id, bootstrap.id, err)
	}
	migrations, err := p.transferKeys()
	if err != nil {
		return nil, fmt.Errorf("join peer %d via %d: %w", p.id, bootstrap.id, err)
	}

	p.state = InRing
	p.lgr.Info("join: completed", logger.F("via", bootstrap.id), logger.F("migrated", len(migrations)))
	return migrations, nil
}

// bootstrapAlone makes p its own successor and predecessor, the sole
// peer of a new ring (spec.md §4.3, bootstrap case).
func (p *Peer) bootstrapAlone() {
	for i := 1; i <= p.M(); i++ {
		p.ft.Set(i, p)
	}
	p.setPredecessor(p)
}

// initFingerTable is Phase A of the join protocol.
func (p *Peer) initFingerTable(b *Peer) error {
	start1 := p.ft.Get(1).Start
	succ, err := b.FindSuccessor(start1)
	if err != nil {
		return fmt.Errorf("init finger table: %w", err)
	}
	p.ft.Set(1, succ)

	oldPred := succ.Predecessor()
	p.setPredecessor(oldPred)
	succ.setPredecessor(p)

	for i := 1; i <= p.M()-1; i++ {
		f := p.ft.Get(i + 1)
		fp := p.ft.Get(i)
		if fp.Node != nil && p.space.LeftClosed(f.Start, p.id, fp.Node.id) {
			p.ft.Set(i+1, fp.Node)
			continue
		}
		next, err := b.FindSuccessor(f.Start)
		if err != nil {
			return fmt.Errorf("init finger table: finger %d: %w", i+1, err)
		}
		p.ft.Set(i+1, next)
	}
	return nil
}

// updateOthers is Phase B of the join protocol: it notifies every
// peer that might need to route through the new peer.
func (p *Peer) updateOthers() error {
	for i := 1; i <= p.M(); i++ {
		prev := p.space.Decrease(p.id, uint64(1)<<uint(i-1))
		pred, err := p.FindPredecessor(prev)
		if err != nil {
			return fmt.Errorf("update others: finger %d: %w", i, err)
		}
		succ := pred.Successor()
		if succ == nil {
			return fmt.Errorf("update others: finger %d: %w", i, ErrMissingSuccessor)
		}
		if prev == succ.id {
			pred = succ
		}
		updateFingerTableChain(pred, p, i)
	}
	return nil
}

// updateFingerTableChain implements update_finger_table(s, i) on p
// and its chain of predecessors. spec.md §9 suggests rewriting the
// recursive predecessor walk iteratively to avoid deep call stacks on
// large rings; this is that rewrite.
func updateFingerTableChain(p *Peer, s *Peer, i int) {
	cur := p
	for {
		f := cur.ft.Get(i)
		if f.Node == nil {
			return
		}
		if s.id == cur.id || !cur.space.LeftClosed(s.id, cur.id, f.Node.id) {
			return
		}
		cur.ft.Set(i, s)
		pred := cur.Predecessor()
		if pred == nil {
			return
		}
		cur = pred
	}
}

// transferKeys is Phase C of the join protocol: every key the new
// peer now owns moves from its successor's store to its own.
func (p *Peer) transferKeys() ([]string, error) {
	s := p.Successor()
	if s == nil {
		return nil, ErrMissingSuccessor
	}
	if s == p {
		return nil, nil
	}

	var moving []ID
	for _, e := range s.ks.All() {
		owner, err := p.FindSuccessor(e.Key)
		if err != nil {
			return nil, fmt.Errorf("transfer keys: %w", err)
		}
		if owner == p {
			moving = append(moving, e.Key)
		}
	}

	var records []string
	for _, k := range moving {
		v, _ := s.ks.Get(k)
		p.ks.Put(k, v)
		s.ks.Delete(k)
		records = append(records, fmt.Sprintf("migrate key %d from node %d to node %d", k, s.id, p.id))
	}
	for _, r := range records {
		p.lgr.Info(r)
	}
	return records, nil
}
