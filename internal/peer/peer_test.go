package peer

import (
	"testing"

	"chordring/internal/ring"
)

func mustSpace(t *testing.T, bits uint) ring.Space {
	t.Helper()
	sp, err := ring.NewSpace(bits)
	if err != nil {
		t.Fatalf("NewSpace(%d) failed: %v", bits, err)
	}
	return sp
}

// buildScenarioARing constructs the six-peer ring of spec.md Scenario
// A: ids 0, 30, 65, 110, 160, 230, joining in order against the
// previous peer. Returns the peers in join order.
func buildScenarioARing(t *testing.T) (ring.Space, []*Peer) {
	t.Helper()
	sp := mustSpace(t, 8)
	ids := []ID{0, 30, 65, 110, 160, 230}
	peers := make([]*Peer, len(ids))
	peers[0] = New(sp, ids[0], nil)
	if _, err := peers[0].Join(nil); err != nil {
		t.Fatalf("bootstrap peer %d: %v", ids[0], err)
	}
	for i := 1; i < len(ids); i++ {
		peers[i] = New(sp, ids[i], nil)
		if _, err := peers[i].Join(peers[i-1]); err != nil {
			t.Fatalf("join peer %d via %d: %v", ids[i], ids[i-1], err)
		}
	}
	return sp, peers
}

func byID(peers []*Peer, id ID) *Peer {
	for _, p := range peers {
		if p.ID() == id {
			return p
		}
	}
	return nil
}

func TestScenarioARingConstruction(t *testing.T) {
	_, peers := buildScenarioARing(t)

	tests := []struct {
		id       ID
		wantSucc ID
		wantPred ID
	}{
		{id: 0, wantSucc: 30, wantPred: 230},
		{id: 30, wantSucc: 65, wantPred: 0},
		{id: 230, wantSucc: 0, wantPred: 160},
	}
	for _, tt := range tests {
		p := byID(peers, tt.id)
		if got := p.Successor().ID(); got != tt.wantSucc {
			t.Errorf("peer %d successor = %d, want %d", tt.id, got, tt.wantSucc)
		}
		if got := p.Predecessor().ID(); got != tt.wantPred {
			t.Errorf("peer %d predecessor = %d, want %d", tt.id, got, tt.wantPred)
		}
	}

	p65 := byID(peers, 65)
	f1 := p65.FingerTable().Get(1)
	if f1.Start != 66 {
		t.Errorf("peer 65 finger[1].start = %d, want 66", f1.Start)
	}
	if f1.Node.ID() != 110 {
		t.Errorf("peer 65 finger[1].node = %d, want 110", f1.Node.ID())
	}
	f8 := p65.FingerTable().Get(8)
	if f8.Start != 193 {
		t.Errorf("peer 65 finger[8].start = %d, want 193", f8.Start)
	}
	if f8.Node.ID() != 230 {
		t.Errorf("peer 65 finger[8].node = %d, want 230", f8.Node.ID())
	}
}

func insertScenarioB(t *testing.T, peers []*Peer) {
	t.Helper()
	entry := byID(peers, 0)
	inserts := []struct {
		key ID
		val any
	}{
		{3, 3}, {200, nil}, {123, nil}, {45, 3}, {99, nil}, {60, 10},
		{50, 8}, {100, 5}, {101, 4}, {102, 6}, {240, 8}, {250, 10},
	}
	for _, ins := range inserts {
		if err := entry.Insert(ins.key, ins.val); err != nil {
			t.Fatalf("insert(%d, %v) failed: %v", ins.key, ins.val, err)
		}
	}
}

func TestScenarioBInsertOwnership(t *testing.T) {
	_, peers := buildScenarioARing(t)
	insertScenarioB(t, peers)

	want := map[ID][]ID{
		0:   {240, 250},
		30:  {3},
		65:  {45, 50, 60},
		110: {99, 100, 101, 102},
		160: {123},
		230: {200},
	}
	for id, keys := range want {
		p := byID(peers, id)
		got := p.KeyStore().All()
		if len(got) != len(keys) {
			t.Errorf("peer %d holds %d keys, want %d (%v)", id, len(got), len(keys), keys)
			continue
		}
		for i, k := range keys {
			if got[i].Key != k {
				t.Errorf("peer %d key[%d] = %d, want %d", id, i, got[i].Key, k)
			}
		}
	}
}

func TestScenarioCLookupPath(t *testing.T) {
	_, peers := buildScenarioARing(t)
	insertScenarioB(t, peers)

	p65 := byID(peers, 65)
	v, ok, err := p65.Find(200)
	if err != nil {
		t.Fatalf("find(200) from peer 65: %v", err)
	}
	if !ok {
		t.Fatalf("find(200) from peer 65: not found, want found with nil value")
	}
	if v != nil {
		t.Errorf("find(200) value = %v, want nil", v)
	}
	trace := p65.LookupTrace()
	want := "Look-up result of key 200 from node 65 with path [65,230] value is None"
	if len(trace) != 1 || trace[0] != want {
		t.Errorf("peer 65 trace = %v, want [%q]", trace, want)
	}

	p0 := byID(peers, 0)
	v, ok, err = p0.Find(50)
	if err != nil {
		t.Fatalf("find(50) from peer 0: %v", err)
	}
	if !ok || v != 8 {
		t.Fatalf("find(50) from peer 0 = (%v, %v), want (8, true)", v, ok)
	}
	trace = p0.LookupTrace()
	want = "Look-up result of key 50 from node 0 with path [0,65] value is 8"
	if len(trace) != 1 || trace[0] != want {
		t.Errorf("peer 0 trace = %v, want [%q]", trace, want)
	}
}

func TestScenarioDJoinOfPeer100(t *testing.T) {
	_, peers := buildScenarioARing(t)
	insertScenarioB(t, peers)

	sp := peers[0].Space()
	p230 := byID(peers, 230)
	p100 := New(sp, 100, nil)
	if _, err := p100.Join(p230); err != nil {
		t.Fatalf("join peer 100 via 230: %v", err)
	}

	// A key lives on the first peer at or after it, so 99 and 100 move
	// to peer 100 while 101 and 102 stay on peer 110.
	p110 := byID(peers, 110)
	got110 := p110.KeyStore().All()
	if len(got110) != 2 || got110[0].Key != 101 || got110[1].Key != 102 {
		t.Errorf("peer 110 keys after join of 100 = %v, want [101 102]", got110)
	}

	got100 := p100.KeyStore().All()
	wantKeys := map[ID]any{99: nil, 100: 5}
	if len(got100) != len(wantKeys) {
		t.Fatalf("peer 100 keys = %v, want %v", got100, wantKeys)
	}
	for _, e := range got100 {
		if wantKeys[e.Key] != e.Value {
			t.Errorf("peer 100 key %d = %v, want %v", e.Key, e.Value, wantKeys[e.Key])
		}
	}

	for id := ID(66); id <= 100; id++ {
		s, err := p110.FindSuccessor(id)
		if err != nil {
			t.Fatalf("find_successor(%d): %v", id, err)
		}
		if s.ID() != 100 {
			t.Errorf("find_successor(%d) = %d, want 100", id, s.ID())
		}
	}
}

func TestScenarioELeaveOfPeer65(t *testing.T) {
	_, peers := buildScenarioARing(t)
	insertScenarioB(t, peers)

	p65 := byID(peers, 65)
	p30 := byID(peers, 30)
	p110 := byID(peers, 110)

	records, err := p65.Leave()
	if err != nil {
		t.Fatalf("leave peer 65: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("leave peer 65 produced %d migration records, want 3: %v", len(records), records)
	}

	got110 := p110.KeyStore().All()
	wantKeys := []ID{45, 50, 60, 99, 100, 101, 102}
	if len(got110) != len(wantKeys) {
		t.Fatalf("peer 110 keys after leave of 65 = %v, want keys %v", got110, wantKeys)
	}
	have := map[ID]bool{}
	for _, e := range got110 {
		have[e.Key] = true
	}
	for _, k := range wantKeys {
		if !have[k] {
			t.Errorf("peer 110 missing migrated key %d", k)
		}
	}

	if p30.Successor().ID() != 110 {
		t.Errorf("peer 30 successor after leave = %d, want 110", p30.Successor().ID())
	}
	if p110.Predecessor().ID() != 30 {
		t.Errorf("peer 110 predecessor after leave = %d, want 30", p110.Predecessor().ID())
	}

	for _, p := range peers {
		if p == p65 {
			continue
		}
		for i := 1; i <= p.M(); i++ {
			f := p.FingerTable().Get(i)
			if f.Node != nil && f.Node.ID() == 65 {
				t.Errorf("peer %d finger[%d] still points at departed peer 65", p.ID(), i)
			}
		}
		if p.Predecessor() != nil && p.Predecessor().ID() == 65 {
			t.Errorf("peer %d predecessor still points at departed peer 65", p.ID())
		}
	}

	if p65.State() != Detached {
		t.Errorf("peer 65 state after leave = %v, want Detached", p65.State())
	}
}

func TestBootstrapAlonePeerIsItsOwnSuccessorAndPredecessor(t *testing.T) {
	sp := mustSpace(t, 8)
	p := New(sp, 42, nil)
	if _, err := p.Join(nil); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if p.Successor() != p {
		t.Errorf("alone peer successor = %v, want self", p.Successor())
	}
	if p.Predecessor() != p {
		t.Errorf("alone peer predecessor = %v, want self", p.Predecessor())
	}
	if p.State() != InRing {
		t.Errorf("state after bootstrap = %v, want InRing", p.State())
	}
}

func TestJoinOnNonFreshPeerFails(t *testing.T) {
	sp := mustSpace(t, 8)
	p := New(sp, 1, nil)
	if _, err := p.Join(nil); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if _, err := p.Join(nil); err == nil {
		t.Fatalf("second join on already in-ring peer succeeded, want error")
	}
}

func TestFindMissingKeyReturnsNoTrace(t *testing.T) {
	_, peers := buildScenarioARing(t)
	p := byID(peers, 0)
	_, ok, err := p.Find(17)
	if err != nil {
		t.Fatalf("find(17): %v", err)
	}
	if ok {
		t.Fatalf("find(17) ok = true, want false (key never inserted)")
	}
	if trace := p.LookupTrace(); len(trace) != 0 {
		t.Errorf("trace after miss = %v, want empty", trace)
	}
}

func TestFingerTableGetPanicsOnZero(t *testing.T) {
	sp := mustSpace(t, 8)
	p := New(sp, 5, nil)
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("FingerTable.Get(0) did not panic")
		}
	}()
	p.FingerTable().Get(0)
}
