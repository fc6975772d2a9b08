// Package observability renders a peer's routing state and recorded
// history as human-readable text (spec.md §6's pretty-print, key-dump
// and lookup-trace-dump contracts). It depends only on Peer's exported
// accessors, never on its unexported fields.
package observability

import (
	"fmt"
	"strings"

	"chordring/internal/peer"
)

// PrettyPrint renders p's finger table in the line-for-line format
// golden tests are built against (spec.md §6):
//
//	----------Node id:<ID>----------
//	Successor:  <SUCC_ID> Predecessor: <PRED_ID>
//	FingerTables:
//	| k =  <i> [ <start>, <interval_right> )	succ. = <succ_id>
//	...
//	------------------------------
//	******************************
func PrettyPrint(p *peer.Peer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "----------Node id:%d----------\n", p.ID())
	fmt.Fprintf(&b, "Successor:  %d Predecessor: %d\n", p.Successor().ID(), p.Predecessor().ID())
	b.WriteString("FingerTables:\n")

	m := p.M()
	for i := 1; i <= m; i++ {
		f := p.FingerTable().Get(i)
		var intervalRight peer.ID
		if i < m {
			intervalRight = p.FingerTable().Get(i + 1).Start
		} else {
			intervalRight = p.ID()
		}
		var succID peer.ID
		if f.Node != nil {
			succID = f.Node.ID()
		}
		fmt.Fprintf(&b, "| k =  %d [ %d, %d )\tsucc. = %d\n", i, f.Start, intervalRight, succID)
	}
	b.WriteString("------------------------------\n")
	b.WriteString("******************************\n")
	return b.String()
}

// PrintKeys renders a dump of p's local key store, one line per entry,
// sorted by key.
func PrintKeys(p *peer.Peer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "----------Node id:%d keys----------\n", p.ID())
	for _, e := range p.KeyStore().All() {
		if e.Value == nil {
			fmt.Fprintf(&b, "key %d = None\n", e.Key)
		} else {
			fmt.Fprintf(&b, "key %d = %v\n", e.Key, e.Value)
		}
	}
	b.WriteString("------------------------------\n")
	return b.String()
}

// PrintLookupResults renders the full lookup-trace buffer p has
// accumulated, one recorded line per completed find (spec.md §6's
// "Look-up result of key ..." format, in recording order). The buffer
// itself is left unchanged.
func PrintLookupResults(p *peer.Peer) string {
	var b strings.Builder
	for _, line := range p.LookupTrace() {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
