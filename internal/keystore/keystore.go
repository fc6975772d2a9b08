// Package keystore holds the local key/value mapping a peer is
// responsible for (spec.md §3, the KeyStore entity). It mutates only
// through Put/Delete/Take — insert, remove, and the key-migration steps of
// join/leave are the only callers, per spec.md's lifecycle note.
//
// Modeled after the teacher's internal/storage package, but dropped
// the sync.RWMutex: the ring core is single-threaded and cooperative
// (spec.md §5), so there is no concurrent access to guard against.
package keystore

import (
	"sort"

	"chordring/internal/logger"
	"chordring/internal/ring"
)

// Entry pairs a key with its value. A nil Value is a valid stored
// value (spec.md: "optional opaque value" describes the VALUE, not the
// presence of the key).
type Entry struct {
	Key   ring.ID
	Value any
}

// KeyStore is the in-memory map a Peer consults to answer Find/Insert/
// Remove for keys it currently owns.
type KeyStore struct {
	lgr  logger.Logger
	data map[ring.ID]any
}

// New creates an empty KeyStore. A nil logger.Logger is replaced with
// a NopLogger, matching the teacher's constructors.
func New(lgr logger.Logger) *KeyStore {
	if lgr == nil {
		lgr = &logger.NopLogger{}
	}
	ks := &KeyStore{
		lgr:  lgr,
		data: make(map[ring.ID]any),
	}
	ks.lgr.Debug("keystore initialized")
	return ks
}

// Put inserts or overwrites the value stored under key.
func (ks *KeyStore) Put(key ring.ID, value any) {
	_, existed := ks.data[key]
	ks.data[key] = value
	if existed {
		ks.lgr.Debug("key updated", logger.F("key", key))
	} else {
		ks.lgr.Debug("key inserted", logger.F("key", key))
	}
}

// Get retrieves the value stored under key. ok is false when key is
// absent.
func (ks *KeyStore) Get(key ring.ID) (value any, ok bool) {
	value, ok = ks.data[key]
	return value, ok
}

// Delete removes key from the store. ok is false when key was absent.
func (ks *KeyStore) Delete(key ring.ID) (ok bool) {
	_, ok = ks.data[key]
	if ok {
		delete(ks.data, key)
		ks.lgr.Debug("key removed", logger.F("key", key))
	}
	return ok
}

// Len reports how many keys are currently stored.
func (ks *KeyStore) Len() int {
	return len(ks.data)
}

// Between returns every stored entry whose key falls in the half-open
// interval (from, to] on the ring, the set a join/leave migration step
// moves between two KeyStores.
func (ks *KeyStore) Between(sp ring.Space, from, to ring.ID) []Entry {
	var out []Entry
	for k, v := range ks.data {
		if sp.RightClosed(k, from, to) {
			out = append(out, Entry{Key: k, Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// All returns every stored entry, sorted by key.
func (ks *KeyStore) All() []Entry {
	out := make([]Entry, 0, len(ks.data))
	for k, v := range ks.data {
		out = append(out, Entry{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Take removes the key of every entry in entries, used when migrating
// keys away from this store during join or leave.
func (ks *KeyStore) Take(entries []Entry) {
	for _, e := range entries {
		delete(ks.data, e.Key)
	}
}

// DebugLog emits a structured snapshot of the store's contents at
// Debug level, mirroring the teacher's Storage.DebugLog.
func (ks *KeyStore) DebugLog() {
	all := ks.All()
	keys := make([]ring.ID, 0, len(all))
	for _, e := range all {
		keys = append(keys, e.Key)
	}
	ks.lgr.Debug("keystore snapshot",
		logger.F("count", len(all)),
		logger.F("keys", keys),
	)
}
