package history

import (
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Snapshot is a point-in-time copy of both sequences.
type Snapshot struct {
	Undo     []Token
	Rollback []Token
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Undo:     clone(s.undo),
		Rollback: clone(s.rollback),
	}
}

// JSON renders the snapshot as {"undo":[...],"rollback":[...]}.
// Empty sequences are rendered as empty arrays, never null.
func (snap Snapshot) JSON() ([]byte, error) {
	doc := []byte(`{"undo":[],"rollback":[]}`)
	var err error
	for i, tok := range snap.Undo {
		if doc, err = sjson.SetBytes(doc, "undo."+strconv.Itoa(i), tok); err != nil {
			return nil, err
		}
	}
	for i, tok := range snap.Rollback {
		if doc, err = sjson.SetBytes(doc, "rollback."+strconv.Itoa(i), tok); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// ParseSnapshot reads a document in the form produced by JSON.
// A missing sequence is read as empty.
func ParseSnapshot(data []byte) (Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return Snapshot{}, &SnapshotError{Reason: "invalid JSON"}
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return Snapshot{}, &SnapshotError{Reason: "document is not an object"}
	}

	var snap Snapshot
	fields := []struct {
		key string
		dst *[]Token
	}{
		{"undo", &snap.Undo},
		{"rollback", &snap.Rollback},
	}
	for _, f := range fields {
		seq := doc.Get(f.key)
		if !seq.Exists() {
			continue
		}
		if !seq.IsArray() {
			return Snapshot{}, &SnapshotError{Path: f.key, Reason: "not an array"}
		}
		for i, item := range seq.Array() {
			if item.Type != gjson.String {
				return Snapshot{}, &SnapshotError{
					Path:   f.key + "." + strconv.Itoa(i),
					Reason: "not a string",
				}
			}
			*f.dst = append(*f.dst, item.String())
		}
	}
	return snap, nil
}

// Restore replaces both sequences with copies of snap's. With a limit set,
// the oldest undo entries and the tail of the rollback sequence are dropped.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	s.undo = clone(snap.Undo)
	s.rollback = clone(snap.Rollback)
	if n := s.maxEntries; n > 0 {
		if len(s.undo) > n {
			s.undo = s.undo[len(s.undo)-n:]
		}
		if len(s.rollback) > n {
			s.rollback = s.rollback[:n]
		}
	}
	s.mu.Unlock()

	s.notify()
}

// OnChange registers fn to be called with a snapshot after every mutation.
// The returned function unregisters it.
func (s *Store) OnChange(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// notify delivers a snapshot to every observer without holding the lock.
func (s *Store) notify() {
	s.mu.Lock()
	if len(s.observers) == 0 {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
