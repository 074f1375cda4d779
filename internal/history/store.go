package history

import (
	"sync"
)

// Token identifies a single undoable command. The store never interprets it.
type Token = string

// TransferMode controls how Undo and Rollback treat an empty source sequence.
type TransferMode uint8

const (
	// TransferOnRemove inserts into the opposite sequence only when a token
	// was removed from the source sequence.
	TransferOnRemove TransferMode = iota
	// TransferAlways inserts into the opposite sequence even when the source
	// sequence is empty.
	TransferAlways
)

// String returns a string representation of the mode.
func (m TransferMode) String() string {
	switch m {
	case TransferOnRemove:
		return "on-remove"
	case TransferAlways:
		return "always"
	default:
		return "unknown"
	}
}

// ParseTransferMode parses a mode name as produced by String.
func ParseTransferMode(s string) (TransferMode, error) {
	switch s {
	case "", "on-remove":
		return TransferOnRemove, nil
	case "always":
		return TransferAlways, nil
	default:
		return TransferOnRemove, &ModeError{Value: s}
	}
}

// Option configures a Store.
type Option func(*Store)

// WithTransferMode sets the transfer mode.
func WithTransferMode(mode TransferMode) Option {
	return func(s *Store) {
		s.mode = mode
	}
}

// WithMaxEntries limits the length of each sequence.
// Zero or a negative value means unlimited.
func WithMaxEntries(n int) Option {
	return func(s *Store) {
		if n < 0 {
			n = 0
		}
		s.maxEntries = n
	}
}

// Store holds the undo and rollback sequences.
// Index 0 of each slice is the head of the sequence.
type Store struct {
	mu sync.Mutex

	undo     []Token
	rollback []Token

	// Configuration
	mode       TransferMode
	maxEntries int

	// Observers
	observers map[uint64]func(Snapshot)
	nextID    uint64
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		observers: make(map[uint64]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record appends a token to the tail of the undo sequence.
func (s *Store) Record(tok Token) {
	s.mu.Lock()
	s.undo = append(s.undo, tok)
	if s.maxEntries > 0 && len(s.undo) > s.maxEntries {
		s.undo = s.undo[len(s.undo)-s.maxEntries:]
	}
	s.mu.Unlock()

	s.notify()
}

// Undo inserts tok at the head of the rollback sequence and removes the head
// of the undo sequence. ok is false when the undo sequence was empty.
func (s *Store) Undo(tok Token) (Token, bool) {
	s.mu.Lock()
	head, ok := s.transferLocked(&s.undo, &s.rollback, tok)
	s.mu.Unlock()

	if ok || s.mode == TransferAlways {
		s.notify()
	}
	return head, ok
}

// Rollback inserts tok at the head of the undo sequence and removes the head
// of the rollback sequence. ok is false when the rollback sequence was empty.
func (s *Store) Rollback(tok Token) (Token, bool) {
	s.mu.Lock()
	head, ok := s.transferLocked(&s.rollback, &s.undo, tok)
	s.mu.Unlock()

	if ok || s.mode == TransferAlways {
		s.notify()
	}
	return head, ok
}

// transferLocked shifts the head off src and unshifts tok onto dst.
func (s *Store) transferLocked(src, dst *[]Token, tok Token) (Token, bool) {
	empty := len(*src) == 0
	if !empty || s.mode == TransferAlways {
		*dst = unshift(*dst, tok, s.maxEntries)
	}
	if empty {
		return "", false
	}

	head := (*src)[0]
	*src = (*src)[1:]
	return head, true
}

// Clear empties both sequences.
func (s *Store) Clear() {
	s.mu.Lock()
	s.undo = nil
	s.rollback = nil
	s.mu.Unlock()

	s.notify()
}

// UndoSequence returns a copy of the undo sequence, head first.
func (s *Store) UndoSequence() []Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.undo)
}

// RollbackSequence returns a copy of the rollback sequence, head first.
func (s *Store) RollbackSequence() []Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.rollback)
}

// PeekUndo returns the head of the undo sequence without removing it.
func (s *Store) PeekUndo() (Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undo) == 0 {
		return "", false
	}
	return s.undo[0], true
}

// PeekRollback returns the head of the rollback sequence without removing it.
func (s *Store) PeekRollback() (Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.rollback) == 0 {
		return "", false
	}
	return s.rollback[0], true
}

// CanUndo returns true if the undo sequence is not empty.
func (s *Store) CanUndo() bool {
	return s.UndoLen() > 0
}

// CanRollback returns true if the rollback sequence is not empty.
func (s *Store) CanRollback() bool {
	return s.RollbackLen() > 0
}

// UndoLen returns the length of the undo sequence.
func (s *Store) UndoLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo)
}

// RollbackLen returns the length of the rollback sequence.
func (s *Store) RollbackLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rollback)
}

// Mode returns the store's transfer mode.
func (s *Store) Mode() TransferMode {
	return s.mode
}

// MaxEntries returns the per-sequence limit, 0 when unlimited.
func (s *Store) MaxEntries() int {
	return s.maxEntries
}

// unshift returns seq with tok at its head. With a positive limit the
// entries at the tail are dropped once the limit is exceeded.
func unshift(seq []Token, tok Token, limit int) []Token {
	if limit > 0 && len(seq) >= limit {
		seq = seq[:limit-1]
	}
	out := make([]Token, 0, len(seq)+1)
	out = append(out, tok)
	return append(out, seq...)
}

func clone(seq []Token) []Token {
	out := make([]Token, len(seq))
	copy(out, seq)
	return out
}
