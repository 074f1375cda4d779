// Package history provides the undo/rollback command history for holdkit.
//
// A Store tracks two ordered sequences of opaque command tokens:
//
//   - The undo sequence holds commands that can be undone.
//   - The rollback sequence holds commands that were undone and can be
//     re-applied.
//
// Tokens are never deduplicated and their order is preserved. The two
// sequences are never merged; tokens only move between them through Undo
// and Rollback:
//
//	store := history.New()
//	store.Record("insert:a")
//	store.Record("insert:b")
//
//	tok, ok := store.Undo("insert:a") // rollback gets "insert:a" at its head
//	if !ok {
//	    // nothing to undo
//	}
//
//	store.Rollback(tok)
//
// # Transfer Mode
//
// Undo and Rollback insert the caller's token at the head of the opposite
// sequence. With TransferOnRemove (the default) the insertion only happens
// when a token was actually removed from the source sequence. TransferAlways
// inserts unconditionally, matching older front ends that relied on it.
//
// # Observers
//
// OnChange registers a callback that receives a Snapshot after every
// mutation. Callbacks run after the store's lock is released, so they may
// read the store.
package history
