// Package script runs Lua scripts against a command history store.
//
// Scripts run in a sandboxed gopher-lua state: only the base, table, string
// and math libraries are opened, and dofile, loadfile, load, loadstring and
// require are removed. A global history table exposes the store:
//
//	history.record("insert:a")
//	local tok = history.undo("insert:a")   -- nil when nothing to undo
//	history.rollback(tok)
//	history.clear()
//	for i, t in ipairs(history.undo_list()) do print(i, t) end
//
// print is redirected to the engine's logger.
package script
