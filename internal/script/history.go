package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/holdkit/internal/history"
)

// HistoryModule exposes a history store to Lua as the global "history".
type HistoryModule struct {
	store *history.Store
}

// NewHistoryModule creates a module over store.
func NewHistoryModule(store *history.Store) *HistoryModule {
	return &HistoryModule{store: store}
}

// Name returns the global name of the module.
func (m *HistoryModule) Name() string {
	return "history"
}

// Register installs the module table into L.
func (m *HistoryModule) Register(L *lua.LState) {
	mod := L.NewTable()

	L.SetField(mod, "record", L.NewFunction(m.record))
	L.SetField(mod, "undo", L.NewFunction(m.undo))
	L.SetField(mod, "rollback", L.NewFunction(m.rollback))
	L.SetField(mod, "clear", L.NewFunction(m.clear))
	L.SetField(mod, "undo_list", L.NewFunction(m.undoList))
	L.SetField(mod, "rollback_list", L.NewFunction(m.rollbackList))
	L.SetField(mod, "can_undo", L.NewFunction(m.canUndo))
	L.SetField(mod, "can_rollback", L.NewFunction(m.canRollback))
	L.SetField(mod, "snapshot", L.NewFunction(m.snapshot))
	L.SetField(mod, "restore", L.NewFunction(m.restore))

	L.SetGlobal(m.Name(), mod)
}

// record(token)
func (m *HistoryModule) record(L *lua.LState) int {
	m.store.Record(L.CheckString(1))
	return 0
}

// undo(token) -> token|nil
func (m *HistoryModule) undo(L *lua.LState) int {
	tok, ok := m.store.Undo(L.CheckString(1))
	pushToken(L, tok, ok)
	return 1
}

// rollback(token) -> token|nil
func (m *HistoryModule) rollback(L *lua.LState) int {
	tok, ok := m.store.Rollback(L.CheckString(1))
	pushToken(L, tok, ok)
	return 1
}

// clear()
func (m *HistoryModule) clear(L *lua.LState) int {
	m.store.Clear()
	return 0
}

// undo_list() -> table
func (m *HistoryModule) undoList(L *lua.LState) int {
	L.Push(tokenTable(L, m.store.UndoSequence()))
	return 1
}

// rollback_list() -> table
func (m *HistoryModule) rollbackList(L *lua.LState) int {
	L.Push(tokenTable(L, m.store.RollbackSequence()))
	return 1
}

// can_undo() -> bool
func (m *HistoryModule) canUndo(L *lua.LState) int {
	L.Push(lua.LBool(m.store.CanUndo()))
	return 1
}

// can_rollback() -> bool
func (m *HistoryModule) canRollback(L *lua.LState) int {
	L.Push(lua.LBool(m.store.CanRollback()))
	return 1
}

// snapshot() -> json
func (m *HistoryModule) snapshot(L *lua.LState) int {
	data, err := m.store.Snapshot().JSON()
	if err != nil {
		L.RaiseError("history.snapshot: %v", err)
		return 0
	}
	L.Push(lua.LString(data))
	return 1
}

// restore(json)
func (m *HistoryModule) restore(L *lua.LState) int {
	snap, err := history.ParseSnapshot([]byte(L.CheckString(1)))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	m.store.Restore(snap)
	return 0
}

func pushToken(L *lua.LState, tok history.Token, ok bool) {
	if !ok {
		L.Push(lua.LNil)
		return
	}
	L.Push(lua.LString(tok))
}

func tokenTable(L *lua.LState, toks []history.Token) *lua.LTable {
	tbl := L.CreateTable(len(toks), 0)
	for _, tok := range toks {
		tbl.Append(lua.LString(tok))
	}
	return tbl
}
