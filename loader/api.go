package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// rawInteraction holds an interaction table before compilation.
type rawInteraction struct {
	id    string
	table *lua.LTable
	order int
}

// rawDialogue holds a dialogue table before compilation.
type rawDialogue struct {
	id    string
	table *lua.LTable
	order int
}

// registerAPI registers the Lua constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Game { title = "...", start_location = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Flags { "found_time_device", "find_key", ... } declares the fixed
	// flag set. May appear more than once; declarations accumulate.
	L.SetGlobal("Flags", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		for i := 1; i <= tbl.MaxN(); i++ {
			if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
				coll.flags = append(coll.flags, string(s))
			}
		}
		return 0
	}))

	// Interaction "id" { ... } is curried: Interaction("id") returns a
	// function that takes the definition table.
	L.SetGlobal("Interaction", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.interactions = append(coll.interactions, rawInteraction{
				id:    id,
				table: tbl,
				order: coll.nextSourceOrder(),
			})
			return 0
		}))
		return 1
	}))

	// Dialogue "id" { ... }, curried the same way.
	L.SetGlobal("Dialogue", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.dialogues = append(coll.dialogues, rawDialogue{
				id:    id,
				table: tbl,
				order: coll.nextSourceOrder(),
			})
			return 0
		}))
		return 1
	}))
}
