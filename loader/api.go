package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the Lua catalog constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// World { title = "...", start_map = "...", ... }
	L.SetGlobal("World", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.world = tbl
		return 0
	}))

	// Enemy "id" { ... } — curried: Enemy("id") returns a function that
	// takes the definition table.
	L.SetGlobal("Enemy", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.enemies = append(coll.enemies, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Item "id" { ... } — curried.
	L.SetGlobal("Item", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.items = append(coll.items, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Map "id" { ... } — curried.
	L.SetGlobal("Map", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.maps = append(coll.maps, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Question { prompt = "...", answer = "...", choices = {...} }
	L.SetGlobal("Question", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.questions = append(coll.questions, tbl)
		return 0
	}))
}
