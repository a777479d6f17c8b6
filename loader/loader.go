// Package loader loads Lua content catalogs into Go structs at startup.
// The Lua VM is discarded after loading; zero Lua at runtime.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hmori/quizquest/engine/state"
	lua "github.com/yuin/gopher-lua"
)

// collector accumulates Lua catalog definitions during file execution.
type collector struct {
	world     *lua.LTable
	enemies   []rawDef
	items     []rawDef
	maps      []rawDef
	questions []*lua.LTable
}

// rawDef holds an id'd catalog table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// Load reads all .lua files from dir, compiles them into content catalogs,
// validates references, and returns the immutable Catalog. The Lua VM is
// discarded after loading.
func Load(dir string) (*state.Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	// Sort: world.lua first, rest alphabetical, so the World block is
	// available regardless of directory order.
	luaFiles = sortedLuaFiles(luaFiles)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		path := filepath.Join(dir, f)
		if err := L.DoFile(path); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	cat, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling content: %w", err)
	}

	if err := validate(cat); err != nil {
		return nil, err
	}

	return cat, nil
}

func sortedLuaFiles(files []string) []string {
	sort.Strings(files)
	for i, f := range files {
		if f == "world.lua" {
			copy(files[1:i+1], files[:i])
			files[0] = f
			break
		}
	}
	return files
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Content must not roll its own randomness.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
			tbl.RawSetString("random", lua.LNil)
		}
	}
}
