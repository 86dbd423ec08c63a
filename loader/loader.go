// Package loader loads Lua catalog content into Go structs at session
// start. Predicate strings are compiled against the declared flag set here,
// failing fast on unknown names instead of deferring to evaluation time.
// The Lua VM is discarded after loading; zero Lua at runtime.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/clickcore/engine/cond"
	"github.com/nathoo/clickcore/engine/state"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	game         *lua.LTable
	flags        []string
	interactions []rawInteraction
	dialogues    []rawDialogue
	warnings     []string
	order        int
}

func (c *collector) nextSourceOrder() int {
	c.order++
	return c.order
}

// warnNonCanonical records a warning for predicate strings whose boolean
// token is neither "true" nor "false". Such tokens evaluate as false, which
// old data relies on, but deserve visibility at load time.
func (c *collector) warnNonCanonical(defID, raw string) {
	if !cond.Canonical(raw) {
		c.warnings = append(c.warnings, fmt.Sprintf(
			"%s: predicate %q has a non-canonical boolean token (treated as false)", defID, raw))
	}
}

// Load reads all .lua files from dir, compiles them into the interaction
// and dialogue catalogs, and validates references. A missing or malformed
// document is a fatal initialization error.
func Load(dir string) (*state.Defs, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading game directory %s: %w", dir, err)
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

	defs, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling game data: %w", err)
	}

	ve := validate(defs, coll.warnings)
	if len(ve.Errors) > 0 {
		return nil, ve
	}
	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	return defs, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
}

// sandbox removes dangerous globals.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}
}

// sortedLuaFiles returns .lua files with game.lua first and the rest sorted
// alphabetically, so declaration order is stable across platforms.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
