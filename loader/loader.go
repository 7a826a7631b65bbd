package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/nathoo/alleycats/types"
)

// Content is the card and agenda definitions of one game.
type Content struct {
	Cards   []types.CardDef
	Agendas []types.AgendaDef
}

// collector accumulates Lua definitions during file execution.
type collector struct {
	cards   []rawCard
	agendas []rawAgenda
	order   int
}

func (c *collector) nextSourceOrder() int {
	c.order++
	return c.order
}

// Load reads all .lua and .json files from dir and compiles them into
// content. Lua files run in a sandboxed VM that is discarded afterwards;
// JSON files are read as card lists, or agenda lists when their name
// contains "agenda". Validation problems are returned as a
// *ValidationError; warnings alone are logged.
func Load(dir string, log *zap.Logger) (*Content, error) {
	if log == nil {
		log = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory %s: %w", dir, err)
	}

	var luaFiles, jsonFiles []string
	for _, e := range entries {
		switch {
		case e.IsDir():
		case strings.HasSuffix(e.Name(), ".lua"):
			luaFiles = append(luaFiles, e.Name())
		case strings.HasSuffix(e.Name(), ".json"):
			jsonFiles = append(jsonFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 && len(jsonFiles) == 0 {
		return nil, fmt.Errorf("no .lua or .json files found in %s", dir)
	}
	sort.Strings(luaFiles)
	sort.Strings(jsonFiles)

	content := &Content{}
	if len(luaFiles) > 0 {
		paths := make([]string, len(luaFiles))
		for i, f := range luaFiles {
			paths[i] = filepath.Join(dir, f)
		}
		lc, err := runLua(paths)
		if err != nil {
			return nil, err
		}
		content.Cards = append(content.Cards, lc.Cards...)
		content.Agendas = append(content.Agendas, lc.Agendas...)
	}
	for _, f := range jsonFiles {
		path := filepath.Join(dir, f)
		if strings.Contains(strings.ToLower(f), "agenda") {
			as, err := LoadAgendasJSON(path)
			if err != nil {
				return nil, err
			}
			content.Agendas = append(content.Agendas, as...)
			continue
		}
		cs, err := LoadCardsJSON(path)
		if err != nil {
			return nil, err
		}
		content.Cards = append(content.Cards, cs...)
	}

	if err := finish(content, log); err != nil {
		return nil, err
	}
	return content, nil
}

// LoadFiles loads content from an explicit list of .lua and .json files.
func LoadFiles(cardsPath, agendasPath string, log *zap.Logger) (*Content, error) {
	if log == nil {
		log = zap.NewNop()
	}
	content := &Content{}
	load := func(path string, agendas bool) error {
		if path == "" {
			return nil
		}
		if strings.HasSuffix(path, ".lua") {
			lc, err := runLua([]string{path})
			if err != nil {
				return err
			}
			content.Cards = append(content.Cards, lc.Cards...)
			content.Agendas = append(content.Agendas, lc.Agendas...)
			return nil
		}
		if agendas {
			as, err := LoadAgendasJSON(path)
			content.Agendas = append(content.Agendas, as...)
			return err
		}
		cs, err := LoadCardsJSON(path)
		content.Cards = append(content.Cards, cs...)
		return err
	}
	if err := load(cardsPath, false); err != nil {
		return nil, err
	}
	if agendasPath != cardsPath {
		if err := load(agendasPath, true); err != nil {
			return nil, err
		}
	}
	if err := finish(content, log); err != nil {
		return nil, err
	}
	return content, nil
}

func finish(content *Content, log *zap.Logger) error {
	err := validate(content)
	if err == nil {
		return nil
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		return err
	}
	for _, w := range ve.Warnings {
		log.Warn("content", zap.String("warning", w))
	}
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// runLua executes the given files in one sandboxed VM and compiles what
// they defined.
func runLua(paths []string) (*Content, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, path := range paths {
		if err := L.DoFile(path); err != nil {
			return nil, fmt.Errorf("executing %s: %w", filepath.Base(path), err)
		}
	}

	content, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling content: %w", err)
	}
	return content, nil
}

// LoadString runs Lua source held in memory. Used by tests and for
// embedded content.
func LoadString(src string, log *zap.Logger) (*Content, error) {
	if log == nil {
		log = zap.NewNop()
	}
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)
	if err := L.DoString(src); err != nil {
		return nil, fmt.Errorf("executing content: %w", err)
	}
	content, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling content: %w", err)
	}
	if err := finish(content, log); err != nil {
		return nil, err
	}
	return content, nil
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
		"collectgarbage", "require", "module",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Dice belong to the engine's seeded RNG, not to content.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("random", lua.LNil)
			tbl.RawSetString("randomseed", lua.LNil)
		}
	}
}
