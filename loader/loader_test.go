package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathoo/clickcore/types"
)

// writeGame writes Lua catalog files into a temp directory.
func writeGame(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return dir
}

const validGame = `
Game {
    title = "Test Manor",
    author = "Tester",
    version = "1.0",
    start_location = "hall",
    start_time_period = "present",
}

Flags {
    "find_key",
    "open_drawer",
}
`

func TestLoad_ValidGame(t *testing.T) {
	dir := writeGame(t, map[string]string{
		"game.lua": validGame,
		"interactions.lua": `
Interaction "pickup_key" {
    object = "key",
    kind = "pickup",
    name = "brass key",
    location = "study",
    sets_flag = "find_key",
    description = "A small key.",
}

Interaction "open_drawer" {
    object = "drawer",
    kind = "open",
    required_items = { "key" },
    unlock = { "find_key true" },
    sets_flag = "open_drawer",
}
`,
		"dialogues.lua": `
Dialogue "intro" {
    npc = "Butler",
    text = "Good evening.",
    options = {
        { text = "Hello.", set_flag = "find_key true", next = "intro2" },
        { text = "Goodbye." },
    },
}

Dialogue "intro2" {
    npc = "Butler",
    text = "Yes?",
    options = {
        { text = "Goodbye." },
    },
}
`,
	})

	defs, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if defs.Game.Title != "Test Manor" {
		t.Errorf("unexpected title %q", defs.Game.Title)
	}
	if defs.Game.StartLocation != "hall" {
		t.Errorf("unexpected start location %q", defs.Game.StartLocation)
	}
	if len(defs.FlagNames) != 2 {
		t.Errorf("expected 2 flags, got %v", defs.FlagNames)
	}
	if len(defs.Interactions) != 2 {
		t.Fatalf("expected 2 interactions, got %d", len(defs.Interactions))
	}

	key := defs.Interactions[0]
	if key.ID != "pickup_key" || key.ObjectID != "key" || key.Kind != types.KindPickup {
		t.Errorf("unexpected interaction %+v", key)
	}
	if key.Location != "study" || key.SetsFlag != "find_key" {
		t.Errorf("unexpected interaction %+v", key)
	}

	drawer := defs.Interactions[1]
	if len(drawer.RequiredItems) != 1 || drawer.RequiredItems[0] != "key" {
		t.Errorf("required items not compiled: %v", drawer.RequiredItems)
	}
	if len(drawer.Unlock) != 1 || drawer.Unlock[0].Flag != "find_key" || !drawer.Unlock[0].Value {
		t.Errorf("unlock not compiled: %+v", drawer.Unlock)
	}

	intro := defs.Dialogue("intro")
	if intro == nil {
		t.Fatal("dialogue intro missing")
	}
	if intro.NPCID != "Butler" || len(intro.Options) != 2 {
		t.Errorf("unexpected dialogue %+v", intro)
	}
	if intro.Options[0].SetFlag == nil || intro.Options[0].SetFlag.Flag != "find_key" {
		t.Errorf("option effect not compiled: %+v", intro.Options[0])
	}
	if intro.Options[0].Next != "intro2" || intro.Options[1].Next != "" {
		t.Errorf("option chaining not compiled: %+v", intro.Options)
	}
}

func TestLoad_ObjectDefaultsToID(t *testing.T) {
	dir := writeGame(t, map[string]string{
		"game.lua": validGame + `
Interaction "lamp" {
    kind = "inspect",
    description = "A lamp.",
}
`,
	})

	defs, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if defs.Interactions[0].ObjectID != "lamp" {
		t.Errorf("object id should default to the definition id, got %q", defs.Interactions[0].ObjectID)
	}
	if defs.Interactions[0].Name != "lamp" {
		t.Errorf("name should default to the object id, got %q", defs.Interactions[0].Name)
	}
}

func TestLoad_UndeclaredFlagFails(t *testing.T) {
	dir := writeGame(t, map[string]string{
		"game.lua": validGame + `
Interaction "thing" {
    kind = "inspect",
    unlock = { "no_such_flag true" },
}
`,
	})

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if len(ve.Errors) == 0 || !strings.Contains(ve.Errors[0], "no_such_flag") {
		t.Errorf("unexpected errors: %v", ve.Errors)
	}
}

func TestLoad_UndeclaredSetsFlagFails(t *testing.T) {
	dir := writeGame(t, map[string]string{
		"game.lua": validGame + `
Interaction "thing" {
    kind = "inspect",
    sets_flag = "no_such_flag",
}
`,
	})

	if _, err := Load(dir); err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestLoad_DoorNeedsTarget(t *testing.T) {
	dir := writeGame(t, map[string]string{
		"game.lua": validGame + `
Interaction "broken_door" {
    kind = "door",
}
`,
	})

	if _, err := Load(dir); err == nil {
		t.Fatal("expected a validation error for a door without target_location")
	}
}

func TestLoad_DialogueReferenceChecked(t *testing.T) {
	dir := writeGame(t, map[string]string{
		"game.lua": validGame + `
Interaction "talk" {
    kind = "dialogue",
    dialogue = "missing_dialogue",
}
`,
	})

	if _, err := Load(dir); err == nil {
		t.Fatal("expected a validation error for an undefined dialogue")
	}
}

func TestLoad_DuplicateInteractionIDFails(t *testing.T) {
	dir := writeGame(t, map[string]string{
		"game.lua": validGame + `
Interaction "thing" { kind = "inspect" }
Interaction "thing" { kind = "inspect" }
`,
	})

	if _, err := Load(dir); err == nil {
		t.Fatal("expected a validation error for duplicate ids")
	}
}

func TestLoad_MissingGameDefinition(t *testing.T) {
	dir := writeGame(t, map[string]string{
		"content.lua": `Flags { "a" }`,
	})

	if _, err := Load(dir); err == nil {
		t.Fatal("expected an error without Game{}")
	}
}

func TestLoad_EmptyDirectory(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected an error for a directory without .lua files")
	}
}

func TestLoad_SandboxBlocksDangerousGlobals(t *testing.T) {
	dir := writeGame(t, map[string]string{
		"game.lua": validGame + `
if dofile ~= nil then error("dofile is reachable") end
if loadstring ~= nil then error("loadstring is reachable") end
if os ~= nil then error("os is reachable") end
if io ~= nil then error("io is reachable") end
`,
	})

	if _, err := Load(dir); err != nil {
		t.Fatalf("sandbox check failed: %v", err)
	}
}

func TestLoad_SourceOrderAcrossFiles(t *testing.T) {
	// game.lua runs first, remaining files alphabetically.
	dir := writeGame(t, map[string]string{
		"game.lua": validGame,
		"b.lua":    `Interaction "second" { kind = "inspect" }`,
		"a.lua":    `Interaction "first" { kind = "inspect" }`,
	})

	defs, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if defs.Interactions[0].ID != "first" || defs.Interactions[1].ID != "second" {
		t.Errorf("catalog order wrong: %s, %s", defs.Interactions[0].ID, defs.Interactions[1].ID)
	}
	if defs.Interactions[0].SourceOrder >= defs.Interactions[1].SourceOrder {
		t.Error("source order not increasing")
	}
}
