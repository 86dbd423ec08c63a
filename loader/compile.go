package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/clickcore/engine/cond"
	"github.com/nathoo/clickcore/engine/state"
	"github.com/nathoo/clickcore/types"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// tableToStringSlice converts a Lua array of strings, preserving order.
func tableToStringSlice(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// compile converts all collected Lua data into catalogs.
func compile(coll *collector) (*state.Defs, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}

	defs := &state.Defs{
		Game:      compileGame(coll.game),
		FlagNames: coll.flags,
		Dialogues: map[string]*types.DialogueDef{},
	}

	for _, raw := range coll.interactions {
		def, err := compileInteraction(raw, coll)
		if err != nil {
			return nil, fmt.Errorf("compiling interaction %s: %w", raw.id, err)
		}
		defs.Interactions = append(defs.Interactions, def)
	}

	for _, raw := range coll.dialogues {
		def, err := compileDialogue(raw, coll)
		if err != nil {
			return nil, fmt.Errorf("compiling dialogue %s: %w", raw.id, err)
		}
		if _, exists := defs.Dialogues[def.ID]; exists {
			return nil, fmt.Errorf("duplicate dialogue id %q", def.ID)
		}
		defs.Dialogues[def.ID] = def
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:           getString(tbl, "title"),
		Author:          getString(tbl, "author"),
		Version:         getString(tbl, "version"),
		StartLocation:   getString(tbl, "start_location"),
		StartTimePeriod: getString(tbl, "start_time_period"),
	}
}

func compileInteraction(raw rawInteraction, coll *collector) (*types.InteractionDef, error) {
	tbl := raw.table
	def := &types.InteractionDef{
		ID:               raw.id,
		ObjectID:         getString(tbl, "object"),
		Kind:             getString(tbl, "kind"),
		Name:             getString(tbl, "name"),
		Description:      getString(tbl, "description"),
		Repeatable:       getBool(tbl, "repeatable", false),
		RequiredItems:    tableToStringSlice(getTable(tbl, "required_items")),
		SetsFlag:         getString(tbl, "sets_flag"),
		Location:         getString(tbl, "location"),
		TimePeriod:       getString(tbl, "time_period"),
		TargetLocation:   getString(tbl, "target_location"),
		TargetTimePeriod: getString(tbl, "target_time_period"),
		DialogueID:       getString(tbl, "dialogue"),
		SourceOrder:      raw.order,
	}
	if def.ObjectID == "" {
		def.ObjectID = raw.id
	}
	if def.Name == "" {
		def.Name = def.ObjectID
	}

	rawUnlock := tableToStringSlice(getTable(tbl, "unlock"))
	unlock, err := cond.ParseAll(rawUnlock)
	if err != nil {
		return nil, err
	}
	def.Unlock = unlock
	for _, s := range rawUnlock {
		coll.warnNonCanonical(raw.id, s)
	}

	return def, nil
}

func compileDialogue(raw rawDialogue, coll *collector) (*types.DialogueDef, error) {
	tbl := raw.table
	def := &types.DialogueDef{
		ID:    raw.id,
		NPCID: getString(tbl, "npc"),
		Text:  getString(tbl, "text"),
	}

	if required := getString(tbl, "required"); required != "" {
		p, err := cond.Parse(required)
		if err != nil {
			return nil, fmt.Errorf("required condition: %w", err)
		}
		def.Required = &p
		coll.warnNonCanonical(raw.id, required)
	}

	if optsTbl := getTable(tbl, "options"); optsTbl != nil {
		for i := 1; i <= optsTbl.MaxN(); i++ {
			optTbl, ok := optsTbl.RawGetInt(i).(*lua.LTable)
			if !ok {
				continue
			}
			opt := types.DialogueOption{
				Text: getString(optTbl, "text"),
				Next: getString(optTbl, "next"),
			}
			if effect := getString(optTbl, "set_flag"); effect != "" {
				p, err := cond.Parse(effect)
				if err != nil {
					return nil, fmt.Errorf("option %d set_flag: %w", i, err)
				}
				opt.SetFlag = &p
				coll.warnNonCanonical(raw.id, effect)
			}
			def.Options = append(def.Options, opt)
		}
	}

	return def, nil
}
