package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/clickcore/engine/state"
	"github.com/nathoo/clickcore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Known interaction kinds.
var validKinds = map[string]bool{
	types.KindPickup:     true,
	types.KindInspect:    true,
	types.KindUse:        true,
	types.KindOpen:       true,
	types.KindDoor:       true,
	types.KindTimeDevice: true,
	types.KindDialogue:   true,
	types.KindDisplay:    true,
}

// validate checks the compiled catalogs for referential integrity. Unknown
// flag names in predicates are hard errors: the whole point of compiling
// predicates at load time is to fail here, not during a click.
func validate(defs *state.Defs, warnings []string) *ValidationError {
	ve := &ValidationError{Warnings: warnings}

	if defs.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.title is required")
	}
	if defs.Game.StartLocation == "" {
		ve.Errors = append(ve.Errors, "Game.start_location is required")
	}

	declared := map[string]bool{}
	for _, name := range defs.FlagNames {
		if declared[name] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("flag %q declared more than once", name))
		}
		declared[name] = true
	}

	pickups := map[string]bool{}
	defIDs := map[string]bool{}
	for _, def := range defs.Interactions {
		if def.Kind == types.KindPickup {
			pickups[def.ObjectID] = true
		}
	}

	for _, def := range defs.Interactions {
		if defIDs[def.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate interaction id %q", def.ID))
		}
		defIDs[def.ID] = true

		if !validKinds[def.Kind] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"interaction %q has unrecognized kind %q (falls back to showing its description)", def.ID, def.Kind))
		}

		for _, p := range def.Unlock {
			if !declared[p.Flag] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"interaction %q unlock condition references undeclared flag %q", def.ID, p.Flag))
			}
		}
		if def.SetsFlag != "" && !declared[def.SetsFlag] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"interaction %q sets undeclared flag %q", def.ID, def.SetsFlag))
		}

		switch def.Kind {
		case types.KindDoor:
			if def.TargetLocation == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"door %q has no target_location", def.ID))
			}
		case types.KindTimeDevice:
			if def.TargetLocation == "" || def.TargetTimePeriod == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"time_device %q needs target_location and target_time_period", def.ID))
			}
		case types.KindDialogue:
			if def.DialogueID == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"dialogue interaction %q has no dialogue id", def.ID))
			} else if defs.Dialogue(def.DialogueID) == nil {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"interaction %q references undefined dialogue %q", def.ID, def.DialogueID))
			}
		}

		// Required items normally come from pickups; the lab code arrives
		// through the dialogue grant side channel instead.
		for _, item := range def.RequiredItems {
			if !pickups[item] && item != "LabCode" {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"interaction %q requires item %q which no pickup provides", def.ID, item))
			}
		}
	}

	for _, dlg := range defs.Dialogues {
		if dlg.Required != nil && !declared[dlg.Required.Flag] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"dialogue %q gate references undeclared flag %q", dlg.ID, dlg.Required.Flag))
		}
		for i, opt := range dlg.Options {
			if opt.SetFlag != nil && !declared[opt.SetFlag.Flag] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"dialogue %q option %d sets undeclared flag %q", dlg.ID, i+1, opt.SetFlag.Flag))
			}
			if opt.Next != "" && defs.Dialogue(opt.Next) == nil {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"dialogue %q option %d chains to undefined dialogue %q", dlg.ID, i+1, opt.Next))
			}
		}
	}

	return ve
}
