// Package resolve picks the single interaction a world object performs when
// clicked. An object id may have several candidate definitions; catalog
// order is the tie-break. The resolver mutates game state (inventory,
// flags, completion marks) but never persists; the session layer owns
// write-through saves. It also never commits location changes: doors and
// time devices produce a pending Transition the caller finalizes after the
// presentation layer acknowledges the scene change.
package resolve

import (
	"log/slog"
	"strings"

	"github.com/nathoo/clickcore/engine/cond"
	"github.com/nathoo/clickcore/engine/state"
	"github.com/nathoo/clickcore/types"
)

// OutcomeKind is the three-way result of a resolution attempt.
type OutcomeKind int

const (
	// Resolved means one interaction was chosen and its effects applied.
	Resolved OutcomeKind = iota
	// ItemRejected means a selected item matched no candidate; nothing
	// was mutated. Distinct from NoValidInteraction so callers can render
	// different feedback.
	ItemRejected
	// NoValidInteraction means no candidate satisfied its gates.
	NoValidInteraction
)

func (k OutcomeKind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case ItemRejected:
		return "item_rejected"
	case NoValidInteraction:
		return "no_valid_interaction"
	default:
		return "unknown"
	}
}

// Transition is a pending location/time-period change. The current location
// is only committed after the presentation layer acknowledges the
// transition, so a second interaction cannot fire mid-fade.
type Transition struct {
	From       string
	To         string
	TimePeriod string // "" keeps the current time period
}

// Outcome is the structured result handed back to the caller.
type Outcome struct {
	Kind        OutcomeKind
	Interaction *types.InteractionDef // set when Kind == Resolved
	Message     string                // feedback text for the player, may be empty

	ConsumedItem string      // item removed from inventory by the selected-item path
	PickedUp     string      // item added to inventory; the world object leaves the scene
	Transition   *Transition // pending door/time-device transition
	DialogueID   string      // dialogue to hand off to
}

// Resolve picks and executes the interaction for a clicked object.
//
// With a selected item the scan is item-first: the first candidate whose
// required items include the selection wins, consuming exactly one unit of
// it. No match is an explicit rejection: selecting an item never falls
// through to the generic path. Without a selection, the first candidate in
// catalog order that passes the completion gate, its unlock conditions, and
// the required-items check wins.
func Resolve(objectID, selectedItemID string, s *state.State, defs *state.Defs, logger *slog.Logger) Outcome {
	candidates := defs.ByID(objectID)
	if len(candidates) == 0 {
		logger.Warn("no interaction definitions for object",
			"object_id", objectID, "error", state.ErrUnknownCatalogEntry)
		return Outcome{Kind: NoValidInteraction}
	}

	if selectedItemID != "" {
		return resolveWithItem(objectID, selectedItemID, candidates, s, defs, logger)
	}

	for _, def := range candidates {
		if def.Kind == types.KindDisplay {
			// Display definitions only drive visibility; they are never
			// resolved through the main path.
			continue
		}
		if def.Completed && !def.Repeatable {
			continue
		}
		if !unlocked(def, s, logger) {
			continue
		}
		if !s.HasAllItems(def.RequiredItems) {
			continue
		}
		return execute(def, s, logger)
	}

	return Outcome{Kind: NoValidInteraction, Message: rejectionMessage(candidates, s, logger)}
}

// resolveWithItem handles the "holding an item" path.
func resolveWithItem(objectID, selectedItemID string, candidates []*types.InteractionDef, s *state.State, defs *state.Defs, logger *slog.Logger) Outcome {
	for _, def := range candidates {
		if def.Kind == types.KindDisplay {
			continue
		}
		if !containsItem(def.RequiredItems, selectedItemID) {
			continue
		}
		if def.Completed && !def.Repeatable {
			continue
		}
		if !unlocked(def, s, logger) {
			continue
		}
		if !s.HasAllItems(def.RequiredItems) {
			continue
		}
		if !s.RemoveItem(selectedItemID) {
			// Selection out of sync with inventory; treat as rejection.
			logger.Warn("selected item not in inventory", "item", selectedItemID, "object_id", objectID)
			return Outcome{Kind: ItemRejected, Message: "I don't have that anymore."}
		}
		out := execute(def, s, logger)
		out.ConsumedItem = selectedItemID
		return out
	}
	return Outcome{Kind: ItemRejected, Message: "That doesn't work here."}
}

// execute applies the chosen definition's side effects and builds the
// resolved outcome. Location changes are deferred into a Transition.
func execute(def *types.InteractionDef, s *state.State, logger *slog.Logger) Outcome {
	out := Outcome{Kind: Resolved, Interaction: def}

	switch def.Kind {
	case types.KindPickup:
		if s.AddItem(def.ObjectID) {
			out.PickedUp = def.ObjectID
		}
		out.Message = "I took the " + def.Name + "."

	case types.KindInspect:
		out.Message = def.Description

	case types.KindUse:
		out.Message = "Used the " + def.Name + "."

	case types.KindOpen:
		out.Message = "Opened the " + def.Name + "."

	case types.KindDoor:
		out.Transition = &Transition{
			From: s.Player.CurrentLocation,
			To:   def.TargetLocation,
		}

	case types.KindTimeDevice:
		out.Transition = &Transition{
			From:       s.Player.CurrentLocation,
			To:         def.TargetLocation,
			TimePeriod: def.TargetTimePeriod,
		}

	case types.KindDialogue:
		out.DialogueID = def.DialogueID

	default:
		// Unknown kinds fall back to showing the definition's text.
		out.Message = def.Description
	}

	def.Completed = true
	if def.SetsFlag != "" {
		if err := s.Flags.Set(def.SetsFlag, true); err != nil {
			logger.Warn("interaction success flag not declared", "flag", def.SetsFlag, "definition", def.ID, "error", err)
		}
	}
	return out
}

// unlocked evaluates a definition's unlock conditions, treating predicate
// errors as "condition not met" so broken data degrades one interaction
// rather than the session.
func unlocked(def *types.InteractionDef, s *state.State, logger *slog.Logger) bool {
	ok, err := cond.EvalAll(def.Unlock, s.Flags)
	if err != nil {
		logger.Warn("unlock condition failed to evaluate", "definition", def.ID, "error", err)
		return false
	}
	return ok
}

// rejectionMessage explains why nothing resolved, using the first
// non-display candidate's failure reason.
func rejectionMessage(candidates []*types.InteractionDef, s *state.State, logger *slog.Logger) string {
	for _, def := range candidates {
		if def.Kind == types.KindDisplay {
			continue
		}
		if def.Completed && !def.Repeatable {
			return "Nothing more to do with that."
		}
		if !unlocked(def, s, logger) {
			return "I don't know what to do with this yet..."
		}
		if missing := s.MissingItems(def.RequiredItems); len(missing) > 0 {
			return "I need: " + strings.Join(missing, ", ") + "."
		}
	}
	return ""
}

// Visible computes whether a decorative object should be shown, from the
// unlock conditions of its display definition. Objects with no display
// definition are always visible. Re-evaluated once when the owning object
// becomes active; display definitions never resolve.
func Visible(objectID string, s *state.State, defs *state.Defs, logger *slog.Logger) bool {
	for _, def := range defs.ByID(objectID) {
		if def.Kind != types.KindDisplay {
			continue
		}
		return unlocked(def, s, logger)
	}
	return true
}

func containsItem(items []string, id string) bool {
	for _, v := range items {
		if v == id {
			return true
		}
	}
	return false
}
