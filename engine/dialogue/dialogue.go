// Package dialogue walks branching dialogue trees. The engine is a small
// state machine: Closed, or Open on exactly one dialogue node. Option
// selection applies the option's flag effect and either chains to the next
// node (re-running its gate) or closes. While a dialogue is open the caller
// is expected to suppress world-interaction input; IsActive exists for that.
package dialogue

import (
	"fmt"
	"log/slog"

	"github.com/nathoo/clickcore/engine/cond"
	"github.com/nathoo/clickcore/engine/state"
	"github.com/nathoo/clickcore/types"
)

// GrantCodeEffect is the reserved option effect that, besides setting the
// flag, places the lab access code in the inventory. This is a special-cased
// side channel outside the normal pickup path, not a generic item-grant
// mechanism; the original game hardcoded it the same way.
var GrantCodeEffect = types.Predicate{Flag: "get_code", Value: true}

// GrantCodeItem is the item id granted by GrantCodeEffect.
const GrantCodeItem = "LabCode"

// Engine traverses dialogue trees against one game state.
type Engine struct {
	defs    *state.Defs
	state   *state.State
	logger  *slog.Logger
	current *types.DialogueDef // nil when closed
}

// New creates a dialogue engine over the given catalogs and state.
func New(defs *state.Defs, s *state.State, logger *slog.Logger) *Engine {
	return &Engine{defs: defs, state: s, logger: logger}
}

// IsActive reports whether a dialogue is open.
func (e *Engine) IsActive() bool {
	return e.current != nil
}

// Current returns the open dialogue node, or nil when closed.
func (e *Engine) Current() *types.DialogueDef {
	return e.current
}

// Start opens a dialogue node. An unknown id or a failed required-flag gate
// is a silent no-op (logged): the engine state stays exactly as it was, so
// a failed chain leaves the previous node open for re-selection. Returns
// whether the dialogue opened.
func (e *Engine) Start(dialogueID string) bool {
	def := e.defs.Dialogue(dialogueID)
	if def == nil {
		e.logger.Warn("dialogue not found",
			"dialogue_id", dialogueID, "error", state.ErrUnknownCatalogEntry)
		return false
	}

	if def.Required != nil {
		ok, err := cond.Eval(*def.Required, e.state.Flags)
		if err != nil {
			e.logger.Warn("dialogue gate failed to evaluate", "dialogue_id", dialogueID, "error", err)
			return false
		}
		if !ok {
			e.logger.Debug("dialogue gate not met", "dialogue_id", dialogueID)
			return false
		}
	}

	e.current = def
	return true
}

// SelectOption applies the indexed option of the open node: sets its flag
// effect, grants the lab code when the effect is the reserved marker, then
// transitions: Closed when the option has no next node, otherwise the next
// node via Start (which re-runs that node's gate). When the chained Start
// fails its gate, the current node stays open.
func (e *Engine) SelectOption(index int) error {
	if e.current == nil {
		return fmt.Errorf("no dialogue open")
	}
	if index < 0 || index >= len(e.current.Options) {
		return fmt.Errorf("dialogue %q has no option %d", e.current.ID, index)
	}
	opt := e.current.Options[index]

	if opt.SetFlag != nil {
		if err := e.state.Flags.Set(opt.SetFlag.Flag, opt.SetFlag.Value); err != nil {
			e.logger.Warn("dialogue option flag not declared", "dialogue_id", e.current.ID, "flag", opt.SetFlag.Flag, "error", err)
		}
		if *opt.SetFlag == GrantCodeEffect {
			e.state.AddItem(GrantCodeItem)
		}
	}

	if opt.Next == "" {
		e.current = nil
		return nil
	}
	e.Start(opt.Next)
	return nil
}

// Close force-ends any open dialogue. Used by the new-game path.
func (e *Engine) Close() {
	e.current = nil
}
