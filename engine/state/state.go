// Package state manages the mutable game state: the fixed-set flag store,
// the inventory, and the player record. The flag set is declared in game
// content and frozen at load time; looking up an undeclared flag is an
// error, not a silent default.
package state

import (
	"errors"
	"fmt"

	"github.com/nathoo/clickcore/types"
)

// ErrUnknownFlag is returned when a flag name is not in the declared set.
var ErrUnknownFlag = errors.New("unknown progress flag")

// ErrUnknownCatalogEntry is reported when a catalog lookup misses. Callers
// treat it as "entry absent" and degrade the one interaction, never the
// session.
var ErrUnknownCatalogEntry = errors.New("unknown catalog entry")

// Flags is a flag store over a fixed, declared set of names. Values live in
// a flat slice indexed through a name table built once at load time.
type Flags struct {
	names  []string
	index  map[string]int
	values []bool
}

// NewFlags builds a flag store for the declared names, all false.
func NewFlags(names []string) *Flags {
	f := &Flags{
		names:  append([]string(nil), names...),
		index:  make(map[string]int, len(names)),
		values: make([]bool, len(names)),
	}
	for i, name := range f.names {
		f.index[name] = i
	}
	return f
}

// Known reports whether a flag name is in the declared set.
func (f *Flags) Known(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Get returns the value of a declared flag.
func (f *Flags) Get(name string) (bool, error) {
	i, ok := f.index[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownFlag, name)
	}
	return f.values[i], nil
}

// Set assigns the value of a declared flag.
func (f *Flags) Set(name string, value bool) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFlag, name)
	}
	f.values[i] = value
	return nil
}

// Reset sets every flag back to false. The set itself never changes.
func (f *Flags) Reset() {
	for i := range f.values {
		f.values[i] = false
	}
}

// Names returns the declared flag names in declaration order.
func (f *Flags) Names() []string {
	return append([]string(nil), f.names...)
}

// Snapshot returns a name→value map for serialization.
func (f *Flags) Snapshot() map[string]bool {
	m := make(map[string]bool, len(f.names))
	for i, name := range f.names {
		m[name] = f.values[i]
	}
	return m
}

// Restore applies a saved snapshot. Names absent from the snapshot keep
// their current value; names absent from the declared set are ignored, so
// an older save never fails to load.
func (f *Flags) Restore(snapshot map[string]bool) {
	for name, v := range snapshot {
		if i, ok := f.index[name]; ok {
			f.values[i] = v
		}
	}
}

// Defs holds the immutable catalogs loaded from Lua. Interaction
// definitions are pointers: their Completed field is per-definition runtime
// state. Once an interaction fires, that exact definition is what gets
// re-checked and skipped.
type Defs struct {
	Game         types.GameDef
	FlagNames    []string
	Interactions []*types.InteractionDef
	Dialogues    map[string]*types.DialogueDef
}

// ByExactID returns the first interaction definition whose ObjectID matches,
// or nil.
func (d *Defs) ByExactID(objectID string) *types.InteractionDef {
	for _, def := range d.Interactions {
		if def.ObjectID == objectID {
			return def
		}
	}
	return nil
}

// ByID returns every interaction definition for an object id, in catalog
// order. Interaction resolution needs all candidates, not just the first.
func (d *Defs) ByID(objectID string) []*types.InteractionDef {
	var defs []*types.InteractionDef
	for _, def := range d.Interactions {
		if def.ObjectID == objectID {
			defs = append(defs, def)
		}
	}
	return defs
}

// Dialogue returns the dialogue definition for an id, or nil.
func (d *Defs) Dialogue(id string) *types.DialogueDef {
	return d.Dialogues[id]
}

// ResetProgress clears the Completed mark on every interaction definition.
// Used by the new-game path; catalogs are otherwise never reloaded.
func (d *Defs) ResetProgress() {
	for _, def := range d.Interactions {
		def.Completed = false
	}
}

// State is the complete mutable game state for one session.
type State struct {
	Player    types.Player
	Flags     *Flags
	Inventory []string
	SessionID string
}

// New creates a fresh game state from definitions: starting location and
// time period, all flags false, empty inventory.
func New(defs *Defs) *State {
	return &State{
		Player: types.Player{
			CurrentLocation:   defs.Game.StartLocation,
			CurrentTimePeriod: defs.Game.StartTimePeriod,
		},
		Flags:     NewFlags(defs.FlagNames),
		Inventory: []string{},
	}
}

// HasItem reports whether the inventory holds the given item id.
func (s *State) HasItem(itemID string) bool {
	for _, id := range s.Inventory {
		if id == itemID {
			return true
		}
	}
	return false
}

// HasAllItems reports whether every listed item id is held. An empty list
// is vacuously satisfied.
func (s *State) HasAllItems(itemIDs []string) bool {
	for _, id := range itemIDs {
		if !s.HasItem(id) {
			return false
		}
	}
	return true
}

// MissingItems returns the listed item ids not currently held, in order.
func (s *State) MissingItems(itemIDs []string) []string {
	var missing []string
	for _, id := range itemIDs {
		if !s.HasItem(id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// AddItem appends an item id to the inventory. Duplicates are rejected:
// an id either is or isn't held.
func (s *State) AddItem(itemID string) bool {
	if s.HasItem(itemID) {
		return false
	}
	s.Inventory = append(s.Inventory, itemID)
	return true
}

// RemoveItem removes exactly one matching item id from the inventory.
func (s *State) RemoveItem(itemID string) bool {
	for i, id := range s.Inventory {
		if id == itemID {
			s.Inventory = append(s.Inventory[:i], s.Inventory[i+1:]...)
			return true
		}
	}
	return false
}
