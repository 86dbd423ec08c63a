// Package types defines the shared data structures for the ClickCore engine.
// This package contains only type definitions — no logic, no methods.
package types

// Position is a 2D point in scene space, captured at transitions so the
// presentation layer can re-place the player afterwards.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Predicate is a compiled two-token flag condition ("flag_name true").
// For unlock conditions Value is what the flag must equal; for dialogue
// option effects it is what the flag gets set to.
type Predicate struct {
	Flag  string
	Value bool
}

// Interaction kinds.
const (
	KindPickup     = "pickup"
	KindInspect    = "inspect"
	KindUse        = "use"
	KindOpen       = "open"
	KindDoor       = "door"
	KindTimeDevice = "time_device"
	KindDialogue   = "dialogue"
	KindDisplay    = "display"
)

// InteractionDef is one candidate behavior for a world object. Several
// definitions may share an ObjectID; catalog order is the tie-break.
// Completed is mutable runtime progress carried on the definition itself.
type InteractionDef struct {
	ID            string // unique definition id
	ObjectID      string // world object this definition answers for
	Kind          string
	Name          string // display name
	Description   string
	Completed     bool
	Repeatable    bool
	RequiredItems []string
	Unlock        []Predicate
	SetsFlag      string // flag set to true on success, optional

	// Scene placement, optional ("" = any).
	Location   string
	TimePeriod string

	// Kind-specific targets.
	TargetLocation   string // door, time_device
	TargetTimePeriod string // time_device
	DialogueID       string // dialogue

	SourceOrder int
}

// DialogueOption is one selectable answer in a dialogue node.
type DialogueOption struct {
	Text    string
	SetFlag *Predicate // optional flag assignment effect
	Next    string     // next dialogue id, "" ends the dialogue
}

// DialogueDef is a single node of a branching dialogue tree.
type DialogueDef struct {
	ID       string
	NPCID    string
	Required *Predicate // optional gate, re-checked on every Start
	Text     string
	Options  []DialogueOption
}

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title           string
	Author          string
	Version         string
	StartLocation   string
	StartTimePeriod string
}

// Player holds the player's runtime state.
type Player struct {
	CurrentLocation        string   `json:"current_location"`
	PreviousLocation       string   `json:"previous_location"`
	CurrentTimePeriod      string   `json:"current_time_period"`
	LastTransitionPosition Position `json:"last_transition_position"`
	WasFlipped             bool     `json:"was_flipped"`
}
