// Package save implements JSON serialization of game state, defensive
// against partially-written or outdated save documents: absent fields
// default instead of failing, so a load always ends with a fully-populated
// state.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nathoo/clickcore/engine/state"
	"github.com/nathoo/clickcore/types"
)

// ErrCorruptSave wraps decode failures. Callers recover by falling back to
// a fresh state; it is never fatal.
var ErrCorruptSave = errors.New("corrupt save data")

// SaveData is the JSON-serializable save format, one document per slot.
type SaveData struct {
	Version   string          `json:"version"`
	Game      string          `json:"game"`
	SessionID string          `json:"session_id"`
	SavedAt   time.Time       `json:"saved_at"`
	Player    types.Player    `json:"player"`
	Flags     map[string]bool `json:"flags"`
	Inventory []string        `json:"inventory"`
	Completed []string        `json:"completed"` // interaction definition ids
}

// Snapshot captures the current state, including per-definition completion
// marks from the catalogs, into a SaveData.
func Snapshot(s *state.State, defs *state.Defs) SaveData {
	var completed []string
	for _, def := range defs.Interactions {
		if def.Completed {
			completed = append(completed, def.ID)
		}
	}
	return SaveData{
		Version:   defs.Game.Version,
		Game:      defs.Game.Title,
		SessionID: s.SessionID,
		SavedAt:   time.Now().UTC(),
		Player:    s.Player,
		Flags:     s.Flags.Snapshot(),
		Inventory: append([]string(nil), s.Inventory...),
		Completed: completed,
	}
}

// Encode serializes a snapshot to JSON bytes.
func Encode(sd SaveData) ([]byte, error) {
	data, err := json.MarshalIndent(sd, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding save data: %w", err)
	}
	return data, nil
}

// Decode deserializes JSON bytes into SaveData, healing nil collections.
func Decode(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	if sd.Flags == nil {
		sd.Flags = map[string]bool{}
	}
	if sd.Inventory == nil {
		sd.Inventory = []string{}
	}
	return &sd, nil
}

// Apply restores loaded save data onto a state and the catalogs' completion
// marks, in place. Flags and completed ids unknown to the current catalogs
// are ignored; missing fields keep their freshly-defaulted values. A save
// without a session id gets a new one.
func Apply(sd *SaveData, s *state.State, defs *state.Defs) {
	if sd.Player.CurrentLocation != "" {
		s.Player = sd.Player
	}
	if s.Player.CurrentTimePeriod == "" {
		s.Player.CurrentTimePeriod = defs.Game.StartTimePeriod
	}
	s.Flags.Restore(sd.Flags)
	s.Inventory = append(s.Inventory[:0], sd.Inventory...)

	s.SessionID = sd.SessionID
	if s.SessionID == "" {
		s.SessionID = uuid.NewString()
	}

	completed := make(map[string]bool, len(sd.Completed))
	for _, id := range sd.Completed {
		completed[id] = true
	}
	for _, def := range defs.Interactions {
		def.Completed = completed[def.ID]
	}
}
