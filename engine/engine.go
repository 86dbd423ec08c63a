// Package engine provides the Session orchestrator that wires catalogs,
// game state, the interaction resolver, the dialogue engine, and the save
// store into one turn-based surface for presentation layers.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/nathoo/clickcore/engine/dialogue"
	"github.com/nathoo/clickcore/engine/resolve"
	"github.com/nathoo/clickcore/engine/save"
	"github.com/nathoo/clickcore/engine/state"
	"github.com/nathoo/clickcore/engine/store"
	"github.com/nathoo/clickcore/types"
)

// Session owns the single GameState of a running game. It is constructed
// once at startup and threaded through calls; no ambient static access.
// All state-changing entry points persist eagerly (write-through) and are
// serialized by one mutex, although the intended interaction model is
// single-threaded and turn-based.
type Session struct {
	mu sync.Mutex

	Defs     *state.Defs
	State    *state.State
	Dialogue *dialogue.Engine

	store   store.Store
	logger  *slog.Logger
	pending *resolve.Transition
}

// NewSession builds a session: a fresh state is created, then the persisted
// save (if any) is applied on top. A corrupt or unreadable save is recovered
// by keeping the fresh state, never by failing.
func NewSession(ctx context.Context, defs *state.Defs, st store.Store, logger *slog.Logger) *Session {
	s := &Session{
		Defs:   defs,
		State:  state.New(defs),
		store:  st,
		logger: logger,
	}
	s.State.SessionID = uuid.NewString()
	s.Dialogue = dialogue.New(defs, s.State, logger)

	data, ok, err := st.Load(ctx)
	switch {
	case err != nil:
		logger.Warn("loading save failed, starting fresh", "error", err)
	case ok:
		sd, err := save.Decode(data)
		if err != nil {
			logger.Warn("corrupt save data, starting fresh", "error", err)
			break
		}
		save.Apply(sd, s.State, defs)
		logger.Info("game state restored",
			"session_id", s.State.SessionID,
			"location", s.State.Player.CurrentLocation)
	}
	return s
}

// Save persists the entire game state. Called after every mutating
// operation; failures are reported, not retried.
func (s *Session) Save(ctx context.Context) error {
	data, err := save.Encode(save.Snapshot(s.State, s.Defs))
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, data); err != nil {
		return fmt.Errorf("persisting game state: %w", err)
	}
	return nil
}

// Click resolves one interaction for a clicked object. pos and flipped are
// the player's current scene position and facing, captured into the state
// when the interaction starts a transition. Clicks are rejected while a
// dialogue is open or a transition is pending.
func (s *Session) Click(ctx context.Context, objectID, selectedItemID string, pos types.Position, flipped bool) resolve.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Dialogue.IsActive() {
		s.logger.Debug("click ignored, dialogue open", "object_id", objectID)
		return resolve.Outcome{Kind: resolve.NoValidInteraction}
	}
	if s.pending != nil {
		s.logger.Debug("click ignored, transition pending", "object_id", objectID)
		return resolve.Outcome{Kind: resolve.NoValidInteraction}
	}

	out := resolve.Resolve(objectID, selectedItemID, s.State, s.Defs, s.logger)
	if out.Kind != resolve.Resolved {
		return out
	}

	if out.Transition != nil {
		// Mutate-intent: remember where the player stood; the location
		// itself commits only in CompleteTransition.
		s.State.Player.LastTransitionPosition = pos
		s.State.Player.WasFlipped = flipped
		s.pending = out.Transition
	}

	if out.DialogueID != "" {
		s.Dialogue.Start(out.DialogueID)
	}

	if err := s.Save(ctx); err != nil {
		s.logger.Error("write-through save failed", "error", err)
	}
	return out
}

// SelectOption applies a dialogue option and persists.
func (s *Session) SelectOption(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Dialogue.SelectOption(index); err != nil {
		return err
	}
	if err := s.Save(ctx); err != nil {
		s.logger.Error("write-through save failed", "error", err)
	}
	return nil
}

// InTransition reports whether a location change awaits acknowledgement.
func (s *Session) InTransition() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// PendingTransition returns the awaiting transition, or nil.
func (s *Session) PendingTransition() *resolve.Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// CompleteTransition is the presentation layer's transition-complete
// acknowledgement. Only now does the location change commit: the
// pre-transition location becomes PreviousLocation and the target becomes
// CurrentLocation. A no-op when nothing is pending.
func (s *Session) CompleteTransition(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return nil
	}
	t := s.pending
	s.pending = nil

	s.State.Player.PreviousLocation = t.From
	s.State.Player.CurrentLocation = t.To
	if t.TimePeriod != "" {
		s.State.Player.CurrentTimePeriod = t.TimePeriod
	}

	if err := s.Save(ctx); err != nil {
		s.logger.Error("write-through save failed", "error", err)
		return err
	}
	return nil
}

// NewGame resets the session in place: all flags false, inventory empty,
// completion marks cleared, player at the starting location, new session id.
func (s *Session) NewGame(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Dialogue.Close()
	s.pending = nil
	s.Defs.ResetProgress()

	s.State.Flags.Reset()
	s.State.Inventory = s.State.Inventory[:0]
	s.State.Player = types.Player{
		CurrentLocation:   s.Defs.Game.StartLocation,
		CurrentTimePeriod: s.Defs.Game.StartTimePeriod,
	}
	s.State.SessionID = uuid.NewString()

	return s.Save(ctx)
}

// Visible reports whether a decorative object should be shown, from its
// display definition's unlock conditions.
func (s *Session) Visible(objectID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return resolve.Visible(objectID, s.State, s.Defs, s.logger)
}

// ObjectsHere lists the distinct, visible object ids placed in the player's
// current location and time period, in catalog order. Definitions without
// placement match any location.
func (s *Session) ObjectsHere() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[string]bool{}
	var ids []string
	for _, def := range s.Defs.Interactions {
		if def.Location != "" && def.Location != s.State.Player.CurrentLocation {
			continue
		}
		if def.TimePeriod != "" && def.TimePeriod != s.State.Player.CurrentTimePeriod {
			continue
		}
		if seen[def.ObjectID] {
			continue
		}
		seen[def.ObjectID] = true
		if !resolve.Visible(def.ObjectID, s.State, s.Defs, s.logger) {
			continue
		}
		if pickedUp(s.Defs.ByID(def.ObjectID)) {
			// A taken pickup has left the scene.
			continue
		}
		ids = append(ids, def.ObjectID)
	}
	return ids
}

func pickedUp(defs []*types.InteractionDef) bool {
	for _, def := range defs {
		if def.Kind == types.KindPickup && def.Completed && !def.Repeatable {
			return true
		}
	}
	return false
}
