package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/nathoo/clickcore/engine"
	"github.com/nathoo/clickcore/engine/state"
	"github.com/nathoo/clickcore/engine/store"
	"github.com/nathoo/clickcore/types"
)

// testDefs returns minimal game definitions for CLI testing.
func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{
			Title:           "Test Manor",
			Author:          "Test",
			Version:         "1.0",
			StartLocation:   "hall",
			StartTimePeriod: "present",
		},
		FlagNames: []string{"find_key", "open_drawer", "met_butler"},
		Interactions: []*types.InteractionDef{
			{
				ID: "pickup_key", ObjectID: "key", Kind: types.KindPickup,
				Name: "brass key", SetsFlag: "find_key",
				Location: "hall", SourceOrder: 1,
			},
			{
				ID: "open_drawer", ObjectID: "drawer", Kind: types.KindOpen,
				Name:          "drawer",
				RequiredItems: []string{"key"},
				SetsFlag:      "open_drawer",
				Location:      "hall", SourceOrder: 2,
			},
			{
				ID: "door_study", ObjectID: "study_door", Kind: types.KindDoor,
				Repeatable: true, TargetLocation: "study",
				Location: "hall", SourceOrder: 3,
			},
			{
				ID: "talk_butler", ObjectID: "butler", Kind: types.KindDialogue,
				Repeatable: true, DialogueID: "butler_intro",
				Location: "hall", SourceOrder: 4,
			},
		},
		Dialogues: map[string]*types.DialogueDef{
			"butler_intro": {
				ID: "butler_intro", NPCID: "Butler", Text: "Good evening.",
				Options: []types.DialogueOption{
					{Text: "Hello.", SetFlag: &types.Predicate{Flag: "met_butler", Value: true}},
					{Text: "Goodbye."},
				},
			},
		},
	}
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.NewFileStore(t.TempDir()+"/gamestate.json", logger)
	sess := engine.NewSession(context.Background(), testDefs(), st, logger)
	var out bytes.Buffer
	c := New(sess)
	c.In = strings.NewReader(input)
	c.Out = &out
	return c, &out
}

func TestCLI_TitleAndLook(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Test Manor") {
		t.Error("expected the title in output")
	}
	if !strings.Contains(output, "hall (present)") {
		t.Error("expected the location line in output")
	}
	if !strings.Contains(output, "I can see: key, drawer, study_door, butler") {
		t.Errorf("expected the object list, got:\n%s", output)
	}
}

func TestCLI_Pickup(t *testing.T) {
	c, out := newTestCLI(t, "click key\ninv\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "I took the brass key.") {
		t.Errorf("expected pickup message, got:\n%s", output)
	}
	if !strings.Contains(output, "I'm carrying: key") {
		t.Errorf("expected inventory listing, got:\n%s", output)
	}
}

func TestCLI_HoldAndUseItem(t *testing.T) {
	c, out := newTestCLI(t, "click key\nhold key\nclick drawer\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Holding: key") {
		t.Errorf("expected holding confirmation, got:\n%s", output)
	}
	if !strings.Contains(output, "Opened the drawer.") {
		t.Errorf("expected open message, got:\n%s", output)
	}
	if v, _ := c.Session.State.Flags.Get("open_drawer"); !v {
		t.Error("expected open_drawer set")
	}
}

func TestCLI_HoldRequiresOwnership(t *testing.T) {
	c, out := newTestCLI(t, "hold key\n/quit\n")
	c.Run(context.Background())

	if !strings.Contains(out.String(), "I don't have that.") {
		t.Error("holding an unowned item must be refused")
	}
}

func TestCLI_MissingItemHint(t *testing.T) {
	c, out := newTestCLI(t, "click drawer\n/quit\n")
	c.Run(context.Background())

	if !strings.Contains(out.String(), "I need: key.") {
		t.Errorf("expected missing-item hint, got:\n%s", out.String())
	}
}

func TestCLI_DoorTransition(t *testing.T) {
	c, out := newTestCLI(t, "click study_door\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "study") {
		t.Errorf("expected arrival in the study, got:\n%s", output)
	}
	if c.Session.State.Player.CurrentLocation != "study" {
		t.Errorf("expected study, got %q", c.Session.State.Player.CurrentLocation)
	}
	if c.Session.InTransition() {
		t.Error("the CLI must acknowledge the transition")
	}
}

func TestCLI_DialogueFlow(t *testing.T) {
	c, out := newTestCLI(t, "click butler\nlook\n1\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Butler: Good evening.") {
		t.Errorf("expected dialogue text, got:\n%s", output)
	}
	if !strings.Contains(output, "1. Hello.") {
		t.Errorf("expected numbered options, got:\n%s", output)
	}
	// "look" while talking is refused; only numbers work.
	if !strings.Contains(output, "(choose an option by number)") {
		t.Errorf("expected world input suppressed, got:\n%s", output)
	}
	if v, _ := c.Session.State.Flags.Get("met_butler"); !v {
		t.Error("expected met_butler set by the chosen option")
	}
	if c.Session.Dialogue.IsActive() {
		t.Error("expected dialogue closed after the terminal option")
	}
}

func TestCLI_NewGame(t *testing.T) {
	c, out := newTestCLI(t, "click key\n/new\ninv\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "[New game started.]") {
		t.Errorf("expected new-game confirmation, got:\n%s", output)
	}
	if !strings.Contains(output, "I'm carrying nothing.") {
		t.Errorf("expected an empty inventory after /new, got:\n%s", output)
	}
}

func TestCLI_CommentsAndBlankLinesSkipped(t *testing.T) {
	c, out := newTestCLI(t, "# walkthrough comment\n\nlook\n/quit\n")
	c.Run(context.Background())

	if strings.Contains(out.String(), "Unknown command") {
		t.Error("comments and blank lines must not reach the dispatcher")
	}
}
