// Package cli provides a plain terminal frontend for the ClickCore engine:
// it polls input, renders structured outcomes, and acknowledges transitions
// on the engine's behalf.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nathoo/clickcore/engine"
	"github.com/nathoo/clickcore/engine/resolve"
	"github.com/nathoo/clickcore/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Session   *engine.Session
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for script playback)

	// selected is the inventory item the player is "holding" to use on the
	// next clicked object. The CLI is the source of the selected item id,
	// mirroring the inventory UI layer of the original game.
	selected string
}

// New creates a CLI wired to the given session.
func New(s *engine.Session) *CLI {
	return &CLI{
		Session: s,
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run starts the game loop: prompt → input → dispatch → output.
func (c *CLI) Run(ctx context.Context) {
	c.printLine(c.Session.Defs.Game.Title)
	c.printLine("")
	c.look()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(ctx, input) {
				return // /quit
			}
			continue
		}

		c.handleCommand(ctx, input)
	}
}

// handleCommand dispatches a game command. While a dialogue is open only
// option numbers are accepted; world-interaction input is suppressed.
func (c *CLI) handleCommand(ctx context.Context, input string) {
	if c.Session.Dialogue.IsActive() {
		n, err := strconv.Atoi(input)
		if err != nil {
			c.printLine("(choose an option by number)")
			return
		}
		if err := c.Session.SelectOption(ctx, n-1); err != nil {
			c.printLine("(no such option)")
			return
		}
		c.printDialogue()
		return
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "look", "l":
		c.look()

	case "inv", "i", "inventory":
		c.inventory()

	case "click", "c":
		if arg == "" {
			c.printLine("Click what?")
			return
		}
		c.click(ctx, arg)

	case "hold", "select":
		if arg == "" {
			c.printLine("Hold what?")
			return
		}
		if !c.Session.State.HasItem(arg) {
			c.printLine("I don't have that.")
			return
		}
		c.selected = arg
		c.printLine("Holding: " + arg)

	case "clear":
		c.selected = ""
		c.printLine("Hands free.")

	default:
		c.printLine("Unknown command. Type /help for available commands.")
	}
}

// click resolves one interaction and renders its outcome.
func (c *CLI) click(ctx context.Context, objectID string) {
	out := c.Session.Click(ctx, objectID, c.selected, types.Position{}, false)

	if out.ConsumedItem != "" {
		// The engine consumed the held item; clear the selection.
		c.selected = ""
	}

	switch out.Kind {
	case resolve.ItemRejected:
		c.printLine(orDefault(out.Message, "That doesn't work here."))
		return
	case resolve.NoValidInteraction:
		c.printLine(orDefault(out.Message, "Nothing happens."))
		return
	}

	if out.Message != "" {
		c.printLine(out.Message)
	}

	if out.Transition != nil {
		// Stand-in for the fade animation; acknowledge right away.
		c.printLine("...")
		if err := c.Session.CompleteTransition(ctx); err != nil {
			c.printSystem(fmt.Sprintf("Transition failed to persist: %v", err))
		}
		c.look()
	}

	if c.Session.Dialogue.IsActive() {
		c.printDialogue()
	}
}

// look describes the current location and the objects in it.
func (c *CLI) look() {
	p := c.Session.State.Player
	if p.CurrentTimePeriod != "" {
		c.printLine(fmt.Sprintf("%s (%s)", p.CurrentLocation, p.CurrentTimePeriod))
	} else {
		c.printLine(p.CurrentLocation)
	}

	objects := c.Session.ObjectsHere()
	if len(objects) == 0 {
		c.printLine("Nothing here catches my eye.")
		return
	}
	c.printLine("I can see: " + strings.Join(objects, ", "))
}

func (c *CLI) inventory() {
	inv := c.Session.State.Inventory
	if len(inv) == 0 {
		c.printLine("I'm carrying nothing.")
		return
	}
	c.printLine("I'm carrying: " + strings.Join(inv, ", "))
	if c.selected != "" {
		c.printLine("Holding: " + c.selected)
	}
}

func (c *CLI) printDialogue() {
	dlg := c.Session.Dialogue.Current()
	if dlg == nil {
		c.printLine("(the conversation ends)")
		return
	}
	if dlg.NPCID != "" {
		c.printLine(dlg.NPCID + ": " + dlg.Text)
	} else {
		c.printLine(dlg.Text)
	}
	for i, opt := range dlg.Options {
		c.printLine(fmt.Sprintf("  %d. %s", i+1, opt.Text))
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(ctx context.Context, input string) bool {
	switch strings.Fields(input)[0] {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		if err := c.Session.Save(ctx); err != nil {
			c.printSystem(fmt.Sprintf("Save failed: %v", err))
		} else {
			c.printSystem("Game saved.")
		}

	case "/new":
		if err := c.Session.NewGame(ctx); err != nil {
			c.printSystem(fmt.Sprintf("New game failed to persist: %v", err))
		} else {
			c.printSystem("New game started.")
			c.look()
		}

	case "/state":
		c.cmdState()

	case "/help":
		c.cmdHelp()

	default:
		c.printSystem("Unknown command. Type /help for available commands.")
	}
	return false
}

func (c *CLI) cmdState() {
	s := c.Session.State
	c.printSystem("Location: " + s.Player.CurrentLocation)
	c.printSystem("Time period: " + s.Player.CurrentTimePeriod)
	c.printSystem(fmt.Sprintf("Inventory: %v", s.Inventory))
	var set []string
	for name, v := range s.Flags.Snapshot() {
		if v {
			set = append(set, name)
		}
	}
	c.printSystem(fmt.Sprintf("Flags set: %v", set))
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save         — Save game",
		"  /new          — Start a new game",
		"  /state        — Debug: dump current state",
		"  /quit         — Exit game",
		"",
		"Game commands:",
		"  look (l)          — Describe the current location",
		"  click <object>    — Interact with an object",
		"  hold <item>       — Hold an inventory item to use on the next click",
		"  clear             — Stop holding",
		"  inv (i)           — Check what you're carrying",
		"  <number>          — Pick a dialogue option while talking",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
