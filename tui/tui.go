// Package tui provides a full-screen terminal frontend for the ClickCore
// engine, built on Bubble Tea. It renders outcomes in a scrollable viewport,
// suppresses world input while a dialogue is open, and plays a short fade
// before acknowledging a location transition.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nathoo/clickcore/engine"
	"github.com/nathoo/clickcore/engine/resolve"
	"github.com/nathoo/clickcore/types"
)

const (
	historySize  = 100
	fadeDuration = 450 * time.Millisecond
)

// fadeDoneMsg signals that the transition fade has finished and the pending
// transition should be committed.
type fadeDoneMsg struct{}

// outLine is one styled line of game output.
type outLine struct {
	text string
	kind lineKind
}

// Model is the Bubble Tea model for the game screen.
type Model struct {
	session *engine.Session
	ctx     context.Context

	viewport viewport.Model
	input    textinput.Model
	history  *History

	lines    []outLine
	selected string // held inventory item id
	width    int
	height   int
	ready    bool
	fading   bool
	quitting bool
}

// New creates the TUI model wired to the given session.
func New(ctx context.Context, s *engine.Session) *Model {
	ti := textinput.New()
	ti.Prompt = styleInputPrompt.Render("> ")
	ti.Focus()
	ti.CharLimit = 200

	return &Model{
		session: s,
		ctx:     ctx,
		input:   ti,
		history: NewHistory(historySize),
	}
}

// Run starts the Bubble Tea program and blocks until the player quits.
func Run(ctx context.Context, s *engine.Session) error {
	p := tea.NewProgram(New(ctx, s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	m.appendLine(m.session.Defs.Game.Title, kindSystem)
	m.appendLine("", kindNarrative)
	m.look()
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := msg.Height - 2 // status bar + input line
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.input.Width = msg.Width - 4
		m.refreshViewport()
		return m, nil

	case fadeDoneMsg:
		m.fading = false
		if err := m.session.CompleteTransition(m.ctx); err != nil {
			m.appendLine(fmt.Sprintf("Transition failed to persist: %v", err), kindError)
		}
		m.look()
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.handleEnter()
		case tea.KeyUp:
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil
		case tea.KeyDown:
			next, _ := m.history.Next()
			m.input.SetValue(next)
			m.input.CursorEnd()
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleEnter processes the current input line.
func (m *Model) handleEnter() tea.Cmd {
	raw := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	m.history.ResetCursor()
	if raw == "" || m.fading {
		return nil
	}
	m.history.Push(raw)
	m.appendLine("> "+raw, kindSystem)

	if strings.HasPrefix(raw, "/") {
		cmd := m.handleMeta(raw)
		m.refreshViewport()
		return cmd
	}

	cmd := m.handleCommand(raw)
	m.refreshViewport()
	return cmd
}

// handleCommand dispatches a game command. While a dialogue is open only
// option numbers are accepted.
func (m *Model) handleCommand(input string) tea.Cmd {
	if m.session.Dialogue.IsActive() {
		n, err := strconv.Atoi(input)
		if err != nil {
			m.appendLine("(choose an option by number)", kindSystem)
			return nil
		}
		if err := m.session.SelectOption(m.ctx, n-1); err != nil {
			m.appendLine("(no such option)", kindSystem)
			return nil
		}
		m.printDialogue()
		return nil
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "look", "l":
		m.look()

	case "inv", "i", "inventory":
		m.inventory()

	case "click", "c":
		if arg == "" {
			m.appendLine("Click what?", kindNarrative)
			return nil
		}
		return m.click(arg)

	case "hold", "select":
		if arg == "" {
			m.appendLine("Hold what?", kindNarrative)
			return nil
		}
		if !m.session.State.HasItem(arg) {
			m.appendLine("I don't have that.", kindNarrative)
			return nil
		}
		m.selected = arg
		m.appendLine("Holding: "+arg, kindSystem)

	case "clear":
		m.selected = ""
		m.appendLine("Hands free.", kindSystem)

	default:
		m.appendLine("Unknown command. Type /help for available commands.", kindSystem)
	}
	return nil
}

// click resolves one interaction and renders its outcome. A transition
// starts the fade and returns the tick command that will commit it.
func (m *Model) click(objectID string) tea.Cmd {
	out := m.session.Click(m.ctx, objectID, m.selected, types.Position{}, false)

	if out.ConsumedItem != "" {
		m.selected = ""
	}

	switch out.Kind {
	case resolve.ItemRejected:
		m.appendLine(orDefault(out.Message, "That doesn't work here."), kindNarrative)
		return nil
	case resolve.NoValidInteraction:
		m.appendLine(orDefault(out.Message, "Nothing happens."), kindNarrative)
		return nil
	}

	if out.Message != "" {
		m.appendLine(out.Message, kindNarrative)
	}

	if out.Transition != nil {
		m.fading = true
		m.appendLine("...", kindFade)
		return tea.Tick(fadeDuration, func(time.Time) tea.Msg {
			return fadeDoneMsg{}
		})
	}

	if m.session.Dialogue.IsActive() {
		m.printDialogue()
	}
	return nil
}

func (m *Model) look() {
	p := m.session.State.Player
	if p.CurrentTimePeriod != "" {
		m.appendLine(fmt.Sprintf("%s (%s)", p.CurrentLocation, p.CurrentTimePeriod), kindNarrative)
	} else {
		m.appendLine(p.CurrentLocation, kindNarrative)
	}

	objects := m.session.ObjectsHere()
	if len(objects) == 0 {
		m.appendLine("Nothing here catches my eye.", kindNarrative)
		return
	}
	m.appendLine("I can see: "+strings.Join(objects, ", "), kindObjects)
}

func (m *Model) inventory() {
	inv := m.session.State.Inventory
	if len(inv) == 0 {
		m.appendLine("I'm carrying nothing.", kindNarrative)
		return
	}
	m.appendLine("I'm carrying: "+strings.Join(inv, ", "), kindNarrative)
}

func (m *Model) printDialogue() {
	dlg := m.session.Dialogue.Current()
	if dlg == nil {
		m.appendLine("(the conversation ends)", kindSystem)
		return
	}
	if dlg.NPCID != "" {
		m.appendLine(dlg.NPCID+": "+dlg.Text, kindDialogue)
	} else {
		m.appendLine(dlg.Text, kindDialogue)
	}
	for i, opt := range dlg.Options {
		m.appendLine(fmt.Sprintf("  %d. %s", i+1, opt.Text), kindOption)
	}
}

// handleMeta dispatches meta-commands.
func (m *Model) handleMeta(input string) tea.Cmd {
	switch strings.Fields(input)[0] {
	case "/quit", "/exit":
		m.quitting = true
		return tea.Quit

	case "/save":
		if err := m.session.Save(m.ctx); err != nil {
			m.appendLine(fmt.Sprintf("Save failed: %v", err), kindError)
		} else {
			m.appendLine("Game saved.", kindSystem)
		}

	case "/new":
		if err := m.session.NewGame(m.ctx); err != nil {
			m.appendLine(fmt.Sprintf("New game failed to persist: %v", err), kindError)
		} else {
			m.selected = ""
			m.appendLine("New game started.", kindSystem)
			m.look()
		}

	case "/help":
		for _, line := range []string{
			"/save /new /quit",
			"look (l), click <object>, hold <item>, clear, inv (i)",
			"<number> picks a dialogue option while talking",
		} {
			m.appendLine(line, kindSystem)
		}

	default:
		m.appendLine("Unknown command. Type /help for available commands.", kindSystem)
	}
	return nil
}

// appendLine adds a line of output, wrapping to the viewport width.
func (m *Model) appendLine(text string, kind lineKind) {
	width := m.width
	if width <= 0 {
		width = 80
	}
	if text == "" {
		m.lines = append(m.lines, outLine{kind: kind})
		return
	}
	for _, wrapped := range wordWrap(text, width) {
		m.lines = append(m.lines, outLine{text: wrapped, kind: kind})
	}
}

// refreshViewport re-renders all lines into the viewport and scrolls to the
// bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	rendered := make([]string, len(m.lines))
	for i, ln := range m.lines {
		rendered[i] = renderLineKind(ln.text, ln.kind)
	}
	m.viewport.SetContent(strings.Join(rendered, "\n"))
	m.viewport.GotoBottom()
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}
	var inputLine string
	if m.fading {
		inputLine = styleFade.Render("...")
	} else {
		inputLine = m.input.View()
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + inputLine
}

// wordWrap splits text into lines no wider than width, breaking on spaces.
func wordWrap(text string, width int) []string {
	if width <= 0 || len(text) <= width {
		return []string{text}
	}
	words := strings.Fields(text)
	var lines []string
	var cur strings.Builder
	for _, w := range words {
		if cur.Len() > 0 && cur.Len()+1+len(w) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
