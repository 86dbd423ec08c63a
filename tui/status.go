package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar renders the one-line status bar: location and time period
// on the left, held item and inventory count on the right.
func (m *Model) renderStatusBar() string {
	p := m.session.State.Player

	left := " " + p.CurrentLocation
	if p.CurrentTimePeriod != "" {
		left += fmt.Sprintf(" · %s", p.CurrentTimePeriod)
	}

	right := fmt.Sprintf("items: %d ", len(m.session.State.Inventory))
	if m.selected != "" {
		right = fmt.Sprintf("holding: %s · %s", m.selected, right)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return styleStatusBar.Render(left + strings.Repeat(" ", gap) + right)
}
