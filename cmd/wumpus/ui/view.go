package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"wumpus/internal/kb"
	"wumpus/internal/policy"
	"wumpus/internal/world"
)

// View implements tea.Model. The left side is the board as the agent
// knows it; the actual cave is revealed only once the episode ends.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("wumpus") + "\n\n")

	board := m.renderBoard()
	panel := m.styles.panel.Render(m.renderPanel())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, board, panel))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderBoard() string {
	w := m.runner.World()
	k := m.runner.KB()
	pose := w.Pose()
	reveal := m.runner.Done()

	rows := make([]string, 0, w.Size())
	for row := 0; row < w.Size(); row++ {
		cells := make([]string, 0, w.Size())
		for col := 0; col < w.Size(); col++ {
			cell := kb.Cell{Row: row, Col: col}
			cells = append(cells, m.renderCell(cell, k.CellInfo(cell), w, pose, reveal))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCell(cell kb.Cell, info kb.CellInfo, w *world.World, pose policy.Pose, reveal bool) string {
	if cell == pose.Cell && w.Alive() && !w.Escaped() {
		return m.styles.agent.Render(headingGlyph(pose.Heading))
	}

	if reveal {
		occ := w.At(cell)
		switch {
		case occ&world.Pit != 0:
			return m.styles.danger.Render("PIT")
		case occ&world.Wumpus != 0 && w.WumpusAlive():
			return m.styles.danger.Render("WUMPUS")
		case occ&world.Gold != 0:
			return m.styles.agent.Render("GOLD")
		}
	}

	switch {
	case info.Visited:
		style := m.styles.visited
		if info.PitSuspected || info.WumpusSuspected {
			style = m.styles.danger
		}
		return style.Render(visitedLabel(info))
	case info.Safe:
		return m.styles.safe.Render("ok")
	default:
		return m.styles.unknown.Render("?")
	}
}

// visitedLabel marks a visited cell with what was sensed there and with
// the hazard hints its unresolved neighbors imply. Suspicion only ever
// appears on visited cells: the hints derive from that cell's own
// breeze/stench percepts.
func visitedLabel(info kb.CellInfo) string {
	marks := make([]string, 0, 4)
	if info.Breeze {
		marks = append(marks, "~")
	}
	if info.Stench {
		marks = append(marks, "!")
	}
	if info.PitSuspected {
		marks = append(marks, "P?")
	}
	if info.WumpusSuspected {
		marks = append(marks, "W?")
	}
	if len(marks) == 0 {
		return "."
	}
	return strings.Join(marks, "")
}

func headingGlyph(h policy.Heading) string {
	switch h {
	case policy.East:
		return ">"
	case policy.South:
		return "v"
	case policy.West:
		return "<"
	case policy.North:
		return "^"
	}
	return "?"
}

func (m Model) renderPanel() string {
	w := m.runner.World()
	var b strings.Builder

	state := "exploring"
	switch {
	case w.Escaped():
		state = "escaped"
	case !w.Alive():
		state = "dead"
	case m.autoplay:
		state = "autoplay"
	}

	b.WriteString(m.styles.status.Render(fmt.Sprintf("score  %d", w.Score())) + "\n")
	b.WriteString(m.styles.status.Render(fmt.Sprintf("steps  %d", m.runner.Steps())) + "\n")
	b.WriteString(m.styles.status.Render(fmt.Sprintf("arrows %d", m.runner.Policy().Arrows())) + "\n")
	b.WriteString(m.styles.status.Render(fmt.Sprintf("state  %s", state)) + "\n")
	if m.runner.Policy().HoldingGold() || w.HasGold() {
		b.WriteString(m.styles.agent.Render("carrying gold") + "\n")
	}

	if w.Alive() {
		percepts := w.Percepts().Names()
		if len(percepts) == 0 {
			b.WriteString(m.styles.muted.Render("percepts: none") + "\n")
		} else {
			b.WriteString(m.styles.status.Render("percepts: "+strings.Join(percepts, ", ")) + "\n")
		}
	}

	b.WriteString("\n")
	for _, line := range m.log {
		b.WriteString(m.styles.muted.Render(line) + "\n")
	}
	return b.String()
}
