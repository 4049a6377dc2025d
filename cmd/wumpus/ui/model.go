// Package ui provides the interactive board for the wumpus cave.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wumpus/internal/sim"
)

const logLines = 6

// Model is the bubbletea model for one play session. The same runner is
// reused across resets.
type Model struct {
	runner   *sim.Runner
	interval time.Duration

	autoplay bool
	log      []string
	keys     keyMap
	help     help.Model
	styles   styles
}

type styles struct {
	unknown lipgloss.Style
	visited lipgloss.Style
	safe    lipgloss.Style
	agent   lipgloss.Style
	danger  lipgloss.Style
	title   lipgloss.Style
	status  lipgloss.Style
	muted   lipgloss.Style
	panel   lipgloss.Style
}

func defaultStyles() styles {
	cell := lipgloss.NewStyle().Width(7).Height(1).Align(lipgloss.Center).
		Border(lipgloss.NormalBorder())
	return styles{
		unknown: cell.Foreground(lipgloss.Color("240")),
		visited: cell.Foreground(lipgloss.Color("252")),
		safe:    cell.Foreground(lipgloss.Color("42")),
		agent:   cell.Foreground(lipgloss.Color("226")).Bold(true),
		danger:  cell.Foreground(lipgloss.Color("196")),
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		status:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		panel:   lipgloss.NewStyle().MarginLeft(2),
	}
}

// NewModel builds the board around an existing runner.
func NewModel(runner *sim.Runner, interval time.Duration) Model {
	return Model{
		runner:   runner,
		interval: interval,
		keys:     defaultKeyMap(),
		help:     help.New(),
		styles:   defaultStyles(),
		log:      []string{"New cave."},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) pushLog(line string) {
	if line == "" {
		return
	}
	m.log = append(m.log, line)
	if len(m.log) > logLines {
		m.log = m.log[len(m.log)-logLines:]
	}
}
