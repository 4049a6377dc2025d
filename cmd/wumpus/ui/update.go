package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"wumpus/internal/policy"
	"wumpus/internal/world"
)

// tickMsg paces autoplay.
type tickMsg time.Time

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		if !m.autoplay {
			return m, nil
		}
		if m.runner.Done() {
			m.autoplay = false
			return m, nil
		}
		action, res := m.runner.Step()
		m.pushLog(fmt.Sprintf("[auto] %s %s", action, res.Message))
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Reset):
		m.runner.Reset(time.Now().UnixNano())
		m.autoplay = false
		m.pushLog("New cave.")
		return m, nil

	case key.Matches(msg, m.keys.Autoplay):
		m.autoplay = !m.autoplay
		if m.autoplay {
			m.pushLog("Autoplay on.")
			return m, m.tick()
		}
		m.pushLog("Autoplay off.")
		return m, nil

	case key.Matches(msg, m.keys.StepOnce):
		if m.runner.Done() {
			return m, nil
		}
		action, res := m.runner.Step()
		m.pushLog(fmt.Sprintf("[auto] %s %s", action, res.Message))
		return m, nil

	case key.Matches(msg, m.keys.Forward):
		return m.manual(policy.MoveForward), nil
	case key.Matches(msg, m.keys.TurnLeft):
		return m.manual(policy.TurnLeft), nil
	case key.Matches(msg, m.keys.TurnRight):
		return m.manual(policy.TurnRight), nil
	case key.Matches(msg, m.keys.Grab):
		return m.manual(policy.Grab), nil
	case key.Matches(msg, m.keys.Shoot):
		return m.manual(policy.Shoot), nil
	case key.Matches(msg, m.keys.Climb):
		return m.manual(policy.Climb), nil
	}
	return m, nil
}

func (m Model) manual(action policy.Action) Model {
	if m.runner.Done() {
		return m
	}
	res := m.runner.ApplyManual(action)
	m.pushLog(describe(action, res))
	return m
}

func describe(action policy.Action, res world.Result) string {
	if res.Message == "" {
		return string(action)
	}
	return fmt.Sprintf("%s %s", action, res.Message)
}
