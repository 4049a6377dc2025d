package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Forward   key.Binding
	TurnLeft  key.Binding
	TurnRight key.Binding
	Grab      key.Binding
	Shoot     key.Binding
	Climb     key.Binding
	StepOnce  key.Binding
	Autoplay  key.Binding
	Reset     key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Forward: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "forward"),
		),
		TurnLeft: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "turn left"),
		),
		TurnRight: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "turn right"),
		),
		Grab: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "grab"),
		),
		Shoot: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "shoot"),
		),
		Climb: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "climb"),
		),
		StepOnce: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "agent step"),
		),
		Autoplay: key.NewBinding(
			key.WithKeys("a", " "),
			key.WithHelp("a", "autoplay"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Forward, k.TurnLeft, k.TurnRight, k.Grab, k.Shoot, k.Climb,
		k.StepOnce, k.Autoplay, k.Reset, k.Quit,
	}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Forward, k.TurnLeft, k.TurnRight},
		{k.Grab, k.Shoot, k.Climb},
		{k.StepOnce, k.Autoplay, k.Reset, k.Quit},
	}
}
