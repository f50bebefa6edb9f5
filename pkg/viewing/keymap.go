package viewing

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the top view.
type KeyMap struct {
	Quit       key.Binding
	Pause      key.Binding
	Refresh    key.Binding
	SortCPU    key.Binding
	SortMemory key.Binding
	More       key.Binding
	Fewer      key.Binding
	Help       key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p", "pause"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh now"),
		),
		SortCPU: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "sort by cpu"),
		),
		SortMemory: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "sort by memory"),
		),
		More: key.NewBinding(
			key.WithKeys("+", "=", "up"),
			key.WithHelp("+", "more rows"),
		),
		Fewer: key.NewBinding(
			key.WithKeys("-", "_", "down"),
			key.WithHelp("-", "fewer rows"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SortCPU, k.SortMemory, k.Pause, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SortCPU, k.SortMemory},
		{k.More, k.Fewer},
		{k.Pause, k.Refresh},
		{k.Help, k.Quit},
	}
}
