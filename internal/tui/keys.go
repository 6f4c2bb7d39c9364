package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding of the catalog screen. Which bindings are shown
// in the footer depends on the focused area (see helpKeys).
type keyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Enter     key.Binding
	Submit    key.Binding
	Edit      key.Binding
	Delete    key.Binding
	ShowAll   key.Binding
	Find      key.Binding
	Escape    key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("enter/e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		ShowAll: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "show all"),
		),
		Find: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// inputKeyMap is shown while a text input has focus
type inputKeyMap struct {
	keys  keyMap
	enter key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k inputKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.keys.Next, k.keys.ShowAll, k.keys.Escape, k.keys.ForceQuit}
}

// FullHelp returns keybindings for the expanded help view
func (k inputKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.enter, k.keys.Next, k.keys.Prev},
		{k.keys.ShowAll, k.keys.Escape, k.keys.ForceQuit},
	}
}

// buttonKeyMap is shown while a button row has focus
type buttonKeyMap struct {
	keys keyMap
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k buttonKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.keys.Left, k.keys.Right, k.keys.Enter, k.keys.Next, k.keys.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k buttonKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.keys.Left, k.keys.Right, k.keys.Enter},
		{k.keys.Next, k.keys.Prev, k.keys.ShowAll},
		{k.keys.Escape, k.keys.Quit},
	}
}

// listKeyMap is shown while the product list has focus
type listKeyMap struct {
	keys keyMap
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k listKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.keys.Up, k.keys.Down, k.keys.Edit, k.keys.Delete, k.keys.Find, k.keys.Help, k.keys.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k listKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.keys.Up, k.keys.Down, k.keys.Edit, k.keys.Delete},
		{k.keys.Find, k.keys.ShowAll, k.keys.Next, k.keys.Prev},
		{k.keys.Escape, k.keys.Help, k.keys.Quit},
	}
}
