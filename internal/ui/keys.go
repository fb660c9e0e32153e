package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	ForceQuit   key.Binding
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Home        key.Binding
	End         key.Binding
	Launch      key.Binding
	Clear       key.Binding
	Quit        key.Binding
	Search      key.Binding
	Sort        key.Binding
	Refresh     key.Binding
	Copy        key.Binding
	SearchDone  key.Binding
	SearchErase key.Binding
}

var keys = keyMap{
	ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c")),
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "Navigate")),
	Down:        key.NewBinding(key.WithKeys("down", "j")),
	PageUp:      key.NewBinding(key.WithKeys("pgup")),
	PageDown:    key.NewBinding(key.WithKeys("pgdown")),
	Home:        key.NewBinding(key.WithKeys("home", "g")),
	End:         key.NewBinding(key.WithKeys("end", "G")),
	Launch:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Launch")),
	Clear:       key.NewBinding(key.WithKeys("esc")),
	Quit:        key.NewBinding(key.WithKeys("q", "Q"), key.WithHelp("Q", "Quit")),
	Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "Search")),
	Sort:        key.NewBinding(key.WithKeys("s", "S"), key.WithHelp("S", "Sort")),
	Refresh:     key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("R", "Refresh")),
	Copy:        key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("Y", "Copy")),
	SearchDone:  key.NewBinding(key.WithKeys("esc", "enter")),
	SearchErase: key.NewBinding(key.WithKeys("backspace")),
}

// ShortHelp lists the status-bar hints in display order.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Launch, k.Search, k.Sort, k.Refresh, k.Quit}
}

// ResolveAction maps a key press to an action. In search mode printable
// runes are returned as search input.
func ResolveAction(msg tea.KeyMsg, searchMode bool) (Action, []rune) {
	if key.Matches(msg, keys.ForceQuit) {
		return ActionQuit, nil
	}
	if searchMode {
		return resolveSearchKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Up):
		return ActionMoveUp, nil
	case key.Matches(msg, keys.Down):
		return ActionMoveDown, nil
	case key.Matches(msg, keys.PageUp):
		return ActionPageUp, nil
	case key.Matches(msg, keys.PageDown):
		return ActionPageDown, nil
	case key.Matches(msg, keys.Home):
		return ActionHome, nil
	case key.Matches(msg, keys.End):
		return ActionEnd, nil
	case key.Matches(msg, keys.Launch):
		return ActionLaunch, nil
	case key.Matches(msg, keys.Clear):
		return ActionClear, nil
	case key.Matches(msg, keys.Quit):
		return ActionQuit, nil
	case key.Matches(msg, keys.Search):
		return ActionEnterSearch, nil
	case key.Matches(msg, keys.Sort):
		return ActionCycleSort, nil
	case key.Matches(msg, keys.Refresh):
		return ActionRefresh, nil
	case key.Matches(msg, keys.Copy):
		return ActionCopy, nil
	}
	return ActionNone, nil
}

func resolveSearchKey(msg tea.KeyMsg) (Action, []rune) {
	switch {
	case key.Matches(msg, keys.SearchDone):
		return ActionExitSearch, nil
	case key.Matches(msg, keys.SearchErase):
		return ActionSearchBackspace, nil
	case msg.Type == tea.KeyUp:
		return ActionMoveUp, nil
	case msg.Type == tea.KeyDown:
		return ActionMoveDown, nil
	case msg.Type == tea.KeySpace:
		return ActionSearchChar, []rune{' '}
	case msg.Type == tea.KeyRunes && !msg.Alt:
		printable := make([]rune, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			if r >= 32 && r != 127 {
				printable = append(printable, r)
			}
		}
		if len(printable) > 0 {
			return ActionSearchChar, printable
		}
	}
	return ActionNone, nil
}
