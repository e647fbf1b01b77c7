package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	ForceQuit   key.Binding
	Open        key.Binding
	Back        key.Binding
	NextField   key.Binding
	PrevField   key.Binding
	NextSection key.Binding
	PrevSection key.Binding
	Append      key.Binding
	Cancel      key.Binding
	RowUp       key.Binding
	RowDown     key.Binding
	Remove      key.Binding
	Edit        key.Binding
	Save        key.Binding
	ChoicePrev  key.Binding
	ChoiceNext  key.Binding
	Project     key.Binding
	Reload      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:        key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "pages")),
		NextField:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		NextSection: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next section")),
		PrevSection: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "prev section")),
		Append:      key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "add row")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear draft")),
		RowUp:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "row")),
		RowDown:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "row")),
		Remove:      key.NewBinding(key.WithKeys("ctrl+d", "delete"), key.WithHelp("ctrl+d", "remove row")),
		Edit:        key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "edit row")),
		Save:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save page")),
		ChoicePrev:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "option")),
		ChoiceNext:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "option")),
		Project:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "project")),
		Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

func helpLine(bs ...key.Binding) string {
	out := ""
	for i, b := range bs {
		h := b.Help()
		if i > 0 {
			out += "  "
		}
		out += h.Key + ": " + h.Desc
	}
	return out
}
