package tui

import (
	"fmt"
	"io"
	"strings"

	"rera-portal/internal/catalog"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// submissionsEntry is the sidebar id of the saved-submissions view.
const submissionsEntry = "__submissions__"

type pageItem struct {
	id      string
	title   string
	group   string
	locked  bool
	current bool
}

func (i pageItem) Title() string       { return i.title }
func (i pageItem) Description() string { return i.group }
func (i pageItem) FilterValue() string { return i.title }

type sidebarDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newSidebarDelegate() sidebarDelegate {
	return sidebarDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d sidebarDelegate) Height() int                             { return 1 }
func (d sidebarDelegate) Spacing() int                            { return 0 }
func (d sidebarDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d sidebarDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}
	it, ok := item.(pageItem)
	if !ok {
		fmt.Fprint(w, fmt.Sprint(item))
		return
	}

	marker := "  "
	switch {
	case it.locked:
		marker = glyphLock() + " "
	case it.current:
		marker = glyphPointer() + " "
	}
	line := marker + it.title
	if lw := xansi.StringWidth(line); lw < contentW {
		line += strings.Repeat(" ", contentW-lw)
	} else if lw > contentW {
		line = xansi.Truncate(line, contentW, "…")
	}

	style := d.normal
	if it.locked {
		style = styleMuted()
	}
	if index == m.Index() {
		style = d.selected
	}
	fmt.Fprint(w, style.Render(line))
}

func newSidebar() list.Model {
	l := list.New(nil, newSidebarDelegate(), 0, 0)
	l.Title = "Pages"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	// q is handled by the app; esc must not quit.
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

func sidebarItems(c *catalog.Catalog, current string, canEnter func(string) error) []list.Item {
	items := make([]list.Item, 0, len(c.Pages)+1)
	for _, p := range c.Pages {
		items = append(items, pageItem{
			id:      p.ID,
			title:   p.Title,
			group:   p.Group,
			locked:  canEnter(p.ID) != nil,
			current: p.ID == current,
		})
	}
	items = append(items, pageItem{id: submissionsEntry, title: "Saved Submissions", current: current == submissionsEntry})
	return items
}
