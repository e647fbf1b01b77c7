package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func (m appModel) View() string {
	if m.modal != modalNone {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.viewModal())
	}

	prof := m.session.Profile()
	exp := "No"
	if prof.HasPastExperience {
		exp = "Yes"
	}
	header := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf(
		"RERA Portal  Project=%s  Past experience=%s", m.session.Project(), exp,
	))

	bodyH := max(m.height-4, 5)
	side := lipgloss.NewStyle().Width(sidebarWidth).Height(bodyH).Render(m.sidebar.View())

	var main string
	switch m.view {
	case viewSubmissions:
		main = m.viewSubmissionsList()
	case viewSubmission:
		main = clipLines(renderMarkdown(m.submissionMarkdown(), m.mainWidth()), m.subScroll, bodyH)
	default:
		main = m.viewPage(bodyH)
	}
	main = lipgloss.NewStyle().Width(m.mainWidth()).Height(bodyH).Render(main)
	sep := styleMuted().Render(strings.TrimRight(strings.Repeat("│\n", bodyH), "\n"))
	if glyphs() == glyphSetASCII {
		sep = styleMuted().Render(strings.TrimRight(strings.Repeat("|\n", bodyH), "\n"))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, side, " ", sep, " ", main)

	return strings.Join([]string{header, body, m.viewStatus(), m.viewHelp()}, "\n")
}

func (m appModel) viewModal() string {
	switch m.modal {
	case modalGuard:
		return renderConfirmModal(m.width, m.modalTitle, m.modalBody, "Go to profile", "Stay", m.modalFocus)
	case modalConfirmDelete:
		return renderConfirmModal(m.width, m.modalTitle, m.modalBody, "Delete", "Cancel", m.modalFocus)
	default:
		return renderNoticeModal(m.width, m.modalTitle, m.modalBody)
	}
}

func (m appModel) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return styleError().Render(m.status)
	}
	return styleMuted().Render(m.status)
}

func (m appModel) viewHelp() string {
	k := m.keys
	var h string
	switch {
	case m.pane == paneSidebar:
		h = helpLine(k.Open, k.NextField, k.Project, k.Quit)
	case m.view == viewSubmissions:
		h = helpLine(k.Open, k.Remove, k.Reload, k.Back)
	case m.view == viewSubmission:
		h = "↑/↓: scroll  esc: back"
	default:
		h = helpLine(k.NextField, k.NextSection, k.Append, k.Cancel, k.Remove, k.Save, k.Back)
	}
	return styleMuted().Render(xansi.Truncate(h, max(m.width, 10), "…"))
}

func (m appModel) viewSubmissionsList() string {
	if m.store == nil {
		return styleMuted().Render("Submissions are not being stored.")
	}
	if len(m.subs.Items()) == 0 {
		return styleMuted().Render("No submissions saved yet. Press ctrl+s on a page to save it.")
	}
	return m.subs.View()
}

func (m appModel) viewPage(height int) string {
	page, err := m.session.Current()
	if err != nil {
		return styleError().Render(err.Error())
	}
	w := m.mainWidth()

	var lines []string
	add := func(s string) { lines = append(lines, strings.Split(s, "\n")...) }

	title := styleHeading().Render(page.Title)
	if page.Group != "" {
		title += styleMuted().Render("  " + page.Group)
	}
	add(title)
	if note := renderMarkdown(page.Note, w); note != "" {
		add(note)
	}

	activeStart := 0
	labelW := min(32, w/3)
	for bi, b := range m.blocks {
		add("")
		if bi == m.active {
			activeStart = len(lines)
			add(styleHeading().Render(glyphPointer() + " " + b.title))
		} else {
			add(lipgloss.NewStyle().Bold(true).Render("  " + b.title))
		}
		values := b.draft.Values()
		for i, fi := range b.inputs {
			label := fi.field.DisplayLabelFor(values)
			label = xansi.Truncate(label, labelW, "…")
			label += strings.Repeat(" ", labelW-xansi.StringWidth(label))
			ls := lipgloss.NewStyle()
			if bi == m.active && i == m.focus && m.pane == paneMain {
				ls = ls.Bold(true)
			}
			add(ls.Render(label) + " " + renderInputLine(w-labelW-1, fi.input.View()))
		}
		if b.section != nil {
			add("")
			add(renderTable(b.section.Render(), w, b.row))
		}
	}

	// Keep the active block's heading on screen.
	start := 0
	if activeStart >= height-2 {
		start = activeStart - 1
	}
	return clipLines(strings.Join(lines, "\n"), start, height)
}

func clipLines(s string, start, height int) string {
	lines := strings.Split(s, "\n")
	if start > len(lines)-1 {
		start = max(len(lines)-1, 0)
	}
	lines = lines[start:]
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
