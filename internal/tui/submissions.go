package tui

import (
	"strings"
	"time"

	"rera-portal/internal/portal"
	"rera-portal/internal/publish"
	"rera-portal/internal/store"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type submissionItem struct {
	sub portal.Submission
}

func (i submissionItem) Title() string {
	return i.sub.PageTitle + " " + glyphSep() + " " + i.sub.Project
}

func (i submissionItem) Description() string {
	return i.sub.SubmittedAt.Local().Format(time.DateTime) + "  " + i.sub.ID
}

func (i submissionItem) FilterValue() string { return i.sub.PageTitle + " " + i.sub.ID }

func newSubmissionsList() list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Saved Submissions"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

func (m appModel) openSubmissions() (tea.Model, tea.Cmd) {
	m.view = viewSubmissions
	m.openSub = nil
	m.pane = paneMain
	m.reloadSubmissions()
	m.refreshSidebar()
	return m, m.focusInput()
}

func (m *appModel) reloadSubmissions() {
	if m.store == nil {
		m.subs.SetItems(nil)
		return
	}
	subs, err := m.store.ListSubmissions(m.ctx, store.Filter{})
	if err != nil {
		m.setError(err)
		return
	}
	items := make([]list.Item, 0, len(subs))
	for _, s := range subs {
		items = append(items, submissionItem{sub: s})
	}
	idx := m.subs.Index()
	m.subs.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.subs.Select(idx)
	}
	if m.openSub != nil {
		// The open submission may have been deleted elsewhere.
		if _, err := m.store.GetSubmission(m.ctx, m.openSub.ID); err != nil {
			m.openSub = nil
			m.view = viewSubmissions
		}
	}
}

func (m appModel) updateSubmissions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.view == viewSubmission {
		switch {
		case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Back):
			m.view = viewSubmissions
			m.openSub = nil
			m.subScroll = 0
		case key.Matches(msg, m.keys.RowUp):
			if m.subScroll > 0 {
				m.subScroll--
			}
		case key.Matches(msg, m.keys.RowDown):
			m.subScroll++
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Cancel):
		m.pane = paneSidebar
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reload):
		m.reloadSubmissions()
		return m, nil
	case key.Matches(msg, m.keys.Open):
		it, ok := m.subs.SelectedItem().(submissionItem)
		if !ok || m.store == nil {
			return m, nil
		}
		sub, err := m.store.GetSubmission(m.ctx, it.sub.ID)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.openSub = &sub
		m.subScroll = 0
		m.view = viewSubmission
		return m, nil
	case key.Matches(msg, m.keys.Remove):
		it, ok := m.subs.SelectedItem().(submissionItem)
		if !ok {
			return m, nil
		}
		m.modal = modalConfirmDelete
		m.modalTitle = "Delete submission"
		m.modalBody = "Delete " + it.sub.PageTitle + " (" + it.sub.ID + ")?"
		m.modalFocus = confirmFocusCancel
		m.pendingDel = it.sub.ID
		return m, nil
	}
	var cmd tea.Cmd
	m.subs, cmd = m.subs.Update(msg)
	return m, cmd
}

func (m appModel) deleteSubmission(id string) (tea.Model, tea.Cmd) {
	if m.store == nil {
		return m, nil
	}
	if err := m.store.DeleteSubmission(m.ctx, id); err != nil {
		m.setError(err)
		return m, nil
	}
	m.setStatus("Deleted %s", id)
	m.reloadSubmissions()
	return m, nil
}

func (m appModel) submissionMarkdown() string {
	if m.openSub == nil {
		return ""
	}
	md, err := publish.RenderSubmissionMarkdown(*m.openSub, publish.RenderOptions{Catalog: m.session.Catalog()})
	if err != nil {
		return strings.TrimSpace(err.Error())
	}
	return md
}
