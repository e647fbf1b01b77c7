package tui

import (
	"errors"

	"rera-portal/internal/portal"
	"rera-portal/internal/record"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case submissionsChangedMsg:
		if m.view != viewPage {
			m.reloadSubmissions()
		}
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		if m.pane == paneSidebar {
			return m.updateSidebar(msg)
		}
		switch m.view {
		case viewSubmissions, viewSubmission:
			return m.updateSubmissions(msg)
		default:
			return m.updatePage(msg)
		}
	}
	return m, nil
}

func (m appModel) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Open):
		it, ok := m.sidebar.SelectedItem().(pageItem)
		if !ok {
			return m, nil
		}
		if it.id == submissionsEntry {
			return m.openSubmissions()
		}
		return m.enterPage(it.id)
	case key.Matches(msg, m.keys.NextField):
		m.pane = paneMain
		return m, m.focusInput()
	case key.Matches(msg, m.keys.Project):
		m.cycleProject()
		return m, nil
	}
	var cmd tea.Cmd
	m.sidebar, cmd = m.sidebar.Update(msg)
	return m, cmd
}

// enterPage navigates through the session guard. A blocked page opens the
// guard notice and leaves the current page as it was.
func (m appModel) enterPage(id string) (tea.Model, tea.Cmd) {
	if err := m.session.Enter(id); err != nil {
		var ge *portal.GuardError
		if errors.As(err, &ge) {
			m.modal = modalGuard
			m.modalTitle = "Past Experience Not Marked"
			m.modalBody = ge.Error()
			m.modalFocus = confirmFocusConfirm
			if p, ok := m.session.Catalog().ProfilePage(); ok {
				m.pendingGoto = p.ID
			}
			return m, nil
		}
		m.setError(err)
		return m, nil
	}
	m.view = viewPage
	m.openSub = nil
	m.loadPage()
	m.refreshSidebar()
	m.pane = paneMain
	m.status = ""
	return m, m.focusInput()
}

func (m *appModel) loadPage() {
	m.blocks = nil
	m.active, m.focus = 0, 0
	page, err := m.session.Current()
	if err != nil {
		return
	}
	if d, ok := m.session.Form(page.ID); ok {
		m.blocks = append(m.blocks, newBlock(page.Form.Title, nil, d))
	}
	secs, err := m.session.PageSections(page.ID)
	if err != nil {
		m.setError(err)
		return
	}
	for _, s := range secs {
		m.blocks = append(m.blocks, newBlock(s.Schema().Title, s, s.Draft()))
	}
}

func (m *appModel) activeBlock() *block {
	if m.active < 0 || m.active >= len(m.blocks) {
		return nil
	}
	return m.blocks[m.active]
}

// focusInput focuses exactly one input: the current field of the active block.
func (m *appModel) focusInput() tea.Cmd {
	var cmd tea.Cmd
	for bi, b := range m.blocks {
		for i := range b.inputs {
			if m.pane == paneMain && bi == m.active && i == m.focus {
				cmd = b.inputs[i].input.Focus()
			} else {
				b.inputs[i].input.Blur()
			}
		}
	}
	return cmd
}

func (m appModel) updatePage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.activeBlock()
	switch {
	case key.Matches(msg, m.keys.Back):
		m.pane = paneSidebar
		return m, m.focusInput()

	case key.Matches(msg, m.keys.Save):
		return m.savePage()

	case b == nil:
		return m, nil

	case key.Matches(msg, m.keys.NextField), key.Matches(msg, m.keys.PrevField):
		if n := len(b.inputs); n > 0 {
			step := 1
			if key.Matches(msg, m.keys.PrevField) {
				step = n - 1
			}
			m.focus = (m.focus + step) % n
		}
		return m, m.focusInput()

	case key.Matches(msg, m.keys.NextSection), key.Matches(msg, m.keys.PrevSection):
		n := len(m.blocks)
		step := 1
		if key.Matches(msg, m.keys.PrevSection) {
			step = n - 1
		}
		m.active = (m.active + step) % n
		m.focus = 0
		return m, m.focusInput()

	case key.Matches(msg, m.keys.Append):
		return m.appendRow(b)

	case key.Matches(msg, m.keys.Cancel):
		if b.section != nil {
			b.section.Cancel()
		} else {
			b.draft.Reset()
		}
		b.sync()
		m.setStatus("Draft cleared")
		return m, nil

	case key.Matches(msg, m.keys.RowUp), key.Matches(msg, m.keys.RowDown):
		if b.section == nil || b.section.Len() == 0 {
			return m, nil
		}
		if key.Matches(msg, m.keys.RowUp) {
			b.row--
		} else {
			b.row++
		}
		b.clampRow()
		return m, nil

	case key.Matches(msg, m.keys.Remove):
		return m.removeRow(b)

	case key.Matches(msg, m.keys.Edit):
		m.setStatus("editing rows is not supported")
		return m, nil

	case key.Matches(msg, m.keys.ChoicePrev), key.Matches(msg, m.keys.ChoiceNext):
		delta := 1
		if key.Matches(msg, m.keys.ChoicePrev) {
			delta = -1
		}
		if m.focus < len(b.inputs) && b.cycleChoice(m.focus, delta) {
			return m, nil
		}
	}

	if m.focus >= len(b.inputs) {
		return m, nil
	}
	fi := &b.inputs[m.focus]
	var cmd tea.Cmd
	fi.input, cmd = fi.input.Update(msg)
	if err := b.set(fi.field.Name, fi.input.Value()); err != nil {
		m.setError(err)
	}
	return m, cmd
}

func (m appModel) appendRow(b *block) (tea.Model, tea.Cmd) {
	if b.section == nil {
		m.setStatus("ctrl+a adds a row to a section; ctrl+s saves the form")
		return m, nil
	}
	id, err := b.section.Commit()
	if err != nil {
		var ve *record.ValidationError
		if errors.As(err, &ve) {
			m.openNotice(b.title, ve.Error())
			return m, nil
		}
		m.setError(err)
		return m, nil
	}
	b.sync()
	b.row = b.section.Position(id)
	m.focus = 0
	m.setStatus("Added row %d to %s", b.row, b.title)
	m.logger.Info("row added", "section", b.section.Name(), "id", id)
	return m, m.focusInput()
}

func (m appModel) removeRow(b *block) (tea.Model, tea.Cmd) {
	if b.section == nil || b.row == 0 {
		return m, nil
	}
	r, ok := b.section.At(b.row)
	if !ok {
		return m, nil
	}
	b.section.Remove(r.ID)
	b.clampRow()
	m.setStatus("Removed row from %s", b.title)
	m.logger.Info("row removed", "section", b.section.Name(), "id", r.ID)
	return m, nil
}

func (m appModel) savePage() (tea.Model, tea.Cmd) {
	pageID := m.session.CurrentID()
	sub, err := m.session.Save(m.ctx, pageID)
	if err != nil {
		var ve *record.ValidationError
		if errors.As(err, &ve) {
			m.openNotice("Cannot save", ve.Error())
			return m, nil
		}
		m.openNotice("Cannot save", err.Error())
		return m, nil
	}
	if sub.ID != "" {
		m.setStatus("Saved %s (%s)", sub.PageTitle, sub.ID)
	} else {
		m.setStatus("Saved %s", sub.PageTitle)
	}
	// Saving the profile can lift or impose page guards.
	m.refreshSidebar()
	return m, nil
}

func (m *appModel) cycleProject() {
	names := m.session.ProjectNames()
	cur := m.session.Project()
	next := names[0]
	for i, n := range names {
		if n == cur {
			next = names[(i+1)%len(names)]
			break
		}
	}
	if err := m.session.SetProject(next); err != nil {
		m.setError(err)
		return
	}
	m.setStatus("Project: %s", next)
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalNotice:
		switch msg.String() {
		case "enter", "esc", "ctrl+g", "q":
			m.closeModal()
		}
		return m, nil

	case modalGuard, modalConfirmDelete:
		switch msg.String() {
		case "tab", "shift+tab", "left", "right":
			if m.modalFocus == confirmFocusConfirm {
				m.modalFocus = confirmFocusCancel
			} else {
				m.modalFocus = confirmFocusConfirm
			}
			return m, nil
		case "esc", "ctrl+g":
			m.closeModal()
			return m, nil
		case "enter":
			confirmed := m.modalFocus == confirmFocusConfirm
			kind, gotoID, delID := m.modal, m.pendingGoto, m.pendingDel
			m.closeModal()
			if !confirmed {
				return m, nil
			}
			if kind == modalGuard && gotoID != "" {
				return m.enterPage(gotoID)
			}
			if kind == modalConfirmDelete && delID != "" {
				return m.deleteSubmission(delID)
			}
		}
	}
	return m, nil
}
