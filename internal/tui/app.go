package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"rera-portal/internal/portal"
	"rera-portal/internal/store"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type pane int

const (
	paneSidebar pane = iota
	paneMain
)

type view int

const (
	viewPage view = iota
	viewSubmissions
	viewSubmission
)

const sidebarWidth = 30

type appModel struct {
	ctx     context.Context
	session *portal.Session
	store   *store.Store
	logger  *slog.Logger
	keys    keyMap

	width  int
	height int

	pane pane
	view view

	sidebar list.Model

	// Page view state. blocks are rebuilt whenever the page changes; the
	// values they edit live in the session.
	blocks []*block
	active int
	focus  int

	subs      list.Model
	openSub   *portal.Submission
	subScroll int
	changes   <-chan struct{}

	modal       modalKind
	modalTitle  string
	modalBody   string
	modalFocus  confirmModalFocus
	pendingGoto string
	pendingDel  string

	status    string
	statusErr bool
}

func newAppModel(ctx context.Context, opt Options) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := appModel{
		ctx:     ctx,
		session: opt.Session,
		store:   opt.Store,
		logger:  logger,
		keys:    defaultKeyMap(),
		width:   100,
		height:  32,
		pane:    paneSidebar,
		view:    viewPage,
		sidebar: newSidebar(),
		subs:    newSubmissionsList(),
	}
	m.refreshSidebar()
	m.loadPage()
	m.resize()
	return m
}

func (m appModel) Init() tea.Cmd { return waitForChange(m.changes) }

func (m *appModel) refreshSidebar() {
	cur := m.session.CurrentID()
	if m.view != viewPage {
		cur = submissionsEntry
	}
	idx := m.sidebar.Index()
	m.sidebar.SetItems(sidebarItems(m.session.Catalog(), cur, m.session.CanEnter))
	if idx < 0 || idx >= len(m.sidebar.Items()) {
		idx = 0
	}
	m.sidebar.Select(idx)
}

func (m *appModel) resize() {
	h := m.height - 4
	if h < 5 {
		h = 5
	}
	m.sidebar.SetSize(sidebarWidth, h)
	m.subs.SetSize(m.mainWidth(), h)
}

func (m appModel) mainWidth() int {
	w := m.width - sidebarWidth - 3
	if w < 30 {
		w = 30
	}
	return w
}

func (m *appModel) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *appModel) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
	m.logger.Warn("tui error", "err", err)
}

func (m *appModel) openNotice(title, body string) {
	m.modal = modalNotice
	m.modalTitle = title
	m.modalBody = body
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.modalTitle, m.modalBody = "", ""
	m.pendingGoto, m.pendingDel = "", ""
	m.modalFocus = confirmFocusConfirm
}
