// Package tui is the DocDesk workspace: a document sidebar, a viewer for
// the selected document, and a chat panel that answers questions grounded
// in the indexed documents. One bubbletea event loop owns all state;
// network work runs as jobs that post their results back as messages.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hquan/docdesk/internal/api"
	"github.com/hquan/docdesk/internal/chat"
	"github.com/hquan/docdesk/internal/config"
	"github.com/hquan/docdesk/internal/docfile"
	"github.com/hquan/docdesk/internal/lifecycle"
	"github.com/hquan/docdesk/internal/logger"
	"github.com/hquan/docdesk/internal/navigate"
	"github.com/hquan/docdesk/internal/session"
)

// Config wires runtime collaborators into the TUI program.
type Config struct {
	Client  *api.Client
	Cache   *docfile.Cache
	Bus     *navigate.Bus
	Session session.Context
	Drops   <-chan string

	Settings config.Config
}

// New returns a tea.Model ready to be mounted into a Program.
func New(cfg Config) tea.Model {
	composer := textinput.New()
	composer.Placeholder = composerQuestionPlaceholder
	composer.CharLimit = 400
	composer.Width = 70
	composer.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	viewerVP := viewport.New(80, 18)
	viewerVP.MouseWheelEnabled = true
	chatVP := viewport.New(80, 10)
	chatVP.MouseWheelEnabled = true

	if cfg.Bus == nil {
		mode := navigate.ModeLenient
		if cfg.Settings.StrictCitations {
			mode = navigate.ModeStrict
		}
		cfg.Bus = navigate.NewBus(mode)
	}

	poller := lifecycle.NewPoller()
	poller.SetInterval(cfg.Settings.PollInterval())

	thread := chat.NewThread(cfg.Session.DocumentID)
	if cfg.Session.ThreadID != "" {
		if stored, err := chat.LoadThread(cfg.Settings.HistoryFile(), cfg.Session.ThreadID); err == nil && stored != nil {
			thread = stored
		}
	}

	return &model{
		config:       cfg,
		jobs:         newJobBus(),
		layout:       newPageLayout(),
		focus:        panelChat,
		composer:     composer,
		composerMode: composerModeQuestion,
		spinner:      spin,
		viewerVP:     viewerVP,
		chatVP:       chatVP,
		sess:         cfg.Session,
		poller:       poller,
		thread:       thread,
		citationIdx:  -1,
		viewerDirty:  true,
		chatDirty:    true,
		runningJobs:  map[string]jobSnapshot{},
	}
}

type model struct {
	config Config
	jobs   *jobBus
	layout pageLayout
	focus  panel

	composer     textinput.Model
	composerMode composerMode
	spinner      spinner.Model
	viewerVP     viewport.Model
	chatVP       viewport.Model

	docs          []api.Document
	docCursor     int
	listErr       string
	pendingSelect string

	sess    session.Context
	poller  *lifecycle.Poller
	current *api.Document
	pollErr string

	filePath  string
	fileDocID string
	pageCount int
	pageText  string
	pageFor   int
	fileErr   string

	// viewPage is a transient override set by citation jumps. Zero means
	// the viewer shows the session page. Manual paging clears it and is
	// the only path that persists.
	viewPage int

	thread      *chat.Thread
	busy        bool
	citations   []api.SearchHit
	citationIdx int

	jumpCh    <-chan navigate.Signal
	detach    func()
	jumpSeq   int
	pending   *pendingJump
	highlight [][]float64

	toasts   []toast
	toastSeq int

	viewerDirty bool
	chatDirty   bool
	quitting    bool

	runningJobs map[string]jobSnapshot
}

type documentsMsg struct {
	docs []api.Document
	err  error
}

type documentDetailMsg struct {
	ticket lifecycle.Ticket
	doc    *api.Document
	err    error
}

type pollTickMsg struct {
	ticket lifecycle.Ticket
}

type searchResultMsg struct {
	threadID   string
	documentID string
	res        *api.SearchResponse
	err        error
}

type uploadResultMsg struct {
	path     string
	filename string
	err      error
}

type fileReadyMsg struct {
	docID string
	path  string
	pages int
	err   error
}

type pageTextMsg struct {
	docID string
	page  int
	text  string
	err   error
}

type jumpSignalMsg struct {
	sig navigate.Signal
}

type jumpSettledMsg struct {
	seq int
}

type toastExpiredMsg struct {
	id int
}

type inboxDropMsg struct {
	path string
}

func (m *model) Init() tea.Cmd {
	ch, detach := m.config.Bus.Subscribe()
	m.jumpCh = ch
	m.detach = detach

	cmds := []tea.Cmd{
		textinput.Blink,
		m.spinner.Tick,
		m.jobs.Start(jobKindList, listDocumentsJob(m.config.Client)),
		listenForJumps(m.jumpCh),
	}
	if m.config.Drops != nil {
		cmds = append(cmds, listenForDrops(m.config.Drops))
	}
	if m.sess.Selected() {
		cmds = append(cmds, m.beginPolling(m.sess.DocumentID))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.viewerVP.Width = m.layout.mainWidth
		m.viewerVP.Height = m.layout.viewerHeight
		m.chatVP.Width = m.layout.mainWidth
		m.chatVP.Height = m.layout.chatHeight
		m.composer.Width = m.layout.mainWidth - 4
		m.markViewerDirty()
		m.markChatDirty()
		return m, nil

	case spinner.TickMsg:
		if m.anythingLoading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		switch m.focus {
		case panelViewer:
			m.viewerVP, cmd = m.viewerVP.Update(msg)
		case panelChat:
			m.chatVP, cmd = m.chatVP.Update(msg)
		}
		return m, cmd

	case jobSignalMsg:
		m.runningJobs[msg.Snapshot.ID] = msg.Snapshot
		return m, nil

	case jobResultEnvelope:
		delete(m.runningJobs, msg.Snapshot.ID)
		if msg.Payload != nil {
			return m.Update(msg.Payload)
		}
		return m, nil

	case documentsMsg:
		return m, m.handleDocuments(msg)
	case documentDetailMsg:
		return m, m.handleDocumentDetail(msg)
	case pollTickMsg:
		if !m.poller.Current(msg.ticket) {
			return m, nil
		}
		return m, m.jobs.Start(jobKindDetail, documentDetailJob(m.config.Client, msg.ticket))
	case searchResultMsg:
		return m, m.handleSearchResult(msg)
	case uploadResultMsg:
		return m, m.handleUploadResult(msg)
	case fileReadyMsg:
		return m, m.handleFileReady(msg)
	case pageTextMsg:
		m.handlePageText(msg)
		return m, nil
	case jumpSignalMsg:
		return m, m.handleJumpSignal(msg)
	case jumpSettledMsg:
		return m, m.handleJumpSettled(msg)
	case toastExpiredMsg:
		m.dropToast(msg.id)
		return m, nil
	case inboxDropMsg:
		cmds := []tea.Cmd{listenForDrops(m.config.Drops)}
		m.pushToastLater(&cmds, fmt.Sprintf("Uploading %s from inbox…", shortPath(msg.path)))
		cmds = append(cmds, m.jobs.Start(jobKindUpload, uploadJob(m.config.Client, msg.path)))
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m *model) handleDocuments(msg documentsMsg) tea.Cmd {
	if msg.err != nil {
		m.listErr = msg.err.Error()
		return nil
	}
	m.listErr = ""
	m.docs = msg.docs
	if m.docCursor >= len(m.docs) {
		m.docCursor = len(m.docs) - 1
	}
	if m.docCursor < 0 {
		m.docCursor = 0
	}
	if m.sess.Selected() && m.indexOf(m.sess.DocumentID) == -1 {
		// The selected document disappeared from the workspace.
		m.clearSelection()
	}
	m.markViewerDirty()
	if m.pendingSelect != "" {
		for i := range m.docs {
			if m.docs[i].Filename == m.pendingSelect {
				m.pendingSelect = ""
				m.docCursor = i
				return m.selectDocument(m.docs[i].ID)
			}
		}
	}
	return nil
}

func (m *model) handleDocumentDetail(msg documentDetailMsg) tea.Cmd {
	if msg.err != nil {
		if m.poller.Fail(msg.ticket) {
			// The last good status stays on screen underneath the error.
			m.pollErr = fmt.Sprintf("Status check failed: %v (press R to retry)", msg.err)
			m.markViewerDirty()
		}
		return nil
	}
	outcome := m.poller.Apply(msg.ticket, msg.doc.Status)
	if !outcome.Applied {
		logger.Debug("discarding stale detail for %s", msg.ticket.DocID)
		return nil
	}
	m.pollErr = ""
	m.current = msg.doc
	if idx := m.indexOf(msg.doc.ID); idx >= 0 {
		m.docs[idx].Status = msg.doc.Status
		m.docs[idx].ErrorMessage = msg.doc.ErrorMessage
	}
	m.markViewerDirty()

	var cmds []tea.Cmd
	if outcome.Terminal && msg.doc.Status != lifecycle.StatusFailed && msg.doc.FileURL != "" && m.fileDocID != msg.doc.ID {
		cmds = append(cmds, m.jobs.Start(jobKindFile, fetchFileJob(m.config.Cache, msg.doc.ID, msg.doc.FileURL)))
	}
	if outcome.Next > 0 {
		cmds = append(cmds, pollAfter(msg.ticket, outcome.Next))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *model) handleSearchResult(msg searchResultMsg) tea.Cmd {
	m.busy = false
	if msg.threadID != m.thread.ID {
		logger.Debug("discarding search result for retired thread %s", msg.threadID)
		return nil
	}
	if msg.err != nil {
		m.thread.AddError(fmt.Sprintf("Search failed: %v", msg.err))
		m.markChatDirty()
		return nil
	}
	m.thread.AddAnswer(msg.res.Answer, msg.res.Hits)
	m.citations = msg.res.Hits
	m.citationIdx = -1
	m.markChatDirty()

	m.persistThread()
	return nil
}

func (m *model) handleUploadResult(msg uploadResultMsg) tea.Cmd {
	if msg.err != nil {
		switch {
		case errors.Is(msg.err, api.ErrNotPDF), errors.Is(msg.err, api.ErrFileTooLarge):
			return m.pushToast(msg.err.Error())
		default:
			return m.pushToast(fmt.Sprintf("Upload failed: %v", msg.err))
		}
	}
	// The backend only returns the stored filename; the document ID shows
	// up in the next list refresh, so remember the name until then.
	m.pendingSelect = msg.filename
	cmds := []tea.Cmd{
		m.jobs.Start(jobKindList, listDocumentsJob(m.config.Client)),
	}
	m.pushToastLater(&cmds, fmt.Sprintf("Uploaded %s", shortPath(msg.path)))
	return tea.Batch(cmds...)
}

func (m *model) handleFileReady(msg fileReadyMsg) tea.Cmd {
	if msg.docID != m.sess.DocumentID {
		return nil
	}
	if msg.err != nil {
		m.fileErr = msg.err.Error()
		m.markViewerDirty()
		return nil
	}
	m.fileErr = ""
	m.filePath = msg.path
	m.fileDocID = msg.docID
	m.pageCount = msg.pages
	if m.sess.Page > m.pageCount && m.pageCount > 0 {
		m.sess.Page = m.pageCount
	}
	if m.viewPage > m.pageCount && m.pageCount > 0 {
		m.viewPage = m.pageCount
	}
	m.markViewerDirty()
	return m.loadPage(m.currentPage())
}

func (m *model) handlePageText(msg pageTextMsg) {
	if msg.docID != m.sess.DocumentID || msg.page != m.currentPage() {
		return
	}
	if msg.err != nil {
		m.pageText = ""
		m.fileErr = msg.err.Error()
	} else {
		m.pageText = msg.text
		m.pageFor = msg.page
		m.fileErr = ""
	}
	m.markViewerDirty()
}

// handleJumpSignal stages a citation jump and (re)starts the settle
// window. A newer signal inside the window replaces the pending one, so
// rapid citation hopping lands exactly once, on the last target.
func (m *model) handleJumpSignal(msg jumpSignalMsg) tea.Cmd {
	m.jumpSeq++
	m.pending = &pendingJump{seq: m.jumpSeq, page: msg.sig.Page, bbox: msg.sig.BBox}
	return tea.Batch(
		listenForJumps(m.jumpCh),
		settleJump(m.jumpSeq, m.config.Settings.JumpDelay()),
	)
}

func (m *model) handleJumpSettled(msg jumpSettledMsg) tea.Cmd {
	if m.pending == nil || msg.seq != m.pending.seq {
		return nil
	}
	jump := m.pending
	m.pending = nil
	page := jump.page
	if m.pageCount > 0 && page > m.pageCount {
		page = m.pageCount
	}
	// A jump is a peek: the viewer moves but the session page stays,
	// so restarting the app resumes where the reader left off.
	m.viewPage = page
	m.highlight = jump.bbox
	m.markViewerDirty()
	return m.loadPage(page)
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.quit()
	case tea.KeyTab:
		m.cycleFocus()
		return m, nil
	case tea.KeyEsc:
		if m.composerMode == composerModeUpload {
			m.setComposerMode(composerModeQuestion)
			return m, nil
		}
		if strings.TrimSpace(m.composer.Value()) != "" {
			m.composer.SetValue("")
			return m, nil
		}
		return m.quit()
	}

	if m.focus == panelChat {
		if cmd, handled := m.processComposerKey(msg); handled {
			return m, cmd
		}
	}

	switch m.focus {
	case panelSidebar:
		return m, m.handleSidebarKey(msg)
	case panelViewer:
		return m, m.handleViewerKey(msg)
	case panelChat:
		var cmd tea.Cmd
		m.composer, cmd = m.composer.Update(msg)
		return m, cmd
	}
	return m, nil
}

// processComposerKey handles submission and mode switches while the chat
// panel owns the keyboard. Returns handled=false for keys that should fall
// through to the text input.
func (m *model) processComposerKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyEnter:
		value := strings.TrimSpace(m.composer.Value())
		switch m.composerMode {
		case composerModeUpload:
			if value == "" {
				return nil, true
			}
			m.composer.SetValue("")
			m.setComposerMode(composerModeQuestion)
			return m.jobs.Start(jobKindUpload, uploadJob(m.config.Client, value)), true
		default:
			return m.submitQuestion(value), true
		}
	case tea.KeyCtrlU:
		m.setComposerMode(composerModeUpload)
		return nil, true
	case tea.KeyCtrlN:
		m.startNewThread()
		return nil, true
	}
	return nil, false
}

// submitQuestion validates locally and dispatches the search. A blank
// question or an in-flight search never reaches the backend.
func (m *model) submitQuestion(value string) tea.Cmd {
	if m.busy {
		return nil
	}
	if !m.thread.AddUser(value) {
		return m.pushToast("Type a question first.")
	}
	m.composer.SetValue("")
	m.busy = true
	m.markChatDirty()
	req := api.SearchRequest{
		Query:      value,
		TopK:       m.config.Settings.TopK,
		DocumentID: m.sess.DocumentID,
	}
	return m.jobs.Start(jobKindSearch, searchJob(m.config.Client, m.thread.ID, req))
}

func (m *model) handleSidebarKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.docCursor > 0 {
			m.docCursor--
		}
	case "down", "j":
		if m.docCursor < len(m.docs)-1 {
			m.docCursor++
		}
	case "enter", " ":
		if m.docCursor < len(m.docs) {
			return m.toggleDocument(m.docs[m.docCursor].ID)
		}
	case "r":
		return m.jobs.Start(jobKindList, listDocumentsJob(m.config.Client))
	}
	return nil
}

func (m *model) handleViewerKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "left", "h":
		return m.gotoPage(m.currentPage() - 1)
	case "right", "l":
		return m.gotoPage(m.currentPage() + 1)
	case "g":
		return m.gotoPage(1)
	case "G":
		if m.pageCount > 0 {
			return m.gotoPage(m.pageCount)
		}
	case "n":
		return m.cycleCitation(1)
	case "p":
		return m.cycleCitation(-1)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		if idx < len(m.citations) {
			return m.focusCitation(idx)
		}
	case "R":
		if ticket, ok := m.poller.Retry(); ok {
			m.pollErr = ""
			m.markViewerDirty()
			return m.jobs.Start(jobKindDetail, documentDetailJob(m.config.Client, ticket))
		}
	default:
		var cmd tea.Cmd
		m.viewerVP, cmd = m.viewerVP.Update(msg)
		return cmd
	}
	return nil
}

// toggleDocument implements the sidebar click contract: selecting the
// already-selected document deselects it, anything else selects fresh at
// page one.
func (m *model) toggleDocument(docID string) tea.Cmd {
	if m.sess.DocumentID == docID {
		m.clearSelection()
		m.persistSession()
		return nil
	}
	return m.selectDocument(docID)
}

func (m *model) selectDocument(docID string) tea.Cmd {
	m.sess.Select(docID)
	m.resetViewerState()
	m.persistSession()
	return m.beginPolling(docID)
}

func (m *model) beginPolling(docID string) tea.Cmd {
	ticket := m.poller.Begin(docID)
	return m.jobs.Start(jobKindDetail, documentDetailJob(m.config.Client, ticket))
}

func (m *model) clearSelection() {
	m.sess.Deselect()
	m.poller.Stop()
	m.resetViewerState()
}

func (m *model) resetViewerState() {
	m.current = nil
	m.pollErr = ""
	m.filePath = ""
	m.fileDocID = ""
	m.pageCount = 0
	m.pageText = ""
	m.pageFor = 0
	m.fileErr = ""
	m.highlight = nil
	m.pending = nil
	m.viewPage = 0
	m.viewerVP.SetYOffset(0)
	m.markViewerDirty()
}

func (m *model) gotoPage(page int) tea.Cmd {
	if !m.sess.Selected() {
		return nil
	}
	if page < 1 {
		page = 1
	}
	if m.pageCount > 0 && page > m.pageCount {
		page = m.pageCount
	}
	if page == m.currentPage() && m.viewPage == 0 {
		return nil
	}
	m.sess.Page = page
	m.viewPage = 0
	m.highlight = nil
	m.markViewerDirty()
	m.persistSession()
	return m.loadPage(page)
}

// currentPage is the page the viewer shows: the transient jump target
// when one is active, the persisted session page otherwise.
func (m *model) currentPage() int {
	if m.viewPage > 0 {
		return m.viewPage
	}
	return m.sess.Page
}

func (m *model) loadPage(page int) tea.Cmd {
	if m.filePath == "" || m.fileDocID != m.sess.DocumentID {
		return nil
	}
	return m.jobs.Start(jobKindPageText, pageTextJob(m.fileDocID, m.filePath, page))
}

// cycleCitation moves the citation cursor and publishes the new target to
// the navigation bus. Citations for other documents move the cursor but
// publish nothing; the viewer stays where it is.
func (m *model) cycleCitation(step int) tea.Cmd {
	if len(m.citations) == 0 {
		return nil
	}
	idx := m.citationIdx + step
	if idx < 0 {
		idx = len(m.citations) - 1
	}
	if idx >= len(m.citations) {
		idx = 0
	}
	return m.focusCitation(idx)
}

func (m *model) focusCitation(idx int) tea.Cmd {
	m.citationIdx = idx
	m.markChatDirty()
	hit := m.citations[idx]
	if hit.DocumentID == "" || hit.DocumentID != m.sess.DocumentID {
		return nil
	}
	sig := navigate.Signal{Page: hit.Page(), BBox: hit.BBox()}
	if err := m.config.Bus.Publish(sig); err != nil {
		if errors.Is(err, navigate.ErrInvalidSignal) {
			return m.pushToast("This citation has no usable location.")
		}
		logger.Debug("citation publish: %v", err)
	}
	return nil
}

func (m *model) startNewThread() {
	m.persistThread()
	m.thread = chat.NewThread(m.sess.DocumentID)
	m.sess.ThreadID = m.thread.ID
	m.citations = nil
	m.citationIdx = -1
	m.markChatDirty()
	m.persistSession()
}

func (m *model) setComposerMode(mode composerMode) {
	m.composerMode = mode
	switch mode {
	case composerModeUpload:
		m.composer.Placeholder = composerUploadPlaceholder
	default:
		m.composer.Placeholder = composerQuestionPlaceholder
	}
	m.composer.SetValue("")
}

func (m *model) cycleFocus() {
	for i, p := range panelSequence {
		if p == m.focus {
			m.focus = panelSequence[(i+1)%len(panelSequence)]
			break
		}
	}
	if m.focus == panelChat {
		m.composer.Focus()
	} else {
		m.composer.Blur()
	}
}

func (m *model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.persistThread()
	m.persistSession()
	if m.detach != nil {
		m.detach()
	}
	return m, tea.Quit
}

func (m *model) persistSession() {
	if m.config.Settings.SessionFile == "" {
		return
	}
	m.sess.ThreadID = m.thread.ID
	if err := session.Save(m.config.Settings.SessionFile, m.sess); err != nil {
		logger.Warn("persist session: %v", err)
	}
}

func (m *model) persistThread() {
	if m.config.Settings.SessionFile == "" || m.thread == nil || len(m.thread.Messages) == 0 {
		return
	}
	if err := chat.SaveThread(m.config.Settings.HistoryFile(), m.thread); err != nil {
		logger.Warn("persist thread: %v", err)
	}
}

func (m *model) pushToast(text string) tea.Cmd {
	m.toastSeq++
	m.toasts = append(m.toasts, toast{id: m.toastSeq, text: text})
	return expireToast(m.toastSeq)
}

// pushToastLater is pushToast for call sites already collecting commands.
func (m *model) pushToastLater(cmds *[]tea.Cmd, text string) {
	*cmds = append(*cmds, m.pushToast(text))
}

func (m *model) dropToast(id int) {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if t.id != id {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

func (m *model) indexOf(docID string) int {
	for i, d := range m.docs {
		if d.ID == docID {
			return i
		}
	}
	return -1
}

func (m *model) selectedDocument() *api.Document {
	if !m.sess.Selected() {
		return nil
	}
	if m.current != nil && m.current.ID == m.sess.DocumentID {
		return m.current
	}
	if idx := m.indexOf(m.sess.DocumentID); idx >= 0 {
		return &m.docs[idx]
	}
	return nil
}

func (m *model) anythingLoading() bool {
	return m.busy || len(m.runningJobs) > 0
}

func (m *model) markViewerDirty() { m.viewerDirty = true }
func (m *model) markChatDirty()   { m.chatDirty = true }

func shortPath(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	accentColor        = lipgloss.Color("#8ecae6")
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(accentColor)
	cursorStyle        = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	statusReadyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c"))
	statusWorkingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd166")).Italic(true)
	statusFailedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	citationStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	citationFocusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166"))
	toastStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#a3be8c")).Padding(0, 1)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(accentColor).Padding(0, 1)
	panelBorderStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	panelFocusStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accentColor).Padding(0, 1)
	taglineStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffb347")).Italic(true)
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
)
