package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hquan/docdesk/internal/api"
	"github.com/hquan/docdesk/internal/config"
	"github.com/hquan/docdesk/internal/lifecycle"
	"github.com/hquan/docdesk/internal/navigate"
)

func newTestModel(t *testing.T) *model {
	t.Helper()
	settings := config.Default(t.TempDir())
	settings.SessionFile = ""
	cfg := Config{
		Client:   api.NewClient("http://backend.invalid"),
		Bus:      navigate.NewBus(navigate.ModeLenient),
		Settings: settings,
	}
	teaModel, ok := New(cfg).(*model)
	if !ok {
		t.Fatalf("expected *model, got %T", teaModel)
	}
	return teaModel
}

func seedDocs(m *model) {
	m.docs = []api.Document{
		{ID: "doc-a", Filename: "alpha.pdf", Status: lifecycle.StatusEmbeddingDone},
		{ID: "doc-b", Filename: "beta.pdf", Status: lifecycle.StatusOCRProcessing},
	}
}

func TestToggleSelectionDeselects(t *testing.T) {
	m := newTestModel(t)
	seedDocs(m)

	if cmd := m.toggleDocument("doc-a"); cmd == nil {
		t.Fatal("selecting should start a detail fetch")
	}
	if m.sess.DocumentID != "doc-a" || m.sess.Page != 1 {
		t.Fatalf("selection not applied: %+v", m.sess)
	}
	if m.poller.State() != lifecycle.StatePolling {
		t.Fatalf("poller state = %v, want polling", m.poller.State())
	}

	if cmd := m.toggleDocument("doc-a"); cmd != nil {
		t.Fatal("deselecting should not start any fetch")
	}
	if m.sess.Selected() {
		t.Fatal("second toggle should clear the selection")
	}
	if m.poller.State() != lifecycle.StateIdle {
		t.Fatalf("poller should stop on deselect, state = %v", m.poller.State())
	}
}

func TestSelectSwitchResetsPage(t *testing.T) {
	m := newTestModel(t)
	seedDocs(m)
	m.toggleDocument("doc-a")
	m.sess.Page = 9

	m.toggleDocument("doc-b")
	if m.sess.DocumentID != "doc-b" || m.sess.Page != 1 {
		t.Fatalf("switching documents should land on page 1, got %+v", m.sess)
	}
}

func TestStaleDetailResultDiscarded(t *testing.T) {
	m := newTestModel(t)
	seedDocs(m)

	oldTicket := m.poller.Begin("doc-a")
	m.poller.Begin("doc-b")

	cmd := m.handleDocumentDetail(documentDetailMsg{
		ticket: oldTicket,
		doc:    &api.Document{ID: "doc-a", Status: lifecycle.StatusEmbeddingDone},
	})
	if cmd != nil {
		t.Fatal("stale result should schedule nothing")
	}
	if m.current != nil {
		t.Fatalf("stale result should not populate the viewer, got %+v", m.current)
	}
}

func TestDetailFailureKeepsLastGoodStatus(t *testing.T) {
	m := newTestModel(t)
	seedDocs(m)

	ticket := m.poller.Begin("doc-b")
	m.handleDocumentDetail(documentDetailMsg{
		ticket: ticket,
		doc:    &api.Document{ID: "doc-b", Status: lifecycle.StatusOCRProcessing},
	})
	if m.current == nil {
		t.Fatal("first result should populate the viewer")
	}

	m.handleDocumentDetail(documentDetailMsg{ticket: ticket, err: errors.New("connection refused")})
	if m.pollErr == "" {
		t.Fatal("failure should surface a sticky error")
	}
	if m.current == nil || m.current.Status != lifecycle.StatusOCRProcessing {
		t.Fatal("last good status should stay visible under the error")
	}

	retryTicket, ok := m.poller.Retry()
	if !ok || retryTicket.DocID != "doc-b" {
		t.Fatalf("retry should re-arm for the same document, got %+v ok=%v", retryTicket, ok)
	}
}

func TestDetailSchedulesNextPollWhileProcessing(t *testing.T) {
	m := newTestModel(t)
	seedDocs(m)

	ticket := m.poller.Begin("doc-b")
	cmd := m.handleDocumentDetail(documentDetailMsg{
		ticket: ticket,
		doc:    &api.Document{ID: "doc-b", Status: lifecycle.StatusChunkDone},
	})
	if cmd == nil {
		t.Fatal("non-terminal status should schedule the next poll")
	}

	cmd = m.handleDocumentDetail(documentDetailMsg{
		ticket: ticket,
		doc:    &api.Document{ID: "doc-b", Status: lifecycle.StatusEmbeddingDone},
	})
	if cmd != nil {
		t.Fatal("terminal status without file_url should schedule nothing")
	}
	if m.poller.State() != lifecycle.StateTerminal {
		t.Fatalf("poller state = %v, want terminal", m.poller.State())
	}
}

func TestSubmitQuestionWhileBusyIsNoop(t *testing.T) {
	m := newTestModel(t)
	m.busy = true

	if cmd := m.submitQuestion("another question"); cmd != nil {
		t.Fatal("a second question must wait for the running search")
	}
	if len(m.thread.Messages) != 0 {
		t.Fatal("busy submission should not touch the transcript")
	}
}

func TestSubmitBlankQuestionStaysLocal(t *testing.T) {
	m := newTestModel(t)

	m.submitQuestion("   ")
	if m.busy {
		t.Fatal("blank question must not start a search")
	}
	if len(m.thread.Messages) != 0 {
		t.Fatal("blank question should not enter the transcript")
	}
}

func TestSubmitQuestionMarksBusyAndAppends(t *testing.T) {
	m := newTestModel(t)
	seedDocs(m)
	m.toggleDocument("doc-a")

	cmd := m.submitQuestion("where is the conclusion?")
	if cmd == nil {
		t.Fatal("valid question should dispatch a search")
	}
	if !m.busy {
		t.Fatal("search should flip the busy flag")
	}
	if len(m.thread.Messages) != 1 || m.thread.Messages[0].Content != "where is the conclusion?" {
		t.Fatalf("transcript mismatch: %+v", m.thread.Messages)
	}
}

func TestSearchResultForRetiredThreadDiscarded(t *testing.T) {
	m := newTestModel(t)
	m.busy = true

	m.handleSearchResult(searchResultMsg{
		threadID: "some-old-thread",
		res:      &api.SearchResponse{Answer: "late answer"},
	})
	if m.busy {
		t.Fatal("busy flag should clear even for retired results")
	}
	if len(m.thread.Messages) != 0 {
		t.Fatal("retired thread result should not enter the current transcript")
	}
}

func TestSearchFailureSynthesizesErrorMessage(t *testing.T) {
	m := newTestModel(t)
	m.thread.AddUser("q")
	m.busy = true

	m.handleSearchResult(searchResultMsg{threadID: m.thread.ID, err: errors.New("backend exploded")})
	if m.busy {
		t.Fatal("failure should clear the busy flag")
	}
	last := m.thread.Last()
	if last == nil || last.Role != "error" || !strings.Contains(last.Content, "backend exploded") {
		t.Fatalf("expected synthesized error message, got %+v", last)
	}
}

func TestSearchResultDoesNotMoveViewer(t *testing.T) {
	m := newTestModel(t)
	seedDocs(m)
	m.toggleDocument("doc-a")
	ch, detach := m.config.Bus.Subscribe()
	defer detach()
	m.busy = true

	m.handleSearchResult(searchResultMsg{
		threadID: m.thread.ID,
		res: &api.SearchResponse{
			Answer: "On page 4.",
			Hits:   []api.SearchHit{{DocumentID: "doc-a", Metadata: api.HitMetadata{Page: 4}}},
		},
	})

	// The viewer only moves when the reader picks a citation.
	select {
	case sig := <-ch:
		t.Fatalf("answer arrival must not publish a jump, got %+v", sig)
	default:
	}
	if m.citationIdx != -1 {
		t.Fatalf("citation cursor = %d, want -1 until the reader picks one", m.citationIdx)
	}

	m.handleViewerKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	select {
	case sig := <-ch:
		if sig.Page != 4 {
			t.Fatalf("published page = %d, want 4", sig.Page)
		}
	default:
		t.Fatal("picking a citation should publish to the navigation bus")
	}
	if m.citationIdx != 0 {
		t.Fatalf("citation cursor = %d, want 0", m.citationIdx)
	}
}

func TestCitationForOtherDocumentDoesNotPublish(t *testing.T) {
	m := newTestModel(t)
	seedDocs(m)
	m.toggleDocument("doc-a")
	ch, detach := m.config.Bus.Subscribe()
	defer detach()

	m.citations = []api.SearchHit{{DocumentID: "doc-b", Metadata: api.HitMetadata{Page: 2}}}
	m.cycleCitation(1)

	if m.citationIdx != 0 {
		t.Fatalf("cursor should still move, got %d", m.citationIdx)
	}
	select {
	case sig := <-ch:
		t.Fatalf("citation for an unselected document must not move the viewer, got %+v", sig)
	default:
	}
}

func TestNumberKeyFocusesCitationDirectly(t *testing.T) {
	m := newTestModel(t)
	seedDocs(m)
	m.toggleDocument("doc-a")
	ch, detach := m.config.Bus.Subscribe()
	defer detach()

	m.citations = []api.SearchHit{
		{DocumentID: "doc-a", Metadata: api.HitMetadata{Page: 2}},
		{DocumentID: "doc-a", Metadata: api.HitMetadata{Page: 9}},
	}
	m.focus = panelViewer
	m.handleViewerKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})

	if m.citationIdx != 1 {
		t.Fatalf("expected cursor on second citation, got %d", m.citationIdx)
	}
	select {
	case sig := <-ch:
		if sig.Page != 9 {
			t.Fatalf("expected jump to page 9, got %d", sig.Page)
		}
	default:
		t.Fatalf("expected a navigation signal")
	}

	m.handleViewerKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'7'}})
	if m.citationIdx != 1 {
		t.Fatalf("out-of-range number key should be a no-op, cursor moved to %d", m.citationIdx)
	}
}

func TestJumpDebounceLastWins(t *testing.T) {
	m := newTestModel(t)
	seedDocs(m)
	m.toggleDocument("doc-a")

	m.handleJumpSignal(jumpSignalMsg{sig: navigate.Signal{Page: 2}})
	firstSeq := m.jumpSeq
	m.handleJumpSignal(jumpSignalMsg{sig: navigate.Signal{Page: 5}})

	m.handleJumpSettled(jumpSettledMsg{seq: firstSeq})
	if m.currentPage() == 2 {
		t.Fatal("superseded jump must not land")
	}

	m.handleJumpSettled(jumpSettledMsg{seq: m.jumpSeq})
	if m.currentPage() != 5 {
		t.Fatalf("page = %d, want 5 (last jump wins)", m.currentPage())
	}

	// The settled timer for the first jump may still fire afterwards.
	m.handleJumpSettled(jumpSettledMsg{seq: firstSeq})
	if m.currentPage() != 5 {
		t.Fatalf("late timer changed the page to %d", m.currentPage())
	}
}

func TestJumpShowsPageWithoutPersistingIt(t *testing.T) {
	m := newTestModel(t)
	seedDocs(m)
	m.toggleDocument("doc-a")
	m.filePath = "/cache/doc-a.pdf"
	m.fileDocID = "doc-a"
	m.pageCount = 20

	m.handleJumpSignal(jumpSignalMsg{sig: navigate.Signal{Page: 12}})
	cmd := m.handleJumpSettled(jumpSettledMsg{seq: m.jumpSeq})

	if m.currentPage() != 12 {
		t.Fatalf("viewer page = %d, want 12", m.currentPage())
	}
	if m.sess.Page != 1 {
		t.Fatalf("session page = %d, a jump must not overwrite it", m.sess.Page)
	}
	if cmd == nil {
		t.Fatal("settled jump should load the target page's text")
	}

	// Manual paging takes over from the jump target and persists.
	m.gotoPage(m.currentPage() + 1)
	if m.viewPage != 0 || m.sess.Page != 13 {
		t.Fatalf("paging from a jump: viewPage=%d sess.Page=%d, want 0 and 13", m.viewPage, m.sess.Page)
	}
}

func TestJumpClampsToPageCount(t *testing.T) {
	m := newTestModel(t)
	seedDocs(m)
	m.toggleDocument("doc-a")
	m.pageCount = 3

	m.handleJumpSignal(jumpSignalMsg{sig: navigate.Signal{Page: 9}})
	m.handleJumpSettled(jumpSettledMsg{seq: m.jumpSeq})
	if m.currentPage() != 3 {
		t.Fatalf("page = %d, want clamp to 3", m.currentPage())
	}
}

func TestUploadValidationErrorBecomesToast(t *testing.T) {
	m := newTestModel(t)

	m.handleUploadResult(uploadResultMsg{path: "/tmp/notes.txt", err: api.ErrNotPDF})
	if len(m.toasts) != 1 {
		t.Fatalf("expected one toast, got %d", len(m.toasts))
	}
	if !strings.Contains(m.toasts[0].text, "PDF") {
		t.Fatalf("toast should explain the rejection, got %q", m.toasts[0].text)
	}
}

func TestUploadSuccessSelectsNewDocument(t *testing.T) {
	m := newTestModel(t)
	seedDocs(m)

	// Upload only returns the stored filename, so selection waits for the
	// refreshed list to carry the new document's id.
	cmd := m.handleUploadResult(uploadResultMsg{
		path:     "/drop/report.pdf",
		filename: "report.pdf",
	})
	if cmd == nil {
		t.Fatal("successful upload should refresh the list")
	}
	if m.sess.Selected() {
		t.Fatalf("selection should wait for the refreshed list, got %+v", m.sess)
	}

	m.handleDocuments(documentsMsg{docs: []api.Document{
		{ID: "doc-a", Filename: "alpha.pdf", Status: lifecycle.StatusEmbeddingDone},
		{ID: "doc-new", Filename: "report.pdf", Status: lifecycle.StatusUploaded},
	}})
	if m.sess.DocumentID != "doc-new" || m.sess.Page != 1 {
		t.Fatalf("refreshed list should auto-select the new document, got %+v", m.sess)
	}
	if m.poller.State() != lifecycle.StatePolling {
		t.Fatalf("poller state = %v, want polling", m.poller.State())
	}
	if m.pendingSelect != "" {
		t.Fatalf("pending filename should clear once matched, got %q", m.pendingSelect)
	}
}

func TestConfiguredPollIntervalReachesScheduler(t *testing.T) {
	settings := config.Default(t.TempDir())
	settings.SessionFile = ""
	settings.PollIntervalMS = 700
	m, ok := New(Config{
		Client:   api.NewClient("http://backend.invalid"),
		Bus:      navigate.NewBus(navigate.ModeLenient),
		Settings: settings,
	}).(*model)
	if !ok {
		t.Fatal("expected *model")
	}

	ticket := m.poller.Begin("doc-a")
	out := m.poller.Apply(ticket, lifecycle.StatusOCRProcessing)
	if out.Next != 700*time.Millisecond {
		t.Fatalf("poll interval = %v, want the configured 700ms", out.Next)
	}
}

func TestFileReadyForOtherSelectionIgnored(t *testing.T) {
	m := newTestModel(t)
	seedDocs(m)
	m.toggleDocument("doc-a")

	m.handleFileReady(fileReadyMsg{docID: "doc-b", path: "/cache/doc-b.pdf", pages: 12})
	if m.filePath != "" || m.pageCount != 0 {
		t.Fatal("file result for an unselected document should be ignored")
	}
}

func TestDocumentsRefreshDropsVanishedSelection(t *testing.T) {
	m := newTestModel(t)
	seedDocs(m)
	m.toggleDocument("doc-a")

	m.handleDocuments(documentsMsg{docs: []api.Document{
		{ID: "doc-b", Filename: "beta.pdf", Status: lifecycle.StatusOCRProcessing},
	}})
	if m.sess.Selected() {
		t.Fatal("selection should clear when the document leaves the workspace")
	}
	if m.poller.State() != lifecycle.StateIdle {
		t.Fatalf("poller should stop, state = %v", m.poller.State())
	}
}

func TestViewShowsGettingStartedWithoutSelection(t *testing.T) {
	m := newTestModel(t)

	content := m.buildViewerContent()
	if !strings.Contains(content, "Getting started") {
		t.Fatalf("empty viewer should show onboarding, got:\n%s", content)
	}
	if !strings.Contains(content, "Ask a question") {
		t.Fatalf("onboarding should mention asking questions, got:\n%s", content)
	}
}

func TestViewShowsProcessingStage(t *testing.T) {
	m := newTestModel(t)
	seedDocs(m)
	m.toggleDocument("doc-b")
	ticket, _ := m.poller.Retry()
	m.handleDocumentDetail(documentDetailMsg{
		ticket: ticket,
		doc:    &api.Document{ID: "doc-b", Filename: "beta.pdf", Status: lifecycle.StatusOCRProcessing},
	})

	content := m.buildViewerContent()
	if !strings.Contains(content, "OCR is reading each page") {
		t.Fatalf("viewer should explain the pipeline stage, got:\n%s", content)
	}
}

func TestViewShowsFailureMessage(t *testing.T) {
	m := newTestModel(t)
	seedDocs(m)
	m.toggleDocument("doc-a")
	ticket, _ := m.poller.Retry()
	m.handleDocumentDetail(documentDetailMsg{
		ticket: ticket,
		doc: &api.Document{
			ID: "doc-a", Filename: "alpha.pdf",
			Status: lifecycle.StatusFailed, ErrorMessage: "OCR engine crashed on page 3",
		},
	})

	content := m.buildViewerContent()
	if !strings.Contains(content, "OCR engine crashed on page 3") {
		t.Fatalf("viewer should show the backend error verbatim, got:\n%s", content)
	}
}

func TestNewThreadClearsCitations(t *testing.T) {
	m := newTestModel(t)
	m.citations = []api.SearchHit{{DocumentID: "doc-a", Metadata: api.HitMetadata{Page: 1}}}
	m.citationIdx = 0
	oldID := m.thread.ID

	m.startNewThread()
	if m.thread.ID == oldID {
		t.Fatal("new thread should get a fresh id")
	}
	if len(m.citations) != 0 || m.citationIdx != -1 {
		t.Fatal("citations should reset with the thread")
	}
}
