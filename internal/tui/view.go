package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/hquan/docdesk/internal/api"
	"github.com/hquan/docdesk/internal/chat"
	"github.com/hquan/docdesk/internal/guide"
	"github.com/hquan/docdesk/internal/lifecycle"
)

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	m.refreshViewerIfDirty()
	m.refreshChatIfDirty()

	sidebar := m.panelFrame(panelSidebar, m.sidebarView())
	main := lipgloss.JoinVertical(
		lipgloss.Left,
		m.panelFrame(panelViewer, m.viewerVP.View()),
		m.panelFrame(panelChat, m.chatVP.View()),
		m.composerView(),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)

	return joinNonEmpty([]string{
		m.headerView(),
		body,
		m.noticeView(),
		m.footerView(),
	})
}

func (m *model) panelFrame(p panel, body string) string {
	if m.focus == p {
		return panelFocusStyle.Render(body)
	}
	return panelBorderStyle.Render(body)
}

func (m *model) headerView() string {
	return lipgloss.JoinHorizontal(
		lipgloss.Bottom,
		titleStyle.Render("DocDesk"),
		"  ",
		taglineStyle.Render(heroTagline),
	)
}

func (m *model) sidebarView() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Documents"))
	b.WriteRune('\n')
	if m.listErr != "" {
		b.WriteString(errorStyle.Render(wordwrap.String(m.listErr, m.layout.sidebarWidth-2)))
		b.WriteRune('\n')
		b.WriteString(helperStyle.Render("Press r to reload."))
		return b.String()
	}
	if len(m.docs) == 0 {
		b.WriteString(helperStyle.Render("No documents yet."))
		b.WriteRune('\n')
		b.WriteString(helperStyle.Render("Ctrl+U uploads a PDF."))
		return b.String()
	}
	for i, doc := range m.docs {
		name := previewText(doc.Filename, m.layout.sidebarWidth-8)
		line := fmt.Sprintf("%s %s", statusGlyph(doc.Status), name)
		switch {
		case doc.ID == m.sess.DocumentID:
			line = selectedStyle.Render(line)
		case i == m.docCursor && m.focus == panelSidebar:
			line = cursorStyle.Render("▸ " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteRune('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func statusGlyph(s lifecycle.Status) string {
	switch {
	case s == lifecycle.StatusFailed:
		return statusFailedStyle.Render("✗")
	case s.Terminal():
		return statusReadyStyle.Render("●")
	default:
		return statusWorkingStyle.Render("…")
	}
}

func (m *model) refreshViewerIfDirty() {
	if !m.viewerDirty {
		return
	}
	m.viewerDirty = false
	m.viewerVP.SetContent(m.buildViewerContent())
}

func (m *model) buildViewerContent() string {
	cb := &contentBuilder{}
	doc := m.selectedDocument()
	if doc == nil {
		cb.WriteString(sectionHeaderStyle.Render("Getting started"))
		cb.WriteRune('\n')
		steps := guide.Build(guide.Workspace{
			BackendURL:    m.config.Settings.BackendURL,
			DocumentCount: len(m.docs),
			InboxDir:      m.config.Settings.InboxDir,
			HasSelection:  m.sess.Selected(),
		})
		for _, step := range steps {
			mark := "[ ]"
			if step.Done {
				mark = "[x]"
			}
			cb.WriteRune('\n')
			cb.WriteString(fmt.Sprintf("%s %s", mark, titleStyle.Render(step.Title)))
			cb.WriteRune('\n')
			cb.WriteString(indentMultiline(helperStyle.Render(wordwrap.String(step.Description, m.wrapWidth(8))), "    "))
			cb.WriteRune('\n')
		}
		return cb.String()
	}

	cb.WriteString(sectionHeaderStyle.Render(doc.Filename))
	cb.WriteRune('\n')
	cb.WriteString(m.statusBandView(doc))
	cb.WriteRune('\n')

	if m.pollErr != "" {
		cb.WriteString(errorStyle.Render(m.pollErr))
		cb.WriteRune('\n')
	}

	switch {
	case doc.Status == lifecycle.StatusFailed:
		cb.WriteRune('\n')
		cb.WriteString(errorStyle.Render("Processing failed."))
		cb.WriteRune('\n')
		if doc.ErrorMessage != "" {
			cb.WriteString(indentMultiline(wordwrap.String(doc.ErrorMessage, m.wrapWidth(4)), "  "))
			cb.WriteRune('\n')
		}
	case !doc.Status.Terminal():
		cb.WriteRune('\n')
		cb.WriteString(helperStyle.Render(doc.Status.Description()))
		cb.WriteRune('\n')
	default:
		m.writePageView(cb, doc)
	}
	return cb.String()
}

func (m *model) statusBandView(doc *api.Document) string {
	stage, total := doc.Status.Progress()
	label := doc.Status.Label()
	switch {
	case doc.Status == lifecycle.StatusFailed:
		return statusFailedStyle.Render(label)
	case doc.Status.Terminal():
		return statusReadyStyle.Render(label)
	default:
		bar := strings.Repeat("█", stage) + strings.Repeat("░", total-stage)
		working := fmt.Sprintf("%s %s  %s", m.spinner.View(), label, bar)
		return statusWorkingStyle.Render(working)
	}
}

func (m *model) writePageView(cb *contentBuilder, doc *api.Document) {
	cb.WriteRune('\n')
	if m.pageCount > 0 {
		cb.WriteString(helperStyle.Render(fmt.Sprintf("Page %d of %d  (h/l to turn, g/G first/last)", m.currentPage(), m.pageCount)))
	} else {
		cb.WriteString(helperStyle.Render(fmt.Sprintf("Page %d", m.currentPage())))
	}
	cb.WriteRune('\n')
	if len(m.highlight) > 0 {
		cb.WriteString(citationFocusStyle.Render(" cited region on this page "))
		cb.WriteRune('\n')
	}
	cb.WriteRune('\n')

	switch {
	case m.fileErr != "":
		cb.WriteString(errorStyle.Render(wordwrap.String(m.fileErr, m.wrapWidth(2))))
		cb.WriteRune('\n')
		if doc.OCRText != "" {
			cb.WriteString(helperStyle.Render("Showing extracted text instead."))
			cb.WriteRune('\n')
			cb.WriteRune('\n')
			cb.WriteString(wordwrap.String(doc.OCRText, m.wrapWidth(2)))
		}
	case m.pageText != "" && m.pageFor == m.currentPage():
		cb.WriteString(wordwrap.String(m.pageText, m.wrapWidth(2)))
		cb.WriteRune('\n')
	case m.filePath != "":
		cb.WriteString(helperStyle.Render(fmt.Sprintf("%s Rendering page…", m.spinner.View())))
		cb.WriteRune('\n')
	case doc.OCRText != "":
		cb.WriteString(wordwrap.String(doc.OCRText, m.wrapWidth(2)))
		cb.WriteRune('\n')
	default:
		cb.WriteString(helperStyle.Render("The document file is being fetched."))
		cb.WriteRune('\n')
	}
}

func (m *model) refreshChatIfDirty() {
	if !m.chatDirty {
		return
	}
	m.chatDirty = false
	m.chatVP.SetContent(m.buildChatContent())
	m.chatVP.GotoBottom()
}

func (m *model) buildChatContent() string {
	cb := &contentBuilder{}
	cb.WriteString(sectionHeaderStyle.Render("Chat"))
	cb.WriteRune('\n')
	if len(m.thread.Messages) == 0 {
		cb.WriteString(helperStyle.Render("Ask a question below. Answers cite the pages they came from."))
		return cb.String()
	}
	wrap := m.wrapWidth(4)
	lastAssistant := -1
	for i := len(m.thread.Messages) - 1; i >= 0; i-- {
		if m.thread.Messages[i].Role == chat.RoleAssistant {
			lastAssistant = i
			break
		}
	}
	for i, msg := range m.thread.Messages {
		cb.WriteString(helperStyle.Render(transcriptLabel(msg.Role)))
		cb.WriteRune('\n')
		body := msg.Content
		if msg.Role == chat.RoleError {
			body = errorStyle.Render(body)
		}
		cb.WriteString(indentMultiline(wordwrap.String(body, wrap), "  "))
		cb.WriteRune('\n')
		if len(msg.Hits) > 0 {
			m.writeCitations(cb, msg.Hits, i == lastAssistant)
		}
		cb.WriteRune('\n')
	}
	if m.busy {
		cb.WriteString(helperStyle.Render(fmt.Sprintf("%s Searching…", m.spinner.View())))
		cb.WriteRune('\n')
	}
	return strings.TrimRight(cb.String(), "\n")
}

// writeCitations renders the citation strip under an answer. Only the
// latest answer's citations are cyclable; focus follows m.citationIdx.
func (m *model) writeCitations(cb *contentBuilder, hits []api.SearchHit, active bool) {
	for i, hit := range hits {
		where := "no page"
		if hit.Page() > 0 {
			where = fmt.Sprintf("p.%d", hit.Page())
		}
		if hit.DocumentID != "" && hit.DocumentID != m.sess.DocumentID {
			where += " (other document)"
		}
		line := fmt.Sprintf("  [%d] %s  %s", i+1, where, previewText(hit.Text, 60))
		if active && i == m.citationIdx {
			cb.WriteString(citationFocusStyle.Render(line))
		} else {
			cb.WriteString(citationStyle.Render(line))
		}
		cb.WriteRune('\n')
	}
}

func (m *model) composerView() string {
	label := "Ask"
	if m.composerMode == composerModeUpload {
		label = "Upload"
	}
	hint := "Enter: ask • Ctrl+U: upload • Ctrl+N: new thread • Tab: switch panel"
	if m.composerMode == composerModeUpload {
		hint = "Enter: upload path • Esc: back to questions"
	}
	return joinNonEmpty([]string{
		sectionHeaderStyle.Render(label),
		m.composer.View(),
		helperStyle.Render(hint),
	})
}

func (m *model) noticeView() string {
	if len(m.toasts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		parts = append(parts, toastStyle.Render(t.text))
	}
	return strings.Join(parts, "  ")
}

func (m *model) footerView() string {
	stats := []string{
		fmt.Sprintf("Docs %d", len(m.docs)),
	}
	if doc := m.selectedDocument(); doc != nil {
		stats = append(stats, fmt.Sprintf("Viewing %s", previewText(doc.Filename, 24)))
	} else {
		stats = append(stats, "Workspace-wide search")
	}
	if m.busy {
		stats = append(stats, "Searching…")
	}
	if n := len(m.citations); n > 0 {
		pos := "-"
		if m.citationIdx >= 0 {
			pos = fmt.Sprintf("%d", m.citationIdx+1)
		}
		stats = append(stats, fmt.Sprintf("Citations %s/%d (n/p)", pos, n))
	}
	for _, snap := range m.runningJobs {
		stats = append(stats, fmt.Sprintf("%s…", snap.Kind))
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewerVP.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n")
}

func transcriptLabel(role string) string {
	switch role {
	case chat.RoleUser:
		return "You"
	case chat.RoleAssistant:
		return "Desk"
	case chat.RoleError:
		return "Error"
	default:
		return role
	}
}
