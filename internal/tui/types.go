package tui

import "time"

type panel int

const (
	panelSidebar panel = iota
	panelViewer
	panelChat
)

var panelSequence = []panel{panelSidebar, panelViewer, panelChat}

const heroTagline = "Ask your documents, land on the answer."

const (
	minViewerWidth   = 40
	sidebarWidth     = 28
	panelGutterWidth = 2
	toastLifetime    = 3 * time.Second
)

type composerMode int

const (
	composerModeQuestion composerMode = iota
	composerModeUpload
)

const (
	composerQuestionPlaceholder = "Ask about your documents…"
	composerUploadPlaceholder   = "Path to a PDF to upload…"
)

// toast is a transient confirmation. Poll failures do not use toasts;
// they stay on screen until retried or the selection changes.
type toast struct {
	id   int
	text string
}

// pendingJump is a citation location waiting out the settle window. Only
// the newest jump survives; seq ties the settle timer to the jump that
// armed it.
type pendingJump struct {
	seq  int
	page int
	bbox [][]float64
}
