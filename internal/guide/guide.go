// Package guide produces the getting-started checklist shown before any
// document is open.
package guide

import (
	"fmt"
	"strings"
)

// Step is one actionable item in the onboarding checklist.
type Step struct {
	Title       string
	Description string
	Done        bool
}

// Workspace carries just enough state to tailor the checklist.
type Workspace struct {
	BackendURL    string
	DocumentCount int
	InboxDir      string
	HasSelection  bool
}

// Build returns the checklist for the current workspace state. Steps already
// satisfied are marked done rather than dropped, so the list reads as
// progress instead of shrinking.
func Build(ws Workspace) []Step {
	backend := strings.TrimSpace(ws.BackendURL)
	if backend == "" {
		backend = "your backend"
	}

	steps := []Step{
		{
			Title:       "Add a document",
			Description: fmt.Sprintf("Press Ctrl+U and type a path to a PDF. It is uploaded to %s and appears in the sidebar while it is processed.", backend),
			Done:        ws.DocumentCount > 0,
		},
		{
			Title:       "Wait for Ready",
			Description: "Uploaded documents move through text extraction, chunking, and embedding. The sidebar glyph turns solid once a document is ready to answer questions.",
		},
		{
			Title:       "Open a document",
			Description: "Move the cursor with j/k and press Enter. The viewer shows one page at a time; h and l turn pages.",
			Done:        ws.HasSelection,
		},
		{
			Title:       "Ask a question",
			Description: "Type into the composer and press Enter. With a document open the search is scoped to it; with nothing selected the whole workspace is searched.",
		},
		{
			Title:       "Follow the citations",
			Description: "Answers carry page citations. n and p walk them, and the viewer jumps to the cited page with the passage highlighted.",
		},
	}

	if ws.InboxDir != "" {
		steps = append(steps, Step{
			Title:       "Or just drop files in",
			Description: fmt.Sprintf("PDFs saved to %s are picked up and uploaded automatically.", ws.InboxDir),
		})
	}
	return steps
}
