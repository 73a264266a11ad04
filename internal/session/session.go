// Package session holds the one shared notion of which document, page,
// and chat thread are active. All panels read it; it changes only through
// explicit user actions. The context round-trips through a query string
// (doc, page, thread) so a view can be reproduced from a saved link, and
// the last state is persisted so a relaunch lands where the user left off.
package session

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	paramDoc    = "doc"
	paramPage   = "page"
	paramThread = "thread"
)

// Context is the current selection. A zero DocumentID means no document is
// selected. Page is always >= 1 while a document is selected.
type Context struct {
	DocumentID string
	Page       int
	ThreadID   string
}

// Selected reports whether a document is active.
func (c Context) Selected() bool {
	return c.DocumentID != ""
}

// Select makes docID the active document and resets the page to 1. Callers
// that need to land on a specific page use SelectAt; a citation jump is a
// transient viewer action and must not come through here.
func (c *Context) Select(docID string) {
	c.SelectAt(docID, 1)
}

// SelectAt makes docID active on an explicit page.
func (c *Context) SelectAt(docID string, page int) {
	if page < 1 {
		page = 1
	}
	c.DocumentID = docID
	c.Page = page
}

// Toggle selects docID, or deselects it when it is already the active
// document (clicking the highlighted list entry clears the selection).
// Returns true when a document is selected afterwards.
func (c *Context) Toggle(docID string) bool {
	if c.DocumentID == docID {
		c.Deselect()
		return false
	}
	c.Select(docID)
	return true
}

// Deselect clears the document and page. The thread survives; a chat
// conversation is not tied to the viewer's lifetime.
func (c *Context) Deselect() {
	c.DocumentID = ""
	c.Page = 0
}

// Encode renders the context as a deep-linkable query string. Empty fields
// are omitted; an empty context encodes to "".
func (c Context) Encode() string {
	v := url.Values{}
	if c.DocumentID != "" {
		v.Set(paramDoc, c.DocumentID)
		v.Set(paramPage, strconv.Itoa(c.Page))
	}
	if c.ThreadID != "" {
		v.Set(paramThread, c.ThreadID)
	}
	return v.Encode()
}

// Decode parses a query string produced by Encode (a leading "?" is
// tolerated). A missing or unparseable page falls back to 1 when a
// document is present.
func Decode(raw string) (Context, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "?")
	if raw == "" {
		return Context{}, nil
	}
	v, err := url.ParseQuery(raw)
	if err != nil {
		return Context{}, fmt.Errorf("parse session link: %w", err)
	}
	c := Context{
		DocumentID: v.Get(paramDoc),
		ThreadID:   v.Get(paramThread),
	}
	if c.DocumentID != "" {
		c.Page = 1
		if p, err := strconv.Atoi(v.Get(paramPage)); err == nil && p >= 1 {
			c.Page = p
		}
	}
	return c, nil
}

// Load reads the persisted context from path. A missing file is an empty
// context, not an error.
func Load(path string) (Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Context{}, nil
		}
		return Context{}, err
	}
	return Decode(string(data))
}

// Save persists the context to path, creating parent directories.
func Save(path string, c Context) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(c.Encode()+"\n"), 0o644)
}
