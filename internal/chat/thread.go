// Package chat models the question-and-answer transcript and persists it
// so a conversation can be resumed across sessions.
package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hquan/docdesk/internal/api"
)

// Message roles. Error messages are synthesized locally when a search
// fails; they live in the transcript like any other assistant turn so the
// failure stays visible in context.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleError     = "error"
)

// Message is one transcript entry. Hits are only present on assistant
// messages and carry the passages the answer was grounded on.
type Message struct {
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Hits      []api.SearchHit `json:"hits,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Thread is an append-only conversation. DocumentID records which document
// the thread was scoped to when it started; empty means workspace-wide.
type Thread struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	Messages   []Message `json:"messages,omitempty"`
}

// NewThread starts an empty conversation scoped to documentID.
func NewThread(documentID string) *Thread {
	return &Thread{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		StartedAt:  time.Now(),
	}
}

// AddUser appends the user's question. Blank questions are dropped and
// reported false so the caller can skip the round trip.
func (t *Thread) AddUser(content string) bool {
	content = strings.TrimSpace(content)
	if content == "" {
		return false
	}
	t.append(Message{Role: RoleUser, Content: content})
	return true
}

// AddAnswer appends a grounded assistant answer.
func (t *Thread) AddAnswer(answer string, hits []api.SearchHit) {
	t.append(Message{Role: RoleAssistant, Content: answer, Hits: hits})
}

// AddError appends a locally synthesized failure message.
func (t *Thread) AddError(detail string) {
	t.append(Message{Role: RoleError, Content: detail})
}

func (t *Thread) append(m Message) {
	m.Timestamp = time.Now()
	t.Messages = append(t.Messages, m)
}

// Last returns the most recent message, or nil on an empty thread.
func (t *Thread) Last() *Message {
	if len(t.Messages) == 0 {
		return nil
	}
	return &t.Messages[len(t.Messages)-1]
}

// LastHits returns the citations of the most recent assistant message, or
// nil when the latest exchange produced none.
func (t *Thread) LastHits() []api.SearchHit {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].Role == RoleAssistant {
			return t.Messages[i].Hits
		}
	}
	return nil
}
