// Package export renders chat threads to markdown so an answer and the
// passages behind it can leave the terminal.
package export

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/hquan/docdesk/internal/chat"
)

// excerptBudget caps how many runes of a cited passage make it into the
// sources section.
const excerptBudget = 600

var whitespaceSanity = regexp.MustCompile(`\s+`)

// Source is one deduplicated cited passage.
type Source struct {
	ID         string
	DocumentID string
	Page       int
	Text       string
	Distance   float64
}

// Sources collects every citation in the thread, drops repeats of the same
// passage, and keeps the backend's retrieval order.
func Sources(t *chat.Thread) []Source {
	if t == nil {
		return nil
	}
	seen := map[string]bool{}
	var sources []Source
	for _, msg := range t.Messages {
		if msg.Role != chat.RoleAssistant {
			continue
		}
		for _, hit := range msg.Hits {
			text := strings.TrimSpace(hit.Text)
			if text == "" {
				continue
			}
			id := hashPassage(canonicalPassage(text))
			if seen[id] {
				continue
			}
			seen[id] = true
			sources = append(sources, Source{
				ID:         id,
				DocumentID: hit.DocumentID,
				Page:       hit.Page(),
				Text:       clip(text, excerptBudget),
				Distance:   hit.Distance,
			})
		}
	}
	return sources
}

// Markdown renders the thread as a standalone markdown document: the
// conversation in order, then the deduplicated sources behind it.
func Markdown(t *chat.Thread, title string) string {
	if t == nil || len(t.Messages) == 0 {
		return ""
	}
	if strings.TrimSpace(title) == "" {
		title = "Conversation"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Started %s\n\n", t.StartedAt.Format("2006-01-02 15:04"))
	if t.DocumentID != "" {
		fmt.Fprintf(&b, "Scoped to document `%s`\n\n", t.DocumentID)
	}

	for _, msg := range t.Messages {
		switch msg.Role {
		case chat.RoleUser:
			fmt.Fprintf(&b, "**Q:** %s\n\n", msg.Content)
		case chat.RoleAssistant:
			fmt.Fprintf(&b, "%s\n\n", msg.Content)
			if len(msg.Hits) > 0 {
				pages := make([]string, 0, len(msg.Hits))
				for _, hit := range msg.Hits {
					pages = append(pages, fmt.Sprintf("p.%d", hit.Page()))
				}
				fmt.Fprintf(&b, "_Cites %s_\n\n", strings.Join(pages, ", "))
			}
		case chat.RoleError:
			fmt.Fprintf(&b, "> search failed: %s\n\n", msg.Content)
		}
	}

	sources := Sources(t)
	if len(sources) > 0 {
		b.WriteString("## Sources\n\n")
		for _, src := range sources {
			fmt.Fprintf(&b, "### %s, page %d\n\n", src.DocumentID, src.Page)
			for _, line := range strings.Split(src.Text, "\n") {
				fmt.Fprintf(&b, "> %s\n", line)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func canonicalPassage(text string) string {
	return whitespaceSanity.ReplaceAllString(strings.TrimSpace(text), " ")
}

func hashPassage(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

func clip(text string, budget int) string {
	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}
	return strings.TrimSpace(string(runes[:budget])) + "…"
}
