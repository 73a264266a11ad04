package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hquan/docdesk/internal/api"
	"github.com/hquan/docdesk/internal/docfile"
	"github.com/hquan/docdesk/internal/lifecycle"
	"github.com/hquan/docdesk/internal/navigate"
)

func listDocumentsJob(client *api.Client) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 30*time.Second)
		defer cancel()
		docs, err := client.ListDocuments(ctx)
		return documentsMsg{docs: docs, err: err}, err
	}
}

func documentDetailJob(client *api.Client, ticket lifecycle.Ticket) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 30*time.Second)
		defer cancel()
		doc, err := client.GetDocument(ctx, ticket.DocID)
		return documentDetailMsg{ticket: ticket, doc: doc, err: err}, err
	}
}

func searchJob(client *api.Client, threadID string, req api.SearchRequest) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 60*time.Second)
		defer cancel()
		res, err := client.Search(ctx, req)
		return searchResultMsg{threadID: threadID, documentID: req.DocumentID, res: res, err: err}, err
	}
}

func uploadJob(client *api.Client, path string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 2*time.Minute)
		defer cancel()
		filename, err := client.Upload(ctx, path)
		return uploadResultMsg{path: path, filename: filename, err: err}, err
	}
}

func fetchFileJob(cache *docfile.Cache, docID, fileURL string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 2*time.Minute)
		defer cancel()
		path, err := cache.Fetch(ctx, docID, fileURL)
		if err != nil {
			return fileReadyMsg{docID: docID, err: err}, err
		}
		pages, err := docfile.PageCount(path)
		if err != nil {
			return fileReadyMsg{docID: docID, err: err}, err
		}
		return fileReadyMsg{docID: docID, path: path, pages: pages}, nil
	}
}

func pageTextJob(docID, path string, page int) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		text, err := docfile.PageText(path, page)
		return pageTextMsg{docID: docID, page: page, text: text, err: err}, err
	}
}

// pollAfter schedules the next status fetch for the polled document. The
// ticket rides along so a reply that arrives after the selection moved on
// is recognized and dropped.
func pollAfter(ticket lifecycle.Ticket, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return pollTickMsg{ticket: ticket}
	})
}

// settleJump fires when a citation jump's settle window elapses. The
// model compares seq against the newest jump and ignores stale timers.
func settleJump(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return jumpSettledMsg{seq: seq}
	})
}

func expireToast(id int) tea.Cmd {
	return tea.Tick(toastLifetime, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// listenForJumps blocks on the navigation channel and delivers the next
// signal into the update loop. The handler re-arms it after each receive.
func listenForJumps(ch <-chan navigate.Signal) tea.Cmd {
	return func() tea.Msg {
		sig, ok := <-ch
		if !ok {
			return nil
		}
		return jumpSignalMsg{sig: sig}
	}
}

// listenForDrops delivers the next inbox drop, re-armed the same way.
func listenForDrops(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		path, ok := <-ch
		if !ok {
			return nil
		}
		return inboxDropMsg{path: path}
	}
}
