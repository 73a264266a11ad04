package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/hquan/docdesk/internal/lifecycle"
)

// Sentinel errors returned before any request is made. Callers branch on
// these to show a local validation message instead of a backend error.
var (
	ErrNotPDF       = errors.New("only PDF files can be uploaded")
	ErrFileTooLarge = errors.New("file exceeds the 10 MiB upload limit")
	ErrEmptyQuery   = errors.New("query cannot be empty")
)

// MaxUploadBytes is the client-side size cap for uploads.
const MaxUploadBytes = 10 << 20

// Document is a backend document record. Status drives the polling loop;
// OCRText and FileURL are only populated once processing is far enough
// along, and ErrorMessage only when Status is FAILED.
type Document struct {
	ID           string           `json:"id"`
	Filename     string           `json:"filename"`
	Status       lifecycle.Status `json:"status"`
	OCRText      string           `json:"ocr_text,omitempty"`
	ErrorMessage string           `json:"error_message,omitempty"`
	FileURL      string           `json:"file_url,omitempty"`
	CreatedAt    string           `json:"created_at,omitempty"`
}

type documentList struct {
	Documents []Document `json:"document_list"`
}

// uploadReply is the body of POST /upload. The backend reports failures
// in-band: HTTP 200 with status "error" and a message.
type uploadReply struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// SearchRequest is the body of POST /search. DocumentID narrows retrieval
// to one document; empty searches the whole workspace.
type SearchRequest struct {
	Query      string `json:"query"`
	TopK       int    `json:"top_k"`
	DocumentID string `json:"document_id,omitempty"`
}

// SearchResponse is a grounded answer plus the passages it drew from.
type SearchResponse struct {
	Answer string      `json:"answer"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit is one retrieved passage. Distance is an opaque ranking key;
// hits arrive already ordered and are never re-sorted. The source location
// lives under metadata, where the OCR stage put it.
type SearchHit struct {
	ChunkID    string      `json:"chunk_id"`
	Distance   float64     `json:"distance"`
	Text       string      `json:"text"`
	DocumentID string      `json:"document_id"`
	ChunkIndex int         `json:"chunk_index"`
	Metadata   HitMetadata `json:"metadata"`
}

// HitMetadata locates a hit inside the document's rendered pages.
type HitMetadata struct {
	Page PageNumber  `json:"page"`
	BBox [][]float64 `json:"bbox,omitempty"`
}

// Page returns the hit's 1-based page number, zero when unknown.
func (h SearchHit) Page() int { return int(h.Metadata.Page) }

// BBox returns the hit's bounding quadrilateral, nil when absent.
func (h SearchHit) BBox() [][]float64 { return h.Metadata.BBox }

// PageNumber decodes from either a JSON number or a numeric string. Some
// extraction pipelines emit page metadata as strings; a hit with an
// undecodable page keeps zero, which the viewer treats as "no location".
type PageNumber int

func (p *PageNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			*p = 0
			return nil
		}
		*p = PageNumber(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("page: %w", err)
	}
	*p = PageNumber(n)
	return nil
}
