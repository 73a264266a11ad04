// Package lifecycle tracks a document's journey through the backend
// ingestion pipeline. The backend owns the status; this package only
// observes it, decides how soon to look again, and guards the observer
// against stale poll responses.
package lifecycle

import "time"

// Status is the backend-assigned pipeline stage for one uploaded document.
type Status string

const (
	StatusUploaded            Status = "UPLOADED"
	StatusOCRProcessing       Status = "OCR_PROCESSING"
	StatusOCRDone             Status = "OCR_DONE"
	StatusChunkDone           Status = "CHUNK_DONE"
	StatusEmbeddingProcessing Status = "EMBEDDING_PROCESSING"
	StatusEmbeddingDone       Status = "EMBEDDING_DONE"
	StatusFailed              Status = "FAILED"
)

// PollInterval is how long the poller waits between detail fetches while a
// document is still moving through the pipeline.
const PollInterval = 2000 * time.Millisecond

// Terminal reports whether the backend will never transition this status again.
func (s Status) Terminal() bool {
	return s == StatusEmbeddingDone || s == StatusFailed
}

// Known reports whether the status is one this client understands. Unknown
// statuses are kept verbatim and polled as non-terminal so that a newer
// backend with extra pipeline stages still converges.
func (s Status) Known() bool {
	switch s {
	case StatusUploaded, StatusOCRProcessing, StatusOCRDone, StatusChunkDone,
		StatusEmbeddingProcessing, StatusEmbeddingDone, StatusFailed:
		return true
	}
	return false
}

// NextInterval returns the delay before the next detail fetch, or zero when
// polling should stop. Pure function of the last observed status.
func NextInterval(s Status) time.Duration {
	if s.Terminal() {
		return 0
	}
	return PollInterval
}

// Label returns the short status-band caption for the viewer.
func (s Status) Label() string {
	switch s {
	case StatusUploaded:
		return "Uploaded"
	case StatusOCRProcessing:
		return "Extracting text"
	case StatusOCRDone:
		return "Text extracted"
	case StatusChunkDone:
		return "Chunked"
	case StatusEmbeddingProcessing:
		return "Embedding"
	case StatusEmbeddingDone:
		return "Ready"
	case StatusFailed:
		return "Failed"
	}
	if s == "" {
		return "Unknown"
	}
	return string(s)
}

// Description returns a one-line explanation of what the pipeline is doing
// at this stage, rendered under the status band while the user waits.
func (s Status) Description() string {
	switch s {
	case StatusUploaded:
		return "The file reached the server and is queued for text extraction."
	case StatusOCRProcessing:
		return "OCR is reading each page. Larger scans take longer."
	case StatusOCRDone:
		return "Text extraction finished; the document is being split into passages."
	case StatusChunkDone:
		return "Passages are queued for embedding."
	case StatusEmbeddingProcessing:
		return "Passages are being embedded for retrieval."
	case StatusEmbeddingDone:
		return "The document is fully indexed and ready for questions."
	case StatusFailed:
		return "The pipeline gave up on this document."
	}
	return "The backend reported a stage this client does not recognize."
}

// Progress reports how far through the pipeline the status is, as
// (stage, total) for a simple progress affordance. Failed and unknown
// statuses report stage 0.
func (s Status) Progress() (int, int) {
	const total = 6
	switch s {
	case StatusUploaded:
		return 1, total
	case StatusOCRProcessing:
		return 2, total
	case StatusOCRDone:
		return 3, total
	case StatusChunkDone:
		return 4, total
	case StatusEmbeddingProcessing:
		return 5, total
	case StatusEmbeddingDone:
		return total, total
	}
	return 0, total
}
