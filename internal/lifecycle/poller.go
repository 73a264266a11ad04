package lifecycle

import "time"

// State is the poller's coarse mode.
type State int

const (
	// StateIdle means no document is selected; nothing is fetched.
	StateIdle State = iota
	// StatePolling means detail fetches are being scheduled for one document.
	StatePolling
	// StateTerminal means the last observed status was terminal and no
	// further fetches will be scheduled.
	StateTerminal
)

// Ticket tags one outstanding detail fetch with the selection it was issued
// for. Results are applied only while their ticket is still current, so a
// slow response for a previously selected document can never overwrite the
// view of the current one.
type Ticket struct {
	DocID string
	Epoch uint64
}

// Outcome describes what a poll result did to the state machine.
type Outcome struct {
	// Applied is false when the result was stale and discarded.
	Applied bool
	// Next is the delay before the next fetch; zero means polling stopped.
	Next time.Duration
	// Terminal reports whether the applied status ended the polling loop.
	Terminal bool
}

// Poller is the client-side lifecycle state machine for the selected
// document. It never issues fetches itself; the caller schedules them with
// the intervals the poller hands back. Not safe for concurrent use; it is
// driven from a single event loop.
type Poller struct {
	state    State
	docID    string
	epoch    uint64
	status   Status
	failed   bool
	interval time.Duration
}

// NewPoller returns an idle poller using the default interval.
func NewPoller() *Poller {
	return &Poller{interval: PollInterval}
}

// SetInterval overrides the delay between detail fetches. Non-positive
// values restore the default.
func (p *Poller) SetInterval(d time.Duration) {
	if d <= 0 {
		d = PollInterval
	}
	p.interval = d
}

// Begin starts (or restarts) polling for docID and returns the ticket that
// must accompany every fetch result. Beginning a new document invalidates
// all tickets from earlier selections; that is the only cancellation path.
func (p *Poller) Begin(docID string) Ticket {
	p.epoch++
	p.state = StatePolling
	p.docID = docID
	p.status = ""
	p.failed = false
	return Ticket{DocID: docID, Epoch: p.epoch}
}

// Stop drops interest in the current document. Outstanding tickets become
// stale and their results will be discarded.
func (p *Poller) Stop() {
	p.epoch++
	p.state = StateIdle
	p.docID = ""
	p.status = ""
	p.failed = false
}

// Current reports whether the ticket still matches the live selection.
// Scheduled fetch timers check this before issuing their request so a
// timer armed for a previous selection dies silently.
func (p *Poller) Current(t Ticket) bool {
	return p.state != StateIdle && t.Epoch == p.epoch && t.DocID == p.docID
}

// Apply records a successfully fetched status. Stale results are discarded
// and leave the machine untouched.
func (p *Poller) Apply(t Ticket, status Status) Outcome {
	if !p.Current(t) {
		return Outcome{}
	}
	p.status = status
	p.failed = false
	if status.Terminal() {
		p.state = StateTerminal
		return Outcome{Applied: true, Terminal: true}
	}
	p.state = StatePolling
	return Outcome{Applied: true, Next: p.interval}
}

// Fail records a fetch error for the current ticket. The last good status
// stays visible underneath the error; polling pauses until the user retries.
// Returns false when the error belonged to a stale ticket.
func (p *Poller) Fail(t Ticket) bool {
	if !p.Current(t) {
		return false
	}
	p.failed = true
	return true
}

// Retry re-arms a failed polling session and returns a fresh ticket for the
// manual refetch. It is a no-op ticket when the poller is idle.
func (p *Poller) Retry() (Ticket, bool) {
	if p.state == StateIdle {
		return Ticket{}, false
	}
	p.failed = false
	p.state = StatePolling
	return Ticket{DocID: p.docID, Epoch: p.epoch}, true
}

// State returns the coarse mode.
func (p *Poller) State() State { return p.state }

// DocID returns the document the poller is watching, or "" when idle.
func (p *Poller) DocID() string { return p.docID }

// Status returns the last applied status ("" before the first result).
func (p *Poller) Status() Status { return p.status }

// Failed reports whether the most recent fetch for the live ticket errored.
func (p *Poller) Failed() bool { return p.failed }
