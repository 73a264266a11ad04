// Package navigate carries jump-to-source signals from the chat panel to
// the document viewer. The two panels never reference each other; they
// share a Bus injected into both, so the coupling is visible in their
// constructors instead of living in ambient global state.
package navigate

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hquan/docdesk/internal/logger"
)

// Signal is an ephemeral page+region target. Page is 1-based as delivered
// by the OCR stage; the consumer translates to whatever indexing its
// rendering surface needs. BBox is the source quadrilateral, four (x, y)
// pairs, passed through untouched.
type Signal struct {
	Page int
	BBox [][]float64
}

// ErrInvalidSignal reports a citation payload that cannot become a jump
// target. In lenient mode it is logged and swallowed; in strict mode the
// publisher sees it.
var ErrInvalidSignal = errors.New("navigate: invalid signal")

// ErrDropped reports a publish with no live subscriber. Informational;
// publish is fire-and-forget either way.
var ErrDropped = errors.New("navigate: no subscriber, signal dropped")

// Mode selects what Publish does with malformed payloads.
type Mode int

const (
	// ModeLenient logs malformed signals and drops them silently, the
	// behavior the original design shipped with.
	ModeLenient Mode = iota
	// ModeStrict returns the validation error to the publisher so it can
	// surface the problem to the user.
	ModeStrict
)

// Bus is a single-channel, fire-and-forget signal conduit scoped to one
// process. At most one subscriber is active at a time; publishing without
// one drops the signal; a signal not yet consumed is replaced by a newer
// one, so the consumer always sees the latest target.
type Bus struct {
	mode Mode

	mu     sync.Mutex
	ch     chan Signal
	cancel uint64
}

// NewBus returns an empty bus.
func NewBus(mode Mode) *Bus {
	return &Bus{mode: mode}
}

// Validate checks that a signal can be acted on: a positive page, and a
// bbox that is either absent or a quadrilateral of four coordinate pairs.
func Validate(s Signal) error {
	if s.Page <= 0 {
		return fmt.Errorf("%w: page %d", ErrInvalidSignal, s.Page)
	}
	if len(s.BBox) != 0 {
		if len(s.BBox) != 4 {
			return fmt.Errorf("%w: bbox has %d points, want 4", ErrInvalidSignal, len(s.BBox))
		}
		for i, pt := range s.BBox {
			if len(pt) != 2 {
				return fmt.Errorf("%w: bbox point %d has %d coordinates", ErrInvalidSignal, i, len(pt))
			}
		}
	}
	return nil
}

// Publish validates and delivers a signal. Delivery is synchronous,
// non-blocking and unacknowledged: an undelivered older signal is
// discarded first so the newest target wins.
func (b *Bus) Publish(s Signal) error {
	if err := Validate(s); err != nil {
		if b.mode == ModeStrict {
			return err
		}
		logger.Warn("%v", err)
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ch == nil {
		logger.Debug("navigate: publish page=%d with no subscriber", s.Page)
		return ErrDropped
	}
	select {
	case <-b.ch: // stale pending signal, superseded
	default:
	}
	b.ch <- s
	return nil
}

// Subscribe attaches the single consumer and returns its delivery channel
// plus a detach function. Subscribing again displaces the previous
// subscriber, which covers a viewer being torn down and remounted.
func (b *Bus) Subscribe() (<-chan Signal, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancel++
	token := b.cancel
	ch := make(chan Signal, 1)
	b.ch = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.cancel == token {
			b.ch = nil
		}
	}
}
